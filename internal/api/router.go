package api

import (
	"context"
	"net/http"
	"time"

	"sos-service/helper"
	"sos-service/internal/sos"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter assembles the HTTP surface: health, prometheus metrics and the SOS routes.
func NewRouter(handler *sos.SOSHandler, store Pinger, gatherer prometheus.Gatherer) *gin.Engine {

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			helper.SendError(c, http.StatusServiceUnavailable, err, helper.ErrInternal)
			return
		}
		helper.SendSuccess(c, http.StatusOK, "ok", nil)
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	sos.RegisterRoutes(r, handler)

	return r
}
