package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"sos-service/internal/sos"
	"sos-service/internal/user"
	"sos-service/pkg/database"
	"sos-service/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestRouter(t *testing.T, store Pinger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenSQL("sqlite", "")
	require.NoError(t, err)
	require.NoError(t, sos.AutoMigrate(db))
	require.NoError(t, user.AutoMigrate(db))

	reg := prometheus.NewRegistry()
	users := user.NewSQLDirectory(db)
	svc := sos.NewSOSService(sos.NewSQLRepository(db), users, sos.WithMetrics(metrics.New(reg)))

	return NewRouter(sos.NewSOSHandler(svc, users), store, reg)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, stubPinger{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	r = newTestRouter(t, stubPinger{err: errors.New("down")})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, stubPinger{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sos_sweep_duration_seconds")
}

func TestSOSRoutesAreSecured(t *testing.T) {
	r := newTestRouter(t, stubPinger{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sos/leaderboard", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
