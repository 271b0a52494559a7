package sos

import (
	"fmt"
	"net/http"

	"sos-service/helper"
	"sos-service/internal/models"
	"sos-service/internal/user"
	"sos-service/pkg/constants"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

type SOSHandler struct {
	sosService SOSService
	users      user.Directory
}

func NewSOSHandler(sosService SOSService, users user.Directory) *SOSHandler {
	return &SOSHandler{
		sosService: sosService,
		users:      users,
	}
}

// caller resolves the authenticated username to a directory user. It writes the
// error response itself and returns nil when the request should stop.
func (h *SOSHandler) caller(c *gin.Context) *user.User {

	username := c.GetString(constants.Username)
	if username == "" {
		helper.SendError(c, http.StatusUnauthorized, fmt.Errorf("unauthenticated"), helper.ErrUnauthorized)
		return nil
	}

	u, err := h.users.FindByUsername(c, username)
	if err != nil {
		helper.SendError(c, http.StatusInternalServerError, err, helper.ErrInternal)
		return nil
	}
	if u == nil {
		helper.SendError(c, http.StatusUnauthorized, fmt.Errorf("unknown user %s", username), helper.ErrUnauthorized)
		return nil
	}

	return u
}

func (h *SOSHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
	case errors.Is(err, ErrNotFound):
		helper.SendError(c, http.StatusNotFound, err, helper.ErrNotFound)
	case errors.Is(err, ErrForbidden):
		helper.SendError(c, http.StatusForbidden, err, helper.ErrForbidden)
	case errors.Is(err, ErrInvalidState):
		helper.SendError(c, http.StatusConflict, err, helper.ErrInvalidState)
	case errors.Is(err, ErrConflict):
		helper.SendError(c, http.StatusConflict, err, helper.ErrConflict)
	default:
		helper.SendError(c, http.StatusInternalServerError, err, helper.ErrInternal)
	}
}

func (h *SOSHandler) sendAlert(c *gin.Context, status int, viewerID string, item *NearbyAlert) {

	views, err := h.sosService.AlertViews(c, viewerID, []*NearbyAlert{item})
	if err != nil {
		h.fail(c, err)
		return
	}

	helper.SendSuccess(c, status, "success", views[0])
}

func (h *SOSHandler) sendAlerts(c *gin.Context, viewerID string, items []*NearbyAlert) {

	views, err := h.sosService.AlertViews(c, viewerID, items)
	if err != nil {
		h.fail(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", views)
}

func (h *SOSHandler) sendResponses(c *gin.Context, status int, responses ...*models.Response) {

	views, err := h.sosService.ResponseViews(c, responses)
	if err != nil {
		h.fail(c, err)
		return
	}

	helper.SendSuccess(c, status, "success", views)
}

func (h *SOSHandler) CreateAlert(c *gin.Context) {

	var req CreateAlertRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	pos, err := positionFrom(req.Latitude, req.Longitude)
	if err != nil {
		h.fail(c, err)
		return
	}

	me := h.caller(c)
	if me == nil {
		return
	}

	alert, err := h.sosService.CreateAlert(c, me.ID, NewAlert{
		Position:    pos,
		Address:     req.Address,
		Category:    models.Category(req.Category),
		Description: req.Description,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.sendAlert(c, http.StatusCreated, me.ID, &NearbyAlert{Alert: alert})
}

func (h *SOSHandler) CancelAlert(c *gin.Context) {

	me := h.caller(c)
	if me == nil {
		return
	}

	alert, err := h.sosService.CancelAlert(c, me.ID, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.sendAlert(c, http.StatusOK, me.ID, &NearbyAlert{Alert: alert})
}

func (h *SOSHandler) GetActiveAlerts(c *gin.Context) {

	var q ActiveAlertsQuery

	if err := c.ShouldBindQuery(&q); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	origin, err := positionFrom(q.Latitude, q.Longitude)
	if err != nil {
		h.fail(c, err)
		return
	}

	me := h.caller(c)
	if me == nil {
		return
	}

	items, err := h.sosService.FindActive(c, origin, q.RadiusKm)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.sendAlerts(c, me.ID, items)
}

func (h *SOSHandler) GetMyAlerts(c *gin.Context) {

	me := h.caller(c)
	if me == nil {
		return
	}

	items, err := h.sosService.ListOwnAlerts(c, me.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.sendAlerts(c, me.ID, items)
}

func (h *SOSHandler) GetAlert(c *gin.Context) {

	var q PositionQuery

	if err := c.ShouldBindQuery(&q); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	origin, err := positionFrom(q.Latitude, q.Longitude)
	if err != nil {
		h.fail(c, err)
		return
	}

	me := h.caller(c)
	if me == nil {
		return
	}

	item, err := h.sosService.GetAlert(c, c.Param("id"), origin)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.sendAlert(c, http.StatusOK, me.ID, item)
}

func (h *SOSHandler) GetAlertResponses(c *gin.Context) {

	if me := h.caller(c); me == nil {
		return
	}

	responses, err := h.sosService.ListAlertResponses(c, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.sendResponses(c, http.StatusOK, responses...)
}

func (h *SOSHandler) Respond(c *gin.Context) {

	var req RespondRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	me := h.caller(c)
	if me == nil {
		return
	}

	response, err := h.sosService.Respond(c, me.ID, NewResponse{
		AlertID: req.AlertID,
		Type:    models.ResponseType(req.Type),
		Message: req.Message,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.sendResponses(c, http.StatusCreated, response)
}

func (h *SOSHandler) ConfirmResponse(c *gin.Context) {

	me := h.caller(c)
	if me == nil {
		return
	}

	response, err := h.sosService.Confirm(c, me.ID, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.sendResponses(c, http.StatusOK, response)
}

func (h *SOSHandler) GetMyResponses(c *gin.Context) {

	me := h.caller(c)
	if me == nil {
		return
	}

	responses, err := h.sosService.ListUserResponses(c, me.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.sendResponses(c, http.StatusOK, responses...)
}

func (h *SOSHandler) GetLeaderboard(c *gin.Context) {

	var q LeaderboardQuery

	if err := c.ShouldBindQuery(&q); err != nil {
		helper.SendError(c, http.StatusBadRequest, err, helper.ErrInvalidRequest)
		return
	}

	entries, err := h.sosService.TopN(c, q.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", entries)
}

func (h *SOSHandler) GetUnreadCount(c *gin.Context) {

	me := h.caller(c)
	if me == nil {
		return
	}

	count, err := h.sosService.UnreadCount(c, me.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", gin.H{"count": count})
}

func (h *SOSHandler) MarkRead(c *gin.Context) {

	me := h.caller(c)
	if me == nil {
		return
	}

	if err := h.sosService.MarkRead(c, me.ID); err != nil {
		h.fail(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", nil)
}

func (h *SOSHandler) Sweep(c *gin.Context) {

	if me := h.caller(c); me == nil {
		return
	}

	report, err := h.sosService.SweepExpired(c)
	if err != nil && len(report.Deleted) == 0 {
		h.fail(c, err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, "success", report)
}
