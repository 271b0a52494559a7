package sos

import (
	"context"
	"fmt"
	"strings"

	"sos-service/internal/models"
	"sos-service/internal/user"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type NewResponse struct {
	AlertID string
	Type    models.ResponseType
	Message *string
}

// Respond registers a responder against an ACTIVE alert. A RESOLVED response closes
// the alert in the same store operation, whoever sends it.
func (s *sosService) Respond(ctx context.Context, responderID string, in NewResponse) (*models.Response, error) {

	responseType := models.ResponseType(strings.TrimSpace(string(in.Type)))
	if responseType == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "response type is required")
	}

	now := s.now()

	alert, err := s.repo.FindAlertByID(ctx, in.AlertID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		s.metrics.IncResponsesRejected("not_found")
		return nil, errors.Wrapf(ErrNotFound, "alert %s", in.AlertID)
	}

	if status := alert.EffectiveStatus(now); status != models.StatusActive {
		s.metrics.IncResponsesRejected("invalid_state")
		return nil, errors.Wrapf(ErrInvalidState, "alert %s is %s", alert.ID, status)
	}

	if alert.OwnerID == responderID {
		s.metrics.IncResponsesRejected("self_response")
		return nil, errors.Wrapf(ErrForbidden, "user %s cannot respond to their own alert", responderID)
	}

	response := &models.Response{
		ID:            uuid.NewString(),
		AlertID:       alert.ID,
		AlertOwnerID:  alert.OwnerID,
		ResponderID:   responderID,
		Type:          responseType,
		Message:       optionalText(in.Message),
		PointsAwarded: models.PointsFor(responseType),
		CreatedAt:     now,
	}

	resolve := responseType == models.ResponseResolved
	if err := s.repo.CreateResponse(ctx, response, resolve); err != nil {
		s.metrics.IncResponsesRejected(rejectReason(err))
		return nil, err
	}

	s.metrics.IncResponsesCreated(string(responseType))
	s.logger.Infow("sos response registered",
		"response_id", response.ID,
		"alert_id", alert.ID,
		"responder_id", responderID,
		"response_type", responseType,
		"points", response.PointsAwarded,
	)
	s.publish(ctx, LifecycleEvent{
		Type:         EventResponseCreated,
		AlertID:      alert.ID,
		ResponseID:   response.ID,
		ActorID:      responderID,
		Category:     alert.Category,
		ResponseType: responseType,
		Points:       response.PointsAwarded,
	})

	if resolve {
		s.metrics.IncAlertTransition(string(models.StatusResolved))
		s.logger.Infow("sos alert resolved by responder", "alert_id", alert.ID, "responder_id", responderID, "owner_id", alert.OwnerID)
		s.publish(ctx, LifecycleEvent{
			Type:     EventAlertResolved,
			AlertID:  alert.ID,
			ActorID:  responderID,
			Category: alert.Category,
		})
	}

	s.notifyUser(ctx, alert.OwnerID,
		"Someone is responding to your SOS",
		fmt.Sprintf("A responder reported %s on your %s alert", humanize(string(responseType)), humanize(string(alert.Category))),
	)

	return response, nil
}

// Confirm releases a response's points to the responder. The confirmed flag is
// swapped by the store, so concurrent confirmations award the points once.
func (s *sosService) Confirm(ctx context.Context, ownerID, responseID string) (*models.Response, error) {

	response, err := s.repo.FindResponseByID(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if response == nil {
		return nil, errors.Wrapf(ErrNotFound, "response %s", responseID)
	}

	if response.AlertOwnerID != ownerID {
		s.metrics.IncConfirmations("forbidden")
		return nil, errors.Wrapf(ErrForbidden, "user %s does not own the alert of response %s", ownerID, responseID)
	}

	if response.Confirmed {
		s.metrics.IncConfirmations("conflict")
		return nil, errors.Wrapf(ErrConflict, "response %s already confirmed", responseID)
	}

	now := s.now()

	swapped, err := s.repo.MarkConfirmed(ctx, responseID, now)
	if err != nil {
		return nil, err
	}
	if !swapped {
		s.metrics.IncConfirmations("conflict")
		return nil, errors.Wrapf(ErrConflict, "response %s already confirmed", responseID)
	}

	if err := s.users.IncrementPoints(ctx, response.ResponderID, response.PointsAwarded); err != nil {
		if rerr := s.repo.RevertConfirmed(context.WithoutCancel(ctx), responseID); rerr != nil {
			s.logger.Errorw("failed to revert confirmation after point award failure",
				"response_id", responseID, "award_error", err, "error", rerr)
		}
		s.metrics.IncConfirmations("award_failed")
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "responder %s", response.ResponderID)
		}
		return nil, err
	}

	response.Confirmed = true
	response.ConfirmedAt = &now

	s.metrics.IncConfirmations("confirmed")
	s.metrics.AddPointsAwarded(response.PointsAwarded)
	s.logger.Infow("sos response confirmed",
		"response_id", response.ID,
		"alert_id", response.AlertID,
		"responder_id", response.ResponderID,
		"points", response.PointsAwarded,
	)
	s.publish(ctx, LifecycleEvent{
		Type:         EventResponseConfirmed,
		AlertID:      response.AlertID,
		ResponseID:   response.ID,
		ActorID:      ownerID,
		ResponseType: response.Type,
		Points:       response.PointsAwarded,
	})

	s.notifyUser(ctx, response.ResponderID,
		"Your help was confirmed",
		fmt.Sprintf("You earned %d points", response.PointsAwarded),
	)

	return response, nil
}

func (s *sosService) ListAlertResponses(ctx context.Context, alertID string) ([]*models.Response, error) {

	alert, err := s.repo.FindAlertByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, errors.Wrapf(ErrNotFound, "alert %s", alertID)
	}

	return s.repo.FindResponsesByAlert(ctx, alertID)
}

func (s *sosService) ListUserResponses(ctx context.Context, responderID string) ([]*models.Response, error) {
	return s.repo.FindResponsesByResponder(ctx, responderID)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrConflict):
		return "duplicate"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func humanize(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", " "))
}
