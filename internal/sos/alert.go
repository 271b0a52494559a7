package sos

import (
	"context"
	"strings"

	"sos-service/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type NewAlert struct {
	Position    *models.Point
	Address     *string
	Category    models.Category
	Description *string
}

// NearbyAlert pairs an alert with its distance from the caller, when the caller gave a position.
type NearbyAlert struct {
	Alert      *models.Alert
	DistanceKm *float64
}

func (s *sosService) CreateAlert(ctx context.Context, ownerID string, in NewAlert) (*models.Alert, error) {

	if !in.Category.Valid() {
		return nil, errors.Wrapf(ErrInvalidArgument, "unknown category %q", in.Category)
	}

	if in.Position != nil {
		if err := in.Position.Validate(); err != nil {
			return nil, errors.Wrap(ErrInvalidArgument, err.Error())
		}
	}

	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, errors.Wrapf(ErrNotFound, "user %s", ownerID)
	}

	alert := &models.Alert{
		ID:          uuid.NewString(),
		OwnerID:     owner.ID,
		Address:     optionalText(in.Address),
		Category:    in.Category,
		Status:      models.StatusActive,
		Description: optionalText(in.Description),
		CreatedAt:   s.now(),
	}
	if in.Position != nil {
		lat, lon := in.Position.Latitude, in.Position.Longitude
		alert.Latitude = &lat
		alert.Longitude = &lon
	}

	if err := s.repo.CreateAlert(ctx, alert); err != nil {
		return nil, err
	}

	s.metrics.IncAlertsCreated(string(alert.Category))
	s.logger.Infow("sos alert created", "alert_id", alert.ID, "owner_id", alert.OwnerID, "category", alert.Category)
	s.publish(ctx, LifecycleEvent{
		Type:     EventAlertCreated,
		AlertID:  alert.ID,
		ActorID:  alert.OwnerID,
		Category: alert.Category,
	})

	return alert, nil
}

func (s *sosService) CancelAlert(ctx context.Context, requesterID, alertID string) (*models.Alert, error) {

	alert, err := s.repo.FindAlertByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, errors.Wrapf(ErrNotFound, "alert %s", alertID)
	}

	if alert.OwnerID != requesterID {
		return nil, errors.Wrapf(ErrForbidden, "user %s does not own alert %s", requesterID, alertID)
	}

	if alert.Status != models.StatusActive {
		return nil, errors.Wrapf(ErrInvalidState, "alert %s is %s", alertID, alert.Status)
	}

	if err := s.repo.CancelAlert(ctx, alertID, requesterID); err != nil {
		return nil, err
	}

	alert.Status = models.StatusCancelled
	alert.CancelledByOwner = true

	s.metrics.IncAlertTransition(string(models.StatusCancelled))
	s.logger.Infow("sos alert cancelled", "alert_id", alert.ID, "owner_id", alert.OwnerID)
	s.publish(ctx, LifecycleEvent{
		Type:     EventAlertCancelled,
		AlertID:  alert.ID,
		ActorID:  requesterID,
		Category: alert.Category,
	})

	return alert, nil
}

// GetAlert returns the alert whatever its state. A stale ACTIVE alert reads as EXPIRED
// through models.Alert.EffectiveStatus.
func (s *sosService) GetAlert(ctx context.Context, alertID string, origin *models.Point) (*NearbyAlert, error) {

	alert, err := s.repo.FindAlertByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, errors.Wrapf(ErrNotFound, "alert %s", alertID)
	}

	item := &NearbyAlert{Alert: alert}
	if origin != nil {
		if pos := alert.Position(); pos != nil {
			d := models.DistanceKm(*origin, *pos)
			item.DistanceKm = &d
		}
	}

	return item, nil
}

func (s *sosService) ListOwnAlerts(ctx context.Context, ownerID string) ([]*NearbyAlert, error) {

	now := s.now()

	alerts, err := s.repo.FindActiveAlerts(ctx, AlertQuery{Now: now, OwnerID: ownerID})
	if err != nil {
		return nil, err
	}

	items := make([]*NearbyAlert, 0, len(alerts))
	for _, alert := range alerts {
		if alert.IsValid(now) {
			items = append(items, &NearbyAlert{Alert: alert})
		}
	}

	return items, nil
}

func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
