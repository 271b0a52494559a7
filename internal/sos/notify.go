package sos

//go:generate mockgen -source=notify.go -destination=mock_notify_test.go -package=sos

import (
	"context"
	"encoding/json"
	"time"

	"sos-service/internal/models"
)

// Notifier pushes a message to a user's devices.
type Notifier interface {
	Send(ctx context.Context, tokens []string, title, body string) (int, error)
}

// Publisher ships lifecycle events to the rest of the platform.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

type EventType string

const (
	EventAlertCreated      EventType = "sos.alert.created"
	EventAlertCancelled    EventType = "sos.alert.cancelled"
	EventAlertResolved     EventType = "sos.alert.resolved"
	EventResponseCreated   EventType = "sos.response.created"
	EventResponseConfirmed EventType = "sos.response.confirmed"
	EventAlertsPurged      EventType = "sos.alerts.purged"
)

type LifecycleEvent struct {
	Type         EventType           `json:"type"`
	AlertID      string              `json:"alert_id,omitempty"`
	ResponseID   string              `json:"response_id,omitempty"`
	ActorID      string              `json:"actor_id,omitempty"`
	Category     models.Category     `json:"category,omitempty"`
	ResponseType models.ResponseType `json:"response_type,omitempty"`
	Points       int64               `json:"points,omitempty"`
	Count        int64               `json:"count,omitempty"`
	Scope        string              `json:"scope,omitempty"`
	OccurredAt   time.Time           `json:"occurred_at"`
}

// publish runs after the store write has committed. A failure is logged, never returned.
func (s *sosService) publish(ctx context.Context, ev LifecycleEvent) {

	if s.publisher == nil {
		return
	}

	ev.OccurredAt = s.now()

	key := ev.AlertID
	if key == "" {
		key = string(ev.Type)
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		s.logger.Warnw("encode lifecycle event", "type", ev.Type, "error", err)
		return
	}

	if err := s.publisher.Publish(ctx, key, payload); err != nil {
		s.metrics.IncNotifications("kafka", "failure")
		s.logger.Warnw("publish lifecycle event", "type", ev.Type, "alert_id", ev.AlertID, "error", err)
		return
	}

	s.metrics.IncNotifications("kafka", "success")
}

func (s *sosService) notifyUser(ctx context.Context, userID, title, body string) {

	if s.notifier == nil {
		return
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warnw("load user for push", "user_id", userID, "error", err)
		return
	}
	if u == nil || len(u.DeviceTokens) == 0 {
		return
	}

	sent, err := s.notifier.Send(ctx, u.DeviceTokens, title, body)
	if err != nil {
		s.metrics.IncNotifications("push", "failure")
		s.logger.Warnw("push notification failed", "user_id", userID, "error", err)
		return
	}

	s.metrics.IncNotifications("push", "success")
	s.logger.Debugw("push notification sent", "user_id", userID, "delivered", sent, "tokens", len(u.DeviceTokens))
}
