package sos

import (
	"context"
	"time"

	"sos-service/internal/models"
)

// Repository is the alert and response store. Every method that checks and then
// writes does both inside the store, so callers never race each other on state.
type Repository interface {
	CreateAlert(ctx context.Context, alert *models.Alert) error
	// FindAlertByID returns nil, nil when the alert does not exist.
	FindAlertByID(ctx context.Context, id string) (*models.Alert, error)
	// CancelAlert moves an ACTIVE alert owned by ownerID to CANCELLED.
	// ErrInvalidState when the alert was no longer ACTIVE at write time.
	CancelAlert(ctx context.Context, id, ownerID string) error
	FindActiveAlerts(ctx context.Context, q AlertQuery) ([]*models.Alert, error)
	CountActiveAlerts(ctx context.Context, q AlertQuery) (int64, error)
	DeleteAlertsBefore(ctx context.Context, scope CategoryScope, cutoff time.Time) (int64, error)

	// CreateResponse bumps the alert's response count, resolves it when resolve is set,
	// and inserts the response, all as one unit. ErrNotFound if the alert is gone,
	// ErrInvalidState if it is not ACTIVE, ErrConflict if the responder already answered.
	CreateResponse(ctx context.Context, response *models.Response, resolve bool) error
	FindResponseByID(ctx context.Context, id string) (*models.Response, error)
	FindResponsesByAlert(ctx context.Context, alertID string) ([]*models.Response, error)
	// FindResponsesByResponder narrows to alertIDs when any are given.
	FindResponsesByResponder(ctx context.Context, responderID string, alertIDs ...string) ([]*models.Response, error)
	// MarkConfirmed flips confirmed from false to true. It reports false when another caller got there first.
	MarkConfirmed(ctx context.Context, id string, at time.Time) (bool, error)
	// RevertConfirmed undoes MarkConfirmed when the point award could not be committed.
	RevertConfirmed(ctx context.Context, id string) error

	Ping(ctx context.Context) error
}

// AlertQuery selects ACTIVE alerts that are still inside their retention window at Now.
type AlertQuery struct {
	Now            time.Time
	OwnerID        string
	ExcludeOwnerID string
	CreatedAfter   *time.Time
	// Latitude band prefilter for radius searches. Alerts without a position never match a band.
	MinLatitude *float64
	MaxLatitude *float64
}

// CategoryScope names the categories a retention window covers. With In empty it
// covers everything not listed in NotIn.
type CategoryScope struct {
	In    []models.Category
	NotIn []models.Category
}

func (s CategoryScope) String() string {
	if len(s.In) == 1 {
		return string(s.In[0])
	}
	if len(s.In) == 0 {
		return "OTHER"
	}
	return "MIXED"
}

type retentionWindow struct {
	Scope  CategoryScope
	Cutoff time.Time
}

// retentionWindows lists one window per known category plus a catch-all for
// categories the service does not know, which fall back to the default TTL.
func retentionWindows(now time.Time) []retentionWindow {
	windows := make([]retentionWindow, 0, len(models.Categories)+1)
	for _, c := range models.Categories {
		windows = append(windows, retentionWindow{
			Scope:  CategoryScope{In: []models.Category{c}},
			Cutoff: models.RetentionCutoff(c, now),
		})
	}
	windows = append(windows, retentionWindow{
		Scope:  CategoryScope{NotIn: models.Categories},
		Cutoff: models.RetentionCutoff(models.Category(""), now),
	})
	return windows
}

func categoryStrings(cs []models.Category) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}
