package user

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var ErrUserNotFound = errors.New("user not found")

// Directory is the slice of the user store the SOS engine depends on.
// Lookups return nil, nil when the user does not exist.
type Directory interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*User, error)
	// IncrementPoints adds delta in the store itself. Returns ErrUserNotFound when nothing matched.
	IncrementPoints(ctx context.Context, id string, delta int64) error
	// TopByPoints orders by points descending, then id ascending.
	TopByPoints(ctx context.Context, limit int) ([]*User, error)
	SetLastAlertCheck(ctx context.Context, id string, at time.Time) (bool, error)
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
