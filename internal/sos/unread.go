package sos

import (
	"context"

	"github.com/pkg/errors"
)

// UnreadCount counts other users' live alerts raised since the caller last looked.
// A user who never looked sees every live alert.
func (s *sosService) UnreadCount(ctx context.Context, userID string) (int64, error) {

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if u == nil {
		return 0, errors.Wrapf(ErrNotFound, "user %s", userID)
	}

	return s.repo.CountActiveAlerts(ctx, AlertQuery{
		Now:            s.now(),
		ExcludeOwnerID: userID,
		CreatedAfter:   u.LastAlertCheckAt,
	})
}

func (s *sosService) MarkRead(ctx context.Context, userID string) error {

	found, err := s.users.SetLastAlertCheck(ctx, userID, s.now())
	if err != nil {
		return err
	}
	if !found {
		s.logger.Debugw("mark read for unknown user ignored", "user_id", userID)
	}

	return nil
}
