package sos

import (
	"context"
	"testing"
	"time"

	"sos-service/internal/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnreadCount(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", 0)
	f.addUser(t, "bob", 0)
	f.addUser(t, "carol", 0)
	ctx := context.Background()

	f.raise(t, "bob", models.CategoryFire, nil)
	f.raise(t, "carol", models.CategoryMedical, at(1, 1))
	f.raise(t, "alice", models.CategoryGeneral, nil)
	cancelled := f.raise(t, "carol", models.CategoryAccident, nil)
	_, err := f.svc.CancelAlert(ctx, "carol", cancelled.ID)
	require.NoError(t, err)

	count, err := f.svc.UnreadCount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count, "never checked sees every live alert from others")

	require.NoError(t, f.svc.MarkRead(ctx, "alice"))
	count, err = f.svc.UnreadCount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	f.clock.Advance(time.Minute)
	f.raise(t, "bob", models.CategoryGeneral, nil)
	count, err = f.svc.UnreadCount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	f.raise(t, "alice", models.CategoryGeneral, nil)
	count, err = f.svc.UnreadCount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "own alerts never count")
}

func TestUnreadCountIgnoresStaleAlerts(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", 0)
	f.addUser(t, "bob", 0)
	ctx := context.Background()

	f.raise(t, "bob", models.CategoryMedical, nil)
	f.raise(t, "bob", models.CategoryAccident, nil)

	f.clock.Advance(30 * time.Hour)
	count, err := f.svc.UnreadCount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUnreadCountUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UnreadCount(context.Background(), "ghost")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMarkReadUnknownUserIsNoop(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.svc.MarkRead(context.Background(), "ghost"))
	assert.NoError(t, f.svc.MarkRead(context.Background(), "ghost"))
}
