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

func TestCreateAlert(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", 0)
	ctx := context.Background()

	t.Run("stores an active alert", func(t *testing.T) {
		alert, err := f.svc.CreateAlert(ctx, "alice", NewAlert{
			Position:    at(10, 20),
			Address:     ptr("  12 Le Loi  "),
			Category:    models.CategoryMedical,
			Description: ptr(""),
		})
		require.NoError(t, err)

		stored := f.alert(t, alert.ID)
		require.NotNil(t, stored)
		assert.Equal(t, models.StatusActive, stored.Status)
		assert.False(t, stored.CancelledByOwner)
		assert.Equal(t, "alice", stored.OwnerID)
		assert.Equal(t, "12 Le Loi", *stored.Address)
		assert.Nil(t, stored.Description)
		assert.Equal(t, &models.Point{Latitude: 10, Longitude: 20}, stored.Position())
		assert.True(t, f.clock.Now().Equal(stored.CreatedAt))
		assert.Nil(t, stored.ResolvedAt)
	})

	t.Run("position is optional", func(t *testing.T) {
		alert, err := f.svc.CreateAlert(ctx, "alice", NewAlert{Category: models.CategoryGeneral})
		require.NoError(t, err)
		assert.Nil(t, f.alert(t, alert.ID).Position())
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := f.svc.CreateAlert(ctx, "alice", NewAlert{Category: "FLOOD"})
		assert.True(t, errors.Is(err, ErrInvalidArgument))
	})

	t.Run("out of range position", func(t *testing.T) {
		_, err := f.svc.CreateAlert(ctx, "alice", NewAlert{Category: models.CategoryFire, Position: at(95, 0)})
		assert.True(t, errors.Is(err, ErrInvalidArgument))
	})

	t.Run("unknown owner", func(t *testing.T) {
		_, err := f.svc.CreateAlert(ctx, "ghost", NewAlert{Category: models.CategoryFire})
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestCancelAlert(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", 0)
	f.addUser(t, "bob", 0)
	ctx := context.Background()

	alert := f.raise(t, "alice", models.CategoryAccident, at(10, 20))

	t.Run("missing alert", func(t *testing.T) {
		_, err := f.svc.CancelAlert(ctx, "alice", "nope")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("only the owner may cancel", func(t *testing.T) {
		_, err := f.svc.CancelAlert(ctx, "bob", alert.ID)
		assert.True(t, errors.Is(err, ErrForbidden))
		assert.Equal(t, models.StatusActive, f.alert(t, alert.ID).Status)
	})

	t.Run("owner cancels", func(t *testing.T) {
		cancelled, err := f.svc.CancelAlert(ctx, "alice", alert.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, cancelled.Status)
		assert.True(t, cancelled.CancelledByOwner)

		stored := f.alert(t, alert.ID)
		assert.Equal(t, models.StatusCancelled, stored.Status)
		assert.True(t, stored.CancelledByOwner)
	})

	t.Run("cancelled alerts stay cancelled", func(t *testing.T) {
		_, err := f.svc.CancelAlert(ctx, "alice", alert.ID)
		assert.True(t, errors.Is(err, ErrInvalidState))

		_, err = f.svc.Respond(ctx, "bob", NewResponse{AlertID: alert.ID, Type: models.ResponseResolved})
		assert.True(t, errors.Is(err, ErrInvalidState))
		assert.Equal(t, models.StatusCancelled, f.alert(t, alert.ID).Status)
	})
}

func TestCancelResolvedAlert(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", 0)
	f.addUser(t, "bob", 0)
	ctx := context.Background()

	alert := f.raise(t, "alice", models.CategoryFire, nil)
	_, err := f.svc.Respond(ctx, "bob", NewResponse{AlertID: alert.ID, Type: models.ResponseResolved})
	require.NoError(t, err)

	_, err = f.svc.CancelAlert(ctx, "alice", alert.ID)
	assert.True(t, errors.Is(err, ErrInvalidState))
	assert.Equal(t, models.StatusResolved, f.alert(t, alert.ID).Status)
}

func TestGetAlert(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", 0)
	ctx := context.Background()

	alert := f.raise(t, "alice", models.CategoryMedical, at(0, 0))

	item, err := f.svc.GetAlert(ctx, alert.ID, at(0, 1))
	require.NoError(t, err)
	require.NotNil(t, item.DistanceKm)
	assert.InDelta(t, 111.19, *item.DistanceKm, 0.01)

	item, err = f.svc.GetAlert(ctx, alert.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, item.DistanceKm)

	f.clock.Advance(25 * time.Hour)
	item, err = f.svc.GetAlert(ctx, alert.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusExpired, item.Alert.EffectiveStatus(f.clock.Now()))

	_, err = f.svc.GetAlert(ctx, "missing", nil)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListOwnAlerts(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "alice", 0)
	f.addUser(t, "bob", 0)
	ctx := context.Background()

	first := f.raise(t, "alice", models.CategoryAccident, nil)
	f.clock.Advance(time.Minute)
	second := f.raise(t, "alice", models.CategoryGeneral, nil)
	f.clock.Advance(time.Minute)
	cancelled := f.raise(t, "alice", models.CategoryFire, nil)
	f.raise(t, "bob", models.CategoryFire, nil)

	_, err := f.svc.CancelAlert(ctx, "alice", cancelled.ID)
	require.NoError(t, err)

	items, err := f.svc.ListOwnAlerts(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].Alert.ID)
	assert.Equal(t, first.ID, items[1].Alert.ID)

	f.clock.Advance(25 * time.Hour)
	items, err = f.svc.ListOwnAlerts(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, first.ID, items[0].Alert.ID)
}
