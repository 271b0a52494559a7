package user

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"sos-service/pkg/database"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDirectory(t *testing.T) (Directory, *gorm.DB) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.OpenSQL("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return NewSQLDirectory(db), db
}

func seed(t *testing.T, db *gorm.DB, users ...*User) {
	t.Helper()
	for _, u := range users {
		require.NoError(t, db.Create(u).Error)
	}
}

func TestSQLDirectoryLookups(t *testing.T) {
	dir, db := setupDirectory(t)
	ctx := context.Background()

	seed(t, db,
		&User{ID: "u1", Username: "alice", DisplayName: "Alice", DeviceTokens: []string{"tok-1"}},
		&User{ID: "u2", Username: "bob", DisplayName: "Bob"},
	)

	t.Run("by id", func(t *testing.T) {
		u, err := dir.FindByID(ctx, "u1")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "alice", u.Username)
		assert.Equal(t, []string{"tok-1"}, u.DeviceTokens)
	})

	t.Run("by username", func(t *testing.T) {
		u, err := dir.FindByUsername(ctx, "bob")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, "u2", u.ID)
	})

	t.Run("missing user is nil", func(t *testing.T) {
		u, err := dir.FindByID(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, u)
	})

	t.Run("batch", func(t *testing.T) {
		users, err := dir.FindByIDs(ctx, []string{"u1", "u2", "u1", "ghost", ""})
		require.NoError(t, err)
		assert.Len(t, users, 2)
		assert.Equal(t, "Bob", users["u2"].DisplayName)
	})
}

func TestSQLDirectoryIncrementPoints(t *testing.T) {
	dir, db := setupDirectory(t)
	ctx := context.Background()

	seed(t, db, &User{ID: "u1", Username: "alice", Points: 5})

	require.NoError(t, dir.IncrementPoints(ctx, "u1", 10))
	require.NoError(t, dir.IncrementPoints(ctx, "u1", 25))

	u, err := dir.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(40), u.Points)

	err = dir.IncrementPoints(ctx, "ghost", 10)
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestSQLDirectoryTopByPoints(t *testing.T) {
	dir, db := setupDirectory(t)

	seed(t, db,
		&User{ID: "c", Username: "carol", Points: 30},
		&User{ID: "a", Username: "alice", Points: 30},
		&User{ID: "b", Username: "bob", Points: 50},
		&User{ID: "d", Username: "dave", Points: 0},
	)

	users, err := dir.TopByPoints(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, users, 3)

	assert.Equal(t, "b", users[0].ID)
	assert.Equal(t, "a", users[1].ID)
	assert.Equal(t, "c", users[2].ID)
}

func TestSQLDirectorySetLastAlertCheck(t *testing.T) {
	dir, db := setupDirectory(t)
	ctx := context.Background()

	seed(t, db, &User{ID: "u1", Username: "alice"})

	at := time.Date(2025, 5, 1, 8, 30, 0, 0, time.UTC)
	found, err := dir.SetLastAlertCheck(ctx, "u1", at)
	require.NoError(t, err)
	assert.True(t, found)

	u, err := dir.FindByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, u.LastAlertCheckAt)
	assert.True(t, at.Equal(*u.LastAlertCheckAt))

	found, err = dir.SetLastAlertCheck(ctx, "ghost", at)
	require.NoError(t, err)
	assert.False(t, found)
}
