package sos

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"sos-service/internal/models"
	"sos-service/internal/user"
	"sos-service/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	db    *gorm.DB
	repo  Repository
	users user.Directory
	clock *fakeClock
	svc   SOSService
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	db, err := database.OpenSQL("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	require.NoError(t, user.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	f := &fixture{
		db:    db,
		repo:  NewSQLRepository(db),
		users: user.NewSQLDirectory(db),
		clock: newFakeClock(),
	}
	f.svc = f.service(opts...)

	return f
}

// service builds another service over the same stores, e.g. with a different repository wrapper.
func (f *fixture) service(opts ...Option) SOSService {
	return f.serviceWithRepo(f.repo, opts...)
}

func (f *fixture) serviceWithRepo(repo Repository, opts ...Option) SOSService {
	all := append([]Option{WithClock(f.clock.Now)}, opts...)
	return NewSOSService(repo, f.users, all...)
}

func (f *fixture) addUser(t *testing.T, id string, points int64, tokens ...string) *user.User {
	t.Helper()
	u := &user.User{
		ID:           id,
		Username:     id,
		DisplayName:  strings.ToUpper(id[:1]) + id[1:],
		Points:       points,
		DeviceTokens: tokens,
	}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) points(t *testing.T, id string) int64 {
	t.Helper()
	u, err := f.users.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u.Points
}

func (f *fixture) raise(t *testing.T, ownerID string, category models.Category, pos *models.Point) *models.Alert {
	t.Helper()
	alert, err := f.svc.CreateAlert(context.Background(), ownerID, NewAlert{Category: category, Position: pos})
	require.NoError(t, err)
	return alert
}

func (f *fixture) alert(t *testing.T, id string) *models.Alert {
	t.Helper()
	a, err := f.repo.FindAlertByID(context.Background(), id)
	require.NoError(t, err)
	return a
}

func at(lat, lon float64) *models.Point {
	return &models.Point{Latitude: lat, Longitude: lon}
}

func ptr[T any](v T) *T {
	return &v
}
