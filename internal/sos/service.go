package sos

import (
	"context"
	"time"

	"sos-service/internal/models"
	"sos-service/internal/user"
	"sos-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	DefaultRadiusKm         = 50.0
	DefaultLeaderboardLimit = 50
)

type SOSService interface {
	CreateAlert(ctx context.Context, ownerID string, in NewAlert) (*models.Alert, error)
	CancelAlert(ctx context.Context, requesterID, alertID string) (*models.Alert, error)
	GetAlert(ctx context.Context, alertID string, origin *models.Point) (*NearbyAlert, error)
	ListOwnAlerts(ctx context.Context, ownerID string) ([]*NearbyAlert, error)
	FindActive(ctx context.Context, origin *models.Point, radiusKm *float64) ([]*NearbyAlert, error)

	Respond(ctx context.Context, responderID string, in NewResponse) (*models.Response, error)
	Confirm(ctx context.Context, ownerID, responseID string) (*models.Response, error)
	ListAlertResponses(ctx context.Context, alertID string) ([]*models.Response, error)
	ListUserResponses(ctx context.Context, responderID string) ([]*models.Response, error)

	TopN(ctx context.Context, limit int) ([]*LeaderboardEntry, error)

	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID string) error

	SweepExpired(ctx context.Context) (*SweepReport, error)

	AlertViews(ctx context.Context, viewerID string, alerts []*NearbyAlert) ([]*AlertView, error)
	ResponseViews(ctx context.Context, responses []*models.Response) ([]*ResponseView, error)
}

type Option func(*sosService)

// WithClock replaces time.Now. Returned times are normalised to UTC.
func WithClock(now func() time.Time) Option {
	return func(s *sosService) {
		s.clock = now
	}
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *sosService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *sosService) {
		s.notifier = n
	}
}

func WithPublisher(p Publisher) Option {
	return func(s *sosService) {
		s.publisher = p
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *sosService) {
		if m != nil {
			s.metrics = m
		}
	}
}

func WithDefaultRadius(km float64) Option {
	return func(s *sosService) {
		if km > 0 {
			s.defaultRadiusKm = km
		}
	}
}

func WithLeaderboardLimit(limit int) Option {
	return func(s *sosService) {
		if limit > 0 {
			s.leaderboardLimit = limit
		}
	}
}

type sosService struct {
	repo             Repository
	users            user.Directory
	clock            func() time.Time
	logger           *zap.SugaredLogger
	notifier         Notifier
	publisher        Publisher
	metrics          *metrics.Metrics
	defaultRadiusKm  float64
	leaderboardLimit int
}

func NewSOSService(repo Repository, users user.Directory, opts ...Option) SOSService {

	s := &sosService{
		repo:             repo,
		users:            users,
		clock:            time.Now,
		logger:           zap.NewNop().Sugar(),
		defaultRadiusKm:  DefaultRadiusKm,
		leaderboardLimit: DefaultLeaderboardLimit,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.metrics == nil {
		s.metrics = metrics.New(prometheus.NewRegistry())
	}

	return s
}

func (s *sosService) now() time.Time {
	return s.clock().UTC()
}
