package sos

import (
	"context"
	"sort"

	"sos-service/internal/models"

	"github.com/pkg/errors"
)

// FindActive lists ACTIVE alerts still inside their retention window.
// With an origin, only alerts within radiusKm are returned, nearest first, each with
// its distance. A missing radius falls back to the configured default. Without an
// origin every alert is returned, newest first.
func (s *sosService) FindActive(ctx context.Context, origin *models.Point, radiusKm *float64) ([]*NearbyAlert, error) {

	if origin == nil && radiusKm != nil {
		return nil, errors.Wrap(ErrInvalidArgument, "radius requires a position")
	}

	now := s.now()
	q := AlertQuery{Now: now}

	radius := s.defaultRadiusKm
	if origin != nil {
		if err := origin.Validate(); err != nil {
			return nil, errors.Wrap(ErrInvalidArgument, err.Error())
		}
		if radiusKm != nil {
			radius = *radiusKm
		}
		if radius <= 0 {
			return nil, errors.Wrapf(ErrInvalidArgument, "radius %v must be positive", radius)
		}
		min, max := models.LatitudeBand(*origin, radius)
		q.MinLatitude, q.MaxLatitude = &min, &max
	}

	alerts, err := s.repo.FindActiveAlerts(ctx, q)
	if err != nil {
		return nil, err
	}

	items := make([]*NearbyAlert, 0, len(alerts))
	for _, alert := range alerts {
		if !alert.IsValid(now) {
			continue
		}
		if origin == nil {
			items = append(items, &NearbyAlert{Alert: alert})
			continue
		}
		pos := alert.Position()
		if pos == nil {
			continue
		}
		d := models.DistanceKm(*origin, *pos)
		if d > radius {
			continue
		}
		items = append(items, &NearbyAlert{Alert: alert, DistanceKm: &d})
	}

	if origin != nil {
		sort.SliceStable(items, func(i, j int) bool {
			if *items[i].DistanceKm != *items[j].DistanceKm {
				return *items[i].DistanceKm < *items[j].DistanceKm
			}
			return items[i].Alert.CreatedAt.After(items[j].Alert.CreatedAt)
		})
	}

	return items, nil
}
