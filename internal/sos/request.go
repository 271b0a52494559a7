package sos

import (
	"sos-service/internal/models"

	"github.com/pkg/errors"
)

type CreateAlertRequest struct {
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Address     *string  `json:"address"`
	Category    string   `json:"category" binding:"required"`
	Description *string  `json:"description"`
}

type RespondRequest struct {
	AlertID string  `json:"alert_id" binding:"required"`
	Type    string  `json:"response_type" binding:"required"`
	Message *string `json:"message"`
}

type ActiveAlertsQuery struct {
	Latitude  *float64 `form:"latitude"`
	Longitude *float64 `form:"longitude"`
	RadiusKm  *float64 `form:"radius_km"`
}

type PositionQuery struct {
	Latitude  *float64 `form:"latitude"`
	Longitude *float64 `form:"longitude"`
}

type LeaderboardQuery struct {
	Limit int `form:"limit"`
}

// positionFrom requires latitude and longitude together.
func positionFrom(lat, lon *float64) (*models.Point, error) {
	if lat == nil && lon == nil {
		return nil, nil
	}
	if lat == nil || lon == nil {
		return nil, errors.Wrap(ErrInvalidArgument, "latitude and longitude must be given together")
	}
	p := &models.Point{Latitude: *lat, Longitude: *lon}
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(ErrInvalidArgument, err.Error())
	}
	return p, nil
}
