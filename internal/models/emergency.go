package models

import (
	"time"
)

type Category string

const (
	CategoryImmediateEmergency Category = "IMMEDIATE_EMERGENCY"
	CategoryWomenSafety        Category = "WOMEN_SAFETY"
	CategoryMedical            Category = "MEDICAL"
	CategoryFire               Category = "FIRE"
	CategoryAccident           Category = "ACCIDENT"
	CategoryGeneral            Category = "GENERAL"
)

// Categories lists every category an alert can be raised with.
var Categories = []Category{
	CategoryImmediateEmergency,
	CategoryWomenSafety,
	CategoryMedical,
	CategoryFire,
	CategoryAccident,
	CategoryGeneral,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type AlertStatus string

const (
	StatusActive    AlertStatus = "ACTIVE"
	StatusCancelled AlertStatus = "CANCELLED"
	StatusResolved  AlertStatus = "RESOLVED"
	// StatusExpired is never stored. It is reported for ACTIVE alerts past their retention window.
	StatusExpired AlertStatus = "EXPIRED"
)

type ResponseType string

const (
	ResponseOnWay                ResponseType = "ON_WAY"
	ResponseContactedAuthorities ResponseType = "CONTACTED_AUTHORITIES"
	ResponseReached              ResponseType = "REACHED"
	ResponseResolved             ResponseType = "RESOLVED"
)

type Alert struct {
	ID               string      `bson:"_id" json:"id" gorm:"primaryKey;size:36"`
	OwnerID          string      `bson:"owner_id" json:"owner_id" gorm:"size:64;not null;index:idx_alert_owner_created,priority:1"`
	Latitude         *float64    `bson:"latitude,omitempty" json:"latitude,omitempty" gorm:"index:idx_alert_latitude"`
	Longitude        *float64    `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Address          *string     `bson:"address,omitempty" json:"address,omitempty" gorm:"size:512"`
	Category         Category    `bson:"category" json:"category" gorm:"size:32;not null;index:idx_alert_status_category_created,priority:2"`
	Status           AlertStatus `bson:"status" json:"status" gorm:"size:16;not null;index:idx_alert_status_category_created,priority:1"`
	Description      *string     `bson:"description,omitempty" json:"description,omitempty" gorm:"type:text"`
	CancelledByOwner bool        `bson:"cancelled_by_owner" json:"cancelled_by_owner"`
	ResponseCount    int64       `bson:"response_count" json:"response_count" gorm:"not null"`
	CreatedAt        time.Time   `bson:"created_at" json:"created_at" gorm:"not null;index:idx_alert_status_category_created,priority:3;index:idx_alert_owner_created,priority:2,sort:desc"`
	ResolvedAt       *time.Time  `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
}

func (Alert) TableName() string {
	return "sos_alerts"
}

// Position returns nil when the alert was raised without coordinates.
func (a *Alert) Position() *Point {
	if a.Latitude == nil || a.Longitude == nil {
		return nil
	}
	return &Point{Latitude: *a.Latitude, Longitude: *a.Longitude}
}

func (a *Alert) IsValid(now time.Time) bool {
	return IsValid(a.Category, a.CreatedAt, now)
}

// EffectiveStatus is the status callers see at now.
func (a *Alert) EffectiveStatus(now time.Time) AlertStatus {
	if a.Status == StatusActive && !a.IsValid(now) {
		return StatusExpired
	}
	return a.Status
}

type Response struct {
	ID            string       `bson:"_id" json:"id" gorm:"primaryKey;size:36"`
	AlertID       string       `bson:"alert_id" json:"alert_id" gorm:"size:36;not null;uniqueIndex:idx_response_alert_responder,priority:1"`
	AlertOwnerID  string       `bson:"alert_owner_id" json:"alert_owner_id" gorm:"size:64;not null"`
	ResponderID   string       `bson:"responder_id" json:"responder_id" gorm:"size:64;not null;uniqueIndex:idx_response_alert_responder,priority:2;index:idx_response_responder_created,priority:1"`
	Type          ResponseType `bson:"response_type" json:"response_type" gorm:"column:response_type;size:32;not null"`
	Message       *string      `bson:"message,omitempty" json:"message,omitempty" gorm:"type:text"`
	PointsAwarded int64        `bson:"points_awarded" json:"points_awarded" gorm:"not null"`
	Confirmed     bool         `bson:"confirmed" json:"confirmed" gorm:"not null"`
	ConfirmedAt   *time.Time   `bson:"confirmed_at,omitempty" json:"confirmed_at,omitempty"`
	CreatedAt     time.Time    `bson:"created_at" json:"created_at" gorm:"not null;index:idx_response_responder_created,priority:2,sort:desc"`
}

func (Response) TableName() string {
	return "sos_responses"
}
