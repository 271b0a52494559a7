package models

import "time"

// RetentionFor returns how long an alert of the given category stays visible.
// Both the read path and the hourly purge use this table.
func RetentionFor(c Category) time.Duration {
	switch c {
	case CategoryImmediateEmergency, CategoryWomenSafety, CategoryMedical:
		return 24 * time.Hour
	case CategoryFire:
		return 48 * time.Hour
	case CategoryAccident:
		return 72 * time.Hour
	case CategoryGeneral:
		return 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// IsValid reports whether an alert created at createdAt is still within its retention window.
func IsValid(c Category, createdAt, now time.Time) bool {
	return now.Sub(createdAt) <= RetentionFor(c)
}

// RetentionCutoff is the oldest creation time that is still valid at now.
// Anything created strictly before it is stale.
func RetentionCutoff(c Category, now time.Time) time.Time {
	return now.Add(-RetentionFor(c))
}
