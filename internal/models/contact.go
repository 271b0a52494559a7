package models

import "fmt"

func EmergencyContact(c Category) string {
	switch c {
	case CategoryWomenSafety, CategoryImmediateEmergency, CategoryAccident, CategoryGeneral:
		return "12"
	case CategoryFire:
		return "13"
	case CategoryMedical:
		return "14"
	default:
		return "12"
	}
}

func MapLink(p Point) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%f,%f", p.Latitude, p.Longitude)
}
