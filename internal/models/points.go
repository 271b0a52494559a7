package models

// DefaultResponsePoints is awarded for response types outside the fixed table.
const DefaultResponsePoints int64 = 5

func PointsFor(t ResponseType) int64 {
	switch t {
	case ResponseOnWay:
		return 10
	case ResponseContactedAuthorities:
		return 15
	case ResponseReached:
		return 25
	case ResponseResolved:
		return 50
	default:
		return DefaultResponsePoints
	}
}
