package types

import "time"

// FareLine is one normalized price for a fare class on a single journey.
// AvailableSeats is nil when the provider did not report a seat count for
// the selected offer.
type FareLine struct {
	Class          string
	Price          float64
	AvailableSeats *int
}

// Journey is the provider-independent view of one upstream search result.
// It is transient: the collector consumes it immediately and only the
// surviving fare lines are persisted.
type Journey struct {
	TrainNumber    string
	TrainType      string
	DepartureTime  time.Time
	ArrivalTime    time.Time
	Duration       int // minutes
	Fares          []FareLine
	TotalAvailable *int
}
