package types

import "time"

// Italo booking search payloads.

type ItaloSearchRequest struct {
	DepartureStation string   `json:"DepartureStation"`
	ArrivalStation   string   `json:"ArrivalStation"`
	DepartureDate    string   `json:"DepartureDate"`
	ReturnDate       *string  `json:"ReturnDate"`
	Adults           int      `json:"Adults"`
	Children         int      `json:"Children"`
	Infants          int      `json:"Infants"`
	YoungAdults      int      `json:"YoungAdults"`
	Seniors          int      `json:"Seniors"`
	CartaFreccia     *string  `json:"CartaFreccia"`
	DiscountCards    []string `json:"DiscountCards"`
	IsOneWay         bool     `json:"IsOneWay"`
}

type ItaloResponse struct {
	Journeys         []ItaloJourney `json:"Journeys"`
	OutboundJourneys []ItaloJourney `json:"OutboundJourneys"`
}

type ItaloJourney struct {
	TrainNumber   string           `json:"TrainNumber"`
	DepartureTime time.Time        `json:"DepartureTime"`
	ArrivalTime   time.Time        `json:"ArrivalTime"`
	Duration      string           `json:"Duration"`
	Origin        string           `json:"Origin"`
	Destination   string           `json:"Destination"`
	LowCostFares  []ItaloFare      `json:"LowCostFares"`
	Fares         []ItaloClassFare `json:"Fares"`
}

type ItaloFare struct {
	FareName string  `json:"FareName"`
	Price    float64 `json:"Price"`
	Currency string  `json:"Currency"`
}

type ItaloClassFare struct {
	FareName  string  `json:"FareName"`
	Price     float64 `json:"Price"`
	SeatClass string  `json:"SeatClass"`
}
