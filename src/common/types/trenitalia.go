package types

import "time"

// Trenitalia "solutions" search payloads. Field names follow the lefrecce
// BFF API; anything the API omits for regional trains is a pointer.

type TrenitaliaSearchRequest struct {
	DepartureLocationID   int                          `json:"departureLocationId"`
	ArrivalLocationID     int                          `json:"arrivalLocationId"`
	DepartureTime         string                       `json:"departureTime"`
	Adults                int                          `json:"adults"`
	Children              int                          `json:"children"`
	Criteria              TrenitaliaSearchCriteria     `json:"criteria"`
	AdvancedSearchRequest TrenitaliaAdvancedSearchBody `json:"advancedSearchRequest"`
}

type TrenitaliaSearchCriteria struct {
	FrecceOnly   bool   `json:"frecceOnly"`
	RegionalOnly bool   `json:"regionalOnly"`
	NoChanges    bool   `json:"noChanges"`
	Order        string `json:"order"`
	Limit        int    `json:"limit"`
	Offset       int    `json:"offset"`
}

type TrenitaliaAdvancedSearchBody struct {
	BestFare bool `json:"bestFare"`
}

type TrenitaliaResponse struct {
	Solutions []TrenitaliaSolution `json:"solutions"`
}

type TrenitaliaSolution struct {
	Solution TrenitaliaSolutionDetail `json:"solution"`
	Grids    []TrenitaliaGrid         `json:"grids"`
}

type TrenitaliaSolutionDetail struct {
	ID            string            `json:"id"`
	Origin        string            `json:"origin"`
	Destination   string            `json:"destination"`
	DepartureTime time.Time         `json:"departureTime"`
	ArrivalTime   time.Time         `json:"arrivalTime"`
	Duration      string            `json:"duration"`
	Price         *TrenitaliaAmount `json:"price"`
	Trains        []TrenitaliaTrain `json:"trains"`
}

type TrenitaliaTrain struct {
	TrainCategory string `json:"trainCategory"`
	Acronym       string `json:"acronym"`
	Name          string `json:"name"`
	Denomination  string `json:"denomination"`
}

type TrenitaliaGrid struct {
	Services []TrenitaliaService `json:"services"`
}

type TrenitaliaService struct {
	Name     string            `json:"name"`
	Offers   []TrenitaliaOffer `json:"offers"`
	MinPrice *TrenitaliaAmount `json:"minPrice"`
}

type TrenitaliaOffer struct {
	Name            string            `json:"name"`
	ServiceName     string            `json:"serviceName"`
	Status          string            `json:"status"`
	Price           *TrenitaliaAmount `json:"price"`
	AvailableAmount int               `json:"availableAmount"`
}

type TrenitaliaAmount struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}
