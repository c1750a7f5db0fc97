package api

import "time"

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type ErrorResponse struct {
	Error   string  `json:"error"`
	Message string  `json:"message"`
	Stack   *string `json:"stack,omitempty"`
}

type ScrapeRequest struct {
	Days int `json:"days"`
}

type ScrapeAccepted struct {
	Status string `json:"status"`
	Days   int    `json:"days"`
}

type LastUpdateResponse struct {
	LastUpdate time.Time `json:"lastUpdate"`
}

type RestrictedCountResponse struct {
	Count int64 `json:"count"`
}

type RestrictedPurgeResponse struct {
	Deleted int64 `json:"deleted"`
}
