// Package providers holds the upstream booking API clients. A failed or
// malformed call is never an error to the caller: it yields an empty
// journey list and a warn log, and the scrape loop moves on.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/farewatch/fare-engine/src/common/fares"
	"github.com/farewatch/fare-engine/src/common/types"
	"github.com/farewatch/fare-engine/src/scraper/proxy"
	"go.uber.org/zap"
)

const ProviderTrenitalia = "TRENITALIA"

// TrenitaliaStations maps station keys to the numeric location ids the
// lefrecce API requires.
var TrenitaliaStations = map[string]int{
	"ROMA_TERMINI":     830008409,
	"NAPOLI_CENTRALE":  830009218,
	"MILANO_CENTRALE":  830008300,
	"FIRENZE_SMN":      830000601,
	"VENEZIA_SL":       830000827,
	"BOLOGNA_CENTRALE": 830005100,
	"TORINO_PN":        830000219,
}

const trenitaliaSearchURL = "https://www.lefrecce.it/Channels.Website.BFF.WEB/website/ticket/solutions"

type Trenitalia struct {
	url        string
	proxies    proxy.TransportSource
	restricted fares.RestrictedTokens
	timeout    time.Duration
	logger     *zap.SugaredLogger
}

func NewTrenitalia(proxies proxy.TransportSource, restricted fares.RestrictedTokens, logger *zap.SugaredLogger) *Trenitalia {
	return &Trenitalia{
		url:        trenitaliaSearchURL,
		proxies:    proxies,
		restricted: restricted,
		timeout:    30 * time.Second,
		logger:     logger,
	}
}

// NewTrenitaliaWithURL points the client at a different endpoint. Used by
// tests to target a local server.
func NewTrenitaliaWithURL(url string, proxies proxy.TransportSource, restricted fares.RestrictedTokens, logger *zap.SugaredLogger) *Trenitalia {
	c := NewTrenitalia(proxies, restricted, logger)
	c.url = url
	return c
}

func (t *Trenitalia) Name() string { return ProviderTrenitalia }

// Search queries forward-looking departures from the anchor time. Origin
// and destination are the stored natural keys (stringified location ids).
func (t *Trenitalia) Search(ctx context.Context, origin, destination string, anchor time.Time) []types.Journey {
	originID, err := strconv.Atoi(origin)
	if err != nil {
		t.logger.Warnw("invalid trenitalia origin id", "origin", origin)
		return nil
	}
	destID, err := strconv.Atoi(destination)
	if err != nil {
		t.logger.Warnw("invalid trenitalia destination id", "destination", destination)
		return nil
	}

	request := types.TrenitaliaSearchRequest{
		DepartureLocationID: originID,
		ArrivalLocationID:   destID,
		DepartureTime:       anchor.UTC().Format(time.RFC3339),
		Adults:              1,
		Children:            0,
		Criteria: types.TrenitaliaSearchCriteria{
			Order:  "DEPARTURE_DATE",
			Limit:  20,
			Offset: 0,
		},
		AdvancedSearchRequest: types.TrenitaliaAdvancedSearchBody{BestFare: false},
	}

	body, err := json.Marshal(request)
	if err != nil {
		t.logger.Warnw("failed to encode trenitalia request", "error", err)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		t.logger.Warnw("failed to build trenitalia request", "error", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "it-IT,it;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Origin", "https://www.lefrecce.it")
	req.Header.Set("Referer", "https://www.lefrecce.it/")

	client := &http.Client{Timeout: t.timeout, Transport: t.proxies.Transport(ctx)}

	resp, err := client.Do(req)
	if err != nil {
		t.logger.Warnw("trenitalia request failed", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.logger.Warnw("trenitalia API error", "status", resp.StatusCode)
		return nil
	}

	var payload types.TrenitaliaResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.logger.Warnw("failed to decode trenitalia response", "error", err)
		return nil
	}

	journeys := fares.ExtractTrenitalia(&payload, t.restricted)
	t.logger.Infow("trenitalia search complete",
		"origin", origin, "destination", destination,
		"anchor", anchor.UTC().Format(time.RFC3339), "journeys", len(journeys))
	return journeys
}

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
