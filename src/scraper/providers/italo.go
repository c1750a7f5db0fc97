package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/farewatch/fare-engine/src/common/fares"
	"github.com/farewatch/fare-engine/src/common/types"
	"github.com/farewatch/fare-engine/src/scraper/proxy"
	"go.uber.org/zap"
)

const ProviderItalo = "ITALO"

// ItaloStations maps station keys to Italo's short station codes.
var ItaloStations = map[string]string{
	"ROMA_TERMINI":     "ROT",
	"ROMA_TIBURTINA":   "RTI",
	"NAPOLI_CENTRALE":  "NAC",
	"NAPOLI_AFRAGOLA":  "NAA",
	"MILANO_CENTRALE":  "MIC",
	"MILANO_ROGOREDO":  "MIR",
	"FIRENZE_SMN":      "FIS",
	"VENEZIA_MESTRE":   "VEM",
	"BOLOGNA_CENTRALE": "BOC",
	"TORINO_PN":        "TOP",
}

const italoSearchURL = "https://italoinviaggio.italotreno.it/api/booking/search"

type Italo struct {
	url        string
	proxies    proxy.TransportSource
	restricted fares.RestrictedTokens
	timeout    time.Duration
	logger     *zap.SugaredLogger
}

func NewItalo(proxies proxy.TransportSource, restricted fares.RestrictedTokens, logger *zap.SugaredLogger) *Italo {
	return &Italo{
		url:        italoSearchURL,
		proxies:    proxies,
		restricted: restricted,
		timeout:    30 * time.Second,
		logger:     logger,
	}
}

func NewItaloWithURL(url string, proxies proxy.TransportSource, restricted fares.RestrictedTokens, logger *zap.SugaredLogger) *Italo {
	c := NewItalo(proxies, restricted, logger)
	c.url = url
	return c
}

func (i *Italo) Name() string { return ProviderItalo }

// Search queries journeys for the anchor's date. Italo takes a date, not
// a departure instant; the collector's window filter narrows the result.
func (i *Italo) Search(ctx context.Context, origin, destination string, anchor time.Time) []types.Journey {
	request := types.ItaloSearchRequest{
		DepartureStation: origin,
		ArrivalStation:   destination,
		DepartureDate:    anchor.UTC().Format("2006-01-02"),
		Adults:           1,
		DiscountCards:    []string{},
		IsOneWay:         true,
	}

	body, err := json.Marshal(request)
	if err != nil {
		i.logger.Warnw("failed to encode italo request", "error", err)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.url, bytes.NewReader(body))
	if err != nil {
		i.logger.Warnw("failed to build italo request", "error", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "it-IT,it;q=0.9")
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Origin", "https://www.italotreno.it")
	req.Header.Set("Referer", "https://www.italotreno.it/")

	client := &http.Client{Timeout: i.timeout, Transport: i.proxies.Transport(ctx)}

	resp, err := client.Do(req)
	if err != nil {
		i.logger.Warnw("italo request failed", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		i.logger.Warnw("italo API error", "status", resp.StatusCode)
		return nil
	}

	var payload types.ItaloResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		i.logger.Warnw("failed to decode italo response", "error", err)
		return nil
	}

	journeys := fares.ExtractItalo(&payload, i.restricted)
	i.logger.Infow("italo search complete",
		"origin", origin, "destination", destination,
		"date", request.DepartureDate, "journeys", len(journeys))
	return journeys
}
