// Package collector produces the deduplicated fare snapshots to persist
// for each route, direction and date, querying the provider at anchor
// times chosen to bracket the DST-dependent departure windows.
package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/farewatch/fare-engine/src/common/data"
	"github.com/farewatch/fare-engine/src/common/timewindow"
	"github.com/farewatch/fare-engine/src/common/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the slice of the data client the collector needs.
type Store interface {
	FindRoute(ctx context.Context, origin, destination, provider string) (*data.Route, error)
	DeleteSnapshotsByRoutesAndDateRange(ctx context.Context, routeIDs []uuid.UUID, from, to time.Time) (int64, error)
	InsertSnapshot(ctx context.Context, snapshot data.PriceSnapshot) error
}

// Provider is an upstream booking API returning forward-looking journeys
// from an anchor time. A failed call yields an empty slice, not an error.
type Provider interface {
	Name() string
	Search(ctx context.Context, origin, destination string, anchor time.Time) []types.Journey
}

// Endpoints is the natural-key pair of one directed route.
type Endpoints struct {
	Origin      string
	Destination string
}

type Pauses struct {
	AfterOutbound  time.Duration
	BetweenAnchors time.Duration
	AfterDate      time.Duration
}

type Stats struct {
	DaysScraped   int `json:"daysScraped"`
	OutboundSaved int `json:"outboundPrices"`
	ReturnSaved   int `json:"returnPrices"`
	Errors        int `json:"errors"`
}

type Collector struct {
	store    Store
	provider Provider
	matcher  *timewindow.Matcher
	outbound Endpoints
	inbound  Endpoints
	pauses   Pauses
	logger   *zap.SugaredLogger
	now      func() time.Time
}

func New(store Store, provider Provider, matcher *timewindow.Matcher, outbound, inbound Endpoints, pauses Pauses, logger *zap.SugaredLogger) *Collector {
	return &Collector{
		store:    store,
		provider: provider,
		matcher:  matcher,
		outbound: outbound,
		inbound:  inbound,
		pauses:   pauses,
		logger:   logger,
		now:      time.Now,
	}
}

// Run scrapes the next `days` dates, starting tomorrow. Routes must exist
// before a run; a missing route is fatal for the whole run, while a
// failed date is logged and skipped.
func (c *Collector) Run(ctx context.Context, days int) (Stats, error) {
	stats := Stats{}

	outboundRoute, err := c.store.FindRoute(ctx, c.outbound.Origin, c.outbound.Destination, c.provider.Name())
	if err != nil {
		return stats, fmt.Errorf("outbound route missing, initialize routes first: %w", err)
	}
	returnRoute, err := c.store.FindRoute(ctx, c.inbound.Origin, c.inbound.Destination, c.provider.Name())
	if err != nil {
		return stats, fmt.Errorf("return route missing, initialize routes first: %w", err)
	}

	today := c.now().UTC()
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	for i := 1; i <= days; i++ {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}

		date := start.AddDate(0, 0, i)
		outboundSaved, returnSaved, err := c.collectDate(ctx, outboundRoute, returnRoute, date)
		stats.OutboundSaved += outboundSaved
		stats.ReturnSaved += returnSaved
		if err != nil {
			c.logger.Errorw("scrape failed for date", "date", date.Format("2006-01-02"), "error", err)
			stats.Errors++
			continue
		}
		stats.DaysScraped++
		c.logger.Infow("scraped date", "date", date.Format("2006-01-02"),
			"outbound", outboundSaved, "return", returnSaved)

		sleep(ctx, c.pauses.AfterDate)
	}

	return stats, nil
}

func (c *Collector) collectDate(ctx context.Context, outboundRoute, returnRoute *data.Route, date time.Time) (int, int, error) {
	dayStart := date
	dayEnd := date.Add(24*time.Hour - time.Millisecond)

	// clear the date before re-scraping it so each run replaces stale rows
	_, err := c.store.DeleteSnapshotsByRoutesAndDateRange(ctx, []uuid.UUID{outboundRoute.ID, returnRoute.ID}, dayStart, dayEnd)
	if err != nil {
		return 0, 0, err
	}

	// one outbound anchor covers 07:00 local in both regimes: 05:00 UTC
	// in summer is the window itself, and winter's 06:00 UTC is within
	// the forward-looking result window
	outboundAnchor := date.Add(5 * time.Hour)
	outboundJourneys := c.provider.Search(ctx, c.outbound.Origin, c.outbound.Destination, outboundAnchor)

	outboundSaved, err := c.persistMatching(ctx, outboundRoute.ID, timewindow.Outbound, outboundJourneys)
	if err != nil {
		return outboundSaved, 0, err
	}

	sleep(ctx, c.pauses.AfterOutbound)

	// the return windows of the two regimes do not overlap in UTC, so
	// two anchors are needed: 14:30 for summer, 15:30 for winter
	summerAnchor := date.Add(14*time.Hour + 30*time.Minute)
	returnSummer := c.provider.Search(ctx, c.inbound.Origin, c.inbound.Destination, summerAnchor)

	sleep(ctx, c.pauses.BetweenAnchors)

	winterAnchor := date.Add(15*time.Hour + 30*time.Minute)
	returnWinter := c.provider.Search(ctx, c.inbound.Origin, c.inbound.Destination, winterAnchor)

	merged := MergeDedup(returnSummer, returnWinter)

	returnSaved, err := c.persistMatching(ctx, returnRoute.ID, timewindow.Return, merged)
	if err != nil {
		return outboundSaved, returnSaved, err
	}

	return outboundSaved, returnSaved, nil
}

func (c *Collector) persistMatching(ctx context.Context, routeID uuid.UUID, direction timewindow.Direction, journeys []types.Journey) (int, error) {
	saved := 0
	for _, journey := range journeys {
		if !c.matcher.Matches(direction, journey.DepartureTime) {
			continue
		}
		for _, fare := range journey.Fares {
			err := c.store.InsertSnapshot(ctx, data.PriceSnapshot{
				RouteID:        routeID,
				DepartureAt:    journey.DepartureTime,
				TrainNumber:    journey.TrainNumber,
				TrainType:      journey.TrainType,
				Class:          fare.Class,
				Price:          fare.Price,
				AvailableSeats: fare.AvailableSeats,
				TotalAvailable: journey.TotalAvailable,
				Duration:       journey.Duration,
			})
			if err != nil {
				return saved, err
			}
			saved++
		}
		c.logger.Debugw("saved journey", "direction", direction.String(),
			"train", journey.TrainNumber, "departure", journey.DepartureTime)
	}
	return saved, nil
}

// MergeDedup concatenates journey lists and drops duplicates by
// (train number, exact departure instant). First occurrence wins.
func MergeDedup(lists ...[]types.Journey) []types.Journey {
	seen := map[string]bool{}
	merged := []types.Journey{}
	for _, list := range lists {
		for _, journey := range list {
			key := journey.TrainNumber + "-" + journey.DepartureTime.UTC().Format(time.RFC3339)
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, journey)
		}
	}
	return merged
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
