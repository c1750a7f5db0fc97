package data

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/farewatch/fare-engine/src/common/timewindow"
	"github.com/google/uuid"
)

// CalendarFare is the cheapest matching fare for one direction on one day.
type CalendarFare struct {
	Price         float64   `json:"price"`
	TrainNumber   string    `json:"trainNumber"`
	DepartureTime time.Time `json:"departureTime"`
	Class         string    `json:"class"`
}

type CalendarDay struct {
	Outbound *CalendarFare `json:"outbound"`
	Return   *CalendarFare `json:"return"`
}

// Calendar maps departure dates (YYYY-MM-DD) to the cheapest outbound and
// return fares observed for that day. Only departures inside the exact
// tracked windows count; the direction of each snapshot is recovered from
// its departure time.
type Calendar map[string]CalendarDay

// CalendarForRange builds the calendar for departures in [from, to] over
// all active routes. Results are read through redis with the given TTL;
// a nil redis client or a cache failure falls back to the database.
func (dc *DataClient) CalendarForRange(ctx context.Context, from, to time.Time, cacheTTL time.Duration) (Calendar, error) {
	cacheKey := fmt.Sprintf("calendar:%s:%s", from.UTC().Format("2006-01-02"), to.UTC().Format("2006-01-02"))

	if dc.rdb != nil {
		if cached, err := dc.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var calendar Calendar
			if err := json.Unmarshal([]byte(cached), &calendar); err == nil {
				return calendar, nil
			}
		}
	}

	routes, err := dc.ListActiveRoutes(ctx)
	if err != nil {
		return nil, err
	}
	routeIDs := make([]uuid.UUID, 0, len(routes))
	for _, r := range routes {
		routeIDs = append(routeIDs, r.ID)
	}

	snapshots, err := dc.SnapshotsByRoutesAndDepartureWindow(ctx, routeIDs, from, to)
	if err != nil {
		return nil, err
	}

	calendar := Calendar{}
	for _, s := range snapshots {
		var direction timewindow.Direction
		switch {
		case timewindow.MatchesOutbound(s.DepartureAt):
			direction = timewindow.Outbound
		case timewindow.MatchesReturn(s.DepartureAt):
			direction = timewindow.Return
		default:
			continue
		}

		dateKey := s.DepartureAt.UTC().Format("2006-01-02")
		day := calendar[dateKey]

		fare := &CalendarFare{
			Price:         s.Price,
			TrainNumber:   s.TrainNumber,
			DepartureTime: s.DepartureAt,
			Class:         s.Class,
		}

		if direction == timewindow.Outbound {
			if day.Outbound == nil || fare.Price < day.Outbound.Price {
				day.Outbound = fare
			}
		} else {
			if day.Return == nil || fare.Price < day.Return.Price {
				day.Return = fare
			}
		}
		calendar[dateKey] = day
	}

	if dc.rdb != nil {
		if encoded, err := json.Marshal(calendar); err == nil {
			if err := dc.rdb.Set(ctx, cacheKey, encoded, cacheTTL).Err(); err != nil && dc.logger != nil {
				dc.logger.Warnw("failed to cache calendar", "key", cacheKey, "error", err)
			}
		}
	}

	return calendar, nil
}

