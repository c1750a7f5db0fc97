package data

import (
	"context"
	"time"

	"github.com/farewatch/fare-engine/src/common/timewindow"
	"github.com/google/uuid"
)

// PricePoint is one capture in a train/class price-evolution series.
type PricePoint struct {
	Price     float64   `json:"price"`
	ScrapedAt time.Time `json:"scrapedAt"`
}

// TrainPriceHistory is the price evolution of one (train, fare class)
// pair for a single departure.
type TrainPriceHistory struct {
	TrainNumber string       `json:"trainNumber"`
	TrainType   string       `json:"trainType"`
	Class       string       `json:"class"`
	DepartureAt time.Time    `json:"departureAt"`
	History     []PricePoint `json:"history"`
}

// PriceHistory groups all captures for trains departing on the given day
// by (train number, fare class), ordered by capture time.
func (dc *DataClient) PriceHistory(ctx context.Context, routeID uuid.UUID, departureDate time.Time) ([]TrainPriceHistory, error) {
	startOfDay := time.Date(departureDate.Year(), departureDate.Month(), departureDate.Day(), 0, 0, 0, 0, time.UTC)
	endOfDay := startOfDay.Add(24*time.Hour - time.Nanosecond)

	snapshots, err := dc.querySnapshots(ctx, `
		SELECT id, route_id, departure_at, train_number, train_type, class,
		       price, available_seats, total_available, duration, scraped_at
		FROM price
		WHERE route_id = $1 AND departure_at >= $2 AND departure_at <= $3
		ORDER BY scraped_at ASC
	`, routeID, startOfDay, endOfDay)
	if err != nil {
		return nil, err
	}

	grouped := map[string]*TrainPriceHistory{}
	order := []string{}

	for _, s := range snapshots {
		key := s.TrainNumber + "-" + s.Class
		entry, exists := grouped[key]
		if !exists {
			entry = &TrainPriceHistory{
				TrainNumber: s.TrainNumber,
				TrainType:   s.TrainType,
				Class:       s.Class,
				DepartureAt: s.DepartureAt,
			}
			grouped[key] = entry
			order = append(order, key)
		}
		entry.History = append(entry.History, PricePoint{Price: s.Price, ScrapedAt: s.ScrapedAt})
	}

	histories := make([]TrainPriceHistory, 0, len(order))
	for _, key := range order {
		histories = append(histories, *grouped[key])
	}
	return histories, nil
}

// ExportRecord is one flat row of the raw history export.
type ExportRecord struct {
	DepartureDate  string    `json:"departureDate"`
	ScrapedAt      time.Time `json:"scrapedAt"`
	Direction      string    `json:"direction"`
	RouteLabel     string    `json:"route"`
	TrainNumber    string    `json:"trainNumber"`
	TrainType      string    `json:"trainType"`
	Class          string    `json:"class"`
	Price          float64   `json:"price"`
	AvailableSeats *int      `json:"availableSeats"`
	TotalAvailable *int      `json:"totalAvailable"`
}

// ExportRecords flattens the stored history for departures in [from, to]
// across all active routes, keeping only departures inside the exact
// tracked windows.
func (dc *DataClient) ExportRecords(ctx context.Context, from, to time.Time) ([]ExportRecord, error) {
	routes, err := dc.ListActiveRoutes(ctx)
	if err != nil {
		return nil, err
	}

	routeIDs := make([]uuid.UUID, 0, len(routes))
	labels := make(map[uuid.UUID]string, len(routes))
	for _, r := range routes {
		routeIDs = append(routeIDs, r.ID)
		labels[r.ID] = r.OriginName + " -> " + r.DestName
	}

	snapshots, err := dc.SnapshotsByRoutesAndDepartureWindow(ctx, routeIDs, from, to)
	if err != nil {
		return nil, err
	}

	records := []ExportRecord{}
	for _, s := range snapshots {
		var direction string
		switch {
		case timewindow.MatchesOutbound(s.DepartureAt):
			direction = timewindow.Outbound.String()
		case timewindow.MatchesReturn(s.DepartureAt):
			direction = timewindow.Return.String()
		default:
			continue
		}

		records = append(records, ExportRecord{
			DepartureDate:  s.DepartureAt.UTC().Format("2006-01-02"),
			ScrapedAt:      s.ScrapedAt,
			Direction:      direction,
			RouteLabel:     labels[s.RouteID],
			TrainNumber:    s.TrainNumber,
			TrainType:      s.TrainType,
			Class:          s.Class,
			Price:          s.Price,
			AvailableSeats: s.AvailableSeats,
			TotalAvailable: s.TotalAvailable,
		})
	}
	return records, nil
}
