package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (dc *DataClient) InsertSnapshot(ctx context.Context, snapshot PriceSnapshot) error {
	if snapshot.ID == uuid.Nil {
		snapshot.ID = uuid.New()
	}
	if snapshot.ScrapedAt.IsZero() {
		snapshot.ScrapedAt = time.Now().UTC()
	}

	_, err := dc.pg.Exec(ctx, `
		INSERT INTO price (id, route_id, departure_at, train_number, train_type, class,
		                   price, available_seats, total_available, duration, scraped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		snapshot.ID,
		snapshot.RouteID,
		snapshot.DepartureAt,
		snapshot.TrainNumber,
		snapshot.TrainType,
		snapshot.Class,
		snapshot.Price,
		snapshot.AvailableSeats,
		snapshot.TotalAvailable,
		snapshot.Duration,
		snapshot.ScrapedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert price snapshot: %w", err)
	}
	return nil
}

// SnapshotsByRouteSince returns snapshots captured within the last given
// window for one route, optionally narrowed to a fare class.
func (dc *DataClient) SnapshotsByRouteSince(ctx context.Context, routeID uuid.UUID, since time.Time, class string) ([]PriceSnapshot, error) {
	query := `
		SELECT id, route_id, departure_at, train_number, train_type, class,
		       price, available_seats, total_available, duration, scraped_at
		FROM price
		WHERE route_id = $1 AND scraped_at >= $2
	`
	args := []interface{}{routeID, since}
	if class != "" {
		query += ` AND class = $3`
		args = append(args, class)
	}
	query += ` ORDER BY departure_at ASC, scraped_at DESC`

	return dc.querySnapshots(ctx, query, args...)
}

// SnapshotsByRoutesAndDepartureWindow returns snapshots for trains
// departing within [from, to] on any of the given routes.
func (dc *DataClient) SnapshotsByRoutesAndDepartureWindow(ctx context.Context, routeIDs []uuid.UUID, from, to time.Time) ([]PriceSnapshot, error) {
	if len(routeIDs) == 0 {
		return []PriceSnapshot{}, nil
	}
	return dc.querySnapshots(ctx, `
		SELECT id, route_id, departure_at, train_number, train_type, class,
		       price, available_seats, total_available, duration, scraped_at
		FROM price
		WHERE route_id = ANY($1) AND departure_at >= $2 AND departure_at <= $3
		ORDER BY departure_at ASC, scraped_at ASC
	`, routeIDs, from, to)
}

// DeleteSnapshotsByRoutesAndDateRange purges every snapshot whose
// departure falls inside [from, to] for the given routes. Used to clear
// a date before re-scraping it.
func (dc *DataClient) DeleteSnapshotsByRoutesAndDateRange(ctx context.Context, routeIDs []uuid.UUID, from, to time.Time) (int64, error) {
	if len(routeIDs) == 0 {
		return 0, nil
	}
	tag, err := dc.pg.Exec(ctx, `
		DELETE FROM price
		WHERE route_id = ANY($1) AND departure_at >= $2 AND departure_at <= $3
	`, routeIDs, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to purge snapshots: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteSnapshotsByClassPattern removes every snapshot whose fare class
// contains one of the tokens, case-insensitively. Maintenance purge for
// age-restricted fares that slipped through older scraper versions.
func (dc *DataClient) DeleteSnapshotsByClassPattern(ctx context.Context, tokens []string) (int64, error) {
	where, args := classPatternFilter(tokens)
	if where == "" {
		return 0, nil
	}
	tag, err := dc.pg.Exec(ctx, `DELETE FROM price WHERE `+where, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to purge snapshots by class: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (dc *DataClient) CountSnapshotsByClassPattern(ctx context.Context, tokens []string) (int64, error) {
	where, args := classPatternFilter(tokens)
	if where == "" {
		return 0, nil
	}
	var count int64
	if err := dc.pg.QueryRow(ctx, `SELECT COUNT(*) FROM price WHERE `+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count snapshots by class: %w", err)
	}
	return count, nil
}

// LastCaptureTime returns the most recent scrape timestamp, or nil when
// no snapshot exists yet.
func (dc *DataClient) LastCaptureTime(ctx context.Context) (*time.Time, error) {
	var last time.Time
	err := dc.pg.QueryRow(ctx, `SELECT scraped_at FROM price ORDER BY scraped_at DESC LIMIT 1`).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &last, nil
}

func classPatternFilter(tokens []string) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	for _, token := range tokens {
		if token == "" {
			continue
		}
		conditions = append(conditions, fmt.Sprintf("class ILIKE $%d", len(args)+1))
		args = append(args, "%"+token+"%")
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return strings.Join(conditions, " OR "), args
}

func (dc *DataClient) querySnapshots(ctx context.Context, query string, args ...interface{}) ([]PriceSnapshot, error) {
	rows, err := dc.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []PriceSnapshot{}
	for rows.Next() {
		var s PriceSnapshot
		if err := rows.Scan(
			&s.ID,
			&s.RouteID,
			&s.DepartureAt,
			&s.TrainNumber,
			&s.TrainType,
			&s.Class,
			&s.Price,
			&s.AvailableSeats,
			&s.TotalAvailable,
			&s.Duration,
			&s.ScrapedAt,
		); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return snapshots, nil
}
