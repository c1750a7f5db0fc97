package data

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// EnsureRoute creates the route identified by its natural key if it does
// not exist and returns the stored row either way.
func (dc *DataClient) EnsureRoute(ctx context.Context, route Route) (Route, error) {
	if route.ID == uuid.Nil {
		route.ID = uuid.New()
	}

	_, err := dc.pg.Exec(ctx, `
		INSERT INTO route (id, origin, destination, origin_name, dest_name, provider, active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		ON CONFLICT (origin, destination, provider) DO NOTHING
	`, route.ID, route.Origin, route.Destination, route.OriginName, route.DestName, route.Provider)
	if err != nil {
		return Route{}, fmt.Errorf("failed to upsert route: %w", err)
	}

	stored, err := dc.FindRoute(ctx, route.Origin, route.Destination, route.Provider)
	if err != nil {
		return Route{}, err
	}
	return *stored, nil
}

// FindRoute looks a route up by its natural key. Inactive routes are
// returned too; callers that need active ones check the flag.
func (dc *DataClient) FindRoute(ctx context.Context, origin, destination, provider string) (*Route, error) {
	var route Route
	err := dc.pg.QueryRow(ctx, `
		SELECT id, origin, destination, origin_name, dest_name, provider, active, created_at
		FROM route
		WHERE origin = $1 AND destination = $2 AND provider = $3
	`, origin, destination, provider).Scan(
		&route.ID,
		&route.Origin,
		&route.Destination,
		&route.OriginName,
		&route.DestName,
		&route.Provider,
		&route.Active,
		&route.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find route %s->%s (%s): %w", origin, destination, provider, err)
	}
	return &route, nil
}

func (dc *DataClient) ListActiveRoutes(ctx context.Context) ([]Route, error) {
	rows, err := dc.pg.Query(ctx, `
		SELECT id, origin, destination, origin_name, dest_name, provider, active, created_at
		FROM route
		WHERE active
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	defer rows.Close()

	routes := []Route{}
	for rows.Next() {
		var route Route
		if err := rows.Scan(
			&route.ID,
			&route.Origin,
			&route.Destination,
			&route.OriginName,
			&route.DestName,
			&route.Provider,
			&route.Active,
			&route.CreatedAt,
		); err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return routes, nil
}

// SetRouteActive flips the active flag, the only mutation routes allow.
func (dc *DataClient) SetRouteActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := dc.pg.Exec(ctx, `UPDATE route SET active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("failed to update route %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("route %s not found", id)
	}
	return nil
}
