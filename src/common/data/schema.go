package data

import "context"

const schema = `
CREATE TABLE IF NOT EXISTS route (
	id UUID PRIMARY KEY,
	origin TEXT NOT NULL,
	destination TEXT NOT NULL,
	origin_name TEXT NOT NULL,
	dest_name TEXT NOT NULL,
	provider TEXT NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (origin, destination, provider)
);

CREATE TABLE IF NOT EXISTS price (
	id UUID PRIMARY KEY,
	route_id UUID NOT NULL REFERENCES route(id),
	departure_at TIMESTAMPTZ NOT NULL,
	train_number TEXT NOT NULL,
	train_type TEXT NOT NULL,
	class TEXT NOT NULL,
	price NUMERIC(10,2) NOT NULL,
	available_seats INT,
	total_available INT,
	duration INT NOT NULL DEFAULT 0,
	scraped_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_price_route_departure ON price (route_id, departure_at);
CREATE INDEX IF NOT EXISTS idx_price_scraped ON price (scraped_at);
`

// EnsureSchema creates the tables on first run. There is no migration
// tooling; columns never change shape, only rows accumulate.
func (dc *DataClient) EnsureSchema(ctx context.Context) error {
	_, err := dc.pg.Exec(ctx, schema)
	return err
}
