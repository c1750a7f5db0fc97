package data

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Route is a directed origin->destination pair for one provider. The
// (origin, destination, provider) triple is unique; rows are created
// idempotently at startup and only the active flag is ever mutated.
type Route struct {
	ID          uuid.UUID `json:"id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	OriginName  string    `json:"originName"`
	DestName    string    `json:"destName"`
	Provider    string    `json:"provider"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PriceSnapshot is one observed price for one train, fare class and
// capture moment. Rows are append-only; repeated captures of the same
// train/class form a price-evolution series.
type PriceSnapshot struct {
	ID             uuid.UUID `json:"id"`
	RouteID        uuid.UUID `json:"routeId"`
	DepartureAt    time.Time `json:"departureAt"`
	TrainNumber    string    `json:"trainNumber"`
	TrainType      string    `json:"trainType"`
	Class          string    `json:"class"`
	Price          float64   `json:"price"`
	AvailableSeats *int      `json:"availableSeats"`
	TotalAvailable *int      `json:"totalAvailable"`
	Duration       int       `json:"duration"`
	ScrapedAt      time.Time `json:"scrapedAt"`
}

type DataClient struct {
	pg     *pgxpool.Pool
	rdb    *redis.Client
	logger *zap.SugaredLogger
}

func NewDataClient(db *pgxpool.Pool, rdb *redis.Client, logger *zap.SugaredLogger) *DataClient {
	return &DataClient{
		pg:     db,
		rdb:    rdb,
		logger: logger,
	}
}
