package api

import (
	"context"
	"time"

	"github.com/farewatch/fare-engine/src/common/config"
	"github.com/farewatch/fare-engine/src/common/data"
	"github.com/farewatch/fare-engine/src/common/fares"
	"github.com/farewatch/fare-engine/src/common/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store is the slice of the data layer the API reads from.
type Store interface {
	ListActiveRoutes(ctx context.Context) ([]data.Route, error)
	CalendarForRange(ctx context.Context, from, to time.Time, cacheTTL time.Duration) (data.Calendar, error)
	SnapshotsByRouteSince(ctx context.Context, routeID uuid.UUID, since time.Time, class string) ([]data.PriceSnapshot, error)
	PriceHistory(ctx context.Context, routeID uuid.UUID, departureDate time.Time) ([]data.TrainPriceHistory, error)
	ExportRecords(ctx context.Context, from, to time.Time) ([]data.ExportRecord, error)
	LastCaptureTime(ctx context.Context) (*time.Time, error)
	CountSnapshotsByClassPattern(ctx context.Context, tokens []string) (int64, error)
	DeleteSnapshotsByClassPattern(ctx context.Context, tokens []string) (int64, error)
}

// JobPublisher hands scrape requests off to the scraper service.
type JobPublisher interface {
	PublishScrape(ctx context.Context, days int) error
}

type APIServer struct {
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Logger *zap.SugaredLogger
	Data   Store
	Jobs   JobPublisher

	ScrapeKey   string
	DefaultDays int
	MaxDays     int
	CalendarTTL time.Duration
	Restricted  fares.RestrictedTokens
}

func NewServer(cfg *config.Config) (*APIServer, error) {
	logger := utils.GetLogger()

	db, err := utils.NewPostgresConnection()
	if err != nil {
		logger.Errorw("failed to connect to database", "error", err)
		return nil, err
	}

	redis := utils.NewRedisClient()

	data := data.NewDataClient(db, redis, logger)

	_, channel, err := utils.NewRabbitConnection()
	if err != nil {
		logger.Errorw("failed to connect to RabbitMQ", "error", err)
		return nil, err
	}

	jobs, err := NewRabbitJobs(channel)
	if err != nil {
		logger.Errorw("failed to declare scrape queue", "error", err)
		return nil, err
	}

	return &APIServer{
		DB:          db,
		Redis:       redis,
		Logger:      logger,
		Data:        data,
		Jobs:        jobs,
		ScrapeKey:   cfg.API.ScrapeKey,
		DefaultDays: cfg.Scraper.DefaultDays,
		MaxDays:     cfg.Scraper.MaxDays,
		CalendarTTL: cfg.API.CalendarTTL,
		Restricted:  fares.RestrictedTokens(cfg.Scraper.RestrictedFare),
	}, nil
}

func RegisterHandlers(app *fiber.App, s *APIServer) {
	app.Get("/health", s.GetHealth)
	app.Get("/routes", s.GetRoutes)
	app.Post("/scrape", s.PostScrape)
	app.Get("/calendar", s.GetCalendar)
	app.Get("/prices", s.GetPrices)
	app.Get("/prices/history", s.GetPriceHistory)
	app.Get("/prices/export", s.GetPricesExport)
	app.Get("/prices/last-update", s.GetLastUpdate)
	app.Get("/prices/restricted", s.GetRestricted)
	app.Post("/prices/restricted", s.PurgeRestricted)
}
