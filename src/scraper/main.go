package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/farewatch/fare-engine/src/common/config"
	"github.com/farewatch/fare-engine/src/common/data"
	"github.com/farewatch/fare-engine/src/common/fares"
	"github.com/farewatch/fare-engine/src/common/timewindow"
	"github.com/farewatch/fare-engine/src/common/utils"
	"github.com/farewatch/fare-engine/src/scraper/collector"
	"github.com/farewatch/fare-engine/src/scraper/providers"
	"github.com/farewatch/fare-engine/src/scraper/proxy"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type scrapeJob struct {
	Days int `json:"days"`
}

func ensureRoutes(ctx context.Context, dc *data.DataClient, italoEnabled bool) error {
	routes := []data.Route{
		{
			Origin:      strconv.Itoa(providers.TrenitaliaStations["ROMA_TERMINI"]),
			Destination: strconv.Itoa(providers.TrenitaliaStations["NAPOLI_CENTRALE"]),
			OriginName:  "Roma Termini",
			DestName:    "Napoli Centrale",
			Provider:    providers.ProviderTrenitalia,
			Active:      true,
		},
		{
			Origin:      strconv.Itoa(providers.TrenitaliaStations["NAPOLI_CENTRALE"]),
			Destination: strconv.Itoa(providers.TrenitaliaStations["ROMA_TERMINI"]),
			OriginName:  "Napoli Centrale",
			DestName:    "Roma Termini",
			Provider:    providers.ProviderTrenitalia,
			Active:      true,
		},
	}

	if italoEnabled {
		routes = append(routes,
			data.Route{
				Origin:      providers.ItaloStations["ROMA_TERMINI"],
				Destination: providers.ItaloStations["NAPOLI_CENTRALE"],
				OriginName:  "Roma Termini",
				DestName:    "Napoli Centrale",
				Provider:    providers.ProviderItalo,
				Active:      true,
			},
			data.Route{
				Origin:      providers.ItaloStations["NAPOLI_CENTRALE"],
				Destination: providers.ItaloStations["ROMA_TERMINI"],
				OriginName:  "Napoli Centrale",
				DestName:    "Roma Termini",
				Provider:    providers.ProviderItalo,
				Active:      true,
			},
		)
	}

	for _, route := range routes {
		if _, err := dc.EnsureRoute(ctx, route); err != nil {
			return err
		}
	}
	return nil
}

func buildCollectors(cfg *config.Config, dc *data.DataClient, logger *zap.SugaredLogger) []*collector.Collector {
	proxies := proxy.NewSource(cfg.Proxy, logger)
	restricted := fares.RestrictedTokens(cfg.Scraper.RestrictedFare)
	matcher := timewindow.NewMatcher()
	pauses := collector.Pauses{
		AfterOutbound:  cfg.Scraper.OutboundPause,
		BetweenAnchors: cfg.Scraper.AnchorPause,
		AfterDate:      cfg.Scraper.DatePause,
	}

	collectors := []*collector.Collector{
		collector.New(dc, providers.NewTrenitalia(proxies, restricted, logger), matcher,
			collector.Endpoints{
				Origin:      strconv.Itoa(providers.TrenitaliaStations["ROMA_TERMINI"]),
				Destination: strconv.Itoa(providers.TrenitaliaStations["NAPOLI_CENTRALE"]),
			},
			collector.Endpoints{
				Origin:      strconv.Itoa(providers.TrenitaliaStations["NAPOLI_CENTRALE"]),
				Destination: strconv.Itoa(providers.TrenitaliaStations["ROMA_TERMINI"]),
			},
			pauses, logger),
	}

	if cfg.Scraper.ItaloEnabled {
		collectors = append(collectors,
			collector.New(dc, providers.NewItalo(proxies, restricted, logger), matcher,
				collector.Endpoints{
					Origin:      providers.ItaloStations["ROMA_TERMINI"],
					Destination: providers.ItaloStations["NAPOLI_CENTRALE"],
				},
				collector.Endpoints{
					Origin:      providers.ItaloStations["NAPOLI_CENTRALE"],
					Destination: providers.ItaloStations["ROMA_TERMINI"],
				},
				pauses, logger))
	}

	return collectors
}

func main() {
	godotenv.Load()

	utils.InitLogger()
	defer utils.SyncLogger()
	logger := utils.GetLogger()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := utils.NewPostgresConnection()
	if err != nil {
		logger.Fatalw("failed to connect to postgres", "error", err)
	}
	defer pg.Close()

	rdb := utils.NewRedisClient()
	defer rdb.Close()

	dc := data.NewDataClient(pg, rdb, logger)

	if err := dc.EnsureSchema(ctx); err != nil {
		logger.Fatalw("failed to ensure schema", "error", err)
	}
	if err := ensureRoutes(ctx, dc, cfg.Scraper.ItaloEnabled); err != nil {
		logger.Fatalw("failed to initialize routes", "error", err)
	}

	collectors := buildCollectors(cfg, dc, logger)

	run := func(days int) {
		if days <= 0 {
			days = cfg.Scraper.DefaultDays
		}
		if days > cfg.Scraper.MaxDays {
			days = cfg.Scraper.MaxDays
		}
		for _, c := range collectors {
			stats, err := c.Run(ctx, days)
			if err != nil {
				logger.Errorw("scrape run failed", "error", err)
				continue
			}
			logger.Infow("scrape run finished",
				"days", stats.DaysScraped,
				"outbound", stats.OutboundSaved,
				"return", stats.ReturnSaved,
				"errors", stats.Errors,
			)
		}
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Scraper.Cron, func() { run(cfg.Scraper.DefaultDays) }); err != nil {
		logger.Fatalw("invalid cron expression", "cron", cfg.Scraper.Cron, "error", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	mqConn, channel, err := utils.NewRabbitConnection()
	if err != nil {
		logger.Fatalw("failed to connect to RabbitMQ", "error", err)
	}
	defer mqConn.Close()
	defer channel.Close()

	closeChan := make(chan *amqp.Error)
	mqConn.NotifyClose(closeChan)

	go func() {
		select {
		case err := <-closeChan:
			if err != nil {
				logger.Warnw("RabbitMQ connection closed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}()

	if _, err := channel.QueueDeclare("scrape", false, false, false, false, nil); err != nil {
		logger.Fatalw("failed to declare scrape queue", "error", err)
	}

	msgs, err := channel.Consume("scrape", "", true, false, false, false, nil)
	if err != nil {
		logger.Fatalw("failed to consume scrape queue", "error", err)
	}

	go func() {
		for msg := range msgs {
			var job scrapeJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				logger.Warnw("bad scrape job", "error", err)
				continue
			}
			logger.Infow("scrape job received", "days", job.Days)
			run(job.Days)
		}
	}()

	if cfg.Scraper.RunOnStart {
		go run(cfg.Scraper.DefaultDays)
	}

	logger.Infow("scraper started", "cron", cfg.Scraper.Cron, "italo", cfg.Scraper.ItaloEnabled)

	<-ctx.Done()
}
