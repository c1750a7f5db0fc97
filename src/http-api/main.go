package main

import (
	"github.com/farewatch/fare-engine/src/common/config"
	"github.com/farewatch/fare-engine/src/common/utils"
	"github.com/farewatch/fare-engine/src/http-api/api"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	utils.InitLogger()
	defer utils.SyncLogger()
	log := utils.GetLogger()

	cfg := config.Load()

	app := fiber.New()

	app.Use(func(c *fiber.Ctx) error {
		path := c.Path()
		method := c.Method()

		if path != "/health" {
			log.Infow("request", "method", method, "path", path, "status", c.Response().StatusCode())
		}

		return c.Next()
	})

	app.Use(cors.New())

	server, err := api.NewServer(cfg)
	if err != nil {
		log.Fatalw("failed to start http api server", "error", err)
		return
	}

	api.RegisterHandlers(app, server)

	if err := app.Listen(cfg.API.Listen); err != nil {
		log.Fatalw("fiber listen failed", "error", err)
	}
}
