package api

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

func (s *APIServer) GetRoutes(c *fiber.Ctx) error {
	routes, err := s.Data.ListActiveRoutes(c.Context())
	if err != nil {
		errStr := err.Error()
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "Database error",
			Message: "Failed to retrieve routes",
			Stack:   &errStr,
		})
	}

	return c.JSON(routes)
}

func (s *APIServer) PostScrape(c *fiber.Ctx) error {
	if s.ScrapeKey != "" && c.Get("x-api-key") != s.ScrapeKey {
		return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "Unauthorized",
			Message: "Invalid or missing API key",
		})
	}

	var req ScrapeRequest
	// an empty body is fine, it means "use the default window"
	_ = c.BodyParser(&req)

	days := req.Days
	if days <= 0 {
		days = s.DefaultDays
	}
	if days > s.MaxDays {
		days = s.MaxDays
	}

	if err := s.Jobs.PublishScrape(c.Context(), days); err != nil {
		errStr := err.Error()
		s.Logger.Errorw("failed to publish scrape job", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "Queue error",
			Message: "Failed to queue scrape job",
			Stack:   &errStr,
		})
	}

	s.Logger.Infow("scrape job queued", "days", days)
	return c.Status(http.StatusAccepted).JSON(ScrapeAccepted{Status: "queued", Days: days})
}
