package api

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

func parseDateParam(c *fiber.Ctx, name string) (time.Time, bool) {
	value := c.Query(name)
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Error:   "Bad request",
		Message: message,
	})
}

func (s *APIServer) storeError(c *fiber.Ctx, message string, err error) error {
	errStr := err.Error()
	s.Logger.Errorw(message, "error", err)
	return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "Database error",
		Message: message,
		Stack:   &errStr,
	})
}

func (s *APIServer) GetCalendar(c *fiber.Ctx) error {
	from, ok := parseDateParam(c, "startDate")
	if !ok {
		return badRequest(c, "startDate is required in YYYY-MM-DD format")
	}
	to, ok := parseDateParam(c, "endDate")
	if !ok {
		return badRequest(c, "endDate is required in YYYY-MM-DD format")
	}

	calendar, err := s.Data.CalendarForRange(c.Context(), from, to.Add(24*time.Hour-time.Nanosecond), s.CalendarTTL)
	if err != nil {
		return s.storeError(c, "Failed to build fare calendar", err)
	}

	return c.JSON(calendar)
}

func (s *APIServer) GetPrices(c *fiber.Ctx) error {
	routeID, err := uuid.Parse(c.Query("routeId"))
	if err != nil {
		return badRequest(c, "routeId is required and must be a UUID")
	}

	days := c.QueryInt("days", 7)
	if days <= 0 {
		days = 7
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	snapshots, err := s.Data.SnapshotsByRouteSince(c.Context(), routeID, since, c.Query("class"))
	if err != nil {
		return s.storeError(c, "Failed to retrieve prices", err)
	}

	return c.JSON(snapshots)
}

func (s *APIServer) GetPriceHistory(c *fiber.Ctx) error {
	routeID, err := uuid.Parse(c.Query("routeId"))
	if err != nil {
		return badRequest(c, "routeId is required and must be a UUID")
	}

	departureDate, ok := parseDateParam(c, "departureDate")
	if !ok {
		return badRequest(c, "departureDate is required in YYYY-MM-DD format")
	}

	histories, err := s.Data.PriceHistory(c.Context(), routeID, departureDate)
	if err != nil {
		return s.storeError(c, "Failed to retrieve price history", err)
	}

	return c.JSON(histories)
}

func (s *APIServer) GetPricesExport(c *fiber.Ctx) error {
	from, ok := parseDateParam(c, "startDate")
	if !ok {
		return badRequest(c, "startDate is required in YYYY-MM-DD format")
	}
	to, ok := parseDateParam(c, "endDate")
	if !ok {
		return badRequest(c, "endDate is required in YYYY-MM-DD format")
	}

	records, err := s.Data.ExportRecords(c.Context(), from, to.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		return s.storeError(c, "Failed to export prices", err)
	}

	return c.JSON(records)
}

func (s *APIServer) GetLastUpdate(c *fiber.Ctx) error {
	last, err := s.Data.LastCaptureTime(c.Context())
	if err != nil {
		return s.storeError(c, "Failed to retrieve last update", err)
	}

	if last == nil {
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Error:   "Not found",
			Message: "No price snapshots captured yet",
		})
	}

	return c.JSON(LastUpdateResponse{LastUpdate: *last})
}

func (s *APIServer) GetRestricted(c *fiber.Ctx) error {
	count, err := s.Data.CountSnapshotsByClassPattern(c.Context(), s.Restricted)
	if err != nil {
		return s.storeError(c, "Failed to count restricted snapshots", err)
	}

	return c.JSON(RestrictedCountResponse{Count: count})
}

func (s *APIServer) PurgeRestricted(c *fiber.Ctx) error {
	deleted, err := s.Data.DeleteSnapshotsByClassPattern(c.Context(), s.Restricted)
	if err != nil {
		return s.storeError(c, "Failed to purge restricted snapshots", err)
	}

	s.Logger.Infow("purged restricted snapshots", "deleted", deleted)
	return c.JSON(RestrictedPurgeResponse{Deleted: deleted})
}
