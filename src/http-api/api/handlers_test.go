package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/farewatch/fare-engine/src/common/data"
	"github.com/farewatch/fare-engine/src/common/fares"
	"github.com/farewatch/fare-engine/src/common/utils"
	"github.com/farewatch/fare-engine/src/http-api/api"
	"github.com/farewatch/fare-engine/src/http-api/api/mocks"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestApp(store *mocks.MockStore, jobs *mocks.MockJobPublisher, scrapeKey string) *fiber.App {
	app := fiber.New()
	server := &api.APIServer{
		Logger:      utils.GetLogger(),
		Data:        store,
		Jobs:        jobs,
		ScrapeKey:   scrapeKey,
		DefaultDays: 60,
		MaxDays:     120,
		CalendarTTL: 5 * time.Minute,
		Restricted:  fares.DefaultRestrictedTokens(),
	}
	api.RegisterHandlers(app, server)
	return app
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, out))
}

func TestGetHealth(t *testing.T) {
	app := newTestApp(&mocks.MockStore{}, &mocks.MockJobPublisher{}, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health api.HealthResponse
	decodeBody(t, resp, &health)
	assert.Equal(t, "healthy", health.Status)
}

func TestGetRoutes(t *testing.T) {
	store := &mocks.MockStore{}
	store.On("ListActiveRoutes", mock.Anything).Return([]data.Route{
		{ID: uuid.New(), Origin: "830008409", Destination: "830009218", OriginName: "Roma Termini", DestName: "Napoli Centrale", Provider: "TRENITALIA", Active: true},
	}, nil)

	app := newTestApp(store, &mocks.MockJobPublisher{}, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/routes", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var routes []data.Route
	decodeBody(t, resp, &routes)
	require.Len(t, routes, 1)
	assert.Equal(t, "Roma Termini", routes[0].OriginName)
	store.AssertExpectations(t)
}

func TestGetRoutesStoreError(t *testing.T) {
	store := &mocks.MockStore{}
	store.On("ListActiveRoutes", mock.Anything).Return(nil, assert.AnError)

	app := newTestApp(store, &mocks.MockJobPublisher{}, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/routes", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestPostScrapeDefaultsAndCaps(t *testing.T) {
	t.Run("empty body uses default days", func(t *testing.T) {
		jobs := &mocks.MockJobPublisher{}
		jobs.On("PublishScrape", mock.Anything, 60).Return(nil)

		app := newTestApp(&mocks.MockStore{}, jobs, "")

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/scrape", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)

		var accepted api.ScrapeAccepted
		decodeBody(t, resp, &accepted)
		assert.Equal(t, "queued", accepted.Status)
		assert.Equal(t, 60, accepted.Days)
		jobs.AssertExpectations(t)
	})

	t.Run("days above the cap are clamped", func(t *testing.T) {
		jobs := &mocks.MockJobPublisher{}
		jobs.On("PublishScrape", mock.Anything, 120).Return(nil)

		app := newTestApp(&mocks.MockStore{}, jobs, "")

		req := httptest.NewRequest(http.MethodPost, "/scrape", bytes.NewBufferString(`{"days": 365}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)

		var accepted api.ScrapeAccepted
		decodeBody(t, resp, &accepted)
		assert.Equal(t, 120, accepted.Days)
		jobs.AssertExpectations(t)
	})

	t.Run("explicit days pass through", func(t *testing.T) {
		jobs := &mocks.MockJobPublisher{}
		jobs.On("PublishScrape", mock.Anything, 14).Return(nil)

		app := newTestApp(&mocks.MockStore{}, jobs, "")

		req := httptest.NewRequest(http.MethodPost, "/scrape", bytes.NewBufferString(`{"days": 14}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusAccepted, resp.StatusCode)
		jobs.AssertExpectations(t)
	})
}

func TestPostScrapeAPIKey(t *testing.T) {
	jobs := &mocks.MockJobPublisher{}
	app := newTestApp(&mocks.MockStore{}, jobs, "secret")

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/scrape", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	jobs.AssertNotCalled(t, "PublishScrape", mock.Anything, mock.Anything)

	jobs.On("PublishScrape", mock.Anything, 60).Return(nil)
	req := httptest.NewRequest(http.MethodPost, "/scrape", nil)
	req.Header.Set("x-api-key", "secret")

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	jobs.AssertExpectations(t)
}

func TestPostScrapePublishFailure(t *testing.T) {
	jobs := &mocks.MockJobPublisher{}
	jobs.On("PublishScrape", mock.Anything, 60).Return(assert.AnError)

	app := newTestApp(&mocks.MockStore{}, jobs, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/scrape", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestGetCalendar(t *testing.T) {
	store := &mocks.MockStore{}
	store.On("CalendarForRange", mock.Anything, mock.Anything, mock.Anything, 5*time.Minute).Return(data.Calendar{
		"2025-06-15": data.CalendarDay{
			Outbound: &data.CalendarFare{Price: 29.90, TrainNumber: "9510", Class: "Standard"},
		},
	}, nil)

	app := newTestApp(store, &mocks.MockJobPublisher{}, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/calendar?startDate=2025-06-01&endDate=2025-06-30", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var calendar data.Calendar
	decodeBody(t, resp, &calendar)
	require.Contains(t, calendar, "2025-06-15")
	require.NotNil(t, calendar["2025-06-15"].Outbound)
	assert.Equal(t, 29.90, calendar["2025-06-15"].Outbound.Price)
	assert.Nil(t, calendar["2025-06-15"].Return)
}

func TestGetCalendarMissingParams(t *testing.T) {
	app := newTestApp(&mocks.MockStore{}, &mocks.MockJobPublisher{}, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/calendar?startDate=2025-06-01", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/calendar?startDate=june&endDate=2025-06-30", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetPrices(t *testing.T) {
	routeID := uuid.New()
	seats := 12

	store := &mocks.MockStore{}
	store.On("SnapshotsByRouteSince", mock.Anything, routeID, mock.Anything, "Standard").Return([]data.PriceSnapshot{
		{RouteID: routeID, TrainNumber: "9510", Class: "Standard", Price: 29.90, AvailableSeats: &seats},
	}, nil)

	app := newTestApp(store, &mocks.MockJobPublisher{}, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/prices?routeId="+routeID.String()+"&class=Standard", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var snapshots []data.PriceSnapshot
	decodeBody(t, resp, &snapshots)
	require.Len(t, snapshots, 1)
	assert.Equal(t, "9510", snapshots[0].TrainNumber)
	store.AssertExpectations(t)
}

func TestGetPricesBadRouteID(t *testing.T) {
	app := newTestApp(&mocks.MockStore{}, &mocks.MockJobPublisher{}, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/prices?routeId=not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetPriceHistory(t *testing.T) {
	routeID := uuid.New()

	store := &mocks.MockStore{}
	store.On("PriceHistory", mock.Anything, routeID, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)).Return([]data.TrainPriceHistory{
		{TrainNumber: "9536", Class: "Standard", History: []data.PricePoint{{Price: 34.90}, {Price: 29.90}}},
	}, nil)

	app := newTestApp(store, &mocks.MockJobPublisher{}, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/prices/history?routeId="+routeID.String()+"&departureDate=2025-06-15", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var histories []data.TrainPriceHistory
	decodeBody(t, resp, &histories)
	require.Len(t, histories, 1)
	assert.Len(t, histories[0].History, 2)
	store.AssertExpectations(t)
}

func TestGetPriceHistoryMissingDate(t *testing.T) {
	app := newTestApp(&mocks.MockStore{}, &mocks.MockJobPublisher{}, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/prices/history?routeId="+uuid.NewString(), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetPricesExport(t *testing.T) {
	store := &mocks.MockStore{}
	store.On("ExportRecords", mock.Anything, mock.Anything, mock.Anything).Return([]data.ExportRecord{
		{DepartureDate: "2025-06-15", Direction: "outbound", RouteLabel: "Roma Termini -> Napoli Centrale", TrainNumber: "9510", Class: "Standard", Price: 29.90},
	}, nil)

	app := newTestApp(store, &mocks.MockJobPublisher{}, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/prices/export?startDate=2025-06-01&endDate=2025-06-30", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var records []data.ExportRecord
	decodeBody(t, resp, &records)
	require.Len(t, records, 1)
	assert.Equal(t, "Roma Termini -> Napoli Centrale", records[0].RouteLabel)
}

func TestGetLastUpdate(t *testing.T) {
	last := time.Date(2025, 6, 15, 6, 30, 0, 0, time.UTC)

	store := &mocks.MockStore{}
	store.On("LastCaptureTime", mock.Anything).Return(&last, nil)

	app := newTestApp(store, &mocks.MockJobPublisher{}, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/prices/last-update", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body api.LastUpdateResponse
	decodeBody(t, resp, &body)
	assert.True(t, last.Equal(body.LastUpdate))
}

func TestGetLastUpdateNoData(t *testing.T) {
	store := &mocks.MockStore{}
	store.On("LastCaptureTime", mock.Anything).Return(nil, nil)

	app := newTestApp(store, &mocks.MockJobPublisher{}, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/prices/last-update", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRestrictedCountAndPurge(t *testing.T) {
	store := &mocks.MockStore{}
	store.On("CountSnapshotsByClassPattern", mock.Anything, []string(fares.DefaultRestrictedTokens())).Return(int64(7), nil)
	store.On("DeleteSnapshotsByClassPattern", mock.Anything, []string(fares.DefaultRestrictedTokens())).Return(int64(7), nil)

	app := newTestApp(store, &mocks.MockJobPublisher{}, "")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/prices/restricted", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var count api.RestrictedCountResponse
	decodeBody(t, resp, &count)
	assert.Equal(t, int64(7), count.Count)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/prices/restricted", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var purge api.RestrictedPurgeResponse
	decodeBody(t, resp, &purge)
	assert.Equal(t, int64(7), purge.Deleted)
	store.AssertExpectations(t)
}
