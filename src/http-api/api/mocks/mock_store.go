package mocks

import (
	"context"
	"time"

	"github.com/farewatch/fare-engine/src/common/data"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of api.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListActiveRoutes(ctx context.Context) ([]data.Route, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]data.Route), args.Error(1)
}

func (m *MockStore) CalendarForRange(ctx context.Context, from, to time.Time, cacheTTL time.Duration) (data.Calendar, error) {
	args := m.Called(ctx, from, to, cacheTTL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(data.Calendar), args.Error(1)
}

func (m *MockStore) SnapshotsByRouteSince(ctx context.Context, routeID uuid.UUID, since time.Time, class string) ([]data.PriceSnapshot, error) {
	args := m.Called(ctx, routeID, since, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]data.PriceSnapshot), args.Error(1)
}

func (m *MockStore) PriceHistory(ctx context.Context, routeID uuid.UUID, departureDate time.Time) ([]data.TrainPriceHistory, error) {
	args := m.Called(ctx, routeID, departureDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]data.TrainPriceHistory), args.Error(1)
}

func (m *MockStore) ExportRecords(ctx context.Context, from, to time.Time) ([]data.ExportRecord, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]data.ExportRecord), args.Error(1)
}

func (m *MockStore) LastCaptureTime(ctx context.Context) (*time.Time, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockStore) CountSnapshotsByClassPattern(ctx context.Context, tokens []string) (int64, error) {
	args := m.Called(ctx, tokens)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) DeleteSnapshotsByClassPattern(ctx context.Context, tokens []string) (int64, error) {
	args := m.Called(ctx, tokens)
	return args.Get(0).(int64), args.Error(1)
}

// MockJobPublisher is a mock implementation of api.JobPublisher
type MockJobPublisher struct {
	mock.Mock
}

func (m *MockJobPublisher) PublishScrape(ctx context.Context, days int) error {
	args := m.Called(ctx, days)
	return args.Error(0)
}
