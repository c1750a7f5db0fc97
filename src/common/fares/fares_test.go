package fares

import (
	"testing"
	"time"

	"github.com/farewatch/fare-engine/src/common/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(v float64) *types.TrenitaliaAmount {
	return &types.TrenitaliaAmount{Amount: v, Currency: "EUR"}
}

func solution(departure time.Time, grids []types.TrenitaliaGrid) types.TrenitaliaSolution {
	return types.TrenitaliaSolution{
		Solution: types.TrenitaliaSolutionDetail{
			DepartureTime: departure,
			ArrivalTime:   departure.Add(70 * time.Minute),
			Duration:      "1h 10min",
			Trains: []types.TrenitaliaTrain{
				{TrainCategory: "FR", Acronym: "FR", Name: "9536", Denomination: "Frecciarossa"},
			},
		},
		Grids: grids,
	}
}

func TestParseDurationMinutes(t *testing.T) {
	tests := []struct {
		in       string
		expected int
	}{
		{"2h 33min", 153},
		{"1h", 60},
		{"45min", 45},
		{"PT2H30M", 150},
		{"PT45M", 45},
		{"PT2H", 120},
		{"garbage", 0},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseDurationMinutes(tt.in), "input %q", tt.in)
	}
}

func TestParseClockDuration(t *testing.T) {
	assert.Equal(t, 150, ParseClockDuration("02:30"))
	assert.Equal(t, 105, ParseClockDuration("1:45"))
	assert.Equal(t, 0, ParseClockDuration("bogus"))
}

func TestRestrictedTokens(t *testing.T) {
	tokens := DefaultRestrictedTokens()

	assert.True(t, tokens.Matches("FrecciaYOUNG"))
	assert.True(t, tokens.Matches("Offerta Giovani"))
	assert.True(t, tokens.Matches("Senior Saver"))
	assert.False(t, tokens.Matches("Standard"))
	assert.False(t, tokens.Matches("Business"))
}

func TestExtractTrenitaliaSelectsCheapestSaleableOffer(t *testing.T) {
	departure := time.Date(2025, 6, 15, 5, 0, 0, 0, time.UTC)
	resp := &types.TrenitaliaResponse{
		Solutions: []types.TrenitaliaSolution{
			solution(departure, []types.TrenitaliaGrid{{
				Services: []types.TrenitaliaService{{
					Name: "Standard",
					Offers: []types.TrenitaliaOffer{
						{Name: "Base", Status: "SALEABLE", Price: amount(49.90), AvailableAmount: 20},
						{Name: "Economy", Status: "SALEABLE", Price: amount(29.90), AvailableAmount: 12},
						{Name: "Super Economy", Status: "SOLD_OUT", Price: amount(19.90), AvailableAmount: 0},
					},
					MinPrice: amount(19.90),
				}},
			}}),
		},
	}

	journeys := ExtractTrenitalia(resp, DefaultRestrictedTokens())
	require.Len(t, journeys, 1)

	j := journeys[0]
	assert.Equal(t, "9536", j.TrainNumber)
	assert.Equal(t, "Frecciarossa", j.TrainType)
	assert.Equal(t, 70, j.Duration)
	require.Len(t, j.Fares, 1)
	assert.Equal(t, "Standard", j.Fares[0].Class)
	assert.Equal(t, 29.90, j.Fares[0].Price)
	require.NotNil(t, j.Fares[0].AvailableSeats)
	assert.Equal(t, 12, *j.Fares[0].AvailableSeats)
	require.NotNil(t, j.TotalAvailable)
	assert.Equal(t, 32, *j.TotalAvailable)
}

func TestExtractTrenitaliaMinPriceFallback(t *testing.T) {
	departure := time.Date(2025, 1, 15, 6, 0, 0, 0, time.UTC)
	resp := &types.TrenitaliaResponse{
		Solutions: []types.TrenitaliaSolution{
			solution(departure, []types.TrenitaliaGrid{{
				Services: []types.TrenitaliaService{{
					Name: "Business",
					Offers: []types.TrenitaliaOffer{
						{Name: "Base", Status: "SOLD_OUT", Price: amount(89.90), AvailableAmount: 0},
					},
					MinPrice: amount(59.90),
				}},
			}}),
		},
	}

	journeys := ExtractTrenitalia(resp, DefaultRestrictedTokens())
	require.Len(t, journeys, 1)
	require.Len(t, journeys[0].Fares, 1)
	assert.Equal(t, 59.90, journeys[0].Fares[0].Price)
	assert.Nil(t, journeys[0].Fares[0].AvailableSeats)
}

func TestExtractTrenitaliaDropsRestrictedClasses(t *testing.T) {
	departure := time.Date(2025, 6, 15, 5, 0, 0, 0, time.UTC)
	resp := &types.TrenitaliaResponse{
		Solutions: []types.TrenitaliaSolution{
			solution(departure, []types.TrenitaliaGrid{{
				Services: []types.TrenitaliaService{{
					Name: "FrecciaYoung",
					Offers: []types.TrenitaliaOffer{
						{Name: "Young", Status: "SALEABLE", Price: amount(19.90), AvailableAmount: 5},
					},
					MinPrice: amount(19.90),
				}},
			}}),
		},
	}

	// only fare class is restricted and there is no top-level price,
	// so the journey yields zero fare lines and is dropped
	journeys := ExtractTrenitalia(resp, DefaultRestrictedTokens())
	assert.Empty(t, journeys)
}

func TestExtractTrenitaliaRestrictedOfferSkippedWithinClass(t *testing.T) {
	departure := time.Date(2025, 6, 15, 5, 0, 0, 0, time.UTC)
	resp := &types.TrenitaliaResponse{
		Solutions: []types.TrenitaliaSolution{
			solution(departure, []types.TrenitaliaGrid{{
				Services: []types.TrenitaliaService{{
					Name: "Standard",
					Offers: []types.TrenitaliaOffer{
						{Name: "Young Promo", Status: "SALEABLE", Price: amount(9.90), AvailableAmount: 3},
						{Name: "Base", Status: "SALEABLE", Price: amount(39.90), AvailableAmount: 8},
					},
				}},
			}}),
		},
	}

	journeys := ExtractTrenitalia(resp, DefaultRestrictedTokens())
	require.Len(t, journeys, 1)
	require.Len(t, journeys[0].Fares, 1)
	// the cheaper restricted offer is ignored even inside an unrestricted class
	assert.Equal(t, 39.90, journeys[0].Fares[0].Price)
}

func TestExtractTrenitaliaSolutionPriceFallback(t *testing.T) {
	departure := time.Date(2025, 6, 15, 5, 0, 0, 0, time.UTC)
	sol := solution(departure, nil)
	sol.Solution.Price = amount(24.50)

	journeys := ExtractTrenitalia(&types.TrenitaliaResponse{Solutions: []types.TrenitaliaSolution{sol}}, DefaultRestrictedTokens())
	require.Len(t, journeys, 1)
	require.Len(t, journeys[0].Fares, 1)
	assert.Equal(t, "Standard", journeys[0].Fares[0].Class)
	assert.Equal(t, 24.50, journeys[0].Fares[0].Price)
	assert.Nil(t, journeys[0].TotalAvailable)
}

func TestExtractTrenitaliaTrainNumberFallbacks(t *testing.T) {
	departure := time.Date(2025, 6, 15, 5, 0, 0, 0, time.UTC)
	sol := solution(departure, nil)
	sol.Solution.Price = amount(10)
	sol.Solution.Trains = []types.TrenitaliaTrain{{TrainCategory: "REG", Acronym: "RV"}}

	journeys := ExtractTrenitalia(&types.TrenitaliaResponse{Solutions: []types.TrenitaliaSolution{sol}}, DefaultRestrictedTokens())
	require.Len(t, journeys, 1)
	assert.Equal(t, "RV", journeys[0].TrainNumber)
	assert.Equal(t, "REG", journeys[0].TrainType)
}

func TestExtractItalo(t *testing.T) {
	departure := time.Date(2025, 6, 15, 15, 0, 0, 0, time.UTC)
	resp := &types.ItaloResponse{
		Journeys: []types.ItaloJourney{{
			TrainNumber:   "9981",
			DepartureTime: departure,
			ArrivalTime:   departure.Add(65 * time.Minute),
			Duration:      "01:05",
			LowCostFares: []types.ItaloFare{
				{FareName: "Low Cost", Price: 19.90},
				{FareName: "Young Special", Price: 9.90},
			},
			Fares: []types.ItaloClassFare{
				{FareName: "Flex", SeatClass: "Smart", Price: 34.90},
			},
		}},
	}

	journeys := ExtractItalo(resp, DefaultRestrictedTokens())
	require.Len(t, journeys, 1)

	j := journeys[0]
	assert.Equal(t, "9981", j.TrainNumber)
	assert.Equal(t, "Italo", j.TrainType)
	assert.Equal(t, 65, j.Duration)
	require.Len(t, j.Fares, 2)
	assert.Equal(t, "Low Cost", j.Fares[0].Class)
	assert.Equal(t, "Smart Flex", j.Fares[1].Class)
	assert.Nil(t, j.TotalAvailable)
}

func TestExtractItaloDropsJourneyWithOnlyRestrictedFares(t *testing.T) {
	resp := &types.ItaloResponse{
		OutboundJourneys: []types.ItaloJourney{{
			TrainNumber: "9920",
			Duration:    "01:10",
			LowCostFares: []types.ItaloFare{
				{FareName: "Young", Price: 14.90},
			},
		}},
	}

	assert.Empty(t, ExtractItalo(resp, DefaultRestrictedTokens()))
}
