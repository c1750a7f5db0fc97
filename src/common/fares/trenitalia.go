// Package fares normalizes provider-specific journey payloads into the
// common journey/fare-line shape, selecting one representative price per
// fare class and dropping age-restricted tiers.
package fares

import (
	"github.com/farewatch/fare-engine/src/common/types"
)

// ExtractTrenitalia converts a solutions response into normalized
// journeys. Journeys that end up with no saleable fare lines are dropped.
func ExtractTrenitalia(resp *types.TrenitaliaResponse, restricted RestrictedTokens) []types.Journey {
	if resp == nil {
		return nil
	}

	journeys := make([]types.Journey, 0, len(resp.Solutions))
	for _, sol := range resp.Solutions {
		if journey, ok := extractSolution(sol, restricted); ok {
			journeys = append(journeys, journey)
		}
	}
	return journeys
}

func extractSolution(sol types.TrenitaliaSolution, restricted RestrictedTokens) (types.Journey, bool) {
	if len(sol.Solution.Trains) == 0 {
		return types.Journey{}, false
	}
	train := sol.Solution.Trains[0]

	var fares []types.FareLine
	totalAvailable := 0

	for _, grid := range sol.Grids {
		for _, service := range grid.Services {
			var cheapest *types.TrenitaliaOffer

			for i := range service.Offers {
				offer := &service.Offers[i]

				// the total counts every reported seat, restricted tiers included
				totalAvailable += offer.AvailableAmount

				offerName := offer.Name
				if offerName == "" {
					offerName = offer.ServiceName
				}
				if restricted.Matches(offerName) {
					continue
				}

				if offer.Status != "SALEABLE" || offer.Price == nil || offer.Price.Amount <= 0 || offer.AvailableAmount <= 0 {
					continue
				}
				if cheapest == nil || offer.Price.Amount < cheapest.Price.Amount {
					cheapest = offer
				}
			}

			className := service.Name
			if className == "" {
				className = "Standard"
			}
			if restricted.Matches(className) {
				continue
			}

			if cheapest != nil {
				seats := cheapest.AvailableAmount
				fares = append(fares, types.FareLine{
					Class:          className,
					Price:          cheapest.Price.Amount,
					AvailableSeats: &seats,
				})
			} else if service.MinPrice != nil && service.MinPrice.Amount > 0 {
				fares = append(fares, types.FareLine{
					Class: className,
					Price: service.MinPrice.Amount,
				})
			}
		}
	}

	if len(fares) == 0 && sol.Solution.Price != nil && sol.Solution.Price.Amount > 0 {
		fares = append(fares, types.FareLine{
			Class: "Standard",
			Price: sol.Solution.Price.Amount,
		})
	}

	if len(fares) == 0 {
		return types.Journey{}, false
	}

	journey := types.Journey{
		TrainNumber:   firstNonEmpty(train.Name, train.Acronym, "N/A"),
		TrainType:     firstNonEmpty(train.Denomination, train.TrainCategory, train.Acronym, "Trenitalia"),
		DepartureTime: sol.Solution.DepartureTime,
		ArrivalTime:   sol.Solution.ArrivalTime,
		Duration:      ParseDurationMinutes(sol.Solution.Duration),
		Fares:         fares,
	}
	if totalAvailable > 0 {
		journey.TotalAvailable = &totalAvailable
	}
	return journey, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
