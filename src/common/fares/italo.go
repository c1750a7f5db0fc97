package fares

import (
	"strings"

	"github.com/farewatch/fare-engine/src/common/types"
)

// ExtractItalo converts an Italo search response into normalized
// journeys. Italo reports no per-offer availability or sale status, so
// fare lines carry nil seat counts and every listed price is eligible
// except restricted tiers. Journeys with no surviving fares are dropped.
func ExtractItalo(resp *types.ItaloResponse, restricted RestrictedTokens) []types.Journey {
	if resp == nil {
		return nil
	}

	source := resp.Journeys
	if len(source) == 0 {
		source = resp.OutboundJourneys
	}

	journeys := make([]types.Journey, 0, len(source))
	for _, j := range source {
		var fares []types.FareLine

		for _, fare := range j.LowCostFares {
			if fare.Price <= 0 {
				continue
			}
			className := fare.FareName
			if className == "" {
				className = "Low Cost"
			}
			if restricted.Matches(className) {
				continue
			}
			fares = append(fares, types.FareLine{Class: className, Price: fare.Price})
		}

		for _, fare := range j.Fares {
			if fare.Price <= 0 {
				continue
			}
			className := strings.TrimSpace(fare.SeatClass + " " + fare.FareName)
			if className == "" {
				className = "Standard"
			}
			if restricted.Matches(className) {
				continue
			}
			fares = append(fares, types.FareLine{Class: className, Price: fare.Price})
		}

		if len(fares) == 0 {
			continue
		}

		journeys = append(journeys, types.Journey{
			TrainNumber:   firstNonEmpty(j.TrainNumber, "N/A"),
			TrainType:     "Italo",
			DepartureTime: j.DepartureTime,
			ArrivalTime:   j.ArrivalTime,
			Duration:      ParseClockDuration(j.Duration),
			Fares:         fares,
		})
	}
	return journeys
}
