package analytics

import (
	"math"

	"github.com/nileshk/optionpulse-go/internal/models"
)

// Max pain signal texts, keyed by how far spot sits from the max pain
// strike: within 1% the strike acts as a magnet, beyond that the pull is
// moderate up to 3% and strong past it.
const (
	SignalMaxPainMagnet      = "Strong Max Pain Magnet"
	SignalStrongDownwardPull = "Strong Downward Pull Expected"
	SignalModerateDownward   = "Moderate Downward Bias"
	SignalStrongUpwardPull   = "Strong Upward Pull Expected"
	SignalModerateUpward     = "Moderate Upward Bias"
)

// SolveMaxPain finds the strike at which aggregate option-seller settlement
// payout is minimized. For a candidate settlement k, every put struck below
// k and every call struck above k is on the losing side and contributes its
// OI times the distance to k. Ties go to the lowest strike.
//
// Strikes must be sorted ascending (Analyze normalizes them); an empty
// chain has no settlement candidates.
func (e *Engine) SolveMaxPain(strikes []models.StrikeRecord, spotPrice float64) (models.MaxPainResult, error) {
	if len(strikes) == 0 {
		return models.MaxPainResult{}, ErrInsufficientData
	}

	bestStrike := strikes[0].Strike
	bestPain := math.Inf(1)

	for _, candidate := range strikes {
		k := candidate.Strike
		pain := 0.0
		for _, s := range strikes {
			switch {
			case s.Strike < k:
				pain += (k - s.Strike) * float64(s.PutOI)
			case s.Strike > k:
				pain += (s.Strike - k) * float64(s.CallOI)
			}
		}
		// Ascending iteration plus strict less-than keeps the lowest
		// strike on a tie.
		if pain < bestPain {
			bestPain = pain
			bestStrike = k
		}
	}

	distance := spotPrice - bestStrike
	distancePct := distance / spotPrice * 100

	return models.MaxPainResult{
		Strike:           bestStrike,
		DistanceFromSpot: distance,
		DistancePct:      distancePct,
		Signal:           classifyMaxPainDistance(distance, distancePct),
	}, nil
}

func classifyMaxPainDistance(distance, distancePct float64) string {
	switch {
	case math.Abs(distancePct) < 1:
		return SignalMaxPainMagnet
	case distance > 0 && distancePct > 3:
		return SignalStrongDownwardPull
	case distance > 0:
		return SignalModerateDownward
	case math.Abs(distancePct) > 3:
		return SignalStrongUpwardPull
	default:
		return SignalModerateUpward
	}
}
