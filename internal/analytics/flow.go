package analytics

import "github.com/nileshk/optionpulse-go/internal/models"

// Dominant-strategy labels for institutional flow.
const (
	FlowRangeBound          = "Range-bound"
	FlowAggressivePutSell   = "Aggressive Put Selling"
	FlowAggressiveCallSell  = "Aggressive Call Selling"
	FlowModerateBullish     = "Moderate Bullish Positioning"
	FlowModerateBearish     = "Moderate Bearish Positioning"
	FlowBalancedPositioning = "Balanced Positioning"
)

// ScoreInstitutionalFlow reads fresh OI deltas as institutional activity.
// OI added on a side is treated as written (sold) contracts: fresh put
// selling is a bet the floor holds (bullish), fresh call selling a bet the
// ceiling holds (bearish). OI removed on either side is unwinding and lands
// in the neutral bucket.
func (e *Engine) ScoreInstitutionalFlow(strikes []models.StrikeRecord) (models.InstitutionalFlow, error) {
	if len(strikes) == 0 {
		return models.InstitutionalFlow{}, ErrInsufficientData
	}

	var freshCallSelling, freshPutSelling, freshCallBuying, freshPutBuying int64
	for _, s := range strikes {
		if s.CallOIChange > 0 {
			freshCallSelling += s.CallOIChange
		} else {
			freshCallBuying += -s.CallOIChange
		}
		if s.PutOIChange > 0 {
			freshPutSelling += s.PutOIChange
		} else {
			freshPutBuying += -s.PutOIChange
		}
	}

	totalFresh := freshCallSelling + freshPutSelling + freshCallBuying + freshPutBuying
	if totalFresh == 0 {
		return models.InstitutionalFlow{
			BullishPct:       33,
			BearishPct:       33,
			NeutralPct:       34,
			DominantStrategy: FlowRangeBound,
			Confidence:       0.3,
		}, nil
	}

	bullishPct := float64(freshPutSelling) / float64(totalFresh) * 100
	bearishPct := float64(freshCallSelling) / float64(totalFresh) * 100
	neutralPct := 100 - bullishPct - bearishPct

	flow := models.InstitutionalFlow{
		BullishPct: bullishPct,
		BearishPct: bearishPct,
		NeutralPct: neutralPct,
	}

	gap := bullishPct - bearishPct
	switch {
	case gap > 15:
		flow.DominantStrategy = FlowAggressivePutSell
		flow.Confidence = 0.8
	case gap < -15:
		flow.DominantStrategy = FlowAggressiveCallSell
		flow.Confidence = 0.8
	case gap > 5:
		flow.DominantStrategy = FlowModerateBullish
		flow.Confidence = 0.65
	case gap < -5:
		flow.DominantStrategy = FlowModerateBearish
		flow.Confidence = 0.65
	default:
		flow.DominantStrategy = FlowBalancedPositioning
		flow.Confidence = 0.5
	}

	return flow, nil
}
