package analytics

import (
	"math"

	"github.com/nileshk/optionpulse-go/internal/models"
)

// Trend bucket labels over the 0-100 score.
const (
	TrendStrongBullish   = "Strong Bullish"
	TrendModerateBullish = "Moderate Bullish"
	TrendRangeBound      = "Range-bound/Neutral"
	TrendModerateBearish = "Moderate Bearish"
	TrendStrongBearish   = "Strong Bearish"
)

// otmBand excludes strikes within 2% of spot so only genuinely
// out-of-the-money positioning feeds the trend score.
const otmBand = 0.02

// ScoreTrend derives a 0-100 trend score from options positioning rather
// than price action. Institutional flow contributes 40% of the weighting,
// the standing OTM OI imbalance 35% (capped at 15 points) and fresh OTM OI
// changes the remaining 25% (a flat 10 points to the dominant side).
func (e *Engine) ScoreTrend(strikes []models.StrikeRecord, spotPrice float64, flow models.InstitutionalFlow) (models.TrendResult, error) {
	if len(strikes) == 0 {
		return models.TrendResult{}, ErrInsufficientData
	}

	lowerBound := spotPrice * (1 - otmBand)
	upperBound := spotPrice * (1 + otmBand)

	var otmPutOI, otmCallOI int64
	var freshOTMPut, freshOTMCall int64
	for _, s := range strikes {
		if s.Strike < lowerBound {
			otmPutOI += s.PutOI
			freshOTMPut += s.PutOIChange
		}
		if s.Strike > upperBound {
			otmCallOI += s.CallOI
			freshOTMCall += s.CallOIChange
		}
	}

	score := 50.0
	score += (flow.BullishPct - flow.BearishPct) * 0.4

	if otmPutOI > otmCallOI {
		// Standing put wall below spot reads bullish.
		oiRatio := float64(otmPutOI) / float64(otmCallOI+1)
		score += math.Min(15, oiRatio*5)
	} else {
		oiRatio := float64(otmCallOI) / float64(otmPutOI+1)
		score -= math.Min(15, oiRatio*5)
	}

	if freshOTMPut > freshOTMCall {
		score += 10
	} else if freshOTMCall > freshOTMPut {
		score -= 10
	}

	score = math.Max(0, math.Min(100, score))

	return models.TrendResult{
		Label:    trendLabel(score),
		Score:    score,
		Strength: math.Min(1, math.Abs(score-50)/50),
	}, nil
}

func trendLabel(score float64) string {
	switch {
	case score >= 75:
		return TrendStrongBullish
	case score >= 60:
		return TrendModerateBullish
	case score >= 40:
		return TrendRangeBound
	case score >= 25:
		return TrendModerateBearish
	default:
		return TrendStrongBearish
	}
}
