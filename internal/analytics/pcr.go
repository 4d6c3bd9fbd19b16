package analytics

import (
	"math"

	"github.com/nileshk/optionpulse-go/internal/models"
)

// PCR signal texts. The two strongly-bullish branches share one sentiment
// value and are distinguished only by signal text: extreme put-heavy skew
// reads as institutions selling puts, extreme call-heavy skew as an
// oversold market due for a reversal.
const (
	SignalStrongBullishContrarian = "Strong Bullish (Contrarian)"
	SignalBullishContrarian       = "Bullish (Contrarian)"
	SignalStrongBullishReversal   = "Strong Bullish (Reversal Expected)"
	SignalBearish                 = "Bearish"
	SignalNeutral                 = "Neutral"
)

// AnalyzePCR computes the aggregate put/call open-interest ratio and
// classifies it. A chain with zero call OI yields a ratio of +Inf, which is
// a defined input to the classification, not an error; an empty chain is.
func (e *Engine) AnalyzePCR(strikes []models.StrikeRecord) (models.PCRResult, error) {
	if len(strikes) == 0 {
		return models.PCRResult{}, ErrInsufficientData
	}

	var totalPut, totalCall int64
	for _, s := range strikes {
		totalPut += s.PutOI
		totalCall += s.CallOI
	}

	ratio := math.Inf(1)
	if totalCall > 0 {
		ratio = float64(totalPut) / float64(totalCall)
	}

	switch {
	case ratio >= 1.3:
		return models.PCRResult{
			Ratio:      ratio,
			Sentiment:  models.SentimentStronglyBullish,
			Signal:     SignalStrongBullishContrarian,
			Confidence: 0.85,
		}, nil
	case ratio >= 1.0:
		return models.PCRResult{
			Ratio:      ratio,
			Sentiment:  models.SentimentBullish,
			Signal:     SignalBullishContrarian,
			Confidence: 0.75,
		}, nil
	case ratio <= 0.3:
		return models.PCRResult{
			Ratio:      ratio,
			Sentiment:  models.SentimentStronglyBullish,
			Signal:     SignalStrongBullishReversal,
			Confidence: 0.70,
		}, nil
	case ratio <= 0.5:
		return models.PCRResult{
			Ratio:      ratio,
			Sentiment:  models.SentimentBearish,
			Signal:     SignalBearish,
			Confidence: 0.65,
		}, nil
	default:
		return models.PCRResult{
			Ratio:      ratio,
			Sentiment:  models.SentimentNeutral,
			Signal:     SignalNeutral,
			Confidence: 0.50,
		}, nil
	}
}
