package analytics

import "github.com/nileshk/optionpulse-go/internal/models"

var sentimentScores = map[models.MarketSentiment]float64{
	models.SentimentStronglyBearish: -2,
	models.SentimentBearish:         -1,
	models.SentimentNeutral:         0,
	models.SentimentBullish:         1,
	models.SentimentStronglyBullish: 2,
}

// FuseSentiment combines the component verdicts into one overall sentiment.
// The PCR sentiment carries a 40% weight; the max pain pull direction and
// the institutional positioning label contribute 0.3 each. Deterministic:
// identical inputs always fuse to the same sentiment.
func (e *Engine) FuseSentiment(pcr models.PCRResult, maxPain models.MaxPainResult, levels models.OILevelResult) models.MarketSentiment {
	total := sentimentScores[pcr.Sentiment] * 0.4

	switch maxPain.Signal {
	case SignalStrongUpwardPull, SignalModerateUpward:
		total += 0.3
	case SignalStrongDownwardPull, SignalModerateDownward:
		total -= 0.3
	}

	switch levels.Positioning {
	case models.PositioningUpside:
		total += 0.3
	case models.PositioningDownside:
		total -= 0.3
	}

	switch {
	case total >= 1.5:
		return models.SentimentStronglyBullish
	case total >= 0.5:
		return models.SentimentBullish
	case total <= -1.5:
		return models.SentimentStronglyBearish
	case total <= -0.5:
		return models.SentimentBearish
	default:
		return models.SentimentNeutral
	}
}
