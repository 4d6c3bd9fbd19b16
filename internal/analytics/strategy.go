package analytics

import "github.com/nileshk/optionpulse-go/internal/models"

// RecommendStrategy maps the overall sentiment and volatility regime to a
// trading posture. High volatility favors buying premium, low volatility
// favors selling it, and medium volatility only takes directional trades.
// Total over the 5x3 input space: every combination yields a strategy.
func (e *Engine) RecommendStrategy(sentiment models.MarketSentiment, regime models.VolatilityRegime) models.OptionsStrategy {
	bullish := sentiment == models.SentimentBullish || sentiment == models.SentimentStronglyBullish
	bearish := sentiment == models.SentimentBearish || sentiment == models.SentimentStronglyBearish

	switch regime {
	case models.RegimeHighVolatility:
		switch {
		case bullish:
			return models.StrategyBuyCalls
		case bearish:
			return models.StrategyBuyPuts
		default:
			return models.StrategyStraddle
		}
	case models.RegimeLowVolatility:
		switch {
		case bullish:
			return models.StrategySellPuts
		case bearish:
			return models.StrategySellCalls
		default:
			return models.StrategyIronCondor
		}
	default:
		switch {
		case bullish:
			return models.StrategyBuyCalls
		case bearish:
			return models.StrategyBuyPuts
		default:
			return models.StrategyNoTrade
		}
	}
}
