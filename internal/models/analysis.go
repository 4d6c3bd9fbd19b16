package models

import "time"

// MarketSentiment is the five-level directional verdict produced by the
// analytics engine.
type MarketSentiment string

const (
	SentimentStronglyBullish MarketSentiment = "strongly_bullish"
	SentimentBullish         MarketSentiment = "bullish"
	SentimentNeutral         MarketSentiment = "neutral"
	SentimentBearish         MarketSentiment = "bearish"
	SentimentStronglyBearish MarketSentiment = "strongly_bearish"
)

// OptionsStrategy is the recommended trading posture.
type OptionsStrategy string

const (
	StrategyBuyCalls   OptionsStrategy = "buy_calls"
	StrategySellCalls  OptionsStrategy = "sell_calls"
	StrategyBuyPuts    OptionsStrategy = "buy_puts"
	StrategySellPuts   OptionsStrategy = "sell_puts"
	StrategyIronCondor OptionsStrategy = "iron_condor"
	StrategyStraddle   OptionsStrategy = "straddle"
	StrategyStrangle   OptionsStrategy = "strangle"
	StrategyNoTrade    OptionsStrategy = "no_trade"
)

// VolatilityRegime classifies the prevailing volatility environment. It is
// supplied by the caller (typically from an India-VIX style figure); the
// engine never computes volatility itself.
type VolatilityRegime string

const (
	RegimeHighVolatility   VolatilityRegime = "high"
	RegimeMediumVolatility VolatilityRegime = "medium"
	RegimeLowVolatility    VolatilityRegime = "low"
)

// RegimeFromVIX buckets an externally sourced VIX-like value into a
// volatility regime: above 22 high, below 15 low, medium otherwise.
func RegimeFromVIX(vix float64) VolatilityRegime {
	switch {
	case vix > 22:
		return RegimeHighVolatility
	case vix < 15:
		return RegimeLowVolatility
	default:
		return RegimeMediumVolatility
	}
}

// PositioningLabel describes which way institutional OI buildup leans.
type PositioningLabel string

const (
	PositioningUpside   PositioningLabel = "upside"
	PositioningDownside PositioningLabel = "downside"
	PositioningBalanced PositioningLabel = "balanced"
)

// PCRResult is the put/call open-interest ratio verdict. Ratio is +Inf when
// the chain carries no call OI at all.
type PCRResult struct {
	Ratio      float64         `json:"ratio"`
	Sentiment  MarketSentiment `json:"sentiment"`
	Signal     string          `json:"signal"`
	Confidence float64         `json:"confidence"`
}

// MaxPainResult is the settlement estimate that minimizes aggregate option
// seller payout, plus the spot's deviation from it.
type MaxPainResult struct {
	Strike           float64 `json:"strike"`
	DistanceFromSpot float64 `json:"distance_from_spot"`
	DistancePct      float64 `json:"distance_pct"`
	Signal           string  `json:"signal"`
}

// OILevelResult holds open-interest based support/resistance levels and
// directional OI buildup. ResistanceLevels are ascending, SupportLevels
// descending (nearest to spot first), both capped at three entries.
type OILevelResult struct {
	ResistanceLevels      []float64        `json:"resistance_levels"`
	SupportLevels         []float64        `json:"support_levels"`
	BullishBuildupStrikes []float64        `json:"bullish_buildup_strikes"`
	BearishBuildupStrikes []float64        `json:"bearish_buildup_strikes"`
	Positioning           PositioningLabel `json:"institutional_positioning"`
}

// InstitutionalFlow splits fresh OI activity into a bullish/bearish/neutral
// percentage view of institutional positioning.
type InstitutionalFlow struct {
	BullishPct       float64 `json:"bullish_pct"`
	BearishPct       float64 `json:"bearish_pct"`
	NeutralPct       float64 `json:"neutral_pct"`
	DominantStrategy string  `json:"dominant_strategy"`
	Confidence       float64 `json:"confidence"`
}

// TrendResult is the 0-100 options-positioning trend score with its bucket
// label and normalized strength.
type TrendResult struct {
	Label    string  `json:"label"`
	Score    float64 `json:"score"`
	Strength float64 `json:"strength"`
}

// ChainAnalysis bundles every derived verdict for one snapshot. ID,
// AnalysisTime and Commentary are assigned by the service layer; the engine
// fills the rest.
type ChainAnalysis struct {
	ID               string            `json:"id,omitempty" db:"id"`
	Symbol           string            `json:"symbol" db:"symbol"`
	SpotPrice        float64           `json:"spot_price" db:"spot_price"`
	AnalysisTime     time.Time         `json:"analysis_time,omitempty" db:"analysis_time"`
	PCR              PCRResult         `json:"pcr"`
	MaxPain          MaxPainResult     `json:"max_pain"`
	OILevels         OILevelResult     `json:"oi_levels"`
	Flow             InstitutionalFlow `json:"institutional_flow"`
	Trend            TrendResult       `json:"trend"`
	Regime           VolatilityRegime  `json:"volatility_regime" db:"volatility_regime"`
	OverallSentiment MarketSentiment   `json:"overall_sentiment" db:"overall_sentiment"`
	Strategy         OptionsStrategy   `json:"recommended_strategy" db:"recommended_strategy"`
	Commentary       string            `json:"commentary,omitempty" db:"commentary"`
}
