package analytics

import (
	"fmt"
	"sort"

	"github.com/nileshk/optionpulse-go/internal/models"
)

// Engine derives market-sentiment verdicts from option chain snapshots.
// It holds no state and performs no I/O: every method is a pure function of
// its inputs, so one Engine may be shared across goroutines freely.
type Engine struct{}

// NewEngine creates a new analytics engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Analyze runs the full analysis over one snapshot: put/call ratio, max
// pain, OI levels, institutional flow, trend score, fused sentiment and the
// strategy recommendation for the supplied volatility regime.
//
// The snapshot is only read for the duration of the call; no reference to
// it is retained. Identical inputs always produce identical results.
func (e *Engine) Analyze(snapshot *models.OptionChainSnapshot, regime models.VolatilityRegime) (*models.ChainAnalysis, error) {
	strikes, err := normalizeStrikes(snapshot.Strikes)
	if err != nil {
		return nil, err
	}

	pcr, err := e.AnalyzePCR(strikes)
	if err != nil {
		return nil, err
	}
	maxPain, err := e.SolveMaxPain(strikes, snapshot.SpotPrice)
	if err != nil {
		return nil, err
	}
	levels, err := e.DetectOILevels(strikes, snapshot.SpotPrice)
	if err != nil {
		return nil, err
	}
	flow, err := e.ScoreInstitutionalFlow(strikes)
	if err != nil {
		return nil, err
	}
	trend, err := e.ScoreTrend(strikes, snapshot.SpotPrice, flow)
	if err != nil {
		return nil, err
	}

	overall := e.FuseSentiment(pcr, maxPain, levels)

	return &models.ChainAnalysis{
		Symbol:           snapshot.Symbol,
		SpotPrice:        snapshot.SpotPrice,
		PCR:              pcr,
		MaxPain:          maxPain,
		OILevels:         levels,
		Flow:             flow,
		Trend:            trend,
		Regime:           regime,
		OverallSentiment: overall,
		Strategy:         e.RecommendStrategy(overall, regime),
	}, nil
}

// normalizeStrikes validates the snapshot rows and returns a sorted copy so
// the caller's slice is never reordered.
func normalizeStrikes(strikes []models.StrikeRecord) ([]models.StrikeRecord, error) {
	if len(strikes) == 0 {
		return nil, ErrInsufficientData
	}

	sorted := make([]models.StrikeRecord, len(strikes))
	copy(sorted, strikes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Strike < sorted[j].Strike
	})

	for i, s := range sorted {
		if s.Strike <= 0 {
			return nil, fmt.Errorf("%w: strike %v must be positive", ErrInvalidStrike, s.Strike)
		}
		if i > 0 && sorted[i-1].Strike == s.Strike {
			return nil, fmt.Errorf("%w: duplicate strike %v", ErrInvalidStrike, s.Strike)
		}
	}

	return sorted, nil
}
