package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nileshk/optionpulse-go/internal/models"
)

func TestScoreInstitutionalFlowNoActivity(t *testing.T) {
	engine := NewEngine()

	strikes := []models.StrikeRecord{
		{Strike: 100, CallOI: 5000, PutOI: 5000},
		{Strike: 110, CallOI: 3000, PutOI: 2000},
	}

	flow, err := engine.ScoreInstitutionalFlow(strikes)
	require.NoError(t, err)
	assert.Equal(t, 33.0, flow.BullishPct)
	assert.Equal(t, 33.0, flow.BearishPct)
	assert.Equal(t, 34.0, flow.NeutralPct)
	assert.Equal(t, FlowRangeBound, flow.DominantStrategy)
	assert.Equal(t, 0.3, flow.Confidence)
}

func TestScoreInstitutionalFlowEmptyChain(t *testing.T) {
	engine := NewEngine()

	for _, strikes := range [][]models.StrikeRecord{nil, {}} {
		flow, err := engine.ScoreInstitutionalFlow(strikes)
		assert.ErrorIs(t, err, ErrInsufficientData)
		assert.Equal(t, models.InstitutionalFlow{}, flow)
	}
}

func TestScoreInstitutionalFlowGapTable(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name           string
		strikes        []models.StrikeRecord
		wantBullishPct float64
		wantBearishPct float64
		wantStrategy   string
		wantConfidence float64
	}{
		{
			name: "aggressive put selling",
			strikes: []models.StrikeRecord{
				{Strike: 100, PutOIChange: 700, CallOIChange: 300},
			},
			wantBullishPct: 70,
			wantBearishPct: 30,
			wantStrategy:   FlowAggressivePutSell,
			wantConfidence: 0.8,
		},
		{
			name: "aggressive call selling",
			strikes: []models.StrikeRecord{
				{Strike: 100, PutOIChange: 200, CallOIChange: 800},
			},
			wantBullishPct: 20,
			wantBearishPct: 80,
			wantStrategy:   FlowAggressiveCallSell,
			wantConfidence: 0.8,
		},
		{
			name: "moderate bullish positioning",
			strikes: []models.StrikeRecord{
				// Unwinding on both sides pushes the percentages close
				// enough that the gap lands between 5 and 15.
				{Strike: 100, PutOIChange: 300, CallOIChange: 200},
				{Strike: 110, PutOIChange: -250, CallOIChange: -250},
			},
			wantBullishPct: 30,
			wantBearishPct: 20,
			wantStrategy:   FlowModerateBullish,
			wantConfidence: 0.65,
		},
		{
			name: "moderate bearish positioning",
			strikes: []models.StrikeRecord{
				{Strike: 100, PutOIChange: 200, CallOIChange: 300},
				{Strike: 110, PutOIChange: -250, CallOIChange: -250},
			},
			wantBullishPct: 20,
			wantBearishPct: 30,
			wantStrategy:   FlowModerateBearish,
			wantConfidence: 0.65,
		},
		{
			name: "balanced positioning",
			strikes: []models.StrikeRecord{
				{Strike: 100, PutOIChange: 500, CallOIChange: 500},
			},
			wantBullishPct: 50,
			wantBearishPct: 50,
			wantStrategy:   FlowBalancedPositioning,
			wantConfidence: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow, err := engine.ScoreInstitutionalFlow(tt.strikes)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantBullishPct, flow.BullishPct, 1e-9)
			assert.InDelta(t, tt.wantBearishPct, flow.BearishPct, 1e-9)
			assert.InDelta(t, 100-tt.wantBullishPct-tt.wantBearishPct, flow.NeutralPct, 1e-9)
			assert.Equal(t, tt.wantStrategy, flow.DominantStrategy)
			assert.Equal(t, tt.wantConfidence, flow.Confidence)
		})
	}
}
