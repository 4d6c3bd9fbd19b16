package analytics

import (
	"math"
	"sort"

	"github.com/nileshk/optionpulse-go/internal/models"
)

const (
	oiConcentrationPercentile = 80
	maxLevelsPerSide          = 3
)

// DetectOILevels identifies support and resistance strikes from open
// interest concentration and classifies directional OI buildup.
//
// A strike above spot whose call OI reaches the 80th percentile of all call
// OI is resistance (institutions selling calls there); a strike below spot
// whose put OI reaches the put-side 80th percentile is support. Resistance
// levels come back ascending and support levels descending, so the nearest
// level to spot is first on each side, capped at three per side.
//
// Fresh call OI added above spot counts as bearish buildup, fresh put OI
// added below spot as bullish; whichever count is strictly larger sets the
// institutional positioning label.
func (e *Engine) DetectOILevels(strikes []models.StrikeRecord, spotPrice float64) (models.OILevelResult, error) {
	if len(strikes) == 0 {
		return models.OILevelResult{}, ErrInsufficientData
	}

	callOI := make([]float64, len(strikes))
	putOI := make([]float64, len(strikes))
	for i, s := range strikes {
		callOI[i] = float64(s.CallOI)
		putOI[i] = float64(s.PutOI)
	}
	callThreshold := percentile(callOI, oiConcentrationPercentile)
	putThreshold := percentile(putOI, oiConcentrationPercentile)

	result := models.OILevelResult{
		ResistanceLevels:      []float64{},
		SupportLevels:         []float64{},
		BullishBuildupStrikes: []float64{},
		BearishBuildupStrikes: []float64{},
	}

	for _, s := range strikes {
		if s.Strike > spotPrice && float64(s.CallOI) >= callThreshold {
			result.ResistanceLevels = append(result.ResistanceLevels, s.Strike)
		}
		if s.Strike < spotPrice && float64(s.PutOI) >= putThreshold {
			result.SupportLevels = append(result.SupportLevels, s.Strike)
		}
		if s.Strike > spotPrice && s.CallOIChange > 0 {
			result.BearishBuildupStrikes = append(result.BearishBuildupStrikes, s.Strike)
		}
		if s.Strike < spotPrice && s.PutOIChange > 0 {
			result.BullishBuildupStrikes = append(result.BullishBuildupStrikes, s.Strike)
		}
	}

	if len(result.ResistanceLevels) > maxLevelsPerSide {
		result.ResistanceLevels = result.ResistanceLevels[:maxLevelsPerSide]
	}
	// Support strikes were collected ascending; reverse so the nearest to
	// spot leads, then cap.
	sort.Sort(sort.Reverse(sort.Float64Slice(result.SupportLevels)))
	if len(result.SupportLevels) > maxLevelsPerSide {
		result.SupportLevels = result.SupportLevels[:maxLevelsPerSide]
	}

	switch {
	case len(result.BullishBuildupStrikes) > len(result.BearishBuildupStrikes):
		result.Positioning = models.PositioningUpside
	case len(result.BearishBuildupStrikes) > len(result.BullishBuildupStrikes):
		result.Positioning = models.PositioningDownside
	default:
		result.Positioning = models.PositioningBalanced
	}

	return result, nil
}

// percentile computes the p-th percentile of values using linear
// interpolation over the sorted sample: rank r = p/100 * (n-1), result =
// x[floor(r)] + frac(r) * (x[floor(r)+1] - x[floor(r)]). This matches
// numpy's default method; a single value is its own percentile and two
// values interpolate between themselves.
func percentile(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
