package chaindata

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/nileshk/optionpulse-go/internal/models"
)

// Known index spot levels for the simulator; unknown symbols trade around
// a generic level.
var simulatorSpots = map[string]float64{
	"NIFTY":     19500,
	"BANKNIFTY": 45000,
	"FINNIFTY":  21000,
}

const simulatorDefaultSpot = 19500

// Simulator produces synthetic but realistic option chains for development
// and tests: 21 strikes around spot, OI decaying away from the money with
// an OTM skew, and signed OI-change noise. Chains are deterministic for a
// given seed and symbol.
type Simulator struct {
	seed int64
}

// NewSimulator creates a simulator. The same seed always reproduces the
// same chains.
func NewSimulator(seed int64) *Simulator {
	return &Simulator{seed: seed}
}

// FetchChain implements Provider with a generated snapshot.
func (s *Simulator) FetchChain(_ context.Context, symbol string) (*models.OptionChainSnapshot, error) {
	spot, ok := simulatorSpots[symbol]
	if !ok {
		spot = simulatorDefaultSpot
	}

	// Mix the symbol into the seed so different symbols get different
	// chains under one seed.
	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	rng := rand.New(rand.NewSource(s.seed ^ int64(h.Sum64())))

	interval := 50.0
	if spot >= 25000 {
		interval = 100
	}
	baseStrike := math.Floor(spot/interval) * interval

	strikes := make([]models.StrikeRecord, 0, 21)
	for i := -10; i <= 10; i++ {
		strike := baseStrike + float64(i)*interval
		distanceFromATM := math.Abs(strike-spot) / spot

		baseOI := math.Max(10000-distanceFromATM*50000, 1000)
		callOI := baseOI + float64(rng.Intn(4000)-2000)
		putOI := baseOI + float64(rng.Intn(4000)-2000)

		// OTM sides carry extra written interest: calls above spot,
		// puts below.
		if strike > spot {
			callOI *= 1.2
		}
		if strike < spot {
			putOI *= 1.2
		}
		callOI = math.Max(callOI, 0)
		putOI = math.Max(putOI, 0)

		iv := 15 + distanceFromATM*10

		callLTP := math.Max(spot-strike, 0) + math.Max(50-distanceFromATM*400, 5)
		putLTP := math.Max(strike-spot, 0) + math.Max(50-distanceFromATM*400, 5)

		strikes = append(strikes, models.StrikeRecord{
			Strike:       strike,
			CallOI:       int64(callOI),
			PutOI:        int64(putOI),
			CallVolume:   int64(callOI * 0.1),
			PutVolume:    int64(putOI * 0.1),
			CallIV:       iv,
			PutIV:        iv,
			CallLTP:      callLTP,
			PutLTP:       putLTP,
			CallOIChange: int64(rng.Intn(2000) - 1000),
			PutOIChange:  int64(rng.Intn(2000) - 1000),
		})
	}

	return &models.OptionChainSnapshot{
		Symbol:    symbol,
		SpotPrice: spot,
		Strikes:   strikes,
	}, nil
}
