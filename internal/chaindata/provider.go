package chaindata

import (
	"context"

	"github.com/nileshk/optionpulse-go/internal/models"
)

// Provider supplies option chain snapshots. Implementations exist for the
// external chain-data service and for a synthetic simulator; the analysis
// service only sees this interface.
type Provider interface {
	FetchChain(ctx context.Context, symbol string) (*models.OptionChainSnapshot, error)
}
