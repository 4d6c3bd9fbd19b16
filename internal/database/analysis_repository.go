package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nileshk/optionpulse-go/internal/models"
)

// ErrAnalysisNotFound is returned when no stored verdict exists for a symbol.
var ErrAnalysisNotFound = errors.New("analysis not found")

// DatabasePool defines the pool operations the repository needs, so tests
// can substitute a pgxmock pool.
type DatabasePool interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// AnalysisRepository persists chain analysis verdicts and raw option chain
// history rows. The scalar verdict columns support simple SQL filtering;
// the full result is kept as a JSON document alongside them.
type AnalysisRepository struct {
	pool DatabasePool
}

// NewAnalysisRepository creates a new analysis repository.
func NewAnalysisRepository(pool DatabasePool) *AnalysisRepository {
	return &AnalysisRepository{pool: pool}
}

// SaveAnalysis stores one analysis verdict.
func (r *AnalysisRepository) SaveAnalysis(ctx context.Context, analysis *models.ChainAnalysis) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	query := `
		INSERT INTO chain_analysis (
			id, symbol, analysis_time, spot_price, pcr, pcr_sentiment,
			max_pain_strike, volatility_regime, overall_sentiment,
			recommended_strategy, commentary, analysis_data
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.pool.Exec(ctx, query,
		analysis.ID,
		analysis.Symbol,
		analysis.AnalysisTime,
		analysis.SpotPrice,
		analysis.PCR.Ratio,
		string(analysis.PCR.Sentiment),
		analysis.MaxPain.Strike,
		string(analysis.Regime),
		string(analysis.OverallSentiment),
		string(analysis.Strategy),
		analysis.Commentary,
		payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis for %s: %w", analysis.Symbol, err)
	}

	return nil
}

// SaveChainHistory stores the raw per-strike rows of a snapshot so later
// runs can derive OI changes and audits can replay a verdict.
func (r *AnalysisRepository) SaveChainHistory(ctx context.Context, snapshot *models.OptionChainSnapshot, observedAt time.Time) error {
	query := `
		INSERT INTO option_chain_history (
			symbol, strike, call_oi, put_oi, call_volume, put_volume,
			call_iv, put_iv, call_ltp, put_ltp, call_change_oi,
			put_change_oi, observed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	for _, s := range snapshot.Strikes {
		_, err := r.pool.Exec(ctx, query,
			snapshot.Symbol,
			s.Strike,
			s.CallOI,
			s.PutOI,
			s.CallVolume,
			s.PutVolume,
			s.CallIV,
			s.PutIV,
			s.CallLTP,
			s.PutLTP,
			s.CallOIChange,
			s.PutOIChange,
			observedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save chain history for %s strike %v: %w", snapshot.Symbol, s.Strike, err)
		}
	}

	return nil
}

// GetLatestAnalysis returns the most recent stored verdict for a symbol.
func (r *AnalysisRepository) GetLatestAnalysis(ctx context.Context, symbol string) (*models.ChainAnalysis, error) {
	query := `
		SELECT analysis_data
		FROM chain_analysis
		WHERE symbol = $1
		ORDER BY analysis_time DESC
		LIMIT 1
	`

	var payload []byte
	err := r.pool.QueryRow(ctx, query, symbol).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrAnalysisNotFound, symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest analysis for %s: %w", symbol, err)
	}

	var analysis models.ChainAnalysis
	if err := json.Unmarshal(payload, &analysis); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis for %s: %w", symbol, err)
	}

	return &analysis, nil
}

// ListAnalyses returns up to limit stored verdicts for a symbol, newest
// first.
func (r *AnalysisRepository) ListAnalyses(ctx context.Context, symbol string, limit int) ([]models.ChainAnalysis, error) {
	query := `
		SELECT analysis_data
		FROM chain_analysis
		WHERE symbol = $1
		ORDER BY analysis_time DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses for %s: %w", symbol, err)
	}
	defer rows.Close()

	analyses := make([]models.ChainAnalysis, 0, limit)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		var analysis models.ChainAnalysis
		if err := json.Unmarshal(payload, &analysis); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analysis row: %w", err)
		}
		analyses = append(analyses, analysis)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading analysis rows: %w", err)
	}

	return analyses, nil
}
