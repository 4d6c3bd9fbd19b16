package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nileshk/optionpulse-go/internal/analytics"
	"github.com/nileshk/optionpulse-go/internal/chaindata"
	"github.com/nileshk/optionpulse-go/internal/config"
	"github.com/nileshk/optionpulse-go/internal/models"
)

// AnalysisStore is the persistence surface the service needs.
type AnalysisStore interface {
	SaveAnalysis(ctx context.Context, analysis *models.ChainAnalysis) error
	SaveChainHistory(ctx context.Context, snapshot *models.OptionChainSnapshot, observedAt time.Time) error
	GetLatestAnalysis(ctx context.Context, symbol string) (*models.ChainAnalysis, error)
	ListAnalyses(ctx context.Context, symbol string, limit int) ([]models.ChainAnalysis, error)
}

// AnalysisCache is the read-through cache surface for latest verdicts.
type AnalysisCache interface {
	Get(ctx context.Context, symbol string) (*models.ChainAnalysis, bool)
	Set(ctx context.Context, analysis *models.ChainAnalysis) error
}

// CommentaryNotifier delivers rendered commentary.
type CommentaryNotifier interface {
	SendCommentary(ctx context.Context, symbol, commentary string) error
}

// AnalysisService orchestrates one analysis run: fetch the chain, run the
// engine, persist the verdict and history, refresh the cache and notify.
// The engine stays pure; every side effect lives here.
type AnalysisService struct {
	cfg      *config.Config
	engine   *analytics.Engine
	provider chaindata.Provider
	store    AnalysisStore
	cache    AnalysisCache
	notifier CommentaryNotifier
	logger   *logrus.Logger
}

// NewAnalysisService wires the orchestration service.
func NewAnalysisService(
	cfg *config.Config,
	provider chaindata.Provider,
	store AnalysisStore,
	cache AnalysisCache,
	notifier CommentaryNotifier,
	logger *logrus.Logger,
) *AnalysisService {
	return &AnalysisService{
		cfg:      cfg,
		engine:   analytics.NewEngine(),
		provider: provider,
		store:    store,
		cache:    cache,
		notifier: notifier,
		logger:   logger,
	}
}

// AnalyzeSnapshot runs the engine over a caller-supplied snapshot, stamps
// the verdict with identity and commentary, and records it. Engine errors
// propagate untouched so the caller can tell bad input from infrastructure
// trouble; persistence and cache failures are logged and do not void the
// verdict.
func (s *AnalysisService) AnalyzeSnapshot(ctx context.Context, snapshot *models.OptionChainSnapshot, vix float64) (*models.ChainAnalysis, error) {
	regime := models.RegimeFromVIX(vix)

	analysis, err := s.engine.Analyze(snapshot, regime)
	if err != nil {
		return nil, err
	}

	analysis.ID = uuid.NewString()
	analysis.AnalysisTime = time.Now().UTC()
	analysis.Commentary = RenderCommentary(analysis)

	if err := s.store.SaveAnalysis(ctx, analysis); err != nil {
		s.logger.WithError(err).WithField("symbol", analysis.Symbol).Error("Failed to persist analysis")
	}
	if err := s.cache.Set(ctx, analysis); err != nil {
		s.logger.WithError(err).WithField("symbol", analysis.Symbol).Warn("Failed to cache analysis")
	}

	s.logger.WithFields(logrus.Fields{
		"symbol":    analysis.Symbol,
		"sentiment": analysis.OverallSentiment,
		"strategy":  analysis.Strategy,
	}).Info("Chain analysis completed")

	return analysis, nil
}

// AnalyzeSymbol fetches the current chain for a symbol, records the raw
// rows, analyzes them and pushes commentary.
func (s *AnalysisService) AnalyzeSymbol(ctx context.Context, symbol string, vix float64) (*models.ChainAnalysis, error) {
	snapshot, err := s.provider.FetchChain(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chain for %s: %w", symbol, err)
	}

	if err := s.store.SaveChainHistory(ctx, snapshot, time.Now().UTC()); err != nil {
		s.logger.WithError(err).WithField("symbol", symbol).Error("Failed to persist chain history")
	}

	analysis, err := s.AnalyzeSnapshot(ctx, snapshot, vix)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.SendCommentary(ctx, symbol, analysis.Commentary); err != nil {
		s.logger.WithError(err).WithField("symbol", symbol).Warn("Commentary delivery incomplete")
	}

	return analysis, nil
}

// AnalyzeAll walks the configured symbol list. A failing symbol is logged
// and skipped; the remaining symbols still run.
func (s *AnalysisService) AnalyzeAll(ctx context.Context, vix float64) []*models.ChainAnalysis {
	results := make([]*models.ChainAnalysis, 0, len(s.cfg.Analysis.Symbols))
	for _, symbol := range s.cfg.Analysis.Symbols {
		analysis, err := s.AnalyzeSymbol(ctx, symbol, vix)
		if err != nil {
			s.logger.WithError(err).WithField("symbol", symbol).Error("Skipping symbol after failed analysis")
			continue
		}
		results = append(results, analysis)
	}
	return results
}

// LatestAnalysis serves the most recent verdict for a symbol, preferring
// the cache and falling back to storage.
func (s *AnalysisService) LatestAnalysis(ctx context.Context, symbol string) (*models.ChainAnalysis, error) {
	if analysis, ok := s.cache.Get(ctx, symbol); ok {
		return analysis, nil
	}

	analysis, err := s.store.GetLatestAnalysis(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, analysis); err != nil {
		s.logger.WithError(err).WithField("symbol", symbol).Warn("Failed to backfill analysis cache")
	}

	return analysis, nil
}

// History lists stored verdicts for a symbol, newest first, capped by the
// configured history limit.
func (s *AnalysisService) History(ctx context.Context, symbol string, limit int) ([]models.ChainAnalysis, error) {
	if limit <= 0 || limit > s.cfg.Analysis.HistoryLimit {
		limit = s.cfg.Analysis.HistoryLimit
	}
	return s.store.ListAnalyses(ctx, symbol, limit)
}
