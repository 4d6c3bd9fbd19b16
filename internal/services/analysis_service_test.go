package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nileshk/optionpulse-go/internal/analytics"
	"github.com/nileshk/optionpulse-go/internal/config"
	"github.com/nileshk/optionpulse-go/internal/models"
)

type fakeStore struct {
	saved     []*models.ChainAnalysis
	history   []*models.OptionChainSnapshot
	latest    *models.ChainAnalysis
	latestErr error
	saveErr   error
}

func (f *fakeStore) SaveAnalysis(_ context.Context, analysis *models.ChainAnalysis) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, analysis)
	return nil
}

func (f *fakeStore) SaveChainHistory(_ context.Context, snapshot *models.OptionChainSnapshot, _ time.Time) error {
	f.history = append(f.history, snapshot)
	return nil
}

func (f *fakeStore) GetLatestAnalysis(_ context.Context, _ string) (*models.ChainAnalysis, error) {
	return f.latest, f.latestErr
}

func (f *fakeStore) ListAnalyses(_ context.Context, _ string, limit int) ([]models.ChainAnalysis, error) {
	if f.latest == nil {
		return []models.ChainAnalysis{}, nil
	}
	out := []models.ChainAnalysis{*f.latest}
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

type fakeCache struct {
	entries map[string]*models.ChainAnalysis
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*models.ChainAnalysis{}}
}

func (f *fakeCache) Get(_ context.Context, symbol string) (*models.ChainAnalysis, bool) {
	analysis, ok := f.entries[symbol]
	return analysis, ok
}

func (f *fakeCache) Set(_ context.Context, analysis *models.ChainAnalysis) error {
	f.entries[analysis.Symbol] = analysis
	return nil
}

type fakeProvider struct {
	snapshots map[string]*models.OptionChainSnapshot
	err       error
}

func (f *fakeProvider) FetchChain(_ context.Context, symbol string) (*models.OptionChainSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshots[symbol], nil
}

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) SendCommentary(_ context.Context, symbol, _ string) error {
	f.sent = append(f.sent, symbol)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Analysis: config.AnalysisConfig{
			Symbols:      []string{"NIFTY", "BANKNIFTY"},
			DefaultVIX:   15,
			CacheTTL:     "5m",
			HistoryLimit: 30,
		},
	}
}

func testSnapshot(symbol string) *models.OptionChainSnapshot {
	return &models.OptionChainSnapshot{
		Symbol:    symbol,
		SpotPrice: 100,
		Strikes: []models.StrikeRecord{
			{Strike: 90, PutOI: 5000, CallOI: 500},
			{Strike: 100, PutOI: 1000, CallOI: 1000},
			{Strike: 110, PutOI: 500, CallOI: 5000},
		},
	}
}

func newTestService(provider *fakeProvider, store *fakeStore, cache *fakeCache, notifier *fakeNotifier) *AnalysisService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewAnalysisService(testConfig(), provider, store, cache, notifier, logger)
}

func TestAnalyzeSnapshotStampsAndPersists(t *testing.T) {
	store := &fakeStore{}
	cache := newFakeCache()
	svc := newTestService(&fakeProvider{}, store, cache, &fakeNotifier{})

	analysis, err := svc.AnalyzeSnapshot(context.Background(), testSnapshot("NIFTY"), 25)
	require.NoError(t, err)

	assert.NotEmpty(t, analysis.ID)
	assert.False(t, analysis.AnalysisTime.IsZero())
	assert.NotEmpty(t, analysis.Commentary)
	assert.Equal(t, models.RegimeHighVolatility, analysis.Regime)

	require.Len(t, store.saved, 1)
	assert.Equal(t, analysis, store.saved[0])

	cached, ok := cache.Get(context.Background(), "NIFTY")
	require.True(t, ok)
	assert.Equal(t, analysis, cached)
}

func TestAnalyzeSnapshotEngineErrorPropagates(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(&fakeProvider{}, store, newFakeCache(), &fakeNotifier{})

	empty := &models.OptionChainSnapshot{Symbol: "NIFTY", SpotPrice: 100}
	analysis, err := svc.AnalyzeSnapshot(context.Background(), empty, 15)

	assert.Nil(t, analysis)
	assert.ErrorIs(t, err, analytics.ErrInsufficientData)
	assert.Empty(t, store.saved)
}

func TestAnalyzeSnapshotSurvivesStoreFailure(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("db down")}
	svc := newTestService(&fakeProvider{}, store, newFakeCache(), &fakeNotifier{})

	analysis, err := svc.AnalyzeSnapshot(context.Background(), testSnapshot("NIFTY"), 15)
	require.NoError(t, err)
	assert.NotNil(t, analysis)
}

func TestAnalyzeSymbol(t *testing.T) {
	provider := &fakeProvider{snapshots: map[string]*models.OptionChainSnapshot{
		"NIFTY": testSnapshot("NIFTY"),
	}}
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	svc := newTestService(provider, store, newFakeCache(), notifier)

	analysis, err := svc.AnalyzeSymbol(context.Background(), "NIFTY", 15)
	require.NoError(t, err)

	assert.Equal(t, "NIFTY", analysis.Symbol)
	require.Len(t, store.history, 1)
	assert.Equal(t, []string{"NIFTY"}, notifier.sent)
}

func TestAnalyzeSymbolProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("feed unavailable")}
	svc := newTestService(provider, &fakeStore{}, newFakeCache(), &fakeNotifier{})

	analysis, err := svc.AnalyzeSymbol(context.Background(), "NIFTY", 15)
	assert.Nil(t, analysis)
	assert.ErrorContains(t, err, "feed unavailable")
}

func TestAnalyzeAllSkipsFailedSymbols(t *testing.T) {
	// Only NIFTY resolves; BANKNIFTY yields a nil snapshot which fails
	// engine validation and must not abort the run.
	provider := &fakeProvider{snapshots: map[string]*models.OptionChainSnapshot{
		"NIFTY":     testSnapshot("NIFTY"),
		"BANKNIFTY": {Symbol: "BANKNIFTY", SpotPrice: 45000},
	}}
	svc := newTestService(provider, &fakeStore{}, newFakeCache(), &fakeNotifier{})

	results := svc.AnalyzeAll(context.Background(), 15)
	require.Len(t, results, 1)
	assert.Equal(t, "NIFTY", results[0].Symbol)
}

func TestLatestAnalysisPrefersCache(t *testing.T) {
	cached := &models.ChainAnalysis{Symbol: "NIFTY", OverallSentiment: models.SentimentBullish}
	cache := newFakeCache()
	require.NoError(t, cache.Set(context.Background(), cached))

	store := &fakeStore{latestErr: errors.New("must not be called")}
	svc := newTestService(&fakeProvider{}, store, cache, &fakeNotifier{})

	got, err := svc.LatestAnalysis(context.Background(), "NIFTY")
	require.NoError(t, err)
	assert.Equal(t, cached, got)
}

func TestLatestAnalysisFallsBackToStore(t *testing.T) {
	stored := &models.ChainAnalysis{Symbol: "NIFTY", OverallSentiment: models.SentimentNeutral}
	store := &fakeStore{latest: stored}
	cache := newFakeCache()
	svc := newTestService(&fakeProvider{}, store, cache, &fakeNotifier{})

	got, err := svc.LatestAnalysis(context.Background(), "NIFTY")
	require.NoError(t, err)
	assert.Equal(t, stored, got)

	// The store hit backfills the cache.
	_, ok := cache.Get(context.Background(), "NIFTY")
	assert.True(t, ok)
}

func TestHistoryClampsLimit(t *testing.T) {
	store := &fakeStore{latest: &models.ChainAnalysis{Symbol: "NIFTY"}}
	svc := newTestService(&fakeProvider{}, store, newFakeCache(), &fakeNotifier{})

	// Requests beyond the configured cap fall back to the cap; the fake
	// returns at most one row either way, so only absence of error is
	// checked here.
	got, err := svc.History(context.Background(), "NIFTY", 10000)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.History(context.Background(), "NIFTY", 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
