package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nileshk/optionpulse-go/internal/analytics"
	"github.com/nileshk/optionpulse-go/internal/database"
	"github.com/nileshk/optionpulse-go/internal/models"
)

type fakeRunner struct {
	snapshotVIX float64
	symbolVIX   float64

	analysis *models.ChainAnalysis
	history  []models.ChainAnalysis
	err      error
}

func (f *fakeRunner) AnalyzeSnapshot(_ context.Context, _ *models.OptionChainSnapshot, vix float64) (*models.ChainAnalysis, error) {
	f.snapshotVIX = vix
	return f.analysis, f.err
}

func (f *fakeRunner) AnalyzeSymbol(_ context.Context, _ string, vix float64) (*models.ChainAnalysis, error) {
	f.symbolVIX = vix
	return f.analysis, f.err
}

func (f *fakeRunner) LatestAnalysis(_ context.Context, _ string) (*models.ChainAnalysis, error) {
	return f.analysis, f.err
}

func (f *fakeRunner) History(_ context.Context, _ string, _ int) ([]models.ChainAnalysis, error) {
	return f.history, f.err
}

func setupRouter(runner *fakeRunner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewAnalysisHandler(runner, 16.0)

	v1 := router.Group("/api/v1")
	v1.POST("/analysis/chain", handler.AnalyzeChain)
	v1.POST("/analysis/:symbol/refresh", handler.RefreshSymbol)
	v1.GET("/analysis/:symbol/latest", handler.GetLatest)
	v1.GET("/analysis/:symbol/history", handler.GetHistory)
	return router
}

func sampleSnapshot() models.OptionChainSnapshot {
	return models.OptionChainSnapshot{
		Symbol:    "NIFTY",
		SpotPrice: 100,
		Strikes: []models.StrikeRecord{
			{Strike: 90, CallOI: 1000, PutOI: 5000},
			{Strike: 100, CallOI: 3000, PutOI: 3000},
			{Strike: 110, CallOI: 5000, PutOI: 1000},
		},
	}
}

func TestAnalyzeChain(t *testing.T) {
	runner := &fakeRunner{analysis: &models.ChainAnalysis{Symbol: "NIFTY", OverallSentiment: models.SentimentBullish}}
	router := setupRouter(runner)

	body, err := json.Marshal(AnalyzeChainRequest{Snapshot: sampleSnapshot()})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/chain", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 16.0, runner.snapshotVIX, "default VIX should apply when omitted")

	var got models.ChainAnalysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "NIFTY", got.Symbol)
	assert.Equal(t, models.SentimentBullish, got.OverallSentiment)
}

func TestAnalyzeChainExplicitVIX(t *testing.T) {
	runner := &fakeRunner{analysis: &models.ChainAnalysis{Symbol: "NIFTY"}}
	router := setupRouter(runner)

	vix := 25.0
	body, err := json.Marshal(AnalyzeChainRequest{Snapshot: sampleSnapshot(), VIX: &vix})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/chain", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 25.0, runner.snapshotVIX)
}

func TestAnalyzeChainBadBody(t *testing.T) {
	router := setupRouter(&fakeRunner{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/chain", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeChainValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"insufficient data", analytics.ErrInsufficientData, http.StatusBadRequest},
		{"invalid strike", analytics.ErrInvalidStrike, http.StatusBadRequest},
		{"internal failure", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(&fakeRunner{err: tt.err})

			body, err := json.Marshal(AnalyzeChainRequest{Snapshot: sampleSnapshot()})
			require.NoError(t, err)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/chain", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRefreshSymbol(t *testing.T) {
	runner := &fakeRunner{analysis: &models.ChainAnalysis{Symbol: "BANKNIFTY"}}
	router := setupRouter(runner)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/BANKNIFTY/refresh?vix=23.5", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 23.5, runner.symbolVIX)
}

func TestRefreshSymbolBadVIX(t *testing.T) {
	router := setupRouter(&fakeRunner{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/NIFTY/refresh?vix=abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefreshSymbolProviderFailure(t *testing.T) {
	router := setupRouter(&fakeRunner{err: errors.New("provider down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/NIFTY/refresh", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetLatest(t *testing.T) {
	runner := &fakeRunner{analysis: &models.ChainAnalysis{Symbol: "NIFTY", Strategy: models.StrategyBuyCalls}}
	router := setupRouter(runner)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/NIFTY/latest", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got models.ChainAnalysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, models.StrategyBuyCalls, got.Strategy)
}

func TestGetLatestNotFound(t *testing.T) {
	router := setupRouter(&fakeRunner{err: database.ErrAnalysisNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/NIFTY/latest", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetHistory(t *testing.T) {
	runner := &fakeRunner{history: []models.ChainAnalysis{{Symbol: "NIFTY"}, {Symbol: "NIFTY"}}}
	router := setupRouter(runner)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/NIFTY/history?limit=2", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "NIFTY", got.Symbol)
	assert.Equal(t, 2, got.Count)
	assert.Len(t, got.Analyses, 2)
}

func TestGetHistoryBadLimit(t *testing.T) {
	router := setupRouter(&fakeRunner{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/NIFTY/history?limit=-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
