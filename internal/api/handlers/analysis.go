package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nileshk/optionpulse-go/internal/analytics"
	"github.com/nileshk/optionpulse-go/internal/database"
	"github.com/nileshk/optionpulse-go/internal/models"
)

// AnalysisRunner is the service surface the handler needs.
type AnalysisRunner interface {
	AnalyzeSnapshot(ctx context.Context, snapshot *models.OptionChainSnapshot, vix float64) (*models.ChainAnalysis, error)
	AnalyzeSymbol(ctx context.Context, symbol string, vix float64) (*models.ChainAnalysis, error)
	LatestAnalysis(ctx context.Context, symbol string) (*models.ChainAnalysis, error)
	History(ctx context.Context, symbol string, limit int) ([]models.ChainAnalysis, error)
}

type AnalysisHandler struct {
	service    AnalysisRunner
	defaultVIX float64
}

// AnalyzeChainRequest is the body of POST /analysis/chain. VIX is optional;
// the configured default applies when absent.
type AnalyzeChainRequest struct {
	Snapshot models.OptionChainSnapshot `json:"snapshot" binding:"required"`
	VIX      *float64                   `json:"vix"`
}

type HistoryResponse struct {
	Symbol    string                 `json:"symbol"`
	Analyses  []models.ChainAnalysis `json:"analyses"`
	Count     int                    `json:"count"`
	Timestamp time.Time              `json:"timestamp"`
}

func NewAnalysisHandler(service AnalysisRunner, defaultVIX float64) *AnalysisHandler {
	return &AnalysisHandler{
		service:    service,
		defaultVIX: defaultVIX,
	}
}

// AnalyzeChain runs the engine over a snapshot supplied in the request
// body and returns the full verdict.
func (h *AnalysisHandler) AnalyzeChain(c *gin.Context) {
	var req AnalyzeChainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	vix := h.defaultVIX
	if req.VIX != nil {
		vix = *req.VIX
	}

	analysis, err := h.service.AnalyzeSnapshot(c.Request.Context(), &req.Snapshot, vix)
	if err != nil {
		if errors.Is(err, analytics.ErrInsufficientData) || errors.Is(err, analytics.ErrInvalidStrike) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// RefreshSymbol fetches a fresh chain for a symbol from the data provider
// and analyzes it.
func (h *AnalysisHandler) RefreshSymbol(c *gin.Context) {
	symbol := c.Param("symbol")

	vix := h.defaultVIX
	if raw := c.Query("vix"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vix parameter"})
			return
		}
		vix = parsed
	}

	analysis, err := h.service.AnalyzeSymbol(c.Request.Context(), symbol, vix)
	if err != nil {
		if errors.Is(err, analytics.ErrInsufficientData) || errors.Is(err, analytics.ErrInvalidStrike) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to analyze " + symbol})
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// GetLatest serves the most recent verdict for a symbol.
func (h *AnalysisHandler) GetLatest(c *gin.Context) {
	symbol := c.Param("symbol")

	analysis, err := h.service.LatestAnalysis(c.Request.Context(), symbol)
	if err != nil {
		if errors.Is(err, database.ErrAnalysisNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no analysis found for " + symbol})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load analysis"})
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// GetHistory serves stored verdicts for a symbol, newest first.
func (h *AnalysisHandler) GetHistory(c *gin.Context) {
	symbol := c.Param("symbol")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})
			return
		}
		limit = parsed
	}

	analyses, err := h.service.History(c.Request.Context(), symbol, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load analysis history"})
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{
		Symbol:    symbol,
		Analyses:  analyses,
		Count:     len(analyses),
		Timestamp: time.Now(),
	})
}
