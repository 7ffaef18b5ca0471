package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rakeshkumarg2119/ThinkBeforeWeClick/internal/service"
)

// AnalysisHandler exposes the core analysis engine over HTTP.
type AnalysisHandler struct {
	analyzer service.AnalyzerService
	logger   *zap.Logger
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(analyzer service.AnalyzerService, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{analyzer: analyzer, logger: logger}
}

// AnalyzeRequest is the body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	URL string `json:"url" binding:"required"`
}

// CorrectRequest is the body of POST /api/v1/correct. At least one of the
// two label fields must be present.
type CorrectRequest struct {
	URL       string  `json:"url" binding:"required"`
	RiskLevel *int    `json:"risk_level"`
	RiskType  *string `json:"risk_type"`
}

// Analyze runs URL risk analysis.
// POST /api/v1/analyze
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), req.URL)
	if err != nil {
		if errors.Is(err, service.ErrInvalidURL) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or un-parseable URL"})
			return
		}
		h.logger.Error("Analysis failed", zap.String("url", req.URL), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis engine failure"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Correct records human-reviewed labels for an analyzed URL.
// POST /api/v1/correct
func (h *AnalysisHandler) Correct(c *gin.Context) {
	var req CorrectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.analyzer.Correct(req.URL, req.RiskLevel, req.RiskType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownURL):
			c.JSON(http.StatusNotFound, gin.H{"error": "URL has not been analyzed"})
		case errors.Is(err, service.ErrInvalidURL):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Label correction failed", zap.String("url", req.URL), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store correction"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Labels corrected", "url": req.URL})
}

// Retrain triggers a full batch refit of all classifiers.
// POST /api/v1/retrain
func (h *AnalysisHandler) Retrain(c *gin.Context) {
	result, err := h.analyzer.Retrain()
	if err != nil {
		h.logger.Error("Manual retrain failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Retrain failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"risk_model_trained":    result.RiskTrained,
		"type_model_trained":    result.TypeTrained,
		"anomaly_model_trained": result.AnomalyTrained,
	})
}

// Stats reports corpus size, class distributions and model readiness.
// GET /api/v1/stats
func (h *AnalysisHandler) Stats(c *gin.Context) {
	stats, err := h.analyzer.Stats()
	if err != nil {
		h.logger.Error("Failed to collect stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to collect stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Health is the liveness probe.
// GET /api/v1/health
func (h *AnalysisHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "URL Risk Analyzer API is running",
	})
}
