package server

import (
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"github.com/spacesedan/reviewlens/internal/cache"
	"github.com/spacesedan/reviewlens/internal/classifier"
	"github.com/spacesedan/reviewlens/internal/models"
	"github.com/spacesedan/reviewlens/internal/render"
)

// PredictHandler serves the one meaningful operation of this system: take the
// review text, classify it once, hand the label/score pair back. No retry, no
// batching, nothing retained between requests beyond the optional cache.
type PredictHandler struct {
	classifier classifier.Classifier
	cache      *cache.PredictionCache // nil when caching is disabled
}

func NewPredictHandler(c classifier.Classifier, pc *cache.PredictionCache) *PredictHandler {
	return &PredictHandler{
		classifier: c,
		cache:      pc,
	}
}

// Predict handles POST /api/v1/predict
func (h *PredictHandler) Predict(c *gin.Context) {
	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	key := cache.PredictionKey(h.classifier.Name(), h.classifier.ModelID(), req.Text)
	if h.cache != nil {
		if pred, ok := h.cache.GetPrediction(c.Request.Context(), key); ok {
			respondSuccess(c, http.StatusOK, h.buildResponse(pred, true))
			return
		}
	}

	pred, err := h.classifier.Classify(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, classifier.ErrEmptyText) {
			respondError(c, http.StatusBadRequest, "EMPTY_TEXT", err.Error())
			return
		}
		slog.Error("[PredictHandler] Classification failed",
			slog.String("backend", h.classifier.Name()),
			slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "CLASSIFICATION_FAILED", err.Error())
		return
	}

	if h.cache != nil {
		if err := h.cache.StorePrediction(c.Request.Context(), key, pred); err != nil {
			slog.Warn("[PredictHandler] Failed to cache prediction",
				slog.String("error", err.Error()))
		}
	}

	respondSuccess(c, http.StatusOK, h.buildResponse(pred, false))
}

func (h *PredictHandler) buildResponse(pred models.Prediction, cached bool) models.PredictionResponse {
	return models.PredictionResponse{
		Prediction:   pred,
		ScoreDisplay: render.FormatScore(pred.Score),
		Backend:      h.classifier.Name(),
		Cached:       cached,
	}
}

// HealthHandler reports the result of the background classifier probe.
type HealthHandler struct {
	healthy *atomic.Bool
}

func NewHealthHandler(healthy *atomic.Bool) *HealthHandler {
	return &HealthHandler{healthy: healthy}
}

// Health handles GET /healthz
func (h *HealthHandler) Health(c *gin.Context) {
	if !h.healthy.Load() {
		respondError(c, http.StatusServiceUnavailable, "CLASSIFIER_UNHEALTHY", "classifier probe failing")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "ok"})
}
