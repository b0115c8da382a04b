package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/spacesedan/reviewlens/config"
	"github.com/spacesedan/reviewlens/internal/models"
)

const (
	// The source this demo reproduces referenced a model id that does not
	// exist on the Hub; this is the published SST-2 checkpoint it meant.
	DefaultModelID  = "KnightsAnalytics/distilbert-base-uncased-finetuned-sst-2-english"
	DefaultModelDir = "./models"
)

var sst2Labels = []string{"POSITIVE", "NEGATIVE"}

// HugotClassifier runs a pretrained text-classification checkpoint locally
// through an ONNX runtime session. The model is fetched once at construction;
// Classify itself never touches the network.
type HugotClassifier struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	modelID  string
	labels   []string
}

func NewHugotClassifier(ctx context.Context) (*HugotClassifier, error) {
	modelID := config.GetEnvOr("MODEL_ID", DefaultModelID)
	modelDir := config.GetEnvOr("MODEL_DIR", DefaultModelDir)

	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create model directory: %w", err)
	}

	modelPath := filepath.Join(modelDir, strings.ReplaceAll(modelID, "/", "_"))
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		slog.Info("[HugotClassifier] Model not found, downloading...",
			slog.String("model_id", modelID))
		downloaded, err := hugot.DownloadModel(modelID, modelDir, hugot.NewDownloadOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to download model %s: %w", modelID, err)
		}
		modelPath = downloaded
		slog.Info("[HugotClassifier] Model downloaded successfully",
			slog.String("path", modelPath))
	} else {
		slog.Info("[HugotClassifier] Using existing model",
			slog.String("path", modelPath))
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hugot session: %w", err)
	}

	cfg := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "reviewSentimentPipeline",
	}
	pipeline, err := hugot.NewPipeline(session, cfg)
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("failed to initialize classification pipeline: %w", err)
	}

	return &HugotClassifier{
		session:  session,
		pipeline: pipeline,
		modelID:  modelID,
		labels:   labelsFromEnv(),
	}, nil
}

func (h *HugotClassifier) Classify(_ context.Context, text string) (models.Prediction, error) {
	if err := validateText(text); err != nil {
		return models.Prediction{}, err
	}

	output, err := h.pipeline.RunPipeline([]string{text})
	if err != nil {
		return models.Prediction{}, fmt.Errorf("classification failed: %w", err)
	}

	if len(output.ClassificationOutputs) == 0 || len(output.ClassificationOutputs[0]) == 0 {
		return models.Prediction{}, fmt.Errorf("model returned no prediction for input")
	}

	top := output.ClassificationOutputs[0][0]
	pred := models.Prediction{
		Label: top.Label,
		Score: float64(top.Score),
	}
	logPrediction(BackendHugot, pred)
	return pred, nil
}

func (h *HugotClassifier) KnownLabels() []string {
	return h.labels
}

func (h *HugotClassifier) Name() string { return BackendHugot }

// ModelID reports the checkpoint this classifier was built with, used for
// cache key derivation.
func (h *HugotClassifier) ModelID() string { return h.modelID }

func (h *HugotClassifier) Close() {
	if err := h.session.Destroy(); err != nil {
		slog.Warn("[HugotClassifier] Failed to destroy session",
			slog.String("error", err.Error()))
	}
}

// labelsFromEnv allows swapping in a checkpoint with a different label set
// without a code change.
func labelsFromEnv() []string {
	raw := os.Getenv("MODEL_LABELS")
	if raw == "" {
		return sst2Labels
	}
	var labels []string
	for _, l := range strings.Split(raw, ",") {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, l)
		}
	}
	if len(labels) == 0 {
		return sst2Labels
	}
	return labels
}
