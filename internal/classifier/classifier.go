package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spacesedan/reviewlens/internal/models"
)

const (
	BackendHugot  = "hugot"
	BackendVader  = "vader"
	BackendOpenAI = "openai"
)

// ErrEmptyText is returned before any backend is invoked so that empty input
// behaves the same no matter which model is configured.
var ErrEmptyText = errors.New("review text is empty")

// Classifier maps a block of review text to a label/score pair. Implementations
// wrap a pretrained model; the rest of the system only sees this interface.
type Classifier interface {
	Classify(ctx context.Context, text string) (models.Prediction, error)
	// KnownLabels returns the fixed label set the underlying model can emit.
	KnownLabels() []string
	Name() string
	// ModelID identifies the underlying checkpoint or lexicon; cache keys
	// include it so a model swap never serves stale predictions.
	ModelID() string
}

// FromEnv builds the classifier selected by CLASSIFIER_BACKEND. The returned
// cleanup releases backend resources and is safe to call once on shutdown.
func FromEnv(ctx context.Context) (Classifier, func(), error) {
	backend := strings.ToLower(strings.TrimSpace(os.Getenv("CLASSIFIER_BACKEND")))
	if backend == "" {
		backend = BackendHugot
	}

	switch backend {
	case BackendHugot:
		hc, err := NewHugotClassifier(ctx)
		if err != nil {
			return nil, nil, err
		}
		return hc, hc.Close, nil
	case BackendVader:
		return NewVaderClassifier(), func() {}, nil
	case BackendOpenAI:
		oc, err := NewOpenAIClassifier()
		if err != nil {
			return nil, nil, err
		}
		return oc, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown classifier backend %q", backend)
	}
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}
	return nil
}

func logPrediction(backend string, pred models.Prediction) {
	slog.Debug("[Classifier] Prediction complete",
		slog.String("backend", backend),
		slog.String("label", pred.Label),
		slog.Float64("score", pred.Score))
}
