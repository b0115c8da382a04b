package classifier

import (
	"context"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"

	"github.com/spacesedan/reviewlens/internal/models"
)

var vaderLabels = []string{"POSITIVE", "NEGATIVE", "NEUTRAL"}

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// VaderClassifier scores text with the VADER lexicon. It needs no model
// download and is fully deterministic, which makes it the backend of choice
// for tests and for hosts without an ONNX runtime.
type VaderClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderClassifier) Classify(_ context.Context, text string) (models.Prediction, error) {
	if err := validateText(text); err != nil {
		return models.Prediction{}, err
	}

	plainText := convertMarkdownToText(text)
	sentiment := v.analyzer.PolarityScores(plainText)
	compound := sentiment.Compound

	var label string
	switch {
	case compound >= 0.20:
		label = "POSITIVE"
	case compound <= -0.20:
		label = "NEGATIVE"
	default:
		label = "NEUTRAL"
	}

	pred := models.Prediction{
		Label: label,
		Score: confidenceFromCompound(label, compound),
	}
	logPrediction(BackendVader, pred)
	return pred, nil
}

func (v *VaderClassifier) KnownLabels() []string { return vaderLabels }

func (v *VaderClassifier) Name() string { return BackendVader }

func (v *VaderClassifier) ModelID() string { return "govader-lexicon" }

// confidenceFromCompound maps VADER's compound polarity in [-1,1] onto a
// confidence for the chosen label in [0,1]. Polar labels gain confidence with
// distance from zero; the neutral label loses it.
func confidenceFromCompound(label string, compound float64) float64 {
	magnitude := compound
	if magnitude < 0 {
		magnitude = -magnitude
	}

	var score float64
	if label == "NEUTRAL" {
		score = 1 - magnitude
	} else {
		score = 0.5 + magnitude/2
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func removeLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

// convertMarkdownToText flattens markdown formatting so emphasis markers and
// link targets do not skew the lexicon scores.
func convertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := strings.Join(strings.Fields(string(output)), " ")

	return removeLinks(plainText)
}
