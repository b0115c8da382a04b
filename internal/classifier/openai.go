package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/spacesedan/reviewlens/config"
	"github.com/spacesedan/reviewlens/internal/clients"
	"github.com/spacesedan/reviewlens/internal/models"
)

const sentimentSystemPrompt = `You are a sentiment classifier for product reviews.
Classify the review you are given as POSITIVE or NEGATIVE and report your
confidence in the chosen label as a number between 0 and 1.
Respond with a JSON object of the form {"label": "...", "score": 0.0} and
nothing else.`

// OpenAIClassifier delegates classification to a chat completion. It exists
// for hosts that cannot run the ONNX checkpoint locally; unlike the other
// backends it is only best-effort deterministic.
type OpenAIClassifier struct {
	client *clients.OpenAIClient
	model  string
}

func NewOpenAIClassifier() (*OpenAIClassifier, error) {
	client, err := clients.GetOpenAIClient()
	if err != nil {
		return nil, err
	}
	return &OpenAIClassifier{
		client: client,
		model:  config.GetEnvOr("OPENAI_MODEL", openai.GPT4oMini),
	}, nil
}

func (o *OpenAIClassifier) Classify(ctx context.Context, text string) (models.Prediction, error) {
	if err := validateText(text); err != nil {
		return models.Prediction{}, err
	}

	resp, err := o.client.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: sentimentSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
	})
	if err != nil {
		return models.Prediction{}, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return models.Prediction{}, fmt.Errorf("chat completion returned no choices")
	}

	var pred models.Prediction
	raw := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(raw), &pred); err != nil {
		return models.Prediction{}, fmt.Errorf("failed to parse completion %q: %w", raw, err)
	}

	pred.Label = strings.ToUpper(strings.TrimSpace(pred.Label))
	if !labelKnown(pred.Label, o.KnownLabels()) {
		return models.Prediction{}, fmt.Errorf("completion returned unknown label %q", pred.Label)
	}
	if pred.Score < 0 {
		pred.Score = 0
	}
	if pred.Score > 1 {
		pred.Score = 1
	}

	logPrediction(BackendOpenAI, pred)
	return pred, nil
}

func (o *OpenAIClassifier) KnownLabels() []string { return sst2Labels }

func (o *OpenAIClassifier) Name() string { return BackendOpenAI }

func (o *OpenAIClassifier) ModelID() string { return o.model }

func labelKnown(label string, known []string) bool {
	for _, l := range known {
		if l == label {
			return true
		}
	}
	return false
}
