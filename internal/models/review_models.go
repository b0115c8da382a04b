package models

// ReviewRequest is the single user-supplied value per interaction.
// The text is consumed immediately and never stored.
type ReviewRequest struct {
	Text string `json:"text"`
}

// Prediction is the label/score pair returned by a classification backend.
// Score is the model's confidence in the predicted label, in [0,1].
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type PredictionResponse struct {
	Prediction
	ScoreDisplay string `json:"score_display"`
	Backend      string `json:"backend"`
	Cached       bool   `json:"cached"`
}
