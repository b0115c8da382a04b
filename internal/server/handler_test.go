package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/reviewlens/internal/classifier"
	"github.com/spacesedan/reviewlens/internal/models"
)

// stubClassifier returns a fixed prediction or error.
type stubClassifier struct {
	pred models.Prediction
	err  error
}

func (s *stubClassifier) Classify(_ context.Context, text string) (models.Prediction, error) {
	if strings.TrimSpace(text) == "" {
		return models.Prediction{}, classifier.ErrEmptyText
	}
	return s.pred, s.err
}

func (s *stubClassifier) KnownLabels() []string { return []string{"POSITIVE", "NEGATIVE"} }
func (s *stubClassifier) Name() string          { return "stub" }
func (s *stubClassifier) ModelID() string       { return "stub-model" }

func setupTestRouter(c classifier.Classifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	var healthy atomic.Bool
	healthy.Store(true)
	return Setup(c, nil, &healthy)
}

func doPredict(t *testing.T, router *gin.Engine, body string) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	req, err := http.NewRequest("POST", "/api/v1/predict", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestPredict_Success(t *testing.T) {
	stub := &stubClassifier{pred: models.Prediction{Label: "POSITIVE", Score: 0.9}}
	router := setupTestRouter(stub)

	w, resp := doPredict(t, router, `{"text": "I loved this product"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var pr models.PredictionResponse
	require.NoError(t, json.Unmarshal(data, &pr))

	assert.Equal(t, "POSITIVE", pr.Label)
	assert.Equal(t, 0.9, pr.Score)
	assert.Equal(t, "0.90", pr.ScoreDisplay)
	assert.Equal(t, "stub", pr.Backend)
	assert.False(t, pr.Cached)
}

func TestPredict_EmptyText(t *testing.T) {
	stub := &stubClassifier{pred: models.Prediction{Label: "POSITIVE", Score: 0.9}}
	router := setupTestRouter(stub)

	w, resp := doPredict(t, router, `{"text": "   "}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "EMPTY_TEXT", resp.Error.Code)
}

func TestPredict_MalformedBody(t *testing.T) {
	stub := &stubClassifier{}
	router := setupTestRouter(stub)

	w, resp := doPredict(t, router, `{"text": `)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
}

func TestPredict_ClassifierFailure(t *testing.T) {
	stub := &stubClassifier{err: errors.New("model exploded")}
	router := setupTestRouter(stub)

	w, resp := doPredict(t, router, `{"text": "anything"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CLASSIFICATION_FAILED", resp.Error.Code)
}

func TestPredict_VaderEndToEnd(t *testing.T) {
	router := setupTestRouter(classifier.NewVaderClassifier())

	w, resp := doPredict(t, router, `{"text": "I loved this product"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var pr models.PredictionResponse
	require.NoError(t, json.Unmarshal(data, &pr))

	assert.Equal(t, "POSITIVE", pr.Label)
	assert.GreaterOrEqual(t, pr.Score, 0.0)
	assert.LessOrEqual(t, pr.Score, 1.0)
	assert.Len(t, strings.Split(pr.ScoreDisplay, ".")[1], 2)
}

func TestHealth(t *testing.T) {
	var healthy atomic.Bool
	gin.SetMode(gin.TestMode)

	healthy.Store(true)
	router := Setup(&stubClassifier{}, nil, &healthy)

	req, _ := http.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	healthy.Store(false)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPage(t *testing.T) {
	router := setupTestRouter(&stubClassifier{})

	req, _ := http.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Review Classification")
	assert.Contains(t, w.Body.String(), "Enter Your Review Here")
	assert.Contains(t, w.Body.String(), "Predict")
}

func TestRequestID_Propagated(t *testing.T) {
	router := setupTestRouter(&stubClassifier{pred: models.Prediction{Label: "POSITIVE", Score: 1}})

	req, _ := http.NewRequest("POST", "/api/v1/predict", strings.NewReader(`{"text":"good"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-123")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, "req-123", resp.Meta.RequestID)
}
