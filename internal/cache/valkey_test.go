package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredictionKey_Deterministic(t *testing.T) {
	a := PredictionKey("hugot", "model-a", "I loved this product")
	b := PredictionKey("hugot", "model-a", "I loved this product")
	assert.Equal(t, a, b)
}

func TestPredictionKey_VariesPerInput(t *testing.T) {
	base := PredictionKey("hugot", "model-a", "I loved this product")

	assert.NotEqual(t, base, PredictionKey("vader", "model-a", "I loved this product"))
	assert.NotEqual(t, base, PredictionKey("hugot", "model-b", "I loved this product"))
	assert.NotEqual(t, base, PredictionKey("hugot", "model-a", "I hated this product"))
}

func TestPredictionKey_Prefix(t *testing.T) {
	key := PredictionKey("hugot", "model-a", "text")
	assert.True(t, strings.HasPrefix(key, "reviewlens:prediction:"))
}
