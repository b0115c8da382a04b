package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_VaderBackend(t *testing.T) {
	t.Setenv("CLASSIFIER_BACKEND", "vader")

	c, cleanup, err := FromEnv(context.Background())
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, &VaderClassifier{}, c)
	assert.Equal(t, BackendVader, c.Name())
}

func TestFromEnv_UnknownBackend(t *testing.T) {
	t.Setenv("CLASSIFIER_BACKEND", "magic8ball")

	_, _, err := FromEnv(context.Background())
	assert.Error(t, err)
}

func TestFromEnv_OpenAIWithoutKey(t *testing.T) {
	t.Setenv("CLASSIFIER_BACKEND", "openai")
	t.Setenv("OPENAI_API_KEY", "")

	_, _, err := FromEnv(context.Background())
	assert.Error(t, err)
}

func TestValidateText(t *testing.T) {
	assert.ErrorIs(t, validateText(""), ErrEmptyText)
	assert.ErrorIs(t, validateText(" \t "), ErrEmptyText)
	assert.NoError(t, validateText("fine"))
}
