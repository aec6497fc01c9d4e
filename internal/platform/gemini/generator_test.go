package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/ali-aktas/hocalingo-api/internal/config"
	"github.com/ali-aktas/hocalingo-api/internal/generation"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		GeminiAPIKey:      "test-api-key",
		ModelName:         "gemini-2.0-flash",
		MaxRetries:        2,
		RetryDelaySeconds: 1,
	}
}

func TestNewGeminiGenerator(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		gen, err := NewGeminiGenerator(context.Background(), discardLogger(), validLLMConfig())
		require.NoError(t, err)
		require.NotNil(t, gen)
		assert.Equal(t, "gemini-2.0-flash", gen.model)
		assert.Equal(t, 2, gen.maxRetries)
		assert.Equal(t, 1, gen.retryDelaySeconds)
	})

	t.Run("missing API key", func(t *testing.T) {
		t.Parallel()

		cfg := validLLMConfig()
		cfg.GeminiAPIKey = ""

		_, err := NewGeminiGenerator(context.Background(), discardLogger(), cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "API key")
	})

	t.Run("missing model name", func(t *testing.T) {
		t.Parallel()

		cfg := validLLMConfig()
		cfg.ModelName = ""

		_, err := NewGeminiGenerator(context.Background(), discardLogger(), cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "model name")
	})

	t.Run("zero retry settings fall back to defaults", func(t *testing.T) {
		t.Parallel()

		cfg := validLLMConfig()
		cfg.MaxRetries = 0
		cfg.RetryDelaySeconds = 0

		gen, err := NewGeminiGenerator(context.Background(), discardLogger(), cfg)
		require.NoError(t, err)
		assert.Equal(t, defaultMaxRetries, gen.maxRetries)
		assert.Equal(t, defaultRetryDelaySeconds, gen.retryDelaySeconds)
	})

	t.Run("nonexistent template path", func(t *testing.T) {
		t.Parallel()

		cfg := validLLMConfig()
		cfg.PromptTemplatePath = filepath.Join(t.TempDir(), "missing.tmpl")

		_, err := NewGeminiGenerator(context.Background(), discardLogger(), cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})
}

func TestLoadPromptTemplate(t *testing.T) {
	t.Parallel()

	t.Run("default template renders request fields", func(t *testing.T) {
		t.Parallel()

		tmpl, err := loadPromptTemplate("")
		require.NoError(t, err)

		var buf strings.Builder
		err = tmpl.Execute(&buf, promptData{Category: "travel", Level: "B1", Count: 5})
		require.NoError(t, err)

		prompt := buf.String()
		assert.Contains(t, prompt, "exactly 5")
		assert.Contains(t, prompt, `"travel"`)
		assert.Contains(t, prompt, "B1")
		assert.Contains(t, prompt, "JSON array")
	})

	t.Run("custom template file overrides default", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.tmpl")
		content := "Give me {{.Count}} words about {{.Category}} for level {{.Level}}."
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		tmpl, err := loadPromptTemplate(path)
		require.NoError(t, err)

		var buf strings.Builder
		err = tmpl.Execute(&buf, promptData{Category: "food", Level: "A2", Count: 3})
		require.NoError(t, err)
		assert.Equal(t, "Give me 3 words about food for level A2.", buf.String())
	})

	t.Run("malformed template", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "broken.tmpl")
		require.NoError(t, os.WriteFile(path, []byte("{{.Count"), 0o600))

		_, err := loadPromptTemplate(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	gen, err := NewGeminiGenerator(context.Background(), discardLogger(), validLLMConfig())
	require.NoError(t, err)

	prompt, err := gen.buildPrompt(generation.Request{
		ProfileID: "default",
		Category:  "business",
		Level:     "C1",
		Count:     10,
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "exactly 10")
	assert.Contains(t, prompt, `"business"`)
	assert.Contains(t, prompt, "C1")
}

func TestClassifyAPIError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{
			name:     "rate limit is transient",
			err:      &genai.APIError{Code: 429, Message: "rate limited"},
			expected: generation.ErrTransientFailure,
		},
		{
			name:     "server error is transient",
			err:      &genai.APIError{Code: 503, Message: "unavailable"},
			expected: generation.ErrTransientFailure,
		},
		{
			name:     "bad request is permanent",
			err:      &genai.APIError{Code: 400, Message: "invalid argument"},
			expected: generation.ErrGenerationFailed,
		},
		{
			name:     "auth failure is permanent",
			err:      &genai.APIError{Code: 403, Message: "forbidden"},
			expected: generation.ErrGenerationFailed,
		},
		{
			name:     "plain network error is transient",
			err:      fmt.Errorf("connection reset by peer"),
			expected: generation.ErrTransientFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			classified := classifyAPIError(tt.err)
			assert.True(t, errors.Is(classified, tt.expected),
				"expected %v to classify as %v", classified, tt.expected)
		})
	}
}

func TestMapGeneratedItems(t *testing.T) {
	t.Parallel()

	req := generation.Request{
		ProfileID: "default",
		Category:  "travel",
		Level:     "B1",
		Count:     2,
	}
	parsed := []generation.GeneratedItem{
		{
			Text:          "  departure  ",
			Translation:   "kalkış",
			Examples:      []string{"The departure was delayed."},
			Pronunciation: "dih-PAR-cher",
		},
		{Text: "luggage", Translation: "bagaj"},
	}

	items := mapGeneratedItems(parsed, req)
	require.Len(t, items, 2)

	assert.Equal(t, "departure", items[0].Text)
	assert.Equal(t, "kalkış", items[0].Translation)
	assert.Equal(t, []string{"The departure was delayed."}, items[0].Examples)
	assert.Equal(t, "dih-PAR-cher", items[0].Pronunciation)
	assert.Equal(t, "B1", items[0].Level)
	assert.Equal(t, "travel", items[0].Category)
	assert.True(t, items[0].Reversible)

	assert.Equal(t, "luggage", items[1].Text)
	assert.Empty(t, items[1].Examples)
	assert.Zero(t, items[1].ID)
	assert.Empty(t, items[1].PackageID)
}
