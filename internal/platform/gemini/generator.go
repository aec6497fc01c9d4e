package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/ali-aktas/hocalingo-api/internal/config"
	"github.com/ali-aktas/hocalingo-api/internal/domain"
	"github.com/ali-aktas/hocalingo-api/internal/generation"
	"github.com/ali-aktas/hocalingo-api/internal/platform/logger"
)

// Default retry tuning used when the configuration leaves the knobs unset.
const (
	defaultMaxRetries        = 3
	defaultRetryDelaySeconds = 2
)

// generationTemperature balances variety in word choice against the model
// drifting away from the requested category.
const generationTemperature float32 = 0.7

// itemsResponseSchema steers the model toward the JSON shape that
// generation.ParseItemsResponse accepts.
var itemsResponseSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type:     genai.TypeObject,
		Required: []string{"text", "translation"},
		Properties: map[string]*genai.Schema{
			"text": {
				Type:        genai.TypeString,
				Description: "The English word or phrase",
			},
			"translation": {
				Type:        genai.TypeString,
				Description: "The Turkish translation",
			},
			"examples": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Up to two short example sentences",
			},
			"pronunciation": {
				Type:        genai.TypeString,
				Description: "A simple phonetic hint",
			},
		},
	},
}

// GeminiGenerator implements the generation.Generator interface using
// Google's Gemini API.
type GeminiGenerator struct {
	logger            *slog.Logger
	client            *genai.Client
	model             string
	promptTemplate    *template.Template
	maxRetries        int
	retryDelaySeconds int
}

// Ensure GeminiGenerator implements the generation.Generator interface.
var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a new GeminiGenerator from the LLM configuration.
// The API key and model name are required. When PromptTemplatePath is empty
// the built-in template is used.
func NewGeminiGenerator(
	ctx context.Context,
	log *slog.Logger,
	cfg config.LLMConfig,
) (*GeminiGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "gemini_generator"))

	tmpl, err := loadPromptTemplate(cfg.PromptTemplatePath)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrGenerationFailed, err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	retryDelaySeconds := cfg.RetryDelaySeconds
	if retryDelaySeconds <= 0 {
		retryDelaySeconds = defaultRetryDelaySeconds
	}

	return &GeminiGenerator{
		logger:            log,
		client:            client,
		model:             cfg.ModelName,
		promptTemplate:    tmpl,
		maxRetries:        maxRetries,
		retryDelaySeconds: retryDelaySeconds,
	}, nil
}

// GenerateItems asks the model for vocabulary items matching the request.
// The returned items carry text, translation, level and category but no ID
// or package; the caller decides where they land.
func (g *GeminiGenerator) GenerateItems(
	ctx context.Context,
	req generation.Request,
) ([]*domain.Item, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	if err := req.Validate(); err != nil {
		log.Warn("invalid generation request",
			slog.String("error", err.Error()))
		return nil, err
	}

	prompt, err := g.buildPrompt(req)
	if err != nil {
		log.Error("failed to build generation prompt",
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("requesting item generation",
		slog.String("model", g.model),
		slog.String("category", req.Category),
		slog.String("level", req.Level),
		slog.Int("count", req.Count))

	raw, err := g.callWithRetry(ctx, log, prompt)
	if err != nil {
		return nil, err
	}

	parsed, err := generation.ParseItemsResponse(raw)
	if err != nil {
		log.Warn("model response failed validation",
			slog.String("error", err.Error()))
		return nil, err
	}

	items := mapGeneratedItems(parsed, req)

	log.Info("generated vocabulary items",
		slog.Int("requested", req.Count),
		slog.Int("returned", len(items)),
		slog.String("category", req.Category),
		slog.String("level", req.Level))

	return items, nil
}

// mapGeneratedItems converts validated model output into domain items stamped
// with the request's level and category.
func mapGeneratedItems(parsed []generation.GeneratedItem, req generation.Request) []*domain.Item {
	items := make([]*domain.Item, 0, len(parsed))
	for _, gi := range parsed {
		items = append(items, &domain.Item{
			Text:          strings.TrimSpace(gi.Text),
			Translation:   strings.TrimSpace(gi.Translation),
			Examples:      gi.Examples,
			Pronunciation: strings.TrimSpace(gi.Pronunciation),
			Level:         req.Level,
			Category:      req.Category,
			Reversible:    true,
		})
	}
	return items
}

// callWithRetry calls the Gemini API, retrying transient failures with
// exponential backoff and jitter. Permanent errors (content blocks, invalid
// responses, client-side request errors) are returned immediately.
func (g *GeminiGenerator) callWithRetry(
	ctx context.Context,
	log *slog.Logger,
	prompt string,
) ([]byte, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		raw, err := g.call(ctx, prompt)
		if err == nil {
			return raw, nil
		}
		lastErr = err

		if !errors.Is(err, generation.ErrTransientFailure) {
			log.Warn("generation failed with permanent error",
				slog.String("error", err.Error()),
				slog.Int("attempt", attempt+1))
			return nil, err
		}

		if attempt == g.maxRetries {
			break
		}

		// Exponential backoff with jitter in [0.5, 1.0) of the base delay.
		backoff := float64(g.retryDelaySeconds) * math.Pow(2, float64(attempt))
		jitter := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoff * jitter * float64(time.Second))

		log.Debug("retrying generation after transient error",
			slog.String("error", err.Error()),
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: context canceled during retry: %v",
				generation.ErrTransientFailure, ctx.Err())
		}
	}

	return nil, fmt.Errorf("%w: exceeded %d retry attempts: %v",
		generation.ErrTransientFailure, g.maxRetries, lastErr)
}

// call performs a single Gemini API request and returns the raw JSON text of
// the response.
func (g *GeminiGenerator) call(ctx context.Context, prompt string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	temperature := generationTemperature
	cfg := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   itemsResponseSchema,
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, classifyAPIError(err)
	}

	if len(resp.Candidates) == 0 {
		if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
			return nil, fmt.Errorf("%w: prompt blocked (%s)",
				generation.ErrContentBlocked, fb.BlockReason)
		}
		return nil, fmt.Errorf("%w: no candidates in response", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: response blocked by safety filters", generation.ErrContentBlocked)
	}

	if candidate.Content == nil {
		return nil, fmt.Errorf("%w: candidate has no content", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return nil, fmt.Errorf("%w: empty response text", generation.ErrInvalidResponse)
	}

	return []byte(sb.String()), nil
}

// classifyAPIError sorts transport failures into transient and permanent.
// Rate limits and server-side errors are worth retrying; client-side request
// errors are not.
func classifyAPIError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500 {
			return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		}
		return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	// Failures without an API status are usually network-level and retryable.
	return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
}
