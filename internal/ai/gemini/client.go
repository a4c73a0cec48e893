package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spigell/resume-scorer/internal/ai"
	"github.com/spigell/resume-scorer/internal/logger"
	"github.com/spigell/resume-scorer/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	provider              = "gemini"
	defaultModel          = "gemini-2.5-flash"
	defaultEmbeddingModel = "text-embedding-004"
	defaultMaxRetries     = 3
	defaultTimeout        = 30 * time.Second
	defaultMaxLogLength   = 200
	baseBackoff           = time.Second
	maxQuotaDelay         = 30 * time.Second
)

var (
	wait = utils.WaitFor

	retryAfterPattern = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)
)

// modelsAPI is the subset of *genai.Models used by the client.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Config holds the connection settings for the Gemini API.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	EmbeddingModel string
	MaxRetries     int
	Timeout        time.Duration
	MaxLogLength   int
}

// Client implements ai.Generator and ai.Embedder on top of the Google GenAI SDK.
// A client built without an API key answers every call with ai.ErrUnconfigured.
type Client struct {
	models         modelsAPI
	model          string
	embeddingModel string
	baseURL        string
	maxRetries     int
	timeout        time.Duration
	maxLogLen      int
	logger         *zap.Logger
}

// NewClient creates a client for the Gemini API backend. An empty API key is
// not an error: the returned client is simply unconfigured.
func NewClient(ctx context.Context, cfg Config, log *zap.Logger) (*Client, error) {
	c := &Client{
		model:          strings.TrimSpace(cfg.Model),
		embeddingModel: strings.TrimSpace(cfg.EmbeddingModel),
		baseURL:        strings.TrimSpace(cfg.BaseURL),
		maxRetries:     cfg.MaxRetries,
		timeout:        cfg.Timeout,
		maxLogLen:      cfg.MaxLogLength,
	}
	c.applyDefaults()
	c.logger = logger.WithCommonFields(log, provider, c.model)

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		c.logger.Debug("gemini api key is not set, ai features are disabled")
		return c, nil
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if c.baseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	c.models = client.Models

	return c, nil
}

func (c *Client) applyDefaults() {
	if c.model == "" {
		c.model = defaultModel
	}
	if c.embeddingModel == "" {
		c.embeddingModel = defaultEmbeddingModel
	}
	if c.maxRetries <= 0 {
		c.maxRetries = defaultMaxRetries
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.maxLogLen <= 0 {
		c.maxLogLen = defaultMaxLogLength
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
}

// Configured reports whether the client holds an API key.
func (c *Client) Configured() bool {
	return c != nil && c.models != nil
}

// Status describes the client configuration without contacting the API.
func (c *Client) Status() ai.Status {
	if c == nil {
		return ai.Status{Provider: provider}
	}
	return ai.Status{
		Provider:       provider,
		Model:          c.model,
		EmbeddingModel: c.embeddingModel,
		BaseURL:        c.baseURL,
		KeyConfigured:  c.Configured(),
	}
}

// Generate sends the prompt and returns the concatenated text of the response.
func (c *Client) Generate(ctx context.Context, prompt string, opts ai.GenerateOptions) (string, error) {
	if !c.Configured() {
		return "", ai.ErrUnconfigured
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	config := &genai.GenerateContentConfig{}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(opts.Temperature))
	}

	c.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, c.maxLogLen)),
	)

	var output string
	err := c.withRetry(ctx, "generate content", func(callCtx context.Context) error {
		resp, err := c.models.GenerateContent(callCtx, c.model, genai.Text(prompt), config)
		if err != nil {
			return err
		}
		output = responseText(resp)
		if output == "" {
			return errors.New("gemini api returned empty response")
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	c.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(output)),
		zap.String("response_preview", utils.TruncateForLog(output, c.maxLogLen)),
	)

	return output, nil
}

// Embed returns one vector per input text. A response with a different number
// of vectors, or an empty vector, is treated as a failure.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if !c.Configured() {
		return nil, ai.ErrUnconfigured
	}
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	}

	var vectors [][]float64
	err := c.withRetry(ctx, "embed content", func(callCtx context.Context) error {
		resp, err := c.models.EmbedContent(callCtx, c.embeddingModel, contents, nil)
		if err != nil {
			return err
		}
		if resp == nil || len(resp.Embeddings) != len(texts) {
			got := 0
			if resp != nil {
				got = len(resp.Embeddings)
			}
			return fmt.Errorf("gemini api returned %d embeddings for %d texts", got, len(texts))
		}

		out := make([][]float64, len(resp.Embeddings))
		for i, embedding := range resp.Embeddings {
			if embedding == nil || len(embedding.Values) == 0 {
				return fmt.Errorf("gemini api returned empty embedding at index %d", i)
			}
			vec := make([]float64, len(embedding.Values))
			for j, v := range embedding.Values {
				vec[j] = float64(v)
			}
			out[i] = vec
		}
		vectors = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("gemini embed content response",
		zap.Int("texts", len(texts)),
		zap.Int("dimension", len(vectors[0])),
	)

	return vectors, nil
}

// withRetry runs call with a per-attempt timeout, retrying temporary failures
// with exponential backoff up to maxRetries attempts in total.
func (c *Client) withRetry(ctx context.Context, op string, call func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := call(callCtx)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", op, ctx.Err())
		}

		retry, delay := retryable(err)
		if !retry || attempt == c.maxRetries-1 {
			break
		}

		backoff := baseBackoff * time.Duration(1<<attempt)
		if delay > backoff {
			backoff = delay
		}

		c.logger.Warn("gemini call failed, retrying",
			zap.String("operation", op),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		if err := wait(ctx, backoff); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return fmt.Errorf("%s: %w", op, lastErr)
}

// retryable reports whether err is temporary and how long the server asked to wait.
func retryable(err error) (bool, time.Duration) {
	if errors.Is(err, context.DeadlineExceeded) {
		return true, 0
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false, 0
	}

	switch apiErr.Code {
	case http.StatusTooManyRequests:
		delay := quotaDelay(apiErr.Message)
		if delay > maxQuotaDelay {
			return false, 0
		}
		return true, delay
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true, 0
	default:
		return false, 0
	}
}

func quotaDelay(message string) time.Duration {
	m := retryAfterPattern.FindStringSubmatch(message)
	if m == nil {
		return 0
	}
	seconds, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	return strings.TrimSpace(builder.String())
}
