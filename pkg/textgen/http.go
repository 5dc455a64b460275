package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/opscart/cloud-cost-optimizer/pkg/config"
	"github.com/opscart/cloud-cost-optimizer/pkg/logging"
)

const maxResponseBytes = 4 << 20

const systemPrompt = "You are an expert cloud cost optimization consultant. " +
	"Give specific, practical, money-saving recommendations and consider real-world trade-offs."

// HTTPSource asks a text-generation endpoint for recommendations
type HTTPSource struct {
	cfg        config.ExternalConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      retryConfig
	log        logrus.FieldLogger
}

type generateRequest struct {
	Model       string  `json:"model,omitempty"`
	System      string  `json:"system,omitempty"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature"`
}

// generateResponse accepts the common completion response shapes
type generateResponse struct {
	Text          string `json:"text"`
	GeneratedText string `json:"generated_text"`
	Response      string `json:"response"`
	Choices       []struct {
		Text    string `json:"text"`
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (r *generateResponse) content() string {
	for _, s := range []string{r.Text, r.GeneratedText, r.Response} {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	var parts []string
	for _, c := range r.Choices {
		if c.Message.Content != "" {
			parts = append(parts, c.Message.Content)
		} else if c.Text != "" {
			parts = append(parts, c.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func NewHTTPSource(cfg config.ExternalConfig, log logrus.FieldLogger) *HTTPSource {
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &HTTPSource{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
		retry: retryConfig{
			maxAttempts:    cfg.MaxAttempts,
			initialBackoff: initialRetryBackoff,
			maxBackoff:     maxRetryBackoff,
		},
		log: logging.OrDiscard(log),
	}
}

func (h *HTTPSource) Name() string {
	return "http"
}

// Generate sends one prompt and splits the reply into blocks. Failures
// are returned as *SourceError.
func (h *HTTPSource) Generate(ctx context.Context, req Request) (iter.Seq[string], error) {
	prompt, err := BuildPrompt(req, h.cfg.BaselineTitles)
	if err != nil {
		return nil, &SourceError{Source: h.Name(), Op: "prompt", Err: err}
	}

	payload, err := json.Marshal(generateRequest{
		Model:       h.cfg.Model,
		System:      systemPrompt,
		Prompt:      prompt,
		MaxTokens:   h.cfg.MaxTokens,
		Temperature: h.cfg.Temperature,
	})
	if err != nil {
		return nil, &SourceError{Source: h.Name(), Op: "encode", Err: err}
	}

	var text string
	attempts := 0
	err = executeWithRetry(ctx, h.retry, func() error {
		attempts++
		if err := h.wait(ctx); err != nil {
			return err
		}
		t, err := h.post(ctx, payload)
		if err != nil {
			h.log.WithError(err).WithField("attempt", attempts).Warn("Text generation request failed")
			return err
		}
		text = t
		return nil
	})
	if err != nil {
		return nil, &SourceError{Source: h.Name(), Op: "generate", Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &SourceError{Source: h.Name(), Op: "generate", Err: ErrEmptyResponse}
	}

	h.log.WithFields(logrus.Fields{
		"endpoint": h.cfg.Endpoint,
		"attempts": attempts,
		"bytes":    len(text),
	}).Debug("Received generated recommendations")

	return SplitBlocks(text), nil
}

// wait blocks for a rate limiter token. A wait that cannot finish before
// the deadline is reported as context.DeadlineExceeded.
func (h *HTTPSource) wait(ctx context.Context) error {
	err := h.limiter.Wait(ctx)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if _, ok := ctx.Deadline(); ok {
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return err
}

func (h *HTTPSource) post(ctx context.Context, payload []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if h.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+h.cfg.APIKey)
	}

	resp, err := h.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return "", &statusError{code: resp.StatusCode, body: snippet}
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		// plain-text endpoints return the completion as the body
		return string(body), nil
	}
	return decoded.content(), nil
}
