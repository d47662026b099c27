package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/talentscope/internal/logger"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/utils"
)

// OpenRouter talks to an OpenAI-compatible chat completions endpoint.
type OpenRouter struct {
	http   *http.Client
	url    string
	apiKey string
	model  string
	log    *logrus.Entry
}

func NewOpenRouter(url, apiKey, model string, timeout time.Duration, l *logrus.Logger) *OpenRouter {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenRouter{
		http:   &http.Client{Timeout: timeout},
		url:    url,
		apiKey: apiKey,
		model:  model,
		log:    logger.Component(l, "openrouter"),
	}
}

func (o *OpenRouter) Close() error { return nil }

type completionPayload struct {
	Model       string               `json:"model"`
	Messages    []models.ChatMessage `json:"messages"`
	MaxTokens   int                  `json:"max_tokens"`
	Temperature *float64             `json:"temperature,omitempty"`
	Stream      bool                 `json:"stream,omitempty"`
}

func (o *OpenRouter) post(ctx context.Context, op string, req models.ChatRequest, stream bool) (*http.Response, error) {
	if o.apiKey == "" {
		return nil, utils.E(utils.CodeInternal, op, "OpenRouter API key is not configured", nil)
	}
	req = withDefaults(req, o.model)
	b, err := json.Marshal(completionPayload{
		Model:       req.Model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stream:      stream,
	})
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(b))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to build request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, utils.E(utils.CodeTimeout, op, "chat request cancelled", err)
		}
		return nil, utils.E(utils.CodeUnavailable, op, "chat provider unreachable", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		o.log.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   logger.Truncate(string(body), 300),
		}).Warn("openrouter error response")
		msg := fmt.Sprintf("OpenRouter API error: %d", resp.StatusCode)
		return nil, utils.Upstream(op, resp.StatusCode, msg, fmt.Errorf("%s", logger.Truncate(string(body), 200)))
	}
	return resp, nil
}

func (o *OpenRouter) Complete(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	const op = "OpenRouter.Complete"

	resp, err := o.post(ctx, op, req, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, utils.Upstream(op, http.StatusBadGateway, "Invalid JSON response from chat provider", err)
	}
	return &out, nil
}

type streamDelta struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// StreamAnswer reads the server-sent event stream of a completion.
func (o *OpenRouter) StreamAnswer(ctx context.Context, req models.ChatRequest) (<-chan string, <-chan error) {
	const op = "OpenRouter.StreamAnswer"

	out := make(chan string, 32)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		resp, err := o.post(ctx, op, req, true)
		if err != nil {
			errs <- err
			return
		}
		defer resp.Body.Close()

		sc := bufio.NewScanner(resp.Body)
		sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if !strings.HasPrefix(line, "data:") {
				continue // comments and keep-alives
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				return
			}
			var d streamDelta
			if err := json.Unmarshal([]byte(data), &d); err != nil {
				continue
			}
			for _, ch := range d.Choices {
				if ch.Delta.Content == "" {
					continue
				}
				select {
				case out <- ch.Delta.Content:
				case <-ctx.Done():
					errs <- ctx.Err()
					return
				}
			}
		}
		if err := sc.Err(); err != nil {
			errs <- utils.E(utils.CodeUnavailable, op, "chat stream interrupted", err)
		}
	}()

	return out, errs
}
