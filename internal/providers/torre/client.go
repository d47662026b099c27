package torre

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/talentscope/internal/logger"
	"github.com/yoockh/talentscope/internal/utils"
)

const (
	DefaultAPIBase    = "https://torre.ai/api"
	DefaultSearchBase = "https://arda.torre.co"

	userAgent    = "TalentScope/1.0"
	maxBodyBytes = 8 << 20
)

// ProviderError is a non-2xx or malformed response from the provider.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string { return e.Message }

// ErrInvalidJSON is returned when a 2xx body cannot be decoded.
var ErrInvalidJSON = errors.New("Invalid JSON response from Torre API")

type Client struct {
	http       *http.Client
	apiBase    string
	searchBase string
	retryDelay time.Duration
	log        *logrus.Entry
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

func New(apiBase, searchBase string, timeout time.Duration, l *logrus.Logger, opts ...Option) *Client {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	if searchBase == "" {
		searchBase = DefaultSearchBase
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		http:       &http.Client{Timeout: timeout},
		apiBase:    strings.TrimRight(apiBase, "/"),
		searchBase: strings.TrimRight(searchBase, "/"),
		retryDelay: 300 * time.Millisecond,
		log:        logger.Component(l, "torre"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type authKey struct{}

// WithAuthorization attaches an Authorization header value that is forwarded
// on every provider call made with the returned context.
func WithAuthorization(ctx context.Context, header string) context.Context {
	if strings.TrimSpace(header) == "" {
		return ctx
	}
	return context.WithValue(ctx, authKey{}, header)
}

func authorizationFrom(ctx context.Context) string {
	s, _ := ctx.Value(authKey{}).(string)
	return s
}

// do issues one request and decodes a JSON body into out.
func (c *Client) do(ctx context.Context, method, base, path string, body any, out any) error {
	const op = "torre.do"

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to encode request", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, rdr)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth := authorizationFrom(ctx); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return utils.E(utils.CodeTimeout, op, "Torre API request cancelled", err)
		}
		return utils.E(utils.CodeUnavailable, op, "Torre API unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to read Torre API response", err)
	}

	c.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"status":     resp.StatusCode,
		"latency_ms": time.Since(start).Milliseconds(),
	}).Debug("torre request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		pe := providerError(resp.StatusCode, raw)
		c.log.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   logger.Truncate(string(raw), 300),
		}).Warn("torre error response")
		return classify(op, pe)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return utils.Upstream(op, http.StatusBadGateway, ErrInvalidJSON.Error(),
			fmt.Errorf("%w: %v", ErrInvalidJSON, err))
	}
	return nil
}

func providerError(status int, body []byte) *ProviderError {
	msg := upstreamMessage(body)
	switch status {
	case http.StatusBadRequest:
		return &ProviderError{Status: status, Message: "Torre API Bad Request: " + orDefault(msg, "Invalid request format")}
	case http.StatusNotFound:
		return &ProviderError{Status: status, Message: "Torre API Not Found: " + orDefault(msg, "Resource not found")}
	case http.StatusTooManyRequests:
		return &ProviderError{Status: status, Message: "Torre API Rate Limited: " + orDefault(msg, "Too many requests")}
	default:
		return &ProviderError{Status: status, Message: fmt.Sprintf("Torre API Error: %d - %s", status, orDefault(msg, http.StatusText(status)))}
	}
}

func classify(op string, pe *ProviderError) error {
	switch pe.Status {
	case http.StatusTooManyRequests:
		return &utils.AppError{Code: utils.CodeRateLimited, Op: op, Message: pe.Message, Err: pe, Status: pe.Status}
	case http.StatusNotFound:
		return &utils.AppError{Code: utils.CodeNotFound, Op: op, Message: pe.Message, Err: pe, Status: pe.Status}
	default:
		return utils.Upstream(op, pe.Status, pe.Message, pe)
	}
}

func upstreamMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return logger.Truncate(string(body), 200)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// StatusOf returns the provider status carried by err, or 0.
func StatusOf(err error) int {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Status
	}
	return 0
}

// transient reports whether err is worth one more attempt.
func transient(err error) bool {
	if utils.IsCode(err, utils.CodeUnavailable) {
		return true
	}
	return StatusOf(err) >= 500
}
