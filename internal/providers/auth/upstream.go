// Package auth proxies login and registration to an external auth backend.
package auth

import (
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

type Upstream struct {
	http *http.Client
	base string
	log  *logrus.Entry
}

func NewUpstream(base string, timeout time.Duration, l *logrus.Logger) *Upstream {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Upstream{
		http: &http.Client{Timeout: timeout},
		base: strings.TrimRight(base, "/"),
		log:  logger.Component(l, "auth-upstream"),
	}
}

func (u *Upstream) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	return u.post(ctx, "AuthUpstream.Login", "/api/auth/login", "Login failed", req)
}

func (u *Upstream) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	return u.post(ctx, "AuthUpstream.Register", "/api/auth/register", "Registration failed", req)
}

func (u *Upstream) post(ctx context.Context, op, path, failure string, body any) (*models.AuthResponse, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.base+path, bytes.NewReader(b))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := u.http.Do(req)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "auth backend unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to read auth response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		u.log.WithFields(logrus.Fields{
			"path":   path,
			"status": resp.StatusCode,
			"body":   logger.Truncate(string(raw), 300),
		}).Warn("auth backend error response")
		return nil, utils.Upstream(op, resp.StatusCode, fmt.Sprintf("%s: %d", failure, resp.StatusCode), nil)
	}

	var out models.AuthResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, utils.Upstream(op, http.StatusBadGateway, "Invalid JSON response from auth backend", err)
	}
	if out.AccessToken == "" {
		return nil, utils.Upstream(op, http.StatusBadGateway, "auth backend returned no access token", nil)
	}
	return &out, nil
}
