package torre

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/talentscope/internal/utils"
)

// profilePaths are tried in order until one answers.
var profilePaths = []string{
	"/genome/bios/",
	"/api/genome/bios/",
	"/people/",
	"/users/",
}

type ProfileFetcher interface {
	FetchProfile(ctx context.Context, identifier string) (map[string]any, error)
}

// FetchProfile returns the raw profile payload for identifier. The first
// transient failure is retried once; later endpoints get a single attempt.
func (c *Client) FetchProfile(ctx context.Context, identifier string) (map[string]any, error) {
	const op = "torre.FetchProfile"

	id := strings.ToLower(strings.TrimSpace(identifier))
	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "Identifier is required", nil)
	}

	var (
		lastErr error
		retried bool
	)
	for _, p := range profilePaths {
		path := p + url.PathEscape(id)

		out, err := c.fetchWithRetry(ctx, path, &retried)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return nil, utils.Wrap(op, err)
		}
		c.log.WithFields(logrus.Fields{"path": path}).WithError(err).Debug("profile endpoint failed")
		lastErr = err
	}

	if lastErr == nil || StatusOf(lastErr) == http.StatusNotFound {
		return nil, utils.E(utils.CodeNotFound, op, fmt.Sprintf("Profile '%s' not found on Torre", identifier), lastErr)
	}
	return nil, utils.Wrap(op, lastErr)
}

// fetchWithRetry consumes the retry budget shared by all profile paths.
func (c *Client) fetchWithRetry(ctx context.Context, path string, retried *bool) (map[string]any, error) {
	var out map[string]any
	err := c.do(ctx, http.MethodGet, c.apiBase, path, nil, &out)
	if err == nil || !transient(err) || *retried {
		return out, err
	}
	*retried = true

	if werr := utils.WaitFor(ctx, c.retryDelay); werr != nil {
		return nil, err
	}
	out = nil
	err = c.do(ctx, http.MethodGet, c.apiBase, path, nil, &out)
	return out, err
}
