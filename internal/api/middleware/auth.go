package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/talentscope/internal/utils"
)

const (
	ctxUserID      = "user_id"
	ctxAccessToken = "access_token"
)

// TokenResolver maps a bearer token to a user id.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

type apiError struct {
	Error string     `json:"error"`
	Code  utils.Code `json:"code"`
}

// Auth rejects requests without a resolvable bearer token.
func Auth(r TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Error: "missing bearer token",
				Code:  utils.CodeUnauthorized,
			})
			return
		}

		userID, err := r.Resolve(c.Request.Context(), token)
		if err != nil || userID == "" {
			status := http.StatusUnauthorized
			msg := "invalid token"
			if err != nil && !utils.IsCode(err, utils.CodeUnauthorized) {
				status = utils.HTTPStatus(err)
				msg = "failed to resolve token"
			}
			c.AbortWithStatusJSON(status, apiError{
				Error: msg,
				Code:  utils.CodeUnauthorized,
			})
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxAccessToken, token)
		c.Next()
	}
}

// OptionalAuth sets the user when the token resolves and lets anonymous
// requests through otherwise.
func OptionalAuth(r TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := tokenFrom(c); token != "" {
			if userID, err := r.Resolve(c.Request.Context(), token); err == nil && userID != "" {
				c.Set(ctxUserID, userID)
				c.Set(ctxAccessToken, token)
			}
		}
		c.Next()
	}
}

// tokenFrom reads the bearer header, falling back to the access_token query
// parameter for websocket upgrades.
func tokenFrom(c *gin.Context) string {
	if t := utils.BearerToken(c.GetHeader("Authorization")); t != "" {
		return t
	}
	if c.IsWebsocket() {
		return c.Query(ctxAccessToken)
	}
	return ""
}

func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// AccessToken returns the resolved token, or the raw bearer token when the
// route is not behind Auth.
func AccessToken(c *gin.Context) string {
	if t := c.GetString(ctxAccessToken); t != "" {
		return t
	}
	return utils.BearerToken(c.GetHeader("Authorization"))
}
