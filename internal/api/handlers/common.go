package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/talentscope/internal/api/middleware"
	"github.com/yoockh/talentscope/internal/utils"
)

const internalErrorMessage = "Internal server error"

type APIError struct {
	Error string     `json:"error"`
	Code  utils.Code `json:"code,omitempty"`
}

// writeError answers with the status derived from err. Internal failures
// never leak their message; upstream failures keep the upstream status.
func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	_ = c.Error(err)

	if msg, code, ok := publicError(err); ok {
		c.JSON(status, APIError{Error: msg, Code: code})
		return
	}
	c.JSON(http.StatusInternalServerError, APIError{Error: internalErrorMessage})
}

func requireUserID(c *gin.Context) (string, bool) {
	if s := middleware.UserID(c); s != "" {
		return s, true
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}

// queryInt reads an optional integer query parameter.
func queryInt(c *gin.Context, op, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, name+" must be an integer", err))
		return 0, false
	}
	return n, true
}

// publicError returns the client-safe message of err.
func publicError(err error) (string, utils.Code, bool) {
	var ae *utils.AppError
	if !errors.As(err, &ae) || ae.Code == utils.CodeInternal || ae.Message == "" {
		return "", "", false
	}
	return ae.Message, ae.Code, true
}
