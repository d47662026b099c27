package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/talentscope/internal/api/middleware"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/providers/torre"
	"github.com/yoockh/talentscope/internal/services"
	"github.com/yoockh/talentscope/internal/utils"
)

// TorreHandler proxies the talent provider.
type TorreHandler struct {
	search   services.SearchService
	profiles services.ProfileService
	history  services.HistoryService
}

func NewTorreHandler(search services.SearchService, profiles services.ProfileService, history services.HistoryService) *TorreHandler {
	return &TorreHandler{search: search, profiles: profiles, history: history}
}

func (h *TorreHandler) Search(c *gin.Context) {
	var req models.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "TorreHandler.Search", "invalid request body", err))
		return
	}

	ctx := torre.WithAuthorization(c.Request.Context(), c.GetHeader("Authorization"))
	resp, err := h.search.Search(ctx, middleware.UserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TorreHandler) Profile(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "TorreHandler.Profile", "username is required", nil))
		return
	}

	ctx := torre.WithAuthorization(c.Request.Context(), c.GetHeader("Authorization"))
	p, err := h.profiles.Profile(ctx, username)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *TorreHandler) Top(c *gin.Context) {
	limit, ok := queryInt(c, "TorreHandler.Top", "limit")
	if !ok {
		return
	}

	resp, err := h.search.Top(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TorreHandler) Suggestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"suggestions": h.search.Suggestions(c.Query("q"))})
}

func (h *TorreHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "TorreHandler.History", "limit")
	if !ok {
		return
	}

	rows, err := h.history.List(c.Request.Context(), userID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": rows})
}
