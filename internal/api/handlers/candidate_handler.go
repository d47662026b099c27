package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/providers/torre"
	"github.com/yoockh/talentscope/internal/services"
	"github.com/yoockh/talentscope/internal/utils"
)

type CandidateHandler struct {
	search   services.SearchService
	profiles services.ProfileService
}

func NewCandidateHandler(search services.SearchService, profiles services.ProfileService) *CandidateHandler {
	return &CandidateHandler{search: search, profiles: profiles}
}

func (h *CandidateHandler) Search(c *gin.Context) {
	var req models.CandidateSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CandidateHandler.Search", "query is required", err))
		return
	}

	ctx := torre.WithAuthorization(c.Request.Context(), c.GetHeader("Authorization"))
	page, err := h.search.SearchCandidates(ctx, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CandidateHandler) Get(c *gin.Context) {
	ctx := torre.WithAuthorization(c.Request.Context(), c.GetHeader("Authorization"))
	cand, err := h.profiles.Candidate(ctx, c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cand)
}
