package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/services"
	"github.com/yoockh/talentscope/internal/utils"
)

type ShortlistHandler struct {
	svc services.ShortlistService
}

func NewShortlistHandler(svc services.ShortlistService) *ShortlistHandler {
	return &ShortlistHandler{svc: svc}
}

type UpdateNoteRequest struct {
	Note string `json:"note"`
}

func (h *ShortlistHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	st, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *ShortlistHandler) AddCandidate(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var cand models.Candidate
	if err := c.ShouldBindJSON(&cand); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ShortlistHandler.AddCandidate", "invalid request body", err))
		return
	}
	h.respond(c, func() (*services.ShortlistResult, error) {
		return h.svc.AddCandidate(c.Request.Context(), userID, cand)
	})
}

func (h *ShortlistHandler) RemoveCandidate(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	h.respond(c, func() (*services.ShortlistResult, error) {
		return h.svc.RemoveCandidate(c.Request.Context(), userID, c.Param("id"))
	})
}

func (h *ShortlistHandler) UpdateNote(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ShortlistHandler.UpdateNote", "invalid request body", err))
		return
	}
	h.respond(c, func() (*services.ShortlistResult, error) {
		return h.svc.UpdateNote(c.Request.Context(), userID, c.Param("id"), req.Note)
	})
}

func (h *ShortlistHandler) AddTalentedUser(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var item models.SearchResultItem
	if err := c.ShouldBindJSON(&item); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ShortlistHandler.AddTalentedUser", "invalid request body", err))
		return
	}
	h.respond(c, func() (*services.ShortlistResult, error) {
		return h.svc.AddTalentedUser(c.Request.Context(), userID, item)
	})
}

func (h *ShortlistHandler) RemoveTalentedUser(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	h.respond(c, func() (*services.ShortlistResult, error) {
		return h.svc.RemoveTalentedUser(c.Request.Context(), userID, c.Param("id"))
	})
}

func (h *ShortlistHandler) ToggleComparison(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	h.respond(c, func() (*services.ShortlistResult, error) {
		return h.svc.ToggleComparison(c.Request.Context(), userID, c.Param("id"))
	})
}

func (h *ShortlistHandler) ClearComparison(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	h.respond(c, func() (*services.ShortlistResult, error) {
		return h.svc.ClearComparison(c.Request.Context(), userID)
	})
}

func (h *ShortlistHandler) Comparison(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	entries, err := h.svc.Comparison(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": entries})
}

func (h *ShortlistHandler) Export(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	exp, err := h.svc.Export(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exp)
}

func (h *ShortlistHandler) respond(c *gin.Context, fn func() (*services.ShortlistResult, error)) {
	res, err := fn()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
