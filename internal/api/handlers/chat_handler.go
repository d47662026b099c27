package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/talentscope/internal/api/middleware"
	"github.com/yoockh/talentscope/internal/models"
	"github.com/yoockh/talentscope/internal/services"
	"github.com/yoockh/talentscope/internal/utils"
)

type ChatHandler struct {
	svc services.ChatService
}

func NewChatHandler(svc services.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ChatHandler.Chat", "messages are required", err))
		return
	}

	resp, err := h.svc.Complete(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) Messages(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "ChatHandler.Messages", "limit")
	if !ok {
		return
	}

	msgs, err := h.svc.Messages(c.Request.Context(), userID, c.Param("candidateId"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}
