// server/internal/api/handlers/assistant_handler.go
package handlers

import (
	"net/http"

	"vetiver-carbon-api-server/internal/ai"

	"github.com/gin-gonic/gin"
)

type AssistantHandler struct {
	Assistant *ai.Assistant
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// Chat chuyển tin nhắn của user cho trợ lý AI và trả về câu trả lời.
// External failures surface as a transient error; there is no retry.
func (h *AssistantHandler) Chat(c *gin.Context) {
	if h.Assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Assistant is not configured"})
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.Assistant.Chat(c.Request.Context(), req.Message)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Assistant is temporarily unavailable", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
