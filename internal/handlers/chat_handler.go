package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Question string `json:"question"`
	// Message is the field name older clients send.
	Message string `json:"message"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

// HandleChat forwards the question to the configured assistant.
func (h *Handler) HandleChat(c *gin.Context) {
	if h.Assistant == nil {
		c.JSON(http.StatusServiceUnavailable, Envelope{Message: "Chat assistant is not configured"})
		return
	}

	var req chatRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, "chat", err)
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		question = strings.TrimSpace(req.Message)
	}
	if question == "" {
		h.respondError(c, "chat", errValidation("Question cannot be empty"))
		return
	}

	answer, err := h.Assistant.Ask(c.Request.Context(), question)
	if err != nil {
		h.respondError(c, "chat", err)
		return
	}
	respondOK(c, chatResponse{Answer: answer})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	respondOK(c, gin.H{"status": "ok"})
}
