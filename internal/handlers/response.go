package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/pregnancy-care-api/internal/middleware"
	"github.com/harentsoaR/pregnancy-care-api/internal/utils"
	"go.uber.org/zap"
)

// Envelope wraps every response body. Data is always present, null on
// failures and deletes.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type pagedEnvelope struct {
	Envelope
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int64 `json:"currentPage"`
}

func respondOK(c *gin.Context, data interface{}, message ...string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Message: first(message)})
}

func respondCreated(c *gin.Context, data interface{}, message ...string) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data, Message: first(message)})
}

// respondError answers err with the status of its taxonomy class. Anything
// that is not an *apiError is a server error: logged in full, reported with a
// generic message.
func (h *Handler) respondError(c *gin.Context, op string, err error) {
	requestID := c.GetString(middleware.RequestIDKey)

	var apiErr *apiError
	if errors.As(err, &apiErr) {
		utils.Zlog.Debug(op+" rejected",
			zap.String("requestId", requestID),
			zap.Int("status", apiErr.status),
			zap.String("reason", apiErr.message),
		)
		c.JSON(apiErr.status, Envelope{Message: apiErr.message})
		return
	}

	utils.Zlog.Error(op+" failed", zap.String("requestId", requestID), zap.Error(err))
	resp := Envelope{Message: "Server error"}
	if h.Debug {
		resp.Error = err.Error()
	}
	c.JSON(http.StatusInternalServerError, resp)
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
