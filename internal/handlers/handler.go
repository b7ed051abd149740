package handlers

import (
	"context"

	"github.com/harentsoaR/pregnancy-care-api/internal/models"
	"github.com/harentsoaR/pregnancy-care-api/internal/store"
	"github.com/harentsoaR/pregnancy-care-api/internal/utils"
)

// Notifier delivers the SMS side effects of appointment and account changes.
// Implementations must not block the request.
type Notifier interface {
	SendAppointmentConfirmationSMS(user *models.User, apt *models.Appointment)
	SendAppointmentCancellationSMS(user *models.User, apt *models.Appointment)
	SendPasswordResetCode(user *models.User, code string)
}

// Assistant answers free-text questions for the chat endpoint.
type Assistant interface {
	Ask(ctx context.Context, question string) (string, error)
}

type Handler struct {
	Stores          *store.Stores
	Tokens          *utils.JWTManager
	NotificationSvc Notifier
	// Assistant is nil when no chat backend is configured.
	Assistant Assistant
	// Debug adds the underlying error text to 500 responses.
	Debug bool
}

func NewHandler(stores *store.Stores, tokens *utils.JWTManager, notifier Notifier, assistant Assistant, debug bool) *Handler {
	registerValidators()
	return &Handler{
		Stores:          stores,
		Tokens:          tokens,
		NotificationSvc: notifier,
		Assistant:       assistant,
		Debug:           debug,
	}
}
