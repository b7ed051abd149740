package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/harentsoaR/pregnancy-care-api/internal/models"
	"github.com/harentsoaR/pregnancy-care-api/internal/utils"
	"go.uber.org/zap"
)

const textbeltURL = "https://textbelt.com/text"

var (
	ErrSMSDisabled = errors.New("sms delivery is not configured")
	ErrNoPhone     = errors.New("user has no phone number")
)

// NotificationService sends SMS through the Textbelt API. Sends triggered by
// request handlers run in their own goroutine so they never delay a response.
type NotificationService struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewNotificationService(apiKey string) *NotificationService {
	return &NotificationService{
		apiKey:   apiKey,
		endpoint: textbeltURL,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// WithEndpoint points the service at another Textbelt-compatible URL.
func (s *NotificationService) WithEndpoint(url string) *NotificationService {
	s.endpoint = url
	return s
}

func (s *NotificationService) SendAppointmentConfirmationSMS(user *models.User, apt *models.Appointment) {
	if !user.Notifications.SMS {
		return
	}
	s.dispatch(user.Phone, fmt.Sprintf(
		"Appointment confirmed: %s on %s.",
		apt.Title,
		formatWhen(apt),
	))
}

func (s *NotificationService) SendAppointmentCancellationSMS(user *models.User, apt *models.Appointment) {
	if !user.Notifications.SMS {
		return
	}
	s.dispatch(user.Phone, fmt.Sprintf(
		"Appointment cancelled: %s on %s.",
		apt.Title,
		formatWhen(apt),
	))
}

// SendAppointmentReminder sends synchronously; it is called from the reminder job.
func (s *NotificationService) SendAppointmentReminder(ctx context.Context, user *models.User, apt *models.Appointment) error {
	msg := fmt.Sprintf("Reminder: %s on %s", apt.Title, formatWhen(apt))
	if apt.Location.Name != "" {
		msg += " at " + apt.Location.Name
	}
	return s.Send(ctx, user.Phone, msg+".")
}

// SendPasswordResetCode ignores the SMS preference: the user asked for it.
func (s *NotificationService) SendPasswordResetCode(user *models.User, code string) {
	s.dispatch(user.Phone, fmt.Sprintf("Your password reset code is %s. It expires in 15 minutes.", code))
}

func (s *NotificationService) dispatch(phone, message string) {
	if phone == "" {
		utils.Zlog.Debug("SMS not sent: user has no phone number")
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.Send(ctx, phone, message); err != nil && !errors.Is(err, ErrSMSDisabled) {
			utils.Zlog.Warn("SMS delivery failed", zap.String("phone", phone), zap.Error(err))
		}
	}()
}

type textbeltResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	TextID  string `json:"textId"`
}

// Send posts one message to Textbelt and reports its verdict.
func (s *NotificationService) Send(ctx context.Context, phone, message string) error {
	if s.apiKey == "" {
		return ErrSMSDisabled
	}
	if phone == "" {
		return ErrNoPhone
	}

	postBody, err := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     s.apiKey,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(postBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("textbelt request: %w", err)
	}
	defer resp.Body.Close()

	var result textbeltResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("textbelt response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("textbelt rejected message: %s", result.Error)
	}
	utils.Zlog.Info("SMS sent", zap.String("textId", result.TextID))
	return nil
}

func formatWhen(apt *models.Appointment) string {
	when := apt.Date.Format("Jan 2")
	if apt.Time != "" {
		return when + " at " + apt.Time
	}
	return when
}
