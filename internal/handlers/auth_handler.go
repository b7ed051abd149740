package handlers

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/pregnancy-care-api/internal/models"
	"github.com/harentsoaR/pregnancy-care-api/internal/store"
	"github.com/harentsoaR/pregnancy-care-api/internal/utils"
	"go.uber.org/zap"
)

const resetCodeTTL = 15 * time.Minute

type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

type authPayload struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

type currentUser struct {
	ID               string                  `json:"_id"`
	Name             string                  `json:"name"`
	Email            string                  `json:"email"`
	Role             string                  `json:"role"`
	Phone            string                  `json:"phone,omitempty"`
	DateOfBirth      *time.Time              `json:"dateOfBirth,omitempty"`
	Gender           string                  `json:"gender"`
	Address          string                  `json:"address,omitempty"`
	ProfilePicture   string                  `json:"profilePicture,omitempty"`
	PregnancyDetails models.PregnancyDetails `json:"pregnancyDetails"`
	CreatedAt        time.Time               `json:"createdAt"`
	UpdatedAt        time.Time               `json:"updatedAt"`
}

func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, "register", err)
		return
	}
	ctx := c.Request.Context()

	_, err := h.Stores.Users.FindByEmail(ctx, req.Email)
	if err == nil {
		h.respondError(c, "register", errValidation("User already exists"))
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		h.respondError(c, "register", err)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		h.respondError(c, "register", err)
		return
	}

	user := models.NewUser(strings.TrimSpace(req.Name), req.Email, hashedPassword)
	user.Phone = strings.TrimSpace(req.Phone)

	err = h.Stores.Users.Create(ctx, user)
	if errors.Is(err, store.ErrDuplicateEmail) {
		// Lost a race with a concurrent registration.
		err = errConflict("An account with this email already exists")
	}
	if err != nil {
		h.respondError(c, "register", err)
		return
	}

	payload, err := h.authPayload(user)
	if err != nil {
		h.respondError(c, "register", err)
		return
	}
	utils.Zlog.Info("user registered", zap.String("userId", user.ID.Hex()))
	respondCreated(c, payload, "Registration successful")
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, "login", err)
		return
	}

	invalid := errUnauthorized("Invalid email or password")
	user, err := h.Stores.Users.FindByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		h.respondError(c, "login", invalid)
		return
	}
	if err != nil {
		h.respondError(c, "login", err)
		return
	}
	if !utils.CheckPasswordHash(req.Password, user.Password) {
		h.respondError(c, "login", invalid)
		return
	}

	payload, err := h.authPayload(user)
	if err != nil {
		h.respondError(c, "login", err)
		return
	}
	respondOK(c, payload)
}

// LoginMethodNotAllowed helps clients that GET the login route.
func (h *Handler) LoginMethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, Envelope{Message: "Method not allowed. Use POST for login."})
}

// GetCurrentUser retrieves the profile of the currently authenticated user.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	user, err := h.loadUser(c)
	if err != nil {
		h.respondError(c, "current user", err)
		return
	}
	respondOK(c, currentUser{
		ID:               user.ID.Hex(),
		Name:             user.Name,
		Email:            user.Email,
		Role:             user.Role,
		Phone:            user.Phone,
		DateOfBirth:      user.DateOfBirth,
		Gender:           user.Gender,
		Address:          user.Address,
		ProfilePicture:   user.ProfilePicture,
		PregnancyDetails: user.PregnancyDetails,
		CreatedAt:        user.CreatedAt,
		UpdatedAt:        user.UpdatedAt,
	})
}

// ForgotPassword texts a six digit one-time code to the account's phone.
// Only the bcrypt hash of the code is stored.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, "forgot password", errValidation("Email is required"))
		return
	}

	user, err := h.Stores.Users.FindByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		err = errNotFound("User not found")
	}
	if err != nil {
		h.respondError(c, "forgot password", err)
		return
	}
	if user.Phone == "" {
		h.respondError(c, "forgot password", errValidation("No phone number on file for this account"))
		return
	}

	code, err := newResetCode()
	if err != nil {
		h.respondError(c, "forgot password", err)
		return
	}
	hash, err := utils.HashPassword(code)
	if err != nil {
		h.respondError(c, "forgot password", err)
		return
	}
	user.SetResetCode(hash, time.Now().UTC().Add(resetCodeTTL))

	if err := h.Stores.Users.Replace(c.Request.Context(), user); err != nil {
		h.respondError(c, "forgot password", err)
		return
	}
	if h.NotificationSvc != nil {
		h.NotificationSvc.SendPasswordResetCode(user, code)
	}
	respondOK(c, nil, "Password reset code sent to your phone")
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && strings.HasPrefix(apiErr.message, "Please provide") {
			err = errValidation("All fields are required")
		}
		h.respondError(c, "reset password", err)
		return
	}

	user, err := h.Stores.Users.FindByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		err = errNotFound("User not found")
	}
	if err != nil {
		h.respondError(c, "reset password", err)
		return
	}

	if user.ResetCodeHash == "" || !utils.CheckPasswordHash(strings.TrimSpace(req.OTP), user.ResetCodeHash) {
		h.respondError(c, "reset password", errValidation("Invalid OTP"))
		return
	}
	if user.ResetCodeExpiry == nil || time.Now().After(*user.ResetCodeExpiry) {
		h.respondError(c, "reset password", errValidation("OTP has expired"))
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		h.respondError(c, "reset password", err)
		return
	}
	user.Password = hash
	user.ClearResetCode()

	if err := h.Stores.Users.Replace(c.Request.Context(), user); err != nil {
		h.respondError(c, "reset password", err)
		return
	}
	respondOK(c, nil, "Password reset successfully")
}

func (h *Handler) authPayload(user *models.User) (authPayload, error) {
	token, err := h.Tokens.GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		return authPayload{}, err
	}
	return authPayload{
		ID:    user.ID.Hex(),
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		Token: token,
	}, nil
}

func newResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
