package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/pregnancy-care-api/internal/middleware"
	"github.com/harentsoaR/pregnancy-care-api/internal/models"
	"github.com/harentsoaR/pregnancy-care-api/internal/store"
	"github.com/harentsoaR/pregnancy-care-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// apiError is a failure the client caused or may see verbatim.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string { return e.message }

func errValidation(msg string) error {
	return &apiError{status: http.StatusBadRequest, message: msg}
}

func errNotFound(msg string) error {
	return &apiError{status: http.StatusNotFound, message: msg}
}

func errUnauthorized(msg string) error {
	return &apiError{status: http.StatusUnauthorized, message: msg}
}

func errForbidden(msg string) error {
	return &apiError{status: http.StatusForbidden, message: msg}
}

func errConflict(msg string) error {
	return &apiError{status: http.StatusConflict, message: msg}
}

var errNotOwner = errUnauthorized("Not authorized")

// requesterID is the authenticated user id stored by middleware.Protect.
func requesterID(c *gin.Context) (primitive.ObjectID, error) {
	id, ok := utils.ParseObjectID(c.GetString(middleware.UserIDKey))
	if !ok {
		return primitive.NilObjectID, errUnauthorized("Not authorized, invalid token")
	}
	return id, nil
}

// pathID validates a route parameter before any lookup happens.
func pathID(c *gin.Context, param, what string) (primitive.ObjectID, error) {
	id, ok := utils.ParseObjectID(c.Param(param))
	if !ok {
		return primitive.NilObjectID, errValidation("Invalid " + what + " ID")
	}
	return id, nil
}

type finder[T any] func(ctx context.Context, id primitive.ObjectID) (*T, error)

// loadOwned fetches a document and applies the ownership gate: 404 when it
// does not exist, 401 when it belongs to someone else.
func loadOwned[T any](ctx context.Context, find finder[T], id, requester primitive.ObjectID, owner func(*T) primitive.ObjectID, what string) (*T, error) {
	doc, err := find(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errNotFound(what + " not found")
	}
	if err != nil {
		return nil, err
	}
	if !models.OwnedBy(owner(doc), requester) {
		return nil, errNotOwner
	}
	return doc, nil
}

// loadUser returns the requester's own user document.
func (h *Handler) loadUser(c *gin.Context) (*models.User, error) {
	id, err := requesterID(c)
	if err != nil {
		return nil, err
	}
	user, err := h.Stores.Users.FindByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errNotFound("User not found")
	}
	return user, err
}
