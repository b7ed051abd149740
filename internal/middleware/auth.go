package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/pregnancy-care-api/internal/utils"
	"go.uber.org/zap"
)

// Context keys set by Protect.
const (
	UserIDKey   = "userID"
	UserRoleKey = "userRole"
)

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

// Protect rejects requests without a valid bearer token and stores the
// token's user id and role in the gin context. invalidStatus is the status
// answered for a present but invalid token (401 or 403).
func Protect(tokens *utils.JWTManager, invalidStatus int) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{Message: "Not authorized, no token provided"})
			return
		}

		claims, err := tokens.ValidateJWT(tokenString)
		if err != nil {
			utils.Zlog.Debug("token rejected", zap.Error(err), zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(invalidStatus, envelope{Message: "Not authorized, invalid token"})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserRoleKey, claims.Role)

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
