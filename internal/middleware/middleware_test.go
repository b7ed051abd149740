package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/pregnancy-care-api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedEngine(tokens *utils.JWTManager, invalidStatus int) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/private", Protect(tokens, invalidStatus), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(UserIDKey), "role": c.GetString(UserRoleKey)})
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func get(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProtect(t *testing.T) {
	tokens := utils.NewJWTManager("secret", time.Hour)
	r := protectedEngine(tokens, http.StatusUnauthorized)

	w := get(r, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)

	w = get(r, "/private", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := tokens.GenerateJWT("64b7f0c2a1b2c3d4e5f60718", "user")
	require.NoError(t, err)
	w = get(r, "/private", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "64b7f0c2a1b2c3d4e5f60718")
	assert.Contains(t, w.Body.String(), `"role":"user"`)
}

func TestProtectInvalidStatus(t *testing.T) {
	r := protectedEngine(utils.NewJWTManager("secret", time.Hour), http.StatusForbidden)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/private", "").Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/private", "Bearer bad").Code)
}

func TestRequestID(t *testing.T) {
	r := protectedEngine(utils.NewJWTManager("secret", time.Hour), http.StatusUnauthorized)

	w := get(r, "/private", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	r := protectedEngine(utils.NewJWTManager("secret", time.Hour), http.StatusUnauthorized)

	w := get(r, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Server error")
}

func TestBearerToken(t *testing.T) {
	tok, ok := bearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = bearerToken("Basic abc")
	assert.False(t, ok)
	_, ok = bearerToken("Bearer ")
	assert.False(t, ok)
}
