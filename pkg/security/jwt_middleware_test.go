package security

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The signing key is resolved lazily, so setting it here is enough for the
// whole package.
func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-signing-secret")
	os.Exit(m.Run())
}

func identityRouter() *gin.Engine {
	router := gin.New()
	router.GET("/whoami", JWTMiddleware(), func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "identity missing"})
			return
		}
		role, _ := c.Get("role")
		c.JSON(http.StatusOK, gin.H{"user_id": id, "role": role})
	})
	return router
}

func TestJWTMiddlewareAcceptsGeneratedToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	token, err := GenerateJWT(42, "logistics_officer", "quartermaster")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	identityRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":42,"role":"logistics_officer"}`, w.Body.String())
}

func TestJWTMiddlewareRejectsMissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	identityRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddlewareRejectsForgedToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userID": float64(42),
		"role":   "admin",
		"exp":    time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	identityRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
