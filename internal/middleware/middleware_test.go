package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func corsEngine(allowedOrigins string) *gin.Engine {
	r := gin.New()
	r.Use(CORS(allowedOrigins))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCORS_WildcardAllowsAnyOrigin(t *testing.T) {
	r := corsEngine("*")
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "http://anywhere.example")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_ListedOriginIsEchoed(t *testing.T) {
	r := corsEngine("http://clinic.example, http://tablet.example")
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "http://tablet.example")
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://tablet.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))
}

func TestCORS_UnlistedOriginGetsNoAllowHeader(t *testing.T) {
	r := corsEngine("http://clinic.example")
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "http://evil.example")
	r.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	r := corsEngine("*")
	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/ping", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestGetClaims_NilWithoutAuth(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)

	assert.NotPanics(t, func() {
		assert.Nil(t, GetClaims(c))
	})
}

func TestJWTAuth_ValidTokenExposesClaims(t *testing.T) {
	const secret = "test-secret"
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		UserID:   "op-1",
		Username: "nurse1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	r := gin.New()
	r.Use(JWTAuth(secret))
	r.GET("/me", func(c *gin.Context) {
		claims := GetClaims(c)
		require.NotNil(t, claims)
		c.String(http.StatusOK, claims.Username)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nurse1", w.Body.String())
}

func TestJWTAuth_MissingTokenRejected(t *testing.T) {
	r := gin.New()
	r.Use(JWTAuth("test-secret"))
	r.GET("/me", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
