package middlewares

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/cafe-api/config"
	"golang.org/x/crypto/bcrypt"
)

func setupAPIKeyRouter(sec config.SecurityConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.DELETE("/guarded", APIKeyMiddleware(sec), func(c *gin.Context) {
		var body struct {
			APIKey string `json:"api_key"`
		}
		// the handler can still read the body after the middleware did
		if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, body.APIKey)
	})
	return router
}

func deleteWithBody(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, "/guarded", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAPIKeyMiddleware(t *testing.T) {
	router := setupAPIKeyRouter(config.SecurityConfig{APIKey: "TopSecretAPIKey"})

	w := deleteWithBody(router, `{"api_key":"TopSecretAPIKey"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "TopSecretAPIKey", w.Body.String())

	for _, body := range []string{`{"api_key":"wrong"}`, `{"api_key":"topsecretapikey"}`, `{}`, `not json`, ``} {
		w = deleteWithBody(router, body)
		assert.Equal(t, http.StatusForbidden, w.Code, body)
		assert.JSONEq(t, `{"error":{"Forbidden":"Sorry, that's not allowed. Make sure you have the correct api_key."}}`, w.Body.String())
	}
}

func TestAPIKeyMiddlewareWithHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-key"), bcrypt.MinCost)
	require.NoError(t, err)
	router := setupAPIKeyRouter(config.SecurityConfig{APIKey: "TopSecretAPIKey", APIKeyHash: string(hash)})

	assert.Equal(t, http.StatusOK, deleteWithBody(router, `{"api_key":"hashed-key"}`).Code)
	assert.Equal(t, http.StatusForbidden, deleteWithBody(router, `{"api_key":"TopSecretAPIKey"}`).Code)
}

func TestRateLimiterPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(NewRateLimiter(0.001, 2).RateLimit())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, get("10.0.0.1"))
	assert.Equal(t, http.StatusOK, get("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, get("10.0.0.1"))
	assert.Equal(t, http.StatusOK, get("10.0.0.2"))
}

func TestSecurityAndCORSHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SecurityHeaders(), CORSMiddlewares([]string{"http://allowed.test"}), LoggerMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/?x=1", nil)
	req.Header.Set("Origin", "http://allowed.test")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "http://allowed.test", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://other.test")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestClosureLoggerPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.DELETE("/report-closed/:cafe_id", ClosureLoggerMiddleware(),
		APIKeyMiddleware(config.SecurityConfig{APIKey: "k"}),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodDelete, "/report-closed/3", bytes.NewBufferString(`{"api_key":"k"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/report-closed/3", bytes.NewBufferString(`{"api_key":"x"}`))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
