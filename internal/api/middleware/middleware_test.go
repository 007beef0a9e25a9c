package middleware_test

import (
	"bytes"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/unifiedui/cache-service/internal/api/middleware"
	domainerrors "github.com/unifiedui/cache-service/internal/domain/errors"
	"github.com/unifiedui/cache-service/internal/testutils"
)

// replyError stands in for a server error reply.
type replyError string

func (e replyError) Error() string { return string(e) }
func (replyError) RedisError()     {}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"domain", domainerrors.NewAuthError(assert.AnError), http.StatusBadGateway, domainerrors.ErrCodeAuth},
		{"store reply", replyError("WRONGTYPE Operation against a key holding the wrong kind of value"), http.StatusConflict, "STORE_ERROR"},
		{"unknown", assert.AnError, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := testutils.SetupTestRouter()
			router.GET("/", func(c *gin.Context) { middleware.HandleError(c, tt.err) })

			w := testutils.PerformRequest(router, "GET", "/", nil, nil)

			testutils.AssertStatusCode(t, tt.status, w)
			var response middleware.ErrorResponse
			testutils.ParseJSONResponse(t, w, &response)
			assert.Equal(t, tt.code, response.Code)
		})
	}
}

func TestRecovery(t *testing.T) {
	router := testutils.SetupTestRouter()
	router.Use(middleware.NewErrorMiddleware().Recovery())
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := testutils.PerformRequest(router, "GET", "/panic", nil, nil)

	testutils.AssertStatusCode(t, http.StatusInternalServerError, w)
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	router := testutils.SetupTestRouter()
	router.HandleMethodNotAllowed = true
	router.NoRoute(middleware.NotFound())
	router.NoMethod(middleware.MethodNotAllowed())
	router.GET("/only-get", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := testutils.PerformRequest(router, "GET", "/nowhere", nil, nil)
	testutils.AssertStatusCode(t, http.StatusNotFound, w)

	w = testutils.PerformRequest(router, "POST", "/only-get", nil, nil)
	testutils.AssertStatusCode(t, http.StatusMethodNotAllowed, w)
}

func TestRequestLogger_RequestID(t *testing.T) {
	var buf bytes.Buffer
	mw := middleware.NewLoggingMiddlewareWithLogger(zerolog.New(&buf))

	router := testutils.SetupTestRouter()
	router.Use(mw.RequestLogger(), mw.Logger())
	router.GET("/keys/:key", func(c *gin.Context) {
		logger := middleware.GetRequestLogger(c)
		logger.Info().Msg("handled")
		c.String(http.StatusOK, middleware.GetRequestID(c))
	})

	w := testutils.PerformRequest(router, "GET", "/keys/user:1", nil, map[string]string{"X-Request-ID": "req-1"})
	testutils.AssertStatusCode(t, http.StatusOK, w)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-1", w.Body.String())
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	assert.Contains(t, buf.String(), `"key":"user:1"`)
	assert.Contains(t, buf.String(), `"message":"request completed"`)

	w = testutils.PerformRequest(router, "GET", "/keys/other", nil, nil)
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestCORS(t *testing.T) {
	cfg := middleware.DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://app.example"}
	cfg.AllowCredentials = true

	router := testutils.SetupTestRouter()
	router.Use(middleware.NewCORSMiddleware(cfg))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := testutils.PerformRequest(router, "GET", "/x", nil, map[string]string{"Origin": "https://app.example"})
	testutils.AssertStatusCode(t, http.StatusOK, w)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))

	w = testutils.PerformRequest(router, "GET", "/x", nil, map[string]string{"Origin": "https://evil.example"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = testutils.PerformRequest(router, "OPTIONS", "/x", nil, map[string]string{"Origin": "https://app.example"})
	testutils.AssertStatusCode(t, http.StatusNoContent, w)
}

func TestCORS_DefaultsAllowNoOrigin(t *testing.T) {
	router := testutils.SetupTestRouter()
	router.Use(middleware.NewCORSMiddleware(middleware.DefaultCORSConfig()))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := testutils.PerformRequest(router, "GET", "/x", nil, map[string]string{"Origin": "http://localhost:3000"})
	testutils.AssertStatusCode(t, http.StatusOK, w)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Wildcard(t *testing.T) {
	cfg := middleware.DefaultCORSConfig()
	cfg.AllowOrigins = []string{"*"}

	router := testutils.SetupTestRouter()
	router.Use(middleware.NewCORSMiddleware(cfg))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := testutils.PerformRequest(router, "GET", "/x", nil, map[string]string{"Origin": "https://any.example"})
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))

	cfg.AllowCredentials = true
	router = testutils.SetupTestRouter()
	router.Use(middleware.NewCORSMiddleware(cfg))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w = testutils.PerformRequest(router, "GET", "/x", nil, map[string]string{"Origin": "https://any.example"})
	assert.Equal(t, "https://any.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLogger_CacheFields(t *testing.T) {
	var buf bytes.Buffer
	mw := middleware.NewLoggingMiddlewareWithLogger(zerolog.New(&buf))

	router := testutils.SetupTestRouter()
	router.Use(mw.RequestLogger(), mw.Logger())
	router.DELETE("/keys", func(c *gin.Context) {
		middleware.HandleError(c, domainerrors.NewConnectionError("localhost:6379", errors.New("refused")))
	})

	w := testutils.PerformRequest(router, "DELETE", "/keys?pattern=user:*", nil, map[string]string{"X-Request-ID": "req-2"})
	testutils.AssertStatusCode(t, http.StatusServiceUnavailable, w)

	out := buf.String()
	assert.Contains(t, out, `"route":"/keys"`)
	assert.Contains(t, out, `"pattern":"user:*"`)
	assert.Contains(t, out, `"error_code":"CONNECTION_ERROR"`)
	assert.Contains(t, out, `"request_id":"req-2"`)
	assert.Contains(t, out, `"level":"error"`)
}
