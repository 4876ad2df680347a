// internal/handlers/middleware/middleware_test.go
package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nweoo/zaycho-be/internal/handlers/middleware"
	"github.com/nweoo/zaycho-be/internal/pkg/logger"
	"github.com/nweoo/zaycho-be/test/helpers"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID(t *testing.T) {
	t.Run("generates_id_when_missing", func(t *testing.T) {
		var captured string
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured, _ = r.Context().Value(logger.ContextKeyRequestID).(string)
		})

		req := httptest.NewRequest("GET", "/", nil)
		w := httptest.NewRecorder()

		middleware.RequestID(inner).ServeHTTP(w, req)

		require.NotEmpty(t, captured)
		_, err := uuid.Parse(captured)
		assert.NoError(t, err)
		assert.Equal(t, captured, w.Header().Get("X-Request-ID"))
	})

	t.Run("preserves_upstream_id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Request-ID", "upstream-id-123")
		w := httptest.NewRecorder()

		middleware.RequestID(okHandler()).ServeHTTP(w, req)

		assert.Equal(t, "upstream-id-123", w.Header().Get("X-Request-ID"))
	})
}

func TestLogger_PassesThrough(t *testing.T) {
	l := logger.SetupLogger("error", "json")

	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusAccepted)
	})

	req := httptest.NewRequest("GET", "/api/v1/inventory", nil)
	w := httptest.NewRecorder()

	middleware.Logger(l)(inner).ServeHTTP(w, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusAccepted, w.Result().StatusCode)
}

func TestRecovery(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something broke")
	})

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	require.NotPanics(t, func() {
		middleware.Recovery(helpers.TestLogger())(panicking).ServeHTTP(w, req)
	})

	resp := w.Result()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal Server Error", body["error"])
}

func TestRateLimit(t *testing.T) {
	handler := middleware.RateLimit(2, time.Minute)(okHandler())

	status := func() int {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Result().StatusCode
	}

	assert.Equal(t, http.StatusOK, status())
	assert.Equal(t, http.StatusOK, status())
	assert.Equal(t, http.StatusTooManyRequests, status())

	// A different client has its own bucket.
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.8:1234"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name           string
		allowed        []string
		origin         string
		method         string
		expectedStatus int
		expectedOrigin string
	}{
		{
			name:           "allowed_origin",
			allowed:        []string{"https://shop.example.com"},
			origin:         "https://shop.example.com",
			method:         "GET",
			expectedStatus: http.StatusOK,
			expectedOrigin: "https://shop.example.com",
		},
		{
			name:           "wildcard_allows_any_origin",
			allowed:        []string{"*"},
			origin:         "https://other.example.com",
			method:         "GET",
			expectedStatus: http.StatusOK,
			expectedOrigin: "https://other.example.com",
		},
		{
			name:           "disallowed_origin_gets_no_cors_headers",
			allowed:        []string{"https://shop.example.com"},
			origin:         "https://evil.example.com",
			method:         "GET",
			expectedStatus: http.StatusOK,
			expectedOrigin: "",
		},
		{
			name:           "preflight_short_circuits",
			allowed:        []string{"https://shop.example.com"},
			origin:         "https://shop.example.com",
			method:         "OPTIONS",
			expectedStatus: http.StatusNoContent,
			expectedOrigin: "https://shop.example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()

			middleware.CORS(tt.allowed)(okHandler()).ServeHTTP(w, req)

			resp := w.Result()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.Equal(t, tt.expectedOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestSecureHeaders(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	middleware.SecureHeaders(okHandler()).ServeHTTP(w, req)

	resp := w.Result()
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", resp.Header.Get("Referrer-Policy"))
	assert.Empty(t, resp.Header.Get("Strict-Transport-Security"))
}
