package httphandler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trolleyhk/trolley/internal/adapter/httphandler"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAllowJSON(t *testing.T) {
	t.Run("EmptyBodyPasses", func(t *testing.T) {
		h := httphandler.AllowJSON(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("NonJSONBodyRejected", func(t *testing.T) {
		h := httphandler.AllowJSON(okHandler())

		req := httptest.NewRequest(
			http.MethodPost, "/v1/products", strings.NewReader("a,b,c"),
		)
		req.Header.Set("Content-Type", "text/csv")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("JSONBodyPasses", func(t *testing.T) {
		h := httphandler.AllowJSON(okHandler())

		req := httptest.NewRequest(
			http.MethodPost, "/v1/products", strings.NewReader("[]"),
		)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCORS(t *testing.T) {
	t.Run("AllowsConfiguredOrigin", func(t *testing.T) {
		h := httphandler.CORS([]string{"https://trolley.hk"})(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
		req.Header.Set("Origin", "https://trolley.hk")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(
			t,
			"https://trolley.hk",
			rec.Header().Get("Access-Control-Allow-Origin"),
		)
	})

	t.Run("UnknownOriginGetsNoHeader", func(t *testing.T) {
		h := httphandler.CORS([]string{"https://trolley.hk"})(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("WildcardAllowsAny", func(t *testing.T) {
		h := httphandler.CORS([]string{"*"})(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
		req.Header.Set("Origin", "https://anywhere.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(
			t,
			"https://anywhere.example",
			rec.Header().Get("Access-Control-Allow-Origin"),
		)
	})

	t.Run("PreflightIsNoContent", func(t *testing.T) {
		h := httphandler.CORS([]string{"*"})(okHandler())

		req := httptest.NewRequest(http.MethodOptions, "/v1/products", nil)
		req.Header.Set("Origin", "https://trolley.hk")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
	})
}
