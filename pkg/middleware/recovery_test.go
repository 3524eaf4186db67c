package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"roomly/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestRecovery(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Service: "test"})
	mw := Recovery(log)

	t.Run("panic becomes 500", func(t *testing.T) {
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
	})

	t.Run("normal response passes through", func(t *testing.T) {
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
