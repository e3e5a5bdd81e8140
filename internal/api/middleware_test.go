package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"loghealth/internal/logs"
	"loghealth/internal/metrics"

	"github.com/stretchr/testify/assert"
)

func TestRecoveryMiddleware(t *testing.T) {
	logger := logs.NewLogger(10, logs.DEBUG)

	panicHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom!")
	})

	recoveredHandler := RecoveryMiddleware(logger)(panicHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	recoveredHandler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "internal server error")

	entries := logger.GetLast(1)
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "panic recovered", entries[0].Message)
		assert.Equal(t, logs.ERROR, entries[0].Level)
	}
}

func TestLoggingMiddleware(t *testing.T) {
	logger := logs.NewLogger(10, logs.DEBUG)

	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	entries := logger.GetLast(1)
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "request", entries[0].Message)
		assert.Equal(t, "POST", entries[0].Fields["method"])
		assert.Equal(t, "/api/analyze", entries[0].Fields["path"])
		assert.EqualValues(t, http.StatusTeapot, entries[0].Fields["status"])
	}
}

func TestMaxBytesMiddleware(t *testing.T) {
	reg := metrics.NewRegistry()

	var read string
	handler := MaxBytesMiddleware(8, reg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		read = string(data)
	}))

	t.Run("WithinLimit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small"))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "small", read)
	})

	t.Run("DeclaredLengthTooLarge", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("much too large"))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
		assert.Contains(t, rr.Body.String(), "input too large")
		assert.Equal(t, int64(1), reg.Get(metrics.RequestsRejected))
	})

	t.Run("UndeclaredLengthTooLarge", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("much too large"))
		req.ContentLength = -1
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	})
}

func TestChain(t *testing.T) {
	finalHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Test", "true")
			next.ServeHTTP(w, r)
		})
	}

	chained := Chain(finalHandler, mw)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	chained.ServeHTTP(rr, req)

	assert.Equal(t, "true", rr.Header().Get("X-Test"))
	assert.Equal(t, http.StatusOK, rr.Code)
}
