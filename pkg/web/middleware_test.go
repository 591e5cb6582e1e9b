package web

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Recoverer(t *testing.T) {
	// given
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	handler := Recoverer(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()

	// when
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))

	// then
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rr.Body.String())
	assert.Contains(t, logs.String(), "Panic recovered")
}

func Test_StructuredLogger(t *testing.T) {
	testCases := []struct {
		name      string
		path      string
		status    int
		wantLevel string
	}{
		{name: "success", path: "/api/v1/customers/1", status: http.StatusOK, wantLevel: "INFO"},
		{name: "client error", path: "/api/v1/customers/1", status: http.StatusNotFound, wantLevel: "WARN"},
		{name: "server error", path: "/api/v1/customers/1", status: http.StatusInternalServerError, wantLevel: "ERROR"},
		{name: "health check", path: "/healthz", status: http.StatusOK, wantLevel: "DEBUG"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var logs bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
			r := chi.NewRouter()
			r.Use(StructuredLogger(logger))
			handler := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(tc.status) }
			r.Get("/api/v1/customers/{id}", handler)
			r.Get("/healthz", handler)
			rr := httptest.NewRecorder()

			// when
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))

			// then
			var record map[string]any
			require.NoError(t, json.Unmarshal(logs.Bytes(), &record))
			assert.Equal(t, tc.wantLevel, record["level"])
			assert.Equal(t, float64(tc.status), record["status"])
			if tc.path != "/healthz" {
				assert.Equal(t, "/api/v1/customers/{id}", record["route"])
			}
		})
	}
}
