package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"3tcapital/nfe_dados/internal/infrastructure/config"
	"3tcapital/nfe_dados/internal/testutil"
)

func testConfig() config.AppConfig {
	return config.AppConfig{
		HTTP: config.HTTPSettings{
			Port:             8080,
			ReadTimeout:      10 * time.Second,
			WriteTimeout:     10 * time.Second,
			WriteTimeoutLote: time.Minute,
			IdleTimeout:      time.Minute,
			ShutdownTimeout:  5 * time.Second,
		},
	}
}

func testHandlers() Handlers {
	ok := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	return Handlers{
		Health:        ok,
		ProcessarLote: ok,
		ExportarLote:  ok,
	}
}

func TestServer_Routes(t *testing.T) {
	srv := New(testConfig(), testutil.NewNullLogger(), nil, testHandlers())

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{
			name:           "health endpoint",
			method:         http.MethodGet,
			path:           "/health",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "process batch",
			method:         http.MethodPost,
			path:           "/nfe/lotes",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "export batch",
			method:         http.MethodPost,
			path:           "/nfe/lotes/exportar",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "GET on batch route is not allowed",
			method:         http.MethodGet,
			path:           "/nfe/lotes",
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			name:           "unknown route",
			method:         http.MethodGet,
			path:           "/desconhecido",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			srv.Handler().ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestServer_MetricsEndpoint(t *testing.T) {
	srv := New(testConfig(), testutil.NewNullLogger(), nil, testHandlers())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Error("expected Prometheus exposition output")
	}
}
