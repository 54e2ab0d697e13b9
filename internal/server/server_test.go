package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/zephyrtronium/rootfind/internal/config"
	"github.com/zephyrtronium/rootfind/internal/metrics"
	"github.com/zephyrtronium/rootfind/methods"
)

func setupTestServer(t *testing.T) (*Server, *metrics.Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.Development = true
	m := metrics.New()
	return New(cfg, m, zaptest.NewLogger(t)), m
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s, _ := setupTestServer(t)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListMethods(t *testing.T) {
	s, _ := setupTestServer(t)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/methods", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var got []MethodInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, len(methods.Methods))
	assert.Equal(t, methods.MethodBisection, got[0].Name)
	assert.Equal(t, methods.MethodBisection.Columns(), got[0].Columns)
}

func TestSolve(t *testing.T) {
	tests := []struct {
		name       string
		body       methods.Request
		wantCode   int
		wantStatus methods.Status
	}{
		{
			name:       "bisection",
			body:       methods.Request{Method: "bisection", F: "x^2 - 3", A: "1", B: "2"},
			wantCode:   http.StatusOK,
			wantStatus: methods.Converged,
		},
		{
			name:       "newton",
			body:       methods.Request{Method: "newton", F: "x^2 - 3", X0: "1", Tolerance: "1e-10"},
			wantCode:   http.StatusOK,
			wantStatus: methods.Converged,
		},
		{
			name:       "cap",
			body:       methods.Request{Method: "bisection", F: "x^2 - 3", A: "1", B: "2", MaxIter: "3"},
			wantCode:   http.StatusOK,
			wantStatus: methods.IterationCapReached,
		},
		{
			name:       "diverged",
			body:       methods.Request{Method: "newton", F: "x^2 + 1", X0: "0"},
			wantCode:   http.StatusOK,
			wantStatus: methods.Diverged,
		},
		{
			name:       "no sign change",
			body:       methods.Request{Method: "bisection", F: "x^2 - 3", A: "2", B: "3"},
			wantCode:   http.StatusUnprocessableEntity,
			wantStatus: methods.InvalidInput,
		},
		{
			name:       "unknown method",
			body:       methods.Request{Method: "secant", F: "x"},
			wantCode:   http.StatusUnprocessableEntity,
			wantStatus: methods.InvalidInput,
		},
		{
			name:       "parse error",
			body:       methods.Request{Method: "newton", F: "x^^2", X0: "1"},
			wantCode:   http.StatusUnprocessableEntity,
			wantStatus: methods.InvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := setupTestServer(t)
			w := post(t, s.Handler(), "/api/v1/solve", tt.body)
			assert.Equal(t, tt.wantCode, w.Code)

			var rep methods.Report
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
			assert.Equal(t, tt.wantStatus, rep.Status)
			_, err := uuid.Parse(rep.ID)
			assert.NoError(t, err, "report ID should be a UUID")
			if tt.wantCode == http.StatusOK && tt.wantStatus != methods.Diverged {
				assert.NotEmpty(t, rep.Rows)
			}
		})
	}
}

func TestSolveRoot(t *testing.T) {
	s, m := setupTestServer(t)
	w := post(t, s.Handler(), "/api/v1/solve", methods.Request{Method: "multiple", F: "x^3 - 2*x^2 + 4/3*x - 8/27", X0: "0.5", Tolerance: "1e-8"})
	require.Equal(t, http.StatusOK, w.Code)
	var rep methods.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	assert.InDelta(t, 2.0/3, rep.Root, 1e-6)
	assert.Equal(t, "6 * x - 4", rep.Second)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("multiple", "converged")))
}

func TestSolveBadBody(t *testing.T) {
	s, _ := setupTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/solve", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvaluate(t *testing.T) {
	s, _ := setupTestServer(t)
	w := post(t, s.Handler(), "/api/v1/evaluate", EvaluateRequest{Expression: methods.Expression{F: "a*x^2", Vars: map[string]string{"a": "3"}}, X: 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"x":2,"value":12}`, w.Body.String())

	w = post(t, s.Handler(), "/api/v1/evaluate", EvaluateRequest{Expression: methods.Expression{F: "ln(x)"}, X: -1})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestDerivative(t *testing.T) {
	s, _ := setupTestServer(t)
	w := post(t, s.Handler(), "/api/v1/derivative", DerivativeRequest{Expression: methods.Expression{F: "x^2 - 3"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"derivatives":["2 * x"]}`, w.Body.String())

	w = post(t, s.Handler(), "/api/v1/derivative", DerivativeRequest{Expression: methods.Expression{F: "t^3", Var: "t"}, Order: 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"derivatives":["3 * t^2","6 * t"]}`, w.Body.String())

	w = post(t, s.Handler(), "/api/v1/derivative", DerivativeRequest{Expression: methods.Expression{F: "x^5"}, Order: methods.MaxDerivativeOrder})
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Derivatives []string `json:"derivatives"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got.Derivatives, methods.MaxDerivativeOrder)

	// Orders out of range fail binding.
	for _, order := range []int{-1, methods.MaxDerivativeOrder + 1, 99} {
		w = post(t, s.Handler(), "/api/v1/derivative", DerivativeRequest{Expression: methods.Expression{F: "x"}, Order: order})
		assert.Equal(t, http.StatusBadRequest, w.Code, "order %d", order)
		assert.Contains(t, w.Body.String(), "Order")
	}

	w = post(t, s.Handler(), "/api/v1/derivative", DerivativeRequest{Expression: methods.Expression{F: "x +"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSample(t *testing.T) {
	s, _ := setupTestServer(t)
	w := post(t, s.Handler(), "/api/v1/sample", SampleRequest{Expression: methods.Expression{F: "sqrt(x)"}, XMin: -1, XMax: 1, Count: 3})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"points":[{"x":-1,"y":null},{"x":0,"y":0},{"x":1,"y":1}]}`, w.Body.String())

	w = post(t, s.Handler(), "/api/v1/sample", SampleRequest{Expression: methods.Expression{F: "x"}, XMin: 1, XMax: 0})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = post(t, s.Handler(), "/api/v1/sample", SampleRequest{Expression: methods.Expression{F: "x"}, XMin: 0, XMax: 1})
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Points []methods.SamplePoint `json:"points"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got.Points, DefaultSampleCount)

	w = post(t, s.Handler(), "/api/v1/sample", SampleRequest{Expression: methods.Expression{F: "x"}, XMin: 0, XMax: 1, Count: MaxSampleCount})
	require.Equal(t, http.StatusOK, w.Code)

	// Counts out of range fail binding.
	for _, count := range []int{-3, 1, MaxSampleCount + 1} {
		w = post(t, s.Handler(), "/api/v1/sample", SampleRequest{Expression: methods.Expression{F: "x"}, XMin: 0, XMax: 1, Count: count})
		assert.Equal(t, http.StatusBadRequest, w.Code, "count %d", count)
		assert.Contains(t, w.Body.String(), "Count")
	}
}

func TestBindingLimits(t *testing.T) {
	f, ok := reflect.TypeOf(SampleRequest{}).FieldByName("Count")
	require.True(t, ok)
	assert.Contains(t, f.Tag.Get("binding"), fmt.Sprintf("max=%d", MaxSampleCount))
	f, ok = reflect.TypeOf(DerivativeRequest{}).FieldByName("Order")
	require.True(t, ok)
	assert.Contains(t, f.Tag.Get("binding"), fmt.Sprintf("max=%d", methods.MaxDerivativeOrder))
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := setupTestServer(t)
	post(t, s.Handler(), "/api/v1/solve", methods.Request{Method: "newton", F: "x^2 - 3", X0: "1"})
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `rootfind_runs_total{method="newton",status="converged"} 1`)
	assert.Contains(t, w.Body.String(), `rootfind_http_requests_total{method="POST",path="/api/v1/solve",status="200"} 1`)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		origin     string
		wantHeader string
	}{
		{"wildcard", []string{"*"}, "http://localhost:3000", "*"},
		{"listed", []string{"http://example.com"}, "http://example.com", "http://example.com"},
		{"unlisted", []string{"http://example.com"}, "http://localhost:3000", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			cfg := config.Default()
			cfg.Development = true
			cfg.AllowOrigins = tt.origins
			s := New(cfg, nil, nil)
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, req)
			assert.Equal(t, tt.wantHeader, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRunShutdown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.Development = true
	cfg.Addr = addr
	cfg.ShutdownTimeout = time.Second
	s := New(cfg, nil, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
