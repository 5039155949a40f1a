package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/wordify/internal/config"
	"github.com/hyperjump/wordify/internal/metrics"
	"github.com/hyperjump/wordify/internal/models"
	"github.com/hyperjump/wordify/internal/scanner"
	"github.com/hyperjump/wordify/internal/storage"
	"github.com/hyperjump/wordify/internal/wordify"
)

type mockWatchService struct {
	dirs []string
}

func (m *mockWatchService) Directories() []string {
	return append([]string(nil), m.dirs...)
}

func (m *mockWatchService) AddDirectory(path string, _ bool) error {
	for _, d := range m.dirs {
		if d == path {
			return nil
		}
	}
	m.dirs = append(m.dirs, path)
	return nil
}

func (m *mockWatchService) RemoveDirectory(path string) error {
	for i, d := range m.dirs {
		if d == path {
			m.dirs = append(m.dirs[:i], m.dirs[i+1:]...)
			return nil
		}
	}
	return nil
}

type testEnv struct {
	srv     *Server
	handler http.Handler
	store   storage.Storage
	cfg     *config.Config
}

func newTestEnv(t *testing.T, withStorage bool, opts ...Option) *testEnv {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.DatabasePath = filepath.Join(t.TempDir(), "history.db")

	var store storage.Storage
	scanOpts := []scanner.Option{}
	if withStorage {
		st, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = st.Close() })
		store = st
		scanOpts = append(scanOpts, scanner.WithStorage(st))
	}
	sc := scanner.New(nil, scanOpts...)
	srv := NewServer(sc, store, cfg, nil, opts...)
	return &testEnv{srv: srv, handler: srv.Handler(), store: store, cfg: cfg}
}

func (e *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	r := httptest.NewRequest(method, target, &buf)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, r)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHandleConvert(t *testing.T) {
	env := newTestEnv(t, false)
	tests := []struct {
		name      string
		body      string
		wantWords string
		wantValid bool
	}{
		{"number", `{"value": 87334}`, "eighty-seven thousand three hundred and thirty-four", true},
		{"string literal", `{"value": "100010"}`, "one hundred thousand and ten", true},
		{"negative", `{"value": -5}`, "minus five", true},
		{"zero", `{"value": 0}`, "zero", true},
		{"large exact", `{"value": 1000000000000000000000000000000000}`, "one decillion", true},
		{"out of range", `{"value": "1000000000000000000000000000000000000"}`, wordify.Invalid, false},
		{"fraction", `{"value": 10.5}`, wordify.Invalid, false},
		{"bool", `{"value": true}`, wordify.Invalid, false},
		{"candidate with comma", `{"value": "23 456,9"}`, wordify.Invalid, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/v1/convert", tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status: got %d body %s", w.Code, w.Body.String())
			}
			var resp models.ConvertResponse
			decodeBody(t, w, &resp)
			if resp.Words != tt.wantWords || resp.Valid != tt.wantValid {
				t.Errorf("got %+v, want words %q valid %v", resp, tt.wantWords, tt.wantValid)
			}
			if !resp.Valid && resp.Error == "" {
				t.Error("invalid response should carry an error")
			}
		})
	}
}

func TestHandleConvert_serialCommas(t *testing.T) {
	env := newTestEnv(t, false)
	env.cfg.Output.SerialCommas = true
	srv := NewServer(scanner.New(nil), nil, env.cfg, nil)
	env.handler = srv.Handler()

	w := env.do(t, http.MethodPost, "/api/v1/convert", `{"value": 1200}`)
	var resp models.ConvertResponse
	decodeBody(t, w, &resp)
	if resp.Words != "one thousand, two hundred" {
		t.Errorf("got %q", resp.Words)
	}
}

func TestHandleConvert_badRequests(t *testing.T) {
	env := newTestEnv(t, false)
	for name, body := range map[string]string{
		"malformed":     `{"value":`,
		"missing value": `{}`,
		"unknown field": `{"value": 1, "extra": 2}`,
	} {
		t.Run(name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/v1/convert", body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", w.Code)
			}
		})
	}
}

func TestHandleConvert_requiresJSONContentType(t *testing.T) {
	env := newTestEnv(t, false)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/convert", strings.NewReader(`{"value": 1}`))
	r.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, r)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status: got %d, want 415", w.Code)
	}
}

func TestHandleExtract(t *testing.T) {
	env := newTestEnv(t, false)
	w := env.do(t, http.MethodPost, "/api/v1/extract", models.ExtractRequest{
		Text: "The number is #65678.\nThe number is 23 456,9.\n\nNo numbers here.\n123 and 456",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var resp models.ExtractResponse
	decodeBody(t, w, &resp)
	want := []string{"#65678", "23 456,9", "123", "456"}
	if strings.Join(resp.Candidates, "|") != strings.Join(want, "|") {
		t.Errorf("candidates = %q, want %q", resp.Candidates, want)
	}

	w = env.do(t, http.MethodPost, "/api/v1/extract", models.ExtractRequest{Text: "nothing"})
	if !strings.Contains(w.Body.String(), `"candidates":[]`) {
		t.Errorf("empty result should be an empty array: %s", w.Body.String())
	}
}

func TestHandleWordifyAndHistory(t *testing.T) {
	env := newTestEnv(t, true)
	w := env.do(t, http.MethodPost, "/api/v1/wordify", models.WordifyRequest{
		Text:   "Numbers 49 and 10.\n#7",
		Source: "memo",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d body %s", w.Code, w.Body.String())
	}
	var resp models.WordifyResponse
	decodeBody(t, w, &resp)
	if len(resp.Conversions) != 3 {
		t.Fatalf("got %d conversions", len(resp.Conversions))
	}
	if resp.Conversions[0].Words != "forty-nine" || resp.Conversions[2].Valid {
		t.Errorf("conversions: %+v %+v", resp.Conversions[0], resp.Conversions[2])
	}

	w = env.do(t, http.MethodGet, "/api/v1/conversions?limit=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status: got %d", w.Code)
	}
	var list models.ListResponse
	decodeBody(t, w, &list)
	if list.Total != 3 || len(list.Conversions) != 2 || list.Limit != 2 {
		t.Errorf("list: total=%d len=%d limit=%d", list.Total, len(list.Conversions), list.Limit)
	}
	if list.Conversions[0].Source != "memo" {
		t.Errorf("source = %q", list.Conversions[0].Source)
	}

	w = env.do(t, http.MethodGet, "/api/v1/status", nil)
	var status models.Status
	decodeBody(t, w, &status)
	if status.Conversions != 3 || status.DiskBytes == 0 {
		t.Errorf("status: %+v", status)
	}
}

func TestHandleListConversions_errors(t *testing.T) {
	env := newTestEnv(t, true)
	for _, target := range []string{
		"/api/v1/conversions?offset=-1",
		"/api/v1/conversions?limit=abc",
		"/api/v1/conversions?offset=x",
	} {
		if w := env.do(t, http.MethodGet, target, nil); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", target, w.Code)
		}
	}

	noHistory := newTestEnv(t, false)
	if w := noHistory.do(t, http.MethodGet, "/api/v1/conversions", nil); w.Code != http.StatusNotImplemented {
		t.Errorf("without storage: status %d, want 501", w.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	env := newTestEnv(t, false)
	w := env.do(t, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("health: %d %s", w.Code, w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, false, WithMetrics(metrics.New()))
	env.do(t, http.MethodPost, "/api/v1/convert", `{"value": "#1"}`)

	w := env.do(t, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", w.Code)
	}
	body := w.Body.String()
	for _, sub := range []string{
		`wordify_conversions_total{outcome="invalid"} 1`,
		`route="/api/v1/convert"`,
	} {
		if !strings.Contains(body, sub) {
			t.Errorf("metrics missing %s", sub)
		}
	}

	noMetrics := newTestEnv(t, false)
	if w := noMetrics.do(t, http.MethodGet, "/metrics", nil); w.Code != http.StatusNotFound {
		t.Errorf("without metrics: status %d, want 404", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, false)
	env.cfg.Server.RateLimit = 0.001
	env.cfg.Server.RateBurst = 2
	env.handler = NewServer(scanner.New(nil), nil, env.cfg, nil).Handler()

	codes := make([]int, 3)
	for i := range codes {
		codes[i] = env.do(t, http.MethodGet, "/health", nil).Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}
}

func TestHandleWatchDirectories(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	mock := &mockWatchService{dirs: []string{"/tmp/docs"}}
	env := newTestEnv(t, false, WithWatch(mock, configPath))

	w := env.do(t, http.MethodGet, "/api/v1/watch/directories", nil)
	var out struct {
		Directories []string `json:"directories"`
	}
	decodeBody(t, w, &out)
	if len(out.Directories) != 1 || out.Directories[0] != "/tmp/docs" {
		t.Errorf("list: %v", out.Directories)
	}

	w = env.do(t, http.MethodPost, "/api/v1/watch/directories", map[string]any{"path": dir, "sync": false})
	if w.Code != http.StatusCreated {
		t.Fatalf("add: status %d body %s", w.Code, w.Body.String())
	}
	if len(mock.dirs) != 2 {
		t.Errorf("dirs after add: %v", mock.dirs)
	}
	saved, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("config should be persisted: %v", err)
	}
	if len(saved.Watch.Directories) != 2 {
		t.Errorf("persisted directories: %v", saved.Watch.Directories)
	}

	w = env.do(t, http.MethodDelete, "/api/v1/watch/directories?path="+dir, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("remove: status %d", w.Code)
	}
	if len(mock.dirs) != 1 {
		t.Errorf("dirs after remove: %v", mock.dirs)
	}
}

func TestHandleWatchDirectories_errors(t *testing.T) {
	env := newTestEnv(t, false, WithWatch(&mockWatchService{}, ""))
	tests := []struct {
		name   string
		method string
		body   any
		want   int
	}{
		{"missing path", http.MethodPost, map[string]any{}, http.StatusBadRequest},
		{"not found", http.MethodPost, map[string]any{"path": filepath.Join(t.TempDir(), "nope")}, http.StatusNotFound},
		{"remove without path", http.MethodDelete, nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := env.do(t, tt.method, "/api/v1/watch/directories", tt.body); w.Code != tt.want {
				t.Errorf("status %d, want %d", w.Code, tt.want)
			}
		})
	}

	disabled := newTestEnv(t, false)
	if w := disabled.do(t, http.MethodGet, "/api/v1/watch/directories", nil); w.Code != http.StatusNotImplemented {
		t.Errorf("watch disabled: status %d, want 501", w.Code)
	}
}

func TestStopBeforeStart(t *testing.T) {
	env := newTestEnv(t, false)
	if err := env.srv.Stop(context.Background()); err != nil {
		t.Errorf("Stop before Start: %v", err)
	}
	if err := env.srv.Start(); !errors.Is(err, http.ErrServerClosed) {
		t.Errorf("Start after Stop: got %v, want %v", err, http.ErrServerClosed)
	}
}

func TestStopWhileStarting(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	srv := NewServer(scanner.New(nil), nil, cfg, nil)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("Start returned %v, want %v", err, http.ErrServerClosed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
}
