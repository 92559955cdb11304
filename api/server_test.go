package api

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"phone-bill/adapters/document"
	"phone-bill/core/engine"
	"phone-bill/core/receipt"
	"phone-bill/core/tariff"
	"phone-bill/internal/metrics"
)

type fixedNumbers int64

func (n fixedNumbers) Next() int64 { return int64(n) }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "receipt.txt")
	if err := os.WriteFile(tmpl, []byte("{ФИО плательщика}|{Сумма платежа}|{Номер квитанции}"), 0644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	return newServerWithTemplate(t, tmpl)
}

func newServerWithTemplate(t *testing.T, tmpl string) *Server {
	t.Helper()
	dir := t.TempDir()

	reg := prometheus.NewRegistry()
	e := engine.New(tariff.DefaultCatalog(), document.NewRegistry(document.Options{}), metrics.New(reg), engine.Config{
		Receipt: receipt.GeneratorConfig{
			TemplatePath: tmpl,
			OutputDir:    filepath.Join(dir, "out"),
			Placeholders: receipt.DefaultPlaceholders(),
		},
		Now:     func() time.Time { return time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC) },
		Numbers: fixedNumbers(7),
	})
	return NewServer(e, Options{Version: "test", Gatherer: reg})
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestCalculateEndpoint(t *testing.T) {
	s := newTestServer(t)

	for _, body := range []string{
		`{"minutes":"150","plan":"tariff-2"}`,
		`{"minutes":150,"plan":"2"}`,
	} {
		rec := do(t, s, http.MethodPost, "/calculate", body)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200 for %s, got %d: %s", body, rec.Code, rec.Body)
		}

		var resp CalculateResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.AmountDue != "110.00" || resp.OverageMinutes != 50 {
			t.Errorf("Expected 110.00 with 50 overage, got %s with %d", resp.AmountDue, resp.OverageMinutes)
		}
		if resp.Plan.ID != tariff.PlanBID || resp.Currency != "RUB" {
			t.Errorf("Unexpected plan or currency: %+v", resp)
		}
	}

	if rec := do(t, s, http.MethodGet, "/calculate", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET /calculate, got %d", rec.Code)
	}
}

func TestCalculateEndpointErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed json", `{"minutes":`, http.StatusBadRequest, "INVALID_JSON"},
		{"missing minutes", `{"plan":"a"}`, http.StatusBadRequest, "INPUT_ERROR"},
		{"fractional minutes", `{"minutes":1.5,"plan":"a"}`, http.StatusBadRequest, "INPUT_ERROR"},
		{"too many minutes", `{"minutes":"2000000","plan":"a"}`, http.StatusBadRequest, "INPUT_ERROR"},
		{"missing plan", `{"minutes":"10"}`, http.StatusBadRequest, "INPUT_ERROR"},
		{"unknown plan", `{"minutes":"10","plan":"gold"}`, http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/calculate", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("Expected %d, got %d: %s", tt.status, rec.Code, rec.Body)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Error.Code != tt.code || resp.Error.Message == "" {
				t.Errorf("Expected code %s with a message, got %+v", tt.code, resp.Error)
			}
		})
	}
}

func TestReceiptEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/receipt", `{"minutes":"250","plan":"tariff-1","name":"Ivanov","address":"Moscow"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body)
	}

	if got := rec.Body.String(); got != "Ivanov|220,00|7" {
		t.Errorf("Unexpected document %q", got)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Unexpected content type %s", ct)
	}

	_, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	if err != nil {
		t.Fatalf("parse Content-Disposition: %v", err)
	}
	if params["filename"] != "Чек_7_01.02.2026.txt" {
		t.Errorf("Unexpected file name %q", params["filename"])
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("Expected a request id header")
	}
}

func TestReceiptEndpointErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"missing name", `{"minutes":"10","plan":"a","address":"Moscow"}`, http.StatusBadRequest},
		{"missing address", `{"minutes":"10","plan":"a","name":"Ivanov"}`, http.StatusBadRequest},
		{"bad minutes", `{"minutes":"x","plan":"a","name":"Ivanov","address":"Moscow"}`, http.StatusBadRequest},
		{"unsupported format", `{"minutes":"10","plan":"a","name":"Ivanov","address":"Moscow","format":"odt"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := do(t, s, http.MethodPost, "/receipt", tt.body); rec.Code != tt.status {
				t.Errorf("Expected %d, got %d: %s", tt.status, rec.Code, rec.Body)
			}
		})
	}
}

func TestPlansAndMetricsEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/plans", "")
	var plans PlansResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &plans); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(plans.Plans) != 2 || plans.Plans[0].Label != "Тариф 1" || plans.Plans[0].NormalRate != "0.7" {
		t.Errorf("Unexpected plans %+v", plans.Plans)
	}

	do(t, s, http.MethodPost, "/calculate", `{"minutes":"10","plan":"a"}`)

	rec = do(t, s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 from /metrics, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`phone_bill_calculations_total{plan="tariff-1"} 1`)) {
		t.Errorf("Expected calculation counter in metrics output")
	}
}

func TestHealthEndpoint(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"healthy"`) {
		t.Errorf("Unexpected health response %d %s", rec.Code, rec.Body)
	}
}

func TestReceiptEndpointHidesServerFaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "secret-dir", "ЧекШаблон.txt")
	s := newServerWithTemplate(t, missing)

	rec := do(t, s, http.MethodPost, "/receipt", `{"minutes":"10","plan":"a","name":"Ivanov","address":"Moscow"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500 for a missing template, got %d: %s", rec.Code, rec.Body)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("Expected INTERNAL_ERROR, got %s", resp.Error.Code)
	}
	if strings.Contains(rec.Body.String(), "secret-dir") {
		t.Errorf("Response leaks the template path: %s", rec.Body)
	}

	// An unknown plan is still the caller's mistake
	rec = do(t, s, http.MethodPost, "/receipt", `{"minutes":"10","plan":"gold","name":"Ivanov","address":"Moscow"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown plan, got %d", rec.Code)
	}
}
