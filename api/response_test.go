package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/malwarebo/taskhub/throttle"
)

func TestWrap_Success(t *testing.T) {
	envelope := Wrap(map[string]string{"title": "Buy milk"}, http.StatusOK, "Todo created successfully")

	if envelope.Status != "succeeded" {
		t.Errorf("Wrap() status = %q, want %q", envelope.Status, "succeeded")
	}
	if envelope.StatusCode != http.StatusOK {
		t.Errorf("Wrap() status_code = %d, want %d", envelope.StatusCode, http.StatusOK)
	}
	if envelope.Data == nil {
		t.Error("Wrap() data is nil, want payload")
	}
	if envelope.Errors != nil {
		t.Errorf("Wrap() errors = %v, want nil", envelope.Errors)
	}
	if envelope.Meta.RequestID == "" {
		t.Error("Wrap() meta.request_id is empty")
	}
	if envelope.Meta.Timestamp.IsZero() {
		t.Error("Wrap() meta.timestamp is zero")
	}
}

func TestWrap_Failure(t *testing.T) {
	envelope := Wrap(DetailError{Detail: "Todo not found"}, http.StatusNotFound, "Todo retrieve request failed")

	if envelope.Status != "failed" {
		t.Errorf("Wrap() status = %q, want %q", envelope.Status, "failed")
	}
	if envelope.Errors == nil {
		t.Error("Wrap() errors is nil, want payload")
	}
	if envelope.Data != nil {
		t.Errorf("Wrap() data = %v, want nil", envelope.Data)
	}
}

func TestWrap_NoContent(t *testing.T) {
	envelope := Wrap(nil, http.StatusNoContent, "Todo deleted successfully")

	if envelope.Status != "succeeded" {
		t.Errorf("Wrap() status = %q, want %q", envelope.Status, "succeeded")
	}
	if envelope.Data != nil || envelope.Errors != nil {
		t.Errorf("Wrap() data = %v, errors = %v, want both nil", envelope.Data, envelope.Errors)
	}
}

func TestWriteEnvelope_Success(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/todos/1", nil)
	w := httptest.NewRecorder()

	WriteSuccess(w, req, map[string]string{"title": "Buy milk"}, http.StatusOK, "Todo retrieve request was successful")

	if w.Code != http.StatusOK {
		t.Fatalf("WriteSuccess() code = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want %q", got, "application/json")
	}

	var envelope struct {
		Status     string            `json:"status"`
		StatusCode int               `json:"status_code"`
		Message    string            `json:"message"`
		Data       map[string]string `json:"data"`
		Errors     interface{}       `json:"errors"`
		Meta       struct {
			RequestID string `json:"request_id"`
		} `json:"meta"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if envelope.Status != "succeeded" {
		t.Errorf("status = %q, want %q", envelope.Status, "succeeded")
	}
	if envelope.StatusCode != http.StatusOK {
		t.Errorf("status_code = %d, want %d", envelope.StatusCode, http.StatusOK)
	}
	if envelope.Data["title"] != "Buy milk" {
		t.Errorf("data.title = %q, want %q", envelope.Data["title"], "Buy milk")
	}
	if envelope.Errors != nil {
		t.Errorf("errors = %v, want null", envelope.Errors)
	}
	if envelope.Meta.RequestID == "" {
		t.Error("meta.request_id is empty")
	}
}

func TestWriteEnvelope_NoContentBody(t *testing.T) {
	req := httptest.NewRequest("DELETE", "/api/v1/todos/1", nil)
	w := httptest.NewRecorder()

	WriteEnvelope(w, req, nil, http.StatusNoContent, "Todo deleted successfully")

	if w.Code != http.StatusNoContent {
		t.Fatalf("WriteEnvelope() code = %d, want %d", w.Code, http.StatusNoContent)
	}
	if w.Body.Len() != 0 {
		t.Errorf("WriteEnvelope() body = %q, want empty", w.Body.String())
	}
	if got := w.Header().Get("Content-Length"); got != "0" {
		t.Errorf("Content-Length = %q, want %q", got, "0")
	}
}

func TestWriteEnvelope_RequestIDFromContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/todos", nil)
	req = req.WithContext(WithRequestID(req.Context(), "req-abc-123"))
	w := httptest.NewRecorder()

	WriteSuccess(w, req, nil, http.StatusOK, "ok")

	var envelope struct {
		Meta struct {
			RequestID string `json:"request_id"`
		} `json:"meta"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Meta.RequestID != "req-abc-123" {
		t.Errorf("meta.request_id = %q, want %q", envelope.Meta.RequestID, "req-abc-123")
	}
}

func TestWriteEnvelope_RateLimitsInMetaAndHeaders(t *testing.T) {
	reset := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	details := &throttle.Details{
		Throttles: map[string]throttle.Usage{
			"anon": {Limit: 100, Remaining: 99, ResetTime: reset, RetryAfter: 60},
		},
	}

	req := httptest.NewRequest("GET", "/api/v1/todos", nil)
	req = req.WithContext(WithRateLimits(req.Context(), details))
	w := httptest.NewRecorder()

	WriteSuccess(w, req, nil, http.StatusOK, "ok")

	if got := w.Header().Get("X-Throttle-anon-Limit"); got != "100" {
		t.Errorf("X-Throttle-anon-Limit = %q, want %q", got, "100")
	}
	if got := w.Header().Get("X-Throttle-anon-Remaining"); got != "99" {
		t.Errorf("X-Throttle-anon-Remaining = %q, want %q", got, "99")
	}

	var envelope struct {
		Meta struct {
			RateLimits *throttle.Details `json:"rate_limits"`
		} `json:"meta"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Meta.RateLimits == nil {
		t.Fatal("meta.rate_limits missing")
	}
	if got := envelope.Meta.RateLimits.Throttles["anon"].Remaining; got != 99 {
		t.Errorf("meta.rate_limits.throttles.anon.remaining = %d, want 99", got)
	}
}

func TestWriteEnvelope_NoRateLimitsOmitsMeta(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/todos", nil)
	w := httptest.NewRecorder()

	WriteSuccess(w, req, nil, http.StatusOK, "ok")

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	var meta map[string]json.RawMessage
	if err := json.Unmarshal(raw["meta"], &meta); err != nil {
		t.Fatalf("decode meta: %v", err)
	}
	if _, ok := meta["rate_limits"]; ok {
		t.Error("meta.rate_limits present, want omitted")
	}
}
