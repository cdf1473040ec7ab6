package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/malwarebo/taskhub/throttle"
)

// Envelope is the fixed shape every JSON response body takes.
// For 2xx responses data is populated and errors is null; for anything
// else errors is populated and data is null. A 204 skips the body
// entirely.
type Envelope struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
	Errors     interface{} `json:"errors"`
	Meta       Meta        `json:"meta"`
}

type Meta struct {
	RequestID  string            `json:"request_id"`
	Timestamp  time.Time         `json:"timestamp"`
	RateLimits *throttle.Details `json:"rate_limits,omitempty"`
}

const (
	statusSucceeded = "succeeded"
	statusFailed    = "failed"
)

// Wrap shapes a payload into an envelope. The status field derives
// solely from whether the code is in the 2xx range; a 204 carries
// neither data nor errors.
func Wrap(payload interface{}, statusCode int, message string) Envelope {
	envelope := Envelope{
		Status:     statusSucceeded,
		StatusCode: statusCode,
		Message:    message,
		Meta: Meta{
			RequestID: uuid.NewString(),
			Timestamp: time.Now().UTC(),
		},
	}

	if statusCode == http.StatusNoContent {
		return envelope
	}

	if statusCode >= 200 && statusCode < 300 {
		envelope.Data = payload
	} else {
		envelope.Status = statusFailed
		envelope.Errors = payload
	}

	return envelope
}

// WriteEnvelope renders the envelope for a request, pulling the request
// id and any computed rate-limit details from the request context and
// mirroring throttle usage into response headers. A 204 writes an
// empty body.
func WriteEnvelope(w http.ResponseWriter, r *http.Request, payload interface{}, statusCode int, message string) {
	envelope := Wrap(payload, statusCode, message)

	if id := RequestIDFrom(r.Context()); id != "" {
		envelope.Meta.RequestID = id
	}

	details := RateLimitsFrom(r.Context())
	envelope.Meta.RateLimits = details
	throttle.AttachHeaders(w.Header(), details)

	if statusCode == http.StatusNoContent {
		w.Header().Set("Content-Length", "0")
		w.WriteHeader(statusCode)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// WriteSuccess renders a 2xx envelope with the payload under data.
func WriteSuccess(w http.ResponseWriter, r *http.Request, data interface{}, statusCode int, message string) {
	WriteEnvelope(w, r, data, statusCode, message)
}

// WriteFailure renders a non-2xx envelope with the payload under
// errors.
func WriteFailure(w http.ResponseWriter, r *http.Request, errs interface{}, statusCode int, message string) {
	WriteEnvelope(w, r, errs, statusCode, message)
}

// DetailError is the {detail: string} error body used for simple
// failures.
type DetailError struct {
	Detail string `json:"detail"`
}

// RetryError is the 429 error body carrying the wait hint in seconds.
type RetryError struct {
	Detail     string `json:"detail"`
	RetryAfter int    `json:"retry_after"`
}
