package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/eugenenazirov/layered-configs/internal/metrics"
	"github.com/eugenenazirov/layered-configs/internal/properties"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Resolver is the configuration surface the HTTP handlers serve.
type Resolver interface {
	Bound() bool
	Lookup(key string) (properties.Value, properties.Source, error)
	Properties() (properties.Values, error)
	SetProperty(key string, value properties.Value) error
}

// Handler wires the property resolver into HTTP handlers.
type Handler struct {
	resolver Resolver
	metrics  *metrics.Collector

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithMetrics records lookups and writes on collector.
func WithMetrics(collector *metrics.Collector) HandlerOption {
	return func(h *Handler) {
		h.metrics = collector
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(resolver Resolver, opts ...HandlerOption) *Handler {
	h := &Handler{
		resolver: resolver,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:     "ok",
		Timestamp:  h.clock(),
		StoreBound: h.resolver.Bound(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListProperties(w http.ResponseWriter, r *http.Request) {
	_ = r
	values, err := h.resolver.Properties()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, propertiesResponse{Properties: values})
}

func (h *Handler) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	value, source, err := h.resolver.Lookup(key)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	h.metrics.ObserveLookup(source)

	if source == properties.SourceNone {
		writeError(w, http.StatusNotFound, "Property not found", fmt.Sprintf("no value configured for %q", key))
		return
	}

	writeJSON(w, http.StatusOK, propertyResponse{
		Key:    key,
		Value:  value,
		Source: source,
	})
}

func (h *Handler) handlePutProperty(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req propertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}
	if req.Value == nil || !properties.IsScalar(req.Value) {
		writeError(w, http.StatusBadRequest, "Invalid value", "value must be a string, number, or boolean")
		return
	}

	if err := h.resolver.SetProperty(key, normalizeJSONValue(req.Value)); err != nil {
		switch {
		case errors.Is(err, properties.ErrProtectedKey):
			h.metrics.ObserveWrite(metrics.WriteProtected)
			writeError(w, http.StatusForbidden, "Protected property", err.Error(),
				"Protected properties come from environment defaults and cannot be changed at runtime")
		case errors.Is(err, properties.ErrUnboundStore):
			h.metrics.ObserveWrite(metrics.WriteUnbound)
			writeError(w, http.StatusConflict, "Read-only configuration", err.Error(),
				"Configure a property store backend to enable writes")
		default:
			h.metrics.ObserveWrite(metrics.WriteError)
			writeInternalError(w, err)
		}
		return
	}
	h.metrics.ObserveWrite(metrics.WriteOK)

	value, source, err := h.resolver.Lookup(key)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, propertyResponse{
		Key:     key,
		Value:   value,
		Source:  source,
		Message: "Property updated successfully",
	})
}

// normalizeJSONValue turns integral JSON numbers into int64 so they round-trip
// through string-backed stores without a decimal point.
func normalizeJSONValue(v properties.Value) properties.Value {
	f, ok := v.(float64)
	if !ok {
		return v
	}
	if f == float64(int64(f)) && f >= -(1<<53) && f <= 1<<53 {
		return int64(f)
	}
	return f
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type propertyRequest struct {
	Value properties.Value `json:"value"`
}

type propertyResponse struct {
	Key     string            `json:"key"`
	Value   properties.Value  `json:"value"`
	Source  properties.Source `json:"source"`
	Message string            `json:"message,omitempty"`
}

type propertiesResponse struct {
	Properties properties.Values `json:"properties"`
}

type healthResponse struct {
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	StoreBound bool      `json:"storeBound"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
