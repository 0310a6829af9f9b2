// Package httpapi provides the REST HTTP adapter for the server surfaces.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/evanschultz/rota/internal/adapters/export"
	"github.com/evanschultz/rota/internal/adapters/server/common"
)

// maxRequestBodyBytes limits decoded JSON payload size for fail-closed request handling.
const maxRequestBodyBytes int64 = 1 << 20

// Handler serves the versioned API subrouter mounted under `/api/v1`.
type Handler struct {
	rotation common.RotationService
}

// APIError represents one structured API failure response.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Hint    string         `json:"hint,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

// ErrorEnvelope wraps one structured API error.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewHandler constructs one HTTP API adapter over the rotation service.
func NewHandler(rotation common.RotationService) *Handler {
	return &Handler{rotation: rotation}
}

// ServeHTTP routes one versioned API request to the matching handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.rotation == nil {
		writeJSONError(w, http.StatusServiceUnavailable, APIError{
			Code:    "service_unavailable",
			Message: "rotation service is not configured",
		})
		return
	}
	path := normalizePath(r.URL.Path)
	switch path {
	case "assign":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}
		h.handleAssign(w, r)
		return
	case "history":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleHistory(w, r)
		return
	case "week/reset":
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w, http.MethodPost)
			return
		}
		h.handleResetWeek(w, r)
		return
	case "availability":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleAvailability(w, r)
		return
	}

	day, ok := resolvePlanDay(path)
	if !ok {
		writeJSONError(w, http.StatusNotFound, APIError{
			Code:    "not_found",
			Message: "endpoint not found",
		})
		return
	}
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	h.handlePlan(w, r, day)
}

// handleAssign serves POST `/assign`.
func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	var req common.AssignRequest
	if err := decodeJSONBody(r.Context(), w, r, &req); err != nil {
		writeErrorFrom(w, err)
		return
	}
	plan, err := h.rotation.AssignDay(r.Context(), req)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

// handlePlan serves GET `/plans/{day}`, optionally as CSV via `?format=csv`.
func (h *Handler) handlePlan(w http.ResponseWriter, r *http.Request, day string) {
	format := export.FormatJSON
	if raw := strings.TrimSpace(r.URL.Query().Get("format")); raw != "" {
		parsed, err := export.ParseFormat(raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, APIError{
				Code:    "invalid_request",
				Message: err.Error(),
				Hint:    "Use format=json or format=csv.",
			})
			return
		}
		format = parsed
	}

	plan, err := h.rotation.Plan(r.Context(), day)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	if format == export.FormatJSON {
		writeJSON(w, http.StatusOK, plan)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(plan.Day, format)))
	w.WriteHeader(http.StatusOK)
	_ = export.WriteCSV(w, plan.AssignmentPlan)
}

// handleHistory serves GET `/history`.
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.rotation.History(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// handleResetWeek serves POST `/week/reset`.
func (h *Handler) handleResetWeek(w http.ResponseWriter, r *http.Request) {
	reset, err := h.rotation.ResetWeek(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reset)
}

// handleAvailability serves GET `/availability`.
func (h *Handler) handleAvailability(w http.ResponseWriter, r *http.Request) {
	rows, err := h.rotation.Availability(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"workers": rows,
	})
}

// resolvePlanDay parses `/plans/{day}` and returns `{day}`.
func resolvePlanDay(path string) (string, bool) {
	const prefix = "plans/"
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	day := strings.TrimSpace(strings.TrimPrefix(path, prefix))
	if day == "" || strings.Contains(day, "/") {
		return "", false
	}
	return day, true
}

// normalizePath canonicalizes one request path for route matching.
func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	path = strings.Trim(path, "/")
	return path
}

// writeErrorFrom maps adapter errors into structured HTTP responses.
func writeErrorFrom(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: "unknown error",
		})
	case errors.Is(err, common.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, APIError{
			Code:    "not_found",
			Message: err.Error(),
			Hint:    "Assign the day first with POST /assign.",
		})
	case errors.Is(err, common.ErrNothingToAssign):
		writeJSONError(w, http.StatusUnprocessableEntity, APIError{
			Code:    "nothing_to_assign",
			Message: err.Error(),
		})
	case errors.Is(err, common.ErrInvalidRequest):
		writeJSONError(w, http.StatusBadRequest, APIError{
			Code:    "invalid_request",
			Message: err.Error(),
		})
	default:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: err.Error(),
		})
	}
}

// writeMethodNotAllowed writes a structured 405 response with `Allow` headers.
func writeMethodNotAllowed(w http.ResponseWriter, methods ...string) {
	if len(methods) > 0 {
		w.Header().Set("Allow", strings.Join(methods, ", "))
	}
	writeJSONError(w, http.StatusMethodNotAllowed, APIError{
		Code:    "method_not_allowed",
		Message: "method not allowed",
	})
}

// writeJSONError writes one structured error envelope.
func writeJSONError(w http.ResponseWriter, statusCode int, apiErr APIError) {
	writeJSON(w, statusCode, ErrorEnvelope{Error: apiErr})
}

// writeJSON writes one JSON response envelope.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":{"code":"encode_error","message":"%s"}}`, err.Error()), http.StatusInternalServerError)
	}
}

// decodeJSONBody decodes one JSON request body with strict shape checks.
func decodeJSONBody(ctx context.Context, w http.ResponseWriter, r *http.Request, out any) error {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	defer reader.Close()

	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode request body: %w", errors.Join(common.ErrInvalidRequest, err))
	}
	// Reject trailing payloads so malformed JSON bodies fail closed.
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode request body: trailing content: %w", common.ErrInvalidRequest)
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("request canceled: %w", ctx.Err())
	default:
		return nil
	}
}
