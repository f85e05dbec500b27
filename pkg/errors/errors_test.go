package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestConstructorStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("Booking"), CodeNotFound, http.StatusNotFound},
		{"not found with id", NotFoundWithID("Resource", "abc"), CodeNotFound, http.StatusNotFound},
		{"invalid input", InvalidInput("end_at must be after start_at"), CodeInvalidInput, http.StatusBadRequest},
		{"invalid state", InvalidState("resource is inactive"), CodeInvalidState, http.StatusUnprocessableEntity},
		{"conflict", Conflict("overlapping booking"), CodeConflict, http.StatusConflict},
		{"validation", Validation("bad payload", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"internal", Internal("boom", errors.New("cause")), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("too slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("mongo"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.code)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.status)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("query failed", cause)

	if !errors.Is(err, cause) {
		t.Error("Internal must wrap its cause for errors.Is")
	}
}

func TestAsAppError_PassesThrough(t *testing.T) {
	original := Conflict("slot taken")
	if got := AsAppError(original); got != original {
		t.Error("AsAppError must return the same *AppError unchanged")
	}
}

func TestAsAppError_WrapsUnknown(t *testing.T) {
	got := AsAppError(errors.New("raw driver error"))
	if got.Code != CodeInternal {
		t.Errorf("unknown errors must wrap as internal, got %s", got.Code)
	}
	if got.Message == "raw driver error" {
		t.Error("raw error text must not leak into the client-facing message")
	}
}

func TestWithDetails(t *testing.T) {
	err := InvalidInput("bad date").WithDetails(map[string]any{"field": "date"})
	if err.Details["field"] != "date" {
		t.Errorf("details not attached: %v", err.Details)
	}
}
