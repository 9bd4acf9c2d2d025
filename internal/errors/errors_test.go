package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	err := NotFound("list not found")
	if !Is(err, ErrNotFound) {
		t.Error("custom-message not-found error should match the sentinel")
	}
	if Is(err, ErrOffline) {
		t.Error("not-found error must not match the offline sentinel")
	}
}

func TestIsMatchesThroughWrapping(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := fmt.Errorf("fetch statuses: %w", Offline("no connection, changes cannot be saved", cause))

	if !Is(err, ErrOffline) {
		t.Error("wrapped offline error should match the sentinel")
	}
	if Unwrap(Unwrap(err)) != cause {
		t.Error("cause should survive unwrapping")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeValidation, http.StatusBadRequest},
		{CodeInvalidCode, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeOffline, http.StatusServiceUnavailable},
		{CodeConflict, http.StatusConflict},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := tt.code.HTTPStatus(); got != tt.want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Internal("load cache", fmt.Errorf("disk full"))
	if got := err.Error(); got != "load cache: disk full" {
		t.Errorf("Error() = %q", got)
	}
}
