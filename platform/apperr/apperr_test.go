package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want int
	}{
		{"not found", KindNotFound, http.StatusNotFound},
		{"validation", KindValidation, http.StatusBadRequest},
		{"precondition", KindPrecondition, http.StatusUnprocessableEntity},
		{"conflict", KindConflict, http.StatusConflict},
		{"forbidden", KindForbidden, http.StatusForbidden},
		{"unauthorized", KindUnauthorized, http.StatusUnauthorized},
		{"bad request", KindBadRequest, http.StatusBadRequest},
		{"timeout", KindTimeout, http.StatusGatewayTimeout},
		{"internal", KindInternal, http.StatusInternalServerError},
		{"unknown", KindUnknown, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.kind, "boom").HTTPStatus()
			if got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWrapPreservesUnderlyingError(t *testing.T) {
	underlying := errors.New("connection refused")
	err := Wrap(KindInternal, "failed to load lead", underlying)

	if !errors.Is(err, underlying) {
		t.Error("wrapped error must unwrap to the underlying error")
	}
	if err.Error() != "failed to load lead" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.WithOp("leads.GetByID").Error() != "leads.GetByID: failed to load lead" {
		t.Errorf("Error() with op = %q", err.Error())
	}
}

func TestKindHelpers(t *testing.T) {
	err := Precondition("lead is already closed")
	if GetKind(err) != KindPrecondition {
		t.Errorf("GetKind() = %v, want KindPrecondition", GetKind(err))
	}
	if !Is(err, KindPrecondition) {
		t.Error("Is() must match the error's kind")
	}
	if Is(errors.New("plain"), KindPrecondition) {
		t.Error("Is() must not match plain errors")
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Error("plain errors map to KindUnknown")
	}
}

func TestWithDetailsCarriesFieldErrors(t *testing.T) {
	fields := map[string]string{"customerName": "customer name is required"}
	err := Validation("validation failed").WithDetails(fields)

	got, ok := err.Details.(map[string]string)
	if !ok {
		t.Fatalf("Details type = %T", err.Details)
	}
	if got["customerName"] != "customer name is required" {
		t.Error("details must carry the field error map unchanged")
	}
}
