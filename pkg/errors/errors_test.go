package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusUnprocessableEntity, publicMsg: "validation failed", detailsOK: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeStorage, status: http.StatusInternalServerError, publicMsg: "file storage failed", retryable: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing url")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing url" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	fields := FieldErrors{"url": "is required"}
	base.WithDetails(fields)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("disk full")
	wrapped := Wrap(CodeStorage, cause, "write upload")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeStorage {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeNotFound, "media missing")
	if typed := As(err); typed == nil || typed.Code() != CodeNotFound {
		t.Fatalf("As failed to recover typed error")
	}
	if typed := As(stdErrors.New("plain")); typed != nil {
		t.Fatalf("As should return nil for untyped errors")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should be nil")
	}
}

func TestIsCode(t *testing.T) {
	err := Wrap(CodeNotFound, stdErrors.New("gone"), "lookup media")
	if !IsCode(err, CodeNotFound) {
		t.Fatalf("expected IsCode to match NOT_FOUND")
	}
	if IsCode(err, CodeValidation) {
		t.Fatalf("IsCode matched the wrong code")
	}
	if IsCode(stdErrors.New("plain"), CodeNotFound) {
		t.Fatalf("IsCode matched an untyped error")
	}
}

func TestFieldErrorsHasErrors(t *testing.T) {
	var empty FieldErrors
	if empty.HasErrors() {
		t.Fatalf("empty map should report no errors")
	}
	if !(FieldErrors{"order": "is negative"}).HasErrors() {
		t.Fatalf("populated map should report errors")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	cause := stdErrors.New("root")
	err := Wrap(CodeDependency, cause, "outer")

	d := Dump(err)
	if d.Code != CodeDependency {
		t.Fatalf("unexpected code %s", d.Code)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected unwrap chain of 2, got %d", len(d.Chain))
	}
	if Dump(nil).TopMessage != "" {
		t.Fatalf("Dump(nil) should be empty")
	}
}
