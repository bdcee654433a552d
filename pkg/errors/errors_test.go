package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	plain := New(ErrCodeInvalidYear, "year %d before 1200", 1100)
	if got, want := plain.Error(), "INVALID_YEAR: year 1100 before 1200"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := errors.New("no such sheet")
	wrapped := Wrap(ErrCodeFileNotFound, cause, "families %s", "ledger.csv")
	if got, want := wrapped.Error(), "FILE_NOT_FOUND: families ledger.csv: no such sheet"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("wrapped error lost its cause")
	}
}

func TestChainLookups(t *testing.T) {
	inner := New(ErrCodeFamilyNotFound, "no family Uberti")
	outer := fmt.Errorf("state: %w", inner)
	recoded := Wrap(ErrCodeInvalidInput, inner, "bad request")

	tests := []struct {
		name string
		err  error
		code Code
		msg  string
	}{
		{"direct", inner, ErrCodeFamilyNotFound, "no family Uberti"},
		{"fmt wrapped", outer, ErrCodeFamilyNotFound, "no family Uberti"},
		{"outermost wins", recoded, ErrCodeInvalidInput, "bad request"},
		{"uncoded", errors.New("disk full"), "", "disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if got := UserMessage(tt.err); got != tt.msg {
				t.Errorf("UserMessage = %q, want %q", got, tt.msg)
			}
		})
	}

	if Is(nil, ErrCodeInvalidInput) || GetCode(nil) != "" {
		t.Error("nil error should carry no code")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := map[Code]int{
		ErrCodeInvalidInput:   400,
		ErrCodeInvalidYear:    400,
		ErrCodeInvalidFormat:  400,
		ErrCodeInvalidFamily:  400,
		ErrCodeNotFound:       404,
		ErrCodeFamilyNotFound: 404,
		ErrCodeFileNotFound:   404,
		ErrCodeUnsupported:    405,
		ErrCodeRateLimited:    429,
		ErrCodeInternal:       500,
		"":                    500,
		"SOMETHING_NEW":       500,
	}
	for code, want := range tests {
		if got := HTTPStatus(code); got != want {
			t.Errorf("HTTPStatus(%q) = %d, want %d", code, got, want)
		}
	}
}
