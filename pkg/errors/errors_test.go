package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNodeNotFound, "no node with id %q", "42")

	if err.Code != ErrCodeNodeNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNodeNotFound)
	}

	if err.Message != `no node with id "42"` {
		t.Errorf("Message = %v", err.Message)
	}

	expected := `NODE_NOT_FOUND: no node with id "42"`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := Wrap(ErrCodeFormat, cause, "decode snapshot")

	if err.Code != ErrCodeFormat {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeFormat)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeEdgeNotFound, "test"),
			code:     ErrCodeEdgeNotFound,
			expected: true,
		},
		{
			name:     "different code",
			err:      New(ErrCodeEdgeNotFound, "test"),
			code:     ErrCodeNodeNotFound,
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			code:     ErrCodeFormat,
			expected: false,
		},
		{
			name:     "wrapped structured error",
			err:      Wrap(ErrCodeStorage, New(ErrCodeFormat, "inner"), "outer"),
			code:     ErrCodeStorage,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeFormatVersion, "v9")); got != ErrCodeFormatVersion {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeFormatVersion)
	}
	if got := GetCode(errors.New("plain")); got != Code("") {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidEdge, "edge endpoints must differ")
	if got := UserMessage(err); got != "edge endpoints must differ" {
		t.Errorf("UserMessage() = %v", got)
	}
	plain := errors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %v", got)
	}
}

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"numbered node", "42", false},
		{"town id", "fort_istra", false},
		{"special area id", "fw_ice_fields", false},
		{"name with spaces", "Room of Columns", false},
		{"empty", "", true},
		{"control character", "node\x00id", true},
		{"leading underscore", "_hidden", true},
		{"slash", "a/b", true},
		{"too long", string(make([]byte, 70)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidNodeID {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidNodeID)
			}
		})
	}
}

func TestValidatePosition(t *testing.T) {
	const w, h = 3000, 4511

	if err := ValidatePosition(1500, 2000, w, h); err != nil {
		t.Errorf("in-bounds position rejected: %v", err)
	}
	if err := ValidatePosition(-1, 10, w, h); err == nil {
		t.Error("negative x accepted")
	}
	if err := ValidatePosition(10, 5000, w, h); err == nil {
		t.Error("y beyond map height accepted")
	}
}
