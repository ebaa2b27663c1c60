package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindUnknown, "unknown error"},
		{KindNotFound, "not found"},
		{KindInvalid, "invalid"},
		{KindIO, "I/O error"},
		{KindNetwork, "network error"},
		{KindRejected, "request rejected"},
		{KindDecode, "decode error"},
		{KindConfig, "configuration error"},
		{KindTimeout, "timeout"},
		{Kind(999), "unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("Kind.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "with op and context",
			err:      &Error{Op: "test.Op", Context: "some context", Err: errors.New("underlying error")},
			expected: "test.Op: some context: underlying error",
		},
		{
			name:     "with op only",
			err:      &Error{Op: "test.Op", Err: errors.New("underlying error")},
			expected: "test.Op: underlying error",
		},
		{
			name:     "without op",
			err:      &Error{Err: errors.New("underlying error")},
			expected: "underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestE(t *testing.T) {
	tests := []struct {
		name       string
		args       []interface{}
		wantOp     Op
		wantKind   Kind
		wantStatus Status
	}{
		{
			name:     "with all args",
			args:     []interface{}{Op("test.Op"), KindNotFound, "context", errors.New("error")},
			wantOp:   "test.Op",
			wantKind: KindNotFound,
		},
		{
			name:       "with status",
			args:       []interface{}{Op("backend.Chat"), KindRejected, Status(502), "bad gateway"},
			wantOp:     "backend.Chat",
			wantKind:   KindRejected,
			wantStatus: 502,
		},
		{
			name:     "with just error",
			args:     []interface{}{errors.New("simple error")},
			wantKind: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := E(tt.args...)
			e, ok := err.(*Error)
			if !ok {
				t.Fatalf("E() returned %T, want *Error", err)
			}
			if e.Op != tt.wantOp {
				t.Errorf("E().Op = %q, want %q", e.Op, tt.wantOp)
			}
			if e.Kind != tt.wantKind {
				t.Errorf("E().Kind = %v, want %v", e.Kind, tt.wantKind)
			}
			if e.Status != tt.wantStatus {
				t.Errorf("E().Status = %d, want %d", e.Status, tt.wantStatus)
			}
			if e.Err == nil {
				t.Error("E().Err should never be nil")
			}
		})
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     Kind
		expected bool
	}{
		{"matching kind", E(Op("test"), KindNotFound, "not found"), KindNotFound, true},
		{"non-matching kind", E(Op("test"), KindNotFound, "not found"), KindInvalid, false},
		{"plain error", errors.New("regular error"), KindNotFound, false},
		{"nil error", nil, KindNotFound, false},
		{"wrapped error", fmt.Errorf("wrapped: %w", E(Op("test"), KindTimeout, "timeout")), KindTimeout, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.kind); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRequestRejected(t *testing.T) {
	err := RequestRejected(Op("backend.Chat"), "http://localhost/chat", 500)

	if !Is(err, KindRejected) {
		t.Error("RequestRejected should return KindRejected error")
	}
	if got := GetStatus(err); got != 500 {
		t.Errorf("GetStatus() = %d, want 500", got)
	}
}

func TestRequestFailed(t *testing.T) {
	underlying := errors.New("connection refused")
	err := RequestFailed(Op("backend.Chat"), "http://localhost/chat", underlying)

	if !Is(err, KindNetwork) {
		t.Error("RequestFailed should return KindNetwork error")
	}
	if !errors.Is(err, underlying) {
		t.Error("RequestFailed should wrap the underlying error")
	}
	if GetStatus(err) != 0 {
		t.Error("RequestFailed should not carry a status")
	}
}

func TestDraftErrors(t *testing.T) {
	if !Is(DraftEmpty(), KindInvalid) {
		t.Error("DraftEmpty should return KindInvalid error")
	}
	underlying := errors.New("read-only file system")
	err := DraftSaveFailed("/tmp/RTI_Draft.txt", underlying)
	if !Is(err, KindIO) {
		t.Error("DraftSaveFailed should return KindIO error")
	}
	if !errors.Is(err, underlying) {
		t.Error("DraftSaveFailed should wrap the underlying error")
	}
}

func TestErrorChaining(t *testing.T) {
	innerErr := errors.New("original error")
	middleErr := E(Op("middle.Op"), KindIO, innerErr)
	outerErr := E(Op("outer.Op"), KindConfig, middleErr)

	if !errors.Is(outerErr, innerErr) {
		t.Error("Should be able to find inner error through chain")
	}
	if GetKind(outerErr) != KindConfig {
		t.Error("GetKind should return outer error's kind")
	}
}
