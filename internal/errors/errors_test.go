package errors

import (
	"strings"
	"testing"
	"time"
)

func TestSeverityString(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.severity.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.severity, got, tt.want)
		}
	}
}

func TestBackendErrorFormatting(t *testing.T) {
	err := NewBackendError("stream failed", ErrEmptyResponse).
		WithBackendID("openai/gpt-oss-120b:free").
		WithRole("critic").
		WithStatus(429)

	got := err.Error()
	for _, part := range []string{
		"backend=openai/gpt-oss-120b:free",
		"role=critic",
		"status=429",
		"stream failed",
		"empty response",
	} {
		if !strings.Contains(got, part) {
			t.Errorf("Error() = %q, missing %q", got, part)
		}
	}

	bare := NewBackendError("stream failed", nil)
	if got := bare.Error(); got != "backend error: stream failed" {
		t.Errorf("bare Error() = %q", got)
	}
}

func TestBackendErrorMatching(t *testing.T) {
	err := NewBackendError("stream failed", ErrEmptyResponse).WithBackendID("b0")

	if !Is(err, ErrEmptyResponse) {
		t.Error("Is should match through the cause")
	}
	if !Is(err, &BackendError{}) {
		t.Error("Is should match the BackendError type")
	}
	if Is(err, ErrTimeout) {
		t.Error("Is matched an unrelated sentinel")
	}

	var bErr *BackendError
	if !As(err, &bErr) || bErr.BackendID != "b0" {
		t.Errorf("As = %v, backend = %q", As(err, &bErr), bErr.BackendID)
	}
}

func TestSessionErrorFormatting(t *testing.T) {
	err := NewSessionError("cannot resume", ErrSessionNotPaused).
		WithSessionID("abc123").
		WithState("running")

	got := err.Error()
	if !strings.Contains(got, "session=abc123") || !strings.Contains(got, "state=running") {
		t.Errorf("Error() = %q, missing context", got)
	}
	if !Is(err, ErrSessionNotPaused) {
		t.Error("Is should match through the cause")
	}
}

func TestValidationErrorMatchesInvalidInput(t *testing.T) {
	err := NewValidationError("proposal too long").
		WithField("proposal").
		WithValue(4001).
		WithCause(ErrProposalTooLong)

	if !Is(err, ErrInvalidInput) {
		t.Error("every validation error should match ErrInvalidInput")
	}
	if !Is(err, ErrProposalTooLong) {
		t.Error("Is should match through the cause")
	}
	got := err.Error()
	if !strings.Contains(got, "field=proposal") || !strings.Contains(got, "value=4001") {
		t.Errorf("Error() = %q, missing context", got)
	}
}

func TestTimeoutErrorMatchesTimeout(t *testing.T) {
	err := NewTimeoutError("conclusion generation", 2*time.Minute).WithCause(ErrCanceled)

	if !Is(err, ErrTimeout) {
		t.Error("every timeout error should match ErrTimeout")
	}
	got := err.Error()
	if !strings.Contains(got, "conclusion generation") || !strings.Contains(got, "2m0s") {
		t.Errorf("Error() = %q", got)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"backend error default", NewBackendError("stream failed", nil), true},
		{"backend error marked permanent", NewBackendError("unauthorized", nil).WithRetryable(false), false},
		{"timeout sentinel", Wrap(ErrTimeout, "turn"), true},
		{"empty response sentinel", ErrEmptyResponse, true},
		{"plain error", New("boom"), false},
		{"session error", NewSessionError("cannot pause", ErrSessionNotRunning), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"backend error", NewBackendError("upstream returned 429", nil), true},
		{"validation error", NewValidationError("empty proposal"), true},
		{"plain error", New("dial tcp: connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestGetSeverity(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Severity
	}{
		{"nil", nil, SeverityDebug},
		{"backend error", NewBackendError("stream failed", nil), SeverityWarning},
		{"session error", NewSessionError("cannot pause", ErrSessionNotRunning), SeverityWarning},
		{"plain error", New("boom"), SeverityError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetSeverity(tt.err); got != tt.want {
				t.Errorf("GetSeverity(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should be nil")
	}
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("Wrapf(nil) should be nil")
	}

	err := Wrap(ErrMissingCredential, "PERPLEXITY_API_KEY")
	if got := err.Error(); got != "PERPLEXITY_API_KEY: required credential not configured" {
		t.Errorf("Wrap message = %q", got)
	}
	if !Is(err, ErrMissingCredential) {
		t.Error("Wrap should preserve the sentinel")
	}

	err = Wrapf(ErrBackendsExhausted, "%s after %d attempts", "critic", 16)
	if !strings.HasPrefix(err.Error(), "critic after 16 attempts: ") {
		t.Errorf("Wrapf message = %q", err.Error())
	}
	if !Is(err, ErrBackendsExhausted) {
		t.Error("Wrapf should preserve the sentinel")
	}
}
