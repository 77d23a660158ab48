package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// TestGRPCStatusCarriesReason ensures handlers can return *Error directly.
func TestGRPCStatusCarriesReason(t *testing.T) {
	err := WithMetadata(CodeRollTextTooLong, "roll text is too long", map[string]string{"max_runes": "2000"})

	st, ok := status.FromError(err)
	if !ok {
		t.Fatal("expected status conversion")
	}
	if st.Code() != codes.InvalidArgument {
		t.Fatalf("code = %s, want %s", st.Code(), codes.InvalidArgument)
	}
	if st.Message() != "roll text is too long" {
		t.Fatalf("message = %q", st.Message())
	}
	reason, ok := ReasonFromStatus(st)
	if !ok || reason != CodeRollTextTooLong {
		t.Fatalf("reason = %q (%v), want %q", reason, ok, CodeRollTextTooLong)
	}
}

func TestGRPCCodeMapping(t *testing.T) {
	tests := map[Code]codes.Code{
		CodeRollRequestMissing: codes.InvalidArgument,
		CodeRollTextTooLong:    codes.InvalidArgument,
		CodeSeedUnavailable:    codes.Unavailable,
		CodeRollerUnavailable:  codes.Internal,
		CodeUnknown:            codes.Internal,
	}
	for code, want := range tests {
		if got := code.GRPCCode(); got != want {
			t.Fatalf("%s.GRPCCode() = %s, want %s", code, got, want)
		}
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("entropy exhausted")
	err := Wrap(CodeSeedUnavailable, "generate seed", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause")
	}
	if !stderrors.Is(err, New(CodeSeedUnavailable, "other message")) {
		t.Fatal("expected errors with the same code to match")
	}
	if err.Error() != "generate seed: entropy exhausted" {
		t.Fatalf("error = %q", err.Error())
	}
}

func TestReasonFromStatusWithoutDetails(t *testing.T) {
	if _, ok := ReasonFromStatus(nil); ok {
		t.Fatal("expected no reason for nil status")
	}
	if _, ok := ReasonFromStatus(status.New(codes.Internal, "plain")); ok {
		t.Fatal("expected no reason without details")
	}
}
