package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := New(CodeDecisionNotFound, "decision d-1 not found")
	target := New(CodeDecisionNotFound, "different message")

	if !stderrors.Is(err, target) {
		t.Fatal("expected errors with the same code to match")
	}

	other := New(CodeMessageNotFound, "message m-1 not found")
	if stderrors.Is(err, other) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk unplugged")
	err := Wrap(CodeUnknown, "load decision", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
}

func TestGetCode(t *testing.T) {
	err := fmt.Errorf("handler: %w", New(CodeDecisionSuperseded, "cannot reopen"))
	if got := GetCode(err); got != CodeDecisionSuperseded {
		t.Fatalf("expected code %q, got %q", CodeDecisionSuperseded, got)
	}
	if got := GetCode(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("expected CodeUnknown for plain error, got %q", got)
	}
}

func TestGRPCCodeMapping(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeDecisionTitleEmpty, codes.InvalidArgument},
		{CodeDecisionNotFound, codes.NotFound},
		{CodeMessageAlreadyDecision, codes.AlreadyExists},
		{CodeDecisionSuperseded, codes.FailedPrecondition},
		{CodeDecisionHasSuccessor, codes.FailedPrecondition},
		{CodeSupersedeRoleRequired, codes.PermissionDenied},
		{CodeCredentialsInvalid, codes.Unauthenticated},
		{CodeUnknown, codes.Internal},
	}
	for _, tc := range tests {
		if got := tc.code.GRPCCode(); got != tc.want {
			t.Fatalf("code %q mapped to %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(CodeDecisionNotFound, "missing"), http.StatusNotFound},
		{New(CodeMessageAlreadyDecision, "dup"), http.StatusConflict},
		{New(CodeDecisionHasSuccessor, "chained"), http.StatusConflict},
		{New(CodeSupersedeRoleRequired, "member"), http.StatusForbidden},
		{New(CodeDecisionTitleEmpty, "blank"), http.StatusBadRequest},
		{New(CodeTokenInvalid, "expired"), http.StatusUnauthorized},
		{stderrors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestToGRPCStatusCarriesReason(t *testing.T) {
	err := WithMetadata(CodeDecisionAlreadyClosed, "cannot supersede a closed decision", map[string]string{
		"decision_id": "d-1",
	})

	st, ok := status.FromError(err.ToGRPCStatus())
	if !ok {
		t.Fatal("expected a grpc status error")
	}
	if st.Code() != codes.FailedPrecondition {
		t.Fatalf("expected FailedPrecondition, got %v", st.Code())
	}
	if st.Message() != "cannot supersede a closed decision" {
		t.Fatalf("unexpected status message %q", st.Message())
	}
	if len(st.Details()) == 0 {
		t.Fatal("expected error details to be attached")
	}
}
