package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Decision errors
	CodeDecisionNotFound      Code = "DECISION_NOT_FOUND"
	CodeDecisionTitleEmpty    Code = "DECISION_TITLE_EMPTY"
	CodeDecisionInvalidStatus Code = "DECISION_INVALID_STATUS"
	CodeDecisionAlreadyClosed Code = "DECISION_ALREADY_CLOSED"
	CodeDecisionSuperseded    Code = "DECISION_SUPERSEDED"
	CodeDecisionHasSuccessor  Code = "DECISION_HAS_SUCCESSOR"
	CodeSupersedeRoleRequired Code = "DECISION_SUPERSEDE_ROLE_REQUIRED"

	// Message errors
	CodeMessageNotFound        Code = "MESSAGE_NOT_FOUND"
	CodeMessageAlreadyDecision Code = "MESSAGE_ALREADY_DECISION"
	CodeMessageNotDecision     Code = "MESSAGE_NOT_DECISION"
	CodeMessageContentEmpty    Code = "MESSAGE_CONTENT_EMPTY"

	// Channel errors
	CodeChannelNotFound  Code = "CHANNEL_NOT_FOUND"
	CodeChannelNameEmpty Code = "CHANNEL_NAME_EMPTY"

	// Team errors
	CodeTeamNotFound       Code = "TEAM_NOT_FOUND"
	CodeTeamNameEmpty      Code = "TEAM_NAME_EMPTY"
	CodeTeamRoleInvalid    Code = "TEAM_ROLE_INVALID"
	CodeTeamMemberExists   Code = "TEAM_MEMBER_EXISTS"
	CodeTeamMemberRequired Code = "TEAM_MEMBER_REQUIRED"
	CodeInviteCodeInvalid  Code = "TEAM_INVITE_CODE_INVALID"

	// User and auth errors
	CodeUserNotFound       Code = "USER_NOT_FOUND"
	CodeUserNameEmpty      Code = "USER_NAME_EMPTY"
	CodeUserEmailEmpty     Code = "USER_EMAIL_EMPTY"
	CodeUserEmailTaken     Code = "USER_EMAIL_TAKEN"
	CodePasswordTooShort   Code = "AUTH_PASSWORD_TOO_SHORT"
	CodeCredentialsInvalid Code = "AUTH_CREDENTIALS_INVALID"
	CodeTokenInvalid       Code = "AUTH_TOKEN_INVALID"
	CodeResetTokenInvalid  Code = "AUTH_RESET_TOKEN_INVALID"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeDecisionTitleEmpty,
		CodeDecisionInvalidStatus,
		CodeMessageContentEmpty,
		CodeChannelNameEmpty,
		CodeTeamNameEmpty,
		CodeTeamRoleInvalid,
		CodeUserNameEmpty,
		CodeUserEmailEmpty,
		CodePasswordTooShort,
		CodeResetTokenInvalid:
		return codes.InvalidArgument

	// NotFound - referenced entity is absent
	case CodeDecisionNotFound,
		CodeMessageNotFound,
		CodeMessageNotDecision,
		CodeChannelNotFound,
		CodeTeamNotFound,
		CodeUserNotFound,
		CodeInviteCodeInvalid:
		return codes.NotFound

	// AlreadyExists - uniqueness violations
	case CodeMessageAlreadyDecision,
		CodeTeamMemberExists,
		CodeUserEmailTaken:
		return codes.AlreadyExists

	// FailedPrecondition - current state disallows the operation
	case CodeDecisionAlreadyClosed,
		CodeDecisionSuperseded,
		CodeDecisionHasSuccessor:
		return codes.FailedPrecondition

	// PermissionDenied - actor lacks the required role
	case CodeSupersedeRoleRequired,
		CodeTeamMemberRequired:
		return codes.PermissionDenied

	// Unauthenticated - identity could not be established
	case CodeCredentialsInvalid,
		CodeTokenInvalid:
		return codes.Unauthenticated

	default:
		return codes.Internal
	}
}
