package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// ErrorCode is the integer authentication outcome taxonomy. Backends report
// it alongside the boolean result of Authenticate; it survives the network
// hop to the remote authority verbatim.
type ErrorCode int

const (
	CodeSuccess        ErrorCode = 0
	CodeCommunication  ErrorCode = 1
	CodeAccessDenied   ErrorCode = 2
	CodeAmbiguous      ErrorCode = 3
	CodeUnknown        ErrorCode = 4
	CodeTokenInvalid   ErrorCode = 5
	CodePasswordFormat ErrorCode = 6
	CodeStorageFailure ErrorCode = 7
)

func (c ErrorCode) IsValid() bool {
	return c >= CodeSuccess && c <= CodeStorageFailure
}

func (c ErrorCode) String() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeCommunication:
		return "communication_error"
	case CodeAccessDenied:
		return "access_denied"
	case CodeAmbiguous:
		return "ambiguous_failure"
	case CodeUnknown:
		return "unknown"
	case CodeTokenInvalid:
		return "token_invalid"
	case CodePasswordFormat:
		return "password_format"
	case CodeStorageFailure:
		return "storage_failure"
	default:
		return "unmapped"
	}
}

const (
	AuthErrorBadInput      = "AUTH_BAD_INPUT"
	AuthErrorDenied        = "AUTH_ACCESS_DENIED"
	AuthErrorCommunication = "AUTH_COMMUNICATION"
	AuthErrorToken         = "AUTH_TOKEN_INVALID"
	AuthErrorInternal      = "AUTH_INTERNAL_ERROR"
)

// AuthError wraps a taxonomy code into the shared error envelope for the
// cases where a failure must cross a package boundary as an error value.
// Invalid credentials themselves are not errors; see Authenticator.
func AuthError(code ErrorCode, message string) *goerrors.Error {
	return ensureAuthErrorEnvelope(
		goerrors.New(message, codeCategory(code)).
			WithTextCode(codeTextCode(code)),
	)
}

// MapError coerces an arbitrary error into the shared envelope with a
// stable text code, so embedding servers render authentication failures
// uniformly regardless of which layer produced them.
func MapError(err error) *goerrors.Error {
	return authErrorMapper(err)
}

func authErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureAuthErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "denied"), strings.Contains(msg, "unauthorized"):
		return ensureAuthErrorEnvelope(goerrors.New(err.Error(), goerrors.CategoryAuth).WithTextCode(AuthErrorDenied))
	case strings.Contains(msg, "token"), strings.Contains(msg, "expired"):
		return ensureAuthErrorEnvelope(goerrors.New(err.Error(), goerrors.CategoryAuth).WithTextCode(AuthErrorToken))
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "malformed"):
		return ensureAuthErrorEnvelope(goerrors.New(err.Error(), goerrors.CategoryBadInput).WithTextCode(AuthErrorBadInput))
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureAuthErrorEnvelope(mapped)
}

func ensureAuthErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = authHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = AuthErrorInternal
	}
	return err
}

func codeCategory(code ErrorCode) goerrors.Category {
	switch code {
	case CodeAccessDenied:
		return goerrors.CategoryAuth
	case CodeCommunication:
		return goerrors.CategoryExternal
	case CodeTokenInvalid:
		return goerrors.CategoryAuth
	case CodePasswordFormat, CodeAmbiguous:
		return goerrors.CategoryBadInput
	case CodeStorageFailure:
		return goerrors.CategoryInternal
	default:
		return goerrors.CategoryInternal
	}
}

func codeTextCode(code ErrorCode) string {
	switch code {
	case CodeAccessDenied:
		return AuthErrorDenied
	case CodeCommunication:
		return AuthErrorCommunication
	case CodeTokenInvalid:
		return AuthErrorToken
	case CodePasswordFormat, CodeAmbiguous:
		return AuthErrorBadInput
	default:
		return AuthErrorInternal
	}
}

func authHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
