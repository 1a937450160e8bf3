package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

// RequestParameters normalizes "where do credentials live" over the two
// inbound shapes (flat query/form store vs. a parsed request body) into one
// read API. Implementations are pure reads with no side effects; malformed
// embedded documents fail loudly rather than degrading to nil.
type RequestParameters interface {
	GetString(key string) string
	GetStringArray(key string) []string
	GetJSON(key string) (map[string]any, error)
	GetJSONArray(key string) ([]any, error)
	GetObject(key string) (any, bool)
	GetBoolOrDefault(key string, fallback bool) (bool, error)
}

// Canonical request parameter keys read during credential extraction.
const (
	ParamClient    = "client"
	ParamTempToken = "tToken"
	ParamKey       = "KEY"
	ParamUserID    = "userId"
	ParamDeviceID  = "deviceId"
	ParamPassword  = "pwd"
)

// Normalized basic-info field names reported by backends after a
// successful Authenticate.
const (
	BasicInfoLanguage     = "user_lang_code"
	BasicInfoName         = "user_name"
	BasicInfoBirth        = "user_birth"
	BasicInfoRoles        = "user_roles"
	BasicInfoSharedAccess = "shared_access"
)

// AuthRequest is the canonical credential envelope handed to a backend.
// Exactly one shape is populated per call: a temporary token object, or a
// user id with a client-side pre-hashed password. The token shape wins when
// both are extractable from the raw request.
type AuthRequest struct {
	TToken   map[string]any
	UserID   string
	Password string
	Client   string
}

func (r AuthRequest) IsToken() bool {
	return len(r.TToken) > 0
}

func (r AuthRequest) Validate() error {
	if r.IsToken() {
		return nil
	}
	if strings.TrimSpace(r.UserID) == "" {
		return fmt.Errorf("core: auth request user id is required")
	}
	if strings.TrimSpace(r.Password) == "" {
		return fmt.Errorf("core: auth request password is required")
	}
	return nil
}

// Authenticator is the core capability every authentication backend must
// implement. Authenticate reports only a boolean; richer outcome data is
// read via the accessors afterwards, and the error code is the parallel
// failure channel that must not be clobbered by later unrelated failures.
type Authenticator interface {
	// SetRequestInfo attaches ambient request context before Authenticate.
	SetRequestInfo(params RequestParameters)
	Authenticate(ctx context.Context, req AuthRequest) bool

	// Outcome accessors, valid only after Authenticate returns.
	UserID() string
	AccessLevel() int
	BasicInfo() map[string]any
	ErrorCode() ErrorCode
}

// IDType qualifies the identifier handed to AccountLifecycle.UserExists.
type IDType string

const (
	IDTypeUserID IDType = "uid"
	IDTypeEmail  IDType = "email"
	IDTypePhone  IDType = "phone"
)

// AccountLifecycle is an optional extension a backend may support for
// account management. Callers discover it via type assertion; a backend
// that does not manage accounts simply does not implement it.
type AccountLifecycle interface {
	CheckConnection(ctx context.Context) bool
	RegisterByEmail(ctx context.Context, email string) bool
	CreateUser(ctx context.Context, info RequestParameters) bool
	DeleteUser(ctx context.Context, info RequestParameters) bool
	UserExists(ctx context.Context, identifier string, idType IDType) bool
}

// CredentialManager is an optional extension for password flows.
type CredentialManager interface {
	RequestPasswordChange(ctx context.Context, info RequestParameters) bool
	ChangePassword(ctx context.Context, info RequestParameters) bool
}

// SessionManager is an optional extension for token/session upkeep.
type SessionManager interface {
	WriteKeyToken(ctx context.Context, userID string, client string) string
	Logout(ctx context.Context, userID string, client string) bool
	LogoutAllClients(ctx context.Context, userID string) bool
}

// AccountSnapshot is a persisted serialized account export used to cache a
// hydrated session between requests.
type AccountSnapshot struct {
	ID        string
	UserID    string
	Client    string
	Payload   []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

type SaveSnapshotInput struct {
	UserID  string
	Client  string
	Payload []byte
}

type SnapshotStore interface {
	Save(ctx context.Context, in SaveSnapshotInput) (AccountSnapshot, error)
	GetLatest(ctx context.Context, userID string, client string) (AccountSnapshot, error)
	Purge(ctx context.Context, userID string) error
}
