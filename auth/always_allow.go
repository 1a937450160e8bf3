package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-assist-auth/core"
)

// AlwaysAllowBackend accepts any envelope without touching the network.
// It exists for offline development harnesses and satisfies the exact same
// downstream contract as the real backends.
type AlwaysAllowBackend struct {
	userID      string
	accessLevel int
	roles       []string

	authenticated bool
	errorCode     core.ErrorCode
	params        core.RequestParameters
}

type AlwaysAllowOption func(*AlwaysAllowBackend)

func WithFixedUserID(userID string) AlwaysAllowOption {
	return func(b *AlwaysAllowBackend) {
		b.userID = strings.TrimSpace(userID)
	}
}

func WithFixedAccessLevel(level int) AlwaysAllowOption {
	return func(b *AlwaysAllowBackend) {
		b.accessLevel = level
	}
}

func WithFixedRoles(roles ...string) AlwaysAllowOption {
	return func(b *AlwaysAllowBackend) {
		b.roles = append([]string(nil), roles...)
	}
}

func NewAlwaysAllowBackend(opts ...AlwaysAllowOption) *AlwaysAllowBackend {
	backend := &AlwaysAllowBackend{
		userID:      "dev-" + uuid.NewString(),
		accessLevel: 0,
		roles:       []string{string(core.RoleUser), string(core.RoleTester)},
		errorCode:   core.CodeUnknown,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(backend)
	}
	return backend
}

func (b *AlwaysAllowBackend) SetRequestInfo(params core.RequestParameters) {
	if b == nil {
		return
	}
	b.params = params
}

func (b *AlwaysAllowBackend) Authenticate(_ context.Context, req core.AuthRequest) bool {
	if b == nil {
		return false
	}
	if !req.IsToken() && strings.TrimSpace(req.UserID) != "" {
		b.userID = strings.TrimSpace(req.UserID)
	}
	b.authenticated = true
	b.errorCode = core.CodeSuccess
	return true
}

func (b *AlwaysAllowBackend) UserID() string {
	if b == nil || !b.authenticated {
		return ""
	}
	return b.userID
}

func (b *AlwaysAllowBackend) AccessLevel() int {
	if b == nil || !b.authenticated {
		return -1
	}
	return b.accessLevel
}

func (b *AlwaysAllowBackend) BasicInfo() map[string]any {
	if b == nil || !b.authenticated {
		return map[string]any{}
	}
	roles := make([]any, 0, len(b.roles))
	for _, role := range b.roles {
		roles = append(roles, role)
	}
	return map[string]any{
		core.BasicInfoLanguage: "en",
		core.BasicInfoRoles:    roles,
	}
}

func (b *AlwaysAllowBackend) ErrorCode() core.ErrorCode {
	if b == nil {
		return core.CodeUnknown
	}
	return b.errorCode
}

var _ core.Authenticator = (*AlwaysAllowBackend)(nil)
