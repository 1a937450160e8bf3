package identity

import (
	"context"
	"strings"

	"github.com/goliatone/go-assist-auth/core"
)

// LocalTestAccount bypasses the network entirely: authentication always
// succeeds with a fixed role set and a configurable identifier, making it
// safe for offline harnesses while honoring the exact downstream contract
// (HasRole, AccessLevel, UserID) of a real account.
type LocalTestAccount struct {
	Account
}

func NewLocalTestAccount(userID string, opts ...Option) *LocalTestAccount {
	account := &LocalTestAccount{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&account.Account)
	}
	account.resetState()
	account.defaultClient = "local_test"
	account.userID = strings.TrimSpace(userID)
	if account.userID == "" {
		account.userID = "local-test-user"
	}
	return account
}

func (a *LocalTestAccount) Authenticate(_ context.Context, _ core.RequestParameters) bool {
	if a == nil {
		return false
	}
	a.accessLevel = 0
	a.language = defaultLanguage
	a.userRoles = []string{string(core.RoleUser), string(core.RoleTester)}
	a.sharedAccess = map[string][]core.SharedAccessItem{}
	return true
}

func (a *LocalTestAccount) ErrorCode() core.ErrorCode {
	return core.CodeSuccess
}
