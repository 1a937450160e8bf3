// Package identity hydrates a session-scoped account context from an
// authentication backend: credential extraction, the backend call, and the
// field-by-field copy of the outcome the rest of the system authorizes
// against. Accounts live for one request and are never shared.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-assist-auth/core"
)

const (
	defaultLanguage      = "en"
	fallbackDisplayName  = "Boss"
	compositeKeyElements = 2
)

// UserName is the structured name carried by an account. All parts are
// optional; see Account.UserNameShort for the display precedence.
type UserName struct {
	Nick  string `json:"nick,omitempty"`
	First string `json:"first,omitempty"`
	Last  string `json:"last,omitempty"`
}

// Account is the session-scoped context produced by one successful
// authentication. Fields other than the user id and access level stay at
// their defaults until copyBasicInfo runs; nothing mutates them outside
// Authenticate, ImportJSON, and copyBasicInfo.
type Account struct {
	backend       core.Authenticator
	logger        core.Logger
	defaultClient string

	userID       string
	email        string
	phone        string
	accessLevel  int
	userName     UserName
	language     string
	userBirth    string
	userRoles    []string
	sharedAccess map[string][]core.SharedAccessItem
}

type Option func(*Account)

func WithLogger(logger core.Logger) Option {
	return func(a *Account) {
		a.logger = logger
	}
}

func New(cfg core.Config, backend core.Authenticator, opts ...Option) *Account {
	account := &Account{
		backend:       backend,
		defaultClient: strings.TrimSpace(cfg.DefaultClient),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(account)
	}
	account.logger = glog.Ensure(account.logger)
	account.resetState()
	return account
}

// Authenticate extracts credentials from the request, builds the canonical
// envelope, and delegates to the backend. A request that cannot possibly
// authenticate fails here without a backend call; prior account state is
// never mutated on failure.
func (a *Account) Authenticate(ctx context.Context, request core.RequestParameters) bool {
	if a == nil || a.backend == nil || request == nil {
		return false
	}

	client := request.GetString(core.ParamClient)
	if client == "" {
		client = a.defaultClient
	}
	a.backend.SetRequestInfo(request)

	token, err := request.GetJSON(core.ParamTempToken)
	if err != nil {
		a.logger.Error("temp token extraction failed", "error", err.Error())
		return false
	}
	// Token precedence over a password key is intentional; confirm with
	// product before changing it.
	if len(token) > 0 {
		if !a.backend.Authenticate(ctx, core.AuthRequest{TToken: token, Client: client}) {
			return false
		}
		a.copyBasicInfo()
		return true
	}

	key := request.GetString(core.ParamKey)
	if key == "" {
		key = deriveCompositeKey(request)
	}
	if key == "" {
		a.logger.Error("no usable credentials in request")
		return false
	}

	userID, password, err := splitCompositeKey(key)
	if err != nil {
		a.logger.Error("composite key rejected", "error", err.Error())
		return false
	}

	if !a.backend.Authenticate(ctx, core.AuthRequest{
		UserID:   userID,
		Password: password,
		Client:   client,
	}) {
		return false
	}
	a.copyBasicInfo()
	return true
}

// deriveCompositeKey rebuilds the "<identifier>;<pre-hashed password>" form
// from separate parameters when both are present.
func deriveCompositeKey(request core.RequestParameters) string {
	identifier := request.GetString(core.ParamUserID)
	if identifier == "" {
		identifier = request.GetString(core.ParamDeviceID)
	}
	password := request.GetString(core.ParamPassword)
	if identifier == "" || password == "" {
		return ""
	}
	return identifier + ";" + password
}

func splitCompositeKey(key string) (string, string, error) {
	parts := strings.Split(key, ";")
	if len(parts) != compositeKeyElements {
		return "", "", goerrors.New(
			fmt.Sprintf("identity: composite key must contain exactly one separator, got %d parts", len(parts)),
			goerrors.CategoryBadInput,
		).WithTextCode(core.AuthErrorBadInput)
	}
	identifier := strings.TrimSpace(parts[0])
	password := strings.TrimSpace(parts[1])
	if identifier == "" || password == "" {
		return "", "", goerrors.New(
			"identity: composite key has an empty identifier or password",
			goerrors.CategoryBadInput,
		).WithTextCode(core.AuthErrorBadInput)
	}
	return identifier, password, nil
}

// copyBasicInfo hydrates the account from the backend outcome. Every field
// defaults independently; one missing field never fails the whole copy.
func (a *Account) copyBasicInfo() {
	a.userID = a.backend.UserID()
	a.accessLevel = a.backend.AccessLevel()

	info := a.backend.BasicInfo()

	a.language = defaultLanguage
	if lang := readInfoString(info[core.BasicInfoLanguage]); lang != "" {
		a.language = strings.ToLower(lang)
	}

	a.userName = UserName{}
	if name, ok := info[core.BasicInfoName].(map[string]any); ok {
		a.userName = UserName{
			Nick:  readInfoString(name["nick"]),
			First: readInfoString(name["first"]),
			Last:  readInfoString(name["last"]),
		}
	}

	a.userBirth = readInfoString(info[core.BasicInfoBirth])

	a.userRoles = []string{}
	if roles, ok := info[core.BasicInfoRoles].([]any); ok {
		for _, role := range roles {
			if text := readInfoString(role); text != "" {
				a.userRoles = append(a.userRoles, text)
			}
		}
	}

	a.sharedAccess = map[string][]core.SharedAccessItem{}
	if raw, ok := info[core.BasicInfoSharedAccess]; ok {
		grants, err := core.ParseSharedAccess(raw)
		if err != nil {
			a.logger.Error("shared access hydration skipped", "error", err.Error())
		} else {
			a.sharedAccess = grants
		}
	}
}

func (a *Account) UserID() string {
	if a == nil {
		return ""
	}
	return a.userID
}

func (a *Account) Email() string {
	if a == nil {
		return ""
	}
	return a.email
}

func (a *Account) Phone() string {
	if a == nil {
		return ""
	}
	return a.phone
}

// AccessLevel is the strength-of-proof indicator, -1 until a successful
// authentication sets it. It is not a role.
func (a *Account) AccessLevel() int {
	if a == nil {
		return -1
	}
	return a.accessLevel
}

func (a *Account) Language() string {
	if a == nil {
		return defaultLanguage
	}
	return a.language
}

func (a *Account) UserBirth() string {
	if a == nil {
		return ""
	}
	return a.userBirth
}

func (a *Account) UserName() UserName {
	if a == nil {
		return UserName{}
	}
	return a.userName
}

// UserNameShort derives the display name with precedence
// nick > first > last, falling back to a literal default.
func (a *Account) UserNameShort() string {
	if a == nil {
		return fallbackDisplayName
	}
	switch {
	case strings.TrimSpace(a.userName.Nick) != "":
		return strings.TrimSpace(a.userName.Nick)
	case strings.TrimSpace(a.userName.First) != "":
		return strings.TrimSpace(a.userName.First)
	case strings.TrimSpace(a.userName.Last) != "":
		return strings.TrimSpace(a.userName.Last)
	default:
		return fallbackDisplayName
	}
}

func (a *Account) UserRoles() []string {
	if a == nil {
		return nil
	}
	return append([]string(nil), a.userRoles...)
}

// HasRole is a flat membership check; order is irrelevant and no hierarchy
// exists between roles.
func (a *Account) HasRole(role string) bool {
	if a == nil {
		return false
	}
	needle := strings.TrimSpace(strings.ToLower(role))
	for _, candidate := range a.userRoles {
		if strings.EqualFold(strings.TrimSpace(candidate), needle) {
			return true
		}
	}
	return false
}

func (a *Account) SharedAccess() map[string][]core.SharedAccessItem {
	if a == nil || len(a.sharedAccess) == 0 {
		return map[string][]core.SharedAccessItem{}
	}
	out := make(map[string][]core.SharedAccessItem, len(a.sharedAccess))
	for category, items := range a.sharedAccess {
		out[category] = append([]core.SharedAccessItem(nil), items...)
	}
	return out
}

// ErrorCode exposes the backend's parallel failure channel for the last
// authentication attempt.
func (a *Account) ErrorCode() core.ErrorCode {
	if a == nil || a.backend == nil {
		return core.CodeUnknown
	}
	return a.backend.ErrorCode()
}

// accountSnapshot is the serialized account shape. The field names are
// load-bearing: cached sessions written by older builds must keep
// importing cleanly.
type accountSnapshot struct {
	UserID       string           `json:"userId,omitempty"`
	Email        string           `json:"email,omitempty"`
	Phone        string           `json:"phone,omitempty"`
	UserName     *UserName        `json:"userName,omitempty"`
	AccessLevel  int              `json:"accessLevel"`
	UserRoles    []string         `json:"userRoles"`
	PrefLanguage string           `json:"prefLanguage,omitempty"`
	UserBirth    string           `json:"userBirth,omitempty"`
	SharedAccess map[string]any   `json:"sharedAccess,omitempty"`
}

func (a *Account) ExportJSON() ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("identity: account is nil")
	}
	snapshot := accountSnapshot{
		UserID:       a.userID,
		Email:        a.email,
		Phone:        a.phone,
		AccessLevel:  a.accessLevel,
		UserRoles:    append([]string{}, a.userRoles...),
		PrefLanguage: a.language,
		UserBirth:    a.userBirth,
	}
	if a.userName != (UserName{}) {
		name := a.userName
		snapshot.UserName = &name
	}
	if len(a.sharedAccess) > 0 {
		snapshot.SharedAccess = core.SharedAccessToDocument(a.sharedAccess)
	}
	encoded, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("identity: encode account snapshot: %w", err)
	}
	return encoded, nil
}

// ImportJSON restores a serialized snapshot. State is reset first so stale
// fields can not leak across imports.
func (a *Account) ImportJSON(payload []byte) error {
	if a == nil {
		return fmt.Errorf("identity: account is nil")
	}
	if len(payload) == 0 {
		return fmt.Errorf("identity: account snapshot is empty")
	}
	snapshot := accountSnapshot{AccessLevel: -1}
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return fmt.Errorf("identity: decode account snapshot: %w", err)
	}

	a.resetState()
	a.userID = strings.TrimSpace(snapshot.UserID)
	a.email = strings.TrimSpace(snapshot.Email)
	a.phone = strings.TrimSpace(snapshot.Phone)
	a.accessLevel = snapshot.AccessLevel
	if snapshot.UserName != nil {
		a.userName = *snapshot.UserName
	}
	if lang := strings.TrimSpace(snapshot.PrefLanguage); lang != "" {
		a.language = strings.ToLower(lang)
	}
	a.userBirth = strings.TrimSpace(snapshot.UserBirth)
	if len(snapshot.UserRoles) > 0 {
		a.userRoles = append([]string{}, snapshot.UserRoles...)
	}
	if len(snapshot.SharedAccess) > 0 {
		grants, err := core.ParseSharedAccess(map[string]any(snapshot.SharedAccess))
		if err != nil {
			return fmt.Errorf("identity: decode shared access: %w", err)
		}
		a.sharedAccess = grants
	}
	return nil
}

func (a *Account) resetState() {
	a.userID = ""
	a.email = ""
	a.phone = ""
	a.accessLevel = -1
	a.userName = UserName{}
	a.language = defaultLanguage
	a.userBirth = ""
	a.userRoles = []string{}
	a.sharedAccess = map[string][]core.SharedAccessItem{}
}

func readInfoString(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case json.Number:
		return strings.TrimSpace(typed.String())
	case float64:
		return strconv.FormatInt(int64(typed), 10)
	case fmt.Stringer:
		return strings.TrimSpace(typed.String())
	default:
		return ""
	}
}
