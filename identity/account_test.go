package identity

import (
	"bytes"
	"context"
	"net/url"
	"testing"

	"github.com/goliatone/go-assist-auth/core"
	"github.com/goliatone/go-assist-auth/params"
)

// spyBackend counts invocations so tests can prove the backend is never
// reached with an envelope that cannot authenticate.
type spyBackend struct {
	calls       int
	succeed     bool
	lastRequest core.AuthRequest
	userID      string
	accessLevel int
	basicInfo   map[string]any
	errorCode   core.ErrorCode
}

func (b *spyBackend) SetRequestInfo(core.RequestParameters) {}

func (b *spyBackend) Authenticate(_ context.Context, req core.AuthRequest) bool {
	b.calls++
	b.lastRequest = req
	if !b.succeed {
		return false
	}
	if b.userID == "" {
		b.userID = req.UserID
	}
	return true
}

func (b *spyBackend) UserID() string            { return b.userID }
func (b *spyBackend) AccessLevel() int          { return b.accessLevel }
func (b *spyBackend) BasicInfo() map[string]any { return b.basicInfo }
func (b *spyBackend) ErrorCode() core.ErrorCode { return b.errorCode }

func testConfig() core.Config {
	return core.Config{
		ServiceName:   "assist-auth",
		DefaultClient: "web_app",
		Backend:       core.BackendAlwaysAllow,
	}
}

func TestAccountAuthenticate_CompositeKey(t *testing.T) {
	backend := &spyBackend{succeed: true, accessLevel: 0, basicInfo: map[string]any{
		core.BasicInfoRoles: []any{"user"},
	}}
	account := New(testConfig(), backend)

	request := params.NewFormParameters(url.Values{
		core.ParamKey: {"alice@example.com;ab12cd34"},
	})
	if !account.Authenticate(context.Background(), request) {
		t.Fatalf("expected authentication to succeed")
	}
	if backend.calls != 1 {
		t.Fatalf("expected one backend call, got %d", backend.calls)
	}
	if backend.lastRequest.UserID != "alice@example.com" || backend.lastRequest.Password != "ab12cd34" {
		t.Fatalf("unexpected envelope: %+v", backend.lastRequest)
	}
	if backend.lastRequest.Client != "web_app" {
		t.Fatalf("expected default client substitution, got %q", backend.lastRequest.Client)
	}
	if account.UserID() != "alice@example.com" {
		t.Fatalf("expected hydrated user id, got %q", account.UserID())
	}
	if account.AccessLevel() < 0 {
		t.Fatalf("expected non-negative access level, got %d", account.AccessLevel())
	}
	if !account.HasRole("user") {
		t.Fatalf("expected user role after hydration")
	}
}

func TestAccountAuthenticate_DerivesKeyFromSeparateParameters(t *testing.T) {
	backend := &spyBackend{succeed: true, basicInfo: map[string]any{}}
	account := New(testConfig(), backend)

	request := params.NewFormParameters(url.Values{
		core.ParamUserID:   {"uid-5"},
		core.ParamPassword: {"feedbeef"},
		core.ParamClient:   {"b2_app"},
	})
	if !account.Authenticate(context.Background(), request) {
		t.Fatalf("expected derived key authentication to succeed")
	}
	if backend.lastRequest.UserID != "uid-5" || backend.lastRequest.Password != "feedbeef" {
		t.Fatalf("unexpected envelope: %+v", backend.lastRequest)
	}
	if backend.lastRequest.Client != "b2_app" {
		t.Fatalf("expected explicit client, got %q", backend.lastRequest.Client)
	}
}

func TestAccountAuthenticate_MalformedKeysNeverReachBackend(t *testing.T) {
	for _, key := range []string{
		"nosemicolon",
		"too;many;parts",
		"a;b;c;d",
		";leadingonly",
		"trailingonly;",
	} {
		backend := &spyBackend{succeed: true}
		account := New(testConfig(), backend)
		request := params.NewFormParameters(url.Values{core.ParamKey: {key}})
		if account.Authenticate(context.Background(), request) {
			t.Fatalf("key %q: expected failure", key)
		}
		if backend.calls != 0 {
			t.Fatalf("key %q: expected zero backend calls, got %d", key, backend.calls)
		}
	}
}

func TestAccountAuthenticate_NoCredentialsFailsLocally(t *testing.T) {
	backend := &spyBackend{succeed: true}
	account := New(testConfig(), backend)
	request := params.NewFormParameters(url.Values{core.ParamClient: {"web_app"}})
	if account.Authenticate(context.Background(), request) {
		t.Fatalf("expected failure without credentials")
	}
	if backend.calls != 0 {
		t.Fatalf("expected zero backend calls, got %d", backend.calls)
	}
}

func TestAccountAuthenticate_TokenTakesPrecedence(t *testing.T) {
	backend := &spyBackend{succeed: true, basicInfo: map[string]any{}}
	account := New(testConfig(), backend)

	request := params.NewFormParameters(url.Values{
		core.ParamTempToken: {`{"token":"tmp-9"}`},
		core.ParamKey:       {"alice@example.com;hash"},
	})
	if !account.Authenticate(context.Background(), request) {
		t.Fatalf("expected token authentication to succeed")
	}
	if !backend.lastRequest.IsToken() {
		t.Fatalf("expected token envelope, got %+v", backend.lastRequest)
	}
	if backend.lastRequest.TToken["token"] != "tmp-9" {
		t.Fatalf("unexpected token payload: %v", backend.lastRequest.TToken)
	}
}

func TestAccountAuthenticate_MalformedTokenFailsWithoutBackendCall(t *testing.T) {
	backend := &spyBackend{succeed: true}
	account := New(testConfig(), backend)
	request := params.NewFormParameters(url.Values{
		core.ParamTempToken: {`{"token":`},
		core.ParamKey:       {"alice@example.com;hash"},
	})
	if account.Authenticate(context.Background(), request) {
		t.Fatalf("expected malformed token to fail")
	}
	if backend.calls != 0 {
		t.Fatalf("expected zero backend calls, got %d", backend.calls)
	}
}

func TestAccountAuthenticate_FailureKeepsPriorState(t *testing.T) {
	backend := &spyBackend{succeed: true, accessLevel: 1, basicInfo: map[string]any{}}
	account := New(testConfig(), backend)
	request := params.NewFormParameters(url.Values{core.ParamKey: {"uid-1;hash"}})
	if !account.Authenticate(context.Background(), request) {
		t.Fatalf("expected first authentication to succeed")
	}

	backend.succeed = false
	if account.Authenticate(context.Background(), request) {
		t.Fatalf("expected second authentication to fail")
	}
	if account.UserID() != "uid-1" || account.AccessLevel() != 1 {
		t.Fatalf("expected prior state to survive failure, got %q / %d",
			account.UserID(), account.AccessLevel())
	}
}

func TestAccountHydration_FieldDefaults(t *testing.T) {
	backend := &spyBackend{succeed: true, userID: "uid-2", accessLevel: 0, basicInfo: map[string]any{}}
	account := New(testConfig(), backend)
	request := params.NewFormParameters(url.Values{core.ParamKey: {"uid-2;hash"}})
	if !account.Authenticate(context.Background(), request) {
		t.Fatalf("expected success")
	}
	if account.Language() != "en" {
		t.Fatalf("expected default language, got %q", account.Language())
	}
	if roles := account.UserRoles(); len(roles) != 0 {
		t.Fatalf("expected empty role list, got %v", roles)
	}
	if account.UserNameShort() != "Boss" {
		t.Fatalf("expected fallback display name, got %q", account.UserNameShort())
	}
}

func TestAccountHydration_FullBasicInfo(t *testing.T) {
	backend := &spyBackend{
		succeed:     true,
		userID:      "uid-3",
		accessLevel: 2,
		basicInfo: map[string]any{
			core.BasicInfoLanguage: "SV",
			core.BasicInfoName:     map[string]any{"first": "Jo", "last": "Doe"},
			core.BasicInfoBirth:    "1990-01-31",
			core.BasicInfoRoles:    []any{"user", "translator"},
			core.BasicInfoSharedAccess: map[string]any{
				"remoteActions": []any{map[string]any{"user": "uid-9", "device": "tv-1"}},
			},
		},
	}
	account := New(testConfig(), backend)
	request := params.NewFormParameters(url.Values{core.ParamKey: {"uid-3;hash"}})
	if !account.Authenticate(context.Background(), request) {
		t.Fatalf("expected success")
	}
	if account.Language() != "sv" {
		t.Fatalf("expected lowercased language, got %q", account.Language())
	}
	if account.UserBirth() != "1990-01-31" {
		t.Fatalf("unexpected birth date %q", account.UserBirth())
	}
	if !account.HasRole("TRANSLATOR") {
		t.Fatalf("expected case-insensitive role membership")
	}
	grants := account.SharedAccess()
	if len(grants["remoteActions"]) != 1 || grants["remoteActions"][0].Device != "tv-1" {
		t.Fatalf("unexpected grants: %+v", grants)
	}
}

func TestUserNameShort_Precedence(t *testing.T) {
	cases := []struct {
		name UserName
		want string
	}{
		{UserName{Nick: "", First: "Jo", Last: "Doe"}, "Jo"},
		{UserName{Nick: "Jay", First: "Jo", Last: "Doe"}, "Jay"},
		{UserName{Last: "Doe"}, "Doe"},
		{UserName{}, "Boss"},
	}
	for _, tc := range cases {
		account := New(testConfig(), &spyBackend{})
		account.userName = tc.name
		if got := account.UserNameShort(); got != tc.want {
			t.Fatalf("name %+v: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestAccountSnapshot_RoundTrip(t *testing.T) {
	backend := &spyBackend{
		succeed:     true,
		userID:      "uid-4",
		accessLevel: 1,
		basicInfo: map[string]any{
			core.BasicInfoLanguage: "de",
			core.BasicInfoName:     map[string]any{"nick": "Jay"},
			core.BasicInfoRoles:    []any{"user"},
			core.BasicInfoSharedAccess: map[string]any{
				"remoteActions": []any{map[string]any{"user": "uid-9", "device": "tv-1"}},
			},
		},
	}
	original := New(testConfig(), backend)
	request := params.NewFormParameters(url.Values{core.ParamKey: {"uid-4;hash"}})
	if !original.Authenticate(context.Background(), request) {
		t.Fatalf("expected success")
	}

	exported, err := original.ExportJSON()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	restored := New(testConfig(), &spyBackend{})
	if err := restored.ImportJSON(exported); err != nil {
		t.Fatalf("import: %v", err)
	}
	reExported, err := restored.ExportJSON()
	if err != nil {
		t.Fatalf("re-export: %v", err)
	}
	if !bytes.Equal(exported, reExported) {
		t.Fatalf("round trip drift:\n%s\n%s", exported, reExported)
	}
	if restored.UserID() != "uid-4" || !restored.HasRole("user") {
		t.Fatalf("restored account incomplete: %q", restored.UserID())
	}
}

func TestAccountImportJSON_ResetsStaleState(t *testing.T) {
	backend := &spyBackend{
		succeed:     true,
		userID:      "uid-old",
		accessLevel: 3,
		basicInfo: map[string]any{
			core.BasicInfoRoles: []any{"superuser"},
		},
	}
	account := New(testConfig(), backend)
	request := params.NewFormParameters(url.Values{core.ParamKey: {"uid-old;hash"}})
	if !account.Authenticate(context.Background(), request) {
		t.Fatalf("expected success")
	}

	if err := account.ImportJSON([]byte(`{"userId":"uid-new","accessLevel":0}`)); err != nil {
		t.Fatalf("import: %v", err)
	}
	if account.UserID() != "uid-new" || account.AccessLevel() != 0 {
		t.Fatalf("expected imported identity, got %q / %d", account.UserID(), account.AccessLevel())
	}
	if account.HasRole("superuser") {
		t.Fatalf("expected stale roles to be cleared")
	}
}

func TestLocalTestAccount(t *testing.T) {
	account := NewLocalTestAccount("offline-user")
	if !account.Authenticate(context.Background(), params.NewBodyParameters(nil)) {
		t.Fatalf("expected local test account to authenticate")
	}
	if account.UserID() != "offline-user" {
		t.Fatalf("unexpected user id %q", account.UserID())
	}
	if account.AccessLevel() != 0 {
		t.Fatalf("expected access level 0, got %d", account.AccessLevel())
	}
	if !account.HasRole(string(core.RoleUser)) || !account.HasRole(string(core.RoleTester)) {
		t.Fatalf("expected fixed role set, got %v", account.UserRoles())
	}
	if account.ErrorCode() != core.CodeSuccess {
		t.Fatalf("expected success error code")
	}

	unnamed := NewLocalTestAccount("  ")
	if unnamed.UserID() == "" {
		t.Fatalf("expected default identifier")
	}
}
