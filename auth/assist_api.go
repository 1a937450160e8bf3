package auth

import (
	"context"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-assist-auth/core"
	"github.com/goliatone/go-assist-auth/transport"
)

const (
	actionAllowToken      = "allow"
	actionCheckCredential = "check"
)

// AssistAPIBackend authenticates by delegating to a remote identity
// authority over HTTP and translating its reply into the local error
// taxonomy. It implements core.Authenticator plus the session extension;
// account lifecycle and credential flows stay with the remote authority
// and are deliberately not exposed here.
type AssistAPIBackend struct {
	endpoint      string
	defaultClient string
	client        *transport.Client
	logger        core.Logger

	params      core.RequestParameters
	userID      string
	accessLevel int
	basicInfo   map[string]any
	errorCode   core.ErrorCode
}

type AssistAPIOption func(*AssistAPIBackend)

func WithTransportClient(client *transport.Client) AssistAPIOption {
	return func(b *AssistAPIBackend) {
		b.client = client
	}
}

func WithLogger(logger core.Logger) AssistAPIOption {
	return func(b *AssistAPIBackend) {
		b.logger = logger
	}
}

func NewAssistAPIBackend(cfg core.Config, opts ...AssistAPIOption) *AssistAPIBackend {
	backend := &AssistAPIBackend{
		endpoint:      strings.TrimSpace(cfg.AuthEndpoint),
		defaultClient: strings.TrimSpace(cfg.DefaultClient),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(backend)
	}
	if backend.client == nil {
		backend.client = transport.NewClient(nil)
	}
	backend.logger = glog.Ensure(backend.logger)
	backend.reset()
	return backend
}

func (b *AssistAPIBackend) SetRequestInfo(params core.RequestParameters) {
	if b == nil {
		return
	}
	b.params = params
}

func (b *AssistAPIBackend) Authenticate(ctx context.Context, req core.AuthRequest) bool {
	if b == nil {
		return false
	}
	b.reset()

	client := strings.TrimSpace(req.Client)
	if client == "" {
		client = b.defaultClient
	}

	body := map[string]any{"client": client}
	if req.IsToken() {
		body["tToken"] = req.TToken
		body["action"] = actionAllowToken
	} else {
		if err := req.Validate(); err != nil {
			b.errorCode = core.CodeAmbiguous
			b.logger.Error("authentication request rejected before remote call", "error", err.Error())
			return false
		}
		body[core.ParamKey] = req.UserID + ";" + req.Password
		body["action"] = actionCheckCredential
	}

	res, err := b.client.PostJSON(ctx, b.endpoint, body, nil)
	if err != nil {
		b.errorCode = core.CodeAmbiguous
		b.logger.Error("authentication call could not be built", "error", err.Error())
		return false
	}
	if !res.Success {
		b.errorCode = core.CodeAmbiguous
		b.logger.Error("authentication call failed at transport level",
			"status", res.StatusCode, "error", res.ErrorText)
		return false
	}

	result := readString(res.Payload, "result")
	if result != "success" {
		b.errorCode = translateRemoteFailure(res.Payload)
		return false
	}

	b.hydrateFromPayload(res.Payload)
	b.errorCode = core.CodeSuccess
	return true
}

// translateRemoteFailure preserves the remote taxonomy verbatim. The "401"
// substring rule is a compatibility contract with the remote authority;
// do not extend it to other status markers.
func translateRemoteFailure(payload map[string]any) core.ErrorCode {
	errorText := readString(payload, "error")
	if strings.Contains(errorText, "401") {
		return core.CodeAccessDenied
	}
	if raw, ok := payload["code"]; ok {
		return core.ErrorCode(readInt(raw, int(core.CodeAmbiguous)))
	}
	return core.CodeAmbiguous
}

func (b *AssistAPIBackend) hydrateFromPayload(payload map[string]any) {
	b.userID = readString(payload, "uid")
	b.accessLevel = readInt(payload["access_level"], -1)

	info := map[string]any{}
	for _, key := range []string{
		core.BasicInfoLanguage,
		core.BasicInfoName,
		core.BasicInfoBirth,
		core.BasicInfoRoles,
		core.BasicInfoSharedAccess,
	} {
		if value, ok := payload[key]; ok && value != nil {
			info[key] = value
		}
	}
	b.basicInfo = info
}

func (b *AssistAPIBackend) UserID() string {
	if b == nil {
		return ""
	}
	return b.userID
}

func (b *AssistAPIBackend) AccessLevel() int {
	if b == nil {
		return -1
	}
	return b.accessLevel
}

func (b *AssistAPIBackend) BasicInfo() map[string]any {
	if b == nil {
		return map[string]any{}
	}
	return cloneInfo(b.basicInfo)
}

func (b *AssistAPIBackend) ErrorCode() core.ErrorCode {
	if b == nil {
		return core.CodeUnknown
	}
	return b.errorCode
}

// WriteKeyToken is not yet backed by the remote authority; it reports a
// neutral failure so callers checking the return value degrade cleanly.
func (b *AssistAPIBackend) WriteKeyToken(context.Context, string, string) string {
	return ""
}

func (b *AssistAPIBackend) Logout(ctx context.Context, userID string, client string) bool {
	if b == nil {
		return false
	}
	if strings.TrimSpace(userID) == "" {
		return false
	}
	if strings.TrimSpace(client) == "" {
		client = b.defaultClient
	}
	res, err := b.client.PostJSON(ctx, b.endpoint, map[string]any{
		"action": "logout",
		"uid":    strings.TrimSpace(userID),
		"client": client,
	}, nil)
	if err != nil || !res.Success {
		return false
	}
	return readString(res.Payload, "result") == "success"
}

func (b *AssistAPIBackend) LogoutAllClients(context.Context, string) bool {
	return false
}

func (b *AssistAPIBackend) reset() {
	b.userID = ""
	b.accessLevel = -1
	b.basicInfo = map[string]any{}
	b.errorCode = core.CodeUnknown
}

var (
	_ core.Authenticator  = (*AssistAPIBackend)(nil)
	_ core.SessionManager = (*AssistAPIBackend)(nil)
)
