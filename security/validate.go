// Package security implements the inter-node trust checks used when
// cooperating servers call each other. It is independent of end-user
// accounts: every call is verified on its own, no session state is kept.
package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-assist-auth/core"
)

// Signature builds the challenge-response digest for one node call:
// hex(SHA256(serverName + timestampMillis + challenge + sharedSecret)).
// A missing challenge participates as the empty string. This is a
// low-latency trust check for private-network peers, not a full replay
// shield; callers enforce timestamp staleness themselves.
func Signature(serverName string, challenge string, timestampMillis int64, secret string) string {
	sum := sha256.Sum256([]byte(
		serverName + strconv.FormatInt(timestampMillis, 10) + challenge + secret,
	))
	return hex.EncodeToString(sum[:])
}

// Validator verifies signatures and node keys against the process-wide
// shared secret, which is immutable after startup.
type Validator struct {
	secret  string
	nodeKey string
	logger  core.Logger
}

type Option func(*Validator)

func WithLogger(logger core.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

func New(cfg core.Config, opts ...Option) *Validator {
	validator := &Validator{
		secret:  cfg.NodeSecret,
		nodeKey: cfg.NodeKey,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(validator)
	}
	validator.logger = glog.Ensure(validator.logger)
	return validator
}

func (v *Validator) Signature(serverName string, challenge string, timestampMillis int64) string {
	if v == nil {
		return ""
	}
	return Signature(serverName, challenge, timestampMillis, v.secret)
}

// VerifySignature recomputes the digest from this node's copy of the
// shared secret and compares in constant time. Any mismatch means
// untrusted; no error is ever raised for a bad signature.
func (v *Validator) VerifySignature(signature string, serverName string, challenge string, timestampMillis int64) bool {
	if v == nil {
		return false
	}
	submitted := strings.TrimSpace(signature)
	if submitted == "" {
		return false
	}
	expected := Signature(serverName, challenge, timestampMillis, v.secret)
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(expected)) == 1
}

// CheckNodeKey accepts a submitted key only on an exact match with the
// configured shared key. Mismatches are logged with the caller's network
// address and rejected; the answer is always a boolean.
func (v *Validator) CheckNodeKey(submitted string, remoteAddr string) bool {
	if v == nil {
		return false
	}
	if strings.TrimSpace(v.nodeKey) == "" {
		v.logger.Error("node key check rejected: no key configured", "remote_addr", remoteAddr)
		return false
	}
	if subtle.ConstantTimeCompare([]byte(submitted), []byte(v.nodeKey)) != 1 {
		v.logger.Error("node key check rejected: key mismatch", "remote_addr", remoteAddr)
		return false
	}
	return true
}
