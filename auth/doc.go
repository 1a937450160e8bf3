// Package auth provides the concrete authentication backends: the
// remote-delegating Assist-API backend and an always-allow development
// backend. Every backend satisfies core.Authenticator; optional
// capabilities (lifecycle, credential, session management) are exposed
// through the core extension interfaces.
package auth
