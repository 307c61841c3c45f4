package entity

// SessionSource tells how the current identity was resolved.
type SessionSource string

const (
	// SourceLocal marks an identity resolved without contacting the remote
	// store, persisted only on-device.
	SourceLocal SessionSource = "local"
	// SourceRemote marks an identity authenticated via the remote store's
	// auth capability, mirrored by a profile document.
	SourceRemote SessionSource = "remote"
)

// Session is the currently-authenticated identity. A nil *Session means
// logged out. Transitions happen only through explicit login/register/logout
// calls or asynchronous remote auth-state notifications.
type Session struct {
	User   *User
	Source SessionSource
}

// Remote reports whether the session is bound to a remote-authenticated account.
func (s *Session) Remote() bool {
	return s != nil && s.Source == SourceRemote
}
