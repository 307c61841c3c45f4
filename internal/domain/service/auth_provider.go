// Package service defines capability interfaces the application layer depends
// on, implemented by the infrastructure layer.
package service

import (
	"context"
)

// AuthIdentity is the identity returned by the remote auth capability.
type AuthIdentity struct {
	UID         string // The provider's stable user id.
	Email       string // Verified login email.
	DisplayName string // Display name supplied by the identity provider, may be empty.
	PhotoURL    string // Profile picture URL supplied by the provider, may be empty.
}

// AuthProvider is the remote store's authentication capability. All calls are
// potential suspension points; errors use the domain taxonomy: transport
// failures map to domainerrors.ErrConnection, explicit credential rejections
// to domainerrors.ErrInvalidCredentials and friends.
type AuthProvider interface {
	// SignInWithPassword authenticates an email/password pair.
	SignInWithPassword(ctx context.Context, email, password string) (*AuthIdentity, error)

	// SignUp creates a new remote account.
	SignUp(ctx context.Context, email, password, displayName string) (*AuthIdentity, error)

	// SignInWithGoogle authenticates a Google ID token. Authorization or
	// configuration failures map to domainerrors.ErrGoogleAuthUnavailable.
	SignInWithGoogle(ctx context.Context, idToken string) (*AuthIdentity, error)

	// SignOut terminates the remote session.
	SignOut(ctx context.Context) error

	// SubscribeAuthState registers a callback fired on every remote auth-state
	// change; a nil identity means "no session". The returned function
	// detaches the callback and is safe to call more than once.
	SubscribeAuthState(cb func(*AuthIdentity)) func()
}
