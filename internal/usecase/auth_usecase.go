package usecase

import (
	"context"

	"ibspot/internal/domain/entity"
)

// --- Input DTOs ---

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Name     string `validate:"required"`
	Avatar   string `validate:"omitempty"`
}

// FallbackIdentity is a manually-collected identity used when Google sign-in
// fails with an authorization/configuration error. Callers must supply the
// same fields the identity provider would have returned; the resolver never
// invents an identity on its own.
type FallbackIdentity struct {
	Email  string `validate:"required,email"`
	Name   string `validate:"required"`
	Avatar string `validate:"omitempty"`
}

// GoogleLoginInput carries the Google ID token obtained by the caller and an
// optional fallback identity for the authorization-failure path.
type GoogleLoginInput struct {
	IDToken  string
	Fallback *FallbackIdentity
}

// AuthUsecase is the identity resolver: it produces a single current identity
// from the two competing sources (remote auth session, local synthetic
// session) and keeps remote profiles auto-repaired.
//
// Fallback policy: a transport failure (ErrConnection) during Login/Register
// degrades to a local synthetic identity resolved by case-insensitive email
// match. An explicit credential rejection (ErrInvalidCredentials) never
// falls back; that would silently bypass a real credential check.
type AuthUsecase interface {
	// Login resolves an email/password pair, remotely when possible.
	Login(ctx context.Context, input *LoginInput) (*entity.Session, error)

	// Register provisions a new account, remotely when possible.
	Register(ctx context.Context, input *RegisterInput) (*entity.Session, error)

	// LoginWithGoogle resolves a Google sign-in, falling back to the supplied
	// manual identity only on the authorization-failure class of errors.
	LoginWithGoogle(ctx context.Context, input *GoogleLoginInput) (*entity.Session, error)

	// Logout ends the current session, local or remote.
	Logout(ctx context.Context) error

	// Current returns the current identity, or nil.
	Current() *entity.Session

	// Subscribe registers an identity-change callback; see
	// SyncContext.SubscribeSession for delivery semantics.
	Subscribe(cb func(*entity.Session)) func()
}
