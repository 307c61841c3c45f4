// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	"ibspot/internal/domain/entity"
	domainerrors "ibspot/internal/domain/errors"
	"ibspot/internal/domain/repository"
	"ibspot/internal/domain/service"
	"ibspot/internal/usecase"
	"ibspot/internal/util"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// identityService implements the AuthUsecase interface. It is the single
// writer of the SyncContext identity slot.
type identityService struct {
	state    *usecase.SyncContext
	cache    repository.CacheStore
	hasher   service.PasswordHasher
	validate *validator.Validate
	logger   *slog.Logger
}

// IdentityServiceParams holds dependencies for the identity service, injected by Fx.
type IdentityServiceParams struct {
	fx.In

	State  *usecase.SyncContext
	Cache  repository.CacheStore
	Hasher service.PasswordHasher
	Logger *slog.Logger
}

// NewIdentityService constructs the identity resolver and performs the
// initial-load precedence step: a persisted local session is surfaced
// immediately (fast path for offline-first UX); a remote auth-state
// notification, if and when it arrives, supersedes it.
func NewIdentityService(params IdentityServiceParams) usecase.AuthUsecase {
	srv := &identityService{
		state:    params.State,
		cache:    params.Cache,
		hasher:   params.Hasher,
		validate: validator.New(),
		logger:   params.Logger,
	}

	if cached := srv.cache.ReadSession(); cached != nil {
		srv.state.SetSession(&entity.Session{User: cached, Source: entity.SourceLocal})
	} else {
		srv.state.SetSession(nil)
	}

	if auth := srv.state.Auth(); auth != nil {
		auth.SubscribeAuthState(srv.onRemoteAuthState)
	}

	return srv
}

// onRemoteAuthState reacts to asynchronous remote auth-state notifications.
func (srv *identityService) onRemoteAuthState(identity *service.AuthIdentity) {
	if identity == nil {
		// External "no session": only a remote session is torn down; a local
		// session survives until an explicit logout.
		if srv.state.Session().Remote() {
			srv.logger.Info("Remote session ended externally")
			srv.cache.WriteSession(nil)
			srv.state.SetSession(nil)
		}

		return
	}

	profile, err := srv.ensureProfile(context.Background(), identity)
	if err != nil {
		srv.logger.Error("Failed to resolve profile for remote auth state", slog.String("uid", identity.UID), slog.Any("error", err))

		return
	}

	srv.cache.WriteSession(profile)
	srv.state.SetSession(&entity.Session{User: profile, Source: entity.SourceRemote})
}

// Login resolves an email/password pair: remote first, local fallback only on
// transport failure.
func (srv *identityService) Login(ctx context.Context, input *usecase.LoginInput) (*entity.Session, error) {
	if err := srv.validate.Struct(input); err != nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, err.Error())
	}

	srv.logger.Debug("Starting login", slog.String("email", input.Email))

	auth := srv.state.Auth()
	if auth != nil {
		identity, err := auth.SignInWithPassword(ctx, input.Email, input.Password)
		switch {
		case err == nil:
			return srv.openRemoteSession(ctx, identity)
		case errors.Is(err, domainerrors.ErrConnection):
			srv.logger.Warn("Remote login unreachable, falling back to local session", slog.String("email", input.Email), slog.Any("error", err))
		default:
			// A real authorization decision (bad password, unknown account on
			// a reachable remote). Falling back here would silently bypass
			// the credential check.
			srv.logger.Warn("Login rejected", slog.String("email", input.Email), slog.Any("error", err))

			return nil, errors.Wrap(err, "login failed")
		}
	}

	return srv.localLogin(input.Email, input.Password, "", "")
}

// Register provisions a new account: remote first, local fallback only on
// transport failure.
func (srv *identityService) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.Session, error) {
	if err := srv.validate.Struct(input); err != nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, err.Error())
	}

	srv.logger.Info("Starting registration", slog.String("email", input.Email))

	auth := srv.state.Auth()
	if auth != nil {
		identity, err := auth.SignUp(ctx, input.Email, input.Password, input.Name)
		switch {
		case err == nil:
			profile := srv.buildProfile(identity.UID, input.Name, input.Email, input.Avatar)
			srv.writeProfileBestEffort(ctx, profile)

			return srv.openSession(profile, entity.SourceRemote), nil
		case errors.Is(err, domainerrors.ErrConnection):
			srv.logger.Warn("Remote registration unreachable, falling back to local session", slog.String("email", input.Email), slog.Any("error", err))
		default:
			srv.logger.Warn("Registration rejected", slog.String("email", input.Email), slog.Any("error", err))

			return nil, errors.Wrap(err, "registration failed")
		}
	}

	return srv.localLogin(input.Email, input.Password, input.Name, input.Avatar)
}

// LoginWithGoogle attempts remote Google sign-in. On the authorization/
// configuration failure class the caller-supplied fallback identity is
// resolved through the same find-or-create-by-email path as local email
// login; without caller-supplied data the error propagates, an identity is
// never invented.
func (srv *identityService) LoginWithGoogle(ctx context.Context, input *usecase.GoogleLoginInput) (*entity.Session, error) {
	auth := srv.state.Auth()
	if auth != nil && input.IDToken != "" {
		identity, err := auth.SignInWithGoogle(ctx, input.IDToken)
		if err == nil {
			return srv.openRemoteSession(ctx, identity)
		}

		fallbackable := errors.Is(err, domainerrors.ErrGoogleAuthUnavailable) || errors.Is(err, domainerrors.ErrConnection)
		if !fallbackable || input.Fallback == nil {
			srv.logger.Warn("Google sign-in failed", slog.Any("error", err))

			return nil, errors.Wrap(err, "google sign-in failed")
		}
		srv.logger.Warn("Google sign-in unavailable, using caller-supplied identity", slog.Any("error", err))
	}

	if input.Fallback == nil {
		return nil, domainerrors.ErrConnection.WrapMessage("google sign-in requires a connection or a caller-supplied identity")
	}
	if err := srv.validate.Struct(input.Fallback); err != nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, err.Error())
	}

	return srv.localLogin(input.Fallback.Email, "", input.Fallback.Name, input.Fallback.Avatar)
}

// Logout ends the current session. Sign-out of the remote capability is
// best-effort; the local state is always cleared.
func (srv *identityService) Logout(ctx context.Context) error {
	current := srv.state.Session()
	if current.Remote() {
		if auth := srv.state.Auth(); auth != nil {
			if err := auth.SignOut(ctx); err != nil {
				srv.logger.Warn("Remote sign-out failed", slog.Any("error", err))
			}
		}
	}

	srv.cache.WriteSession(nil)
	srv.state.SetSession(nil)
	srv.logger.Info("Logged out")

	return nil
}

// Current returns the current identity, or nil.
func (srv *identityService) Current() *entity.Session {
	return srv.state.Session()
}

// Subscribe registers an identity-change callback.
func (srv *identityService) Subscribe(cb func(*entity.Session)) func() {
	return srv.state.SubscribeSession(cb)
}

// localLogin finds or creates a local synthetic account by case-insensitive
// email match. When a credential hash was stored for the email, the password
// is verified against it; accounts provisioned without a password keep the
// unverified offline-demo behavior.
func (srv *identityService) localLogin(email, password, name, avatar string) (*entity.Session, error) {
	normalized := util.NormalizeEmail(email)
	roster := entity.Roster(srv.cache.ReadUsers())

	user := roster.FindByEmail(normalized)
	if user != nil {
		if err := srv.checkLocalCredential(normalized, password); err != nil {
			return nil, err
		}
		srv.logger.Debug("Resolved existing local user", slog.String("userID", user.ID))

		return srv.openSession(user, entity.SourceLocal), nil
	}

	if name == "" {
		name = util.NameFromEmail(email)
	}
	created := srv.buildProfile(entity.NewLocalID(), name, normalized, avatar)
	roster = append(roster, *created)
	srv.cache.WriteUsers(roster)
	srv.storeLocalCredential(normalized, password)
	srv.logger.Info("Provisioned local user", slog.String("userID", created.ID), slog.String("email", normalized))

	return srv.openSession(created, entity.SourceLocal), nil
}

func (srv *identityService) checkLocalCredential(email, password string) error {
	if password == "" {
		return nil
	}

	credentials := srv.cache.ReadLocalCredentials()
	hash, ok := credentials[email]
	if !ok {
		// First password seen for an account provisioned without one: adopt it.
		srv.storeLocalCredential(email, password)

		return nil
	}

	if !srv.hasher.Check(password, hash) {
		return errors.Wrap(domainerrors.ErrInvalidCredentials, "local credential mismatch")
	}

	return nil
}

func (srv *identityService) storeLocalCredential(email, password string) {
	if password == "" {
		return
	}

	hash, err := srv.hasher.Hash(password)
	if err != nil {
		srv.logger.Warn("Failed to hash local credential", slog.Any("error", err))

		return
	}

	credentials := srv.cache.ReadLocalCredentials()
	if credentials == nil {
		credentials = make(map[string]string)
	}
	credentials[email] = hash
	srv.cache.WriteLocalCredentials(credentials)
}

// openRemoteSession resolves the profile document for a remote identity
// (auto-repairing it if missing) and publishes the remote session.
func (srv *identityService) openRemoteSession(ctx context.Context, identity *service.AuthIdentity) (*entity.Session, error) {
	profile, err := srv.ensureProfile(ctx, identity)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve profile for remote session")
	}

	return srv.openSession(profile, entity.SourceRemote), nil
}

func (srv *identityService) openSession(user *entity.User, source entity.SessionSource) *entity.Session {
	srv.cache.WriteSession(user)
	session := &entity.Session{User: user, Source: source}
	srv.state.SetSession(session)

	return session
}

// ensureProfile fetches the profile document matching a remote identity. If
// the document is absent it is synthesized from the identity-provider fields
// and written back (auto-repair); absence is never surfaced as an error. The
// repair is idempotent and side-effecting only on absence.
func (srv *identityService) ensureProfile(ctx context.Context, identity *service.AuthIdentity) (*entity.User, error) {
	remote := srv.state.Remote()
	if remote == nil {
		// Authenticated without a document store (auth-only configuration):
		// synthesize the profile in memory.
		return srv.buildProfile(identity.UID, identity.DisplayName, identity.Email, identity.PhotoURL), nil
	}

	doc, err := remote.GetDocument(ctx, repository.CollectionUsers, identity.UID)
	if err == nil {
		profile := userFromDocument(doc.ID, doc.Data)

		return &profile, nil
	}
	if !errors.Is(err, repository.ErrDocumentNotFound) {
		return nil, errors.Wrap(err, "failed to fetch profile document")
	}

	srv.logger.Info("Profile document missing, repairing", slog.String("uid", identity.UID))
	profile := srv.buildProfile(identity.UID, identity.DisplayName, identity.Email, identity.PhotoURL)
	srv.writeProfileBestEffort(ctx, profile)

	return profile, nil
}

// buildProfile synthesizes a roster profile from whatever identity fields are
// available, filling the gaps the way the seeded roster does.
func (srv *identityService) buildProfile(id, name, email, avatar string) *entity.User {
	if name == "" {
		name = util.NameFromEmail(email)
	}
	if avatar == "" {
		avatar = util.AvatarURL(name)
	}

	return &entity.User{
		ID:     id,
		Name:   name,
		Email:  util.NormalizeEmail(email),
		Avatar: avatar,
		Active: true,
		Role:   entity.RoleUser,
	}
}

// writeProfileBestEffort pushes a profile document remotely and mirrors it
// into the cached roster. Remote failure is logged, not raised: the next
// login repairs the document again.
func (srv *identityService) writeProfileBestEffort(ctx context.Context, profile *entity.User) {
	roster := entity.Roster(srv.cache.ReadUsers())
	if roster.FindByID(profile.ID) == nil {
		roster = append(roster, *profile)
		srv.cache.WriteUsers(roster)
	}

	remote := srv.state.Remote()
	if remote == nil {
		return
	}

	if err := remote.PutDocument(ctx, repository.CollectionUsers, profile.ID, userToDocument(*profile)); err != nil {
		srv.logger.Warn("Failed to write profile document", slog.String("uid", profile.ID), slog.Any("error", err))
	}
}
