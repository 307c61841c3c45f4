package firebaseauth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"ibspot/config"
	domainerrors "ibspot/internal/domain/errors"
	"ibspot/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const identityToolkitURL = "https://identitytoolkit.googleapis.com/v1"

const requestTimeout = 15 * time.Second

// Service authenticates against the Firebase Identity Toolkit REST API and
// fans auth-state transitions out to subscribers.
type Service struct {
	apiKey string
	client *http.Client
	logger *slog.Logger

	mu        sync.Mutex
	current   *service.AuthIdentity
	listeners map[int]func(*service.AuthIdentity)
	nextID    int
}

// Params defines the required parameters
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// New creates the Firebase auth provider. It returns nil when no API key is
// configured: callers treat a nil provider as offline mode.
func New(params Params) service.AuthProvider {
	cfg := params.Config.Firebase
	if cfg == nil || cfg.APIKey == "" {
		params.Logger.Warn("Firebase API key is not configured, remote auth disabled")

		return nil
	}

	return &Service{
		apiKey:    cfg.APIKey,
		client:    &http.Client{Timeout: requestTimeout},
		logger:    params.Logger,
		listeners: make(map[int]func(*service.AuthIdentity)),
	}
}

type tokenResponse struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl"`
	IDToken     string `json:"idToken"`
}

// SignInWithPassword verifies an email and password pair.
func (s *Service) SignInWithPassword(ctx context.Context, email, password string) (*service.AuthIdentity, error) {
	var resp tokenResponse
	err := s.call(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	identity := s.identityFrom(resp)
	s.setCurrent(identity)

	return identity, nil
}

// SignUp registers a new account and sets its display name.
func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (*service.AuthIdentity, error) {
	var resp tokenResponse
	err := s.call(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	if displayName != "" {
		var updated tokenResponse
		err := s.call(ctx, "accounts:update", map[string]any{
			"idToken":           resp.IDToken,
			"displayName":       displayName,
			"returnSecureToken": false,
		}, &updated)
		if err != nil {
			// The account exists either way, keep going with the bare profile.
			s.logger.Warn("Failed to set display name after sign up", slog.Any("error", err))
		} else {
			resp.DisplayName = updated.DisplayName
		}
	}

	identity := s.identityFrom(resp)
	s.setCurrent(identity)

	return identity, nil
}

// SignInWithGoogle exchanges a Google ID token for a Firebase session.
func (s *Service) SignInWithGoogle(ctx context.Context, idToken string) (*service.AuthIdentity, error) {
	postBody := url.Values{}
	postBody.Set("id_token", idToken)
	postBody.Set("providerId", "google.com")

	var resp tokenResponse
	err := s.call(ctx, "accounts:signInWithIdp", map[string]any{
		"postBody":            postBody.Encode(),
		"requestUri":          "http://localhost",
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	identity := s.identityFrom(resp)
	s.setCurrent(identity)

	return identity, nil
}

// SignOut drops the current identity and notifies subscribers. The REST API
// has no server-side session to revoke.
func (s *Service) SignOut(_ context.Context) error {
	s.setCurrent(nil)

	return nil
}

// SubscribeAuthState registers a callback for sign-in and sign-out
// transitions. The returned function cancels the registration.
func (s *Service) SubscribeAuthState(onChange func(*service.AuthIdentity)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = onChange
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Service) identityFrom(resp tokenResponse) *service.AuthIdentity {
	return &service.AuthIdentity{
		UID:         resp.LocalID,
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
		PhotoURL:    resp.PhotoURL,
	}
}

func (s *Service) setCurrent(identity *service.AuthIdentity) {
	s.mu.Lock()
	s.current = identity
	callbacks := make([]func(*service.AuthIdentity), 0, len(s.listeners))
	for _, cb := range s.listeners {
		callbacks = append(callbacks, cb)
	}
	s.mu.Unlock()

	for _, cb := range callbacks {
		cb(identity)
	}
}

// call posts one Identity Toolkit operation and decodes the response,
// translating the API's error vocabulary into domain errors.
func (s *Service) call(ctx context.Context, operation string, payload map[string]any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s request", operation)
	}

	endpoint := identityToolkitURL + "/" + operation + "?key=" + url.QueryEscape(s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "failed to create %s request", operation)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return domainerrors.ErrConnection.WrapMessage("auth service is unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)

		return mapAPIError(operation, resp.StatusCode, raw)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "failed to decode %s response", operation)
	}

	return nil
}

// mapAPIError translates Identity Toolkit rejection codes. Anything
// unrecognized stays a plain wrapped error: only transport failures may be
// treated as connectivity problems by callers.
func mapAPIError(operation string, statusCode int, raw []byte) error {
	var apiErr struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal(raw, &apiErr)
	message := apiErr.Error.Message

	switch {
	case message == "EMAIL_NOT_FOUND",
		message == "INVALID_PASSWORD",
		message == "INVALID_LOGIN_CREDENTIALS",
		message == "USER_DISABLED":
		return domainerrors.ErrInvalidCredentials.WrapMessage(message)
	case message == "EMAIL_EXISTS":
		return domainerrors.ErrEmailAlreadyInUse.WrapMessage(message)
	case strings.HasPrefix(message, "WEAK_PASSWORD"):
		return domainerrors.ErrWeakPassword.WrapMessage(message)
	case message == "OPERATION_NOT_ALLOWED",
		strings.Contains(message, "UNAUTHORIZED_DOMAIN"):
		return domainerrors.ErrGoogleAuthUnavailable.WrapMessage(message)
	default:
		return errors.Errorf("%s failed with status %d: %s", operation, statusCode, string(raw))
	}
}
