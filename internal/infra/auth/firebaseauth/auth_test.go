package firebaseauth

import (
	"testing"

	domainerrors "ibspot/internal/domain/errors"
	"ibspot/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapAPIError_CredentialRejections(t *testing.T) {
	for _, code := range []string{"EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED"} {
		err := mapAPIError("accounts:signInWithPassword", 400, []byte(`{"error":{"message":"`+code+`"}}`))
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials), "code %s", code)
		assert.False(t, errors.Is(err, domainerrors.ErrConnection), "code %s", code)
	}
}

func TestMapAPIError_SignUpRejections(t *testing.T) {
	err := mapAPIError("accounts:signUp", 400, []byte(`{"error":{"message":"EMAIL_EXISTS"}}`))
	assert.True(t, errors.Is(err, domainerrors.ErrEmailAlreadyInUse))

	err = mapAPIError("accounts:signUp", 400, []byte(`{"error":{"message":"WEAK_PASSWORD : Password should be at least 6 characters"}}`))
	assert.True(t, errors.Is(err, domainerrors.ErrWeakPassword))
}

func TestMapAPIError_GoogleAuthUnavailable(t *testing.T) {
	err := mapAPIError("accounts:signInWithIdp", 400, []byte(`{"error":{"message":"OPERATION_NOT_ALLOWED"}}`))
	assert.True(t, errors.Is(err, domainerrors.ErrGoogleAuthUnavailable))
}

func TestMapAPIError_UnknownRejectionIsNotConnectionError(t *testing.T) {
	// An unrecognized remote rejection must never look like a transport
	// failure, or callers would fall back past a real authorization decision.
	err := mapAPIError("accounts:signInWithPassword", 400, []byte(`{"error":{"message":"SOMETHING_NEW"}}`))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, domainerrors.ErrConnection))
	assert.False(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	assert.Contains(t, err.Error(), "SOMETHING_NEW")
}

func TestService_AuthStateSubscription(t *testing.T) {
	svc := &Service{listeners: map[int]func(*service.AuthIdentity){}}

	var got []*service.AuthIdentity
	cancel := svc.SubscribeAuthState(func(identity *service.AuthIdentity) {
		got = append(got, identity)
	})

	svc.setCurrent(&service.AuthIdentity{UID: "uid1"})
	svc.setCurrent(nil)

	require.Len(t, got, 2)
	assert.Equal(t, "uid1", got[0].UID)
	assert.Nil(t, got[1])

	cancel()
	svc.setCurrent(&service.AuthIdentity{UID: "uid2"})
	assert.Len(t, got, 2)
}
