package identity

import (
	"context"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/utils"
)

const (
	testPool   = "eu-west-1_pool"
	testClient = "client-abc"
	testSecret = "test-secret"
)

func newLocal(t *testing.T) (*Local, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	log, _ := logtest.NewNullLogger()
	l := NewLocal(LocalConfig{
		UserPoolID: testPool,
		ClientID:   testClient,
		Secret:     testSecret,
		TokenTTL:   time.Minute,
		BcryptCost: 4,
	}, store, log)
	return l, store
}

func signUp(t *testing.T, l *Local, email, password string) {
	t.Helper()
	require.NoError(t, l.SignUp(context.Background(), SignUpInput{
		ClientID: testClient,
		Username: email,
		Password: password,
		UserAttributes: []Attribute{
			{Name: "email", Value: email},
			{Name: "given_name", Value: "Ada"},
		},
	}))
}

func authInput(email, password string) AdminAuthInput {
	return AdminAuthInput{
		AuthFlow:       AuthFlowAdminNoSRP,
		UserPoolID:     testPool,
		ClientID:       testClient,
		AuthParameters: map[string]string{"USERNAME": email, "PASSWORD": password},
	}
}

func TestLocal_SignUpConfirmAuth(t *testing.T) {
	l, store := newLocal(t)
	ctx := context.Background()

	signUp(t, l, "Ada@Example.com", "Passw0rdX")

	u, err := store.GetUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.False(t, u.Confirmed)
	assert.Equal(t, "Ada", u.FirstName)
	assert.NotEqual(t, "Passw0rdX", u.PasswordHash)

	_, err = l.AdminInitiateAuth(ctx, authInput("ada@example.com", "Passw0rdX"))
	assert.ErrorIs(t, err, ErrNotConfirmed)

	require.NoError(t, l.AdminConfirmSignUp(ctx, AdminConfirmInput{UserPoolID: testPool, Username: "ada@example.com"}))

	res, err := l.AdminInitiateAuth(ctx, authInput("ada@example.com", "Passw0rdX"))
	require.NoError(t, err)
	assert.EqualValues(t, 60, res.ExpiresIn)

	claims, err := utils.ParseIDToken(res.IDToken, testSecret, testPool, testClient)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "Ada", claims.GivenName)
}

func TestLocal_SignUpDuplicate(t *testing.T) {
	l, _ := newLocal(t)
	signUp(t, l, "bob@example.com", "Passw0rdX")

	err := l.SignUp(context.Background(), SignUpInput{
		ClientID: testClient,
		Username: "BOB@example.com",
		Password: "Passw0rdY",
	})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLocal_SignUpResumesUnconfirmed(t *testing.T) {
	l, _ := newLocal(t)
	ctx := context.Background()
	signUp(t, l, "cy@example.com", "Passw0rdX")

	// same password on an unconfirmed account picks the sign-up back up
	signUp(t, l, "cy@example.com", "Passw0rdX")
	require.NoError(t, l.AdminConfirmSignUp(ctx, AdminConfirmInput{UserPoolID: testPool, Username: "cy@example.com"}))
	_, err := l.AdminInitiateAuth(ctx, authInput("cy@example.com", "Passw0rdX"))
	require.NoError(t, err)

	// once confirmed the account is taken, whatever the password
	err = l.SignUp(ctx, SignUpInput{ClientID: testClient, Username: "cy@example.com", Password: "Passw0rdX"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLocal_SignUpRejects(t *testing.T) {
	l, _ := newLocal(t)
	tests := []struct {
		name string
		in   SignUpInput
		want error
	}{
		{"wrong client", SignUpInput{ClientID: "other", Username: "a@example.com", Password: "Passw0rdX"}, ErrUnknownClient},
		{"missing username", SignUpInput{ClientID: testClient, Password: "Passw0rdX"}, ErrInvalidParameter},
		{"not an email", SignUpInput{ClientID: testClient, Username: "alice", Password: "Passw0rdX"}, ErrInvalidParameter},
		{"short password", SignUpInput{ClientID: testClient, Username: "a@example.com", Password: "Pa0"}, ErrInvalidPassword},
		{"no digit", SignUpInput{ClientID: testClient, Username: "a@example.com", Password: "Password"}, ErrInvalidPassword},
		{"no upper", SignUpInput{ClientID: testClient, Username: "a@example.com", Password: "passw0rdx"}, ErrInvalidPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.SignUp(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLocal_AuthFailures(t *testing.T) {
	l, _ := newLocal(t)
	ctx := context.Background()
	signUp(t, l, "carol@example.com", "Passw0rdX")
	require.NoError(t, l.AdminConfirmSignUp(ctx, AdminConfirmInput{UserPoolID: testPool, Username: "carol@example.com"}))

	_, err := l.AdminInitiateAuth(ctx, authInput("carol@example.com", "WrongPass1"))
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = l.AdminInitiateAuth(ctx, authInput("nobody@example.com", "Passw0rdX"))
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = l.AdminInitiateAuth(ctx, authInput("carol@example.com", ""))
	assert.ErrorIs(t, err, ErrInvalidParameter)

	in := authInput("carol@example.com", "Passw0rdX")
	in.AuthFlow = "USER_SRP_AUTH"
	_, err = l.AdminInitiateAuth(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	in = authInput("carol@example.com", "Passw0rdX")
	in.ClientID = "other"
	_, err = l.AdminInitiateAuth(ctx, in)
	assert.ErrorIs(t, err, ErrUnknownClient)
}

func TestLocal_ConfirmUnknownUser(t *testing.T) {
	l, _ := newLocal(t)
	err := l.AdminConfirmSignUp(context.Background(), AdminConfirmInput{UserPoolID: testPool, Username: "ghost@example.com"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = l.AdminConfirmSignUp(context.Background(), AdminConfirmInput{UserPoolID: "other", Username: "ghost@example.com"})
	assert.ErrorIs(t, err, ErrUnknownClient)
}
