// Package identity is the user-pool collaborator behind /signup and
// /signin. Provider mirrors the three operations the service consumes:
// self sign-up, admin confirmation and admin-initiated authentication,
// each keyed by a user-pool id and an app client id.
package identity

import (
	"context"
	"errors"
)

var (
	ErrUnknownClient      = errors.New("unknown user pool or client")
	ErrUserExists         = errors.New("an account with the given email already exists")
	ErrUserNotFound       = errors.New("user does not exist")
	ErrNotConfirmed       = errors.New("user is not confirmed")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInvalidPassword    = errors.New("password does not conform to policy")
	ErrInvalidParameter   = errors.New("invalid parameter")
)

// Attribute is a user attribute set at sign-up.
type Attribute struct {
	Name  string
	Value string
}

// SignUpInput registers a user with an app client.
type SignUpInput struct {
	ClientID       string
	Username       string
	Password       string
	UserAttributes []Attribute
}

// AdminConfirmInput confirms a signed-up user without a verification code.
type AdminConfirmInput struct {
	UserPoolID string
	Username   string
}

// AuthFlowAdminNoSRP authenticates with the plain username and password.
const AuthFlowAdminNoSRP = "ADMIN_NO_SRP_AUTH"

// AdminAuthInput starts an authentication flow on behalf of a user.
type AdminAuthInput struct {
	AuthFlow       string
	UserPoolID     string
	ClientID       string
	AuthParameters map[string]string // USERNAME, PASSWORD
}

// AuthResult carries the tokens of a successful authentication.
type AuthResult struct {
	IDToken   string
	ExpiresIn int64 // seconds
}

// Provider is the identity-provider contract.
type Provider interface {
	SignUp(ctx context.Context, in SignUpInput) error
	AdminConfirmSignUp(ctx context.Context, in AdminConfirmInput) error
	AdminInitiateAuth(ctx context.Context, in AdminAuthInput) (AuthResult, error)
}

// AttributeValue returns the value of the named attribute, if present.
func AttributeValue(attrs []Attribute, name string) string {
	for _, a := range attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}
