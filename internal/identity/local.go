package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/utils"
)

// UserStore is the persistence the local provider needs.
type UserStore interface {
	CreateUser(ctx context.Context, u model.User) (uint64, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	ConfirmUser(ctx context.Context, email string) error
}

// LocalConfig configures a Local provider.
type LocalConfig struct {
	UserPoolID string
	ClientID   string
	Secret     string        // HS256 signing key
	TokenTTL   time.Duration // lifetime of issued ID tokens
	BcryptCost int
}

// Local is a self-hosted user pool: accounts live in UserStore, passwords
// are bcrypt hashed and ID tokens are HS256 JWTs with the pool as issuer
// and the client as audience.
type Local struct {
	cfg   LocalConfig
	users UserStore
	log   logrus.FieldLogger
}

// NewLocal panics when users is nil.
func NewLocal(cfg LocalConfig, users UserStore, log logrus.FieldLogger) *Local {
	if users == nil {
		panic("nil user store passed to NewLocal")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Local{cfg: cfg, users: users, log: log}
}

// SignUp registers an unconfirmed user. The username must be an email
// address; given_name and family_name attributes are kept if present.
func (l *Local) SignUp(ctx context.Context, in SignUpInput) error {
	if in.ClientID != l.cfg.ClientID {
		return ErrUnknownClient
	}
	email, err := normalizeUsername(in.Username)
	if err != nil {
		return err
	}
	if err := checkPasswordPolicy(in.Password); err != nil {
		return err
	}
	hash, err := utils.HashPassword(in.Password, l.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = l.users.CreateUser(ctx, model.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    AttributeValue(in.UserAttributes, "given_name"),
		LastName:     AttributeValue(in.UserAttributes, "family_name"),
	})
	if errors.Is(err, repository.ErrEmailExists) {
		return l.resumeSignUp(ctx, email, in.Password)
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	l.log.WithField("email", email).Info("user signed up")
	return nil
}

// resumeSignUp accepts a repeated sign-up for an account that was created
// but never confirmed, provided the password matches, so the caller can
// finish with AdminConfirmSignUp. Any other existing account is
// ErrUserExists.
func (l *Local) resumeSignUp(ctx context.Context, email, password string) error {
	u, err := l.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserExists
		}
		return fmt.Errorf("load user: %w", err)
	}
	if u.Confirmed || !utils.VerifyPassword(u.PasswordHash, password) {
		return ErrUserExists
	}
	l.log.WithField("email", email).Info("resuming unconfirmed sign-up")
	return nil
}

// AdminConfirmSignUp confirms a user without a verification code.
func (l *Local) AdminConfirmSignUp(ctx context.Context, in AdminConfirmInput) error {
	if in.UserPoolID != l.cfg.UserPoolID {
		return ErrUnknownClient
	}
	email, err := normalizeUsername(in.Username)
	if err != nil {
		return err
	}
	err = l.users.ConfirmUser(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("confirm user: %w", err)
	}
	return nil
}

// AdminInitiateAuth supports the ADMIN_NO_SRP_AUTH flow only. Unknown
// users and wrong passwords both yield ErrInvalidCredentials.
func (l *Local) AdminInitiateAuth(ctx context.Context, in AdminAuthInput) (AuthResult, error) {
	if in.UserPoolID != l.cfg.UserPoolID || in.ClientID != l.cfg.ClientID {
		return AuthResult{}, ErrUnknownClient
	}
	if in.AuthFlow != AuthFlowAdminNoSRP {
		return AuthResult{}, fmt.Errorf("%w: unsupported auth flow %q", ErrInvalidParameter, in.AuthFlow)
	}
	email, err := normalizeUsername(in.AuthParameters["USERNAME"])
	if err != nil {
		return AuthResult{}, err
	}
	password := in.AuthParameters["PASSWORD"]
	if password == "" {
		return AuthResult{}, fmt.Errorf("%w: PASSWORD is required", ErrInvalidParameter)
	}

	u, err := l.users.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return AuthResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return AuthResult{}, fmt.Errorf("load user: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return AuthResult{}, ErrInvalidCredentials
	}
	if !u.Confirmed {
		return AuthResult{}, ErrNotConfirmed
	}

	tok, err := utils.NewIDToken(l.cfg.Secret, l.cfg.UserPoolID, l.cfg.ClientID, utils.TokenSubject{
		UserID:    u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}, l.cfg.TokenTTL)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue id token: %w", err)
	}
	return AuthResult{IDToken: tok.Token, ExpiresIn: int64(l.cfg.TokenTTL / time.Second)}, nil
}

func normalizeUsername(username string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(username))
	if email == "" {
		return "", fmt.Errorf("%w: username is required", ErrInvalidParameter)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: username must be an email address", ErrInvalidParameter)
	}
	return email, nil
}

// checkPasswordPolicy requires at least 8 characters with an upper-case
// letter, a lower-case letter and a digit.
func checkPasswordPolicy(p string) error {
	if len(p) < 8 {
		return fmt.Errorf("%w: minimum length is 8", ErrInvalidPassword)
	}
	var upper, lower, digit bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return fmt.Errorf("%w: must contain upper-case, lower-case and numeric characters", ErrInvalidPassword)
	}
	return nil
}
