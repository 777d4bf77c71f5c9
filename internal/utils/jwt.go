package utils // package utils provides helpers for password hashing and token issuing

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
)

// TokenUse is the token_use claim carried by every issued token.
const TokenUse = "id"

// IDToken is a signed identity token along with its expiry.
type IDToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// IdentityClaims are the claims of an ID token. The issuer is the user
// pool and the audience is the app client the token was issued to.
type IdentityClaims struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	TokenUse   string `json:"token_use"`
	jwt.RegisteredClaims
}

// TokenSubject identifies who a token is issued for.
type TokenSubject struct {
	UserID    uint64
	Email     string
	FirstName string
	LastName  string
}

// NewIDToken builds and signs an HS256 JWT for a user. issuer is the user
// pool id, audience the app client id.
func NewIDToken(secret, issuer, audience string, sub TokenSubject, ttl time.Duration) (IDToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := IdentityClaims{
		Email:      sub.Email,
		GivenName:  sub.FirstName,
		FamilyName: sub.LastName,
		TokenUse:   TokenUse,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", sub.UserID),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return IDToken{}, err
	}
	return IDToken{Token: signed, Exp: exp}, nil
}

// ErrTokenUse is returned for tokens that are not ID tokens.
var ErrTokenUse = errors.New("unexpected token_use")

// ParseIDToken verifies signature, expiry, issuer and audience and returns
// the claims.
func ParseIDToken(raw, secret, issuer, audience string) (*IdentityClaims, error) {
	claims := &IdentityClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if claims.TokenUse != TokenUse {
		return nil, ErrTokenUse
	}
	return claims, nil
}
