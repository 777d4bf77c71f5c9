package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/table-reservation/internal/identity"
)

// AuthHandler serves /signup and /signin against an identity provider.
type AuthHandler struct {
	Provider   identity.Provider
	UserPoolID string
	ClientID   string
	Log        logrus.FieldLogger
}

// NewAuthHandler panics if provider is nil.
func NewAuthHandler(provider identity.Provider, userPoolID, clientID string, log logrus.FieldLogger) *AuthHandler {
	if provider == nil {
		panic("nil provider passed to NewAuthHandler")
	}
	return &AuthHandler{Provider: provider, UserPoolID: userPoolID, ClientID: clientID, Log: log}
}

type signupReq struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type signinReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers the user and confirms the account straight away so it
// can sign in without a verification step.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Signup failed", "details": "invalid request body"})
	}
	email := strings.TrimSpace(req.Email)
	ctx := c.Request().Context()

	err := h.Provider.SignUp(ctx, identity.SignUpInput{
		ClientID: h.ClientID,
		Username: email,
		Password: req.Password,
		UserAttributes: []identity.Attribute{
			{Name: "email", Value: email},
			{Name: "given_name", Value: strings.TrimSpace(req.FirstName)},
			{Name: "family_name", Value: strings.TrimSpace(req.LastName)},
		},
	})
	if err == nil {
		err = h.Provider.AdminConfirmSignUp(ctx, identity.AdminConfirmInput{UserPoolID: h.UserPoolID, Username: email})
	}
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Signup failed", "details": h.details(err, "signup")})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User created successfully"})
}

// Signin authenticates with email and password and returns the ID token
// as accessToken.
func (h *AuthHandler) Signin(c echo.Context) error {
	var req signinReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Authentication failed", "details": "invalid request body"})
	}
	res, err := h.Provider.AdminInitiateAuth(c.Request().Context(), identity.AdminAuthInput{
		AuthFlow:   identity.AuthFlowAdminNoSRP,
		UserPoolID: h.UserPoolID,
		ClientID:   h.ClientID,
		AuthParameters: map[string]string{
			"USERNAME": strings.TrimSpace(req.Email),
			"PASSWORD": req.Password,
		},
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Authentication failed", "details": h.details(err, "signin")})
	}
	return c.JSON(http.StatusOK, echo.Map{"accessToken": res.IDToken})
}

// details returns the client-facing text for a provider error. Provider
// rejections are passed through; anything else is logged and hidden.
func (h *AuthHandler) details(err error, op string) string {
	for _, known := range []error{
		identity.ErrUnknownClient,
		identity.ErrUserExists,
		identity.ErrUserNotFound,
		identity.ErrNotConfirmed,
		identity.ErrInvalidCredentials,
		identity.ErrInvalidPassword,
		identity.ErrInvalidParameter,
	} {
		if errors.Is(err, known) {
			h.Log.WithError(err).WithField("op", op).Debug("identity provider rejected request")
			return err.Error()
		}
	}
	h.Log.WithError(err).WithField("op", op).Error("identity provider failed")
	return "internal error"
}
