package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/identity"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/reservation"
)

func newServer(t *testing.T, authRequired bool) (*echo.Echo, *repository.MemoryStore) {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	store := repository.NewMemoryStore()
	provider := identity.NewLocal(identity.LocalConfig{
		UserPoolID: "pool",
		ClientID:   "client",
		Secret:     "secret",
		TokenTTL:   time.Minute,
		BcryptCost: 4,
	}, store, log)

	e := echo.New()
	Register(e, Deps{
		Auth:         handler.NewAuthHandler(provider, "pool", "client", log),
		Tables:       handler.NewTableHandler(store, log),
		Reservations: handler.NewReservationHandler(reservation.NewController(store, store, nil, log), store, log),
		Log:          log,
		RateLimit:    config.RateLimitConfig{Enabled: true},
		Cache:        config.CacheConfig{Enabled: true, TTL: time.Minute},
		JWTSecret:    "secret",
		UserPoolID:   "pool",
		ClientID:     "client",
		AuthRequired: authRequired,
	})
	return e, store
}

func call(e *echo.Echo, method, target, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestUnmatchedRoutes(t *testing.T) {
	e, _ := newServer(t, true)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/nope"},
		{http.MethodDelete, "/tables"},
		{http.MethodPut, "/reservations"},
		{http.MethodGet, "/signup"},
	} {
		rec := call(e, tc.method, tc.path, "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.method+" "+tc.path)
		assert.JSONEq(t, `{"message":"Resource not found"}`, rec.Body.String())
	}
}

func TestRequestIDAndHealth(t *testing.T) {
	e, _ := newServer(t, true)
	rec := call(e, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	e, store := newServer(t, true)
	require.NoError(t, store.PutTable(context.Background(), model.Table{ID: 1, Number: 1}))

	rec := call(e, http.MethodGet, "/tables", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(e, http.MethodPost, "/signup", `{"email":"kim@example.com","password":"Secret123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = call(e, http.MethodPost, "/signin", `{"email":"kim@example.com","password":"Secret123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))

	rec = call(e, http.MethodGet, "/tables", "", out.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tables":[{"id":1,"number":1}]}`, rec.Body.String())

	rec = call(e, http.MethodPost, "/reservations",
		`{"tableNumber":1,"clientName":"Kim","phoneNumber":"1","date":"2024-07-01","slotTimeStart":"12:00","slotTimeEnd":"13:00"}`,
		out.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestOpenRoutesWhenAuthDisabled(t *testing.T) {
	e, _ := newServer(t, false)
	rec := call(e, http.MethodGet, "/reservations", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reservations":[]}`, rec.Body.String())
}

func TestPanicIsRecovered(t *testing.T) {
	e, _ := newServer(t, false)
	e.GET("/panic", func(echo.Context) error { panic("boom") })
	rec := call(e, http.MethodGet, "/panic", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
