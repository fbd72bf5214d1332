package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-ordering/models"
)

func TestRegisterLoginLogout(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/auth/register", "", map[string]string{
		"email": "ana@example.com", "password": "secret123", "full_name": "Ana",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "ana@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "ana@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Token string      `json:"token"`
		Role  models.Role `json:"role"`
	}
	decode(t, w, &login)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, models.RoleCustomer, login.Role)

	w = s.do(http.MethodGet, "/auth/me", login.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/auth/logout", login.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/auth/me", login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/auth/register", "", map[string]string{"email": "not-an-email", "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.login("taken@example.com", models.RoleCustomer)
	w = s.do(http.MethodPost, "/auth/register", "", map[string]string{"email": "taken@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBackOfficeRequiresRole(t *testing.T) {
	s := newTestServer(t)
	customer := s.login("c@example.com", models.RoleCustomer)
	staff := s.login("s@example.com", models.RoleStaff)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/admin/orders", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/admin/orders", "garbage", nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/admin/orders", customer, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/admin/orders", staff, nil).Code)

	// Settings and catalog writes are admin only.
	w := s.do(http.MethodPut, "/admin/settings/feature_flags", staff, map[string]bool{"delivery": false})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}
