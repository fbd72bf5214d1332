package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "12.50€", FormatMoney(decimal.RequireFromString("12.5")))
	assert.Equal(t, "0.00€", FormatMoney(decimal.Zero))
	assert.Equal(t, "1234.57€", FormatMoney(decimal.RequireFromString("1234.567")))
}

func TestTokenRoundTrip(t *testing.T) {
	signer := NewTokenSigner("secret", time.Hour)

	token, err := signer.GenerateToken("user-1", "staff")
	require.NoError(t, err)

	claims, err := signer.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "staff", claims.Role)

	_, err = NewTokenSigner("other", time.Hour).ParseToken(token)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	signer := NewTokenSigner("secret", time.Minute)
	signer.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := signer.GenerateToken("user-1", "admin")
	require.NoError(t, err)

	_, err = signer.ParseToken(token)
	assert.Error(t, err)
}

func TestBlacklistExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b := NewTokenBlacklist()
	b.now = func() time.Time { return now }

	b.Add("a", now.Add(time.Hour))
	b.Add("b", now.Add(-time.Minute))

	assert.True(t, b.Contains("a"))
	assert.False(t, b.Contains("b"))
	assert.False(t, b.Contains("missing"))

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, b.Cleanup())
	assert.False(t, b.Contains("a"))
}

type namedErr struct{}

func (namedErr) Error() string     { return "phone: is required" }
func (namedErr) FieldName() string { return "phone" }

func TestRespondErrorNamesField(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondError(c, http.StatusBadRequest, errors.Wrap(namedErr{}, "checkout"))

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Status)
	assert.Equal(t, "phone", resp.Field)
	assert.Equal(t, "checkout: phone: is required", resp.Message)
	assert.True(t, c.IsAborted())
}
