package token

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewService("segredo", time.Hour)

	tok, err := svc.GenerateToken("user-1", "admin")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	tok, err := NewService("segredo", time.Hour).GenerateToken("user-1", "user")
	require.NoError(t, err)

	_, err = NewService("outro", time.Hour).ValidateToken(tok)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewService("segredo", time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := svc.GenerateToken("user-1", "user")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
