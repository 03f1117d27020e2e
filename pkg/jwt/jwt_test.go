package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuerRoundTrip(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	id := uuid.New()

	token, err := issuer.GenerateToken(id, "tech@example.com", 3, "tech")
	require.NoError(t, err)

	claims, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, 3, claims.Building)
	assert.Equal(t, "tech", claims.Role)
}

func TestValidateTokenRejects(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	token, err := issuer.GenerateToken(uuid.New(), "a@example.com", 1, "admin")
	require.NoError(t, err)

	_, err = NewIssuer("other", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := &Issuer{secret: []byte("secret"), ttl: -time.Minute}
	token, err = expired.GenerateToken(uuid.New(), "a@example.com", 1, "admin")
	require.NoError(t, err)
	_, err = expired.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
