package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	req := require.New(t)
	m := NewTokenManager("test-secret-which-is-long-enough", time.Hour)

	token, err := m.Issue("user-42")
	req.NoError(err)

	claims, err := m.Validate(token)
	req.NoError(err)
	req.Equal("user-42", claims.UserID)
}

func TestTokenRejectsExpired(t *testing.T) {
	req := require.New(t)
	m := NewTokenManager("test-secret-which-is-long-enough", -time.Minute)

	token, err := m.Issue("user-42")
	req.NoError(err)

	_, err = m.Validate(token)
	req.Error(err)
}

func TestTokenRejectsForeignSignature(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenManager("secret-a-secret-a-secret-a", time.Hour)
	verifier := NewTokenManager("secret-b-secret-b-secret-b", time.Hour)

	token, err := issuer.Issue("user-42")
	req.NoError(err)

	_, err = verifier.Validate(token)
	req.Error(err)
}
