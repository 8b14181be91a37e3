package authentication

import (
	"testing"
	"time"

	"github.com/srikiran1905s/FEDF/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	tm := NewTokenManager("unit-test-secret", time.Hour)

	token, err := tm.Issue(42, models.RolePatient)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, models.RolePatient, claims.Role)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestVerifyExpiredToken(t *testing.T) {
	tm := NewTokenManager("unit-test-secret", -time.Minute)

	token, err := tm.Issue(42, models.RolePatient)
	require.NoError(t, err)

	_, err = tm.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyTamperedSignature(t *testing.T) {
	issuer := NewTokenManager("unit-test-secret", time.Hour)
	verifier := NewTokenManager("a-different-secret", time.Hour)

	token, err := issuer.Issue(42, models.RoleDoctor)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyMalformedToken(t *testing.T) {
	tm := NewTokenManager("unit-test-secret", time.Hour)

	_, err := tm.Verify("not-a-token")
	require.ErrorIs(t, err, ErrMalformedToken)

	_, err = tm.Verify("")
	require.ErrorIs(t, err, ErrMalformedToken)
}
