package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_IssueAndValidate(t *testing.T) {
	svc := NewService("test-signing-key", "auditengine")

	token, err := svc.Issue("admin", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, "auditengine", claims.Issuer)
}

func TestService_ValidateRejectsExpiredToken(t *testing.T) {
	svc := NewService("test-signing-key", "auditengine")

	token, err := svc.Issue("admin", -time.Minute)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_ValidateRejectsWrongSigningKey(t *testing.T) {
	issuer := NewService("key-a", "auditengine")
	verifier := NewService("key-b", "auditengine")

	token, err := issuer.Issue("admin", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_ValidateRejectsGarbage(t *testing.T) {
	svc := NewService("test-signing-key", "auditengine")

	_, err := svc.Validate("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
