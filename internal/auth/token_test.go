package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.Issue("9a2f6f5e-0000-0000-0000-000000000001", "creator")
	require.NoError(t, err)

	sub, err := m.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "9a2f6f5e-0000-0000-0000-000000000001", sub)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issued, err := NewTokenManager("secret-a", time.Hour).Issue("user-1", "subscriber")
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Validate(issued)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	m := NewTokenManager("test-secret", -time.Minute)
	issued, err := m.Issue("user-1", "subscriber")
	require.NoError(t, err)

	_, err = m.Validate(issued)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	_, err := m.Validate("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
