package auth

import (
	"testing"
	"time"

	"bookly/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	user := &model.User{ID: uuid.New(), Role: model.RoleAdmin}

	token, err := issuer.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Parse(token, PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, PurposeAccess, claims.Purpose)
}

func TestTokenIssuer_PurposeMismatch(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	user := &model.User{ID: uuid.New(), Role: model.RoleUser}

	tests := []struct {
		name    string
		mint    func() (string, error)
		purpose string
	}{
		{
			name:    "Access token as reset credential",
			mint:    func() (string, error) { return issuer.Issue(user) },
			purpose: PurposeReset,
		},
		{
			name:    "Reset token as access credential",
			mint:    func() (string, error) { return issuer.IssueReset(user) },
			purpose: PurposeAccess,
		},
		{
			name:    "Verify token as reset credential",
			mint:    func() (string, error) { return issuer.IssueVerify(user) },
			purpose: PurposeReset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tt.mint()
			require.NoError(t, err)

			claims, err := issuer.Parse(token, tt.purpose)
			require.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue(&model.User{ID: uuid.New(), Role: model.RoleUser})
	require.NoError(t, err)

	claims, err := NewTokenIssuer("test-secret", time.Hour).Parse(token, PurposeAccess)
	require.Error(t, err)
	assert.Nil(t, claims)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(&model.User{ID: uuid.New(), Role: model.RoleUser})
	require.NoError(t, err)

	claims, err := NewTokenIssuer("other-secret", time.Hour).Parse(token, PurposeAccess)
	require.Error(t, err)
	assert.Nil(t, claims)
}

func TestTokenIssuer_Garbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	claims, err := issuer.Parse("not-a-jwt", PurposeAccess)
	require.Error(t, err)
	assert.Nil(t, claims)
}
