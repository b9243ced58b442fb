package auth_test

import (
	"testing"
	"time"

	"github.com/joshua-takyi/festa/internal/auth"
	"github.com/joshua-takyi/festa/internal/models"
	"github.com/joshua-takyi/festa/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroGrantAuthorizesNothing(t *testing.T) {
	var g auth.Grant
	assert.False(t, g.IsAdmin())
	assert.True(t, models.IsAuthorization(g.Require()))
}

func TestIssuerRoundTrip(t *testing.T) {
	clock := testutil.FixedClock()
	issuer := auth.NewIssuer([]byte("k"), time.Hour, clock)

	token, expires, err := issuer.Issue("user-1", auth.MethodIdentity)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(time.Hour), expires)

	grant, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.True(t, grant.IsAdmin())
	assert.NoError(t, grant.Require())
	assert.Equal(t, "user-1", grant.Subject())
	assert.Equal(t, auth.MethodIdentity, grant.Method())
	assert.True(t, expires.Equal(grant.ExpiresAt()))
}

func TestIssuerRejectsExpiredToken(t *testing.T) {
	clock := testutil.FixedClock()
	issuer := auth.NewIssuer([]byte("k"), time.Minute, clock)

	token, _, err := issuer.Issue("user-1", auth.MethodSecret)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = issuer.Verify(token)
	assert.True(t, models.IsAuthorization(err))
}

func TestIssuerRejectsForeignTokens(t *testing.T) {
	clock := testutil.FixedClock()
	issuer := auth.NewIssuer([]byte("k"), time.Hour, clock)
	other := auth.NewIssuer([]byte("other"), time.Hour, clock)

	foreign, _, err := other.Issue("user-1", auth.MethodSecret)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":     "",
		"garbage":   "not-a-token",
		"other key": foreign,
	} {
		t.Run(name, func(t *testing.T) {
			grant, err := issuer.Verify(token)
			assert.True(t, models.IsAuthorization(err))
			assert.False(t, grant.IsAdmin())
		})
	}
}

func TestIssuerWithoutKey(t *testing.T) {
	_, _, err := auth.NewIssuer(nil, time.Hour, nil).Issue("user-1", auth.MethodSecret)
	assert.Error(t, err)
}
