package auth_test

import (
	"testing"
	"time"

	"github.com/elarakit/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSigningKey = "test-signing-key"

func newTestTokenService() auth.TokenService {
	return auth.NewTokenService([]byte(testSigningKey), 24, nil)
}

func TestTokenRoundTrip(t *testing.T) {
	ts := newTestTokenService()
	user := &auth.User{ID: uuid.New()}

	token, err := ts.Generate(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ts.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID())
	assert.Equal(t, user.ID.String(), claims.RegisteredClaims.Subject)
	assert.False(t, claims.Issued().IsZero())
	assert.True(t, claims.Expires().After(time.Now()))
}

func TestTokenTamperedSignature(t *testing.T) {
	ts := newTestTokenService()

	token, err := ts.Generate(&auth.User{ID: uuid.New()})
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = ts.Validate(tampered)
	require.Error(t, err)
	assert.True(t, auth.IsMalformedError(err))
}

func TestTokenSignedWithDifferentKey(t *testing.T) {
	ts := newTestTokenService()
	other := auth.NewTokenService([]byte("other-key"), 24, nil)

	token, err := other.Generate(&auth.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = ts.Validate(token)
	require.Error(t, err)
	assert.True(t, auth.IsMalformedError(err))
}

func TestTokenGarbageInput(t *testing.T) {
	ts := newTestTokenService()

	for _, raw := range []string{"", "garbage", "a.b.c", "%%%"} {
		_, err := ts.Validate(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestTokenExpired(t *testing.T) {
	ts := newTestTokenService()

	past := time.Now().Add(-2 * time.Hour)
	claims := &auth.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
		},
	}

	token, err := ts.SignClaims(claims)
	require.NoError(t, err)

	_, err = ts.Validate(token)
	assert.Equal(t, auth.ErrTokenExpired, err)
	assert.True(t, auth.IsTokenExpiredError(err))
}

func TestTokenIgnoresExtraClaimFields(t *testing.T) {
	ts := newTestTokenService()
	id := uuid.NewString()

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":    id,
		"iat":    time.Now().Unix(),
		"exp":    time.Now().Add(time.Hour).Unix(),
		"extra":  "ignored",
		"scopes": []string{"a", "b"},
	})
	token, err := raw.SignedString([]byte(testSigningKey))
	require.NoError(t, err)

	claims, err := ts.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID())
}

func TestTokenRejectsUnsignedToken(t *testing.T) {
	ts := newTestTokenService()

	raw := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": uuid.NewString(),
	})
	token, err := raw.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ts.Validate(token)
	assert.Error(t, err)
}

func TestSessionClaimsAccessors(t *testing.T) {
	t.Run("uid preferred over subject", func(t *testing.T) {
		claims := &auth.SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "subject-id"},
			UID:              "uid-id",
		}
		assert.Equal(t, "uid-id", claims.UserID())
	})

	t.Run("subject fallback", func(t *testing.T) {
		claims := &auth.SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "subject-id"},
		}
		assert.Equal(t, "subject-id", claims.UserID())
	})

	t.Run("zero times when unset", func(t *testing.T) {
		claims := &auth.SessionClaims{}
		assert.True(t, claims.Expires().IsZero())
		assert.True(t, claims.Issued().IsZero())
	})
}
