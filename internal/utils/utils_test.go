package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
    tok, err := NewAccessToken("s3cret", 42, "ADMIN", 15)
    require.NoError(t, err)
    assert.WithinDuration(t, time.Now().Add(15*time.Minute), tok.Exp, 5*time.Second)

    c, err := ParseAccessToken("s3cret", tok.Token)
    require.NoError(t, err)
    assert.Equal(t, uint64(42), c.UserID)
    assert.Equal(t, "ADMIN", c.Role)

    _, err = ParseAccessToken("other", tok.Token)
    assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenRejectsExpiredAndNumericSub(t *testing.T) {
    expired, err := NewAccessToken("k", 1, "CUSTOMER", -1)
    require.NoError(t, err)
    _, err = ParseAccessToken("k", expired.Token)
    assert.ErrorIs(t, err, ErrInvalidToken)

    legacy, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
        "sub":  7,
        "role": "CUSTOMER",
        "exp":  time.Now().Add(time.Minute).Unix(),
    }).SignedString([]byte("k"))
    require.NoError(t, err)
    c, err := ParseAccessToken("k", legacy)
    require.NoError(t, err)
    assert.Equal(t, uint64(7), c.UserID)
}

func TestOpaqueTokens(t *testing.T) {
    r, err := NewRefreshToken(7)
    require.NoError(t, err)
    assert.Len(t, r.Raw, 96)

    reset, err := NewResetToken(10 * time.Minute)
    require.NoError(t, err)
    assert.Len(t, reset.Raw, 40)
    assert.NotEqual(t, HashToken(r.Raw), HashToken(reset.Raw))
    assert.Len(t, HashToken("x"), 64)
}

func TestPasswordHash(t *testing.T) {
    h, err := HashPassword("pa55word", 4)
    require.NoError(t, err)
    assert.True(t, VerifyPassword(h, "pa55word"))
    assert.False(t, VerifyPassword(h, "nope"))
}

func TestHashPasswordRejectsShort(t *testing.T) {
    _, err := HashPassword("abc", 4)
    assert.ErrorIs(t, err, ErrPasswordTooShort)
}
