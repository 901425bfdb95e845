package utils // package utils holds token, hashing and password helpers shared by auth code

import (
    "crypto/rand"   // secure random bytes for refresh and reset tokens
    "crypto/sha256" // tokens are stored hashed, never raw
    "encoding/hex"
    "errors"
    "fmt"
    "strconv"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by ParseAccessToken for any token that is
// malformed, expired, signed with another key or missing its claims.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken is a signed JWT plus its expiry. Access tokens are short lived
// and travel in the Authorization header as "Bearer <token>".
type AccessToken struct {
    Token string
    Exp   time.Time
}

// OpaqueToken is a random token handed to the client once. Only its SHA‑256
// (see HashToken) is persisted, for refresh tokens and password reset links
// alike.
type OpaqueToken struct {
    Raw string
    Exp time.Time
}

// Claims are the identity fields carried in an access token.
type Claims struct {
    UserID uint64
    Role   string
}

// NewAccessToken signs an HS256 JWT with sub=userID, role, exp and iat.
func NewAccessToken(secret string, userID uint64, role string, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":  strconv.FormatUint(userID, 10),
        "role": role,
        "exp":  exp.Unix(),
        "iat":  now.Unix(),
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies the signature and expiry of raw and returns its
// claims. Only HMAC signing methods are accepted.
func ParseAccessToken(secret, raw string) (Claims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return Claims{}, ErrInvalidToken
    }
    mc, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return Claims{}, ErrInvalidToken
    }
    var c Claims
    // sub is written as a string; older tokens carried a JSON number.
    switch sub := mc["sub"].(type) {
    case string:
        id, err := strconv.ParseUint(sub, 10, 64)
        if err != nil {
            return Claims{}, ErrInvalidToken
        }
        c.UserID = id
    case float64:
        c.UserID = uint64(sub)
    default:
        return Claims{}, ErrInvalidToken
    }
    if c.UserID == 0 {
        return Claims{}, ErrInvalidToken
    }
    c.Role, _ = mc["role"].(string)
    return c, nil
}

// NewRefreshToken returns 48 random bytes, hex encoded, valid for ttlDays.
func NewRefreshToken(ttlDays int) (OpaqueToken, error) {
    return newOpaque(48, time.Duration(ttlDays)*24*time.Hour)
}

// NewResetToken returns a 20 byte password reset token valid for ttl.
func NewResetToken(ttl time.Duration) (OpaqueToken, error) {
    return newOpaque(20, ttl)
}

// HashToken returns the hex SHA‑256 of a raw opaque token.
func HashToken(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

func newOpaque(n int, ttl time.Duration) (OpaqueToken, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return OpaqueToken{}, err
    }
    return OpaqueToken{Raw: hex.EncodeToString(buf), Exp: time.Now().UTC().Add(ttl)}, nil
}
