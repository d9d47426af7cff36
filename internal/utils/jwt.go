package utils // package utils provides helper functions for token creation, hashing and logging

import (
    "errors"
    "fmt"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are sent in the Authorization header when calling
// protected endpoints.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// Claims is the decoded identity carried by an access token.
type Claims struct {
    UserID uint64
    Role   string
}

// NewAccessToken builds and signs an HS256 JWT for a user.  The token
// carries sub (user id), role, exp and iat.
func NewAccessToken(secret string, userID uint64, role string, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":  fmt.Sprint(userID),
        "role": role,
        "exp":  exp.Unix(),
        "iat":  now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies an HS256 token and extracts its identity.  The
// subject may be a string or a number; tokens that carry user_id instead of
// sub are accepted too.
func ParseAccessToken(secret, raw string) (Claims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        return []byte(secret), nil
    }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
    if err != nil {
        return Claims{}, err
    }
    mc, ok := tok.Claims.(jwt.MapClaims)
    if !ok || !tok.Valid {
        return Claims{}, errors.New("invalid claims")
    }
    id, ok := ToUint64(mc["sub"])
    if !ok {
        id, ok = ToUint64(mc["user_id"])
    }
    if !ok || id == 0 {
        return Claims{}, errors.New("token has no subject")
    }
    role, _ := mc["role"].(string)
    return Claims{UserID: id, Role: role}, nil
}
