package auth

import (
    "errors"
    "strconv"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

var ErrTokenInvalid = errors.New("token is invalid or expired")

// GenerateToken issues a signed access token for the given user ID.
func GenerateToken(userID int, secret string, expiry time.Duration) (string, error) {
    now := time.Now()
    claims := jwt.RegisteredClaims{
        Subject:   strconv.Itoa(userID),
        IssuedAt:  jwt.NewNumericDate(now),
        ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
    }
    token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return token.SignedString([]byte(secret))
}

// ParseToken validates a token and returns the user ID it was issued for.
func ParseToken(tokenString, secret string) (int, error) {
    token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrTokenInvalid
        }
        return []byte(secret), nil
    })
    if err != nil || !token.Valid {
        return 0, ErrTokenInvalid
    }

    claims, ok := token.Claims.(*jwt.RegisteredClaims)
    if !ok || claims.Subject == "" {
        return 0, ErrTokenInvalid
    }

    userID, err := strconv.Atoi(claims.Subject)
    if err != nil {
        return 0, ErrTokenInvalid
    }
    return userID, nil
}
