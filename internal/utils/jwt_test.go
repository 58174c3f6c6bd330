package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

func TestNewAccessToken(t *testing.T) {
    const secret = "test-secret"

    access, err := NewAccessToken(secret, 7, "ADMIN", 15)
    if err != nil {
        t.Fatalf("NewAccessToken: %v", err)
    }
    if access.Token == "" {
        t.Fatal("empty token")
    }
    if until := time.Until(access.Exp); until < 14*time.Minute || until > 16*time.Minute {
        t.Fatalf("expiry %v not ~15m out", access.Exp)
    }

    parsed, err := jwt.Parse(access.Token, func(tok *jwt.Token) (any, error) {
        return []byte(secret), nil
    })
    if err != nil || !parsed.Valid {
        t.Fatalf("token does not verify: %v", err)
    }
    claims := parsed.Claims.(jwt.MapClaims)
    if claims["sub"] != float64(7) || claims["role"] != "ADMIN" {
        t.Fatalf("unexpected claims: %v", claims)
    }

    if _, err := jwt.Parse(access.Token, func(tok *jwt.Token) (any, error) {
        return []byte("wrong-secret"), nil
    }); err == nil {
        t.Fatal("token verified with the wrong secret")
    }
}

func TestPasswordHashing(t *testing.T) {
    hash, err := HashPassword("s3cret", 4)
    if err != nil {
        t.Fatalf("HashPassword: %v", err)
    }
    if hash == "s3cret" {
        t.Fatal("password stored in the clear")
    }
    if !VerifyPassword(hash, "s3cret") {
        t.Fatal("correct password rejected")
    }
    if VerifyPassword(hash, "wrong") {
        t.Fatal("wrong password accepted")
    }
}
