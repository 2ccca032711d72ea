package utils

import (
    "errors"
    "testing"

    "golang.org/x/crypto/bcrypt"
)

func TestPasswordRoundTrip(t *testing.T) {
    hash, err := HashPassword("123456", bcrypt.MinCost)
    if err != nil {
        t.Fatalf("HashPassword() error = %v", err)
    }
    if !VerifyPassword(hash, "123456") {
        t.Error("VerifyPassword() = false for the right password")
    }
    if VerifyPassword(hash, "1234567") {
        t.Error("VerifyPassword() = true for a wrong password")
    }
    if VerifyPassword("not-a-hash", "123456") {
        t.Error("VerifyPassword() = true for a malformed hash")
    }
}

func TestAccessTokenRoundTrip(t *testing.T) {
    tok, err := NewAccessToken("secret", "410544b2-4001-4271-9855-fec4b6a6442a", "user@nextmail.com", 15)
    if err != nil {
        t.Fatalf("NewAccessToken() error = %v", err)
    }
    claims, err := ParseAccessToken("secret", tok.Token)
    if err != nil {
        t.Fatalf("ParseAccessToken() error = %v", err)
    }
    if claims.Subject != "410544b2-4001-4271-9855-fec4b6a6442a" || claims.Email != "user@nextmail.com" {
        t.Errorf("claims = %+v", claims)
    }
}

func TestParseAccessTokenRejects(t *testing.T) {
    good, _ := NewAccessToken("secret", "u1", "a@b.co", 15)
    expired, _ := NewAccessToken("secret", "u1", "a@b.co", -1)

    tests := []struct {
        name   string
        secret string
        raw    string
    }{
        {"wrong secret", "other", good.Token},
        {"expired", "secret", expired.Token},
        {"garbage", "secret", "abc.def.ghi"},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            _, err := ParseAccessToken(tt.secret, tt.raw)
            if !errors.Is(err, ErrInvalidToken) {
                t.Errorf("ParseAccessToken() error = %v, want ErrInvalidToken", err)
            }
        })
    }
}
