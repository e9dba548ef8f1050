package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestSignJWTRoundTrip(t *testing.T) {
	secret := "test-secret"
	uid := uuid.New().String()

	tokenStr, err := SignJWT(secret, uid, "recruiter", 1440)
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("parse: %v (valid=%v)", err, token != nil && token.Valid)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		t.Fatal("claims type mismatch")
	}
	if claims.UserID != uid {
		t.Errorf("UserID = %q, want %q", claims.UserID, uid)
	}
	if claims.Role != "recruiter" {
		t.Errorf("Role = %q, want recruiter", claims.Role)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(claims.IssuedAt.Time) {
		t.Error("expiry not set after issuance")
	}
}

func TestSignJWTWrongSecretRejected(t *testing.T) {
	tokenStr, err := SignJWT("secret-a", uuid.New().String(), "candidate", 60)
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret-b"), nil
	})
	if err == nil && token.Valid {
		t.Fatal("token verified with the wrong secret")
	}
}

func TestSignJWTExpiredRejected(t *testing.T) {
	tokenStr, err := SignJWT("secret", uuid.New().String(), "candidate", -1)
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err == nil && token.Valid {
		t.Fatal("expired token accepted")
	}
}
