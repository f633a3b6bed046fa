package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", 30*time.Minute)

	token, err := m.Issue("alice@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, status := m.Decode(token)
	if status != TokenValid {
		t.Fatalf("expected valid token, got %s", status)
	}
	if claims.Subject != "alice@x.com" {
		t.Errorf("subject = %q, want alice@x.com", claims.Subject)
	}
	if !claims.ExpiresAt.After(time.Now()) {
		t.Error("expiry should be in the future")
	}
}

func TestDecodeFailures(t *testing.T) {
	m := NewTokenManager("test-secret", 30*time.Minute)

	valid, err := m.Issue("alice@x.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	expired, err := NewTokenManager("test-secret", -time.Minute).Issue("alice@x.com")
	if err != nil {
		t.Fatalf("issue expired: %v", err)
	}

	otherSecret, err := NewTokenManager("other-secret", 30*time.Minute).Issue("alice@x.com")
	if err != nil {
		t.Fatalf("issue other secret: %v", err)
	}

	tests := []struct {
		name   string
		token  string
		status TokenStatus
	}{
		{"missing", "", TokenMissing},
		{"expired", expired, TokenExpired},
		{"wrong secret", otherSecret, TokenInvalid},
		{"tampered", valid[:len(valid)-2] + "xx", TokenInvalid},
		{"garbage", "not.a.token", TokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, status := m.Decode(tt.token)
			if status != tt.status {
				t.Errorf("status = %s, want %s", status, tt.status)
			}
			if claims != nil {
				t.Errorf("expected nil claims, got %+v", claims)
			}
		})
	}
}
