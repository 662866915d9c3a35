package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/consitech/event-manager/internal/core/domain"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("consitech")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "consitech" {
		t.Fatalf("expected hashed value")
	}
	if !h.Verify(hash, "consitech") {
		t.Fatalf("expected password to verify")
	}
	if h.Verify(hash, "other") {
		t.Fatalf("expected wrong password to fail")
	}

	again, _ := h.Hash("consitech")
	if again == hash {
		t.Fatalf("expected salted hashes to differ")
	}
}

func TestJWTManager_IssueAndParse(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	user := &domain.User{ID: "id-1", Username: "mattia", Role: domain.RoleEventManager}

	token, exp, err := m.Issue(user)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expected expiry in the future, got %v", exp)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.Subject != "id-1" || claims.Role != domain.RoleEventManager || claims.Username != "mattia" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTManager_Parse_Rejects(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	user := &domain.User{ID: "id-1", Role: domain.RoleUser}
	good, _, _ := m.Issue(user)

	expired := NewJWTManager("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, _ := expired.Issue(user)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "id-1", Issuer: issuer},
	})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := map[string]struct {
		m     *JWTManager
		token string
	}{
		"wrong secret": {NewJWTManager("other", time.Hour), good},
		"expired":      {m, old},
		"alg none":     {m, unsigned},
		"garbage":      {m, "not.a.token"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := tc.m.Parse(tc.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
