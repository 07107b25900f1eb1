package application

import (
	"context"
	"testing"

	"github.com/classhub/user-service/pkg/apperr"
)

func TestLoginIssuesTokenAndStampsLastLogin(t *testing.T) {
	s, r, _ := newTestService(t)
	created := mustCreate(t, s, "ada")

	u, token, exp, err := s.Login(context.Background(), "ada", "secret-password")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if exp.IsZero() {
		t.Fatal("zero expiry")
	}
	if u.LastLogin == nil {
		t.Fatal("last login not stamped")
	}
	if stored := r.users[created.ID]; stored.LastLogin == nil {
		t.Fatal("last login not persisted")
	}

	claims, err := s.Codec.Validate(token)
	if err != nil {
		t.Fatalf("validate issued token: %v", err)
	}
	if claims.Username != "ada" || claims.GlobalRole != "USER" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestLoginUnknownUsername(t *testing.T) {
	s, _, _ := newTestService(t)

	_, _, _, err := s.Login(context.Background(), "nobody", "whatever")
	if apperr.GetKind(err) != apperr.KindUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	s, _, _ := newTestService(t)
	mustCreate(t, s, "ada")

	_, _, _, err := s.Login(context.Background(), "ada", "wrong-password")
	if apperr.GetKind(err) != apperr.KindUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}
