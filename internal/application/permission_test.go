package application

import (
	"testing"

	"github.com/google/uuid"

	"github.com/classhub/user-service/internal/domain/entity"
	"github.com/classhub/user-service/pkg/helpers"
)

func TestCanMutateUsers(t *testing.T) {
	var gate PermissionGate

	cases := []struct {
		name      string
		requester Requester
		want      bool
	}{
		{"nil", nil, false},
		{"anonymous", Anonymous{}, false},
		{"admin user", &entity.User{ID: uuid.New(), GlobalRole: entity.RoleAdmin}, true},
		{"regular user", &entity.User{ID: uuid.New(), GlobalRole: entity.RoleUser}, false},
		{"support user", &entity.User{ID: uuid.New(), GlobalRole: entity.RoleSupport}, false},
		{"unpersisted admin", &entity.User{GlobalRole: entity.RoleAdmin}, false},
		{"unknown role", &entity.User{ID: uuid.New(), GlobalRole: "ROOT"}, false},
		{"admin claims", &helpers.AuthClaims{UserID: uuid.NewString(), GlobalRole: "ADMIN"}, true},
		{"user claims", &helpers.AuthClaims{UserID: uuid.NewString(), GlobalRole: "USER"}, false},
		{"empty claims", &helpers.AuthClaims{}, false},
	}
	for _, tc := range cases {
		if got := gate.CanMutateUsers(tc.requester); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
