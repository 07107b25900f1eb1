package application

import "github.com/classhub/user-service/internal/domain/entity"

// Requester is the capability set a caller identity must expose to be
// authorized. Both a decoded token claim set and a fully loaded user satisfy
// it; no concrete identity type is required.
type Requester interface {
	IsAuthenticated() bool
	Role() entity.GlobalRole
}

// Anonymous is the identity of a caller that presented no credential.
type Anonymous struct{}

func (Anonymous) IsAuthenticated() bool   { return false }
func (Anonymous) Role() entity.GlobalRole { return "" }

// PermissionGate evaluates the hard permission rules of this service. It is
// pure and total: no failure mode, no store access.
type PermissionGate struct{}

// CanMutateUsers is true iff the requester is an authenticated global admin.
// This is deliberately coarse; finer checks compose outside this gate.
func (PermissionGate) CanMutateUsers(r Requester) bool {
	return r != nil && r.IsAuthenticated() && r.Role() == entity.RoleAdmin
}
