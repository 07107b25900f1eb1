package entity

// GlobalRole is the closed set of system-wide roles. Unknown values survive
// parsing so that permission checks can reject them explicitly.
type GlobalRole string

const (
	RoleUser    GlobalRole = "USER"
	RoleAdmin   GlobalRole = "ADMIN"
	RoleSupport GlobalRole = "SUPPORT"
)

// Valid reports whether the role is part of the closed enumeration.
func (r GlobalRole) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSupport:
		return true
	}
	return false
}

func (r GlobalRole) String() string { return string(r) }
