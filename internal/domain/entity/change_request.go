package entity

// ChangeRequest is the desired-state document submitted by a caller. Every
// field is optional; a nil pointer means "leave unchanged" and is distinct
// from a pointer to the empty string.
type ChangeRequest struct {
	Username    *string     `json:"username" binding:"omitempty,min=1"`
	Password    *string     `json:"password" binding:"omitempty,pwd"`
	Name        *string     `json:"name"`
	LastName    *string     `json:"lastName"`
	Email       *string     `json:"email" binding:"omitempty,email"`
	DateOfBirth *Date       `json:"dateOfBirth"`
	GlobalRole  *GlobalRole `json:"globalRole" binding:"omitempty,role"`
}

// Complete reports whether every field is present. Create and update both
// require a fully populated document.
func (r ChangeRequest) Complete() bool {
	return r.Username != nil && r.Password != nil && r.Name != nil &&
		r.LastName != nil && r.Email != nil && r.DateOfBirth != nil &&
		r.GlobalRole != nil
}
