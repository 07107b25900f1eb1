package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the aggregate root for the user domain.
// Password holds the bcrypt hash of the credential secret and must never
// appear in JSON output, events, or the search index.
//
// ID == uuid.Nil means the aggregate has not been persisted yet; that state
// is only valid inside the create path.
type User struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Password    string     `json:"-"`
	Name        string     `json:"name"`
	LastName    string     `json:"lastName"`
	Email       string     `json:"email"`
	DateOfBirth Date       `json:"dateOfBirth"`
	CreateTime  time.Time  `json:"createTime"`
	GlobalRole  GlobalRole `json:"globalRole"`
	LastLogin   *time.Time `json:"lastLogin"`
}

// Persisted reports whether the aggregate carries a store-assigned id.
func (u *User) Persisted() bool { return u.ID != uuid.Nil }

// IsAuthenticated satisfies the Requester capability for a fully loaded user.
func (u *User) IsAuthenticated() bool { return u.Persisted() }

// Role satisfies the Requester capability.
func (u *User) Role() GlobalRole { return u.GlobalRole }
