// Package event defines the broadcast messages this service publishes and
// consumes. Every event is self-contained and current-state-only; consumers
// apply last-write-observed-wins and never query back synchronously.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Family discriminates the two event shapes on the wire.
type Family string

const (
	FamilyLifecycle   Family = "lifecycle"
	FamilyFieldChange Family = "field-change"
)

// Entity identifies which service's aggregate an event concerns.
type Entity string

const (
	EntityUser    Entity = "user"
	EntityIssue   Entity = "issue"
	EntityProject Entity = "project"
)

// LifecycleCode tags the coarse created/updated/deleted notifications.
type LifecycleCode string

const (
	Created LifecycleCode = "CREATED"
	Updated LifecycleCode = "UPDATED"
	Deleted LifecycleCode = "DELETED"
)

// ChangeCode tags one mutable field of the user aggregate.
type ChangeCode string

const (
	UserChangedUsername    ChangeCode = "USER_CHANGED_USERNAME"
	UserChangedLastName    ChangeCode = "USER_CHANGED_LASTNAME"
	UserChangedName        ChangeCode = "USER_CHANGED_NAME"
	UserChangedEmail       ChangeCode = "USER_CHANGED_EMAIL"
	UserChangedDateOfBirth ChangeCode = "USER_CHANGED_DATEOFBIRTH"
	UserChangedGlobalRole  ChangeCode = "USER_CHANGED_GLOBALROLE"
)

// DataEvent is the lifecycle notification broadcast for an aggregate.
// Exactly one is emitted per mutating operation, even when an update changed
// nothing.
type DataEvent struct {
	Family Family        `json:"family"`
	Entity Entity        `json:"entity"`
	Code   LifecycleCode `json:"code"`
	ID     uuid.UUID     `json:"id"`
	Time   time.Time     `json:"time"`
}

// NewDataEvent builds a lifecycle event for the given aggregate.
func NewDataEvent(entity Entity, code LifecycleCode, id uuid.UUID) DataEvent {
	return DataEvent{
		Family: FamilyLifecycle,
		Entity: entity,
		Code:   code,
		ID:     id,
		Time:   time.Now().UTC(),
	}
}

// DomainEvent is the fine-grained notification of one attribute's old/new
// value. Produced only by the change-set differ; never mutated afterwards.
type DomainEvent struct {
	Family Family     `json:"family"`
	Entity Entity     `json:"entity"`
	Code   ChangeCode `json:"code"`
	ID     uuid.UUID  `json:"id"`
	Old    string     `json:"old"`
	New    string     `json:"new"`
	Time   time.Time  `json:"time"`
}

// NewDomainEvent builds a field-change event for the user aggregate.
func NewDomainEvent(code ChangeCode, id uuid.UUID, oldValue, newValue string) DomainEvent {
	return DomainEvent{
		Family: FamilyFieldChange,
		Entity: EntityUser,
		Code:   code,
		ID:     id,
		Old:    oldValue,
		New:    newValue,
		Time:   time.Now().UTC(),
	}
}
