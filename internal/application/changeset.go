package application

import (
	"github.com/classhub/user-service/internal/domain/entity"
	"github.com/classhub/user-service/internal/domain/event"
)

// ApplyChangeRequest compares a persisted aggregate against a desired-state
// document and returns a mutated copy plus one field-change event per field
// that actually differs. Events are emitted in fixed declared field order
// (username, last name, display name, email, date of birth, role), never in
// request-arrival order. Absent fields and present-but-equal values produce
// no event and no mutation. The original aggregate is never touched.
//
// Password changes are outside the diff: the update pipeline ignores them.
func ApplyChangeRequest(existing entity.User, req entity.ChangeRequest) (entity.User, []event.DomainEvent) {
	updated := existing
	var events []event.DomainEvent

	if req.Username != nil && *req.Username != existing.Username {
		events = append(events, event.NewDomainEvent(
			event.UserChangedUsername, existing.ID, existing.Username, *req.Username))
		updated.Username = *req.Username
	}

	if req.LastName != nil && *req.LastName != existing.LastName {
		events = append(events, event.NewDomainEvent(
			event.UserChangedLastName, existing.ID, existing.LastName, *req.LastName))
		updated.LastName = *req.LastName
	}

	if req.Name != nil && *req.Name != existing.Name {
		events = append(events, event.NewDomainEvent(
			event.UserChangedName, existing.ID, existing.Name, *req.Name))
		updated.Name = *req.Name
	}

	if req.Email != nil && *req.Email != existing.Email {
		events = append(events, event.NewDomainEvent(
			event.UserChangedEmail, existing.ID, existing.Email, *req.Email))
		updated.Email = *req.Email
	}

	if req.DateOfBirth != nil && *req.DateOfBirth != existing.DateOfBirth {
		events = append(events, event.NewDomainEvent(
			event.UserChangedDateOfBirth, existing.ID,
			existing.DateOfBirth.String(), req.DateOfBirth.String()))
		updated.DateOfBirth = *req.DateOfBirth
	}

	if req.GlobalRole != nil && *req.GlobalRole != existing.GlobalRole {
		events = append(events, event.NewDomainEvent(
			event.UserChangedGlobalRole, existing.ID,
			existing.GlobalRole.String(), req.GlobalRole.String()))
		updated.GlobalRole = *req.GlobalRole
	}

	return updated, events
}
