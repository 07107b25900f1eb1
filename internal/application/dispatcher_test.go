package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/classhub/user-service/internal/domain/event"
)

type fakeMirrorRepo struct {
	rows      map[uuid.UUID]bool
	upsertErr error
	deleteErr error
}

func newFakeMirrorRepo() *fakeMirrorRepo {
	return &fakeMirrorRepo{rows: make(map[uuid.UUID]bool)}
}

func (f *fakeMirrorRepo) Upsert(ctx context.Context, id uuid.UUID) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.rows[id] = true
	return nil
}

func (f *fakeMirrorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeMirrorRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.rows[id], nil
}

func (f *fakeMirrorRepo) ListAll(ctx context.Context) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(f.rows))
	for id := range f.rows {
		out = append(out, id)
	}
	return out, nil
}

func newTestDispatcher() (*Dispatcher, *fakeMirrorRepo, *fakeMirrorRepo) {
	issues := newFakeMirrorRepo()
	projects := newFakeMirrorRepo()
	return NewDispatcher(issues, projects, quietLogger()), issues, projects
}

func lifecycleBody(t *testing.T, entity event.Entity, code event.LifecycleCode, id uuid.UUID) []byte {
	t.Helper()
	b, err := json.Marshal(event.NewDataEvent(entity, code, id))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func TestDispatcherDropsUndecodablePayload(t *testing.T) {
	d, issues, projects := newTestDispatcher()

	if err := d.HandleMessage(context.Background(), []byte("{not json")); err != nil {
		t.Fatalf("undecodable payload surfaced an error: %v", err)
	}
	if len(issues.rows) != 0 || len(projects.rows) != 0 {
		t.Fatal("undecodable payload touched the mirrors")
	}
}

func TestDispatcherIgnoresOwnUserEvents(t *testing.T) {
	d, issues, projects := newTestDispatcher()

	for _, code := range []event.LifecycleCode{event.Created, event.Updated, event.Deleted} {
		if err := d.HandleMessage(context.Background(), lifecycleBody(t, event.EntityUser, code, uuid.New())); err != nil {
			t.Fatalf("%s: %v", code, err)
		}
	}
	if len(issues.rows) != 0 || len(projects.rows) != 0 {
		t.Fatal("user events touched the mirrors")
	}
}

func TestDispatcherIgnoresFieldChangeEvents(t *testing.T) {
	d, issues, _ := newTestDispatcher()

	b, err := json.Marshal(event.NewDomainEvent(event.UserChangedEmail, uuid.New(), "a", "b"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := d.HandleMessage(context.Background(), b); err != nil {
		t.Fatalf("field-change event surfaced an error: %v", err)
	}
	if len(issues.rows) != 0 {
		t.Fatal("field-change event touched the mirrors")
	}
}

func TestDispatcherMaintainsIssueMirror(t *testing.T) {
	d, issues, projects := newTestDispatcher()
	id := uuid.New()

	if err := d.HandleMessage(context.Background(), lifecycleBody(t, event.EntityIssue, event.Created, id)); err != nil {
		t.Fatalf("created: %v", err)
	}
	if !issues.rows[id] {
		t.Fatal("issue not mirrored after CREATED")
	}
	if len(projects.rows) != 0 {
		t.Fatal("issue event leaked into project mirror")
	}

	// duplicate delivery leaves the same state
	if err := d.HandleMessage(context.Background(), lifecycleBody(t, event.EntityIssue, event.Created, id)); err != nil {
		t.Fatalf("duplicate created: %v", err)
	}
	if len(issues.rows) != 1 {
		t.Fatalf("duplicate delivery grew the mirror to %d rows", len(issues.rows))
	}

	// UPDATED carries nothing for an existence mirror
	if err := d.HandleMessage(context.Background(), lifecycleBody(t, event.EntityIssue, event.Updated, id)); err != nil {
		t.Fatalf("updated: %v", err)
	}
	if !issues.rows[id] {
		t.Fatal("UPDATED removed the mirror row")
	}

	if err := d.HandleMessage(context.Background(), lifecycleBody(t, event.EntityIssue, event.Deleted, id)); err != nil {
		t.Fatalf("deleted: %v", err)
	}
	if issues.rows[id] {
		t.Fatal("issue still mirrored after DELETED")
	}

	// deleting an absent row is a no-op
	if err := d.HandleMessage(context.Background(), lifecycleBody(t, event.EntityIssue, event.Deleted, id)); err != nil {
		t.Fatalf("repeat deleted: %v", err)
	}
}

func TestDispatcherMaintainsProjectMirror(t *testing.T) {
	d, issues, projects := newTestDispatcher()
	id := uuid.New()

	if err := d.HandleMessage(context.Background(), lifecycleBody(t, event.EntityProject, event.Created, id)); err != nil {
		t.Fatalf("created: %v", err)
	}
	if !projects.rows[id] {
		t.Fatal("project not mirrored after CREATED")
	}
	if len(issues.rows) != 0 {
		t.Fatal("project event leaked into issue mirror")
	}
}

func TestDispatcherDropsUnknownTags(t *testing.T) {
	d, issues, projects := newTestDispatcher()

	bodies := [][]byte{
		[]byte(`{"family":"lifecycle","entity":"sprint","code":"CREATED","id":"` + uuid.NewString() + `"}`),
		[]byte(`{"family":"lifecycle","entity":"issue","code":"ARCHIVED","id":"` + uuid.NewString() + `"}`),
		[]byte(`{"family":"lifecycle","entity":"issue","code":"CREATED"}`),
	}
	for i, b := range bodies {
		if err := d.HandleMessage(context.Background(), b); err != nil {
			t.Fatalf("body %d surfaced an error: %v", i, err)
		}
	}
	if len(issues.rows) != 0 || len(projects.rows) != 0 {
		t.Fatal("unknown tags touched the mirrors")
	}
}

func TestDispatcherSurfacesMirrorStoreFailure(t *testing.T) {
	d, issues, _ := newTestDispatcher()
	issues.upsertErr = errors.New("connection reset")

	err := d.HandleMessage(context.Background(), lifecycleBody(t, event.EntityIssue, event.Created, uuid.New()))
	if err == nil {
		t.Fatal("mirror store failure was swallowed")
	}
}
