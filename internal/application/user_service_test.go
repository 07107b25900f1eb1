package application

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/classhub/user-service/internal/domain/entity"
	"github.com/classhub/user-service/internal/domain/event"
	repo "github.com/classhub/user-service/internal/domain/repository"
	"github.com/classhub/user-service/pkg/apperr"
	"github.com/classhub/user-service/pkg/helpers"
)

type fakeUserRepo struct {
	users map[uuid.UUID]entity.User

	insertCalls int
	updateCalls int
	deleteCalls int

	insertErr error
	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]entity.User)}
}

func (f *fakeUserRepo) Insert(ctx context.Context, u *entity.User) error {
	f.insertCalls++
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return repo.ErrDuplicateUsername
		}
	}
	u.ID = uuid.New()
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, u *entity.User) error {
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.deleteCalls++
	if _, ok := f.users[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) ListAll(ctx context.Context) ([]entity.User, error) {
	out := make([]entity.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	u, ok := f.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	now := time.Now().UTC()
	u.LastLogin = &now
	f.users[id] = u
	return nil
}

type published struct {
	topic   string
	payload any
}

type fakePublisher struct {
	events    []published
	failTopic string
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, topic string, payload any) error {
	if f.failTopic != "" && topic == f.failTopic {
		return f.err
	}
	f.events = append(f.events, published{topic: topic, payload: payload})
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var testTopics = Topics{DataEvents: "data-events", DomainEvents: "domain-events.user"}

func newTestService(t *testing.T) (*Service, *fakeUserRepo, *fakePublisher) {
	t.Helper()
	r := newFakeUserRepo()
	pub := &fakePublisher{}
	codec := helpers.NewTokenCodec("0123456789abcdef0123456789abcdef", "service-auth", time.Hour)
	return NewService(r, pub, codec, nil, quietLogger(), nil, "", testTopics), r, pub
}

func adminRequester() *entity.User {
	return &entity.User{ID: uuid.New(), Username: "root", GlobalRole: entity.RoleAdmin}
}

func fullRequest(username string) entity.ChangeRequest {
	password := "secret-password"
	name := "Ada"
	lastName := "Lovelace"
	email := "ada@example.com"
	dob := entity.NewDate(1815, time.December, 10)
	role := entity.RoleUser
	return entity.ChangeRequest{
		Username:    &username,
		Password:    &password,
		Name:        &name,
		LastName:    &lastName,
		Email:       &email,
		DateOfBirth: &dob,
		GlobalRole:  &role,
	}
}

func mustCreate(t *testing.T, s *Service, username string) *entity.User {
	t.Helper()
	u, err := s.Create(context.Background(), adminRequester(), fullRequest(username))
	if err != nil {
		t.Fatalf("create %s: %v", username, err)
	}
	return u
}

func TestCreateDeniedForNonAdmin(t *testing.T) {
	s, r, pub := newTestService(t)

	for name, requester := range map[string]Requester{
		"anonymous": Anonymous{},
		"nil":       nil,
		"user":      &entity.User{ID: uuid.New(), GlobalRole: entity.RoleUser},
		"support":   &entity.User{ID: uuid.New(), GlobalRole: entity.RoleSupport},
	} {
		if _, err := s.Create(context.Background(), requester, fullRequest("ada")); apperr.GetKind(err) != apperr.KindForbidden {
			t.Fatalf("%s: expected forbidden, got %v", name, err)
		}
	}
	if r.insertCalls != 0 {
		t.Fatalf("store was touched %d times by denied requests", r.insertCalls)
	}
	if len(pub.events) != 0 {
		t.Fatalf("denied requests published %d events", len(pub.events))
	}
}

func TestCreateRejectsIncompleteRequest(t *testing.T) {
	s, r, _ := newTestService(t)

	req := fullRequest("ada")
	req.Email = nil
	if _, err := s.Create(context.Background(), adminRequester(), req); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if r.insertCalls != 0 {
		t.Fatalf("incomplete request reached the store")
	}
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	s, _, _ := newTestService(t)

	req := fullRequest("ada")
	bogus := entity.GlobalRole("SUPERADMIN")
	req.GlobalRole = &bogus
	if _, err := s.Create(context.Background(), adminRequester(), req); apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreatePersistsAndPublishesLifecycle(t *testing.T) {
	s, r, pub := newTestService(t)

	u := mustCreate(t, s, "ada")
	if !u.Persisted() {
		t.Fatal("created user has no id")
	}
	if u.Password == "secret-password" {
		t.Fatal("password stored in plaintext")
	}
	if _, ok := r.users[u.ID]; !ok {
		t.Fatal("user not in store")
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	if pub.events[0].topic != testTopics.DataEvents {
		t.Fatalf("lifecycle event on topic %q", pub.events[0].topic)
	}
	de, ok := pub.events[0].payload.(event.DataEvent)
	if !ok {
		t.Fatalf("payload is %T", pub.events[0].payload)
	}
	if de.Entity != event.EntityUser || de.Code != event.Created || de.ID != u.ID {
		t.Fatalf("unexpected lifecycle event %+v", de)
	}
}

func TestCreateDuplicateUsername(t *testing.T) {
	s, _, _ := newTestService(t)

	mustCreate(t, s, "ada")
	if _, err := s.Create(context.Background(), adminRequester(), fullRequest("ada")); apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateEmitsFieldEventsInDeclaredOrder(t *testing.T) {
	s, _, pub := newTestService(t)

	u := mustCreate(t, s, "ada")
	pub.events = nil

	req := fullRequest("ada.l")
	email := "ada.lovelace@example.com"
	req.Email = &email
	admin := entity.RoleAdmin
	req.GlobalRole = &admin

	updated, err := s.Update(context.Background(), adminRequester(), u.ID, req)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Username != "ada.l" || updated.Email != email || updated.GlobalRole != entity.RoleAdmin {
		t.Fatalf("changes not applied: %+v", updated)
	}

	if len(pub.events) != 4 {
		t.Fatalf("expected lifecycle + 3 field events, got %d", len(pub.events))
	}
	lc, ok := pub.events[0].payload.(event.DataEvent)
	if !ok || lc.Code != event.Updated {
		t.Fatalf("first event is not lifecycle UPDATED: %+v", pub.events[0].payload)
	}
	wantCodes := []event.ChangeCode{
		event.UserChangedUsername,
		event.UserChangedEmail,
		event.UserChangedGlobalRole,
	}
	for i, want := range wantCodes {
		e := pub.events[i+1]
		if e.topic != testTopics.DomainEvents {
			t.Fatalf("field event %d on topic %q", i, e.topic)
		}
		de, ok := e.payload.(event.DomainEvent)
		if !ok {
			t.Fatalf("field event %d payload is %T", i, e.payload)
		}
		if de.Code != want {
			t.Fatalf("field event %d: got %s, want %s", i, de.Code, want)
		}
		if de.ID != u.ID {
			t.Fatalf("field event %d has id %s", i, de.ID)
		}
	}
}

func TestUpdateWithZeroChangesStillEmitsLifecycle(t *testing.T) {
	s, _, pub := newTestService(t)

	u := mustCreate(t, s, "ada")
	pub.events = nil

	if _, err := s.Update(context.Background(), adminRequester(), u.ID, fullRequest("ada")); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected only the lifecycle event, got %d events", len(pub.events))
	}
	de, ok := pub.events[0].payload.(event.DataEvent)
	if !ok || de.Code != event.Updated {
		t.Fatalf("unexpected event %+v", pub.events[0].payload)
	}
}

func TestUpdateNeverAppliesPassword(t *testing.T) {
	s, r, pub := newTestService(t)

	u := mustCreate(t, s, "ada")
	storedHash := r.users[u.ID].Password
	pub.events = nil

	req := fullRequest("ada")
	newPassword := "another-password"
	req.Password = &newPassword
	if _, err := s.Update(context.Background(), adminRequester(), u.ID, req); err != nil {
		t.Fatalf("update: %v", err)
	}
	if r.users[u.ID].Password != storedHash {
		t.Fatal("update changed the stored credential hash")
	}
	for _, e := range pub.events {
		if de, ok := e.payload.(event.DomainEvent); ok {
			t.Fatalf("unexpected field event %s", de.Code)
		}
	}
}

func TestUpdateMissingUser(t *testing.T) {
	s, _, _ := newTestService(t)

	if _, err := s.Update(context.Background(), adminRequester(), uuid.New(), fullRequest("ada")); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdatePublishFailureDoesNotRollBack(t *testing.T) {
	s, r, pub := newTestService(t)

	u := mustCreate(t, s, "ada")
	pub.failTopic = testTopics.DataEvents
	pub.err = context.DeadlineExceeded

	req := fullRequest("ada.l")
	_, err := s.Update(context.Background(), adminRequester(), u.ID, req)
	if apperr.GetKind(err) != apperr.KindStorage {
		t.Fatalf("expected storage error, got %v", err)
	}
	if r.users[u.ID].Username != "ada.l" {
		t.Fatal("committed write was rolled back")
	}
}

func TestDeleteMissingUser(t *testing.T) {
	s, _, pub := newTestService(t)

	mustCreate(t, s, "ada")
	pub.events = nil

	if _, err := s.Delete(context.Background(), adminRequester(), uuid.New()); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("missing delete published %d events", len(pub.events))
	}
}

func TestDeletePublishesLifecycle(t *testing.T) {
	s, r, pub := newTestService(t)

	u := mustCreate(t, s, "ada")
	pub.events = nil

	id, err := s.Delete(context.Background(), adminRequester(), u.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if id != u.ID {
		t.Fatalf("returned id %s, want %s", id, u.ID)
	}
	if _, ok := r.users[u.ID]; ok {
		t.Fatal("user still in store")
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	de, ok := pub.events[0].payload.(event.DataEvent)
	if !ok || de.Code != event.Deleted || de.ID != u.ID {
		t.Fatalf("unexpected event %+v", pub.events[0].payload)
	}
}

func TestGetAndList(t *testing.T) {
	s, _, _ := newTestService(t)

	u := mustCreate(t, s, "ada")
	mustCreate(t, s, "grace")

	got, err := s.Get(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Username != "ada" {
		t.Fatalf("got %q", got.Username)
	}
	if _, err := s.Get(context.Background(), uuid.New()); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	all, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 users, got %d", len(all))
	}
}
