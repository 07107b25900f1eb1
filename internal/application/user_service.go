package application

import (
	"context"
	"errors"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/classhub/user-service/internal/domain/entity"
	"github.com/classhub/user-service/internal/domain/event"
	repo "github.com/classhub/user-service/internal/domain/repository"
	"github.com/classhub/user-service/pkg/apperr"
	"github.com/classhub/user-service/pkg/helpers"
)

// EventPublisher is the outbound half of the bus contract: fire a tagged
// payload at a topic. Delivery is at-least-once with no ordering guarantee.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// Topics names the broadcast destinations this service publishes to.
type Topics struct {
	DataEvents   string // lifecycle events, consumed by every sibling service
	DomainEvents string // field-change events owned by this service
}

// Service orchestrates the user aggregate operations: permission gate,
// completeness check, store access, change-set diffing, and event publishing.
// It holds no cross-request state and is safe for concurrent use.
type Service struct {
	Repo         repo.UserRepository
	Publisher    EventPublisher
	Codec        *helpers.TokenCodec
	Redis        *redis.Client
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
	Topics       Topics

	gate PermissionGate
}

func NewService(r repo.UserRepository, pub EventPublisher, codec *helpers.TokenCodec, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string, topics Topics) *Service {
	return &Service{
		Repo:         r,
		Publisher:    pub,
		Codec:        codec,
		Redis:        rdb,
		Logger:       logger,
		ES:           es,
		ESUsersIndex: esUsersIndex,
		Topics:       topics,
	}
}

// Create persists a new user aggregate and broadcasts its lifecycle event.
// The store assigns the id on insert.
func (s *Service) Create(ctx context.Context, requester Requester, req entity.ChangeRequest) (*entity.User, error) {
	if !s.gate.CanMutateUsers(requester) {
		return nil, apperr.Forbidden("you have no permission to create a user")
	}
	if !req.Complete() {
		return nil, apperr.Validation("request body was not complete")
	}
	if !req.GlobalRole.Valid() {
		return nil, apperr.Validation("unknown global role " + req.GlobalRole.String())
	}

	hash, err := helpers.HashPassword(*req.Password)
	if err != nil {
		return nil, apperr.Storage("hash password", err)
	}

	u := &entity.User{
		Username:    *req.Username,
		Password:    hash,
		Name:        *req.Name,
		LastName:    *req.LastName,
		Email:       *req.Email,
		DateOfBirth: *req.DateOfBirth,
		CreateTime:  time.Now().UTC(),
		GlobalRole:  *req.GlobalRole,
	}
	if err := s.Repo.Insert(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateUsername) {
			return nil, apperr.Conflict("username already taken")
		}
		return nil, apperr.Storage("insert user", err)
	}

	// The write is committed; publish and index failures are reported but
	// never rolled back.
	if err := s.Publisher.Publish(ctx, s.Topics.DataEvents, event.NewDataEvent(event.EntityUser, event.Created, u.ID)); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("user created but lifecycle publish failed")
		return nil, apperr.Storage("user created but event publish failed", err)
	}
	s.indexUser(ctx, u)
	return u, nil
}

// Update loads the aggregate, applies the change-set diff, persists the
// mutated copy, and publishes the lifecycle event followed by the field-change
// events in differ order. An update with zero effective changes still emits
// the lifecycle event.
func (s *Service) Update(ctx context.Context, requester Requester, id uuid.UUID, req entity.ChangeRequest) (*entity.User, error) {
	if !s.gate.CanMutateUsers(requester) {
		return nil, apperr.Forbidden("you have no permission to update a user")
	}
	if !req.Complete() {
		return nil, apperr.Validation("request body was not complete")
	}
	if !req.GlobalRole.Valid() {
		return nil, apperr.Validation("unknown global role " + req.GlobalRole.String())
	}

	existing, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperr.NotFound("user does not exist")
		}
		return nil, apperr.Storage("load user", err)
	}

	updated, changes := ApplyChangeRequest(*existing, req)
	if err := s.Repo.Update(ctx, &updated); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicateUsername):
			return nil, apperr.Conflict("username already taken")
		case errors.Is(err, repo.ErrNotFound):
			return nil, apperr.NotFound("user does not exist")
		}
		return nil, apperr.Storage("update user", err)
	}

	// Lifecycle first, then field events in differ order. The messages are
	// independent; a partial publish leaves committed-but-unnotified state
	// which is reported to the caller and not rolled back.
	var pubErr error
	if err := s.Publisher.Publish(ctx, s.Topics.DataEvents, event.NewDataEvent(event.EntityUser, event.Updated, id)); err != nil {
		s.Logger.WithError(err).WithField("user_id", id).Error("user updated but lifecycle publish failed")
		pubErr = err
	}
	for _, change := range changes {
		if err := s.Publisher.Publish(ctx, s.Topics.DomainEvents, change); err != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{"user_id": id, "code": change.Code}).Error("field-change publish failed")
			if pubErr == nil {
				pubErr = err
			}
		}
	}
	if pubErr != nil {
		return nil, apperr.Storage("user updated but event publish failed", pubErr)
	}

	s.indexUser(ctx, &updated)
	return &updated, nil
}

// Delete removes the aggregate and broadcasts its deletion. Returns the
// deleted id.
func (s *Service) Delete(ctx context.Context, requester Requester, id uuid.UUID) (uuid.UUID, error) {
	if !s.gate.CanMutateUsers(requester) {
		return uuid.Nil, apperr.Forbidden("you have no permission to delete a user")
	}

	ok, err := s.Repo.Exists(ctx, id)
	if err != nil {
		return uuid.Nil, apperr.Storage("check user existence", err)
	}
	if !ok {
		return uuid.Nil, apperr.NotFound("user does not exist")
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return uuid.Nil, apperr.NotFound("user does not exist")
		}
		return uuid.Nil, apperr.Storage("delete user", err)
	}

	if err := s.Publisher.Publish(ctx, s.Topics.DataEvents, event.NewDataEvent(event.EntityUser, event.Deleted, id)); err != nil {
		s.Logger.WithError(err).WithField("user_id", id).Error("user deleted but lifecycle publish failed")
		return uuid.Nil, apperr.Storage("user deleted but event publish failed", err)
	}
	s.removeUserDoc(ctx, id)
	return id, nil
}

// Get is a pass-through read; no permission gate, no events.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperr.NotFound("user does not exist")
		}
		return nil, apperr.Storage("load user", err)
	}
	return u, nil
}

// List returns all user aggregates.
func (s *Service) List(ctx context.Context) ([]entity.User, error) {
	users, err := s.Repo.ListAll(ctx)
	if err != nil {
		return nil, apperr.Storage("list users", err)
	}
	return users, nil
}
