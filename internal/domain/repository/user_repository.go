package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/classhub/user-service/internal/domain/entity"
)

// Sentinel errors surfaced by store implementations. The application layer
// maps them onto the API error taxonomy.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already taken")
)

// UserRepository is the durable store of truth for user aggregates.
// Username uniqueness is enforced here, not by the application layer.
type UserRepository interface {
	Insert(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListAll(ctx context.Context) ([]entity.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}
