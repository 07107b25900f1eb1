package repository

import (
	"context"

	"github.com/google/uuid"
)

// IssueMirrorRepository tracks the existence of issues owned by the issue
// service. Upsert must be idempotent: storing the same id twice leaves one row.
type IssueMirrorRepository interface {
	Upsert(ctx context.Context, issueID uuid.UUID) error
	Delete(ctx context.Context, issueID uuid.UUID) error
	Exists(ctx context.Context, issueID uuid.UUID) (bool, error)
	ListAll(ctx context.Context) ([]uuid.UUID, error)
}

// ProjectMirrorRepository tracks the existence of projects owned by the
// project service, with the same idempotence contract.
type ProjectMirrorRepository interface {
	Upsert(ctx context.Context, projectID uuid.UUID) error
	Delete(ctx context.Context, projectID uuid.UUID) error
	Exists(ctx context.Context, projectID uuid.UUID) (bool, error)
	ListAll(ctx context.Context) ([]uuid.UUID, error)
}
