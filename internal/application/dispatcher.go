package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/classhub/user-service/internal/domain/event"
	repo "github.com/classhub/user-service/internal/domain/repository"
)

// Dispatcher consumes inbound lifecycle broadcasts and maintains the local
// mirrors of foreign entities. It is the single writer of the mirror stores.
// Processing is idempotent: a duplicate delivery leaves the mirrors in the
// same state as a single one.
type Dispatcher struct {
	Issues   repo.IssueMirrorRepository
	Projects repo.ProjectMirrorRepository
	Logger   *logrus.Logger
}

func NewDispatcher(issues repo.IssueMirrorRepository, projects repo.ProjectMirrorRepository, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{Issues: issues, Projects: projects, Logger: logger}
}

// HandleMessage classifies one inbound payload and applies it. Unrecognized
// shapes and unknown types are logged and dropped, never surfaced; nobody is
// waiting on this path. Mirror store failures are returned so the transport
// can redeliver.
func (d *Dispatcher) HandleMessage(ctx context.Context, body []byte) error {
	env, err := event.Decode(body)
	if err != nil {
		d.Logger.WithError(err).Warn("dropping undecodable event payload")
		return nil
	}
	if env.Family != event.FamilyLifecycle {
		// Field-change broadcasts carry nothing the mirrors need.
		d.Logger.WithField("family", env.Family).Debug("ignoring non-lifecycle event")
		return nil
	}
	if env.ID == uuid.Nil {
		d.Logger.WithField("code", env.Code).Warn("dropping lifecycle event without subject id")
		return nil
	}

	switch env.Entity {
	case event.EntityUser:
		// Own broadcasts echo back on the shared topic; never react to them.
		return nil
	case event.EntityIssue:
		return d.applyMirror(ctx, env, d.Issues.Upsert, d.Issues.Delete)
	case event.EntityProject:
		return d.applyMirror(ctx, env, d.Projects.Upsert, d.Projects.Delete)
	default:
		d.Logger.WithField("entity", env.Entity).Warn("ignoring lifecycle event for unknown entity")
		return nil
	}
}

type mirrorWrite func(ctx context.Context, id uuid.UUID) error

func (d *Dispatcher) applyMirror(ctx context.Context, env event.Envelope, upsert, remove mirrorWrite) error {
	switch event.LifecycleCode(env.Code) {
	case event.Created:
		return upsert(ctx, env.ID)
	case event.Deleted:
		return remove(ctx, env.ID)
	case event.Updated:
		// The mirror tracks existence only, not content.
		return nil
	default:
		d.Logger.WithFields(logrus.Fields{"entity": env.Entity, "code": env.Code}).Warn("ignoring lifecycle event with unknown code")
		return nil
	}
}
