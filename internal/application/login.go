package application

import (
	"context"
	"errors"
	"time"

	"github.com/classhub/user-service/internal/domain/entity"
	repo "github.com/classhub/user-service/internal/domain/repository"
	"github.com/classhub/user-service/pkg/apperr"
	"github.com/classhub/user-service/pkg/helpers"
)

func sessionKey(userID string) string {
	return "user:session:" + userID
}

// Login verifies the credential secret against the stored hash, stamps the
// last-login time (the only writer of that attribute), and issues a bearer
// token. All subsequent requests authenticate from the token alone.
func (s *Service) Login(ctx context.Context, username, password string) (*entity.User, string, time.Time, error) {
	u, err := s.Repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", time.Time{}, apperr.Unauthenticated("invalid credentials")
		}
		return nil, "", time.Time{}, apperr.Storage("load user", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", time.Time{}, apperr.Unauthenticated("invalid credentials")
	}

	token, exp, err := s.Codec.Issue(u)
	if err != nil {
		return nil, "", time.Time{}, apperr.Storage("issue token", err)
	}

	// Best-effort bookkeeping: a failed stamp or session write never blocks a
	// successful authentication.
	now := time.Now().UTC()
	if err := s.Repo.UpdateLastLogin(ctx, u.ID); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("last-login stamp failed")
	} else {
		u.LastLogin = &now
	}
	if s.Redis != nil {
		key := sessionKey(u.ID.String())
		fields := map[string]any{
			"user_id":   u.ID.String(),
			"username":  u.Username,
			"role":      u.GlobalRole.String(),
			"logged_in": true,
			"login_at":  now.Format(time.RFC3339Nano),
		}
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, time.Until(exp))
		if _, rErr := pipe.Exec(ctx); rErr != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return u, token, exp, nil
}
