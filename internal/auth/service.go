// Package auth authenticates users and carries their identity through the request.
package auth

import (
	"context"
	"sync"

	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"attendance/internal/entity"
	"attendance/internal/password"
	"attendance/internal/repository"
)

// ErrInvalidCredentials covers every way a login can be wrong.
var ErrInvalidCredentials = errors.New("invalid username, password, or role")

type UserStore interface {
	GetByUsernameAndRole(ctx context.Context, username string, role entity.Role) (entity.User, error)
	GetCredentials(ctx context.Context, userID int) (entity.AuthCredentials, error)
}

type Service struct {
	users  UserStore
	logger *log.Logger
}

func NewService(users UserStore, logger *log.Logger) *Service {
	return &Service{users: users, logger: logger}
}

// dummyHash is verified against when there is no stored hash so every failed
// login does the same amount of work.
var dummyHash = sync.OnceValue(func() string {
	h, err := password.Hash("attendance-dummy-password")
	if err != nil {
		panic(err)
	}
	return h
})

// Login returns the user matching (username, role) whose stored hash verifies
// plain. Unknown users, users without credentials and wrong passwords all
// return ErrInvalidCredentials. Other errors come from the store.
func (s *Service) Login(ctx context.Context, username, plain string, role entity.Role) (entity.User, error) {
	user, err := s.users.GetByUsernameAndRole(ctx, username, role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = password.Verify(dummyHash(), plain)
			return entity.User{}, ErrInvalidCredentials
		}
		return entity.User{}, errors.Wrap(err, "login")
	}

	creds, err := s.users.GetCredentials(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = password.Verify(dummyHash(), plain)
			return entity.User{}, ErrInvalidCredentials
		}
		return entity.User{}, errors.Wrap(err, "login")
	}

	switch err := password.Verify(creds.PasswordHash, plain); err {
	case nil:
		return user, nil
	case password.ErrMismatch:
		return entity.User{}, ErrInvalidCredentials
	default:
		s.logger.Warnf("user %d: stored password hash: %v", user.ID, err)
		return entity.User{}, ErrInvalidCredentials
	}
}
