// Package service provides the blog's business logic, delegating
// persistence to repository interfaces and password handling to a
// credential hasher.
package service

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/atinyakov/quill/internal/credential"
	"github.com/atinyakov/quill/internal/models"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown
// username and for a wrong password alike.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserRepository defines the persistence operations
// required by the user service.
type UserRepository interface {
	// FindByUsername returns the user or models.ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// FindByID returns the user or models.ErrNotFound.
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	// Save inserts when the id is zero, updates otherwise.
	Save(ctx context.Context, u *models.User) (*models.User, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	DeleteByID(ctx context.Context, id int64) error
}

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(raw string) (string, error)
	// Verify returns credential.ErrMalformedHash when stored is not a hash.
	Verify(raw, stored string) (bool, error)
	// Reconcile keeps existing when supplied is empty.
	Reconcile(existing, supplied string) (string, error)
}

// UserService implements account management and login.
type UserService struct {
	repo   UserRepository
	hasher PasswordHasher
	log    *zap.Logger

	decoyOnce sync.Once
	decoy     string
}

// NewUserService constructs a UserService.
func NewUserService(repo UserRepository, hasher PasswordHasher, log *zap.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, log: log}
}

// Authenticate returns the user whose username and password match.
// A missing user and a wrong password both yield ErrInvalidCredentials.
// A stored value that is not a hash is logged and treated as a mismatch.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		// Spend a comparison anyway so response time does not reveal
		// whether the username exists.
		_, _ = s.hasher.Verify(password, s.decoyHash())
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "authenticate")
	}

	ok, err := s.hasher.Verify(password, user.Password)
	if errors.Is(err, credential.ErrMalformedHash) {
		s.log.Warn("stored password is not a valid hash",
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "verify password")
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) decoyHash() string {
	s.decoyOnce.Do(func() {
		h, err := s.hasher.Hash("decoy-password")
		if err != nil {
			s.log.Error("failed to build decoy hash", zap.Error(err))
			return
		}
		s.decoy = h
	})
	return s.decoy
}

// CreateUser hashes u.Password, defaults an empty role to models.DefaultRole
// and persists the user. The returned record carries the assigned id.
func (s *UserService) CreateUser(ctx context.Context, u models.User) (*models.User, error) {
	hash, err := s.hasher.Hash(u.Password)
	if err != nil {
		return nil, errors.Wrap(err, "create user")
	}
	u.ID = 0
	u.Password = hash
	if u.Role == "" {
		u.Role = models.DefaultRole
	}
	return s.repo.Save(ctx, &u)
}

// GetUser returns the user with id or models.ErrNotFound.
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.FindByID(ctx, id)
}

// ListUsers returns all users.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.FindAll(ctx)
}

// UpdateUser overwrites username, email and role of user id with the
// values in patch. The password is replaced only when patch.Password is
// non-empty. Returns models.ErrNotFound when id does not exist.
func (s *UserService) UpdateUser(ctx context.Context, id int64, patch models.User) (*models.User, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Reconcile(existing.Password, patch.Password)
	if err != nil {
		return nil, errors.Wrap(err, "update user")
	}

	existing.Username = patch.Username
	existing.Email = patch.Email
	existing.Role = patch.Role
	existing.Password = hash

	return s.repo.Save(ctx, existing)
}

// DeleteUser removes user id, or returns models.ErrNotFound.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Wrapf(models.ErrNotFound, "user %d", id)
	}
	return s.repo.DeleteByID(ctx, id)
}
