// Package services contains server-side business logic. UserService
// orchestrates the user store and the password hasher for the HTTP layer.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/cryptox"
	"github.com/dmitrijs2005/usersvc/internal/dbx"
	"github.com/dmitrijs2005/usersvc/internal/logging"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
	"github.com/dmitrijs2005/usersvc/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/usersvc/internal/server/validation"
)

// PasswordHasher is the credential primitive UserService depends on.
// *cryptox.BcryptHasher satisfies it.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, storedHash string) bool
	VerifyNothing(plaintext string)
}

// UserService provides user CRUD and credential checks. Every call borrows
// one pooled connection for its duration.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	logger      logging.Logger
}

// NewUserService constructs a UserService.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		logger:      logger,
	}
}

// List returns all users ordered by id.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	var result []*models.User
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) error {
		var err error
		result, err = s.repomanager.Users(conn).List(ctx)
		return err
	})
	return result, err
}

// Get returns the user with the given id or common.ErrorNotFound.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	var user *models.User
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(conn).GetByID(ctx, id)
		return err
	})
	return user, err
}

// Search returns users whose name contains namePart.
func (s *UserService) Search(ctx context.Context, namePart string) ([]*models.User, error) {
	var result []*models.User
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) error {
		var err error
		result, err = s.repomanager.Users(conn).Search(ctx, namePart)
		return err
	})
	return result, err
}

// Create hashes password and stores a new user. A duplicate email yields
// common.ErrorConflict.
func (s *UserService) Create(ctx context.Context, name, email, password string) (*models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) {
			return nil, validation.NewError("Password is too long")
		}
		return nil, err
	}

	var created *models.User
	err = dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) error {
		var err error
		created, err = s.repomanager.Users(conn).Create(ctx, &models.User{
			Name:         name,
			Email:        email,
			PasswordHash: hash,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user created", "id", created.ID)
	return created, nil
}

// Update replaces name and email of an existing user. The stored password
// hash is left alone.
func (s *UserService) Update(ctx context.Context, id int64, name, email string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		if _, err := repo.GetByID(ctx, id); err != nil {
			return err
		}
		return repo.Update(ctx, &models.User{ID: id, Name: name, Email: email})
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "user updated", "id", id)
	return nil
}

// Delete removes the user if it exists. Deleting a missing id succeeds.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) error {
		return s.repomanager.Users(conn).Delete(ctx, id)
	})
}

// Login checks the credentials and returns the matching user. Unknown email
// and wrong password both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	var user *models.User
	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(conn).GetByEmail(ctx, email)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyNothing(password)
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}
