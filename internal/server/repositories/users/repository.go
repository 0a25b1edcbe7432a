// Package users is the persistence layer for user records. Repositories are
// bound to a dbx.DBTX, so the caller decides whether a query runs on a pooled
// connection, a dedicated connection or inside a transaction.
package users

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/usersvc/internal/server/models"
)

// Repository is the store contract shared by every backend.
//
// Lookups that return user lists or a single user by id never load the
// password hash; GetByEmail does, because login needs it.
type Repository interface {
	List(ctx context.Context) ([]*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Search(ctx context.Context, namePart string) ([]*models.User, error)
	// Create inserts the user and sets user.ID. A duplicate email yields
	// common.ErrorConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// Update overwrites name and email only. A missing id yields
	// common.ErrorNotFound. Email collisions are not translated.
	Update(ctx context.Context, user *models.User) error
	// Delete removes the row if present; a missing id is not an error.
	Delete(ctx context.Context, id int64) error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns s into a LIKE pattern matching any value that
// contains s literally. The pattern uses '\' as its escape character.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func scanUsers(rows *sql.Rows) ([]*models.User, error) {
	defer rows.Close()

	result := make([]*models.User, 0)
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
