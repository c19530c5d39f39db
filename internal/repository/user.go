package repository

import (
	"context"

	"github.com/coderTechJordan/UserService-Backend/internal/domain"
)

// UserRepository defines persistence operations for User entities.
//
// Absence is never an error: FindByID returns nil for a missing record and
// Remove succeeds on keys that were never written. Store failures propagate
// unchanged.
type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindAll returns every record in store order. Ordering is a property
	// of the backend, not a guarantee of this interface.
	FindAll(ctx context.Context) ([]domain.User, error)
	Remove(ctx context.Context, id string) error
}
