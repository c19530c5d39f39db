package kv

import (
	"context"
	"fmt"

	"github.com/coderTechJordan/UserService-Backend/internal/domain"
	"github.com/coderTechJordan/UserService-Backend/internal/repository"
	"github.com/coderTechJordan/UserService-Backend/internal/store"
)

// Attribute names as stored in the table. This list is the single source of
// truth for the persisted field set.
const (
	attrUserID       = "userId"
	attrFirstName    = "firstName"
	attrLastName     = "lastName"
	attrUsername     = "username"
	attrPasswordHash = "passwordHash"
	attrEmail        = "email"
	attrCreatedAt    = "createdAt"
)

// UserRepository maps User entities to and from the store's generic
// attribute representation.
type UserRepository struct {
	store store.Store
	table string
}

func NewUserRepository(st store.Store, table string) repository.UserRepository {
	return &UserRepository{store: st, table: table}
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		return fmt.Errorf("user id is required")
	}
	if err := r.store.Put(ctx, r.table, user.ID, toAttributes(user)); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	attrs, found, err := r.store.Get(ctx, r.table, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !found {
		return nil, nil
	}
	return fromAttributes(attrs), nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	records, err := r.store.Scan(ctx, r.table)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]domain.User, 0, len(records))
	for _, attrs := range records {
		users = append(users, *fromAttributes(attrs))
	}
	return users, nil
}

func (r *UserRepository) Remove(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, r.table, id); err != nil {
		return fmt.Errorf("remove user: %w", err)
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)

// toAttributes includes only non-empty fields, so a record read back reports
// exactly what was set. Password is input-only and never persisted raw.
func toAttributes(user *domain.User) map[string]string {
	attrs := make(map[string]string, 7)
	set := func(name, value string) {
		if value != "" {
			attrs[name] = value
		}
	}
	set(attrUserID, user.ID)
	set(attrFirstName, user.FirstName)
	set(attrLastName, user.LastName)
	set(attrUsername, user.Username)
	set(attrPasswordHash, user.PasswordHash)
	set(attrEmail, user.Email)
	set(attrCreatedAt, user.CreatedAt)
	return attrs
}

// fromAttributes tolerates missing attributes: an absent field comes back
// empty, never as an error.
func fromAttributes(attrs map[string]string) *domain.User {
	return &domain.User{
		ID:           attrs[attrUserID],
		FirstName:    attrs[attrFirstName],
		LastName:     attrs[attrLastName],
		Username:     attrs[attrUsername],
		PasswordHash: attrs[attrPasswordHash],
		Email:        attrs[attrEmail],
		CreatedAt:    attrs[attrCreatedAt],
	}
}
