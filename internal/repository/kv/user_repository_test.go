package kv

import (
	"context"
	"testing"

	"github.com/coderTechJordan/UserService-Backend/internal/domain"
	"github.com/coderTechJordan/UserService-Backend/internal/store"
)

const testTable = "users-test"

func TestToAttributesOmitsEmptyFields(t *testing.T) {
	user := &domain.User{
		ID:        "u-1",
		Username:  "alice",
		CreatedAt: "2024-03-07T09:30:15.250Z",
	}

	attrs := toAttributes(user)

	want := map[string]string{
		"userId":    "u-1",
		"username":  "alice",
		"createdAt": "2024-03-07T09:30:15.250Z",
	}
	if len(attrs) != len(want) {
		t.Fatalf("got %d attributes, want %d: %v", len(attrs), len(want), attrs)
	}
	for name, value := range want {
		if attrs[name] != value {
			t.Errorf("attrs[%q] = %q, want %q", name, attrs[name], value)
		}
	}
	if _, ok := attrs["firstName"]; ok {
		t.Error("empty firstName should be omitted")
	}
}

func TestFromAttributesToleratesMissingFields(t *testing.T) {
	user := fromAttributes(map[string]string{"userId": "u-2"})

	if user.ID != "u-2" {
		t.Fatalf("ID = %q, want u-2", user.ID)
	}
	if user.Username != "" || user.Email != "" || user.CreatedAt != "" {
		t.Fatalf("missing attributes should map to empty fields, got %+v", user)
	}
}

func TestSaveFindRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(store.NewMemoryStore(), testTable)

	user := &domain.User{
		ID:           "u-3",
		FirstName:    "Alice",
		LastName:     "Smith",
		Username:     "alice",
		PasswordHash: "$2a$10$hash",
		Email:        "alice@example.com",
		CreatedAt:    "2024-03-07T09:30:15.250Z",
	}
	if err := repo.Save(ctx, user); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.FindByID(ctx, "u-3")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got == nil {
		t.Fatal("FindByID returned nil for saved record")
	}
	if *got != *user {
		t.Fatalf("round-trip mismatch:\n got %+v\nwant %+v", got, user)
	}
}

func TestFindByIDAbsentIsNotAnError(t *testing.T) {
	repo := NewUserRepository(store.NewMemoryStore(), testTable)

	got, err := repo.FindByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("FindByID on absent key: %v", err)
	}
	if got != nil {
		t.Fatalf("FindByID on absent key = %+v, want nil", got)
	}
}

func TestRemoveIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(store.NewMemoryStore(), testTable)

	if err := repo.Save(ctx, &domain.User{ID: "u-4", Username: "bob"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Remove(ctx, "u-4"); err != nil {
		t.Fatalf("first Remove: %v", err)
	}
	if err := repo.Remove(ctx, "u-4"); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
}

func TestFindAllMapsEveryRecord(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(store.NewMemoryStore(), testTable)

	for _, id := range []string{"a", "b", "c"} {
		if err := repo.Save(ctx, &domain.User{ID: id, Username: "user-" + id}); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}

	users, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("FindAll returned %d users, want 3", len(users))
	}

	byID := make(map[string]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, id := range []string{"a", "b", "c"} {
		u, ok := byID[id]
		if !ok {
			t.Fatalf("record %s missing from FindAll", id)
		}
		if u.Username != "user-"+id {
			t.Errorf("record %s username = %q", id, u.Username)
		}
	}
}

func TestSaveRequiresID(t *testing.T) {
	repo := NewUserRepository(store.NewMemoryStore(), testTable)
	if err := repo.Save(context.Background(), &domain.User{Username: "noid"}); err == nil {
		t.Fatal("Save without id should fail")
	}
}
