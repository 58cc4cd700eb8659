package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
)

type stubUserStore struct {
	users     map[string]*models.User
	lookupErr error
	nextID    int64
}

func newStubUserStore(users ...models.User) *stubUserStore {
	store := &stubUserStore{users: map[string]*models.User{}}
	for i := range users {
		user := users[i]
		store.nextID++
		user.ID = store.nextID
		store.users[user.Email] = &user
	}
	return store
}

func (s *stubUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	user, ok := s.users[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (s *stubUserStore) InsertIfAbsent(_ context.Context, user *models.User) (bool, error) {
	if _, ok := s.users[user.Email]; ok {
		return false, nil
	}
	s.nextID++
	user.ID = s.nextID
	copied := *user
	s.users[user.Email] = &copied
	return true, nil
}

func (s *stubUserStore) UpdateRole(_ context.Context, id int64, role models.Role) (int64, error) {
	for _, user := range s.users {
		if user.ID == id {
			if user.Role == role {
				return 0, nil
			}
			user.Role = role
			return 1, nil
		}
	}
	return 0, nil
}

func (s *stubUserStore) List(context.Context) ([]models.User, error) {
	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, *user)
	}
	return users, nil
}

func TestRoleResolver(t *testing.T) {
	store := newStubUserStore(
		models.User{Email: "admin@example.com", Role: models.RoleAdmin},
		models.User{Email: "odd@example.com", Role: models.Role("superuser")},
	)
	resolver := NewRoleResolver(store)

	role, err := resolver.Resolve(context.Background(), " Admin@Example.com ")
	if err != nil || role != models.RoleAdmin {
		t.Fatalf("expected admin, got %q, %v", role, err)
	}

	role, err = resolver.Resolve(context.Background(), "nobody@example.com")
	if err != nil || role != models.RoleUnset {
		t.Fatalf("expected unset role for unknown user, got %q, %v", role, err)
	}

	role, err = resolver.Resolve(context.Background(), "odd@example.com")
	if err != nil || role != models.RoleUnset {
		t.Fatalf("expected unrecognised role to resolve as unset, got %q, %v", role, err)
	}

	store.lookupErr = errors.New("db down")
	if _, err := resolver.Resolve(context.Background(), "admin@example.com"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	store := newStubUserStore()
	service := NewUserService(store, nil)

	inserted, err := service.Register(context.Background(), RegisterUserInput{Email: "New@Example.com"})
	if err != nil || !inserted {
		t.Fatalf("expected first registration to insert, got %v, %v", inserted, err)
	}
	inserted, err = service.Register(context.Background(), RegisterUserInput{Email: "new@example.com"})
	if err != nil || inserted {
		t.Fatalf("expected second registration to be a no-op, got %v, %v", inserted, err)
	}
	if role, err := service.RoleOf(context.Background(), "new@example.com"); err != nil || role != models.RoleStudent {
		t.Fatalf("expected student role, got %q, %v", role, err)
	}

	if _, err := service.Register(context.Background(), RegisterUserInput{Email: "not-an-email"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := service.RoleOf(context.Background(), "ghost@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPromote(t *testing.T) {
	store := newStubUserStore(models.User{Email: "s@example.com", Role: models.RoleStudent})
	service := NewUserService(store, nil)
	admin := Actor{Email: "admin@example.com", Role: models.RoleAdmin}

	modified, err := service.Promote(context.Background(), admin, 1, models.RoleInstructor)
	if err != nil || modified != 1 {
		t.Fatalf("expected 1 modified, got %d, %v", modified, err)
	}

	modified, err = service.Promote(context.Background(), admin, 99, models.RoleAdmin)
	if err != nil || modified != 0 {
		t.Fatalf("expected missing user to modify nothing without error, got %d, %v", modified, err)
	}

	if _, err := service.Promote(context.Background(), admin, 1, models.RoleStudent); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for student role, got %v", err)
	}
	if _, err := service.Promote(context.Background(), admin, 1, models.RoleUnset); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unset role, got %v", err)
	}
}
