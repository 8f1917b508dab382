package auth

import (
	"errors"
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"StockPulse/pkg/model"
)

// fakeUserStore 内存用户存储
type fakeUserStore struct {
	byEmail    map[string]*model.User
	byUsername map[string]*model.User
	lastLogin  []string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail:    make(map[string]*model.User),
		byUsername: make(map[string]*model.User),
	}
}

func (f *fakeUserStore) Create(user *model.User) error {
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(f.byEmail)+1)
	}
	f.byEmail[user.Email] = user
	f.byUsername[user.Username] = user
	return nil
}

func (f *fakeUserStore) GetByEmail(email string) (*model.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("用户不存在")
	}
	return user, nil
}

func (f *fakeUserStore) ExistsByUsername(username string) (bool, error) {
	_, ok := f.byUsername[username]
	return ok, nil
}

func (f *fakeUserStore) ExistsByEmail(email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUserStore) UpdateLastLogin(userID string) error {
	f.lastLogin = append(f.lastLogin, userID)
	return nil
}

func TestRegister_HashesPassword(t *testing.T) {
	store := newFakeUserStore()
	service := NewService(store)

	user, err := service.Register("alice", "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.PasswordHash == "s3cret" || user.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	store := newFakeUserStore()
	service := NewService(store)

	if _, err := service.Register("alice", "alice@example.com", "pw"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := service.Register("alice", "other@example.com", "pw")
	if !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	service := NewService(store)

	if _, err := service.Register("alice", "alice@example.com", "pw"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := service.Register("bob", "alice@example.com", "pw")
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	store := newFakeUserStore()
	service := NewService(store)

	if _, err := service.Register("alice", "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	t.Run("success", func(t *testing.T) {
		user, err := service.Login("alice@example.com", "s3cret")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Username != "alice" {
			t.Errorf("unexpected user: %+v", user)
		}
		if len(store.lastLogin) != 1 {
			t.Errorf("expected last login refresh")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := service.Login("alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		if _, err := service.Login("nobody@example.com", "pw"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}
