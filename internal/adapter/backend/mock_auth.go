package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/aswaq/storefront/internal/core/domain"
	"github.com/aswaq/storefront/internal/core/port"
)

const (
	mockUserKey    = "mock_user"
	mockUsersDBKey = "mock_users_db"
)

var _ port.Authenticator = (*MockAuth)(nil)

type mockUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	FullName     string `json:"full_name"`
	PasswordHash string `json:"password_hash"`
}

// MockAuth keeps a user directory in the durable local store,
// with the signed-in user persisted under its own key.
type MockAuth struct {
	store port.LocalStore
}

func NewMockAuth(store port.LocalStore) MockAuth {
	return MockAuth{store}
}

func (m MockAuth) SignUp(
	ctx context.Context, creds port.Credentials,
) (domain.User, error) {
	const op = "MockAuth.SignUp"

	if err := ctx.Err(); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	users, err := m.loadUsers()
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, u := range users {
		if matches(u, creds) {
			return domain.User{}, fmt.Errorf("%s: %w", op, domain.ErrUserExists)
		}
	}

	hash, err := bcrypt.GenerateFromPassword(
		[]byte(creds.Password), bcrypt.DefaultCost,
	)
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	u := mockUser{
		ID:           uuid.NewString(),
		Email:        creds.Email,
		Phone:        creds.Phone,
		FullName:     creds.FullName,
		PasswordHash: string(hash),
	}
	users = append(users, u)

	if err := m.saveUsers(users); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := m.saveSession(u); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return toDomainUser(u), nil
}

func (m MockAuth) SignIn(
	ctx context.Context, creds port.Credentials,
) (domain.User, error) {
	const op = "MockAuth.SignIn"

	if err := ctx.Err(); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	users, err := m.loadUsers()
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, u := range users {
		if !matches(u, creds) {
			continue
		}
		err := bcrypt.CompareHashAndPassword(
			[]byte(u.PasswordHash), []byte(creds.Password),
		)
		if err != nil {
			break
		}
		if err := m.saveSession(u); err != nil {
			return domain.User{}, fmt.Errorf("%s: %w", op, err)
		}
		return toDomainUser(u), nil
	}
	return domain.User{}, fmt.Errorf("%s: %w", op, domain.ErrInvalidCredentials)
}

func (m MockAuth) SignOut(ctx context.Context) error {
	const op = "MockAuth.SignOut"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := m.store.Delete(mockUserKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (m MockAuth) CurrentUser(ctx context.Context) (domain.User, error) {
	const op = "MockAuth.CurrentUser"

	if err := ctx.Err(); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	b, err := m.store.Get(mockUserKey)
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	var u mockUser
	if err := json.Unmarshal(b, &u); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return toDomainUser(u), nil
}

func (m MockAuth) loadUsers() ([]mockUser, error) {
	b, err := m.store.Get(mockUsersDBKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var users []mockUser
	if err := json.Unmarshal(b, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (m MockAuth) saveUsers(users []mockUser) error {
	b, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return m.store.Put(mockUsersDBKey, b)
}

func (m MockAuth) saveSession(u mockUser) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return m.store.Put(mockUserKey, b)
}

func matches(u mockUser, creds port.Credentials) bool {
	if creds.Email != "" && u.Email == creds.Email {
		return true
	}
	return creds.Phone != "" && u.Phone == creds.Phone
}

func toDomainUser(u mockUser) domain.User {
	return domain.User{
		ID:       u.ID,
		Email:    u.Email,
		Phone:    u.Phone,
		FullName: u.FullName,
	}
}
