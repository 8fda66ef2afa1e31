package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/aswaq/storefront/internal/core/domain"
	"github.com/aswaq/storefront/internal/core/port"
)

// Auth fronts the authenticator and notifies subscribers whenever
// the session changes.
type Auth struct {
	mu          sync.Mutex
	auth        port.Authenticator
	user        domain.User
	subscribers []func(domain.User)
}

func NewAuth(auth port.Authenticator) *Auth {
	return &Auth{auth: auth}
}

// Subscribe registers a session-change callback. It fires with the
// signed-in user, and with the zero user on sign-out.
func (a *Auth) Subscribe(fn func(domain.User)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subscribers = append(a.subscribers, fn)
}

func (a *Auth) SignUp(
	ctx context.Context, creds port.Credentials,
) (domain.User, error) {
	const op = "Auth.SignUp"

	u, err := a.auth.SignUp(ctx, creds)
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	a.setUser(u)
	return u, nil
}

func (a *Auth) SignIn(
	ctx context.Context, creds port.Credentials,
) (domain.User, error) {
	const op = "Auth.SignIn"

	u, err := a.auth.SignIn(ctx, creds)
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	a.setUser(u)
	return u, nil
}

func (a *Auth) SignOut(ctx context.Context) error {
	const op = "Auth.SignOut"

	if err := a.auth.SignOut(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	a.setUser(domain.User{})
	return nil
}

// User restores the persisted session when no user is held yet.
func (a *Auth) User(ctx context.Context) domain.User {
	a.mu.Lock()
	u := a.user
	a.mu.Unlock()
	if !u.IsZero() {
		return u
	}

	restored, err := a.auth.CurrentUser(ctx)
	if err != nil {
		return domain.User{}
	}
	a.setUser(restored)
	return restored
}

func (a *Auth) setUser(u domain.User) {
	a.mu.Lock()
	a.user = u
	subs := append(([]func(domain.User))(nil), a.subscribers...)
	a.mu.Unlock()

	for _, fn := range subs {
		fn(u)
	}
}
