package port

import (
	"context"

	"github.com/aswaq/storefront/internal/core/domain"
)

type CatalogReader interface {
	// ProductByID returns domain.ErrNotFound on a confirmed absence.
	ProductByID(ctx context.Context, id string) (domain.Product, error)

	// ProductsPage returns the 1-indexed page of available products,
	// newest first, optionally filtered by category.
	ProductsPage(
		ctx context.Context, page, pageSize int, categoryID string,
	) ([]domain.Product, error)

	ProductsByCategory(
		ctx context.Context, categoryID string,
	) ([]domain.Product, error)

	Search(ctx context.Context, query string) ([]domain.Product, error)

	Categories(ctx context.Context) ([]domain.Category, error)

	CategoryByID(ctx context.Context, id string) (domain.Category, error)
}

type OrderStatusReader interface {
	LatestOrderStatus(ctx context.Context, userID string) (string, error)
}

type OrderWriter interface {
	// InsertOrderHeader returns the generated order id.
	// Returns domain.ErrInvalidUserRef when the user reference is rejected.
	InsertOrderHeader(ctx context.Context, o domain.Order) (string, error)

	InsertOrderItems(ctx context.Context, items []domain.OrderItem) error

	DeleteOrder(ctx context.Context, orderID string) error
}

// SessionStore is a session-scoped string key-value store.
// Set returns domain.ErrQuotaExceeded when capacity is exhausted.
type SessionStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string)
}

// LocalStore is a durable key-value store surviving restarts.
type LocalStore interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

type Credentials struct {
	Email    string
	Phone    string
	Password string
	FullName string
}

type Authenticator interface {
	SignUp(ctx context.Context, creds Credentials) (domain.User, error)
	SignIn(ctx context.Context, creds Credentials) (domain.User, error)
	SignOut(ctx context.Context) error
	CurrentUser(ctx context.Context) (domain.User, error)
}

type EventsProducer interface {
	ProduceEvent(ctx context.Context, evt domain.ClientEvent) error
	Close()
}
