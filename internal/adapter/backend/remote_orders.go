package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aswaq/storefront/internal/core/domain"
	"github.com/aswaq/storefront/internal/core/port"
)

var _ port.OrderWriter = (*RemoteOrders)(nil)

// RemoteOrders writes order headers and line items. Each call is a
// single statement so the order service can run its compensating
// flow around them.
type RemoteOrders struct {
	sqldb sqldb
}

func NewRemoteOrders(sqldb sqldb) RemoteOrders {
	return RemoteOrders{sqldb}
}

func (r RemoteOrders) InsertOrderHeader(
	ctx context.Context, o domain.Order,
) (string, error) {
	const op = "RemoteOrders.InsertOrderHeader"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO orders (
			total_amount, status, customer_name,
			customer_email, customer_phone, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;`
	args := []any{
		o.TotalAmount, o.Status, o.CustomerName,
		o.CustomerEmail, o.CustomerPhone, o.Notes,
	}

	if o.UserID != "" {
		query = `
			INSERT INTO orders (
				total_amount, status, customer_name,
				customer_email, customer_phone, notes, user_id
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id;`
		args = append(args, o.UserID)
	}

	var id string
	err := r.sqldb.QueryRowContext(ctx, query, args...).Scan(&id)
	if err != nil {
		if isUserRefViolation(err) {
			return "", fmt.Errorf("%s: %w: %w", op, domain.ErrInvalidUserRef, err)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

func (r RemoteOrders) InsertOrderItems(
	ctx context.Context, items []domain.OrderItem,
) (insertErr error) {
	const op = "RemoteOrders.InsertOrderItems"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if insertErr == nil {
			if err := tx.Commit(); err != nil {
				insertErr = fmt.Errorf("%s: failed to commit: %w", op, err)
			}
			return
		}

		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	query := `
		INSERT INTO order_items (
			order_id, product_id, quantity, unit_price, total_price
		)
		VALUES ($1, $2, $3, $4, $5);`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare stmt: %w", op, err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close prepared stmt", "err", err)
		}
	}()

	for _, it := range items {
		_, err := stmt.ExecContext(ctx,
			it.OrderID, it.ProductID, it.Quantity, it.UnitPrice, it.TotalPrice,
		)
		if err != nil {
			return fmt.Errorf("%s: failed to exec: %w", op, err)
		}
	}

	return nil
}

func (r RemoteOrders) DeleteOrder(ctx context.Context, orderID string) error {
	const op = "RemoteOrders.DeleteOrder"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `DELETE FROM orders WHERE id = $1;`

	if _, err := r.sqldb.ExecContext(ctx, query, orderID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// isUserRefViolation reports whether the error is a foreign-key
// violation or a malformed identifier on the user reference.
func isUserRefViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.ForeignKeyViolation ||
		pgErr.Code == pgerrcode.InvalidTextRepresentation
}
