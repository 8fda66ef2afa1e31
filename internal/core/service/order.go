package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aswaq/storefront/internal/core/domain"
	"github.com/aswaq/storefront/internal/core/port"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrPhoneRequired  = errors.New("contact phone is required")
	ErrNotSignedIn    = errors.New("authentication required")
	ErrNoOrderID      = errors.New("order id not returned after creation")
	ErrOrderNotPlaced = errors.New("order was not placed")
)

type SubmitOrderParams struct {
	User  domain.User
	Items []domain.CartItem
	Notes string
	Phone string
}

// Orders runs the two-phase order write: header first, then line
// items, with a compensating delete of the header when line-item
// insertion fails. The backend provides no cross-statement
// transaction, so the flow is a saga.
type Orders struct {
	writer port.OrderWriter
	events port.EventsProducer
}

func NewOrders(writer port.OrderWriter, events port.EventsProducer) Orders {
	return Orders{writer, events}
}

// Submit places the order. The caller is responsible for clearing
// the cart on success.
func (o Orders) Submit(ctx context.Context, params SubmitOrderParams) error {
	const op = "Orders.Submit"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if params.User.IsZero() {
		return fmt.Errorf("%s: %w", op, ErrNotSignedIn)
	}
	if params.Phone == "" {
		return fmt.Errorf("%s: %w", op, ErrPhoneRequired)
	}
	if len(params.Items) == 0 {
		return fmt.Errorf("%s: %w", op, ErrEmptyCart)
	}

	var total int64
	for _, it := range params.Items {
		total += it.LineTotal()
	}

	header := domain.Order{
		TotalAmount:   total,
		Status:        domain.OrderStatusPending,
		CustomerName:  params.User.DisplayName(),
		CustomerEmail: params.User.Email,
		CustomerPhone: params.Phone,
		Notes:         params.Notes,
		UserID:        params.User.ID,
	}

	orderID, err := o.writer.InsertOrderHeader(ctx, header)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidUserRef) {
			return fmt.Errorf("%s: %w", op, err)
		}
		// the user reference was rejected, retry once anonymously
		log.Warn("order header rejected user reference, retrying without it",
			"err", err)
		header.UserID = ""
		orderID, err = o.writer.InsertOrderHeader(ctx, header)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	if orderID == "" {
		return fmt.Errorf("%s: %w", op, ErrNoOrderID)
	}

	items := make([]domain.OrderItem, 0, len(params.Items))
	for _, it := range params.Items {
		items = append(items, domain.OrderItem{
			OrderID:    orderID,
			ProductID:  it.ID,
			Quantity:   it.Quantity,
			UnitPrice:  it.Price,
			TotalPrice: it.LineTotal(),
		})
	}

	if err := o.writer.InsertOrderItems(ctx, items); err != nil {
		log.Error("failed to insert order items, deleting header",
			"orderID", orderID, "err", err)
		if delErr := o.writer.DeleteOrder(ctx, orderID); delErr != nil {
			log.Error("failed to delete orphaned order header",
				"orderID", orderID, "err", delErr)
		}
		return fmt.Errorf("%s: %w: %w", op, ErrOrderNotPlaced, err)
	}

	o.emit(ctx, params.User.ID)
	log.Info("order placed", "orderID", orderID, "nItems", len(items))
	return nil
}

func (o Orders) emit(ctx context.Context, userID string) {
	const op = "Orders.emit"

	if o.events == nil {
		return
	}
	evt := domain.ClientEvent{
		Type:   domain.EventOrderPlaced,
		UserID: userID,
		At:     time.Now(),
	}
	if err := o.events.ProduceEvent(ctx, evt); err != nil {
		slog.Warn("failed to produce client event", "op", op, "err", err)
	}
}
