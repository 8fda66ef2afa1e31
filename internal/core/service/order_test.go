package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aswaq/storefront/internal/core/domain"
	"github.com/aswaq/storefront/internal/core/service"
)

type MockOrderWriter struct {
	mock.Mock
}

func (m *MockOrderWriter) InsertOrderHeader(
	ctx context.Context, order domain.Order,
) (string, error) {
	args := m.Called(ctx, order)
	return args.String(0), args.Error(1)
}

func (m *MockOrderWriter) InsertOrderItems(
	ctx context.Context, items []domain.OrderItem,
) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockOrderWriter) DeleteOrder(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func testUser() domain.User {
	return domain.User{
		ID:       "user-1",
		Email:    "buyer@example.com",
		FullName: "Test Buyer",
	}
}

func testItems() []domain.CartItem {
	return []domain.CartItem{
		{
			Product:  domain.Product{ID: "p1", Name: "A", Price: 1000},
			Quantity: 2,
		},
		{
			Product:  domain.Product{ID: "p2", Name: "B", Price: 500},
			Quantity: 1,
		},
	}
}

func TestOrdersSubmit(t *testing.T) {

	t.Run("PlacesOrder", func(t *testing.T) {
		writer := &MockOrderWriter{}
		writer.On("InsertOrderHeader", mock.Anything,
			mock.MatchedBy(func(o domain.Order) bool {
				return o.UserID == "user-1" &&
					o.TotalAmount == 2500 &&
					o.Status == domain.OrderStatusPending &&
					o.CustomerName == "Test Buyer" &&
					o.CustomerPhone == "+10000000001"
			})).Return("order-1", nil).Once()
		writer.On("InsertOrderItems", mock.Anything,
			mock.MatchedBy(func(items []domain.OrderItem) bool {
				return len(items) == 2 &&
					items[0].OrderID == "order-1" &&
					items[0].TotalPrice == 2000 &&
					items[1].OrderID == "order-1" &&
					items[1].TotalPrice == 500
			})).Return(nil).Once()

		orders := service.NewOrders(writer, nil)
		err := orders.Submit(t.Context(), service.SubmitOrderParams{
			User:  testUser(),
			Items: testItems(),
			Phone: "+10000000001",
		})

		require.NoError(t, err)
		writer.AssertExpectations(t)
	})

	t.Run("RetriesWithoutUserRefOnce", func(t *testing.T) {
		writer := &MockOrderWriter{}
		writer.On("InsertOrderHeader", mock.Anything,
			mock.MatchedBy(func(o domain.Order) bool {
				return o.UserID == "user-1"
			})).Return("", domain.ErrInvalidUserRef).Once()
		writer.On("InsertOrderHeader", mock.Anything,
			mock.MatchedBy(func(o domain.Order) bool {
				return o.UserID == ""
			})).Return("order-2", nil).Once()
		writer.On("InsertOrderItems", mock.Anything,
			mock.MatchedBy(func(items []domain.OrderItem) bool {
				return len(items) == 2 && items[0].OrderID == "order-2"
			})).Return(nil).Once()

		orders := service.NewOrders(writer, nil)
		err := orders.Submit(t.Context(), service.SubmitOrderParams{
			User:  testUser(),
			Items: testItems(),
			Phone: "+10000000001",
		})

		require.NoError(t, err)
		writer.AssertExpectations(t)
		writer.AssertNumberOfCalls(t, "InsertOrderHeader", 2)
	})

	t.Run("RetryFailureAborts", func(t *testing.T) {
		writer := &MockOrderWriter{}
		writer.On("InsertOrderHeader", mock.Anything, mock.Anything).
			Return("", domain.ErrInvalidUserRef).Twice()

		orders := service.NewOrders(writer, nil)
		err := orders.Submit(t.Context(), service.SubmitOrderParams{
			User:  testUser(),
			Items: testItems(),
			Phone: "+10000000001",
		})

		require.ErrorIs(t, err, domain.ErrInvalidUserRef)
		writer.AssertNotCalled(t, "InsertOrderItems", mock.Anything, mock.Anything)
	})

	t.Run("MissingOrderID", func(t *testing.T) {
		writer := &MockOrderWriter{}
		writer.On("InsertOrderHeader", mock.Anything, mock.Anything).
			Return("", nil).Once()

		orders := service.NewOrders(writer, nil)
		err := orders.Submit(t.Context(), service.SubmitOrderParams{
			User:  testUser(),
			Items: testItems(),
			Phone: "+10000000001",
		})

		require.ErrorIs(t, err, service.ErrNoOrderID)
		writer.AssertNotCalled(t, "InsertOrderItems", mock.Anything, mock.Anything)
	})

	t.Run("ItemFailureDeletesHeader", func(t *testing.T) {
		writer := &MockOrderWriter{}
		writer.On("InsertOrderHeader", mock.Anything, mock.Anything).
			Return("order-3", nil).Once()
		writer.On("InsertOrderItems", mock.Anything, mock.Anything).
			Return(fmt.Errorf("insert failed")).Once()
		writer.On("DeleteOrder", mock.Anything, "order-3").
			Return(nil).Once()

		orders := service.NewOrders(writer, nil)
		err := orders.Submit(t.Context(), service.SubmitOrderParams{
			User:  testUser(),
			Items: testItems(),
			Phone: "+10000000001",
		})

		require.ErrorIs(t, err, service.ErrOrderNotPlaced)
		writer.AssertExpectations(t)
	})

	t.Run("RequiresSignedInUser", func(t *testing.T) {
		writer := &MockOrderWriter{}

		orders := service.NewOrders(writer, nil)
		err := orders.Submit(t.Context(), service.SubmitOrderParams{
			Items: testItems(),
			Phone: "+10000000001",
		})

		assert.ErrorIs(t, err, service.ErrNotSignedIn)
		writer.AssertNotCalled(t, "InsertOrderHeader", mock.Anything, mock.Anything)
	})

	t.Run("RequiresItems", func(t *testing.T) {
		writer := &MockOrderWriter{}

		orders := service.NewOrders(writer, nil)
		err := orders.Submit(t.Context(), service.SubmitOrderParams{
			User:  testUser(),
			Phone: "+10000000001",
		})

		assert.ErrorIs(t, err, service.ErrEmptyCart)
		writer.AssertNotCalled(t, "InsertOrderHeader", mock.Anything, mock.Anything)
	})

	t.Run("RequiresPhone", func(t *testing.T) {
		writer := &MockOrderWriter{}

		orders := service.NewOrders(writer, nil)
		err := orders.Submit(t.Context(), service.SubmitOrderParams{
			User:  testUser(),
			Items: testItems(),
		})

		assert.ErrorIs(t, err, service.ErrPhoneRequired)
		writer.AssertNotCalled(t, "InsertOrderHeader", mock.Anything, mock.Anything)
	})
}
