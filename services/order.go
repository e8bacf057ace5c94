package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-shop/apperrors"
	"go-shop/models"
	"go-shop/repository"
)

// Mailer sends transactional email. Failures never fail the operation
// that triggered them.
type Mailer interface {
	SendOrderConfirmation(toEmail, name string, order *models.Order) error
}

// OrderService converts carts into immutable order snapshots and
// manages the order lifecycle.
type OrderService struct {
	orders   repository.OrderRepository
	carts    repository.CartRepository
	products repository.ProductRepository
	users    repository.UserRepository
	mailer   Mailer
	logger   *slog.Logger
}

// NewOrderService creates an order service. mailer may be nil, in which
// case no confirmation email is sent.
func NewOrderService(orders repository.OrderRepository, carts repository.CartRepository, products repository.ProductRepository, users repository.UserRepository, mailer Mailer, logger *slog.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		carts:    carts,
		products: products,
		users:    users,
		mailer:   mailer,
		logger:   logger,
	}
}

// PlaceOrder converts the user's cart into an order. Line item prices,
// names and images are re-resolved from current product state; the
// cart's add-time snapshot is distrusted for price. The cart is deleted
// only after the order is persisted, with a conditional delete on the
// cart version so at most one checkout consumes a given cart state.
func (s *OrderService) PlaceOrder(ctx context.Context, userID primitive.ObjectID) (*models.Order, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidState("cart is empty")
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.InvalidState("cart is empty")
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	var total float64
	for _, item := range cart.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			// A cart line whose product disappeared aborts the whole
			// order; no partial orders are placed.
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NotFound("product", item.ProductID.Hex())
			}
			return nil, fmt.Errorf("resolve product %s: %w", item.ProductID.Hex(), err)
		}

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  item.Quantity,
			Image:     product.Image,
		})
		total += product.Price * float64(item.Quantity)
	}

	now := time.Now().UTC()
	order := &models.Order{
		UserID:      userID,
		Items:       items,
		TotalAmount: total,
		Status:      models.OrderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		// The cart is untouched; the caller can retry safely.
		return nil, fmt.Errorf("persist order: %w", err)
	}

	consumed, err := s.carts.DeleteVersion(ctx, userID, cart.Version)
	if err != nil {
		return nil, fmt.Errorf("consume cart: %w", err)
	}
	if !consumed {
		// The cart changed or another checkout won the race. Compensate
		// by removing the order we just wrote.
		if delErr := s.orders.Delete(ctx, order.ID); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to roll back order after cart conflict",
				slog.String("order_id", order.ID.Hex()),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, apperrors.Conflict("cart changed during checkout, please retry")
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID.Hex()),
		slog.String("user_id", userID.Hex()),
		slog.Float64("total_amount", total),
		slog.Int("items", len(items)),
	)

	s.sendConfirmation(ctx, userID, order)

	return order, nil
}

// sendConfirmation emails the order confirmation in the background.
func (s *OrderService) sendConfirmation(ctx context.Context, userID primitive.ObjectID, order *models.Order) {
	if s.mailer == nil {
		return
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "skipping order confirmation email",
			slog.String("user_id", userID.Hex()),
			slog.String("error", err.Error()),
		)
		return
	}

	go func(email, name string) {
		if err := s.mailer.SendOrderConfirmation(email, name, order); err != nil {
			s.logger.Error("failed to send order confirmation",
				slog.String("order_id", order.ID.Hex()),
				slog.String("error", err.Error()),
			)
		}
	}(user.Email, user.Name)
}

// CancelOrder cancels an order owned by the user by transitioning it to
// the cancelled status. Shipped and completed orders cannot be
// cancelled.
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID primitive.ObjectID) (*models.Order, error) {
	order, err := s.orders.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("order", orderID.Hex())
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	if order.IsTerminal() {
		return nil, apperrors.InvalidState(fmt.Sprintf("cannot cancel a %s order", order.Status))
	}

	if err := s.orders.UpdateStatus(ctx, orderID, models.OrderStatusCancelled); err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}

	s.logger.InfoContext(ctx, "order cancelled",
		slog.String("order_id", orderID.Hex()),
		slog.String("user_id", userID.Hex()),
	)

	order.Status = models.OrderStatusCancelled
	return order, nil
}

// UpdateOrderStatus moves an order to a new status along the forward
// transition graph. Unknown statuses fail as invalid arguments;
// known-but-unreachable transitions fail as invalid state.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID primitive.ObjectID, newStatus string) (*models.Order, error) {
	if !models.IsValidOrderStatus(newStatus) {
		return nil, apperrors.InvalidArgument(fmt.Sprintf("invalid status %q, must be one of: %s", newStatus, strings.Join(models.ValidOrderStatuses(), ", ")))
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("order", orderID.Hex())
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	if !order.CanTransitionTo(newStatus) {
		return nil, apperrors.InvalidState(fmt.Sprintf("cannot transition from %q to %q", order.Status, newStatus))
	}

	if err := s.orders.UpdateStatus(ctx, orderID, newStatus); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	s.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", orderID.Hex()),
		slog.String("old_status", order.Status),
		slog.String("new_status", newStatus),
	)

	order.Status = newStatus
	return order, nil
}

// GetOrder returns a single order by id.
func (s *OrderService) GetOrder(ctx context.Context, orderID primitive.ObjectID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("order", orderID.Hex())
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}

// GetUserOrders returns all orders belonging to the user.
func (s *OrderService) GetUserOrders(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	return orders, nil
}

// GetAllOrders returns every order. Callers must gate this behind the
// admin capability.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
