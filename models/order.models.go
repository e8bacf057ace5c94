package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order status values.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusCancelled  = "cancelled"
	OrderStatusCompleted  = "completed"
)

// OrderItem is a line item snapshot captured from current product state
// at placement time. Prices are re-resolved at checkout, not copied from
// the cart.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
}

// Order is an immutable historical record of a placed order. Only the
// status field changes after creation.
type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items       []OrderItem        `bson:"items" json:"items"`
	TotalAmount float64            `bson:"total_amount" json:"total_amount"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// ValidOrderStatuses returns every recognized order status.
func ValidOrderStatuses() []string {
	return []string{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusCancelled,
		OrderStatusCompleted,
	}
}

// IsValidOrderStatus reports whether s names a recognized status.
func IsValidOrderStatus(s string) bool {
	for _, v := range ValidOrderStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

// orderTransitions is the forward-only status graph. Shipped orders can
// only complete; cancelled and completed are terminal.
var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusCompleted},
	OrderStatusCancelled:  {},
	OrderStatusCompleted:  {},
}

// CanTransitionTo reports whether the order may move to the target status.
func (o *Order) CanTransitionTo(target string) bool {
	for _, s := range orderTransitions[o.Status] {
		if s == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the order has reached a status that forbids
// cancellation by its owner.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusShipped || o.Status == OrderStatusCompleted
}
