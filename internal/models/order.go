package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the closed set of fulfillment states an order can hold.
type OrderStatus string

const (
	OrderProcessing OrderStatus = "Processing"
	OrderPaid       OrderStatus = "Paid"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

var orderStatuses = []OrderStatus{
	OrderProcessing,
	OrderPaid,
	OrderShipped,
	OrderDelivered,
	OrderCancelled,
}

// ParseOrderStatus validates a raw status string against the enumeration.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	for _, s := range orderStatuses {
		if string(s) == raw {
			return s, true
		}
	}
	return "", false
}

// orderTransitions defines the only legal forward moves. Delivered and
// Cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderProcessing: {OrderPaid, OrderCancelled},
	OrderPaid:       {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
}

// CanTransitionTo reports whether an order in state s may move to next.
// Re-applying the current status is treated as a no-op and allowed, so
// redelivered admin updates stay idempotent.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PriorStatusesFor returns every state an order may hold immediately before a
// valid move to target, target itself included.
func PriorStatusesFor(target OrderStatus) []OrderStatus {
	prior := make([]OrderStatus, 0, len(orderStatuses))
	for _, s := range orderStatuses {
		if s.CanTransitionTo(target) {
			prior = append(prior, s)
		}
	}
	return prior
}

// PaymentProcessor identifies which external payment system confirmed a
// payment.
type PaymentProcessor string

const (
	ProcessorStripe PaymentProcessor = "Stripe"
	ProcessorPayPal PaymentProcessor = "PayPal"
)

// RefField is the order document field holding this processor's correlation
// id.
func (p PaymentProcessor) RefField() string {
	if p == ProcessorPayPal {
		return "paypalOrderId"
	}
	return "stripeSessionId"
}

// OrderItem is a line item snapshotted at order time. Name, price and image
// are copied in when the order is created and never re-read, so later catalog
// edits cannot alter historical orders.
type OrderItem struct {
	ProductID string  `bson:"productId" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Price     float64 `bson:"price" json:"price"`
	Size      string  `bson:"size" json:"size"`
	Color     string  `bson:"color" json:"color"`
	Image     string  `bson:"image" json:"image"`
}

// Order is the persisted order document.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user" json:"user"`
	Items           []OrderItem        `bson:"items" json:"items"`
	TotalAmount     float64            `bson:"totalAmount" json:"totalAmount"`
	Status          OrderStatus        `bson:"status" json:"status"`
	PaymentMethod   string             `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	StripeSessionID string             `bson:"stripeSessionId,omitempty" json:"stripeSessionId,omitempty"`
	PayPalOrderID   string             `bson:"paypalOrderId,omitempty" json:"paypalOrderId,omitempty"`
	IsPaid          bool               `bson:"isPaid" json:"isPaid"`
	PaidAt          *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ConfirmationRef returns the correlation id recorded for the given
// processor, empty when none has been set.
func (o Order) ConfirmationRef(p PaymentProcessor) string {
	if p == ProcessorPayPal {
		return o.PayPalOrderID
	}
	return o.StripeSessionID
}

// OrderOwner is the user summary attached to admin order listings.
type OrderOwner struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`
	PhoneNumber     string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	DeliveryAddress string             `bson:"deliveryAddress,omitempty" json:"deliveryAddress,omitempty"`
}

// OrderWithOwner joins an order with its owning user for the admin dashboard.
type OrderWithOwner struct {
	Order `bson:",inline"`
	Owner *OrderOwner `bson:"owner,omitempty" json:"owner,omitempty"`
}
