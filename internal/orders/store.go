package orders

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hagyustic/internal/models"
)

// ErrNotFound is returned by Store lookups when no order matches the id.
var ErrNotFound = errors.New("order not found")

// MonthlySale is one month's bucket in the trailing sales report, keyed by
// "YYYY-MM".
type MonthlySale struct {
	Month string  `bson:"_id" json:"month"`
	Total float64 `bson:"total" json:"total"`
}

// Store is the persistence boundary of the order lifecycle. The durable
// store's per-record update semantics are the sole concurrency boundary:
// MarkPaid and UpdateStatusFrom are conditional updates, never blind
// overwrites.
type Store interface {
	Insert(ctx context.Context, order models.Order) (models.Order, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	FindAllWithOwners(ctx context.Context) ([]models.OrderWithOwner, error)
	HasOrdersByUser(ctx context.Context, userID primitive.ObjectID) (bool, error)

	// MarkPaid applies the payment confirmation to an order that is still in
	// Processing, the only state Paid is reachable from. It reports false
	// when no such order matched, leaving the caller to distinguish a missing
	// order, a redelivered confirmation and a terminated order.
	MarkPaid(ctx context.Context, id primitive.ObjectID, processor models.PaymentProcessor, confirmationID string, paidAt time.Time) (models.Order, bool, error)

	// UpdateStatusFrom moves an order to next only when its current status is
	// one of allowedPrior. It reports false when no such order matched.
	UpdateStatusFrom(ctx context.Context, id primitive.ObjectID, allowedPrior []models.OrderStatus, next models.OrderStatus) (models.Order, bool, error)

	TotalSales(ctx context.Context) (float64, error)
	CountOrders(ctx context.Context) (int64, error)
	CountActiveUsers(ctx context.Context) (int64, error)
	CountLowStockProducts(ctx context.Context, threshold int) (int64, error)
	MonthlySales(ctx context.Context, since time.Time) ([]MonthlySale, error)
}
