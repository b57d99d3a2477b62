package payments

import (
	"context"

	"hagyustic/internal/models"
)

// CheckoutItem is a line item handed to a processor when building a checkout
// session. Prices are major currency units; each adapter converts to its
// processor's convention.
type CheckoutItem struct {
	Name      string
	Size      string
	Color     string
	UnitPrice float64
	Quantity  int
}

// Session is a processor-native checkout the client completes externally.
type Session struct {
	ID  string
	URL string
}

// Confirmation is an inbound assertion from a processor that a payment
// succeeded: the order it belongs to plus the processor's own reference.
type Confirmation struct {
	OrderID   string
	Reference string
}

// Gateway is the contract each processor adapter fulfils. Processor quirks
// (currency units, webhook vs direct capture) stay behind this boundary; the
// order lifecycle only ever sees the uniform confirmation call that follows.
type Gateway interface {
	Processor() models.PaymentProcessor
	CreateSession(ctx context.Context, userID, orderID string, items []CheckoutItem) (Session, error)
	CaptureConfirmation(ctx context.Context, conf Confirmation) (string, error)
}
