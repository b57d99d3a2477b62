package payments

import (
	"context"
	"math"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"hagyustic/internal/apperr"
	"hagyustic/internal/models"
)

// StripeGateway builds Stripe Checkout sessions and validates session-based
// payment confirmations. The client is constructed once and injected, never a
// package-level singleton.
type StripeGateway struct {
	client     *client.API
	successURL string
	cancelURL  string
}

func NewStripeGateway(secretKey, frontendURL string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeGateway{
		client:     api,
		successURL: frontendURL + "/order-confirmation?session_id={CHECKOUT_SESSION_ID}",
		cancelURL:  frontendURL + "/checkout",
	}
}

func (g *StripeGateway) Processor() models.PaymentProcessor {
	return models.ProcessorStripe
}

// toMinorUnits converts a major-unit price to cents, the unit Stripe expects.
func toMinorUnits(price float64) int64 {
	if math.IsNaN(price) || price < 0 {
		return 0
	}
	return int64(math.Round(price * 100))
}

func buildStripeLineItems(items []CheckoutItem) []*stripe.CheckoutSessionLineItemParams {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			name = "Unknown Product"
		}
		size := item.Size
		if size == "" {
			size = "N/A"
		}
		color := item.Color
		if color == "" {
			color = "N/A"
		}
		quantity := int64(item.Quantity)
		if quantity < 1 {
			quantity = 1
		}

		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(string(stripe.CurrencyEUR)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(name),
					Metadata: map[string]string{
						"size":  size,
						"color": color,
					},
				},
				UnitAmount: stripe.Int64(toMinorUnits(item.UnitPrice)),
			},
			Quantity: stripe.Int64(quantity),
		})
	}
	return lineItems
}

// CreateSession opens a Stripe Checkout session tagged with the user and
// order ids so the confirmation can be correlated later. Failures surface as
// PaymentProviderError; the HTTP layer decides how to report them, no retries
// happen here.
func (g *StripeGateway) CreateSession(ctx context.Context, userID, orderID string, items []CheckoutItem) (Session, error) {
	if len(items) == 0 || strings.TrimSpace(orderID) == "" {
		return Session{}, apperr.Validation("Items and orderId are required")
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          buildStripeLineItems(items),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(g.successURL),
		CancelURL:          stripe.String(g.cancelURL),
	}
	params.Context = ctx
	params.AddMetadata("userId", userID)
	params.AddMetadata("orderId", orderID)

	session, err := g.client.CheckoutSessions.New(params)
	if err != nil {
		return Session{}, apperr.PaymentProvider("Stripe checkout session failed", err)
	}

	return Session{ID: session.ID, URL: session.URL}, nil
}

// CaptureConfirmation validates a session-completed confirmation and verifies
// with Stripe that the session was actually paid before handing the session
// id back as the correlation reference.
func (g *StripeGateway) CaptureConfirmation(ctx context.Context, conf Confirmation) (string, error) {
	if strings.TrimSpace(conf.OrderID) == "" || strings.TrimSpace(conf.Reference) == "" {
		return "", apperr.Validation("Order ID and Stripe session ID are required")
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	session, err := g.client.CheckoutSessions.Get(conf.Reference, params)
	if err != nil {
		return "", apperr.PaymentProvider("Stripe session lookup failed", err)
	}
	if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return "", apperr.PaymentProvider("Stripe session is not paid", nil)
	}

	return session.ID, nil
}
