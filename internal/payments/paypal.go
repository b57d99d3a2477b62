package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/plutov/paypal/v4"

	"hagyustic/internal/apperr"
	"hagyustic/internal/models"
)

// PayPalGateway drives the PayPal Orders API. When constructed without
// credentials (local development, tests) it still validates confirmation
// payloads but records captures without remote verification, matching the
// previous backend's trust in client-side capture.
type PayPalGateway struct {
	client *paypal.Client
}

func NewPayPalGateway(clientID, secret string, live bool) (*PayPalGateway, error) {
	if strings.TrimSpace(clientID) == "" || strings.TrimSpace(secret) == "" {
		return &PayPalGateway{}, nil
	}

	base := paypal.APIBaseSandBox
	if live {
		base = paypal.APIBaseLive
	}

	c, err := paypal.NewClient(clientID, secret, base)
	if err != nil {
		return nil, err
	}
	return &PayPalGateway{client: c}, nil
}

func (g *PayPalGateway) Processor() models.PaymentProcessor {
	return models.ProcessorPayPal
}

// CreateSession creates a PayPal order for the checkout total and returns the
// approval URL the buyer is redirected to.
func (g *PayPalGateway) CreateSession(ctx context.Context, userID, orderID string, items []CheckoutItem) (Session, error) {
	if len(items) == 0 || strings.TrimSpace(orderID) == "" {
		return Session{}, apperr.Validation("Items and orderId are required")
	}
	if g.client == nil {
		return Session{}, apperr.PaymentProvider("PayPal is not configured", nil)
	}

	var total float64
	for _, item := range items {
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		price := item.UnitPrice
		if price < 0 {
			price = 0
		}
		total += price * float64(quantity)
	}

	if _, err := g.client.GetAccessToken(ctx); err != nil {
		return Session{}, apperr.PaymentProvider("PayPal authentication failed", err)
	}

	units := []paypal.PurchaseUnitRequest{{
		ReferenceID: orderID,
		CustomID:    userID,
		Amount: &paypal.PurchaseUnitAmount{
			Currency: "EUR",
			Value:    fmt.Sprintf("%.2f", total),
		},
	}}

	order, err := g.client.CreateOrder(ctx, paypal.OrderIntentCapture, units, nil, nil)
	if err != nil {
		return Session{}, apperr.PaymentProvider("PayPal order creation failed", err)
	}

	approveURL := ""
	for _, link := range order.Links {
		if link.Rel == "approve" {
			approveURL = link.Href
			break
		}
	}

	return Session{ID: order.ID, URL: approveURL}, nil
}

// CaptureConfirmation validates a capture payload and, when a client is
// configured, captures the PayPal order and checks it completed. The returned
// reference is the PayPal order id used to correlate the confirmation.
func (g *PayPalGateway) CaptureConfirmation(ctx context.Context, conf Confirmation) (string, error) {
	if strings.TrimSpace(conf.OrderID) == "" || strings.TrimSpace(conf.Reference) == "" {
		return "", apperr.Validation("Order ID and PayPal Order ID are required")
	}

	if g.client != nil {
		if _, err := g.client.GetAccessToken(ctx); err != nil {
			return "", apperr.PaymentProvider("PayPal authentication failed", err)
		}

		capture, err := g.client.CaptureOrder(ctx, conf.Reference, paypal.CaptureOrderRequest{})
		if err != nil {
			return "", apperr.PaymentProvider("PayPal capture failed", err)
		}
		if capture.Status != "COMPLETED" {
			return "", apperr.PaymentProvider(fmt.Sprintf("PayPal order not completed: %s", capture.Status), nil)
		}
	}

	return conf.Reference, nil
}
