package payments

import (
	"context"
	"testing"

	"hagyustic/internal/apperr"
	"hagyustic/internal/models"
)

func TestPayPalCaptureConfirmationValidatesPayload(t *testing.T) {
	g, err := NewPayPalGateway("", "", false)
	if err != nil {
		t.Fatalf("NewPayPalGateway returned error: %v", err)
	}

	_, err = g.CaptureConfirmation(context.Background(), Confirmation{OrderID: "", Reference: "5O1234"})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for missing orderId, got %v", err)
	}

	_, err = g.CaptureConfirmation(context.Background(), Confirmation{OrderID: "order-1", Reference: ""})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for missing paypal order id, got %v", err)
	}
}

func TestPayPalCaptureWithoutClientPassesReferenceThrough(t *testing.T) {
	g, err := NewPayPalGateway("", "", false)
	if err != nil {
		t.Fatalf("NewPayPalGateway returned error: %v", err)
	}

	ref, err := g.CaptureConfirmation(context.Background(), Confirmation{OrderID: "order-1", Reference: "5O190127TN364715T"})
	if err != nil {
		t.Fatalf("CaptureConfirmation returned error: %v", err)
	}
	if ref != "5O190127TN364715T" {
		t.Fatalf("unexpected reference %q", ref)
	}
}

func TestPayPalCreateSessionRequiresConfiguredClient(t *testing.T) {
	g, _ := NewPayPalGateway("", "", false)

	_, err := g.CreateSession(context.Background(), "user", "order-1", []CheckoutItem{{Name: "Hat", UnitPrice: 10, Quantity: 1}})
	if apperr.KindOf(err) != apperr.KindPaymentProvider {
		t.Fatalf("expected payment provider error when unconfigured, got %v", err)
	}
}

func TestGatewayProcessorKinds(t *testing.T) {
	stripeGw := NewStripeGateway("sk_test_xxx", "http://localhost:5173")
	paypalGw, _ := NewPayPalGateway("", "", false)

	if stripeGw.Processor() != models.ProcessorStripe {
		t.Fatalf("unexpected processor %s", stripeGw.Processor())
	}
	if paypalGw.Processor() != models.ProcessorPayPal {
		t.Fatalf("unexpected processor %s", paypalGw.Processor())
	}
}
