package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"hagyustic/internal/orders"
	"hagyustic/internal/payments"
)

type checkoutItemRequest struct {
	Name     string `json:"name"`
	Size     string `json:"size"`
	Color    string `json:"color"`
	Price    any    `json:"price"`
	Quantity int    `json:"quantity"`
}

type checkoutSessionRequest struct {
	Items   []checkoutItemRequest `json:"items"`
	OrderID string                `json:"orderId"`
}

// CreateCheckoutSession opens a Stripe Checkout session for an existing order
// and returns the redirect URL.
func CreateCheckoutSession(gateway payments.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/payment/create-checkout-session"
		defer handlePanic(c, route)

		userID, ok := requesterID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": false, "message": "unauthorized"})
			return
		}

		var req checkoutSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, route, "invalid request body")
			return
		}

		items := make([]payments.CheckoutItem, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, payments.CheckoutItem{
				Name:      item.Name,
				Size:      item.Size,
				Color:     item.Color,
				UnitPrice: orders.PriceOrZero(item.Price),
				Quantity:  item.Quantity,
			})
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		session, err := gateway.CreateSession(ctx, userID.Hex(), req.OrderID, items)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": true, "url": session.URL})
	}
}

type paypalCaptureRequest struct {
	OrderID       string `json:"orderId"`
	PayPalOrderID string `json:"paypalOrderId"`
}

// CapturePayPalPayment validates an inbound PayPal capture and applies it to
// the order. Redelivered captures are safe: the lifecycle treats a matching
// confirmation on an already-paid order as a no-op.
func CapturePayPalPayment(gateway payments.Gateway, svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/payment/paypal-capture"
		defer handlePanic(c, route)

		var req paypalCaptureRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, route, "invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		ref, err := gateway.CaptureConfirmation(ctx, payments.Confirmation{
			OrderID:   req.OrderID,
			Reference: req.PayPalOrderID,
		})
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		order, err := svc.ConfirmPayment(ctx, req.OrderID, gateway.Processor(), ref)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  true,
			"message": "PayPal payment recorded successfully",
			"order":   order,
		})
	}
}

type stripeConfirmRequest struct {
	OrderID   string `json:"orderId"`
	SessionID string `json:"sessionId"`
}

// ConfirmStripePayment verifies a completed Stripe Checkout session and marks
// the order paid.
func ConfirmStripePayment(gateway payments.Gateway, svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/payment/stripe-confirm"
		defer handlePanic(c, route)

		var req stripeConfirmRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, route, "invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		ref, err := gateway.CaptureConfirmation(ctx, payments.Confirmation{
			OrderID:   req.OrderID,
			Reference: req.SessionID,
		})
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		order, err := svc.ConfirmPayment(ctx, req.OrderID, gateway.Processor(), ref)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  true,
			"message": "Stripe payment recorded successfully",
			"order":   order,
		})
	}
}
