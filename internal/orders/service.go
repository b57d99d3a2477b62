package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hagyustic/internal/apperr"
	"hagyustic/internal/models"
)

const defaultLowStockThreshold = 10

// Service owns the order state machine: creation, payment confirmation,
// fulfillment transitions and the dashboard rollups.
type Service struct {
	store             Store
	lowStockThreshold int
}

func NewService(store Store, lowStockThreshold int) *Service {
	if lowStockThreshold <= 0 {
		lowStockThreshold = defaultLowStockThreshold
	}
	return &Service{store: store, lowStockThreshold: lowStockThreshold}
}

// CreateItemInput is one line item as submitted by the storefront. Price is
// untyped because clients have historically sent numbers, numeric strings or
// nothing at all; see PriceOrZero.
type CreateItemInput struct {
	ProductID string
	Name      string
	Quantity  int
	Price     any
	Size      string
	Color     string
	Image     string
}

type CreateInput struct {
	Items           []CreateItemInput
	TotalAmount     float64
	StripeSessionID string
	PayPalOrderID   string
}

// PriceOrZero coerces a raw price value to a non-negative float. Missing,
// malformed or negative input yields 0 rather than a rejection; storefront
// clients already rely on that leniency.
func PriceOrZero(raw any) float64 {
	var price float64
	switch v := raw.(type) {
	case float64:
		price = v
	case int:
		price = float64(v)
	case json.Number:
		price, _ = v.Float64()
	case string:
		price, _ = strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0
	}
	return price
}

// Create persists a new order in Processing, unpaid, owned by userID. The
// total amount is trusted from the caller and not recomputed from items.
func (s *Service) Create(ctx context.Context, userID primitive.ObjectID, input CreateInput) (models.Order, error) {
	if len(input.Items) == 0 {
		return models.Order{}, apperr.Validation("Order must include at least one item.")
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	for i, item := range input.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return models.Order{}, apperr.Validation(fmt.Sprintf("item %d: product reference is required", i))
		}
		if item.Quantity < 1 {
			return models.Order{}, apperr.Validation(fmt.Sprintf("item %d: quantity must be at least 1", i))
		}

		name := strings.TrimSpace(item.Name)
		if name == "" {
			name = "N/A"
		}

		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      name,
			Quantity:  item.Quantity,
			Price:     PriceOrZero(item.Price),
			Size:      item.Size,
			Color:     item.Color,
			Image:     item.Image,
		})
	}

	now := time.Now()
	order := models.Order{
		UserID:          userID,
		Items:           items,
		TotalAmount:     input.TotalAmount,
		Status:          models.OrderProcessing,
		StripeSessionID: input.StripeSessionID,
		PayPalOrderID:   input.PayPalOrderID,
		IsPaid:          false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	saved, err := s.store.Insert(ctx, order)
	if err != nil {
		return models.Order{}, apperr.Internal("failed to create order", err)
	}
	return saved, nil
}

// ConfirmPayment applies a processor confirmation to an order. Processors
// redeliver confirmations, so the update is conditional: only an order still
// in Processing is mutated, and a redelivery carrying the correlation id
// already on record is a successful no-op. A different correlation id on an
// already-paid order is rejected; correlation ids are never overwritten or
// reused. A confirmation arriving after the order was cancelled is rejected
// too, since Cancelled is terminal.
func (s *Service) ConfirmPayment(ctx context.Context, orderID string, processor models.PaymentProcessor, confirmationID string) (models.Order, error) {
	if strings.TrimSpace(confirmationID) == "" {
		return models.Order{}, apperr.Validation("processor confirmation id is required")
	}

	id, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return models.Order{}, apperr.Validation("Invalid order ID")
	}

	order, matched, err := s.store.MarkPaid(ctx, id, processor, confirmationID, time.Now())
	if err != nil {
		return models.Order{}, apperr.Internal("failed to record payment", err)
	}
	if matched {
		return order, nil
	}

	existing, err := s.store.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return models.Order{}, apperr.NotFound("Order not found")
	}
	if err != nil {
		return models.Order{}, apperr.Internal("failed to load order", err)
	}

	if existing.IsPaid && existing.ConfirmationRef(processor) == confirmationID {
		return existing, nil
	}
	if existing.IsPaid {
		return models.Order{}, apperr.Validation("payment already recorded for this order")
	}
	return models.Order{}, apperr.Validation(fmt.Sprintf("cannot record payment for a %s order", existing.Status))
}

// parseAdminStatus validates a status an admin may request directly. Paid is
// deliberately excluded: it is reachable only through ConfirmPayment.
func parseAdminStatus(raw string) (models.OrderStatus, error) {
	status, ok := models.ParseOrderStatus(raw)
	if !ok || status == models.OrderPaid {
		return "", apperr.Validation("Invalid status")
	}
	return status, nil
}

// UpdateStatus transitions a single order. Invalid moves (for example
// Processing straight to Delivered) are validation errors.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, rawStatus string) (models.Order, error) {
	status, err := parseAdminStatus(rawStatus)
	if err != nil {
		return models.Order{}, err
	}

	id, idErr := primitive.ObjectIDFromHex(orderID)
	if idErr != nil {
		return models.Order{}, apperr.Validation("Invalid order ID")
	}

	order, matched, err := s.store.UpdateStatusFrom(ctx, id, models.PriorStatusesFor(status), status)
	if err != nil {
		return models.Order{}, apperr.Internal("failed to update order status", err)
	}
	if matched {
		return order, nil
	}

	existing, err := s.store.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return models.Order{}, apperr.NotFound("Order not found")
	}
	if err != nil {
		return models.Order{}, apperr.Internal("failed to load order", err)
	}
	return models.Order{}, apperr.Validation(fmt.Sprintf("cannot change status from %s to %s", existing.Status, status))
}

// BulkResult reports which orders a bulk transition touched. Skipped ids were
// missing, malformed or in a state the target cannot be reached from.
type BulkResult struct {
	Requested int      `json:"requested"`
	Updated   []string `json:"updated"`
	Skipped   []string `json:"skipped"`
}

// BulkUpdateStatus applies the same target status to every listed order, one
// independent per-record update at a time. There is no batch atomicity: a
// store failure aborts with whatever was already applied reported in the
// result.
func (s *Service) BulkUpdateStatus(ctx context.Context, orderIDs []string, rawStatus string) (BulkResult, error) {
	result := BulkResult{Requested: len(orderIDs), Updated: []string{}, Skipped: []string{}}

	if len(orderIDs) == 0 {
		return result, apperr.Validation("Order IDs are required")
	}

	status, err := parseAdminStatus(rawStatus)
	if err != nil {
		return result, err
	}
	allowedPrior := models.PriorStatusesFor(status)

	for _, raw := range orderIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			result.Skipped = append(result.Skipped, raw)
			continue
		}

		_, matched, err := s.store.UpdateStatusFrom(ctx, id, allowedPrior, status)
		if err != nil {
			return result, apperr.Internal("failed to update orders", err)
		}
		if matched {
			result.Updated = append(result.Updated, raw)
		} else {
			result.Skipped = append(result.Skipped, raw)
		}
	}

	return result, nil
}

// GetByID returns a single order to its owner or to an admin.
func (s *Service) GetByID(ctx context.Context, orderID string, requesterID primitive.ObjectID, isAdmin bool) (models.Order, error) {
	id, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return models.Order{}, apperr.Validation("Invalid order ID")
	}

	order, err := s.store.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return models.Order{}, apperr.NotFound("Order not found")
	}
	if err != nil {
		return models.Order{}, apperr.Internal("failed to fetch order", err)
	}

	if !isAdmin && order.UserID != requesterID {
		return models.Order{}, apperr.Forbidden("Not authorized to view this order")
	}
	return order, nil
}

// ListByUser returns the requester's own orders, newest first.
func (s *Service) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	orders, err := s.store.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to fetch orders", err)
	}
	return orders, nil
}

// ListAll returns every order with its owner populated, for the admin
// dashboard.
func (s *Service) ListAll(ctx context.Context) ([]models.OrderWithOwner, error) {
	orders, err := s.store.FindAllWithOwners(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to fetch orders", err)
	}
	return orders, nil
}

// HasOrders reports whether the user has ever placed an order.
func (s *Service) HasOrders(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	ok, err := s.store.HasOrdersByUser(ctx, userID)
	if err != nil {
		return false, apperr.Internal("failed to check orders", err)
	}
	return ok, nil
}
