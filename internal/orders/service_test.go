package orders

import (
	"context"
	"sort"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hagyustic/internal/apperr"
	"hagyustic/internal/models"
)

// fakeStore mirrors the conditional-update semantics of the Mongo store in
// memory: MarkPaid only touches orders still in Processing, UpdateStatusFrom
// only matches the allowed prior statuses.
type fakeStore struct {
	orders        map[primitive.ObjectID]models.Order
	lowStockCount int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: map[primitive.ObjectID]models.Order{}}
}

func (f *fakeStore) Insert(_ context.Context, order models.Order) (models.Order, error) {
	order.ID = primitive.NewObjectID()
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeStore) FindByID(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return models.Order{}, ErrNotFound
	}
	return order, nil
}

func (f *fakeStore) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) FindAllWithOwners(_ context.Context) ([]models.OrderWithOwner, error) {
	var out []models.OrderWithOwner
	for _, o := range f.orders {
		out = append(out, models.OrderWithOwner{Order: o})
	}
	return out, nil
}

func (f *fakeStore) HasOrdersByUser(_ context.Context, userID primitive.ObjectID) (bool, error) {
	for _, o := range f.orders {
		if o.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) MarkPaid(_ context.Context, id primitive.ObjectID, processor models.PaymentProcessor, confirmationID string, paidAt time.Time) (models.Order, bool, error) {
	order, ok := f.orders[id]
	if !ok || order.Status != models.OrderProcessing {
		return models.Order{}, false, nil
	}
	order.IsPaid = true
	order.PaidAt = &paidAt
	order.Status = models.OrderPaid
	order.PaymentMethod = string(processor)
	if processor == models.ProcessorPayPal {
		order.PayPalOrderID = confirmationID
	} else {
		order.StripeSessionID = confirmationID
	}
	order.UpdatedAt = paidAt
	f.orders[id] = order
	return order, true, nil
}

func (f *fakeStore) UpdateStatusFrom(_ context.Context, id primitive.ObjectID, allowedPrior []models.OrderStatus, next models.OrderStatus) (models.Order, bool, error) {
	order, ok := f.orders[id]
	if !ok {
		return models.Order{}, false, nil
	}
	matched := false
	for _, s := range allowedPrior {
		if order.Status == s {
			matched = true
			break
		}
	}
	if !matched {
		return models.Order{}, false, nil
	}
	order.Status = next
	order.UpdatedAt = time.Now()
	f.orders[id] = order
	return order, true, nil
}

func (f *fakeStore) TotalSales(_ context.Context) (float64, error) {
	var total float64
	for _, o := range f.orders {
		if o.Status != models.OrderCancelled {
			total += o.TotalAmount
		}
	}
	return total, nil
}

func (f *fakeStore) CountOrders(_ context.Context) (int64, error) {
	return int64(len(f.orders)), nil
}

func (f *fakeStore) CountActiveUsers(_ context.Context) (int64, error) {
	users := map[primitive.ObjectID]bool{}
	for _, o := range f.orders {
		users[o.UserID] = true
	}
	return int64(len(users)), nil
}

func (f *fakeStore) CountLowStockProducts(_ context.Context, _ int) (int64, error) {
	return f.lowStockCount, nil
}

func (f *fakeStore) MonthlySales(_ context.Context, since time.Time) ([]MonthlySale, error) {
	buckets := map[string]float64{}
	for _, o := range f.orders {
		if o.Status == models.OrderCancelled || o.CreatedAt.Before(since) {
			continue
		}
		buckets[MonthKey(o.CreatedAt)] += o.TotalAmount
	}
	sales := make([]MonthlySale, 0, len(buckets))
	for month, total := range buckets {
		sales = append(sales, MonthlySale{Month: month, Total: total})
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].Month < sales[j].Month })
	return sales, nil
}

func validItems() []CreateItemInput {
	return []CreateItemInput{
		{ProductID: "p1", Name: "Shirt", Quantity: 2, Price: 19.99, Size: "M", Color: "Black", Image: "https://cdn/img1.jpg"},
		{ProductID: "p2", Name: "Hat", Quantity: 1, Price: 10.0, Size: "L", Color: "Red"},
	}
}

func TestCreateOrderPersistsProcessingUnpaid(t *testing.T) {
	svc := NewService(newFakeStore(), 0)
	userID := primitive.NewObjectID()

	order, err := svc.Create(context.Background(), userID, CreateInput{Items: validItems(), TotalAmount: 49.98})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	if order.Status != models.OrderProcessing {
		t.Fatalf("expected status Processing, got %s", order.Status)
	}
	if order.IsPaid || order.PaidAt != nil {
		t.Fatalf("expected unpaid order, got isPaid=%v paidAt=%v", order.IsPaid, order.PaidAt)
	}
	if order.UserID != userID {
		t.Fatal("order not owned by creating user")
	}
	if order.TotalAmount != 49.98 {
		t.Fatalf("expected caller-supplied total to be persisted, got %v", order.TotalAmount)
	}
}

func TestCreateOrderEmptyItemsRejected(t *testing.T) {
	svc := NewService(newFakeStore(), 0)

	_, err := svc.Create(context.Background(), primitive.NewObjectID(), CreateInput{TotalAmount: 100})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateOrderQuantityBelowOneRejected(t *testing.T) {
	svc := NewService(newFakeStore(), 0)
	items := []CreateItemInput{{ProductID: "p1", Name: "Shirt", Quantity: 0, Price: 5}}

	_, err := svc.Create(context.Background(), primitive.NewObjectID(), CreateInput{Items: items})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPriceOrZero(t *testing.T) {
	tests := []struct {
		raw  any
		want float64
	}{
		{19.99, 19.99},
		{"12.5", 12.5},
		{nil, 0},
		{"not-a-price", 0},
		{-5.0, 0},
		{true, 0},
	}
	for _, tt := range tests {
		if got := PriceOrZero(tt.raw); got != tt.want {
			t.Fatalf("PriceOrZero(%v) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestCreateOrderCoercesBadPriceToZero(t *testing.T) {
	svc := NewService(newFakeStore(), 0)
	items := []CreateItemInput{{ProductID: "p1", Quantity: 1, Price: "bogus"}}

	order, err := svc.Create(context.Background(), primitive.NewObjectID(), CreateInput{Items: items})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if order.Items[0].Price != 0 {
		t.Fatalf("expected price coerced to 0, got %v", order.Items[0].Price)
	}
	if order.Items[0].Name != "N/A" {
		t.Fatalf("expected missing name to default to N/A, got %q", order.Items[0].Name)
	}
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, 0)
	ctx := context.Background()

	order, err := svc.Create(ctx, primitive.NewObjectID(), CreateInput{Items: validItems(), TotalAmount: 50})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	first, err := svc.ConfirmPayment(ctx, order.ID.Hex(), models.ProcessorPayPal, "5O190127TN364715T")
	if err != nil {
		t.Fatalf("first confirmation failed: %v", err)
	}
	if !first.IsPaid || first.Status != models.OrderPaid || first.PaidAt == nil {
		t.Fatalf("confirmation did not mark order paid: %+v", first)
	}
	if first.PaymentMethod != "PayPal" {
		t.Fatalf("expected paymentMethod PayPal, got %q", first.PaymentMethod)
	}

	second, err := svc.ConfirmPayment(ctx, order.ID.Hex(), models.ProcessorPayPal, "5O190127TN364715T")
	if err != nil {
		t.Fatalf("redelivered confirmation failed: %v", err)
	}
	if !second.PaidAt.Equal(*first.PaidAt) {
		t.Fatalf("redelivery changed paidAt: %v vs %v", second.PaidAt, first.PaidAt)
	}

	// The store must hold exactly one paid order with one correlation id.
	stored := store.orders[order.ID]
	if stored.PayPalOrderID != "5O190127TN364715T" {
		t.Fatalf("unexpected correlation id %q", stored.PayPalOrderID)
	}

	total, _ := store.TotalSales(ctx)
	if total != 50 {
		t.Fatalf("redelivery double-counted sales: %v", total)
	}
}

func TestConfirmPaymentRejectsConflictingConfirmation(t *testing.T) {
	svc := NewService(newFakeStore(), 0)
	ctx := context.Background()

	order, _ := svc.Create(ctx, primitive.NewObjectID(), CreateInput{Items: validItems()})
	if _, err := svc.ConfirmPayment(ctx, order.ID.Hex(), models.ProcessorPayPal, "ref-1"); err != nil {
		t.Fatalf("first confirmation failed: %v", err)
	}

	_, err := svc.ConfirmPayment(ctx, order.ID.Hex(), models.ProcessorPayPal, "ref-2")
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for conflicting confirmation, got %v", err)
	}
}

func TestConfirmPaymentAfterCancelRejected(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, 0)
	ctx := context.Background()

	order, _ := svc.Create(ctx, primitive.NewObjectID(), CreateInput{Items: validItems(), TotalAmount: 50})
	if _, err := svc.UpdateStatus(ctx, order.ID.Hex(), "Cancelled"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	// A confirmation landing after cancellation must not resurrect the order.
	_, err := svc.ConfirmPayment(ctx, order.ID.Hex(), models.ProcessorPayPal, "PP-LATE")
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for late confirmation, got %v", err)
	}

	stored := store.orders[order.ID]
	if stored.Status != models.OrderCancelled || stored.IsPaid || stored.PayPalOrderID != "" {
		t.Fatalf("late confirmation mutated cancelled order: %+v", stored)
	}
}

func TestConfirmPaymentUnknownOrder(t *testing.T) {
	svc := NewService(newFakeStore(), 0)

	_, err := svc.ConfirmPayment(context.Background(), primitive.NewObjectID().Hex(), models.ProcessorStripe, "cs_test_123")
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateStatusRejectsUnknownAndPaid(t *testing.T) {
	svc := NewService(newFakeStore(), 0)
	ctx := context.Background()

	order, _ := svc.Create(ctx, primitive.NewObjectID(), CreateInput{Items: validItems()})

	for _, raw := range []string{"Refunded", "", "paid", "Paid"} {
		_, err := svc.UpdateStatus(ctx, order.ID.Hex(), raw)
		if apperr.KindOf(err) != apperr.KindValidation {
			t.Fatalf("expected validation error for status %q, got %v", raw, err)
		}
	}
}

func TestUpdateStatusEnforcesStateMachine(t *testing.T) {
	svc := NewService(newFakeStore(), 0)
	ctx := context.Background()

	order, _ := svc.Create(ctx, primitive.NewObjectID(), CreateInput{Items: validItems()})

	// Processing cannot skip Paid.
	if _, err := svc.UpdateStatus(ctx, order.ID.Hex(), "Delivered"); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected Processing -> Delivered to be rejected, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, order.ID.Hex(), "Shipped"); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected Processing -> Shipped to be rejected, got %v", err)
	}

	if _, err := svc.ConfirmPayment(ctx, order.ID.Hex(), models.ProcessorStripe, "cs_1"); err != nil {
		t.Fatalf("confirmation failed: %v", err)
	}

	updated, err := svc.UpdateStatus(ctx, order.ID.Hex(), "Shipped")
	if err != nil {
		t.Fatalf("Paid -> Shipped failed: %v", err)
	}
	if updated.Status != models.OrderShipped {
		t.Fatalf("expected Shipped, got %s", updated.Status)
	}

	if _, err := svc.UpdateStatus(ctx, order.ID.Hex(), "Delivered"); err != nil {
		t.Fatalf("Shipped -> Delivered failed: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, order.ID.Hex(), "Cancelled"); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected Delivered -> Cancelled to be rejected, got %v", err)
	}
}

func TestUpdateStatusCancelFromProcessing(t *testing.T) {
	svc := NewService(newFakeStore(), 0)
	ctx := context.Background()

	order, _ := svc.Create(ctx, primitive.NewObjectID(), CreateInput{Items: validItems()})
	updated, err := svc.UpdateStatus(ctx, order.ID.Hex(), "Cancelled")
	if err != nil {
		t.Fatalf("Processing -> Cancelled failed: %v", err)
	}
	if updated.Status != models.OrderCancelled {
		t.Fatalf("expected Cancelled, got %s", updated.Status)
	}
}

func TestBulkUpdateSkipsMissingIDs(t *testing.T) {
	svc := NewService(newFakeStore(), 0)
	ctx := context.Background()

	ids := make([]string, 0, 6)
	for i := 0; i < 5; i++ {
		order, _ := svc.Create(ctx, primitive.NewObjectID(), CreateInput{Items: validItems()})
		ids = append(ids, order.ID.Hex())
	}
	missing := primitive.NewObjectID().Hex()
	ids = append(ids, missing)

	result, err := svc.BulkUpdateStatus(ctx, ids, "Cancelled")
	if err != nil {
		t.Fatalf("BulkUpdateStatus returned error: %v", err)
	}
	if result.Requested != 6 {
		t.Fatalf("expected 6 requested, got %d", result.Requested)
	}
	if len(result.Updated) != 5 {
		t.Fatalf("expected 5 updated, got %v", result.Updated)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != missing {
		t.Fatalf("expected missing id to be skipped, got %v", result.Skipped)
	}
}

func TestBulkUpdateEmptyIDsRejected(t *testing.T) {
	svc := NewService(newFakeStore(), 0)

	_, err := svc.BulkUpdateStatus(context.Background(), nil, "Shipped")
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetByIDAccessControl(t *testing.T) {
	svc := NewService(newFakeStore(), 0)
	ctx := context.Background()

	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()
	order, _ := svc.Create(ctx, owner, CreateInput{Items: validItems()})

	if _, err := svc.GetByID(ctx, order.ID.Hex(), owner, false); err != nil {
		t.Fatalf("owner should read own order: %v", err)
	}

	_, err := svc.GetByID(ctx, order.ID.Hex(), other, false)
	if apperr.KindOf(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}

	if _, err := svc.GetByID(ctx, order.ID.Hex(), other, true); err != nil {
		t.Fatalf("admin should read any order: %v", err)
	}

	_, err = svc.GetByID(ctx, "not-a-hex-id", owner, false)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for malformed id, got %v", err)
	}
}

func TestAnalyticsExcludesCancelledSales(t *testing.T) {
	store := newFakeStore()
	store.lowStockCount = 3
	svc := NewService(store, 0)
	ctx := context.Background()

	userA := primitive.NewObjectID()
	userB := primitive.NewObjectID()

	o1, _ := svc.Create(ctx, userA, CreateInput{Items: validItems(), TotalAmount: 100})
	svc.Create(ctx, userB, CreateInput{Items: validItems(), TotalAmount: 200})
	cancelled, _ := svc.Create(ctx, userA, CreateInput{Items: validItems(), TotalAmount: 50})
	if _, err := svc.UpdateStatus(ctx, cancelled.ID.Hex(), "Cancelled"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	_ = o1

	report, err := svc.Analytics(ctx)
	if err != nil {
		t.Fatalf("Analytics returned error: %v", err)
	}
	if report.TotalSales != 300 {
		t.Fatalf("expected totalSales 300 excluding cancelled, got %v", report.TotalSales)
	}
	if report.TotalOrders != 3 {
		t.Fatalf("expected totalOrders 3, got %d", report.TotalOrders)
	}
	if report.ActiveUsers != 2 {
		t.Fatalf("expected 2 active users, got %d", report.ActiveUsers)
	}
	if report.LowStockProducts != 3 {
		t.Fatalf("expected lowStockProducts 3, got %d", report.LowStockProducts)
	}
}

func TestMonthlySalesSortedAscending(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, 0)
	ctx := context.Background()

	user := primitive.NewObjectID()
	now := time.Now()
	// Anchor to mid-month so AddDate never rolls over into a neighbor month.
	base := time.Date(now.Year(), now.Month(), 15, 12, 0, 0, 0, time.UTC)
	months := []time.Time{
		base.AddDate(0, -2, 0),
		base.AddDate(0, -1, 0),
		base,
	}
	for i, created := range months {
		order, _ := svc.Create(ctx, user, CreateInput{Items: validItems(), TotalAmount: float64((i + 1) * 10)})
		stored := store.orders[order.ID]
		stored.CreatedAt = created
		store.orders[order.ID] = stored
	}

	report, err := svc.Analytics(ctx)
	if err != nil {
		t.Fatalf("Analytics returned error: %v", err)
	}
	if len(report.MonthlySales) != 3 {
		t.Fatalf("expected 3 monthly buckets, got %v", report.MonthlySales)
	}
	for i := 1; i < len(report.MonthlySales); i++ {
		if report.MonthlySales[i-1].Month >= report.MonthlySales[i].Month {
			t.Fatalf("monthly sales not ascending: %v", report.MonthlySales)
		}
	}
}
