package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"hagyustic/internal/orders"
)

type createOrderItemRequest struct {
	Product   string `json:"product"`
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     any    `json:"price"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Image     string `json:"image"`
}

// productRef accepts both field spellings the storefront has used over time.
func (r createOrderItemRequest) productRef() string {
	if r.Product != "" {
		return r.Product
	}
	return r.ProductID
}

type createOrderRequest struct {
	Items           []createOrderItemRequest `json:"items"`
	TotalAmount     float64                  `json:"totalAmount"`
	StripeSessionID string                   `json:"stripeSessionId"`
	PayPalOrderID   string                   `json:"paypalOrderId"`
}

// CreateOrder persists a new order for the authenticated user. The requested
// status field, if any, is ignored: orders always start in Processing.
func CreateOrder(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, route)

		userID, ok := requesterID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": false, "message": "unauthorized"})
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, route, "invalid request body")
			return
		}

		input := orders.CreateInput{
			TotalAmount:     req.TotalAmount,
			StripeSessionID: req.StripeSessionID,
			PayPalOrderID:   req.PayPalOrderID,
		}
		for _, item := range req.Items {
			input.Items = append(input.Items, orders.CreateItemInput{
				ProductID: item.productRef(),
				Name:      item.Name,
				Quantity:  item.Quantity,
				Price:     item.Price,
				Size:      item.Size,
				Color:     item.Color,
				Image:     item.Image,
			})
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		order, err := svc.Create(ctx, userID, input)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		log.Println("[ORDER] [INFO] order created for user:", userID.Hex())
		c.JSON(http.StatusCreated, gin.H{"status": true, "order": order})
	}
}

// GetUserOrders lists the caller's own orders, newest first.
func GetUserOrders(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders"
		defer handlePanic(c, route)

		userID, ok := requesterID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": false, "message": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		userOrders, err := svc.ListByUser(ctx, userID)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		respondData(c, http.StatusOK, "Orders fetched successfully", userOrders)
	}
}

// GetAllOrders is the admin dashboard listing with owner identity populated.
func GetAllOrders(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/all"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		allOrders, err := svc.ListAll(ctx)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		respondData(c, http.StatusOK, "Orders fetched successfully", allOrders)
	}
}

// GetOrderByID returns a single order to its owner or an admin.
func GetOrderByID(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/:id"
		defer handlePanic(c, route)

		userID, ok := requesterID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": false, "message": "unauthorized"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		order, err := svc.GetByID(ctx, c.Param("id"), userID, requesterIsAdmin(c))
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		respondData(c, http.StatusOK, "Order fetched successfully", order)
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus is the admin transition endpoint for one order.
func UpdateOrderStatus(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:id/status"
		defer handlePanic(c, route)

		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, route, "invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		order, err := svc.UpdateStatus(ctx, c.Param("id"), req.Status)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		respondData(c, http.StatusOK, "Order status updated successfully", order)
	}
}

type bulkUpdateRequest struct {
	OrderIDs []string `json:"orderIds"`
	Status   string   `json:"status"`
}

// BulkUpdateOrders applies one target status to many orders. Each order is an
// independent update; the response manifests which ids were updated and which
// were skipped.
func BulkUpdateOrders(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/bulk-update"
		defer handlePanic(c, route)

		var req bulkUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, route, "invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		result, err := svc.BulkUpdateStatus(ctx, req.OrderIDs, req.Status)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		respondData(c, http.StatusOK, "Orders updated successfully", result)
	}
}

// GetAnalytics recomputes the admin dashboard rollup on every call.
func GetAnalytics(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/analytics"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		report, err := svc.Analytics(ctx)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		respondData(c, http.StatusOK, "Analytics fetched successfully", report)
	}
}
