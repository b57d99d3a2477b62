package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hagyustic/internal/models"
)

// GetProducts lists catalog entries with the storefront filters: main
// category, comma-separated categories, size, color, name search and price
// sorting. Pagination applies only when both page and limit are present.
func GetProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": false, "message": "database unavailable"})
			return
		}

		andConditions := []bson.M{}

		if mainCategory := strings.TrimSpace(c.Query("mainCategory")); mainCategory != "" {
			andConditions = append(andConditions, bson.M{
				"mainCategory": bson.M{"$regex": "^" + mainCategory + "$", "$options": "i"},
			})
		}
		if category := strings.TrimSpace(c.Query("category")); category != "" {
			values := strings.Split(category, ",")
			andConditions = append(andConditions, bson.M{"category": bson.M{"$in": values}})
		}
		if size := strings.TrimSpace(c.Query("size")); size != "" {
			andConditions = append(andConditions, bson.M{"availableSizes": bson.M{"$in": strings.Split(size, ",")}})
		}
		if color := strings.TrimSpace(c.Query("color")); color != "" {
			andConditions = append(andConditions, bson.M{"availableColors": bson.M{"$in": strings.Split(color, ",")}})
		}
		if name := strings.TrimSpace(c.Query("name")); name != "" {
			andConditions = append(andConditions, bson.M{"name": bson.M{"$regex": name, "$options": "i"}})
		}

		filter := bson.M{}
		if len(andConditions) > 0 {
			filter["$and"] = andConditions
		}

		sortQuery := bson.D{{Key: "createdAt", Value: -1}}
		switch c.Query("sort") {
		case "lowToHigh":
			sortQuery = bson.D{{Key: "price", Value: 1}}
		case "highToLow":
			sortQuery = bson.D{{Key: "price", Value: -1}}
		}

		findOptions := options.Find().SetSort(sortQuery)

		pageStr := c.Query("page")
		limitStr := c.Query("limit")
		if pageStr != "" && limitStr != "" {
			page, limit, err := parsePaginationParams(pageStr, limitStr)
			if err != nil {
				respondBadRequest(c, route, "invalid pagination params")
				return
			}
			findOptions.SetSkip((page - 1) * limit).SetLimit(limit)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		cursor, err := db.Collection("products").Find(ctx, filter, findOptions)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to fetch products"})
			return
		}
		defer cursor.Close(ctx)

		products := []models.Product{}
		if err := cursor.All(ctx, &products); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to fetch products"})
			return
		}

		respondData(c, http.StatusOK, "Products fetched successfully", products)
	}
}

// GetProductByID returns a single catalog entry.
func GetProductByID(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondBadRequest(c, route, "Invalid product ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		var product models.Product
		if err := db.Collection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"status": false, "message": "Product not found"})
			return
		}

		respondData(c, http.StatusOK, "Product fetched successfully", product)
	}
}

type productRequest struct {
	Name            string   `json:"name" binding:"required"`
	Price           float64  `json:"price" binding:"required"`
	Description     string   `json:"description" binding:"required"`
	MainCategory    string   `json:"mainCategory" binding:"required"`
	Category        []string `json:"category" binding:"required"`
	AvailableSizes  []string `json:"availableSizes"`
	AvailableColors []string `json:"availableColors"`
	Images          []string `json:"images" binding:"required"`
	Stock           int      `json:"stock"`
}

// CreateProduct adds a catalog entry. Images are URLs already hosted by the
// external media store.
func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products"
		defer handlePanic(c, route)

		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, route, "All fields are required")
			return
		}
		if req.Price < 0 {
			respondBadRequest(c, route, "Price must not be negative")
			return
		}

		now := time.Now()
		product := models.Product{
			Name:            strings.TrimSpace(req.Name),
			Price:           req.Price,
			Description:     req.Description,
			MainCategory:    req.MainCategory,
			Category:        req.Category,
			AvailableSizes:  req.AvailableSizes,
			AvailableColors: req.AvailableColors,
			Images:          req.Images,
			Stock:           req.Stock,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to create product"})
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			product.ID = id
		}

		respondData(c, http.StatusCreated, "Product created successfully", product)
	}
}

type productUpdateRequest struct {
	Name            *string   `json:"name"`
	Price           *float64  `json:"price"`
	Description     *string   `json:"description"`
	MainCategory    *string   `json:"mainCategory"`
	Category        *[]string `json:"category"`
	AvailableSizes  *[]string `json:"availableSizes"`
	AvailableColors *[]string `json:"availableColors"`
	Images          *[]string `json:"images"`
	Stock           *int      `json:"stock"`
}

// UpdateProduct patches the provided fields only.
func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/products/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondBadRequest(c, route, "Invalid product ID")
			return
		}

		var req productUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, route, "invalid request body")
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if req.Name != nil {
			set["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Price != nil {
			if *req.Price < 0 {
				respondBadRequest(c, route, "Price must not be negative")
				return
			}
			set["price"] = *req.Price
		}
		if req.Description != nil {
			set["description"] = *req.Description
		}
		if req.MainCategory != nil {
			set["mainCategory"] = *req.MainCategory
		}
		if req.Category != nil {
			set["category"] = *req.Category
		}
		if req.AvailableSizes != nil {
			set["availableSizes"] = *req.AvailableSizes
		}
		if req.AvailableColors != nil {
			set["availableColors"] = *req.AvailableColors
		}
		if req.Images != nil {
			set["images"] = *req.Images
		}
		if req.Stock != nil {
			set["stock"] = *req.Stock
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var product models.Product
		err = db.Collection("products").FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&product)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"status": false, "message": "Product not found"})
			return
		}

		respondData(c, http.StatusOK, "Product updated successfully", product)
	}
}

// DeleteProduct removes a catalog entry. Image cleanup is the media store's
// concern.
func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/products/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondBadRequest(c, route, "Invalid product ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		res, err := db.Collection("products").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to delete product"})
			return
		}
		if res.DeletedCount == 0 {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"status": false, "message": "Product not found"})
			return
		}

		respondData(c, http.StatusOK, "Product deleted successfully", nil)
	}
}
