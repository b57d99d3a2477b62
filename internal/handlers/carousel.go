package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hagyustic/internal/models"
)

const carouselImageCount = 3

// GetCarouselSlides returns homepage slides, newest first.
func GetCarouselSlides(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/carousel"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("carousels").Find(ctx, bson.M{}, opts)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to fetch carousel slides"})
			return
		}
		defer cursor.Close(ctx)

		slides := []models.Carousel{}
		if err := cursor.All(ctx, &slides); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to fetch carousel slides"})
			return
		}

		respondData(c, http.StatusOK, "Carousel slides fetched successfully", slides)
	}
}

type carouselRequest struct {
	Title    string   `json:"title" binding:"required"`
	Subtitle string   `json:"subtitle" binding:"required"`
	Category string   `json:"category" binding:"required"`
	Images   []string `json:"images" binding:"required"`
}

// CreateCarouselSlide adds a slide. Each slide carries exactly three image
// URLs, one per breakpoint.
func CreateCarouselSlide(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/carousel"
		defer handlePanic(c, route)

		var req carouselRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, route, "Title, subtitle, category and images are required")
			return
		}
		if len(req.Images) != carouselImageCount {
			respondBadRequest(c, route, "Exactly 3 images are required")
			return
		}

		now := time.Now()
		slide := models.Carousel{
			Title:     req.Title,
			Subtitle:  req.Subtitle,
			Category:  req.Category,
			Images:    req.Images,
			CreatedAt: now,
			UpdatedAt: now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		res, err := db.Collection("carousels").InsertOne(ctx, slide)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to create carousel slide"})
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			slide.ID = id
		}

		respondData(c, http.StatusCreated, "Carousel slide created successfully", slide)
	}
}

type carouselUpdateRequest struct {
	Title    *string   `json:"title"`
	Subtitle *string   `json:"subtitle"`
	Category *string   `json:"category"`
	Images   *[]string `json:"images"`
}

// UpdateCarouselSlide patches the provided fields only.
func UpdateCarouselSlide(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/carousel/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondBadRequest(c, route, "Invalid carousel ID")
			return
		}

		var req carouselUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, route, "invalid request body")
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if req.Title != nil {
			set["title"] = *req.Title
		}
		if req.Subtitle != nil {
			set["subtitle"] = *req.Subtitle
		}
		if req.Category != nil {
			set["category"] = *req.Category
		}
		if req.Images != nil {
			if len(*req.Images) != carouselImageCount {
				respondBadRequest(c, route, "Exactly 3 images are required")
				return
			}
			set["images"] = *req.Images
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var slide models.Carousel
		err = db.Collection("carousels").FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&slide)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"status": false, "message": "Carousel slide not found"})
			return
		}

		respondData(c, http.StatusOK, "Carousel slide updated successfully", slide)
	}
}

// DeleteCarouselSlide removes a slide.
func DeleteCarouselSlide(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/carousel/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondBadRequest(c, route, "Invalid carousel ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		res, err := db.Collection("carousels").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to delete carousel slide"})
			return
		}
		if res.DeletedCount == 0 {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"status": false, "message": "Carousel slide not found"})
			return
		}

		respondData(c, http.StatusOK, "Carousel slide deleted successfully", nil)
	}
}
