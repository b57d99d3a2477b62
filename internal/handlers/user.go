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
	"golang.org/x/crypto/bcrypt"

	"hagyustic/internal/models"
	"hagyustic/internal/orders"
)

// GetUserProfile returns the authenticated user's account.
func GetUserProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/user/profile"
		defer handlePanic(c, route)

		userID, ok := requesterID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": false, "message": "Authentication required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"status": false, "message": "User not found"})
			return
		}

		respondData(c, http.StatusOK, "Profile fetched successfully", user)
	}
}

type userUpdateRequest struct {
	Name            *string `json:"name"`
	PhoneNumber     *string `json:"phoneNumber"`
	DeliveryAddress *string `json:"deliveryAddress"`
}

// UpdateUser patches the contact fields a user may change on their own
// account. Email and role stay fixed here.
func UpdateUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/user/update"
		defer handlePanic(c, route)

		userID, ok := requesterID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": false, "message": "Authentication required"})
			return
		}

		var req userUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, route, "invalid request body")
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				respondBadRequest(c, route, "Name must not be empty")
				return
			}
			set["name"] = name
		}
		if req.PhoneNumber != nil {
			set["phoneNumber"] = strings.TrimSpace(*req.PhoneNumber)
		}
		if req.DeliveryAddress != nil {
			set["deliveryAddress"] = strings.TrimSpace(*req.DeliveryAddress)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var user models.User
		err := db.Collection("users").FindOneAndUpdate(ctx, bson.M{"_id": userID}, bson.M{"$set": set}, opts).Decode(&user)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"status": false, "message": "User not found"})
			return
		}

		respondData(c, http.StatusOK, "Profile updated successfully", user)
	}
}

type passwordUpdateRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// UpdatePassword verifies the current password before storing a new hash.
// Social-login accounts have no hash and cannot set one here.
func UpdatePassword(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/user/password"
		defer handlePanic(c, route)

		userID, ok := requesterID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": false, "message": "Authentication required"})
			return
		}

		var req passwordUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, route, "Current password and a new password of at least 6 characters are required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"status": false, "message": "User not found"})
			return
		}
		if user.Password == "" {
			respondBadRequest(c, route, "Password login is not enabled for this account")
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": false, "message": "Current password is incorrect"})
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to update password"})
			return
		}

		_, err = db.Collection("users").UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
			"$set": bson.M{"password": string(hashed), "updatedAt": time.Now()},
		})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to update password"})
			return
		}

		respondData(c, http.StatusOK, "Password updated successfully", nil)
	}
}

// GetAllUsers lists accounts for the admin dashboard.
func GetAllUsers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/user/all"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("users").Find(ctx, bson.M{}, opts)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to fetch users"})
			return
		}
		defer cursor.Close(ctx)

		users := []models.User{}
		if err := cursor.All(ctx, &users); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to fetch users"})
			return
		}

		respondData(c, http.StatusOK, "Users fetched successfully", users)
	}
}

// DeleteUser removes an account from the admin dashboard. Admin accounts are
// protected from deletion here.
func DeleteUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/user/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondBadRequest(c, route, "Invalid user ID")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		res, err := db.Collection("users").DeleteOne(ctx, bson.M{"_id": id, "role": bson.M{"$ne": models.RoleAdmin}})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Failed to delete user"})
			return
		}
		if res.DeletedCount == 0 {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"status": false, "message": "User not found"})
			return
		}

		respondData(c, http.StatusOK, "User deleted successfully", nil)
	}
}

// HasPlacedOrder tells the frontend whether to show first-order promotions.
func HasPlacedOrder(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/user/has-ordered"
		defer handlePanic(c, route)

		userID, ok := requesterID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": false, "message": "Authentication required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), dbTimeout)
		defer cancel()

		hasOrdered, err := svc.HasOrders(ctx, userID)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		respondData(c, http.StatusOK, "Order history checked", gin.H{"hasPlacedOrder": hasOrdered})
	}
}
