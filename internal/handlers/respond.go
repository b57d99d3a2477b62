package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"hagyustic/internal/apperr"
)

const dbTimeout = 5 * time.Second

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": false, "message": "Internal Server Error"})
	}
}

func ensureDBConnection(ctx context.Context, db *mongo.Database) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return db.Client().Ping(checkCtx, readpref.Primary())
}

// respondAppError maps an error from the core onto the wire envelope. Internal
// detail is logged here and never reaches the client.
func respondAppError(c *gin.Context, route string, err error) {
	status := apperr.StatusCode(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[%s] [ERROR] %v", route, err)
	} else {
		log.Printf("[%s] returning %d: %v", route, status, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"status": false, "message": apperr.ClientMessage(err)})
}

func respondBadRequest(c *gin.Context, route, message string) {
	log.Printf("[%s] returning 400: %s", route, message)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"status": false, "message": message})
}

func respondData(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{"status": true, "message": message, "data": data})
}

// requesterID returns the authenticated user id injected by the auth guard.
func requesterID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get("userId")
	if !exists {
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	return id, ok
}

func requesterIsAdmin(c *gin.Context) bool {
	role, _ := c.Get("role")
	return role == "admin"
}
