package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Carousel is a homepage slide linking to a product category.
type Carousel struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Subtitle  string             `bson:"subtitle" json:"subtitle"`
	Images    []string           `bson:"images" json:"images"`
	Category  string             `bson:"category" json:"category"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
