package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry. Image entries are URLs returned by the external
// media store; the backend only records them.
type Product struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Price           float64            `bson:"price" json:"price"`
	Description     string             `bson:"description" json:"description"`
	MainCategory    string             `bson:"mainCategory" json:"mainCategory"`
	Category        StringList         `bson:"category" json:"category"`
	AvailableSizes  StringList         `bson:"availableSizes" json:"availableSizes"`
	AvailableColors StringList         `bson:"availableColors" json:"availableColors"`
	Images          []string           `bson:"images" json:"images"`
	Stock           int                `bson:"stock" json:"stock"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
