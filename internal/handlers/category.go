package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type categoryEntry struct {
	Name         string `json:"name"`
	MainCategory string `json:"mainCategory"`
	Image        string `json:"image"`
}

// storefrontCategories is the fixed navigation set the frontend renders.
// Product documents reference these by mainCategory.
var storefrontCategories = []categoryEntry{
	{Name: "Men", MainCategory: "MEN", Image: "/images/categories/men.webp"},
	{Name: "Women", MainCategory: "WOMEN", Image: "/images/categories/women.webp"},
	{Name: "Child", MainCategory: "CHILD", Image: "/images/categories/child.webp"},
	{Name: "Accessories", MainCategory: "ACCESSORIES", Image: "/images/categories/accessories.webp"},
}

// GetCategories returns the storefront navigation categories.
func GetCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		respondData(c, http.StatusOK, "Categories fetched successfully", storefrontCategories)
	}
}
