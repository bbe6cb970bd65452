// internal/models/favorite.go
package models

import "github.com/google/uuid"

// Favorite links a client to an external product id. ClientID is a plain
// back reference; the owning Client holds the collection.
type Favorite struct {
	BaseModel
	ClientID  uuid.UUID `json:"client_id" gorm:"type:uuid;not null;uniqueIndex:idx_favorites_client_product,priority:1"`
	ProductID int       `json:"product_id" gorm:"not null;index;uniqueIndex:idx_favorites_client_product,priority:2"`
}

// EnrichedFavorite is a stored favorite merged with the catalog's current
// product data. ProductID always comes from the stored row.
type EnrichedFavorite struct {
	ProductID   int     `json:"product_id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

func NewEnrichedFavorite(f Favorite, p *Product) EnrichedFavorite {
	out := EnrichedFavorite{ProductID: f.ProductID}
	if p == nil {
		return out
	}
	out.Title = p.Title
	out.Price = p.Price
	out.Description = p.Description
	out.Category = p.Category
	out.Image = p.Image
	return out
}
