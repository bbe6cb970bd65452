// internal/models/client.go
package models

import "github.com/google/uuid"

// Unique index names, shared with the constraint classifier.
const (
	ClientEmailIndex         = "idx_clients_email"
	FavoriteClientProductIdx = "idx_favorites_client_product"
)

type Client struct {
	BaseModel
	Email string `json:"email" gorm:"uniqueIndex:idx_clients_email;size:255;not null"`
	Name  string `json:"name" gorm:"size:255;not null"`

	// Relationships
	Favorites []Favorite `json:"-" gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
}

// ClientWithFavorites is the read model returned by the API: the stored
// client plus its favorites enriched with live catalog data.
type ClientWithFavorites struct {
	ID        uuid.UUID          `json:"id"`
	Email     string             `json:"email"`
	Name      string             `json:"name"`
	Favorites []EnrichedFavorite `json:"favorites"`
}

func NewClientWithFavorites(c *Client, favorites []EnrichedFavorite) ClientWithFavorites {
	if favorites == nil {
		favorites = []EnrichedFavorite{}
	}
	return ClientWithFavorites{
		ID:        c.ID,
		Email:     c.Email,
		Name:      c.Name,
		Favorites: favorites,
	}
}
