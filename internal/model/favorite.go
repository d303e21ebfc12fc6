package model

import (
	"time"

	"github.com/google/uuid"
)

// RecipeFavorite is the relation row between a user and a recipe. The
// composite unique index guarantees at most one row per pair.
type RecipeFavorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `gorm:"size:255;not null;uniqueIndex:idx_favorites_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_recipe;index" json:"recipe_id"`
}

func (RecipeFavorite) TableName() string {
	return "recipe_favorites"
}
