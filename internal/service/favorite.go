package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plateful/backend/internal/model"
)

// FavoriteService reconciles the (user, recipe) favorite relation. The
// schema carries a unique index on the pair, so concurrent favorite calls
// cannot leave two rows behind.
type FavoriteService struct {
	db *gorm.DB
}

// NewFavoriteService creates a new FavoriteService instance.
func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// Favorite inserts the relation. A second call for the same pair is a no-op
// success: the insert upserts against the pair index.
func (s *FavoriteService) Favorite(ctx context.Context, userID string, recipeID uuid.UUID) error {
	fav := model.RecipeFavorite{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		UserID:    userID,
		RecipeID:  recipeID,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoNothing: true,
	}).Create(&fav).Error
	return storeErr("favorite", err)
}

// Unfavorite deletes the relation if present; absence is not an error.
func (s *FavoriteService) Unfavorite(ctx context.Context, userID string, recipeID uuid.UUID) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&model.RecipeFavorite{}).Error
	return storeErr("unfavorite", err)
}

// IsFavorited reports whether the relation exists. A missing relation is
// false, not an error.
func (s *FavoriteService) IsFavorited(ctx context.Context, userID string, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.RecipeFavorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, storeErr("is_favorited", err)
	}
	return count > 0, nil
}

// ListForUser joins the user's favorite relations to their recipes, applying
// the same search and tag semantics as the recipe listing.
func (s *FavoriteService) ListForUser(ctx context.Context, userID, search string, tags []string) ([]*model.Recipe, error) {
	query := s.db.WithContext(ctx).Model(&model.Recipe{}).
		Joins("JOIN recipe_favorites ON recipe_favorites.recipe_id = recipes.id").
		Where("recipe_favorites.user_id = ?", userID)

	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(recipes.title) LIKE ?", like)
	}

	var recipes []model.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, storeErr("list_favorites", err)
	}

	return filterByTags(recipes, tags), nil
}
