package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/plateful/backend/internal/database"
	"github.com/plateful/backend/internal/model"
)

// newTestDB opens an isolated in-memory SQLite database with the schema
// migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seedRecipe(t *testing.T, svc *RecipeService, userID, title string, tags ...string) *model.Recipe {
	t.Helper()
	recipe, err := svc.Create(context.Background(), &model.Recipe{
		UserID:       userID,
		Title:        title,
		Tags:         model.JSONBStringArray(tags),
		Ingredients:  model.JSONBStringArray{"ingredient"},
		Instructions: model.JSONBStringArray{"step"},
	})
	require.NoError(t, err)
	return recipe
}

func TestRecipeCreateAssignsIdentityAndNutrition(t *testing.T) {
	svc := NewRecipeService(newTestDB(t))

	recipe, err := svc.Create(context.Background(), &model.Recipe{
		UserID: "user-1",
		Title:  "Pancakes",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, recipe.ID)
	assert.False(t, recipe.CreatedAt.IsZero())
	assert.True(t, recipe.NutritionInfo.Complete())

	_, err = svc.Create(context.Background(), &model.Recipe{UserID: "user-1"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = svc.Create(context.Background(), &model.Recipe{Title: "Orphan"})
	require.ErrorAs(t, err, &verr)
}

func TestRecipeGetNotFound(t *testing.T) {
	svc := NewRecipeService(newTestDB(t))

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecipeListByOwnerSearch(t *testing.T) {
	svc := NewRecipeService(newTestDB(t))
	ctx := context.Background()

	seedRecipe(t, svc, "user-1", "French Toast", "Breakfast")
	seedRecipe(t, svc, "user-1", "Avocado Toast", "Breakfast", "Snack")
	seedRecipe(t, svc, "user-1", "Beef Stew", "Dinner")
	seedRecipe(t, svc, "user-2", "Cheese Toastie")

	recipes, err := svc.ListByOwner(ctx, "user-1", "TOAST", nil)
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	for _, r := range recipes {
		assert.Equal(t, "user-1", r.UserID)
	}

	recipes, err = svc.ListByOwner(ctx, "user-1", "", []string{"Snack", "Dinner"})
	require.NoError(t, err)
	require.Len(t, recipes, 2)

	recipes, err = svc.ListByOwner(ctx, "user-1", "toast", []string{"Snack"})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Avocado Toast", recipes[0].Title)
}

func TestRecipeUpdatePartialMerge(t *testing.T) {
	svc := NewRecipeService(newTestDB(t))
	ctx := context.Background()

	recipe := seedRecipe(t, svc, "user-1", "Plain Rice", "Side")

	updated, err := svc.Update(ctx, recipe.ID, map[string]interface{}{
		"title": "Garlic Rice",
		"tags":  []interface{}{"Side", "Side", "Dinner"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Garlic Rice", updated.Title)
	assert.Equal(t, model.JSONBStringArray{"Side", "Dinner"}, updated.Tags)
	// Untouched fields survive the merge.
	assert.Equal(t, model.JSONBStringArray{"ingredient"}, updated.Ingredients)
	assert.Equal(t, recipe.UserID, updated.UserID)

	var verr *ValidationError
	_, err = svc.Update(ctx, recipe.ID, map[string]interface{}{"user_id": "intruder"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "user_id", verr.Field)

	_, err = svc.Update(ctx, recipe.ID, map[string]interface{}{"color": "blue"})
	require.ErrorAs(t, err, &verr)

	_, err = svc.Update(ctx, recipe.ID, map[string]interface{}{"title": "  "})
	require.ErrorAs(t, err, &verr)

	_, err = svc.Update(ctx, uuid.New(), map[string]interface{}{"title": "Ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecipeUpdateNutritionRepair(t *testing.T) {
	svc := NewRecipeService(newTestDB(t))

	recipe := seedRecipe(t, svc, "user-1", "Salad")
	updated, err := svc.Update(context.Background(), recipe.ID, map[string]interface{}{
		"nutrition_info": []interface{}{
			map[string]interface{}{"calories": float64(90)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "90", updated.NutritionInfo["calories"])
	assert.True(t, updated.NutritionInfo.Complete())
}

func TestRecipeDeleteCascadesFavorites(t *testing.T) {
	db := newTestDB(t)
	recipes := NewRecipeService(db)
	favorites := NewFavoriteService(db)
	ctx := context.Background()

	recipe := seedRecipe(t, recipes, "user-1", "Shared Dish")
	require.NoError(t, favorites.Favorite(ctx, "user-1", recipe.ID))
	require.NoError(t, favorites.Favorite(ctx, "user-2", recipe.ID))

	require.NoError(t, recipes.Delete(ctx, recipe.ID))

	_, err := recipes.Get(ctx, recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&model.RecipeFavorite{}).Where("recipe_id = ?", recipe.ID).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, recipes.Delete(ctx, recipe.ID), ErrNotFound)
}
