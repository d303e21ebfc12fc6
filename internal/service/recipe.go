package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plateful/backend/internal/model"
)

// RecipeService is the store adapter for the recipes relation.
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance.
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// Create persists a new recipe. The store assigns the id and creation time;
// every nutrition key is present on the stored row.
func (s *RecipeService) Create(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error) {
	if strings.TrimSpace(recipe.Title) == "" {
		return nil, &ValidationError{Field: "title", Reason: "missing"}
	}
	if recipe.UserID == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "missing"}
	}

	recipe.ID = uuid.New()
	recipe.CreatedAt = time.Now()
	recipe.NutritionInfo = EnsureNutritionKeys(recipe.NutritionInfo)
	recipe.Embedding = GenerateEmbedding(recipe.Title + " " + recipe.Highlight)

	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, storeErr("create", err)
	}
	return recipe, nil
}

// Get retrieves a recipe by id.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get", err)
	}
	return &recipe, nil
}

// ListByOwner lists a user's recipes. search is a case-insensitive substring
// match on the title; tags is a set-overlap filter. Both are optional and
// compose with AND.
func (s *RecipeService) ListByOwner(ctx context.Context, userID, search string, tags []string) ([]*model.Recipe, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)

	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ?", like)
		if s.db.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{GenerateEmbedding(search)}},
			})
		}
	}

	var recipes []model.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, storeErr("list", err)
	}

	return filterByTags(recipes, tags), nil
}

// immutableFields may not be touched by a partial update.
var immutableFields = map[string]bool{"id": true, "user_id": true, "created_at": true}

// Update applies a partial merge: only the supplied fields are written.
func (s *RecipeService) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Recipe, error) {
	for name := range fields {
		if immutableFields[name] {
			return nil, &ValidationError{Field: name, Reason: "immutable"}
		}
	}

	updates, err := toColumnUpdates(fields)
	if err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		result := s.db.WithContext(ctx).Model(&model.Recipe{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, storeErr("update", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}

	return s.Get(ctx, id)
}

// Delete removes the recipe and every favorite relation referencing it in
// one transaction, so a relation never outlives its recipe.
func (s *RecipeService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&model.RecipeFavorite{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Recipe{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return storeErr("delete", err)
}

// toColumnUpdates maps candidate-shaped field names onto typed column values.
func toColumnUpdates(fields map[string]interface{}) (map[string]interface{}, error) {
	updates := make(map[string]interface{}, len(fields))
	for name, value := range fields {
		switch name {
		case "title":
			title := strings.TrimSpace(stringify(value))
			if title == "" {
				return nil, &ValidationError{Field: "title", Reason: "missing"}
			}
			updates["title"] = title
		case "highlight", "image":
			updates[name] = stringify(value)
		case "tag", "tags":
			updates["tags"] = model.JSONBStringArray(dedupe(toStringSlice(value)))
		case "ingredients", "instructions", "supporting_images":
			updates[name] = model.JSONBStringArray(toStringSlice(value))
		case "nutrition_info":
			updates["nutrition_info"] = EnsureNutritionKeys(normalizeNutrition(value))
		default:
			// Unknown fields have no column; silently skipping them would
			// lose data on the round trip, so reject.
			return nil, &ValidationError{Field: name, Reason: "unknown field"}
		}
	}
	return updates, nil
}

func filterByTags(recipes []model.Recipe, tags []string) []*model.Recipe {
	result := make([]*model.Recipe, 0, len(recipes))
	for i := range recipes {
		if len(tags) > 0 && !recipes[i].HasTag(tags) {
			continue
		}
		result = append(result, &recipes[i])
	}
	return result
}
