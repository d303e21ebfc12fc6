package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/plateful/backend/internal/model"
)

// Chatter is the generative-model boundary: role-tagged messages in, one
// free-text completion out.
type Chatter interface {
	Chat(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error)
}

// IRecipeService defines the store adapter for recipes.
type IRecipeService interface {
	Create(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Recipe, error)
	ListByOwner(ctx context.Context, userID, search string, tags []string) ([]*model.Recipe, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*model.Recipe, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// IFavoriteService defines the favorites reconciler.
type IFavoriteService interface {
	Favorite(ctx context.Context, userID string, recipeID uuid.UUID) error
	Unfavorite(ctx context.Context, userID string, recipeID uuid.UUID) error
	IsFavorited(ctx context.Context, userID string, recipeID uuid.UUID) (bool, error)
	ListForUser(ctx context.Context, userID, search string, tags []string) ([]*model.Recipe, error)
}

// IDraftService defines the candidate-recipe draft cache.
type IDraftService interface {
	SaveDraft(ctx context.Context, userID string, candidate *CandidateRecipe) (*RecipeDraft, error)
	GetDraft(ctx context.Context, id string) (*RecipeDraft, error)
	DeleteDraft(ctx context.Context, id string) error
}

// IMediaService defines the media storage boundary.
type IMediaService interface {
	Upload(ctx context.Context, data []byte, key string) (string, error)
}
