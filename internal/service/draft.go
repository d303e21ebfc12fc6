package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const draftTTL = 24 * time.Hour

// RecipeDraft is an AI-produced candidate parked in Redis until the caller
// confirms or discards it. Promotion to the persistent store happens through
// the recipe service.
type RecipeDraft struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	CreatedAt time.Time        `json:"created_at"`
	Candidate *CandidateRecipe `json:"candidate"`
}

// DraftService stores candidate recipes awaiting caller confirmation.
type DraftService struct {
	redis *redis.Client
}

// NewDraftService creates a new DraftService instance.
func NewDraftService(client *redis.Client) *DraftService {
	return &DraftService{redis: client}
}

func draftKey(id string) string {
	return fmt.Sprintf("recipe:draft:%s", id)
}

// SaveDraft assigns the draft an id and stores it with a 24h TTL.
func (s *DraftService) SaveDraft(ctx context.Context, userID string, candidate *CandidateRecipe) (*RecipeDraft, error) {
	draft := &RecipeDraft{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: time.Now(),
		Candidate: candidate,
	}

	data, err := json.Marshal(draft)
	if err != nil {
		return nil, storeErr("save_draft", fmt.Errorf("failed to marshal draft: %w", err))
	}

	if err := s.redis.Set(ctx, draftKey(draft.ID), data, draftTTL).Err(); err != nil {
		return nil, storeErr("save_draft", err)
	}
	return draft, nil
}

// GetDraft retrieves a draft by id.
func (s *DraftService) GetDraft(ctx context.Context, id string) (*RecipeDraft, error) {
	data, err := s.redis.Get(ctx, draftKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, storeErr("get_draft", err)
	}

	var draft RecipeDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, storeErr("get_draft", fmt.Errorf("failed to unmarshal draft: %w", err))
	}
	return &draft, nil
}

// DeleteDraft removes a draft. Deleting an absent draft is a no-op.
func (s *DraftService) DeleteDraft(ctx context.Context, id string) error {
	return storeErr("delete_draft", s.redis.Del(ctx, draftKey(id)).Err())
}
