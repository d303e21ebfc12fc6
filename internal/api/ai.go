package api

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/plateful/backend/internal/middleware"
	"github.com/plateful/backend/internal/model"
	"github.com/plateful/backend/internal/service"
)

// modelCallTimeout bounds every generative-model call.
const modelCallTimeout = 45 * time.Second

// AIHandler serves the three generative routes and the draft lifecycle.
type AIHandler struct {
	llm     service.Chatter
	recipes service.IRecipeService
	drafts  service.IDraftService
	media   service.IMediaService
}

// NewAIHandler creates a new AIHandler instance.
func NewAIHandler(llm service.Chatter, recipes service.IRecipeService, drafts service.IDraftService, media service.IMediaService) *AIHandler {
	return &AIHandler{llm: llm, recipes: recipes, drafts: drafts, media: media}
}

// RegisterRoutes registers the AI routes.
func (h *AIHandler) RegisterRoutes(router *gin.RouterGroup) {
	ai := router.Group("/ai")
	{
		ai.POST("/ask", h.Ask)
		ai.POST("/recipes", h.Ideate)
		ai.POST("/extract", h.Extract)
		ai.GET("/drafts/:id", h.GetDraft)
		ai.DELETE("/drafts/:id", h.DeleteDraft)
		ai.POST("/drafts/:id/save", h.SaveDraft)
	}
}

// Ask answers a cooking question in the context of one recipe.
func (h *AIHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), modelCallTimeout)
	defer cancel()

	recipe, err := h.resolveRecipe(ctx, c, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	messages, err := service.BuildQuestionPrompt(recipe, req.Question)
	if err != nil {
		_ = c.Error(err)
		return
	}

	answer, err := h.llm.Chat(ctx, messages, 0.7, 0)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

// Ideate generates three recipe candidates from a free-text prompt. Each
// valid candidate becomes a draft; invalid elements are reported per index
// without discarding their siblings.
func (h *AIHandler) Ideate(c *gin.Context) {
	var req IdeateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	messages, err := service.BuildIdeasPrompt(req.Prompt)
	if err != nil {
		_ = c.Error(err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), modelCallTimeout)
	defer cancel()

	text, err := h.llm.Chat(ctx, messages, 0.9, 0)
	if err != nil {
		_ = c.Error(err)
		return
	}

	candidates, failures, err := service.ParseCandidateList(text)
	if err != nil {
		_ = c.Error(err)
		return
	}

	userID := middleware.UserID(c)
	results := make([]gin.H, 0, len(candidates))
	for _, candidate := range candidates {
		draft, err := h.drafts.SaveDraft(ctx, userID, candidate)
		if err != nil {
			_ = c.Error(err)
			return
		}
		results = append(results, gin.H{"draft_id": draft.ID, "recipe": candidate})
	}

	if failures == nil {
		failures = []service.CandidateFailure{}
	}
	c.JSON(http.StatusOK, gin.H{"candidates": results, "failures": failures})
}

// Extract reads a structured recipe out of an uploaded photo. A parse
// failure is surfaced as "could not interpret" and nothing is persisted.
func (h *AIHandler) Extract(c *gin.Context) {
	raw, err := h.imagePayload(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	jpegBytes, imageB64, err := service.PrepareImage(raw)
	if err != nil {
		_ = c.Error(err)
		return
	}

	messages, err := service.BuildExtractionPrompt(imageB64)
	if err != nil {
		_ = c.Error(err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), modelCallTimeout)
	defer cancel()

	text, err := h.llm.Chat(ctx, messages, 0.2, 0)
	if err != nil {
		_ = c.Error(err)
		return
	}

	candidate, err := service.ParseCandidate(text)
	if err != nil {
		_ = c.Error(err)
		return
	}

	// The photo itself is worth keeping with the candidate; losing the
	// upload is not fatal to the extraction.
	if url, err := h.media.Upload(ctx, jpegBytes, service.ImageKey(jpegBytes)); err != nil {
		log.Printf("[AIHandler] image upload failed: %v", err)
	} else {
		candidate.Image = url
	}

	draft, err := h.drafts.SaveDraft(ctx, middleware.UserID(c), candidate)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"draft_id": draft.ID, "recipe": candidate})
}

// GetDraft returns a pending draft.
func (h *AIHandler) GetDraft(c *gin.Context) {
	draft, err := h.ownedDraft(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// DeleteDraft discards a pending draft.
func (h *AIHandler) DeleteDraft(c *gin.Context) {
	draft, err := h.ownedDraft(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.drafts.DeleteDraft(c.Request.Context(), draft.ID); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Draft deleted successfully", "id": draft.ID})
}

// SaveDraft promotes a confirmed draft into the persistent store.
func (h *AIHandler) SaveDraft(c *gin.Context) {
	draft, err := h.ownedDraft(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), draft.Candidate.ToRecipe(draft.UserID))
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.drafts.DeleteDraft(c.Request.Context(), draft.ID); err != nil {
		log.Printf("[AIHandler] failed to delete promoted draft %s: %v", draft.ID, err)
	}

	c.JSON(http.StatusCreated, gin.H{"recipe": recipe})
}

// ownedDraft fetches the draft from the path and checks it belongs to the
// caller; foreign drafts are indistinguishable from missing ones.
func (h *AIHandler) ownedDraft(c *gin.Context) (*service.RecipeDraft, error) {
	draft, err := h.drafts.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	if draft.UserID != middleware.UserID(c) {
		return nil, service.ErrNotFound
	}
	return draft, nil
}

// resolveRecipe loads the recipe referenced by an ask request, either from
// the store or from the inline candidate.
func (h *AIHandler) resolveRecipe(ctx context.Context, c *gin.Context, req *AskRequest) (*model.Recipe, error) {
	if req.RecipeID != "" {
		id, err := uuid.Parse(req.RecipeID)
		if err != nil {
			return nil, &service.ValidationError{Field: "recipe_id", Reason: "not a valid id"}
		}
		return h.recipes.Get(ctx, id)
	}
	if req.Recipe != nil {
		candidate, err := service.NormalizeCandidate(req.Recipe)
		if err != nil {
			return nil, err
		}
		return candidate.ToRecipe(middleware.UserID(c)), nil
	}
	return nil, nil
}

// imagePayload reads the uploaded photo from a multipart form or the JSON
// fallback body.
func (h *AIHandler) imagePayload(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("file"); err == nil {
		src, err := file.Open()
		if err != nil {
			return nil, &service.ValidationError{Field: "file", Reason: "unreadable upload"}
		}
		defer src.Close()
		return io.ReadAll(src)
	}

	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" {
		return nil, fmt.Errorf("%w: image is required", service.ErrInvalidRequest)
	}
	data, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		return nil, &service.ValidationError{Field: "image", Reason: "not valid base64"}
	}
	return data, nil
}
