package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/plateful/backend/internal/database"
	"github.com/plateful/backend/internal/middleware"
	"github.com/plateful/backend/internal/model"
	"github.com/plateful/backend/internal/service"
)

// fakeChatter replays a canned completion and records what it was asked.
type fakeChatter struct {
	reply    string
	err      error
	messages [][]service.Message
	temps    []float64
}

func (f *fakeChatter) Chat(_ context.Context, messages []service.Message, temperature float64, _ int) (string, error) {
	f.messages = append(f.messages, messages)
	f.temps = append(f.temps, temperature)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

// fakeDrafts is an in-memory stand-in for the Redis draft cache.
type fakeDrafts struct {
	drafts map[string]*service.RecipeDraft
}

func newFakeDrafts() *fakeDrafts {
	return &fakeDrafts{drafts: make(map[string]*service.RecipeDraft)}
}

func (f *fakeDrafts) SaveDraft(_ context.Context, userID string, candidate *service.CandidateRecipe) (*service.RecipeDraft, error) {
	draft := &service.RecipeDraft{ID: uuid.NewString(), UserID: userID, Candidate: candidate}
	f.drafts[draft.ID] = draft
	return draft, nil
}

func (f *fakeDrafts) GetDraft(_ context.Context, id string) (*service.RecipeDraft, error) {
	draft, ok := f.drafts[id]
	if !ok {
		return nil, service.ErrNotFound
	}
	return draft, nil
}

func (f *fakeDrafts) DeleteDraft(_ context.Context, id string) error {
	delete(f.drafts, id)
	return nil
}

// fakeMedia records uploads without touching S3.
type fakeMedia struct {
	url     string
	err     error
	uploads int
}

func (f *fakeMedia) Upload(_ context.Context, _ []byte, _ string) (string, error) {
	f.uploads++
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type testEnv struct {
	engine    *gin.Engine
	recipes   *service.RecipeService
	favorites *service.FavoriteService
	chatter   *fakeChatter
	drafts    *fakeDrafts
	media     *fakeMedia
	db        *gorm.DB
}

// newTestEnv wires the handlers against SQLite and fakes, mirroring the
// production route setup.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	env := &testEnv{
		recipes:   service.NewRecipeService(db),
		favorites: service.NewFavoriteService(db),
		chatter:   &fakeChatter{},
		drafts:    newFakeDrafts(),
		media:     &fakeMedia{url: "https://media.example.com/recipe.jpg"},
		db:        db,
	}

	engine := gin.New()
	engine.Use(middleware.ErrorHandler())

	v1 := engine.Group("/api/v1")
	v1.Use(middleware.Identity())
	NewRecipeHandler(env.recipes, env.favorites).RegisterRoutes(v1)
	NewAIHandler(env.chatter, env.recipes, env.drafts, env.media).RegisterRoutes(v1)

	env.engine = engine
	return env
}

func (e *testEnv) do(t *testing.T, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func (e *testEnv) seed(t *testing.T, userID, title string, tags ...string) *model.Recipe {
	t.Helper()
	recipe, err := e.recipes.Create(context.Background(), &model.Recipe{
		UserID:       userID,
		Title:        title,
		Tags:         model.JSONBStringArray(tags),
		Ingredients:  model.JSONBStringArray{"ingredient"},
		Instructions: model.JSONBStringArray{"step"},
	})
	require.NoError(t, err)
	return recipe
}

func (e *testEnv) seedDraft(t *testing.T, userID, title string) *service.RecipeDraft {
	t.Helper()
	candidate, err := service.NormalizeCandidate(map[string]interface{}{
		"title":        title,
		"ingredients":  []interface{}{"thing"},
		"instructions": []interface{}{"do it"},
	})
	require.NoError(t, err)
	draft, err := e.drafts.SaveDraft(context.Background(), userID, candidate)
	require.NoError(t, err)
	return draft
}
