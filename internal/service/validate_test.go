package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plateful/backend/internal/model"
)

func TestNormalizeCandidateMissingTitle(t *testing.T) {
	_, err := NormalizeCandidate(map[string]interface{}{
		"ingredients": []interface{}{"flour"},
	})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)

	_, err = NormalizeCandidate(nil)
	require.Error(t, err)
}

func TestNormalizeCandidateFillsNutritionKeys(t *testing.T) {
	c, err := NormalizeCandidate(map[string]interface{}{
		"title": "Oatmeal",
		"nutrition_info": map[string]interface{}{
			"calories": float64(250),
			"protein":  "6g",
		},
	})
	require.NoError(t, err)

	recipe := c.ToRecipe("user-1")
	for _, key := range model.NutritionKeys {
		assert.Contains(t, recipe.NutritionInfo, key)
		assert.NotEmpty(t, recipe.NutritionInfo[key])
	}
	assert.Equal(t, "250", recipe.NutritionInfo["calories"])
	assert.Equal(t, "6g", recipe.NutritionInfo["protein"])
	assert.Equal(t, model.NutritionUnknown, recipe.NutritionInfo["sodium"])
	assert.True(t, recipe.NutritionInfo.Complete())
}

func TestNormalizeCandidateUnwrapsNutritionArray(t *testing.T) {
	c, err := NormalizeCandidate(map[string]interface{}{
		"title": "Soup",
		"nutrition_info": []interface{}{
			map[string]interface{}{"calories": "120"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "120", c.NutritionInfo["calories"])
}

func TestNormalizeCandidateTagCoercion(t *testing.T) {
	c, err := NormalizeCandidate(map[string]interface{}{
		"title": "Toast",
		"tags":  []interface{}{"Breakfast", "Quick", "Breakfast"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Breakfast", "Quick"}, c.Tags)

	// A bare string is treated as a one-element list, and "tag" wins over
	// nothing.
	c, err = NormalizeCandidate(map[string]interface{}{
		"title": "Toast",
		"tag":   "Breakfast",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Breakfast"}, c.Tags)
}

func TestNormalizeCandidateMarksIncomplete(t *testing.T) {
	c, err := NormalizeCandidate(map[string]interface{}{
		"title":        "Mystery Dish",
		"ingredients":  []interface{}{},
		"instructions": []interface{}{"stir"},
	})
	require.NoError(t, err)
	assert.True(t, c.Incomplete)

	c, err = NormalizeCandidate(map[string]interface{}{
		"title":        "Full Dish",
		"ingredients":  []interface{}{"eggs"},
		"instructions": []interface{}{"scramble"},
	})
	require.NoError(t, err)
	assert.False(t, c.Incomplete)
}

func TestCandidateRoundTripKeepsExtras(t *testing.T) {
	c, err := NormalizeCandidate(map[string]interface{}{
		"title":        "Curry",
		"ingredients":  []interface{}{"rice"},
		"instructions": []interface{}{"cook"},
		"serving_size": "4 people",
	})
	require.NoError(t, err)
	require.NotNil(t, c.Extra)
	assert.Equal(t, "4 people", c.Extra["serving_size"])

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var back CandidateRecipe
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, c.Title, back.Title)
	assert.Equal(t, c.Ingredients, back.Ingredients)
	assert.Equal(t, "4 people", back.Extra["serving_size"])
	assert.False(t, back.Incomplete)
	for _, key := range model.NutritionKeys {
		assert.Contains(t, back.NutritionInfo, key)
	}
}

func TestEnsureNutritionKeysKeepsExtraNutrients(t *testing.T) {
	out := EnsureNutritionKeys(model.NutritionInfo{
		"calories":  "300",
		"vitamin_c": "20mg",
	})
	assert.Equal(t, "300", out["calories"])
	assert.Equal(t, "20mg", out["vitamin_c"])
	assert.Equal(t, model.NutritionUnknown, out["fiber"])
	assert.Len(t, out, len(model.NutritionKeys)+1)
}
