package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/plateful/backend/internal/model"
)

// CandidateRecipe is a normalized, Recipe-shaped value produced from
// untrusted model or caller input. Extra holds unknown fields passed through
// unmodified; Incomplete marks candidates whose ingredient or instruction
// lists came back empty.
type CandidateRecipe struct {
	Title            string
	Highlight        string
	Tags             []string
	Ingredients      []string
	Instructions     []string
	NutritionInfo    model.NutritionInfo
	Image            string
	SupportingImages []string
	Extra            map[string]interface{}
	Incomplete       bool
}

// knownFields are the candidate keys mapped onto Recipe; everything else is
// preserved in Extra.
var knownFields = map[string]bool{
	"title": true, "highlight": true, "tag": true, "tags": true,
	"ingredients": true, "instructions": true, "nutrition_info": true,
	"image": true, "supporting_images": true, "incomplete": true,
	"id": true, "user_id": true, "created_at": true, "updated_at": true,
}

// NormalizeCandidate validates and repairs a candidate structure. It is pure
// and total: malformed input yields a ValidationError, never a panic.
func NormalizeCandidate(raw map[string]interface{}) (*CandidateRecipe, error) {
	if raw == nil {
		return nil, &ValidationError{Field: "recipe", Reason: "missing"}
	}

	title := strings.TrimSpace(stringify(raw["title"]))
	if title == "" {
		return nil, &ValidationError{Field: "title", Reason: "missing"}
	}

	c := &CandidateRecipe{
		Title:            title,
		Highlight:        strings.TrimSpace(stringify(raw["highlight"])),
		Ingredients:      toStringSlice(raw["ingredients"]),
		Instructions:     toStringSlice(raw["instructions"]),
		Image:            strings.TrimSpace(stringify(raw["image"])),
		SupportingImages: toStringSlice(raw["supporting_images"]),
		NutritionInfo:    normalizeNutrition(raw["nutrition_info"]),
	}

	tags := raw["tag"]
	if tags == nil {
		tags = raw["tags"]
	}
	c.Tags = dedupe(toStringSlice(tags))

	// Empty lists are legitimate extraction results, but the candidate is
	// not complete until both are populated.
	c.Incomplete = len(c.Ingredients) == 0 || len(c.Instructions) == 0

	for k, v := range raw {
		if knownFields[k] {
			continue
		}
		if c.Extra == nil {
			c.Extra = make(map[string]interface{})
		}
		c.Extra[k] = v
	}

	return c, nil
}

// EnsureNutritionKeys fills every fixed nutrition key, substituting the
// unknown placeholder for absent or blank values.
func EnsureNutritionKeys(n model.NutritionInfo) model.NutritionInfo {
	out := make(model.NutritionInfo, len(model.NutritionKeys))
	for _, key := range model.NutritionKeys {
		if v, ok := n[key]; ok && v != "" {
			out[key] = v
		} else {
			out[key] = model.NutritionUnknown
		}
	}
	// Nonstandard nutrient names round-trip unchanged.
	for k, v := range n {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

// ToRecipe converts the candidate into a Recipe owned by userID.
func (c *CandidateRecipe) ToRecipe(userID string) *model.Recipe {
	return &model.Recipe{
		UserID:           userID,
		Title:            c.Title,
		Highlight:        c.Highlight,
		Tags:             model.JSONBStringArray(c.Tags),
		Ingredients:      model.JSONBStringArray(c.Ingredients),
		Instructions:     model.JSONBStringArray(c.Instructions),
		NutritionInfo:    EnsureNutritionKeys(c.NutritionInfo),
		Image:            c.Image,
		SupportingImages: model.JSONBStringArray(c.SupportingImages),
	}
}

// MarshalJSON merges the normalized fields with any passed-through extras so
// unknown fields survive a round trip.
func (c *CandidateRecipe) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(c.Extra)+8)
	for k, v := range c.Extra {
		out[k] = v
	}
	out["title"] = c.Title
	out["highlight"] = c.Highlight
	out["tag"] = emptyIfNil(c.Tags)
	out["ingredients"] = emptyIfNil(c.Ingredients)
	out["instructions"] = emptyIfNil(c.Instructions)
	out["nutrition_info"] = EnsureNutritionKeys(c.NutritionInfo)
	out["incomplete"] = c.Incomplete
	if c.Image != "" {
		out["image"] = c.Image
	}
	if len(c.SupportingImages) > 0 {
		out["supporting_images"] = c.SupportingImages
	}
	return json.Marshal(out)
}

// UnmarshalJSON re-normalizes a previously marshaled candidate, so drafts
// survive the Redis round trip.
func (c *CandidateRecipe) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	norm, err := NormalizeCandidate(raw)
	if err != nil {
		return err
	}
	*c = *norm
	return nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// normalizeNutrition repairs the known model-output inconsistency of wrapping
// the nutrition object in a one-element array.
func normalizeNutrition(v interface{}) model.NutritionInfo {
	switch t := v.(type) {
	case []interface{}:
		if len(t) > 0 {
			if m, ok := t[0].(map[string]interface{}); ok {
				return nutritionFromMap(m)
			}
		}
		return model.NutritionInfo{}
	case map[string]interface{}:
		return nutritionFromMap(t)
	default:
		return model.NutritionInfo{}
	}
}

func nutritionFromMap(m map[string]interface{}) model.NutritionInfo {
	out := make(model.NutritionInfo, len(m))
	for k, v := range m {
		out[k] = stringify(v)
	}
	return out
}

func toStringSlice(v interface{}) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := stringify(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return t
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return []string{t}
	default:
		if s := stringify(t); s != "" {
			return []string{s}
		}
		return nil
	}
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}
