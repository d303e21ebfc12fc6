package api

import "strings"

// AskRequest asks a cooking question about one recipe. The recipe may be
// supplied inline or by id.
type AskRequest struct {
	Question string                 `json:"question"`
	RecipeID string                 `json:"recipe_id"`
	Recipe   map[string]interface{} `json:"recipe"`
}

// IdeateRequest asks for recipe candidates from a free-text prompt.
type IdeateRequest struct {
	Prompt string `json:"prompt"`
}

// ExtractRequest is the JSON fallback for image extraction when the caller
// does not use a multipart upload.
type ExtractRequest struct {
	Image string `json:"image"`
}

// splitTags parses the comma-separated tag query parameter.
func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
