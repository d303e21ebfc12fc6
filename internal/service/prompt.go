package service

import (
	"fmt"
	"strings"

	"github.com/plateful/backend/internal/model"
)

// Prompt builders are deterministic templates over caller input. They carry
// no state, so the exact messages sent to the model can be reconstructed from
// the request alone. Each builder fails fast with ErrInvalidRequest when a
// required input is missing, before any model call is made.

const recipeShapeInstruction = `Each recipe must be a JSON object with these fields:
"title" (string), "highlight" (short string), "tag" (array of category strings),
"ingredients" (array of strings, one per item), "instructions" (array of strings, one per step),
"nutrition_info" (a single flat JSON object with exactly these keys: calories, fat, cholesterol,
sodium, carbs, fiber, sugar, protein). nutrition_info must be an object, NEVER an array.`

// BuildQuestionPrompt embeds the full recipe and the caller's question.
func BuildQuestionPrompt(recipe *model.Recipe, question string) ([]Message, error) {
	if recipe == nil {
		return nil, fmt.Errorf("%w: recipe is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is required", ErrInvalidRequest)
	}

	var sb strings.Builder
	sb.WriteString("Here is the recipe being discussed.\n\n")
	sb.WriteString("Title: " + recipe.Title + "\n")
	if len(recipe.Tags) > 0 {
		sb.WriteString("Tags: " + strings.Join(recipe.Tags, ", ") + "\n")
	}
	sb.WriteString("\nIngredients:\n")
	for _, ing := range recipe.Ingredients {
		sb.WriteString("- " + ing + "\n")
	}
	sb.WriteString("\nInstructions:\n")
	for i, step := range recipe.Instructions {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
	}
	sb.WriteString("\nQuestion: " + question)

	return []Message{
		TextMessage("system", `You are a professional chef answering questions about a specific recipe. `+
			`Answer in the context of the given recipe only. If you suggest changing an ingredient or a step, `+
			`explain how that change affects the rest of the recipe: later steps, cooking times, texture and nutrition.`),
		TextMessage("user", sb.String()),
	}, nil
}

// BuildIdeasPrompt asks for exactly three recipe candidates from a free-text
// cook's prompt.
func BuildIdeasPrompt(prompt string) ([]Message, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrInvalidRequest)
	}

	system := `You are a professional chef and nutritionist. Respond with a JSON array containing ` +
		`exactly three recipe candidates and nothing else.

` + recipeShapeInstruction + `

Fill in every nutrition_info key with your best estimate; never leave a value null or blank.`

	return []Message{
		TextMessage("system", system),
		TextMessage("user", "Generate recipe ideas for: "+prompt),
	}, nil
}

// BuildExtractionPrompt asks the model to read a structured recipe out of a
// photograph supplied as base64-encoded image bytes.
func BuildExtractionPrompt(imageB64 string) ([]Message, error) {
	if imageB64 == "" {
		return nil, fmt.Errorf("%w: image is required", ErrInvalidRequest)
	}

	system := `You extract structured recipes from photographs of dishes and recipe cards. ` +
		`Respond with a single JSON object and nothing else.

` + recipeShapeInstruction + `

Every nutrition_info key must be present with a value. Infer values you cannot read from the image; ` +
		`never output null or an empty string.`

	return []Message{
		TextMessage("system", system),
		ImageMessage("Extract the recipe from this image.", imageB64),
	}, nil
}
