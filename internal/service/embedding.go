package service

import (
	"strings"

	pgvector "github.com/pgvector/pgvector-go"
)

// GenerateEmbedding returns a small deterministic embedding for the given
// text, used to order Postgres search results by rough similarity. It counts
// length, letters and word count; no external model is involved.
func GenerateEmbedding(text string) pgvector.Vector {
	text = strings.ToLower(strings.TrimSpace(text))
	var letters float32
	for _, r := range text {
		if r >= 'a' && r <= 'z' {
			letters++
		}
	}
	words := float32(len(strings.Fields(text)))
	return pgvector.NewVector([]float32{float32(len(text)), letters, words})
}
