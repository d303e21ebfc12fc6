package service

import (
	"encoding/json"
	"fmt"
)

// The model may wrap its JSON payload in conversational text. firstJSONValue
// extracts the first balanced JSON value so the rest of the pipeline only
// ever sees clean JSON.

// CandidateFailure records why one element of an ideation response was
// rejected. Other elements are unaffected.
type CandidateFailure struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// firstJSONValue returns the shortest substring starting at the first '{' or
// '[' whose brackets are fully balanced. String literals and escapes are
// honored so braces inside values do not confuse the scan.
func firstJSONValue(text string) (string, error) {
	start := -1
	for i, r := range text {
		if r == '{' || r == '[' {
			start = i
			break
		}
	}
	if start == -1 {
		return "", fmt.Errorf("no JSON value found")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced JSON value")
}

// ParseCandidate extracts a single recipe object from raw model text and
// routes it through the validator. A parse failure is terminal for the
// request; nothing is retried or persisted.
func ParseCandidate(text string) (*CandidateRecipe, error) {
	raw, err := firstJSONValue(text)
	if err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, &ParseError{Reason: "malformed JSON object", Err: err}
	}

	return NormalizeCandidate(obj)
}

// ParseCandidateList extracts a recipe array from raw model text. Elements
// are validated independently: a bad element lands in the failure list
// without invalidating its siblings.
func ParseCandidateList(text string) ([]*CandidateRecipe, []CandidateFailure, error) {
	raw, err := firstJSONValue(text)
	if err != nil {
		return nil, nil, &ParseError{Reason: err.Error()}
	}

	var items []interface{}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, nil, &ParseError{Reason: "malformed JSON array", Err: err}
	}

	var candidates []*CandidateRecipe
	var failures []CandidateFailure
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			failures = append(failures, CandidateFailure{Index: i, Reason: "not a JSON object"})
			continue
		}
		c, err := NormalizeCandidate(obj)
		if err != nil {
			failures = append(failures, CandidateFailure{Index: i, Reason: err.Error()})
			continue
		}
		candidates = append(candidates, c)
	}

	return candidates, failures, nil
}
