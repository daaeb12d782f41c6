package analysis

import (
	"encoding/json"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultRecommendation is returned when no structured data could be
	// recovered from the model response.
	DefaultRecommendation = "Please consult with a professional for proper evaluation."

	maxRawCommentLength = 500
)

// ExtractStructured recovers a field mapping from raw model output. It
// tries a direct JSON parse, then the first brace-delimited span, and
// finally degrades to a mapping carrying the (truncated) raw text as
// comments. Truncation counts runes so multibyte output is never split
// mid-character. It never fails.
func ExtractStructured(raw string) map[string]any {
	var direct map[string]any
	if err := json.Unmarshal([]byte(raw), &direct); err == nil && direct != nil {
		return direct
	}

	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start >= 0 && end > start {
		var embedded map[string]any
		if err := json.Unmarshal([]byte(raw[start:end+1]), &embedded); err == nil && embedded != nil {
			return embedded
		}
	}

	comments := raw
	if utf8.RuneCountInString(comments) > maxRawCommentLength {
		runes := []rune(comments)
		comments = string(runes[:maxRawCommentLength]) + "..."
	}
	return map[string]any{
		"Comments":        comments,
		"Recommendations": DefaultRecommendation,
	}
}

// ParseTreatmentList splits a comma-separated treatment string into a
// canonical itemized form: trimmed, empty segments dropped, each segment
// title-cased. The transform is idempotent; the model's own casing
// compliance is irrelevant.
func ParseTreatmentList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		result = append(result, titleCaseWords(trimmed))
	}
	return result
}

// titleCaseWords upper-cases the first letter of each word and leaves the
// rest untouched, so already title-cased input (including acronyms like
// "PRP") passes through unchanged.
func titleCaseWords(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
