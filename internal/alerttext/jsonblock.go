package alerttext

import (
	"encoding/json"
	"strings"
)

// ExtractAround returns the balanced {...} block enclosing the first
// occurrence of key in text. It takes the nearest "{" at or before the key,
// falling back to the nearest "{" after it (the `Needs: {...}` form). Naive
// regex cannot handle nested braces, so the closing brace is found by
// tracking brace depth. Returns "" when the key is absent or no balanced
// block exists.
func ExtractAround(text, key string) string {
	idx := strings.Index(text, key)
	if idx < 0 {
		return ""
	}

	open := strings.LastIndex(text[:idx+1], "{")
	if open < 0 {
		open = strings.Index(text[idx:], "{")
		if open >= 0 {
			open += idx
		}
	}
	if open < 0 {
		return ""
	}

	return balancedFrom(text, open)
}

// balancedFrom returns the balanced block whose "{" sits at start, or "" when
// the braces never return to depth zero.
func balancedFrom(text string, start int) string {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// ExtractBlocks returns every balanced {...} block in text, non-overlapping,
// left to right. An unbalanced opening brace is skipped so that balanced
// blocks nested inside it are still found.
func ExtractBlocks(text string) []string {
	var blocks []string
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		block := balancedFrom(text, i)
		if block == "" {
			continue
		}
		blocks = append(blocks, block)
		i += len(block) - 1
	}
	return blocks
}

// FirstStructuredBlock decodes each balanced block in text and returns the
// first that parses to an object carrying an "items" or "others" key, falling
// back to the first valid object when none qualifies. A parse failure means
// "not a structured block", never an error.
func FirstStructuredBlock(text string) map[string]any {
	var fallback map[string]any
	for _, block := range ExtractBlocks(text) {
		var obj map[string]any
		if err := json.Unmarshal([]byte(block), &obj); err != nil {
			continue
		}
		if _, ok := obj["items"]; ok {
			return obj
		}
		if _, ok := obj["others"]; ok {
			return obj
		}
		if fallback == nil {
			fallback = obj
		}
	}
	return fallback
}
