package ai

import "strings"

// ExtractJSONObject returns the substring between the first '{' and the last
// '}' of the text, with markdown code fences stripped first. Providers wrap
// JSON answers in fences and prose often enough that a strict parse of the
// whole response would reject valid output.
//
// Known limitation, kept intentionally: multiple top-level objects or
// unbalanced braces inside surrounding prose are not disambiguated; the
// widest brace span wins and the caller's JSON parse decides.
func ExtractJSONObject(text string) (string, bool) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}

	return cleaned[start : end+1], true
}
