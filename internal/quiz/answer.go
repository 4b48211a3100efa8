package quiz

import (
	"strconv"
	"strings"
)

// CheckLocal grades a multiple_choice or true_false answer by normalized
// comparison. Short answers cannot be graded locally; callers use the
// Grader for those.
//
// Normalization rules:
// - Whitespace is trimmed
// - Comparison is case-insensitive
// - For multiple choice: matches against the choice text or index (1-4)
// - For true/false: "t", "f", "yes", "no" are accepted aliases
func CheckLocal(given string, q Question) bool {
	given = strings.TrimSpace(given)
	if given == "" {
		return false
	}

	switch q.Type {
	case TypeMultipleChoice:
		return checkMultipleChoice(given, q)
	case TypeTrueFalse:
		return normalizeBool(given) == normalizeBool(q.Answer)
	default:
		return false
	}
}

// checkMultipleChoice checks the learner's answer against MC choices.
func checkMultipleChoice(given string, q Question) bool {
	// Try matching by index (1-4).
	if idx, err := strconv.Atoi(given); err == nil && idx >= 1 && idx <= len(q.Choices) {
		return strings.EqualFold(
			strings.TrimSpace(q.Choices[idx-1]),
			strings.TrimSpace(q.Answer),
		)
	}

	// Match by text (case-insensitive).
	return strings.EqualFold(given, strings.TrimSpace(q.Answer))
}

// normalizeBool maps true/false spellings to a canonical form.
// Unrecognized input normalizes to "" which never matches.
func normalizeBool(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y":
		return "true"
	case "false", "f", "no", "n":
		return "false"
	}
	return ""
}
