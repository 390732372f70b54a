package domain

import "strings"

const (
	customPrefix    = "Custom: "
	customSeparator = " - "
)

// EncodeCustomAnswer folds an ad-hoc question and its answer into a single answer string.
// Neither part is escaped; a question containing " - " cannot be split back unambiguously.
func EncodeCustomAnswer(questionText, answer string) string {
	return customPrefix + questionText + customSeparator + answer
}

// DecodeCustomAnswer splits an encoded custom answer on the prefix and the first separator.
func DecodeCustomAnswer(encoded string) (questionText, answer string, ok bool) {
	rest, found := strings.CutPrefix(encoded, customPrefix)
	if !found {
		return "", "", false
	}
	questionText, answer, found = strings.Cut(rest, customSeparator)
	if !found {
		return "", "", false
	}
	return questionText, answer, true
}
