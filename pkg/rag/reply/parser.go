package reply

import (
	"strings"
)

// Delimiter separates the answer body from the trailing follow-up
// suggestions in generated text.
const Delimiter = "###REC###"

// MaxSuggestions caps how many follow-up suggestions survive parsing.
const MaxSuggestions = 3

// Parse splits fully accumulated generated text into the user-facing
// answer and its follow-up suggestions. The split happens on the first
// delimiter occurrence only; the right side is pipe-separated. When the
// delimiter is absent the whole text is the answer and suggestions are
// nil, leaving the default policy to the caller.
//
// Parse must only run on complete text. The delimiter may arrive split
// across stream chunks, so partial chunks are never parseable.
func Parse(fullText string) (string, []string) {
	before, after, found := strings.Cut(fullText, Delimiter)
	answer := strings.TrimSpace(before)
	if !found {
		return answer, nil
	}

	var suggestions []string
	for _, segment := range strings.Split(after, "|") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		suggestions = append(suggestions, segment)
		if len(suggestions) == MaxSuggestions {
			break
		}
	}
	return answer, suggestions
}
