package kb

import (
	"regexp"
)

// Matcher resolves normalized query text against the static entry set.
// Keywords match on word boundaries only, so "planning" does not trigger
// the "plan" pricing keyword.
type Matcher struct {
	entries  []Entry
	patterns [][]*regexp.Regexp
}

func NewMatcher(entries []Entry) *Matcher {
	patterns := make([][]*regexp.Regexp, len(entries))
	for i, entry := range entries {
		compiled := make([]*regexp.Regexp, len(entry.Keywords))
		for j, keyword := range entry.Keywords {
			compiled[j] = regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
		}
		patterns[i] = compiled
	}
	return &Matcher{
		entries:  entries,
		patterns: patterns,
	}
}

// Match returns the first entry, in declaration order, with any keyword
// present as a whole word in the normalized text. Returns nil when no
// entry matches; there is no ranking among candidates.
func (m *Matcher) Match(normalizedText string) *Entry {
	for i := range m.entries {
		for _, pattern := range m.patterns[i] {
			if pattern.MatchString(normalizedText) {
				return &m.entries[i]
			}
		}
	}
	return nil
}
