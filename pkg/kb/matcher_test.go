package kb

import (
	"testing"
)

func TestMatchWordBoundary(t *testing.T) {
	matcher := NewMatcher(DefaultEntries())

	tests := []struct {
		name      string
		text      string
		wantTopic string
		wantHit   bool
	}{
		{
			name:      "pricing keyword as whole word",
			text:      "how much does it cost?",
			wantTopic: "pricing",
			wantHit:   true,
		},
		{
			name:      "plan keyword",
			text:      "which plan should i pick",
			wantTopic: "pricing",
			wantHit:   true,
		},
		{
			name:    "keyword only as substring does not match",
			text:    "we are planning a rollout",
			wantHit: false,
		},
		{
			name:    "billing does not trigger bill",
			text:    "where is the billingham office",
			wantHit: false,
		},
		{
			name:      "support keyword",
			text:      "i found a bug in the dashboard",
			wantTopic: "support",
			wantHit:   true,
		},
		{
			name:      "integration keyword",
			text:      "can i connect my crm",
			wantTopic: "integration",
			wantHit:   true,
		},
		{
			name:      "multi-word keyword",
			text:      "who are you exactly",
			wantTopic: "about",
			wantHit:   true,
		},
		{
			name:      "greeting",
			text:      "hi there",
			wantTopic: "greeting",
			wantHit:   true,
		},
		{
			name:    "no keyword at all",
			text:    "does it forecast inventory",
			wantHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := matcher.Match(tt.text)

			if tt.wantHit && entry == nil {
				t.Fatalf("Match(%q) = nil, want topic %q", tt.text, tt.wantTopic)
			}
			if !tt.wantHit && entry != nil {
				t.Fatalf("Match(%q) = %q, want no match", tt.text, entry.Topic)
			}
			if tt.wantHit && entry.Topic != tt.wantTopic {
				t.Errorf("Match(%q) topic = %q, want %q", tt.text, entry.Topic, tt.wantTopic)
			}
		})
	}
}

func TestMatchDeclarationOrderWins(t *testing.T) {
	entries := []Entry{
		{Topic: "first", Keywords: []string{"overlap"}},
		{Topic: "second", Keywords: []string{"overlap", "unique"}},
	}
	matcher := NewMatcher(entries)

	if entry := matcher.Match("some overlap here"); entry == nil || entry.Topic != "first" {
		t.Errorf("overlapping keyword should resolve to first declared entry, got %+v", entry)
	}
	if entry := matcher.Match("something unique"); entry == nil || entry.Topic != "second" {
		t.Errorf("unique keyword should resolve to second entry, got %+v", entry)
	}
}
