package reply

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		wantAnswer      string
		wantSuggestions []string
	}{
		{
			name:            "answer with three suggestions",
			input:           "LeadQ scores leads automatically.###REC###What is the pricing?|How does Lead Scoring work?|Connect my CRM",
			wantAnswer:      "LeadQ scores leads automatically.",
			wantSuggestions: []string{"What is the pricing?", "How does Lead Scoring work?", "Connect my CRM"},
		},
		{
			name:            "missing delimiter yields nil suggestions",
			input:           "Just an answer with no tail.",
			wantAnswer:      "Just an answer with no tail.",
			wantSuggestions: nil,
		},
		{
			name:            "whitespace around segments is trimmed",
			input:           "  Answer text \n###REC### first | second |  third  ",
			wantAnswer:      "Answer text",
			wantSuggestions: []string{"first", "second", "third"},
		},
		{
			name:            "empty segments are discarded",
			input:           "Answer###REC###one|||two|",
			wantAnswer:      "Answer",
			wantSuggestions: []string{"one", "two"},
		},
		{
			name:            "extra segments are capped at three",
			input:           "Answer###REC###a|b|c|d|e",
			wantAnswer:      "Answer",
			wantSuggestions: []string{"a", "b", "c"},
		},
		{
			name:            "split happens on first delimiter only",
			input:           "Answer###REC###one###REC###two|three",
			wantAnswer:      "Answer",
			wantSuggestions: []string{"one###REC###two", "three"},
		},
		{
			name:            "delimiter with empty tail",
			input:           "Answer###REC###",
			wantAnswer:      "Answer",
			wantSuggestions: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer, suggestions := Parse(tt.input)

			if answer != tt.wantAnswer {
				t.Errorf("answer = %q, want %q", answer, tt.wantAnswer)
			}
			if len(suggestions) != len(tt.wantSuggestions) {
				t.Fatalf("suggestions = %v, want %v", suggestions, tt.wantSuggestions)
			}
			for i := range suggestions {
				if suggestions[i] != tt.wantSuggestions[i] {
					t.Errorf("suggestion[%d] = %q, want %q", i, suggestions[i], tt.wantSuggestions[i])
				}
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	answer := "Our Professional tier is $99/mo."
	suggestions := []string{"View Pricing Plans", "Compare Features", "Request Demo"}

	gotAnswer, gotSuggestions := Parse(answer + Delimiter + strings.Join(suggestions, "|"))

	if gotAnswer != answer {
		t.Errorf("answer = %q, want %q", gotAnswer, answer)
	}
	if len(gotSuggestions) != len(suggestions) {
		t.Fatalf("suggestions = %v, want %v", gotSuggestions, suggestions)
	}
	for i := range suggestions {
		if gotSuggestions[i] != suggestions[i] {
			t.Errorf("suggestion[%d] = %q, want %q", i, gotSuggestions[i], suggestions[i])
		}
	}
}
