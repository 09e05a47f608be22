package response

import (
	"strings"

	"leadq-chatbot-be/pkg/llm"
	"leadq-chatbot-be/pkg/rag/reply"
)

// delimiterGuard forwards stream tokens to the caller while making sure
// the suggestion tail never leaks into visible content. The delimiter may
// arrive split across tokens, so any trailing bytes that could still grow
// into the delimiter are held back until the next token decides.
type delimiterGuard struct {
	emit    llm.StreamCallback
	pending string
	done    bool
}

func newDelimiterGuard(emit llm.StreamCallback) *delimiterGuard {
	return &delimiterGuard{emit: emit}
}

func (g *delimiterGuard) write(token string) error {
	if g.done {
		return nil
	}
	g.pending += token

	if idx := strings.Index(g.pending, reply.Delimiter); idx >= 0 {
		out := g.pending[:idx]
		g.pending = ""
		g.done = true
		if out == "" {
			return nil
		}
		return g.emit(out)
	}

	hold := partialDelimiterSuffix(g.pending)
	out := g.pending[:len(g.pending)-hold]
	g.pending = g.pending[len(g.pending)-hold:]
	if out == "" {
		return nil
	}
	return g.emit(out)
}

// flush releases held-back text once the stream is known to be complete
// and no delimiter ever materialized.
func (g *delimiterGuard) flush() error {
	if g.done || g.pending == "" {
		return nil
	}
	out := g.pending
	g.pending = ""
	return g.emit(out)
}

// partialDelimiterSuffix returns the length of the longest suffix of s
// that is a proper prefix of the delimiter.
func partialDelimiterSuffix(s string) int {
	max := len(reply.Delimiter) - 1
	if max > len(s) {
		max = len(s)
	}
	for n := max; n > 0; n-- {
		if strings.HasSuffix(s, reply.Delimiter[:n]) {
			return n
		}
	}
	return 0
}
