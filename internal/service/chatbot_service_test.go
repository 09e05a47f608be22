package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"leadq-chatbot-be/internal/constant"
	"leadq-chatbot-be/internal/dto"
	"leadq-chatbot-be/pkg/kb"
	"leadq-chatbot-be/pkg/llm"
	"leadq-chatbot-be/pkg/rag/retrieval"
)

type fakeRetriever struct {
	chunks []retrieval.ContextChunk
	err    error
	called bool
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string) ([]retrieval.ContextChunk, error) {
	f.called = true
	return f.chunks, f.err
}

// fakeGenerator emits its visible tokens through the callback and returns
// the full accumulated text, mirroring the real generator contract.
type fakeGenerator struct {
	visibleTokens []string
	fullText      string
	err           error

	groundedCalls   int
	ungroundedCalls int
	gotChunks       []retrieval.ContextChunk
}

func (f *fakeGenerator) emitAll(emit llm.StreamCallback) (string, error) {
	for _, token := range f.visibleTokens {
		if err := emit(token); err != nil {
			return strings.Join(f.visibleTokens, ""), err
		}
	}
	return f.fullText, f.err
}

func (f *fakeGenerator) GenerateGrounded(ctx context.Context, query string, chunks []retrieval.ContextChunk, emit llm.StreamCallback) (string, error) {
	f.groundedCalls++
	f.gotChunks = chunks
	return f.emitAll(emit)
}

func (f *fakeGenerator) GenerateUngrounded(ctx context.Context, query string, emit llm.StreamCallback) (string, error) {
	f.ungroundedCalls++
	return f.emitAll(emit)
}

type recordingPublisher struct {
	records []*dto.TranscriptRecord
	err     error
}

func (p *recordingPublisher) Publish(record *dto.TranscriptRecord) error {
	p.records = append(p.records, record)
	return p.err
}

// chunkCollector gathers emitted chunks and can fail after a set count to
// simulate a client disconnect.
type chunkCollector struct {
	chunks    []dto.StreamChunk
	failAfter int // 0 means never fail
}

func (c *chunkCollector) emit(chunk dto.StreamChunk) error {
	if c.failAfter > 0 && len(c.chunks) >= c.failAfter {
		return errors.New("connection reset")
	}
	c.chunks = append(c.chunks, chunk)
	return nil
}

func (c *chunkCollector) contentText() string {
	var sb strings.Builder
	for _, chunk := range c.chunks {
		if chunk.Type == dto.StreamTypeContent {
			sb.WriteString(chunk.Chunk)
		}
	}
	return sb.String()
}

func (c *chunkCollector) byType(chunkType string) []dto.StreamChunk {
	var out []dto.StreamChunk
	for _, chunk := range c.chunks {
		if chunk.Type == chunkType {
			out = append(out, chunk)
		}
	}
	return out
}

func newTestService(ret *fakeRetriever, gen *fakeGenerator, pub *recordingPublisher) IChatbotService {
	return NewChatbotService(nil, kb.NewMatcher(kb.DefaultEntries()), ret, gen, pub, 30*time.Second)
}

func streamOnce(t *testing.T, svc IChatbotService, message string) *chunkCollector {
	t.Helper()
	collector := &chunkCollector{}
	err := svc.StreamChat(context.Background(), &dto.ChatStreamRequest{Message: message}, collector.emit)
	if err != nil {
		t.Fatalf("StreamChat returned error: %v", err)
	}
	return collector
}

func assertChunkOrder(t *testing.T, chunks []dto.StreamChunk) {
	t.Helper()
	if len(chunks) < 3 {
		t.Fatalf("got %d chunks, want at least status, recommendations and meta", len(chunks))
	}
	if chunks[0].Type != dto.StreamTypeStatus || chunks[0].Chunk != dto.StreamStatusThinking {
		t.Errorf("first chunk = %+v, want thinking status", chunks[0])
	}
	last := chunks[len(chunks)-1]
	if last.Type != dto.StreamTypeMeta || last.SessionId == "" {
		t.Errorf("last chunk = %+v, want meta with session id", last)
	}
	recs := chunks[len(chunks)-2]
	if recs.Type != dto.StreamTypeRecommendations {
		t.Errorf("second to last chunk = %+v, want recommendations", recs)
	}
}

func TestStreamChatExactMatch(t *testing.T) {
	ret := &fakeRetriever{}
	gen := &fakeGenerator{}
	pub := &recordingPublisher{}
	svc := newTestService(ret, gen, pub)

	collector := streamOnce(t, svc, "Hello there!")

	assertChunkOrder(t, collector.chunks)
	if ret.called {
		t.Error("retrieval should not run on an exact match")
	}
	if gen.groundedCalls+gen.ungroundedCalls != 0 {
		t.Error("generation should not run on an exact match")
	}

	greeting := kb.DefaultEntries()[5]
	if got := collector.contentText(); got != greeting.Answer {
		t.Errorf("content = %q, want greeting answer", got)
	}
	recs := collector.byType(dto.StreamTypeRecommendations)
	if len(recs) != 1 || len(recs[0].Data) != len(greeting.Suggestions) {
		t.Errorf("recommendations = %+v, want %v", recs, greeting.Suggestions)
	}

	if len(pub.records) != 1 {
		t.Fatalf("got %d transcript records, want 1", len(pub.records))
	}
	if pub.records[0].Source != constant.SourceExactMatch {
		t.Errorf("source = %q, want %q", pub.records[0].Source, constant.SourceExactMatch)
	}
}

func TestStreamChatGroundedGeneration(t *testing.T) {
	ret := &fakeRetriever{chunks: []retrieval.ContextChunk{
		{Content: "Forecasting ships in the Growth tier.", Source: "guide.md", ChunkIndex: 1, Similarity: 0.9},
	}}
	gen := &fakeGenerator{
		visibleTokens: []string{"Yes, ", "forecasting is included."},
		fullText:      "Yes, forecasting is included.###REC###See Growth tier|Book a demo",
	}
	pub := &recordingPublisher{}
	svc := newTestService(ret, gen, pub)

	collector := streamOnce(t, svc, "Is inventory forecasting included in any tier?")

	assertChunkOrder(t, collector.chunks)
	if gen.groundedCalls != 1 || gen.ungroundedCalls != 0 {
		t.Errorf("grounded=%d ungrounded=%d, want grounded only", gen.groundedCalls, gen.ungroundedCalls)
	}
	if len(gen.gotChunks) != 1 {
		t.Errorf("generator got %d chunks, want 1", len(gen.gotChunks))
	}
	if got := collector.contentText(); got != "Yes, forecasting is included." {
		t.Errorf("content = %q", got)
	}

	recs := collector.byType(dto.StreamTypeRecommendations)
	want := []string{"See Growth tier", "Book a demo"}
	if len(recs) != 1 || len(recs[0].Data) != 2 || recs[0].Data[0] != want[0] || recs[0].Data[1] != want[1] {
		t.Errorf("recommendations = %+v, want %v", recs, want)
	}

	if len(pub.records) != 1 || pub.records[0].Source != constant.SourceGroundedGeneration {
		t.Fatalf("transcript records = %+v", pub.records)
	}
	if pub.records[0].AssistantText != "Yes, forecasting is included." {
		t.Errorf("assistant text = %q", pub.records[0].AssistantText)
	}
	if pub.records[0].LatencyMs <= 0 {
		t.Errorf("latency = %v, want > 0", pub.records[0].LatencyMs)
	}
}

func TestStreamChatUngroundedWhenNoChunks(t *testing.T) {
	ret := &fakeRetriever{}
	gen := &fakeGenerator{
		visibleTokens: []string{"LeadQ focuses on lead scoring."},
		fullText:      "LeadQ focuses on lead scoring.",
	}
	pub := &recordingPublisher{}
	svc := newTestService(ret, gen, pub)

	collector := streamOnce(t, svc, "Can your scoring model run offline?")

	if !ret.called {
		t.Error("retrieval should run before falling back")
	}
	if gen.ungroundedCalls != 1 || gen.groundedCalls != 0 {
		t.Errorf("grounded=%d ungrounded=%d, want ungrounded only", gen.groundedCalls, gen.ungroundedCalls)
	}

	// No suggestion tail from the model, so defaults apply
	recs := collector.byType(dto.StreamTypeRecommendations)
	if len(recs) != 1 || len(recs[0].Data) != len(constant.DefaultSuggestions) {
		t.Errorf("recommendations = %+v, want defaults", recs)
	}
	if pub.records[0].Source != constant.SourceUngroundedGeneration {
		t.Errorf("source = %q", pub.records[0].Source)
	}
}

func TestStreamChatRetrievalFailureDegrades(t *testing.T) {
	ret := &fakeRetriever{err: errors.New("vector index down")}
	gen := &fakeGenerator{
		visibleTokens: []string{"Answer."},
		fullText:      "Answer.",
	}
	svc := newTestService(ret, gen, &recordingPublisher{})

	collector := streamOnce(t, svc, "Does the scoring model use intent data?")

	if gen.ungroundedCalls != 1 {
		t.Error("retrieval failure should degrade to ungrounded generation")
	}
	assertChunkOrder(t, collector.chunks)
}

func TestStreamChatGenerationFailure(t *testing.T) {
	ret := &fakeRetriever{}
	gen := &fakeGenerator{err: errors.New("model unavailable")}
	pub := &recordingPublisher{}
	svc := newTestService(ret, gen, pub)

	collector := streamOnce(t, svc, "Does the scoring model use intent data?")

	assertChunkOrder(t, collector.chunks)
	if got := collector.contentText(); got != constant.FallbackApologyText {
		t.Errorf("content = %q, want apology", got)
	}
	recs := collector.byType(dto.StreamTypeRecommendations)
	if len(recs) != 1 || len(recs[0].Data) != len(constant.ErrorSuggestions) {
		t.Errorf("recommendations = %+v, want error suggestions", recs)
	}
	if pub.records[0].Source != constant.SourceError {
		t.Errorf("source = %q, want %q", pub.records[0].Source, constant.SourceError)
	}
}

func TestStreamChatEmptyGenerationFailsOver(t *testing.T) {
	gen := &fakeGenerator{fullText: "   "}
	pub := &recordingPublisher{}
	svc := newTestService(&fakeRetriever{}, gen, pub)

	collector := streamOnce(t, svc, "Does the scoring model use intent data?")

	if got := collector.contentText(); got != constant.FallbackApologyText {
		t.Errorf("content = %q, want apology", got)
	}
	if pub.records[0].Source != constant.SourceError {
		t.Errorf("source = %q, want %q", pub.records[0].Source, constant.SourceError)
	}
}

func TestStreamChatAbortKeepsTranscript(t *testing.T) {
	ret := &fakeRetriever{}
	gen := &fakeGenerator{
		visibleTokens: []string{"First part. ", "Second part."},
		fullText:      "First part. Second part.",
	}
	pub := &recordingPublisher{}
	svc := newTestService(ret, gen, pub)

	// Allow status and one content chunk, then drop the connection
	collector := &chunkCollector{failAfter: 2}
	err := svc.StreamChat(context.Background(), &dto.ChatStreamRequest{Message: "Is intent scoring available offline?"}, collector.emit)
	if err != nil {
		t.Fatalf("StreamChat returned error: %v", err)
	}

	for _, chunk := range collector.chunks {
		if chunk.Type == dto.StreamTypeRecommendations || chunk.Type == dto.StreamTypeMeta {
			t.Errorf("chunk %+v emitted after abort", chunk)
		}
	}
	if len(pub.records) != 1 {
		t.Fatalf("got %d transcript records, want 1", len(pub.records))
	}
	if pub.records[0].AssistantText == "" {
		t.Error("aborted stream should still log the partial answer")
	}
}

func TestStreamChatPublisherFailureIsSwallowed(t *testing.T) {
	gen := &fakeGenerator{visibleTokens: []string{"Answer."}, fullText: "Answer."}
	pub := &recordingPublisher{err: errors.New("bus full")}
	svc := newTestService(&fakeRetriever{}, gen, pub)

	collector := streamOnce(t, svc, "Does the scoring model use intent data?")

	// A failed transcript publish must not disturb the stream
	assertChunkOrder(t, collector.chunks)
}

func TestStreamChatSessionIdReuse(t *testing.T) {
	gen := &fakeGenerator{visibleTokens: []string{"Answer."}, fullText: "Answer."}
	pub := &recordingPublisher{}
	svc := newTestService(&fakeRetriever{}, gen, pub)

	sessionId := "7f6b9a52-3c1d-4e8a-9f00-25b6f0a1c9d3"
	collector := &chunkCollector{}
	err := svc.StreamChat(context.Background(), &dto.ChatStreamRequest{
		Message:   "Does the scoring model use intent data?",
		SessionId: sessionId,
	}, collector.emit)
	if err != nil {
		t.Fatalf("StreamChat returned error: %v", err)
	}

	meta := collector.byType(dto.StreamTypeMeta)
	if len(meta) != 1 || meta[0].SessionId != sessionId {
		t.Errorf("meta = %+v, want session id %s", meta, sessionId)
	}
	if pub.records[0].SessionId.String() != sessionId {
		t.Errorf("transcript session = %s, want %s", pub.records[0].SessionId, sessionId)
	}
}

func TestStreamChatKeywordBeatsGeneration(t *testing.T) {
	gen := &fakeGenerator{visibleTokens: []string{"generated"}, fullText: "generated"}
	svc := newTestService(&fakeRetriever{}, gen, &recordingPublisher{})

	// "price" is a knowledge base keyword anywhere in the message
	collector := streamOnce(t, svc, "What is the price for the Growth tier?")

	pricing := kb.DefaultEntries()[0]
	if got := collector.contentText(); got != pricing.Answer {
		t.Errorf("content = %q, want pricing answer", got)
	}
	if gen.groundedCalls+gen.ungroundedCalls != 0 {
		t.Error("generation should not run when a keyword matches")
	}
}
