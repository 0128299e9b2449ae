package services

import (
	"context"

	"github.com/askbase/askbase-cli/internal/adapters/driven/storage/memory"
	"github.com/askbase/askbase-cli/internal/core/ports/driven"
)

// stubEmbedder returns fixed-dimension vectors derived from text length, so
// identical texts always embed identically. Set failWith to force errors.
type stubEmbedder struct {
	dims     int
	failWith error
	calls    int
}

func newStubEmbedder() *stubEmbedder {
	return &stubEmbedder{dims: 4}
}

func (e *stubEmbedder) embed(text string) []float32 {
	v := make([]float32, e.dims)
	for i, r := range text {
		v[i%e.dims] += float32(r)
	}
	return v
}

func (e *stubEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	e.calls++
	if e.failWith != nil {
		return nil, e.failWith
	}
	return e.embed(text), nil
}

func (e *stubEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.failWith != nil {
		return nil, e.failWith
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.embed(t)
	}
	return out, nil
}

func (e *stubEmbedder) Dimensions() int   { return e.dims }
func (e *stubEmbedder) ModelName() string { return "stub-embed" }
func (e *stubEmbedder) Close() error      { return nil }

// stubLLM replies with canned responses in order, repeating the last one.
type stubLLM struct {
	replies  []string
	failWith error
	requests [][]driven.ChatMessage
}

func (l *stubLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	l.requests = append(l.requests, messages)
	if l.failWith != nil {
		return "", l.failWith
	}
	if len(l.replies) == 0 {
		return "", nil
	}
	reply := l.replies[0]
	if len(l.replies) > 1 {
		l.replies = l.replies[1:]
	}
	return reply, nil
}

func (l *stubLLM) ModelName() string { return "stub-llm" }
func (l *stubLLM) Close() error      { return nil }

// Service tests run against the in-memory store adapter.
type (
	memDocStore  = memory.DocumentStore
	memConvStore = memory.ConversationStore
)

func newMemDocStore() *memDocStore   { return memory.NewDocumentStore() }
func newMemConvStore() *memConvStore { return memory.NewConversationStore() }
