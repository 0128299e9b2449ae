package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askbase/askbase-cli/internal/core/domain"
	"github.com/askbase/askbase-cli/internal/core/ports/driven"
)

func newGenService(llm driven.LLMService) *GenerationService {
	return NewGenerationService(llm, domain.DefaultSettings(), zerolog.Nop())
}

func TestParseConfidence(t *testing.T) {
	svc := newGenService(&stubLLM{})

	tests := []struct {
		name     string
		input    string
		wantText string
		want     *float64
	}{
		{
			name:     "trailing annotation",
			input:    "The answer is X. [CONFIDENCE: 0.87]",
			wantText: "The answer is X.",
			want:     ptr(0.87),
		},
		{
			name:     "case insensitive with whitespace",
			input:    "Sure thing.\n[confidence: 0.5]  ",
			wantText: "Sure thing.",
			want:     ptr(0.5),
		},
		{
			name:     "integer score",
			input:    "Done. [CONFIDENCE: 1]",
			wantText: "Done.",
			want:     ptr(1.0),
		},
		{
			name:     "no annotation",
			input:    "Just an answer.",
			wantText: "Just an answer.",
			want:     nil,
		},
		{
			name:     "annotation mid-text is ignored",
			input:    "See [CONFIDENCE: 0.9] for details, more text follows.",
			wantText: "See [CONFIDENCE: 0.9] for details, more text follows.",
			want:     nil,
		},
		{
			name:     "out of range keeps original text",
			input:    "Answer. [CONFIDENCE: 1.4]",
			wantText: "Answer. [CONFIDENCE: 1.4]",
			want:     nil,
		},
		{
			name:     "malformed value keeps original text",
			input:    "Answer. [CONFIDENCE: high]",
			wantText: "Answer. [CONFIDENCE: high]",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, score := svc.ParseConfidence(tt.input)
			assert.Equal(t, tt.wantText, text)
			if tt.want == nil {
				assert.Nil(t, score)
			} else {
				require.NotNil(t, score)
				assert.InDelta(t, *tt.want, *score, 1e-9)
			}
		})
	}
}

func TestComplete_WindowsHistory(t *testing.T) {
	llm := &stubLLM{replies: []string{"ok [CONFIDENCE: 0.9]"}}
	svc := newGenService(llm)

	history := make([]domain.Message, 0, 15)
	for i := range 15 {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		history = append(history, domain.Message{Role: role, Content: fmt.Sprintf("turn %d", i)})
	}

	answer, confidence, err := svc.Complete(context.Background(), history, "some context")
	require.NoError(t, err)
	assert.Equal(t, "ok", answer)
	require.NotNil(t, confidence)
	assert.InDelta(t, 0.9, *confidence, 1e-9)

	require.Len(t, llm.requests, 1)
	sent := llm.requests[0]
	// System prompt plus the last 10 turns of a 15-turn history.
	require.Len(t, sent, 11)
	assert.Equal(t, "system", sent[0].Role)
	assert.Contains(t, sent[0].Content, "some context")
	assert.Equal(t, "turn 5", sent[1].Content)
	assert.Equal(t, "turn 14", sent[10].Content)
}

func TestComplete_BackendError(t *testing.T) {
	llm := &stubLLM{failWith: domain.ErrGenerationUnavailable}
	svc := newGenService(llm)

	_, _, err := svc.Complete(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hi"}}, "ctx")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrGenerationUnavailable))
}

func TestDocumentSummary_FailuresAreSilent(t *testing.T) {
	svc := newGenService(&stubLLM{failWith: errors.New("boom")})
	assert.Equal(t, "", svc.DocumentSummary(context.Background(), "some context"))

	svc = newGenService(&stubLLM{replies: []string{"A summary. [CONFIDENCE: 0.8]"}})
	assert.Equal(t, "A summary.", svc.DocumentSummary(context.Background(), "some context"))

	// Empty context never reaches the backend.
	llm := &stubLLM{}
	svc = newGenService(llm)
	assert.Equal(t, "", svc.DocumentSummary(context.Background(), "   "))
	assert.Empty(t, llm.requests)
}

func TestSuggestedQuestions(t *testing.T) {
	llm := &stubLLM{replies: []string{
		"1. What is the main topic?\n- How does it work?\nNot a question\n3) Who wrote it?\n4. One too many?",
	}}
	svc := newGenService(llm)

	questions := svc.SuggestedQuestions(context.Background(), "some context", "report.txt")
	assert.Equal(t, []string{
		"What is the main topic?",
		"How does it work?",
		"Who wrote it?",
	}, questions)

	svc = newGenService(&stubLLM{failWith: errors.New("boom")})
	assert.Nil(t, svc.SuggestedQuestions(context.Background(), "some context", "report.txt"))
}

func ptr(f float64) *float64 { return &f }
