// Package chunker splits raw document text into overlapping, order-preserving
// segments. It prefers sentence boundaries, then whitespace, then a hard cut.
package chunker

import (
	"strings"
	"unicode"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 500

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 50

// boundaryWindowDivisor bounds how far back from the target size a sentence
// boundary may be and still be considered "reasonably close".
const boundaryWindowDivisor = 4

// Processor splits text into chunks of roughly chunkSize characters.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Split breaks text into ordered chunks. Consecutive chunks share overlap
// characters, except the final chunk. Empty input yields no chunks.
// Concatenating the chunks with overlaps removed reconstructs the input,
// modulo boundary whitespace trimming.
func (p *Processor) Split(text string) []string {
	if text == "" {
		return nil
	}

	textLen := len(text)
	estimated := textLen/(p.chunkSize-p.overlap) + 1
	chunks := make([]string, 0, estimated)

	start := 0
	for start < textLen {
		end := start + p.chunkSize
		if end >= textLen {
			end = textLen
		} else {
			end = p.cutPoint(text, start, end)
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= textLen {
			break
		}

		next := end - p.overlap
		if next <= start {
			// Guard against non-advancing windows on tiny chunks.
			next = end
		}
		start = next
	}

	return chunks
}

// cutPoint picks the split position for the window [start, limit).
// Preference order: sentence boundary in the tail of the window, last
// whitespace before the limit, exact limit.
func (p *Processor) cutPoint(text string, start, limit int) int {
	window := p.chunkSize / boundaryWindowDivisor
	earliest := limit - window
	if earliest < start+1 {
		earliest = start + 1
	}

	for i := limit - 1; i >= earliest; i-- {
		if isSentenceEnd(text[i]) && i+1 < len(text) && unicode.IsSpace(rune(text[i+1])) {
			return i + 1
		}
	}

	if ws := lastWhitespace(text, start+1, limit); ws > start {
		return ws
	}

	return limit
}

func isSentenceEnd(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

// lastWhitespace returns the index of the last whitespace byte in
// text[from:to), or -1 when there is none.
func lastWhitespace(text string, from, to int) int {
	for i := to - 1; i >= from; i-- {
		if unicode.IsSpace(rune(text[i])) {
			return i
		}
	}
	return -1
}
