package domain

import "fmt"

// Settings holds the tunable configuration consumed by the engine.
// Values are loaded from the TOML config file with these defaults.
type Settings struct {
	// ChunkSize is the target chunk length in characters.
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the number of characters shared between consecutive
	// chunks. Must be smaller than ChunkSize.
	ChunkOverlap int `toml:"chunk_overlap"`

	// MaxChunksPerDocument caps the chunks embedded for one document.
	// Chunks past the cap are dropped with a warning, not an error.
	MaxChunksPerDocument int `toml:"max_chunks_per_document"`

	// RetrievalK is the default number of chunks returned by retrieval.
	RetrievalK int `toml:"retrieval_k"`

	// UseDiversitySearch selects MMR ranking by default.
	UseDiversitySearch bool `toml:"use_diversity_search"`

	// Diversity is the MMR diversity weight in [0, 1]. Zero degenerates to
	// plain similarity ranking over the fetched set.
	Diversity float64 `toml:"diversity"`

	// DiversityFetchK is how many candidates MMR fetches before selecting.
	DiversityFetchK int `toml:"diversity_fetch_k"`

	// GenerationTemperature is passed to the generation backend.
	GenerationTemperature float64 `toml:"generation_temperature"`

	// GenerationMaxTokens bounds the generated reply length.
	GenerationMaxTokens int `toml:"generation_max_tokens"`

	// HistoryWindow is how many trailing conversation turns are sent to the
	// generation backend. Older turns are silently dropped.
	HistoryWindow int `toml:"history_window"`

	// EmbeddingBackend selects the embedding provider: "openai" or "ollama".
	EmbeddingBackend string `toml:"embedding_backend"`

	// GenerationBackend selects the generation provider: "groq" or "ollama".
	GenerationBackend string `toml:"generation_backend"`
}

// DefaultSettings returns the engine defaults.
func DefaultSettings() Settings {
	return Settings{
		ChunkSize:             500,
		ChunkOverlap:          50,
		MaxChunksPerDocument:  100,
		RetrievalK:            6,
		UseDiversitySearch:    true,
		Diversity:             0.3,
		DiversityFetchK:       20,
		GenerationTemperature: 0.3,
		GenerationMaxTokens:   1500,
		HistoryWindow:         10,
		EmbeddingBackend:      "openai",
		GenerationBackend:     "groq",
	}
}

// Validate checks cross-field constraints.
func (s Settings) Validate() error {
	if s.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive", ErrInvalidInput)
	}
	if s.ChunkOverlap < 0 || s.ChunkOverlap >= s.ChunkSize {
		return fmt.Errorf("%w: chunk_overlap must be in [0, chunk_size)", ErrInvalidInput)
	}
	if s.Diversity < 0 || s.Diversity > 1 {
		return fmt.Errorf("%w: diversity must be in [0, 1]", ErrInvalidInput)
	}
	if s.RetrievalK <= 0 {
		return fmt.Errorf("%w: retrieval_k must be positive", ErrInvalidInput)
	}
	if s.DiversityFetchK < s.RetrievalK {
		return fmt.Errorf("%w: diversity_fetch_k must be >= retrieval_k", ErrInvalidInput)
	}
	if s.HistoryWindow <= 0 {
		return fmt.Errorf("%w: history_window must be positive", ErrInvalidInput)
	}
	return nil
}
