package domain

import "time"

// RetrievalMode selects the ranking strategy for retrieval.
type RetrievalMode string

const (
	// ModeDefault defers the choice to configuration.
	ModeDefault RetrievalMode = ""

	// ModeSimilarity ranks purely by cosine similarity to the query.
	ModeSimilarity RetrievalMode = "similarity"

	// ModeDiversity applies maximal-marginal-relevance selection, trading
	// relevance against dissimilarity among the selected chunks.
	ModeDiversity RetrievalMode = "diversity"
)

// RetrievalOptions configures a retrieval call.
type RetrievalOptions struct {
	// DocumentID restricts results to one document. The filter is applied
	// after ranking, so fewer than K results may be returned when the
	// document's chunks do not dominate the global top-K.
	DocumentID string

	// K is the number of chunks to return. Zero uses the configured default.
	K int

	// Mode selects similarity or diversity ranking.
	Mode RetrievalMode
}

// CacheStats is a read-only projection of the index cache metadata.
type CacheStats struct {
	IsLoaded      bool       `json:"is_loaded"`
	LoadedAt      *time.Time `json:"loaded_at"`
	DocumentCount int        `json:"document_count"`
	TotalChunks   int        `json:"total_chunks"`
	SearchCount   uint64     `json:"search_count"`
	CacheHits     uint64     `json:"cache_hits"`
	CacheHitRate  float64    `json:"cache_hit_rate"`
	LastUpdated   *time.Time `json:"last_updated"`
}
