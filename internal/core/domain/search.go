package domain

import "time"

// SearchChunk is one matched fragment of a document. Chunks arrive
// ordered by the backend and are never re-sorted client-side.
type SearchChunk struct {
	ChunkIndex int
	Content    string
	Similarity float64
}

// SearchResult is one ranked document hit with its matched chunks.
// Ranking is entirely the backend's; the client renders the list in
// the order received. Similarity is in [0,1].
type SearchResult struct {
	DocumentID    int64
	DocumentTitle string
	Similarity    float64
	Chunks        []SearchChunk
	CreatedAt     time.Time
}

// SearchQuery carries the user's search input to the backend. Title
// filter and limit are optional.
type SearchQuery struct {
	Query string
	Title string
	Limit int
}
