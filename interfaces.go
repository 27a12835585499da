package lawgraph

import "context"

// ChatModel is the generative LLM collaborator. Implementations live under
// llm/ and wrap a concrete provider client.
type ChatModel interface {
	// Complete returns the model's answer for the message list.
	Complete(ctx context.Context, messages []Message) (string, error)

	// CompleteStream streams the answer, invoking fn for every content delta,
	// and returns the full concatenated answer.
	CompleteStream(ctx context.Context, messages []Message, fn func(delta string)) (string, error)

	// CompleteStructured requests a response conforming to the JSON shape of
	// out and unmarshals into it. name labels the schema for the provider.
	// Callers own the fallback on error; implementations never guess.
	CompleteStructured(ctx context.Context, messages []Message, name string, out any) error
}

// Embedder produces a fixed-dimensionality dense vector for a text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the vector dimensionality.
	Dimension() int
}

// SparseEncoder produces a weighted-token sparse vector for a text.
// The component is optional: a nil SparseEncoder degrades search to
// dense-only retrieval.
type SparseEncoder interface {
	Encode(ctx context.Context, text string) (*SparseVector, error)
}

// Reranker jointly scores (query, passage) pairs. Scores are returned aligned
// by index with the passages. A nil Reranker degrades to pass-through.
type Reranker interface {
	Score(ctx context.Context, query string, passages []string) ([]float64, error)
}

// VectorIndex is a live connection to the vector database.
type VectorIndex interface {
	// HybridSearch runs a dense+sparse retrieval fused server-side with
	// reciprocal-rank fusion. sparse may be nil for dense-only search.
	HybridSearch(ctx context.Context, dense []float32, sparse *SparseVector, limit int) ([]Document, error)

	// StatuteExists reports whether any indexed passage belongs to the statute.
	StatuteExists(ctx context.Context, name string) (bool, error)

	// Close releases the connection.
	Close() error
}

// IndexProvider opens a fresh VectorIndex per invocation. The engine opens a
// connection for every search or verification and closes it on all exit paths.
type IndexProvider interface {
	Open(ctx context.Context) (VectorIndex, error)
}

// ConversationStore persists conversation turns keyed by an opaque session
// identifier. The engine only reads history and appends completed turns;
// session ownership and retention policy belong to the store.
type ConversationStore interface {
	// Append adds a turn to the session.
	Append(ctx context.Context, sessionID string, msg Message) error

	// History returns up to limit most recent turns in chronological order.
	History(ctx context.Context, sessionID string, limit int) ([]Message, error)
}
