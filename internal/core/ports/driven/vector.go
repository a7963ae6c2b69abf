package driven

import "context"

// VectorIndex provides approximate nearest neighbour search over ticket
// embeddings using cosine distance. The index is built once over a full
// corpus (or loaded from a saved file) and then serves read-only queries;
// incremental insertion after build is not supported.
type VectorIndex interface {
	// Build constructs the index over the given vectors. ids[i] labels
	// vectors[i]; slots are assigned in insertion order 0..len-1 and the
	// id list travels with the index as its manifest. An empty corpus
	// fails with domain.ErrInvalidArgument.
	Build(ctx context.Context, ids []string, vectors [][]float32) error

	// SetEfSearch adjusts the query-time speed/recall trade-off for
	// subsequent queries. Higher values are more accurate but slower.
	// A default applies when never called.
	SetEfSearch(ef int)

	// Query finds the k nearest neighbours to the query vector, ordered
	// by non-decreasing cosine distance. A k larger than the element
	// count is clamped rather than failing; k <= 0 fails with
	// domain.ErrInvalidArgument. Safe for concurrent callers.
	Query(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Save serialises the index to the given path. The written file
	// embeds the vector dimension, element count and id manifest so a
	// later Load can validate compatibility.
	Save(path string) error

	// Load replaces the index contents from a previously saved file.
	// Fails with domain.ErrPersistence if the file is missing, corrupt,
	// or its dimension does not match the configured dimension.
	Load(path string) error

	// IDs returns the manifest: ticket identifiers in slot order.
	IDs() []string

	// Len returns the current element count.
	Len() int

	// Dimensions returns the configured vector dimension.
	Dimensions() int
}

// VectorHit represents a single nearest-neighbour result.
type VectorHit struct {
	// Slot is the dense index position assigned at build time.
	Slot int

	// Distance is the cosine distance to the query vector.
	// Similarity for ranking purposes is 1 - Distance.
	Distance float32
}
