package hnsw

import (
	"context"
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/resolva-labs/resolva-cli/internal/core/domain"
	"github.com/resolva-labs/resolva-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	// DefaultM is the maximum node degree on upper layers.
	DefaultM = 16

	// DefaultEfConstruction is the build-time candidate list size.
	DefaultEfConstruction = 200

	// DefaultEfSearch is the query-time candidate list size.
	DefaultEfSearch = 50

	// DefaultSeed drives level assignment, keeping builds reproducible.
	DefaultSeed = 100
)

// formatVersion identifies the on-disk layout.
// Increment when making breaking changes to the index file format.
const formatVersion = 1

// Config holds configuration for the HNSW index.
type Config struct {
	// Dimensions is the vector size (required).
	Dimensions int

	// ModelName records which embedding model produced the vectors.
	// Load rejects files built with a different model.
	ModelName string

	// M is the maximum node degree on upper layers (default 16).
	M int

	// EfConstruction is the build-time candidate list size (default 200).
	EfConstruction int

	// EfSearch is the query-time candidate list size (default 50).
	EfSearch int

	// Seed for level assignment (default 100).
	Seed int64
}

// Index provides approximate nearest neighbour search over cosine
// distance. Build and Load serialise behind a write lock; queries run
// concurrently under a read lock.
type Index struct {
	mu       sync.RWMutex
	cfg      Config
	efSearch int
	ids      []string
	graph    *graph
}

// indexFile is the gob-encoded persistence layout.
type indexFile struct {
	Version        int
	ModelName      string
	Dimensions     int
	Count          int
	IDs            []string
	M              int
	EfConstruction int
	Seed           int64
	Vectors        [][]float32
	Levels         []int
	Links          [][][]int32
	EntryPoint     int
	MaxLevel       int
}

// New creates an empty index for vectors of the configured dimension.
func New(cfg Config) (*Index, error) {
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("hnsw: dimensions must be positive: %w", domain.ErrInvalidArgument)
	}
	if cfg.M <= 0 {
		cfg.M = DefaultM
	}
	if cfg.EfConstruction <= 0 {
		cfg.EfConstruction = DefaultEfConstruction
	}
	if cfg.EfSearch <= 0 {
		cfg.EfSearch = DefaultEfSearch
	}
	if cfg.Seed == 0 {
		cfg.Seed = DefaultSeed
	}

	return &Index{
		cfg:      cfg,
		efSearch: cfg.EfSearch,
	}, nil
}

// Build constructs the index over the given vectors, replacing any
// existing contents. ids[i] labels vectors[i]; slots follow insertion
// order. An empty corpus fails with domain.ErrInvalidArgument.
func (idx *Index) Build(_ context.Context, ids []string, vectors [][]float32) error {
	if len(vectors) == 0 {
		return fmt.Errorf("hnsw: cannot build over empty corpus: %w", domain.ErrInvalidArgument)
	}
	if len(ids) != len(vectors) {
		return fmt.Errorf("hnsw: %d ids for %d vectors: %w", len(ids), len(vectors), domain.ErrInvalidArgument)
	}
	for i, v := range vectors {
		if len(v) != idx.cfg.Dimensions {
			return fmt.Errorf("hnsw: vector %d has dimension %d, want %d: %w",
				i, len(v), idx.cfg.Dimensions, domain.ErrInvalidArgument)
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	g := newGraph(idx.cfg.M, idx.cfg.EfConstruction, idx.cfg.Seed)
	for _, v := range vectors {
		g.insert(normalise(v))
	}

	idx.graph = g
	idx.ids = append([]string(nil), ids...)
	return nil
}

// SetEfSearch adjusts the query-time speed/recall trade-off.
// Values below 1 are ignored.
func (idx *Index) SetEfSearch(ef int) {
	if ef < 1 {
		return
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.efSearch = ef
}

// Query finds the k nearest neighbours to the query vector, ordered by
// non-decreasing cosine distance. A k larger than the element count is
// clamped to it rather than failing.
func (idx *Index) Query(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("hnsw: k must be positive: %w", domain.ErrInvalidArgument)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.graph == nil {
		return nil, fmt.Errorf("hnsw: index not built: %w", domain.ErrNotInitialised)
	}
	if len(query) != idx.cfg.Dimensions {
		return nil, fmt.Errorf("hnsw: query has dimension %d, want %d: %w",
			len(query), idx.cfg.Dimensions, domain.ErrInvalidArgument)
	}
	if k > idx.graph.len() {
		k = idx.graph.len()
	}

	results := idx.graph.search(normalise(query), k, idx.efSearch)

	hits := make([]driven.VectorHit, len(results))
	for i, r := range results {
		hits[i] = driven.VectorHit{
			Slot:     int(r.slot),
			Distance: r.dist,
		}
	}
	return hits, nil
}

// Save serialises the index to path, writing through a temp file in the
// same directory and renaming for atomicity.
func (idx *Index) Save(path string) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.graph == nil {
		return fmt.Errorf("hnsw: nothing to save: %w", domain.ErrNotInitialised)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("hnsw: creating index directory: %w: %v", domain.ErrPersistence, err)
	}

	file := indexFile{
		Version:        formatVersion,
		ModelName:      idx.cfg.ModelName,
		Dimensions:     idx.cfg.Dimensions,
		Count:          idx.graph.len(),
		IDs:            idx.ids,
		M:              idx.cfg.M,
		EfConstruction: idx.cfg.EfConstruction,
		Seed:           idx.cfg.Seed,
		Vectors:        idx.graph.vectors,
		Levels:         idx.graph.levels,
		Links:          idx.graph.links,
		EntryPoint:     idx.graph.entryPoint,
		MaxLevel:       idx.graph.maxLevel,
	}

	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("hnsw: creating temp file: %w: %v", domain.ErrPersistence, err)
	}

	if err := gob.NewEncoder(f).Encode(file); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("hnsw: encoding index: %w: %v", domain.ErrPersistence, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("hnsw: closing temp file: %w: %v", domain.ErrPersistence, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("hnsw: renaming index file: %w: %v", domain.ErrPersistence, err)
	}

	return nil
}

// Load replaces the index contents from a previously saved file.
func (idx *Index) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("hnsw: index file %s does not exist: %w", path, domain.ErrPersistence)
		}
		return fmt.Errorf("hnsw: opening index file: %w: %v", domain.ErrPersistence, err)
	}
	defer f.Close()

	var file indexFile
	if err := gob.NewDecoder(f).Decode(&file); err != nil {
		return fmt.Errorf("hnsw: decoding index file: %w: %v", domain.ErrPersistence, err)
	}

	if file.Version != formatVersion {
		return fmt.Errorf("hnsw: unsupported index format version %d, want %d: %w",
			file.Version, formatVersion, domain.ErrPersistence)
	}
	if file.Dimensions != idx.cfg.Dimensions {
		return fmt.Errorf("hnsw: index has dimension %d, configured dimension is %d: %w",
			file.Dimensions, idx.cfg.Dimensions, domain.ErrPersistence)
	}
	if idx.cfg.ModelName != "" && file.ModelName != "" && file.ModelName != idx.cfg.ModelName {
		return fmt.Errorf("hnsw: index built with model %q, configured model is %q: %w",
			file.ModelName, idx.cfg.ModelName, domain.ErrPersistence)
	}
	if file.Count != len(file.Vectors) || file.Count != len(file.IDs) || file.Count != len(file.Links) {
		return fmt.Errorf("hnsw: index file is inconsistent: %w", domain.ErrPersistence)
	}
	if file.Count == 0 {
		return fmt.Errorf("hnsw: index file holds no vectors: %w", domain.ErrPersistence)
	}

	g := newGraph(file.M, file.EfConstruction, file.Seed)
	g.vectors = file.Vectors
	g.levels = file.Levels
	g.links = file.Links
	g.entryPoint = file.EntryPoint
	g.maxLevel = file.MaxLevel

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.graph = g
	idx.ids = file.IDs
	return nil
}

// IDs returns the manifest: ticket identifiers in slot order.
// The returned slice is a copy.
func (idx *Index) IDs() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return append([]string(nil), idx.ids...)
}

// Len returns the current element count.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.graph == nil {
		return 0
	}
	return idx.graph.len()
}

// Dimensions returns the configured vector dimension.
func (idx *Index) Dimensions() int {
	return idx.cfg.Dimensions
}

// normalise returns a unit-length copy of v. A zero vector is returned
// unchanged to avoid dividing by zero.
func normalise(v []float32) []float32 {
	out := make([]float32, len(v))
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		copy(out, v)
		return out
	}
	inv := float32(1 / math.Sqrt(sum))
	for i, x := range v {
		out[i] = x * inv
	}
	return out
}
