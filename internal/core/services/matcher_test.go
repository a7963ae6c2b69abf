package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resolva-labs/resolva-cli/internal/adapters/driven/storage/memory"
	"github.com/resolva-labs/resolva-cli/internal/core/domain"
	"github.com/resolva-labs/resolva-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService for testing.
type mockEmbedder struct {
	dims       int
	embedErr   error
	batchErr   error
	batchCalls int
}

func (m *mockEmbedder) dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 4
}

func (m *mockEmbedder) vectorFor(text string) []float32 {
	vec := make([]float32, m.dimensions())
	for i, r := range text {
		vec[i%len(vec)] += float32(r)
	}
	return vec
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vectorFor(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls++
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = m.vectorFor(text)
	}
	return vectors, nil
}

func (m *mockEmbedder) Dimensions() int {
	return m.dimensions()
}

func (m *mockEmbedder) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbedder) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbedder) Close() error {
	return nil
}

// mockIndex implements driven.VectorIndex for testing.
type mockIndex struct {
	hits     []driven.VectorHit
	buildErr error
	queryErr error
	saveErr  error
	loadErr  error

	buildIDs   []string
	loadIDs    []string // manifest reported after Load
	savedTo    string
	loadedFrom string
	lastK      int
}

func (m *mockIndex) Build(_ context.Context, ids []string, _ [][]float32) error {
	if m.buildErr != nil {
		return m.buildErr
	}
	m.buildIDs = append([]string(nil), ids...)
	return nil
}

func (m *mockIndex) SetEfSearch(_ int) {}

func (m *mockIndex) Query(_ context.Context, _ []float32, k int) ([]driven.VectorHit, error) {
	m.lastK = k
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockIndex) Save(path string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.savedTo = path
	return nil
}

func (m *mockIndex) Load(path string) error {
	if m.loadErr != nil {
		return m.loadErr
	}
	m.loadedFrom = path
	return nil
}

func (m *mockIndex) IDs() []string {
	if m.loadIDs != nil {
		return m.loadIDs
	}
	return m.buildIDs
}

func (m *mockIndex) Len() int {
	return len(m.IDs())
}

func (m *mockIndex) Dimensions() int {
	return 4
}

// --- Test helpers ---

func setupTicketStore(t *testing.T) *memory.TicketStore {
	t.Helper()
	store := memory.NewTicketStore()
	ctx := context.Background()

	tickets := []domain.Ticket{
		{ID: "T-100", Issue: "VPN drops every hour", Category: "Network", Description: "Disconnects hourly since the last update", Resolved: true, Resolution: "Reinstall the VPN client"},
		{ID: "T-101", Issue: "Printer not connecting to WiFi", Category: "Hardware", Description: "Office printer invisible to every device"},
		{ID: "T-102", Issue: "Email sync delayed", Category: "Software", Description: "Mail arrives with a two hour delay"},
	}
	for _, ticket := range tickets {
		require.NoError(t, store.Put(ctx, ticket))
	}

	return store
}

// --- Tests ---

func TestNewMatcherService(t *testing.T) {
	service := NewMatcherService(memory.NewTicketStore(), &mockEmbedder{}, &mockIndex{}, "tickets.idx")

	require.NotNil(t, service)
	assert.False(t, service.Ready())
}

func TestMatcherService_BuildFromCorpus(t *testing.T) {
	store := setupTicketStore(t)
	embedder := &mockEmbedder{}
	index := &mockIndex{}
	service := NewMatcherService(store, embedder, index, "tickets.idx")

	err := service.BuildFromCorpus(context.Background())

	require.NoError(t, err)
	assert.True(t, service.Ready())
	assert.Equal(t, 1, embedder.batchCalls)
	// Slot order must follow corpus insertion order.
	assert.Equal(t, []string{"T-100", "T-101", "T-102"}, index.buildIDs)
	assert.Equal(t, "tickets.idx", index.savedTo)
}

func TestMatcherService_BuildFromCorpus_EmptyCorpus(t *testing.T) {
	index := &mockIndex{}
	service := NewMatcherService(memory.NewTicketStore(), &mockEmbedder{}, index, "tickets.idx")

	err := service.BuildFromCorpus(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.False(t, service.Ready())
	assert.Empty(t, index.savedTo)
}

func TestMatcherService_BuildFromCorpus_EmbeddingFailure(t *testing.T) {
	store := setupTicketStore(t)
	embedder := &mockEmbedder{batchErr: errors.New("connection refused")}
	service := NewMatcherService(store, embedder, &mockIndex{}, "tickets.idx")

	err := service.BuildFromCorpus(context.Background())

	require.Error(t, err)
	assert.False(t, service.Ready())
}

func TestMatcherService_BuildFromCorpus_SaveFailure(t *testing.T) {
	store := setupTicketStore(t)
	index := &mockIndex{saveErr: domain.ErrPersistence}
	service := NewMatcherService(store, &mockEmbedder{}, index, "tickets.idx")

	err := service.BuildFromCorpus(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.False(t, service.Ready())
}

func TestMatcherService_BuildFromCorpus_SecondBuildRejected(t *testing.T) {
	store := setupTicketStore(t)
	service := NewMatcherService(store, &mockEmbedder{}, &mockIndex{}, "tickets.idx")

	require.NoError(t, service.BuildFromCorpus(context.Background()))

	err := service.BuildFromCorpus(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestMatcherService_BuildFromCorpus_NoPathSkipsPersist(t *testing.T) {
	store := setupTicketStore(t)
	index := &mockIndex{}
	service := NewMatcherService(store, &mockEmbedder{}, index, "")

	err := service.BuildFromCorpus(context.Background())

	require.NoError(t, err)
	assert.True(t, service.Ready())
	assert.Empty(t, index.savedTo)
}

func TestMatcherService_LoadIndex(t *testing.T) {
	store := setupTicketStore(t)
	index := &mockIndex{loadIDs: []string{"T-100", "T-101", "T-102"}}
	service := NewMatcherService(store, &mockEmbedder{}, index, "tickets.idx")

	err := service.LoadIndex(context.Background())

	require.NoError(t, err)
	assert.True(t, service.Ready())
	assert.Equal(t, "tickets.idx", index.loadedFrom)
}

func TestMatcherService_LoadIndex_MissingFile(t *testing.T) {
	store := setupTicketStore(t)
	index := &mockIndex{loadErr: domain.ErrPersistence}
	service := NewMatcherService(store, &mockEmbedder{}, index, "tickets.idx")

	err := service.LoadIndex(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.False(t, service.Ready())
}

func TestMatcherService_LoadIndex_ManifestCountMismatch(t *testing.T) {
	store := setupTicketStore(t)
	index := &mockIndex{loadIDs: []string{"T-100", "T-101"}}
	service := NewMatcherService(store, &mockEmbedder{}, index, "tickets.idx")

	err := service.LoadIndex(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.False(t, service.Ready())
}

func TestMatcherService_LoadIndex_ManifestOrderMismatch(t *testing.T) {
	store := setupTicketStore(t)
	index := &mockIndex{loadIDs: []string{"T-100", "T-102", "T-101"}}
	service := NewMatcherService(store, &mockEmbedder{}, index, "tickets.idx")

	err := service.LoadIndex(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.False(t, service.Ready())
}

func TestMatcherService_LoadIndex_NoPath(t *testing.T) {
	store := setupTicketStore(t)
	service := NewMatcherService(store, &mockEmbedder{}, &mockIndex{}, "")

	err := service.LoadIndex(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestMatcherService_FindSimilar_NotReady(t *testing.T) {
	store := setupTicketStore(t)
	service := NewMatcherService(store, &mockEmbedder{}, &mockIndex{}, "tickets.idx")

	_, err := service.FindSimilar(context.Background(), domain.MatchQuery{Issue: "VPN"}, domain.FindOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotInitialised)
}

func TestMatcherService_FindSimilar(t *testing.T) {
	store := setupTicketStore(t)
	index := &mockIndex{hits: []driven.VectorHit{
		{Slot: 1, Distance: 0.1}, // unresolved, similarity 0.9
		{Slot: 0, Distance: 0.3}, // resolved, similarity 0.7
	}}
	service := NewMatcherService(store, &mockEmbedder{}, index, "")
	require.NoError(t, service.BuildFromCorpus(context.Background()))

	query := domain.MatchQuery{Issue: "VPN keeps dropping", Category: "Network"}
	matches, err := service.FindSimilar(context.Background(), query, domain.FindOptions{})

	require.NoError(t, err)
	require.Len(t, matches, 2)
	// The resolved ticket leads despite its lower similarity.
	assert.Equal(t, "T-100", matches[0].TicketID)
	assert.InDelta(t, 0.7, matches[0].Similarity, 1e-6)
	assert.Equal(t, "T-101", matches[1].TicketID)
	assert.InDelta(t, 0.9, matches[1].Similarity, 1e-6)
}

func TestMatcherService_FindSimilar_AppliesDefaultThreshold(t *testing.T) {
	store := setupTicketStore(t)
	index := &mockIndex{hits: []driven.VectorHit{
		{Slot: 0, Distance: 0.1}, // similarity 0.9
		{Slot: 1, Distance: 0.8}, // similarity 0.2, below the default 0.5
	}}
	service := NewMatcherService(store, &mockEmbedder{}, index, "")
	require.NoError(t, service.BuildFromCorpus(context.Background()))

	matches, err := service.FindSimilar(context.Background(), domain.MatchQuery{Issue: "VPN"}, domain.FindOptions{})

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "T-100", matches[0].TicketID)
}

func TestMatcherService_FindSimilar_ClampsKToCorpusSize(t *testing.T) {
	store := setupTicketStore(t)
	index := &mockIndex{}
	service := NewMatcherService(store, &mockEmbedder{}, index, "")
	require.NoError(t, service.BuildFromCorpus(context.Background()))

	_, err := service.FindSimilar(context.Background(), domain.MatchQuery{Issue: "VPN"}, domain.FindOptions{K: 50})

	require.NoError(t, err)
	assert.Equal(t, 3, index.lastK)
}

func TestMatcherService_FindSimilar_EmbedFailure(t *testing.T) {
	store := setupTicketStore(t)
	embedder := &mockEmbedder{}
	service := NewMatcherService(store, embedder, &mockIndex{}, "")
	require.NoError(t, service.BuildFromCorpus(context.Background()))

	embedder.embedErr = domain.ErrProvider
	_, err := service.FindSimilar(context.Background(), domain.MatchQuery{Issue: "VPN"}, domain.FindOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProvider)
}

func TestMatcherService_FindSimilar_DanglingSlot(t *testing.T) {
	store := setupTicketStore(t)
	index := &mockIndex{hits: []driven.VectorHit{{Slot: 7, Distance: 0.1}}}
	service := NewMatcherService(store, &mockEmbedder{}, index, "")
	require.NoError(t, service.BuildFromCorpus(context.Background()))

	_, err := service.FindSimilar(context.Background(), domain.MatchQuery{Issue: "VPN"}, domain.FindOptions{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}
