// Package hnsw provides the vector index adapter: an in-process
// hierarchical navigable small world graph over cosine distance.
//
// The index is built once over a full ticket corpus, persisted as a
// single gob-encoded file carrying its slot manifest, and then serves
// concurrent read-only queries. Vectors are unit-normalised on the way
// in, so cosine distance reduces to 1 minus the dot product.
package hnsw
