package hnsw

import (
	"container/heap"
	"math"
	"math/rand"
	"sort"
)

// hit pairs a slot with its distance to some query vector.
type hit struct {
	slot int32
	dist float32
}

// graph is the navigable small world structure underneath Index.
// It operates on unit-normalised vectors only; cosine distance is then
// 1 minus the dot product. The zero slot is assigned to the first
// inserted vector and slots grow densely in insertion order.
type graph struct {
	m              int
	mMax0          int
	efConstruction int
	levelMult      float64
	rng            *rand.Rand

	vectors    [][]float32
	levels     []int
	links      [][][]int32 // links[slot][layer] holds neighbour slots
	entryPoint int
	maxLevel   int
}

func newGraph(m, efConstruction int, seed int64) *graph {
	return &graph{
		m:              m,
		mMax0:          2 * m,
		efConstruction: efConstruction,
		levelMult:      1 / math.Log(float64(m)),
		rng:            rand.New(rand.NewSource(seed)),
		entryPoint:     -1,
		maxLevel:       -1,
	}
}

func (g *graph) len() int {
	return len(g.vectors)
}

// randomLevel draws a layer for a new node with exponentially decaying
// probability, the standard HNSW level distribution.
func (g *graph) randomLevel() int {
	r := g.rng.Float64()
	for r == 0 {
		r = g.rng.Float64()
	}
	return int(-math.Log(r) * g.levelMult)
}

// dot assumes both vectors are unit length.
func dot(a, b []float32) float32 {
	var s float32
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func (g *graph) distance(slot int, q []float32) float32 {
	return 1 - dot(g.vectors[slot], q)
}

// insert adds an already-normalised vector as the next slot.
func (g *graph) insert(vec []float32) {
	node := len(g.vectors)
	level := g.randomLevel()

	g.vectors = append(g.vectors, vec)
	g.levels = append(g.levels, level)
	g.links = append(g.links, make([][]int32, level+1))

	if g.entryPoint < 0 {
		g.entryPoint = node
		g.maxLevel = level
		return
	}

	ep := g.entryPoint
	for layer := g.maxLevel; layer > level; layer-- {
		ep = g.greedyClosest(vec, ep, layer)
	}

	top := level
	if g.maxLevel < top {
		top = g.maxLevel
	}
	for layer := top; layer >= 0; layer-- {
		candidates := g.searchLayer(vec, ep, g.efConstruction, layer)
		neighbours := g.selectNeighbours(vec, candidates, g.m)
		g.links[node][layer] = neighbours

		maxConn := g.m
		if layer == 0 {
			maxConn = g.mMax0
		}
		for _, n := range neighbours {
			g.links[n][layer] = append(g.links[n][layer], int32(node))
			if len(g.links[n][layer]) > maxConn {
				g.shrink(int(n), layer, maxConn)
			}
		}
		if len(candidates) > 0 {
			ep = int(candidates[0].slot)
		}
	}

	if level > g.maxLevel {
		g.maxLevel = level
		g.entryPoint = node
	}
}

// greedyClosest walks one layer towards the query until no neighbour
// improves on the current distance.
func (g *graph) greedyClosest(q []float32, ep, layer int) int {
	cur := ep
	curDist := g.distance(cur, q)
	for {
		improved := false
		for _, n := range g.links[cur][layer] {
			if d := g.distance(int(n), q); d < curDist {
				cur = int(n)
				curDist = d
				improved = true
			}
		}
		if !improved {
			return cur
		}
	}
}

// searchLayer runs a best-first search on one layer and returns up to ef
// results ordered by ascending distance.
func (g *graph) searchLayer(q []float32, ep, ef, layer int) []hit {
	entry := hit{slot: int32(ep), dist: g.distance(ep, q)}

	candidates := minHits{entry}
	results := maxHits{entry}
	visited := make([]bool, len(g.vectors))
	visited[ep] = true

	for candidates.Len() > 0 {
		c := heap.Pop(&candidates).(hit)
		if c.dist > results[0].dist && results.Len() >= ef {
			break
		}
		for _, n := range g.links[c.slot][layer] {
			if visited[n] {
				continue
			}
			visited[n] = true
			d := g.distance(int(n), q)
			if results.Len() < ef || d < results[0].dist {
				heap.Push(&candidates, hit{slot: n, dist: d})
				heap.Push(&results, hit{slot: n, dist: d})
				if results.Len() > ef {
					heap.Pop(&results)
				}
			}
		}
	}

	out := make([]hit, results.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&results).(hit)
	}
	return out
}

// selectNeighbours applies the diversity heuristic: walking candidates in
// ascending distance order, a candidate is kept only while it is closer
// to the query than to every neighbour already kept.
func (g *graph) selectNeighbours(q []float32, candidates []hit, m int) []int32 {
	if len(candidates) <= m {
		out := make([]int32, len(candidates))
		for i, c := range candidates {
			out[i] = c.slot
		}
		return out
	}

	selected := make([]hit, 0, m)
	for _, c := range candidates {
		if len(selected) >= m {
			break
		}
		keep := true
		for _, s := range selected {
			if 1-dot(g.vectors[c.slot], g.vectors[s.slot]) < c.dist {
				keep = false
				break
			}
		}
		if keep {
			selected = append(selected, c)
		}
	}

	out := make([]int32, len(selected))
	for i, s := range selected {
		out[i] = s.slot
	}
	return out
}

// shrink re-selects a node's neighbour list after it grew past maxConn.
func (g *graph) shrink(node, layer, maxConn int) {
	current := g.links[node][layer]
	candidates := make([]hit, len(current))
	for i, n := range current {
		candidates[i] = hit{slot: n, dist: g.distance(int(n), g.vectors[node])}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})
	g.links[node][layer] = g.selectNeighbours(g.vectors[node], candidates, maxConn)
}

// search returns the k nearest slots to an already-normalised query,
// ordered by ascending distance. ef bounds the level-0 candidate list
// and is raised to k when smaller.
func (g *graph) search(q []float32, k, ef int) []hit {
	if g.entryPoint < 0 {
		return nil
	}
	ep := g.entryPoint
	for layer := g.maxLevel; layer > 0; layer-- {
		ep = g.greedyClosest(q, ep, layer)
	}
	if ef < k {
		ef = k
	}
	results := g.searchLayer(q, ep, ef, 0)
	if len(results) > k {
		results = results[:k]
	}
	return results
}

// minHits is a min-heap of hits by distance.
type minHits []hit

func (h minHits) Len() int { return len(h) }

func (h minHits) Less(i, j int) bool { return h[i].dist < h[j].dist }

func (h minHits) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *minHits) Push(x any) { *h = append(*h, x.(hit)) }

func (h *minHits) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// maxHits is a max-heap of hits by distance.
type maxHits []hit

func (h maxHits) Len() int { return len(h) }

func (h maxHits) Less(i, j int) bool { return h[i].dist > h[j].dist }

func (h maxHits) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *maxHits) Push(x any) { *h = append(*h, x.(hit)) }

func (h *maxHits) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
