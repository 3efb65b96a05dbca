// Package index implements a flat L2 nearest-neighbor index over policy
// passages, persisted as a JSON snapshot and loaded read-only at startup.
package index

import (
	"errors"
	"math"
	"sort"

	"github.com/mkravets/claimlens/internal/model"
)

// Hit is a single nearest-neighbor result: the stored passage position and
// its L2 distance to the query, ascending distance order.
type Hit struct {
	Position int
	Distance float64
}

// Index holds passage vectors and the parallel passage store. Once built it
// is read-only; concurrent searches need no locking.
type Index struct {
	dimension int
	vectors   [][]float32
	passages  []model.Passage
}

// New creates an empty index for vectors of the given dimension
func New(dimension int) (*Index, error) {
	if dimension <= 0 {
		return nil, errors.New("invalid dimension")
	}
	return &Index{dimension: dimension}, nil
}

// Dimension returns the vector dimension
func (ix *Index) Dimension() int { return ix.dimension }

// Len returns the number of stored passages
func (ix *Index) Len() int { return len(ix.passages) }

// Add appends a passage and its vector to the index
func (ix *Index) Add(passage model.Passage, vector []float32) error {
	if len(vector) != ix.dimension {
		return errors.New("vector dimension mismatch")
	}
	ix.vectors = append(ix.vectors, vector)
	ix.passages = append(ix.passages, passage)
	return nil
}

// Passage returns the stored passage at the given position. ok is false when
// the position falls outside the stored corpus, which callers treat as a
// stale-index condition and skip.
func (ix *Index) Passage(position int) (model.Passage, bool) {
	if position < 0 || position >= len(ix.passages) {
		return model.Passage{}, false
	}
	return ix.passages[position], true
}

// Search returns up to k nearest stored vectors by L2 distance, ascending.
// A brute-force scan: corpus sizes here are small enough that an
// approximate structure would buy nothing.
func (ix *Index) Search(query []float32, k int) []Hit {
	if k <= 0 {
		k = 5
	}

	hits := make([]Hit, 0, len(ix.vectors))
	for i, v := range ix.vectors {
		hits = append(hits, Hit{Position: i, Distance: l2(query, v)})
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Distance != hits[b].Distance {
			return hits[a].Distance < hits[b].Distance
		}
		return hits[a].Position < hits[b].Position
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k]
}

// l2 computes Euclidean distance over the shorter prefix
func l2(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Similarity converts an L2 distance to a relevance score in (0,1]
func Similarity(distance float64) float64 {
	return 1 / (1 + distance)
}
