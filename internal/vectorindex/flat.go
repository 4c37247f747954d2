// Package vectorindex holds the semantic index over document embeddings.
package vectorindex

import (
	"fmt"
	"math"
	"sort"
)

// Neighbor is one search hit: the document position in the corpus snapshot and
// its squared L2 distance to the query vector.
type Neighbor struct {
	Position int
	Distance float64
}

// FlatIndex performs exact nearest-neighbour search by scanning every vector.
// It is read-only after construction and safe for concurrent searches.
type FlatIndex struct {
	dim     int
	vectors []float32 // row-major, len == dim*count
	count   int
}

// NewFlatIndex builds an index from vectors that must all share one non-zero dimension.
func NewFlatIndex(vectors [][]float32) (*FlatIndex, error) {
	if len(vectors) == 0 {
		return &FlatIndex{}, nil
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("vector 0 is empty")
	}

	flat := make([]float32, 0, dim*len(vectors))
	for i, vec := range vectors {
		if len(vec) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, expected %d", i, len(vec), dim)
		}
		flat = append(flat, vec...)
	}

	return &FlatIndex{dim: dim, vectors: flat, count: len(vectors)}, nil
}

// Dim returns the vector dimension, or 0 for an empty index.
func (idx *FlatIndex) Dim() int {
	return idx.dim
}

// Len returns the number of indexed vectors.
func (idx *FlatIndex) Len() int {
	return idx.count
}

// Search returns up to k neighbours of query ordered by ascending distance.
// Equal distances keep corpus order.
func (idx *FlatIndex) Search(query []float32, k int) ([]Neighbor, error) {
	if k <= 0 || idx.count == 0 {
		return []Neighbor{}, nil
	}
	if len(query) != idx.dim {
		return nil, fmt.Errorf("query has dimension %d, index has %d", len(query), idx.dim)
	}

	neighbors := make([]Neighbor, idx.count)
	for pos := 0; pos < idx.count; pos++ {
		row := idx.vectors[pos*idx.dim : (pos+1)*idx.dim]
		neighbors[pos] = Neighbor{Position: pos, Distance: squaredL2(query, row)}
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Distance < neighbors[j].Distance
	})

	if k < len(neighbors) {
		neighbors = neighbors[:k]
	}
	return neighbors, nil
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	if math.IsNaN(sum) {
		return math.Inf(1)
	}
	return sum
}
