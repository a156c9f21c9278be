package rag

import (
	"context"
	"fmt"
	"sort"
)

// Embedder turns texts into fixed-dimension vectors. Query and document
// vectors must come from the same embedder so they share one vector space.
type Embedder interface {
	Embed(ctx context.Context, texts []string, taskType string) ([][]float32, error)
}

// Gemini embedding task type hints; other providers may ignore them.
const (
	TaskTypeDocument = "RETRIEVAL_DOCUMENT"
	TaskTypeQuery    = "RETRIEVAL_QUERY"
)

// Index is an immutable flat vector index over the segments of one document.
// It holds exactly one vector per segment, vectors[i] belonging to
// segments[i]. Search is an exhaustive squared-L2 scan, which is fine at the
// few-hundred-segment scale a single document produces.
type Index struct {
	segments  []Segment
	vectors   [][]float32
	dimension int
}

// BuildIndex embeds the given segments and assembles an index from them.
// The embedder call is the only external dependency; its failure is wrapped
// and propagated so the caller can keep serving a previously built index.
func BuildIndex(ctx context.Context, embedder Embedder, segments []Segment) (*Index, error) {
	if len(segments) == 0 {
		return nil, ErrEmptyDocument
	}
	texts := make([]string, 0, len(segments))
	for _, seg := range segments {
		texts = append(texts, seg.Text)
	}
	vectors, err := embedder.Embed(ctx, texts, TaskTypeDocument)
	if err != nil {
		return nil, fmt.Errorf("embed %d segments: %w", len(segments), err)
	}
	if len(vectors) != len(segments) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d segments", len(vectors), len(segments))
	}
	dimension := len(vectors[0])
	if dimension == 0 {
		return nil, fmt.Errorf("embedder returned empty vectors")
	}
	for i, vec := range vectors {
		if len(vec) != dimension {
			return nil, fmt.Errorf("vector %d has dimension %d, expected %d", i, len(vec), dimension)
		}
	}
	return &Index{
		segments:  segments,
		vectors:   vectors,
		dimension: dimension,
	}, nil
}

func (idx *Index) Len() int {
	return len(idx.segments)
}

func (idx *Index) Dimension() int {
	return idx.dimension
}

// ScoredSegment pairs a segment with its squared-L2 distance to the query.
// Smaller distance means more similar.
type ScoredSegment struct {
	Segment  Segment
	Distance float64
}

// Search returns the k segments nearest to the query vector, most similar
// first. k is clamped to the corpus size. Ties are broken by segment ID so
// results stay deterministic. The index is never mutated.
func (idx *Index) Search(query []float32, k int) ([]ScoredSegment, error) {
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("query dimension %d does not match index dimension %d", len(query), idx.dimension)
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if k > len(idx.segments) {
		k = len(idx.segments)
	}

	scored := make([]ScoredSegment, 0, len(idx.segments))
	for i, vec := range idx.vectors {
		scored = append(scored, ScoredSegment{
			Segment:  idx.segments[i],
			Distance: squaredL2(query, vec),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Distance != scored[j].Distance {
			return scored[i].Distance < scored[j].Distance
		}
		return scored[i].Segment.ID < scored[j].Segment.ID
	})
	return scored[:k], nil
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
