package rag

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubEmbedder maps known texts to fixed vectors and fails on anything else.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (e *stubEmbedder) Embed(_ context.Context, texts []string, _ string) ([][]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vec, ok := e.vectors[text]
		if !ok {
			return nil, fmt.Errorf("no stub vector for %q", text)
		}
		out = append(out, vec)
	}
	return out, nil
}

func makeSegments(texts ...string) []Segment {
	segments := make([]Segment, 0, len(texts))
	for i, text := range texts {
		segments = append(segments, Segment{ID: i, Text: text, Length: len(text)})
	}
	return segments
}

func TestBuildIndex_EmptySegments(t *testing.T) {
	_, err := BuildIndex(context.Background(), &stubEmbedder{}, nil)
	require.ErrorIs(t, err, ErrEmptyDocument)
}

func TestBuildIndex_OneVectorPerSegment(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"alpha": {1, 0, 0},
		"beta":  {0, 1, 0},
		"gamma": {0, 0, 1},
		"delta": {1, 1, 0},
		"omega": {0, 1, 1},
	}}
	idx, err := BuildIndex(context.Background(), embedder, makeSegments("alpha", "beta", "gamma", "delta", "omega"))
	require.NoError(t, err)
	require.Equal(t, 5, idx.Len())
	require.Equal(t, 3, idx.Dimension())
}

func TestBuildIndex_ProviderFailure(t *testing.T) {
	boom := errors.New("quota exceeded")
	_, err := BuildIndex(context.Background(), &stubEmbedder{err: boom}, makeSegments("alpha"))
	require.ErrorIs(t, err, boom)
}

func TestBuildIndex_DimensionMismatch(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"alpha": {1, 0, 0},
		"beta":  {0, 1},
	}}
	_, err := BuildIndex(context.Background(), embedder, makeSegments("alpha", "beta"))
	require.Error(t, err)
}

func TestIndexSearch_AscendingDistance(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"near":    {1, 0, 0},
		"nearer":  {2, 0, 0},
		"far":     {9, 0, 0},
		"farther": {12, 0, 0},
	}}
	idx, err := BuildIndex(context.Background(), embedder, makeSegments("near", "nearer", "far", "farther"))
	require.NoError(t, err)

	hits, err := idx.Search([]float32{2, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	require.Equal(t, "nearer", hits[0].Segment.Text)
	require.Equal(t, float64(0), hits[0].Distance)
	require.Equal(t, "near", hits[1].Segment.Text)
	require.Less(t, hits[0].Distance, hits[1].Distance)
}

func TestIndexSearch_KClampedToCorpus(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"a": {1, 0},
		"b": {0, 1},
	}}
	idx, err := BuildIndex(context.Background(), embedder, makeSegments("a", "b"))
	require.NoError(t, err)

	hits, err := idx.Search([]float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
}

func TestIndexSearch_TiesBrokenByDocumentOrder(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"late":  {0, 1},
		"early": {1, 0},
	}}
	// "late" is indexed first but both are equidistant from the query;
	// the earlier segment ID must win.
	idx, err := BuildIndex(context.Background(), embedder, makeSegments("late", "early"))
	require.NoError(t, err)

	hits, err := idx.Search([]float32{0.5, 0.5}, 2)
	require.NoError(t, err)
	require.Equal(t, "late", hits[0].Segment.Text)
	require.Equal(t, "early", hits[1].Segment.Text)
}

func TestIndexSearch_RejectsBadQuery(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{"a": {1, 0}}}
	idx, err := BuildIndex(context.Background(), embedder, makeSegments("a"))
	require.NoError(t, err)

	_, err = idx.Search([]float32{1, 0, 0}, 1)
	require.Error(t, err)

	_, err = idx.Search([]float32{1, 0}, 0)
	require.Error(t, err)
}
