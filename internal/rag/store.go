package rag

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// ContextSeparator joins retrieved segment texts into prompt context. The
// downstream model needs a visible boundary to tell segments apart.
const ContextSeparator = "\n\n---\n\n"

// Store owns the process-wide document index. A build assembles a complete
// Index off to the side and publishes it with one atomic pointer swap, so a
// concurrent search either sees the previous fully formed index or the new
// one, never a half-built state. Racing builds resolve to last writer wins.
type Store struct {
	segmenter *Segmenter
	embedder  Embedder
	current   atomic.Pointer[Index]
}

func NewStore(segmenter *Segmenter, embedder Embedder) *Store {
	return &Store{
		segmenter: segmenter,
		embedder:  embedder,
	}
}

// Build replaces the current index with one built from text. On any failure,
// including a document with no usable content, the previous index stays
// untouched and keeps serving searches.
func (s *Store) Build(ctx context.Context, text string) error {
	logger := logutil.GetLogger(ctx)
	segments := s.segmenter.Split(text)
	if len(segments) == 0 {
		return ErrEmptyDocument
	}
	idx, err := BuildIndex(ctx, s.embedder, segments)
	if err != nil {
		return err
	}
	s.current.Store(idx)
	logger.Info("document index replaced",
		zap.Int("segments", idx.Len()),
		zap.Int("dimension", idx.Dimension()),
	)
	return nil
}

// Ready reports whether a document has been indexed.
func (s *Store) Ready() bool {
	return s.current.Load() != nil
}

// Search embeds the query once and returns the texts of the k most similar
// segments, most similar first. Before the first successful Build it fails
// with ErrNotReady, which callers surface as "upload a document first".
func (s *Store) Search(ctx context.Context, query string, k int) ([]string, error) {
	idx := s.current.Load()
	if idx == nil {
		return nil, ErrNotReady
	}
	vectors, err := s.embedder.Embed(ctx, []string{query}, TaskTypeQuery)
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedder returned no vector for query")
	}
	scored, err := idx.Search(vectors[0], k)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(scored))
	for _, hit := range scored {
		texts = append(texts, hit.Segment.Text)
	}
	return texts, nil
}

// SearchContext is Search with the results joined for prompt assembly.
func (s *Store) SearchContext(ctx context.Context, query string, k int) (string, error) {
	texts, err := s.Search(ctx, query, k)
	if err != nil {
		return "", err
	}
	return strings.Join(texts, ContextSeparator), nil
}
