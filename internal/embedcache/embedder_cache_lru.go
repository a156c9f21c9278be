package embedcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/kesona/askhub/internal/ai"
)

// WrapLruCacheToEmbedder memoizes per-text embeddings in front of an
// embedder. Within one batch, cached texts are served from memory and only
// the misses go to the provider in a single call.
func WrapLruCacheToEmbedder(e ai.IEmbedder, size int, ttl time.Duration) ai.IEmbedder {
	if e == nil || size <= 0 || ttl <= 0 {
		return e
	}
	return &lruEmbedder{
		next:  e,
		cache: expirable.NewLRU[string, []float32](size, nil, ttl),
	}
}

type lruEmbedder struct {
	next  ai.IEmbedder
	cache *expirable.LRU[string, []float32]
}

func (l *lruEmbedder) Embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	var missTexts []string
	var missIdx []int
	for i, text := range texts {
		key := l.cacheKey(taskType, text)
		if cached, ok := l.cache.Get(key); ok {
			result[i] = cloneEmbedding(cached)
			continue
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}
	if len(missTexts) == 0 {
		logutil.GetLogger(ctx).Debug("embedding batch fully cached", zap.Int("texts", len(texts)))
		return result, nil
	}
	embedded, err := l.next.Embed(ctx, missTexts, taskType)
	if err != nil {
		return nil, err
	}
	if len(embedded) != len(missTexts) {
		logutil.GetLogger(ctx).Warn("embedder returned unexpected batch size",
			zap.Int("want", len(missTexts)), zap.Int("got", len(embedded)))
		return l.next.Embed(ctx, texts, taskType)
	}
	for j, vec := range embedded {
		i := missIdx[j]
		result[i] = vec
		l.cache.Add(l.cacheKey(taskType, texts[i]), cloneEmbedding(vec))
	}
	logutil.GetLogger(ctx).Debug("embedding batch resolved",
		zap.Int("texts", len(texts)), zap.Int("misses", len(missTexts)))
	return result, nil
}

func (l *lruEmbedder) ModelName() string {
	return l.next.ModelName()
}

func (l *lruEmbedder) cacheKey(taskType, text string) string {
	hash := sha256.Sum256([]byte(text))
	return l.next.ModelName() + ":" + taskType + ":" + hex.EncodeToString(hash[:])
}

func cloneEmbedding(values []float32) []float32 {
	if len(values) == 0 {
		return nil
	}
	clone := make([]float32, len(values))
	copy(clone, values)
	return clone
}
