package memory

import (
	"context"
	"time"

	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/domain"
	gocache "github.com/patrickmn/go-cache"
)

// EmbeddingCacheRepo — хранилище эмбеддингов в памяти процесса.
// Используется при EMBEDDING_CACHE=memory: один инстанс без Redis.
// TTL и периодическая уборка истёкших записей держат размер кэша ограниченным.
type EmbeddingCacheRepo struct {
	cache *gocache.Cache
}

func NewEmbeddingCacheRepo(ttl time.Duration) *EmbeddingCacheRepo {
	return &EmbeddingCacheRepo{
		cache: gocache.New(ttl, ttl/2),
	}
}

func (r *EmbeddingCacheRepo) GetEmbedding(_ context.Context, key string) (*domain.Embedding, bool, error) {
	val, ok := r.cache.Get(key)
	if !ok {
		return nil, false, nil
	}

	embedding := val.(domain.Embedding)
	return &embedding, true, nil
}

func (r *EmbeddingCacheRepo) GetEmbeddings(_ context.Context, keys []string) (map[string]domain.Embedding, error) {
	result := make(map[string]domain.Embedding, len(keys))
	for _, key := range keys {
		if val, ok := r.cache.Get(key); ok {
			result[key] = val.(domain.Embedding)
		}
	}

	return result, nil
}

func (r *EmbeddingCacheRepo) SetEmbedding(_ context.Context, key string, embedding *domain.Embedding) error {
	r.cache.Set(key, *embedding, gocache.DefaultExpiration)
	return nil
}

func (r *EmbeddingCacheRepo) DeleteEmbeddings(_ context.Context, keys []string) error {
	for _, key := range keys {
		r.cache.Delete(key)
	}

	return nil
}
