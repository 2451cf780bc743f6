package usecase

import (
	"context"
	"testing"

	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/domain"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDim = 4

func newTestBuilder(encoder EncoderInfra, cache EmbeddingCacheRepository) *EmbeddingBuilder {
	return NewEmbeddingBuilder(encoder, cache, testDim, nopLogger{})
}

func TestBuildProductEmbedding_EncodesNameAndDescription(t *testing.T) {
	encoder := newTableEncoder(map[string][]float32{
		"Кофеварка гейзерная на 6 чашек": {1, 0, 0, 0},
	})
	builder := newTestBuilder(encoder, newMemCache())

	product := domain.NewProduct("p1", "Кофеварка", "гейзерная на 6 чашек", 250000, "kitchen", nil)

	embedding, err := builder.BuildProductEmbedding(context.Background(), product)
	require.NoError(t, err)
	assert.Equal(t, "p1", embedding.ID)
	assert.Equal(t, []float32{1, 0, 0, 0}, embedding.Vector)
	assert.Equal(t, "test-encoder-v1", embedding.Payload["model_version"])
}

func TestBuildProductEmbedding_EmptyDescriptionAllowed(t *testing.T) {
	// Пустое описание — не ошибка: векторизуется только название
	encoder := newTableEncoder(map[string][]float32{
		"Кофеварка": {0, 1, 0, 0},
	})
	builder := newTestBuilder(encoder, newMemCache())

	product := domain.NewProduct("p1", "Кофеварка", "", 250000, "kitchen", nil)

	embedding, err := builder.BuildProductEmbedding(context.Background(), product)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 0, 0}, embedding.Vector)
}

func TestBuildProductEmbedding_Deterministic(t *testing.T) {
	encoder := newTableEncoder(map[string][]float32{
		"Кофеварка": {0.25, -0.5, 0.125, 1},
	})
	builder := newTestBuilder(encoder, newMemCache())
	product := domain.NewProduct("p1", "Кофеварка", "", 250000, "kitchen", nil)

	first, err := builder.BuildProductEmbedding(context.Background(), product)
	require.NoError(t, err)
	second, err := builder.BuildProductEmbedding(context.Background(), product)
	require.NoError(t, err)

	assert.Equal(t, first.Vector, second.Vector)
}

func TestBuildProductEmbedding_DimensionMismatch(t *testing.T) {
	encoder := newTableEncoder(map[string][]float32{
		"Кофеварка": {1, 0}, // энкодер вернул вектор не той размерности
	})
	builder := newTestBuilder(encoder, newMemCache())
	product := domain.NewProduct("p1", "Кофеварка", "", 250000, "kitchen", nil)

	_, err := builder.BuildProductEmbedding(context.Background(), product)
	require.ErrorIs(t, err, e.ErrDimensionMismatch)
}

func TestBuildProductEmbedding_EncoderFailurePropagates(t *testing.T) {
	encoder := newTableEncoder(nil) // любая векторизация упадет
	builder := newTestBuilder(encoder, newMemCache())
	product := domain.NewProduct("p1", "Кофеварка", "", 250000, "kitchen", nil)

	_, err := builder.BuildProductEmbedding(context.Background(), product)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encoder")
}

func TestComputeUserEmbedding_EmptyHistoryColdStart(t *testing.T) {
	builder := newTestBuilder(newTableEncoder(nil), newMemCache())

	embedding, err := builder.ComputeUserEmbedding(context.Background(), "u1", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ZeroVector(testDim), embedding.Vector)
	assert.True(t, domain.IsZero(embedding.Vector))
}

func TestComputeUserEmbedding_UnknownProductsColdStart(t *testing.T) {
	// История есть, но ни один товар не имеет эмбеддинга в хранилище
	builder := newTestBuilder(newTableEncoder(nil), newMemCache())

	history := []domain.PurchaseRecord{
		*domain.NewPurchaseRecord("u1", "ghost-1", 1, 100),
		*domain.NewPurchaseRecord("u1", "ghost-2", 2, 200),
	}

	embedding, err := builder.ComputeUserEmbedding(context.Background(), "u1", history)
	require.NoError(t, err)
	assert.True(t, domain.IsZero(embedding.Vector))
}

func TestComputeUserEmbedding_MeanOfKnownProducts(t *testing.T) {
	cache := newMemCache()
	ctx := context.Background()

	require.NoError(t, cache.SetEmbedding(ctx, ProductCacheKey("p1"), domain.NewEmbedding("p1", []float32{1, 0, 0, 0}, nil)))
	require.NoError(t, cache.SetEmbedding(ctx, ProductCacheKey("p2"), domain.NewEmbedding("p2", []float32{0, 1, 0, 0}, nil)))

	builder := newTestBuilder(newTableEncoder(nil), cache)

	history := []domain.PurchaseRecord{
		*domain.NewPurchaseRecord("u1", "p1", 1, 100),
		*domain.NewPurchaseRecord("u1", "p2", 1, 100),
		*domain.NewPurchaseRecord("u1", "ghost", 1, 100), // пропускается
	}

	embedding, err := builder.ComputeUserEmbedding(ctx, "u1", history)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5, 0, 0}, embedding.Vector)
	assert.Equal(t, 2, embedding.Payload["source_products"])
}

func TestComputeUserEmbedding_CachedDimensionMismatchFatal(t *testing.T) {
	cache := newMemCache()
	ctx := context.Background()
	require.NoError(t, cache.SetEmbedding(ctx, ProductCacheKey("p1"), domain.NewEmbedding("p1", []float32{1, 0}, nil)))

	builder := newTestBuilder(newTableEncoder(nil), cache)
	history := []domain.PurchaseRecord{*domain.NewPurchaseRecord("u1", "p1", 1, 100)}

	_, err := builder.ComputeUserEmbedding(ctx, "u1", history)
	require.ErrorIs(t, err, e.ErrDimensionMismatch)
}

func TestBuildUserEmbedding_CacheFirst(t *testing.T) {
	cache := newMemCache()
	ctx := context.Background()

	cachedVector := []float32{0.1, 0.2, 0.3, 0.4}
	require.NoError(t, cache.SetEmbedding(ctx, UserCacheKey("u1"), domain.NewEmbedding("u1", cachedVector, nil)))

	builder := newTestBuilder(newTableEncoder(nil), cache)

	// История намеренно противоречит кэшу: cache-first обязан вернуть кэш
	embedding, fromCache, err := builder.BuildUserEmbedding(ctx, "u1", nil)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, cachedVector, embedding.Vector)
}

func TestBuildUserEmbedding_CachedWrongDimTreatedAsMiss(t *testing.T) {
	cache := newMemCache()
	ctx := context.Background()

	// Вектор вдвое большей размерности остался от прежней конфигурации энкодера
	stale := []float32{0, 1, 0, 0, 0, 0, 0, 0}
	require.NoError(t, cache.SetEmbedding(ctx, UserCacheKey("u1"), domain.NewEmbedding("u1", stale, nil)))

	builder := newTestBuilder(newTableEncoder(nil), cache)

	embedding, fromCache, err := builder.BuildUserEmbedding(ctx, "u1", nil)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Len(t, embedding.Vector, builder.Dim())

	// Битая запись выкинута из кэша
	_, ok, err := cache.GetEmbedding(ctx, UserCacheKey("u1"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBuildUserEmbedding_CacheMissComputes(t *testing.T) {
	builder := newTestBuilder(newTableEncoder(nil), newMemCache())

	embedding, fromCache, err := builder.BuildUserEmbedding(context.Background(), "u1", nil)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.True(t, domain.IsZero(embedding.Vector))
}

func TestBuildUserEmbedding_CacheReadFailureNotFatal(t *testing.T) {
	cache := newMemCache()
	cache.failReads = true
	builder := newTestBuilder(newTableEncoder(nil), cache)

	// GetEmbeddings истории тоже падает, но история пуста — запрос в кэш не уходит
	embedding, fromCache, err := builder.BuildUserEmbedding(context.Background(), "u1", nil)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.True(t, domain.IsZero(embedding.Vector))
}
