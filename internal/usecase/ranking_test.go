package usecase

import (
	"context"
	"testing"

	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/domain"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRanker(encoder EncoderInfra, cache EmbeddingCacheRepository) *RankingEngine {
	return NewRankingEngine(newTestBuilder(encoder, cache), cache, nopLogger{})
}

func TestCosineSimilarity_Symmetric(t *testing.T) {
	a := []float32{0.3, -0.7, 0.1, 0.9}
	b := []float32{-0.2, 0.4, 0.8, 0.05}

	assert.Equal(t, cosineSimilarity(a, b), cosineSimilarity(b, a))
}

func TestCosineSimilarity_Bounded(t *testing.T) {
	vectors := [][]float32{
		{1, 0, 0, 0},
		{-1, 0, 0, 0},
		{0.5, 0.5, 0.5, 0.5},
		{3, -2, 7, 0.1},
	}

	for _, a := range vectors {
		for _, b := range vectors {
			sim := cosineSimilarity(a, b)
			assert.GreaterOrEqual(t, sim, -1.0000001)
			assert.LessOrEqual(t, sim, 1.0000001)
		}
	}
}

func TestCosineSimilarity_CollinearAndOpposite(t *testing.T) {
	a := []float32{1, 2, 3, 4}
	double := []float32{2, 4, 6, 8}
	opposite := []float32{-1, -2, -3, -4}

	assert.InDelta(t, 1, cosineSimilarity(a, double), 1e-9)
	assert.InDelta(t, -1, cosineSimilarity(a, opposite), 1e-9)
}

func TestCosineSimilarity_ZeroNormIsZero(t *testing.T) {
	zero := []float32{0, 0, 0, 0}
	a := []float32{1, 0, 0, 0}

	assert.Equal(t, 0.0, cosineSimilarity(zero, a))
	assert.Equal(t, 0.0, cosineSimilarity(a, zero))
	assert.Equal(t, 0.0, cosineSimilarity(zero, zero))
}

func cacheProductVector(t *testing.T, cache EmbeddingCacheRepository, id string, vector []float32) {
	t.Helper()
	require.NoError(t, cache.SetEmbedding(context.Background(), ProductCacheKey(id), domain.NewEmbedding(id, vector, nil)))
}

func TestRank_ExcludesPurchased(t *testing.T) {
	cache := newMemCache()
	cacheProductVector(t, cache, "p1", []float32{1, 0, 0, 0})
	cacheProductVector(t, cache, "p2", []float32{0, 1, 0, 0})

	ranker := newTestRanker(newTableEncoder(nil), cache)
	candidates := []domain.Product{testProduct("p1", "A"), testProduct("p2", "B")}
	exclude := map[string]struct{}{"p1": {}}

	recs, err := ranker.Rank(context.Background(), []float32{1, 0, 0, 0}, candidates, exclude, 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "p2", recs[0].ProductID)
}

func TestRank_LengthIsMinOfLimitAndFiltered(t *testing.T) {
	cache := newMemCache()
	for _, id := range []string{"p1", "p2", "p3"} {
		cacheProductVector(t, cache, id, []float32{1, 0, 0, 0})
	}

	ranker := newTestRanker(newTableEncoder(nil), cache)
	candidates := []domain.Product{testProduct("p1", "A"), testProduct("p2", "B"), testProduct("p3", "C")}

	recs, err := ranker.Rank(context.Background(), []float32{1, 0, 0, 0}, candidates, nil, 2)
	require.NoError(t, err)
	assert.Len(t, recs, 2)

	// limit больше числа кандидатов — возвращается все без ошибки
	recs, err = ranker.Rank(context.Background(), []float32{1, 0, 0, 0}, candidates, nil, 50)
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}

func TestRank_SortedDescendingStableTies(t *testing.T) {
	cache := newMemCache()
	cacheProductVector(t, cache, "far", []float32{0, 1, 0, 0})
	// Два кандидата с одинаковым score: порядок входа должен сохраниться
	cacheProductVector(t, cache, "tie-first", []float32{1, 0, 0, 0})
	cacheProductVector(t, cache, "tie-second", []float32{2, 0, 0, 0})

	ranker := newTestRanker(newTableEncoder(nil), cache)
	candidates := []domain.Product{
		testProduct("far", "Far"),
		testProduct("tie-first", "T1"),
		testProduct("tie-second", "T2"),
	}

	recs, err := ranker.Rank(context.Background(), []float32{1, 0, 0, 0}, candidates, nil, 10)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, "tie-first", recs[0].ProductID)
	assert.Equal(t, "tie-second", recs[1].ProductID)
	assert.Equal(t, "far", recs[2].ProductID)

	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Score, recs[i].Score)
	}
}

func TestRank_BuildsMissingAndCaches(t *testing.T) {
	cache := newMemCache()
	encoder := newTableEncoder(map[string][]float32{
		"Fresh": {0, 0, 1, 0},
	})

	ranker := newTestRanker(encoder, cache)
	candidates := []domain.Product{testProduct("fresh", "Fresh")}

	recs, err := ranker.Rank(context.Background(), []float32{0, 0, 1, 0}, candidates, nil, 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.InDelta(t, 1, recs[0].Score, 1e-9)

	// Построенный на лету эмбеддинг должен осесть в хранилище
	_, ok, err := cache.GetEmbedding(context.Background(), ProductCacheKey("fresh"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRank_SkipsCandidateOnBuildFailure(t *testing.T) {
	cache := newMemCache()
	cacheProductVector(t, cache, "good", []float32{1, 0, 0, 0})
	// Для "Broken" у энкодера нет вектора — построение упадет, кандидат пропускается

	ranker := newTestRanker(newTableEncoder(nil), cache)
	candidates := []domain.Product{testProduct("broken", "Broken"), testProduct("good", "Good")}

	recs, err := ranker.Rank(context.Background(), []float32{1, 0, 0, 0}, candidates, nil, 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "good", recs[0].ProductID)
}

func TestRank_ColdStartUserScoresZero(t *testing.T) {
	cache := newMemCache()
	cacheProductVector(t, cache, "p1", []float32{1, 0, 0, 0})

	ranker := newTestRanker(newTableEncoder(nil), cache)
	candidates := []domain.Product{testProduct("p1", "A")}

	recs, err := ranker.Rank(context.Background(), domain.ZeroVector(testDim), candidates, nil, 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 0.0, recs[0].Score)
}

func TestRank_NonPositiveLimitRejected(t *testing.T) {
	ranker := newTestRanker(newTableEncoder(nil), newMemCache())

	_, err := ranker.Rank(context.Background(), []float32{1, 0, 0, 0}, nil, nil, 0)
	require.ErrorIs(t, err, e.ErrLimitMustBePositive)

	_, err = ranker.Rank(context.Background(), []float32{1, 0, 0, 0}, nil, nil, -3)
	require.ErrorIs(t, err, e.ErrLimitMustBePositive)
}

func TestRank_EmptyAfterFilterReturnsEmpty(t *testing.T) {
	ranker := newTestRanker(newTableEncoder(nil), newMemCache())
	candidates := []domain.Product{testProduct("p1", "A")}

	recs, err := ranker.Rank(context.Background(), []float32{1, 0, 0, 0}, candidates, map[string]struct{}{"p1": {}}, 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
