package usecase

import (
	"context"
	"testing"

	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/domain"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Сценарные тесты собирают фасад целиком на фейках.
// Пути с транзакцией БД (UpdateProductEmbedding, RegisterNewProduct)
// покрываются интеграционно и здесь не собираются.

type recFixture struct {
	uc        *RecommendationUseCase
	purchases *stubPurchaseRepo
	products  *stubProductRepo
	cache     *memCache
	encoder   *tableEncoder
}

func newRecFixture(encoder *tableEncoder) *recFixture {
	cache := newMemCache()
	builder := newTestBuilder(encoder, cache)
	ranker := NewRankingEngine(builder, cache, nopLogger{})
	purchases := newStubPurchaseRepo()
	products := &stubProductRepo{}

	uc := NewRecommendationUC(
		purchases,
		products,
		builder,
		ranker,
		cache,
		NewNoopVectorIndex(),
		NewNoopOutbox(),
		nil, // пул БД не нужен: тестируемые пути не открывают транзакцию
		10,
		200,
		nopLogger{},
	)

	return &recFixture{
		uc:        uc,
		purchases: purchases,
		products:  products,
		cache:     cache,
		encoder:   encoder,
	}
}

func TestGetRecommendations_PurchasedExcludedFromResult(t *testing.T) {
	// Пользователь купил P1; кандидаты P1 и P2 с ортогональными векторами.
	// В выдаче только P2, со score 0 (вектор пользователя = вектору P1).
	f := newRecFixture(newTableEncoder(nil))
	ctx := context.Background()

	cacheProductVector(t, f.cache, "p1", []float32{1, 0, 0, 0})
	cacheProductVector(t, f.cache, "p2", []float32{0, 1, 0, 0})
	f.products.candidates = []domain.Product{testProduct("p1", "A"), testProduct("p2", "B")}

	require.NoError(t, f.purchases.Create(ctx, domain.NewPurchaseRecord("u1", "p1", 1, 1000)))

	recs, err := f.uc.GetRecommendations(ctx, NewGetRecommendationsReq("u1", 0, nil))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "p2", recs[0].ProductID)
	assert.InDelta(t, 0, recs[0].Score, 1e-9)
}

func TestGetRecommendations_NoCandidatesIsEmptyNotError(t *testing.T) {
	f := newRecFixture(newTableEncoder(nil))

	recs, err := f.uc.GetRecommendations(context.Background(), NewGetRecommendationsReq("u1", 0, nil))
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestGetRecommendations_FewerCandidatesThanLimit(t *testing.T) {
	f := newRecFixture(newTableEncoder(nil))

	cacheProductVector(t, f.cache, "p1", []float32{1, 0, 0, 0})
	cacheProductVector(t, f.cache, "p2", []float32{0, 1, 0, 0})
	f.products.candidates = []domain.Product{testProduct("p1", "A"), testProduct("p2", "B")}

	recs, err := f.uc.GetRecommendations(context.Background(), NewGetRecommendationsReq("u1", 5, nil))
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestGetRecommendations_CachesComputedUserEmbedding(t *testing.T) {
	f := newRecFixture(newTableEncoder(nil))
	ctx := context.Background()

	cacheProductVector(t, f.cache, "p1", []float32{1, 0, 0, 0})
	f.products.candidates = []domain.Product{testProduct("p1", "A")}

	_, ok, err := f.cache.GetEmbedding(ctx, UserCacheKey("u1"))
	require.NoError(t, err)
	require.False(t, ok)

	_, err = f.uc.GetRecommendations(ctx, NewGetRecommendationsReq("u1", 0, nil))
	require.NoError(t, err)

	// Побочный эффект: вычисленный вектор пользователя осел в кэше
	_, ok, err = f.cache.GetEmbedding(ctx, UserCacheKey("u1"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGetRecommendations_UsesCachedUserEmbedding(t *testing.T) {
	// Кэш пользователя указывает на P2, хотя истории покупок нет вовсе.
	// cache-first путь обязан ранжировать по кэшированному вектору.
	f := newRecFixture(newTableEncoder(nil))
	ctx := context.Background()

	cacheProductVector(t, f.cache, "p1", []float32{1, 0, 0, 0})
	cacheProductVector(t, f.cache, "p2", []float32{0, 1, 0, 0})
	f.products.candidates = []domain.Product{testProduct("p1", "A"), testProduct("p2", "B")}

	require.NoError(t, f.cache.SetEmbedding(ctx, UserCacheKey("u1"), domain.NewEmbedding("u1", []float32{0, 1, 0, 0}, nil)))

	recs, err := f.uc.GetRecommendations(ctx, NewGetRecommendationsReq("u1", 0, nil))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "p2", recs[0].ProductID)
}

func TestGetRecommendations_CachedUserVectorWrongDimRecomputed(t *testing.T) {
	// В кэше остался вектор пользователя другой размерности (смена
	// конфигурации энкодера между деплоями). Он не должен доходить до
	// ранжирования: вектор пересчитывается из истории, а запись в кэше
	// заменяется на вектор актуальной размерности.
	f := newRecFixture(newTableEncoder(nil))
	ctx := context.Background()

	cacheProductVector(t, f.cache, "p1", []float32{1, 0, 0, 0})
	cacheProductVector(t, f.cache, "p2", []float32{0, 1, 0, 0})
	f.products.candidates = []domain.Product{testProduct("p1", "A"), testProduct("p2", "B")}

	stale := []float32{0, 1, 0, 0, 0, 0, 0, 0}
	require.NoError(t, f.cache.SetEmbedding(ctx, UserCacheKey("u1"), domain.NewEmbedding("u1", stale, nil)))

	require.NoError(t, f.purchases.Create(ctx, domain.NewPurchaseRecord("u1", "p1", 1, 1000)))

	recs, err := f.uc.GetRecommendations(ctx, NewGetRecommendationsReq("u1", 0, nil))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "p2", recs[0].ProductID)

	embedding, ok, err := f.cache.GetEmbedding(ctx, UserCacheKey("u1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float32{1, 0, 0, 0}, embedding.Vector)
}

// interposeCache подкладывает вектор пользователя между cache-first чтением
// и отложенной записью, имитируя конкурентный UpdateUserEmbedding.
type interposeCache struct {
	*memCache
	key      string
	inject   *domain.Embedding
	injected bool
}

func (c *interposeCache) GetEmbedding(ctx context.Context, key string) (*domain.Embedding, bool, error) {
	embedding, ok, err := c.memCache.GetEmbedding(ctx, key)
	if key == c.key && !c.injected {
		c.injected = true
		_ = c.memCache.SetEmbedding(ctx, key, c.inject)
	}

	return embedding, ok, err
}

func TestGetRecommendations_LazyCacheWriteKeepsConcurrentUpdate(t *testing.T) {
	// Пока запрос считал вектор по старой истории, конкурентный пересчет
	// записал свежий. Отложенная запись обязана его не перетирать.
	mem := newMemCache()
	fresh := domain.NewEmbedding("u1", []float32{0, 0, 1, 0}, nil)
	cache := &interposeCache{memCache: mem, key: UserCacheKey("u1"), inject: fresh}

	builder := newTestBuilder(newTableEncoder(nil), cache)
	ranker := NewRankingEngine(builder, cache, nopLogger{})
	purchases := newStubPurchaseRepo()
	products := &stubProductRepo{}

	uc := NewRecommendationUC(
		purchases, products, builder, ranker, cache,
		NewNoopVectorIndex(), NewNoopOutbox(), nil, 10, 200, nopLogger{},
	)

	ctx := context.Background()
	cacheProductVector(t, mem, "p1", []float32{1, 0, 0, 0})
	products.candidates = []domain.Product{testProduct("p1", "A")}
	require.NoError(t, purchases.Create(ctx, domain.NewPurchaseRecord("u1", "p1", 1, 1000)))

	_, err := uc.GetRecommendations(ctx, NewGetRecommendationsReq("u1", 0, nil))
	require.NoError(t, err)

	embedding, ok, err := mem.GetEmbedding(ctx, UserCacheKey("u1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, fresh.Vector, embedding.Vector)
}

func TestGetRecommendations_ContextFiltersCandidates(t *testing.T) {
	f := newRecFixture(newTableEncoder(nil))

	cheap := testProduct("cheap", "Cheap")
	expensive := testProduct("expensive", "Expensive")
	expensive.Price = 100000
	cacheProductVector(t, f.cache, "cheap", []float32{1, 0, 0, 0})
	cacheProductVector(t, f.cache, "expensive", []float32{1, 0, 0, 0})
	f.products.candidates = []domain.Product{cheap, expensive}

	recs, err := f.uc.GetRecommendations(context.Background(), NewGetRecommendationsReq("u1", 0, map[string]string{
		"max_price": "5000",
	}))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "cheap", recs[0].ProductID)
}

func TestGetRecommendations_Validation(t *testing.T) {
	f := newRecFixture(newTableEncoder(nil))
	ctx := context.Background()

	_, err := f.uc.GetRecommendations(ctx, NewGetRecommendationsReq("", 0, nil))
	require.ErrorIs(t, err, e.ErrUserIDRequired)

	_, err = f.uc.GetRecommendations(ctx, NewGetRecommendationsReq("  ", 0, nil))
	require.ErrorIs(t, err, e.ErrUserIDRequired)

	_, err = f.uc.GetRecommendations(ctx, NewGetRecommendationsReq("u1", -1, nil))
	require.ErrorIs(t, err, e.ErrLimitMustBePositive)
}

func TestGetRecommendations_ZeroLimitUsesDefault(t *testing.T) {
	f := newRecFixture(newTableEncoder(nil))

	candidates := make([]domain.Product, 0, 15)
	for i := 0; i < 15; i++ {
		id := string(rune('a' + i))
		cacheProductVector(t, f.cache, id, []float32{1, 0, 0, 0})
		candidates = append(candidates, testProduct(id, "P"+id))
	}
	f.products.candidates = candidates

	recs, err := f.uc.GetRecommendations(context.Background(), NewGetRecommendationsReq("u1", 0, nil))
	require.NoError(t, err)
	assert.Len(t, recs, 10)
}

func TestUpdateUserEmbedding_BypassesStaleCache(t *testing.T) {
	f := newRecFixture(newTableEncoder(nil))
	ctx := context.Background()

	cacheProductVector(t, f.cache, "p1", []float32{1, 0, 0, 0})

	// В кэше лежит устаревший вектор пользователя
	stale := []float32{0, 0, 0, 1}
	require.NoError(t, f.cache.SetEmbedding(ctx, UserCacheKey("u1"), domain.NewEmbedding("u1", stale, nil)))

	history := []domain.PurchaseRecord{*domain.NewPurchaseRecord("u1", "p1", 1, 1000)}
	require.NoError(t, f.uc.UpdateUserEmbedding(ctx, "u1", history))

	embedding, ok, err := f.cache.GetEmbedding(ctx, UserCacheKey("u1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float32{1, 0, 0, 0}, embedding.Vector)
}

func TestUpdateUserEmbedding_EmptyUserIDRejected(t *testing.T) {
	f := newRecFixture(newTableEncoder(nil))

	err := f.uc.UpdateUserEmbedding(context.Background(), "", nil)
	require.ErrorIs(t, err, e.ErrUserIDRequired)
}

func TestUpdateUserEmbedding_CacheWriteFailureFatal(t *testing.T) {
	f := newRecFixture(newTableEncoder(nil))
	f.cache.failWrites = true

	err := f.uc.UpdateUserEmbedding(context.Background(), "u1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding store")
}
