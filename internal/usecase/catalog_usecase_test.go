package usecase

import (
	"context"
	"testing"

	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/domain"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogFixture(rec *recFixture) *CatalogUseCase {
	builder := newTestBuilder(rec.encoder, rec.cache)

	return NewCatalogUC(
		rec.products,
		nil, // категории нужны только пути регистрации товара
		rec.purchases,
		nil,
		builder,
		NewNoopImagesInfra(),
		rec.cache,
		NewNoopVectorIndex(),
		NewNoopOutbox(),
		rec.uc,
		nopLogger{},
	)
}

func TestGetProductsInfo_PreservesRequestOrder(t *testing.T) {
	rec := newRecFixture(newTableEncoder(nil))
	rec.products.candidates = []domain.Product{
		testProduct("p1", "A"),
		testProduct("p2", "B"),
		testProduct("p3", "C"),
	}
	catalog := newCatalogFixture(rec)

	res, err := catalog.GetProductsInfo(context.Background(), NewGetProductsReq([]string{"p3", "p1", "p2"}))
	require.NoError(t, err)
	require.Len(t, res.Products, 3)
	assert.Equal(t, "p3", res.Products[0].ID)
	assert.Equal(t, "p1", res.Products[1].ID)
	assert.Equal(t, "p2", res.Products[2].ID)
	assert.Empty(t, res.NotFoundProducts)
}

func TestGetProductsInfo_ReportsMissing(t *testing.T) {
	rec := newRecFixture(newTableEncoder(nil))
	rec.products.candidates = []domain.Product{testProduct("p1", "A")}
	catalog := newCatalogFixture(rec)

	res, err := catalog.GetProductsInfo(context.Background(), NewGetProductsReq([]string{"p1", "ghost"}))
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, []string{"ghost"}, res.NotFoundProducts)
}

func TestGetProductsInfo_EmptyRequestRejected(t *testing.T) {
	catalog := newCatalogFixture(newRecFixture(newTableEncoder(nil)))

	_, err := catalog.GetProductsInfo(context.Background(), NewGetProductsReq(nil))
	require.ErrorIs(t, err, e.ErrNoProducts)
}

func TestRecordPurchase_RefreshesUserEmbedding(t *testing.T) {
	rec := newRecFixture(newTableEncoder(nil))
	catalog := newCatalogFixture(rec)
	ctx := context.Background()

	cacheProductVector(t, rec.cache, "p1", []float32{1, 0, 0, 0})

	require.NoError(t, catalog.RecordPurchase(ctx, NewRecordPurchaseReq("u1", "p1", 1, 1000)))

	// Покупка записана и вектор пользователя пересчитан по новой истории
	history, err := rec.purchases.GetHistory(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, 1)

	embedding, ok, err := rec.cache.GetEmbedding(ctx, UserCacheKey("u1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float32{1, 0, 0, 0}, embedding.Vector)
}

func TestRecordPurchase_DuplicatesWeightHistory(t *testing.T) {
	rec := newRecFixture(newTableEncoder(nil))
	catalog := newCatalogFixture(rec)
	ctx := context.Background()

	cacheProductVector(t, rec.cache, "p1", []float32{1, 0, 0, 0})
	cacheProductVector(t, rec.cache, "p2", []float32{0, 1, 0, 0})

	// p1 куплен дважды, p2 один раз: среднее смещено к p1
	require.NoError(t, catalog.RecordPurchase(ctx, NewRecordPurchaseReq("u1", "p1", 1, 1000)))
	require.NoError(t, catalog.RecordPurchase(ctx, NewRecordPurchaseReq("u1", "p1", 1, 1000)))
	require.NoError(t, catalog.RecordPurchase(ctx, NewRecordPurchaseReq("u1", "p2", 1, 1000)))

	embedding, ok, err := rec.cache.GetEmbedding(ctx, UserCacheKey("u1"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 2.0/3.0, float64(embedding.Vector[0]), 1e-6)
	assert.InDelta(t, 1.0/3.0, float64(embedding.Vector[1]), 1e-6)
}

func TestRecordPurchase_Validation(t *testing.T) {
	catalog := newCatalogFixture(newRecFixture(newTableEncoder(nil)))
	ctx := context.Background()

	err := catalog.RecordPurchase(ctx, NewRecordPurchaseReq("", "p1", 1, 1000))
	require.ErrorIs(t, err, e.ErrUserIDRequired)

	err = catalog.RecordPurchase(ctx, NewRecordPurchaseReq("u1", "", 1, 1000))
	require.ErrorIs(t, err, e.ErrProductIDRequired)

	err = catalog.RecordPurchase(ctx, NewRecordPurchaseReq("u1", "p1", 0, 1000))
	require.ErrorIs(t, err, e.ErrQuantityMustBePositive)

	err = catalog.RecordPurchase(ctx, NewRecordPurchaseReq("u1", "p1", 1, -5))
	require.ErrorIs(t, err, e.ErrPriceMustBePositive)
}
