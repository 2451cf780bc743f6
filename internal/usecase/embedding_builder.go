package usecase

import (
	"context"
	"fmt"

	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/domain"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/e"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/logger"
)

// EmbeddingBuilder строит эмбеддинги товаров и пользователей.
// Эмбеддинг товара — вектор его текстового описания от энкодера.
// Эмбеддинг пользователя — среднее арифметическое эмбеддингов купленных им товаров.
type EmbeddingBuilder struct {
	encoder EncoderInfra
	cache   EmbeddingCacheRepository
	dim     int
	logger  logger.Logger
}

func NewEmbeddingBuilder(encoder EncoderInfra, cache EmbeddingCacheRepository, dim int, logger logger.Logger) *EmbeddingBuilder {
	return &EmbeddingBuilder{
		encoder: encoder,
		cache:   cache,
		dim:     dim,
		logger:  logger,
	}
}

// Dim возвращает размерность векторов D.
func (b *EmbeddingBuilder) Dim() int {
	return b.dim
}

// BuildProductEmbedding векторизует товар через энкодер.
// Чистая функция: результат не сохраняется, решение об этом принимает вызывающая сторона.
func (b *EmbeddingBuilder) BuildProductEmbedding(ctx context.Context, product *domain.Product) (*domain.Embedding, error) {
	const op = "EmbeddingBuilder.BuildProductEmbedding"

	res, err := b.encoder.EncodeTexts(ctx, NewEncodeReq([]string{product.EmbeddingText()}))
	if err != nil {
		return nil, e.Wrap(op, e.Wrap("encoder", err))
	}

	if len(res) == 0 {
		return nil, e.Wrap(op, e.ErrEmptyVector)
	}

	vector := res[0].Vector
	if len(vector) != b.dim {
		return nil, e.Wrap(op, fmt.Errorf("%w: got %d, want %d", e.ErrDimensionMismatch, len(vector), b.dim))
	}

	return domain.NewEmbedding(product.ID, vector, domain.NewPayload(product.ID, res[0].ModelVersion)), nil
}

// BuildUserEmbedding возвращает эмбеддинг пользователя (cache-first).
// Если эмбеддинг уже закэширован, возвращается он, fromCache=true.
// Иначе вектор вычисляется из истории покупок через ComputeUserEmbedding.
func (b *EmbeddingBuilder) BuildUserEmbedding(ctx context.Context, userID string, history []domain.PurchaseRecord) (*domain.Embedding, bool, error) {
	const op = "EmbeddingBuilder.BuildUserEmbedding"

	cached, ok, err := b.cache.GetEmbedding(ctx, UserCacheKey(userID))
	if err != nil {
		// Недоступность кэша не фатальна: вектор пересчитывается из истории
		b.logger.Warnf("%s: embedding store read failed, recomputing: %v", op, err)
	}
	if ok {
		if len(cached.Vector) == b.dim {
			return cached, true, nil
		}

		// Вектор другой размерности остался от прежней конфигурации энкодера.
		// Запись выкидывается и считается промахом, вектор пересчитывается.
		b.logger.Warnf("%s: cached user vector %s has dim %d, want %d, recomputing",
			op, userID, len(cached.Vector), b.dim)
		if err := b.cache.DeleteEmbeddings(ctx, []string{UserCacheKey(userID)}); err != nil {
			b.logger.Warnf("%s: failed to drop stale user vector %s: %v", op, userID, err)
		}
	}

	embedding, err := b.ComputeUserEmbedding(ctx, userID, history)
	if err != nil {
		return nil, false, e.Wrap(op, err)
	}

	return embedding, false, nil
}

// ComputeUserEmbedding строит вкусовой вектор пользователя из истории покупок,
// игнорируя кэшированное значение. Для каждой записи истории берется эмбеддинг
// товара из EmbeddingStore; записи без известного эмбеддинга пропускаются.
// Если не найдено ни одного (включая пустую историю) — возвращается нулевой
// вектор размерности D: это cold-start по умолчанию, а не ошибка.
func (b *EmbeddingBuilder) ComputeUserEmbedding(ctx context.Context, userID string, history []domain.PurchaseRecord) (*domain.Embedding, error) {
	const op = "EmbeddingBuilder.ComputeUserEmbedding"

	keys := make([]string, 0, len(history))
	for _, purchase := range history {
		keys = append(keys, ProductCacheKey(purchase.ProductID))
	}

	known := map[string]domain.Embedding{}
	if len(keys) > 0 {
		var err error
		known, err = b.cache.GetEmbeddings(ctx, keys)
		if err != nil {
			return nil, e.Wrap(op, e.Wrap("embedding store", err))
		}
	}

	// Товар, купленный несколько раз, входит в среднее столько раз,
	// сколько записей о нем в истории
	sum := make([]float64, b.dim)
	collected := 0
	for _, purchase := range history {
		embedding, ok := known[ProductCacheKey(purchase.ProductID)]
		if !ok {
			continue
		}

		if len(embedding.Vector) != b.dim {
			return nil, e.Wrap(op, fmt.Errorf("%w: product %s has dim %d, want %d",
				e.ErrDimensionMismatch, purchase.ProductID, len(embedding.Vector), b.dim))
		}

		for i, v := range embedding.Vector {
			sum[i] += float64(v)
		}
		collected++
	}

	if collected == 0 {
		return domain.NewEmbedding(userID, domain.ZeroVector(b.dim), newUserPayload(userID, 0)), nil
	}

	mean := make([]float32, b.dim)
	for i := range sum {
		mean[i] = float32(sum[i] / float64(collected))
	}

	return domain.NewEmbedding(userID, mean, newUserPayload(userID, collected)), nil
}

func newUserPayload(userID string, sourceProducts int) domain.Payload {
	return domain.Payload{
		"user_id":         userID,
		"source_products": sourceProducts,
	}
}
