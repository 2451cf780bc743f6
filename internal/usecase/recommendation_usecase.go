package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/domain"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/e"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/keymutex"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/logger"
)

// RecommendationUseCase — фасад движка рекомендаций.
// Оркестрирует историю покупок, построение эмбеддингов и ранжирование.
// Опциональные подсистемы (vectorIndex, outboxRepo) подставляются при
// конструировании: либо рабочая реализация, либо явная no-op.
type RecommendationUseCase struct {
	purchaseRepo  PurchaseRepository
	productRepo   ProductRepository
	builder       *EmbeddingBuilder
	ranker        *RankingEngine
	cache         EmbeddingCacheRepository
	vectorIndex   VectorIndexRepository
	outboxRepo    OutboxRepository
	dbPool        transaction.Transactional
	entityLocks   *keymutex.KeyMutex
	defaultLimit  int
	candidatePool int
	logger        logger.Logger
}

func NewRecommendationUC(
	purchaseRepo PurchaseRepository,
	productRepo ProductRepository,
	builder *EmbeddingBuilder,
	ranker *RankingEngine,
	cache EmbeddingCacheRepository,
	vectorIndex VectorIndexRepository,
	outboxRepo OutboxRepository,
	dbPool transaction.Transactional,
	defaultLimit int,
	candidatePool int,
	logger logger.Logger,
) *RecommendationUseCase {
	return &RecommendationUseCase{
		purchaseRepo:  purchaseRepo,
		productRepo:   productRepo,
		builder:       builder,
		ranker:        ranker,
		cache:         cache,
		vectorIndex:   vectorIndex,
		outboxRepo:    outboxRepo,
		dbPool:        dbPool,
		entityLocks:   keymutex.New(),
		defaultLimit:  defaultLimit,
		candidatePool: candidatePool,
		logger:        logger,
	}
}

// GetRecommendations возвращает персональный топ товаров для пользователя.
// Пустая история покупок и пустой пул кандидатов — нормальные случаи:
// первый дает cold-start (нулевой вектор), второй — пустую выдачу.
func (r *RecommendationUseCase) GetRecommendations(ctx context.Context, req *GetRecommendationsReq) ([]domain.Recommendation, error) {
	const op = "RecommendationUseCase.GetRecommendations"

	if strings.TrimSpace(req.UserID) == "" {
		return nil, e.Wrap(op, e.ErrUserIDRequired)
	}

	limit := req.Limit
	if limit == 0 {
		limit = r.defaultLimit
	}
	if limit < 0 {
		return nil, e.Wrap(op, e.ErrLimitMustBePositive)
	}

	history, err := r.purchaseRepo.GetHistory(ctx, req.UserID)
	if err != nil {
		return nil, e.Wrap(op, e.Wrap("purchase history provider", err))
	}

	userEmbedding, fromCache, err := r.builder.BuildUserEmbedding(ctx, req.UserID, history)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Побочный эффект: свежевычисленный вектор пользователя попадает в кэш.
	// Запись идет через арену мьютексов, как и UpdateUserEmbedding: под замком
	// кэш перепроверяется, чтобы не затереть более свежий вектор конкурентного
	// пересчета значением, вычисленным по уже устаревшей истории.
	if !fromCache {
		lockKey := UserCacheKey(req.UserID)
		r.entityLocks.Lock(lockKey)
		if _, ok, _ := r.cache.GetEmbedding(ctx, lockKey); !ok {
			if err := r.cache.SetEmbedding(ctx, lockKey, userEmbedding); err != nil {
				r.logger.Warnf("%s: failed to cache user embedding %s: %v", op, req.UserID, err)
			}
		}
		r.entityLocks.Unlock(lockKey)
	}

	candidates, err := r.productRepo.GetCandidates(ctx, NewCandidateFilter(req.Context, r.candidatePool))
	if err != nil {
		return nil, e.Wrap(op, e.Wrap("candidate provider", err))
	}

	if len(candidates) == 0 {
		return []domain.Recommendation{}, nil
	}

	exclude := make(map[string]struct{}, len(history))
	for _, purchase := range history {
		exclude[purchase.ProductID] = struct{}{}
	}

	recommendations, err := r.ranker.Rank(ctx, userEmbedding.Vector, candidates, exclude, limit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return recommendations, nil
}

// UpdateProductEmbedding пересчитывает и сохраняет эмбеддинг одного товара.
// Вызывается при изменении данных каталога. Метаданные товара обновляются
// в той же транзакции, событие изменения уходит через outbox.
func (r *RecommendationUseCase) UpdateProductEmbedding(ctx context.Context, req *UpdateProductEmbeddingReq) error {
	const op = "RecommendationUseCase.UpdateProductEmbedding"

	if err := r.validateProductReq(req); err != nil {
		return e.Wrap(op, err)
	}

	product := req.Product()

	embedding, err := r.builder.BuildProductEmbedding(ctx, product)
	if err != nil {
		return e.Wrap(op, err)
	}

	// Не более одного писателя на идентификатор товара
	lockKey := ProductCacheKey(product.ID)
	r.entityLocks.Lock(lockKey)
	defer r.entityLocks.Unlock(lockKey)

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, r.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	if _, err = r.productRepo.Upsert(ctx, product); err != nil {
		return e.Wrap(op, err)
	}

	if err = r.createChangeEvent(ctx, ProductEmbeddingUpdated, product.ID, embedding); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	if err := r.cache.SetEmbedding(ctx, ProductCacheKey(product.ID), embedding); err != nil {
		return e.Wrap(op, e.Wrap("embedding store", err))
	}

	if err := r.vectorIndex.Upsert(ctx, []domain.Embedding{*embedding}); err != nil {
		return e.Wrap(op, e.Wrap("vector index", err))
	}

	return nil
}

// UpdateUserEmbedding принудительно пересчитывает и сохраняет эмбеддинг пользователя,
// минуя cache-first путь. Вызывается при изменении истории покупок.
// Записи по одному userID сериализуются через арену мьютексов.
func (r *RecommendationUseCase) UpdateUserEmbedding(ctx context.Context, userID string, history []domain.PurchaseRecord) error {
	const op = "RecommendationUseCase.UpdateUserEmbedding"

	if strings.TrimSpace(userID) == "" {
		return e.Wrap(op, e.ErrUserIDRequired)
	}

	lockKey := UserCacheKey(userID)
	r.entityLocks.Lock(lockKey)
	defer r.entityLocks.Unlock(lockKey)

	embedding, err := r.builder.ComputeUserEmbedding(ctx, userID, history)
	if err != nil {
		return e.Wrap(op, err)
	}

	if err := r.cache.SetEmbedding(ctx, UserCacheKey(userID), embedding); err != nil {
		return e.Wrap(op, e.Wrap("embedding store", err))
	}

	return nil
}

// createChangeEvent кладет embedding-change событие в outbox текущей транзакции.
func (r *RecommendationUseCase) createChangeEvent(ctx context.Context, eventType OutboxEventType, entityID string, embedding *domain.Embedding) error {
	modelVersion, _ := embedding.Payload["model_version"].(string)

	event := EmbeddingChangeEvent{
		EventID:      uuid.NewString(),
		EventType:    string(eventType),
		EntityID:     entityID,
		ModelVersion: modelVersion,
		Dim:          len(embedding.Vector),
		CreatedAt:    time.Now().UTC().UnixNano(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = r.outboxRepo.Create(ctx, &OutboxEvent{
		EventID:   event.EventID,
		EventType: eventType,
		EntityID:  entityID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now().UTC(),
	})

	return err
}

func (r *RecommendationUseCase) validateProductReq(req *UpdateProductEmbeddingReq) error {
	if strings.TrimSpace(req.ID) == "" {
		return e.ErrProductIDRequired
	}

	if strings.TrimSpace(req.Name) == "" {
		return e.ErrProductNameRequired
	}

	if req.Price < 0 {
		return e.ErrPriceMustBePositive
	}

	return nil
}
