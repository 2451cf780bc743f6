package usecase

import (
	"context"

	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/domain"
)

type ProductRepository interface {
	Upsert(ctx context.Context, product *domain.Product) (*UpsertProductRes, error)
	GetProductsInfo(ctx context.Context, ids []string) ([]ProductInfo, error)
	// GetCandidates возвращает пул товаров, пригодных для ранжирования.
	// Архивные товары исключаются.
	GetCandidates(ctx context.Context, filter *CandidateFilter) ([]domain.Product, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
}

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *domain.PurchaseRecord) error
	// GetHistory возвращает историю покупок пользователя.
	// Пустая история — нормальный результат (cold start), а не ошибка.
	GetHistory(ctx context.Context, userID string) ([]domain.PurchaseRecord, error)
}

// EmbeddingCacheRepository — key-value хранилище эмбеддингов.
// Отсутствие ключа (miss) — нормальный исход, а не ошибка: он сигнализируется
// через ok=false либо отсутствием ключа в результирующей map.
type EmbeddingCacheRepository interface {
	GetEmbedding(ctx context.Context, key string) (*domain.Embedding, bool, error)
	GetEmbeddings(ctx context.Context, keys []string) (map[string]domain.Embedding, error)
	SetEmbedding(ctx context.Context, key string, embedding *domain.Embedding) error
	DeleteEmbeddings(ctx context.Context, keys []string) error
}

// VectorIndexRepository — персистентный индекс эмбеддингов товаров (Qdrant).
// Опциональная подсистема: при выключенном FEATURE_VECTOR_INDEX подставляется NoopVectorIndex.
type VectorIndexRepository interface {
	Upsert(ctx context.Context, vectors []domain.Embedding) error
	Delete(ctx context.Context, ids []string) error
}

// OutboxRepository — запись embedding-change событий в таблицу outbox_events
// в рамках текущей транзакции. При выключенном FEATURE_OUTBOX — NoopOutbox.
type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}
