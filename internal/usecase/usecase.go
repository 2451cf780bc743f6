package usecase

import (
	"context"

	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/domain"
)

// RecommendationUC — публичный контракт движка рекомендаций.
type RecommendationUC interface {
	GetRecommendations(ctx context.Context, req *GetRecommendationsReq) ([]domain.Recommendation, error)
	UpdateProductEmbedding(ctx context.Context, req *UpdateProductEmbeddingReq) error
	UpdateUserEmbedding(ctx context.Context, userID string, history []domain.PurchaseRecord) error
}

// CatalogUC — контракт управления каталогом товаров.
type CatalogUC interface {
	RegisterNewProduct(ctx context.Context, req *AddNewProductReq) (*OutboxEvent, error)
	GetProductsInfo(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error)
	RecordPurchase(ctx context.Context, req *RecordPurchaseReq) error
}
