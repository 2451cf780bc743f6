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
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/logger"
)

// CatalogUseCase реализует бизнес-логику управления каталогом товаров:
// регистрацию товара с изображениями и эмбеддингом, чтение карточек,
// фиксацию покупок с пересчетом вектора пользователя.
type CatalogUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	purchaseRepo PurchaseRepository
	dbPool       transaction.Transactional
	builder      *EmbeddingBuilder
	imagesInfra  ImagesInfra
	cache        EmbeddingCacheRepository
	vectorIndex  VectorIndexRepository
	outboxRepo   OutboxRepository
	recUC        RecommendationUC
	logger       logger.Logger
}

func NewCatalogUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	purchaseRepo PurchaseRepository,
	dbPool transaction.Transactional,
	builder *EmbeddingBuilder,
	imagesInfra ImagesInfra,
	cache EmbeddingCacheRepository,
	vectorIndex VectorIndexRepository,
	outboxRepo OutboxRepository,
	recUC RecommendationUC,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		purchaseRepo: purchaseRepo,
		dbPool:       dbPool,
		builder:      builder,
		imagesInfra:  imagesInfra,
		cache:        cache,
		vectorIndex:  vectorIndex,
		outboxRepo:   outboxRepo,
		recUC:        recUC,
		logger:       logger,
	}
}

// RegisterNewProduct обрабатывает добавление нового товара: векторизация описания,
// загрузка изображений, идемпотентное сохранение категории и товара, outbox-событие.
func (c *CatalogUseCase) RegisterNewProduct(ctx context.Context, req *AddNewProductReq) (*OutboxEvent, error) {
	const op = "CatalogUseCase.RegisterNewProduct"

	var err error
	if err = c.validateProduct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	product := domain.NewProduct(req.ID, req.Name, req.Description, req.Price, req.CategoryName, req.Tags)

	// Векторизация — до транзакции, чтобы не держать ее на время I/O к энкодеру
	embedding, err := c.builder.BuildProductEmbedding(ctx, product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var (
		imagesRes *UploadImagesRes
		uploaded  bool
	)

	if len(req.Images) > 0 {
		imagesRes, err = c.imagesInfra.UploadImages(ctx, NewUploadImagesReq(req.Name, req.Images))
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		uploaded = true
		product.ImageKey = &imagesRes.ImagesKeys[0]
	}

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	// Если произошла ошибка, происходит Rollback транзакции и очистка загруженных изображений
	defer func() {
		if err != nil {
			if tx.IsActive() {
				tx.Rollback(ctx)
			}

			if uploaded && imagesRes != nil {
				c.logger.Warnf(
					"Cleaning up orphaned images after transaction failure. product_name: %s, error: %v",
					req.Name,
					e.Wrap(op, err),
				)

				c.imagesInfra.CleanupImages(imagesRes.ImagesKeys)
			}
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	// идемпотентное создание категории
	if _, err = c.categoryRepo.Create(ctx, domain.NewCategory(req.CategoryName)); err != nil {
		return nil, e.Wrap(op, err)
	}

	// идемпотентное создание товара
	if _, err = c.productRepo.Upsert(ctx, product); err != nil {
		return nil, e.Wrap(op, err)
	}

	event, err := c.createChangeEvent(ctx, product.ID, embedding)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	// Кэш и индекс — best effort: эмбеддинг будет перестроен на лету при ранжировании
	if err := c.cache.SetEmbedding(ctx, ProductCacheKey(product.ID), embedding); err != nil {
		c.logger.Warnf("%s: failed to cache embedding for product %s: %v", op, product.ID, err)
	}

	if err := c.vectorIndex.Upsert(ctx, []domain.Embedding{*embedding}); err != nil {
		c.logger.Warnf("%s: failed to index embedding for product %s: %v", op, product.ID, err)
	}

	return event, nil
}

// GetProductsInfo возвращает информацию о товарах по их идентификаторам.
func (c *CatalogUseCase) GetProductsInfo(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error) {
	const op = "CatalogUseCase.GetProductsInfo"

	if len(req.IDs) == 0 {
		return nil, e.Wrap(op, e.ErrNoProducts)
	}

	products, err := c.productRepo.GetProductsInfo(ctx, req.IDs)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	found := make(map[string]ProductInfo, len(products))
	for _, product := range products {
		found[product.ID] = product
	}

	// Формирование результата в порядке запрошенных идентификаторов
	result := make([]ProductInfo, 0, len(req.IDs))
	notFoundProducts := make([]string, 0)
	for _, id := range req.IDs {
		if product, ok := found[id]; ok {
			result = append(result, product)
		} else {
			notFoundProducts = append(notFoundProducts, id)
		}
	}

	return NewGetProductsRes(result, notFoundProducts), nil
}

// RecordPurchase фиксирует покупку и принудительно пересчитывает эмбеддинг пользователя
// по обновленной истории.
func (c *CatalogUseCase) RecordPurchase(ctx context.Context, req *RecordPurchaseReq) error {
	const op = "CatalogUseCase.RecordPurchase"

	if err := c.validatePurchase(req); err != nil {
		return e.Wrap(op, err)
	}

	purchase := domain.NewPurchaseRecord(req.UserID, req.ProductID, req.Quantity, req.PricePaid)
	if err := c.purchaseRepo.Create(ctx, purchase); err != nil {
		return e.Wrap(op, err)
	}

	history, err := c.purchaseRepo.GetHistory(ctx, req.UserID)
	if err != nil {
		return e.Wrap(op, e.Wrap("purchase history provider", err))
	}

	if err := c.recUC.UpdateUserEmbedding(ctx, req.UserID, history); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// createChangeEvent кладет событие регистрации эмбеддинга товара в outbox текущей транзакции.
func (c *CatalogUseCase) createChangeEvent(ctx context.Context, productID string, embedding *domain.Embedding) (*OutboxEvent, error) {
	modelVersion, _ := embedding.Payload["model_version"].(string)

	event := EmbeddingChangeEvent{
		EventID:      uuid.NewString(),
		EventType:    string(ProductEmbeddingUpdated),
		EntityID:     productID,
		ModelVersion: modelVersion,
		Dim:          len(embedding.Vector),
		CreatedAt:    time.Now().UTC().UnixNano(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return c.outboxRepo.Create(ctx, &OutboxEvent{
		EventID:   event.EventID,
		EventType: ProductEmbeddingUpdated,
		EntityID:  productID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now().UTC(),
	})
}

// validateProduct проверяет корректность входных данных запроса на добавление товара.
func (c *CatalogUseCase) validateProduct(req *AddNewProductReq) error {
	if strings.TrimSpace(req.Name) == "" {
		return e.ErrProductNameRequired
	}

	if req.Price <= 0 {
		return e.ErrPriceMustBePositive
	}

	return nil
}

func (c *CatalogUseCase) validatePurchase(req *RecordPurchaseReq) error {
	if strings.TrimSpace(req.UserID) == "" {
		return e.ErrUserIDRequired
	}

	if strings.TrimSpace(req.ProductID) == "" {
		return e.ErrProductIDRequired
	}

	if req.Quantity <= 0 {
		return e.ErrQuantityMustBePositive
	}

	if req.PricePaid < 0 {
		return e.ErrPriceMustBePositive
	}

	return nil
}
