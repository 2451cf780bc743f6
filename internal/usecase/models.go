package usecase

import (
	"strconv"
	"time"

	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/domain"
)

// RECOMMENDATION USECASE

// GetRecommendationsReq — запрос рекомендаций для пользователя.
// Context — непрозрачный набор ключ-значение от вызывающей стороны
// (категория, ценовой потолок); неизвестные ключи игнорируются.
type GetRecommendationsReq struct {
	UserID  string
	Limit   int
	Context map[string]string
}

// UpdateProductEmbeddingReq — запрос пересчета эмбеддинга товара после изменения каталога.
type UpdateProductEmbeddingReq struct {
	ID          string
	Name        string
	Description string
	Price       int64
	Category    string
	Tags        []string
}

// Product собирает доменную сущность из данных запроса.
func (r *UpdateProductEmbeddingReq) Product() *domain.Product {
	return domain.NewProduct(r.ID, r.Name, r.Description, r.Price, r.Category, r.Tags)
}

// CandidateFilter — критерии отбора пула кандидатов из каталога.
type CandidateFilter struct {
	Category      string
	MaxPriceCents int64
	Limit         int
}

// NewCandidateFilter строит фильтр из context-мешка запроса.
// Распознаются ключи "category" и "max_price" (в копейках); остальные игнорируются.
func NewCandidateFilter(context map[string]string, poolLimit int) *CandidateFilter {
	filter := &CandidateFilter{Limit: poolLimit}

	if context == nil {
		return filter
	}

	filter.Category = context["category"]

	if raw, ok := context["max_price"]; ok {
		if maxPrice, err := strconv.ParseInt(raw, 10, 64); err == nil && maxPrice > 0 {
			filter.MaxPriceCents = maxPrice
		}
	}

	return filter
}

// CATALOG USECASE

// AddNewProductReq — запрос на добавление нового товара.
type AddNewProductReq struct {
	ID           string // внешний идентификатор (SKU); пустой — будет сгенерирован
	Name         string
	Description  string
	CategoryName string
	Price        int64
	Tags         []string
	Images       []ProductImage
}

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// GetProductsReq запрос информации о товарах по их идентификаторам.
type GetProductsReq struct {
	IDs []string
}

// GetProductsRes — ответ с данными запрошенных товаров.
type GetProductsRes struct {
	Products         []ProductInfo
	NotFoundProducts []string
}

// ProductInfo — DTO с информацией о товаре для внешнего использования.
type ProductInfo struct {
	ID           string
	Name         string
	Description  string
	CategoryName string
	Price        int64
	ImageKey     *string
}

// RecordPurchaseReq — запрос на фиксацию покупки.
// После записи история пользователя пересчитывается в его эмбеддинг.
type RecordPurchaseReq struct {
	UserID    string
	ProductID string
	Quantity  int32
	PricePaid int64
}

// INFRASTRUCTURE

// EncodeReq — запрос на векторизацию текстов.
type EncodeReq struct {
	Texts []string
}

// EncodeRes — результат векторизации одного текста.
// Порядок результатов совпадает с порядком текстов запроса.
type EncodeRes struct {
	Vector       []float32
	ModelVersion string
}

// UploadImagesReq — запрос на загрузку изображений товара.
type UploadImagesReq struct {
	Name   string
	Images []ProductImage
}

// UploadImagesRes — результат загрузки изображений (ключи в MinIO).
type UploadImagesRes struct {
	ImagesKeys []string
}

type WriteRawMessageReq struct {
	EntityID string
	Payload  []byte
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	ProductEmbeddingUpdated OutboxEventType = "product_embedding_updated"
	UserEmbeddingUpdated    OutboxEventType = "user_embedding_updated"
)

// OutboxEvent — событие изменения эмбеддинга, ожидающее публикации в Kafka.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	EntityID    string
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// EmbeddingChangeEvent — JSON-тело сообщения Kafka об изменении эмбеддинга.
type EmbeddingChangeEvent struct {
	EventID      string `json:"event_id"`
	EventType    string `json:"event_type"`
	EntityID     string `json:"entity_id"`
	ModelVersion string `json:"model_version"`
	Dim          int    `json:"dim"`
	CreatedAt    int64  `json:"created_at"` // unix nanoseconds
}

// CACHE KEYS

// ProductCacheKey возвращает ключ эмбеддинга товара в EmbeddingStore.
// Пространства ключей товаров и пользователей не пересекаются.
func ProductCacheKey(productID string) string {
	return "product:" + productID
}

// UserCacheKey возвращает ключ эмбеддинга пользователя в EmbeddingStore.
func UserCacheKey(userID string) string {
	return "user:" + userID
}

// MAPPERS

func NewGetRecommendationsReq(userID string, limit int, context map[string]string) *GetRecommendationsReq {
	return &GetRecommendationsReq{
		UserID:  userID,
		Limit:   limit,
		Context: context,
	}
}

func NewAddNewProductReq(id string, name string, description string, category string, price int64, tags []string, images []ProductImage) *AddNewProductReq {
	return &AddNewProductReq{
		ID:           id,
		Name:         name,
		Description:  description,
		CategoryName: category,
		Price:        price,
		Tags:         tags,
		Images:       images,
	}
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewGetProductsReq(ids []string) *GetProductsReq {
	return &GetProductsReq{ids}
}

func NewGetProductsRes(pr []ProductInfo, notFoundProducts []string) *GetProductsRes {
	return &GetProductsRes{
		Products:         pr,
		NotFoundProducts: notFoundProducts,
	}
}

func NewProductInfo(id string, name string, description string, category string, price int64, imageKey *string) ProductInfo {
	return ProductInfo{
		ID:           id,
		Name:         name,
		Description:  description,
		CategoryName: category,
		Price:        price,
		ImageKey:     imageKey,
	}
}

func NewRecordPurchaseReq(userID string, productID string, quantity int32, pricePaid int64) *RecordPurchaseReq {
	return &RecordPurchaseReq{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		PricePaid: pricePaid,
	}
}

func NewEncodeReq(texts []string) *EncodeReq {
	return &EncodeReq{Texts: texts}
}

func NewEncodeRes(vector []float32, modelVersion string) *EncodeRes {
	return &EncodeRes{
		Vector:       vector,
		ModelVersion: modelVersion,
	}
}

func NewUploadImagesReq(name string, images []ProductImage) *UploadImagesReq {
	return &UploadImagesReq{
		Name:   name,
		Images: images,
	}
}

func NewUploadImagesRes(imagesKeys []string) *UploadImagesRes {
	return &UploadImagesRes{
		ImagesKeys: imagesKeys,
	}
}

func NewWriteRawMessageReq(entityID string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		EntityID: entityID,
		Payload:  payload,
	}
}

// UpsertProductRes — результат идемпотентного сохранения товара.
type UpsertProductRes struct {
	Product   *domain.Product
	NoChanges bool
}

func NewUpsertProductRes(product *domain.Product, noChanges bool) *UpsertProductRes {
	return &UpsertProductRes{
		Product:   product,
		NoChanges: noChanges,
	}
}
