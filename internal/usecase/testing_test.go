package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/domain"
)

// Общие фейки для тестов пакета usecase.

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)        {}
func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(error, string, ...any) {}

// tableEncoder — детерминированный энкодер по таблице текст → вектор.
// Тексты, отсутствующие в таблице, приводят к ошибке.
type tableEncoder struct {
	vectors map[string][]float32
	model   string
	calls   int
}

func newTableEncoder(vectors map[string][]float32) *tableEncoder {
	return &tableEncoder{
		vectors: vectors,
		model:   "test-encoder-v1",
	}
}

func (t *tableEncoder) EncodeTexts(_ context.Context, req *EncodeReq) ([]EncodeRes, error) {
	t.calls++

	res := make([]EncodeRes, 0, len(req.Texts))
	for _, text := range req.Texts {
		vector, ok := t.vectors[text]
		if !ok {
			return nil, fmt.Errorf("no vector for text %q", text)
		}
		res = append(res, *NewEncodeRes(vector, t.model))
	}

	return res, nil
}

// memCache — потокобезопасный EmbeddingStore в памяти.
type memCache struct {
	mu   sync.Mutex
	data map[string]domain.Embedding

	failReads  bool
	failWrites bool
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]domain.Embedding)}
}

func (m *memCache) GetEmbedding(_ context.Context, key string) (*domain.Embedding, bool, error) {
	if m.failReads {
		return nil, false, fmt.Errorf("cache read failure")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	embedding, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}

	return &embedding, true, nil
}

func (m *memCache) GetEmbeddings(_ context.Context, keys []string) (map[string]domain.Embedding, error) {
	if m.failReads {
		return nil, fmt.Errorf("cache read failure")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	result := make(map[string]domain.Embedding, len(keys))
	for _, key := range keys {
		if embedding, ok := m.data[key]; ok {
			result[key] = embedding
		}
	}

	return result, nil
}

func (m *memCache) SetEmbedding(_ context.Context, key string, embedding *domain.Embedding) error {
	if m.failWrites {
		return fmt.Errorf("cache write failure")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = *embedding
	return nil
}

func (m *memCache) DeleteEmbeddings(_ context.Context, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.data, key)
	}

	return nil
}

// stubPurchaseRepo — история покупок в памяти.
type stubPurchaseRepo struct {
	history map[string][]domain.PurchaseRecord
	err     error
}

func newStubPurchaseRepo() *stubPurchaseRepo {
	return &stubPurchaseRepo{history: make(map[string][]domain.PurchaseRecord)}
}

func (s *stubPurchaseRepo) Create(_ context.Context, purchase *domain.PurchaseRecord) error {
	if s.err != nil {
		return s.err
	}

	s.history[purchase.UserID] = append(s.history[purchase.UserID], *purchase)
	return nil
}

func (s *stubPurchaseRepo) GetHistory(_ context.Context, userID string) ([]domain.PurchaseRecord, error) {
	if s.err != nil {
		return nil, s.err
	}

	return s.history[userID], nil
}

// stubProductRepo — каталог в памяти: пул кандидатов фиксирован.
type stubProductRepo struct {
	candidates []domain.Product
	err        error
}

func (s *stubProductRepo) Upsert(_ context.Context, product *domain.Product) (*UpsertProductRes, error) {
	if s.err != nil {
		return nil, s.err
	}

	return NewUpsertProductRes(product, false), nil
}

func (s *stubProductRepo) GetProductsInfo(_ context.Context, ids []string) ([]ProductInfo, error) {
	if s.err != nil {
		return nil, s.err
	}

	byID := make(map[string]domain.Product, len(s.candidates))
	for _, product := range s.candidates {
		byID[product.ID] = product
	}

	result := make([]ProductInfo, 0, len(ids))
	for _, id := range ids {
		if product, ok := byID[id]; ok {
			result = append(result, NewProductInfo(product.ID, product.Name, product.Description, product.Category, product.Price, product.ImageKey))
		}
	}

	return result, nil
}

func (s *stubProductRepo) GetCandidates(_ context.Context, filter *CandidateFilter) ([]domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}

	result := make([]domain.Product, 0, len(s.candidates))
	for _, product := range s.candidates {
		if filter.Category != "" && product.Category != filter.Category {
			continue
		}
		if filter.MaxPriceCents > 0 && product.Price > filter.MaxPriceCents {
			continue
		}
		result = append(result, product)

		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}

	return result, nil
}

func testProduct(id, name string) domain.Product {
	return *domain.NewProduct(id, name, "", 1000, "misc", nil)
}
