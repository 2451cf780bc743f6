package usecase

import (
	"context"
	"math"
	"sort"

	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/domain"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/e"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/logger"
)

// RankingEngine ранжирует кандидатов по косинусной близости к вектору пользователя.
type RankingEngine struct {
	builder *EmbeddingBuilder
	cache   EmbeddingCacheRepository
	logger  logger.Logger
}

func NewRankingEngine(builder *EmbeddingBuilder, cache EmbeddingCacheRepository, logger logger.Logger) *RankingEngine {
	return &RankingEngine{
		builder: builder,
		cache:   cache,
		logger:  logger,
	}
}

// Rank возвращает не более limit рекомендаций, отсортированных по убыванию score.
// Кандидаты из excludeIDs (уже купленные) отбрасываются до ранжирования.
// Эмбеддинги кандидатов берутся из EmbeddingStore; отсутствующие строятся
// на лету и записываются в кэш. Кандидат, эмбеддинг которого построить не
// удалось, пропускается с предупреждением — ошибка одного товара не
// прерывает выдачу.
// При равных score сохраняется исходный порядок кандидатов.
func (r *RankingEngine) Rank(
	ctx context.Context,
	userVector []float32,
	candidates []domain.Product,
	excludeIDs map[string]struct{},
	limit int,
) ([]domain.Recommendation, error) {
	const op = "RankingEngine.Rank"

	if limit <= 0 {
		return nil, e.Wrap(op, e.ErrLimitMustBePositive)
	}

	filtered := make([]domain.Product, 0, len(candidates))
	for _, candidate := range candidates {
		if _, excluded := excludeIDs[candidate.ID]; excluded {
			continue
		}
		filtered = append(filtered, candidate)
	}

	if len(filtered) == 0 {
		return []domain.Recommendation{}, nil
	}

	cached := r.lookupCached(ctx, filtered)

	// У cold-start пользователя косинус нулевой для любого кандидата
	coldStart := domain.IsZero(userVector)

	recommendations := make([]domain.Recommendation, 0, len(filtered))
	for i := range filtered {
		candidate := &filtered[i]

		vector, ok := r.candidateVector(ctx, candidate, cached)
		if !ok {
			continue // кандидат пропущен, причина уже в логе
		}

		score := 0.0
		if !coldStart {
			score = cosineSimilarity(userVector, vector)
		}
		recommendations = append(recommendations, domain.NewRecommendation(candidate, score))
	}

	// Стабильная сортировка: при равных score побеждает встреченный раньше
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})

	if len(recommendations) > limit {
		recommendations = recommendations[:limit]
	}

	return recommendations, nil
}

// lookupCached батчем забирает из EmbeddingStore эмбеддинги всех кандидатов.
// Ошибка чтения кэша не фатальна: все кандидаты считаются промахами.
func (r *RankingEngine) lookupCached(ctx context.Context, candidates []domain.Product) map[string]domain.Embedding {
	const op = "RankingEngine.lookupCached"

	keys := make([]string, len(candidates))
	for i, candidate := range candidates {
		keys[i] = ProductCacheKey(candidate.ID)
	}

	cached, err := r.cache.GetEmbeddings(ctx, keys)
	if err != nil {
		r.logger.Warnf("%s: embedding store read failed, rebuilding candidates: %v", op, err)
		return map[string]domain.Embedding{}
	}

	return cached
}

// candidateVector возвращает вектор кандидата из кэша или строит его на лету.
func (r *RankingEngine) candidateVector(ctx context.Context, candidate *domain.Product, cached map[string]domain.Embedding) ([]float32, bool) {
	const op = "RankingEngine.candidateVector"

	if embedding, ok := cached[ProductCacheKey(candidate.ID)]; ok {
		if len(embedding.Vector) != r.builder.Dim() {
			r.logger.Warnf("%s: product %s skipped: cached dim %d, want %d",
				op, candidate.ID, len(embedding.Vector), r.builder.Dim())
			return nil, false
		}
		return embedding.Vector, true
	}

	embedding, err := r.builder.BuildProductEmbedding(ctx, candidate)
	if err != nil {
		r.logger.Warnf("%s: product %s skipped: %v", op, candidate.ID, err)
		return nil, false
	}

	if err := r.cache.SetEmbedding(ctx, ProductCacheKey(candidate.ID), embedding); err != nil {
		r.logger.Warnf("%s: failed to cache embedding for product %s: %v", op, candidate.ID, err)
	}

	return embedding.Vector, true
}

// cosineSimilarity вычисляет косинусную близость двух векторов:
// скалярное произведение, деленное на произведение евклидовых норм.
// Если норма любого из векторов нулевая (cold-start пользователь,
// нулевой эмбеддинг товара), близость определяется как 0.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
