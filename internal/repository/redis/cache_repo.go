package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jimlawless/whereami"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/cfg"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/domain"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/repository/redis/converter"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/clients"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/e"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/logger"
)

// EmbeddingCacheRepo реализует хранилище эмбеддингов поверх Redis.
// Записи живут не дольше EmbeddingTTL, так кэш остаётся ограниченным
// без отдельной процедуры вытеснения.
type EmbeddingCacheRepo struct {
	client *clients.RedisClient
	conv   converter.EmbeddingConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewEmbeddingCacheRepo(client *clients.RedisClient, conv converter.EmbeddingConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *EmbeddingCacheRepo {
	return &EmbeddingCacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetEmbedding возвращает эмбеддинг по ключу. Промах — не ошибка.
func (r *EmbeddingCacheRepo) GetEmbedding(ctx context.Context, key string) (*domain.Embedding, bool, error) {
	data, err := r.client.Client.Get(ctx, r.embeddingKey(key)).Bytes()
	if err != nil {
		if clients.IsRedisNil(err) {
			return nil, false, nil
		}

		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := r.unmarshalEmbedding(data)
	if err != nil {
		// Битую запись выкидываем и считаем промахом
		r.logger.Warnf("Redis unmarshal failed for key %s: %v", key, e.Wrap(whereami.WhereAmI(), err))
		if err := r.client.Client.Del(context.Background(), r.embeddingKey(key)).Err(); err != nil {
			r.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}

		return nil, false, nil
	}

	return r.conv.ToEntity(model), true, nil
}

// GetEmbeddings возвращает эмбеддинги по ключам одним MGET.
// Промахи и битые записи отсутствуют в результате.
func (r *EmbeddingCacheRepo) GetEmbeddings(ctx context.Context, keys []string) (map[string]domain.Embedding, error) {
	if len(keys) == 0 {
		return map[string]domain.Embedding{}, nil
	}

	redisKeys := make([]string, len(keys))
	for i, key := range keys {
		redisKeys[i] = r.embeddingKey(key)
	}

	values, err := r.client.Client.MGet(ctx, redisKeys...).Result()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	result := make(map[string]domain.Embedding, len(values))
	for i, val := range values {
		data, err := redisValueToBytes(val, redisKeys[i])
		if err != nil {
			r.logger.Warnf("%v", e.Wrap(whereami.WhereAmI(), err))
		}

		if data == nil {
			continue // cache miss
		}

		model, err := r.unmarshalEmbedding(data)
		if err != nil {
			r.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
			continue
		}

		result[keys[i]] = *r.conv.ToEntity(model)
	}

	return result, nil
}

// SetEmbedding кэширует эмбеддинг с TTL из конфигурации.
func (r *EmbeddingCacheRepo) SetEmbedding(ctx context.Context, key string, embedding *domain.Embedding) error {
	data, err := json.Marshal(r.conv.ToRedisModel(embedding))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := r.client.Client.Set(ctx, r.embeddingKey(key), data, r.cfg.EmbeddingTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DeleteEmbeddings удаляет эмбеддинги по ключам.
func (r *EmbeddingCacheRepo) DeleteEmbeddings(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	redisKeys := make([]string, len(keys))
	for i, key := range keys {
		redisKeys[i] = r.embeddingKey(key)
	}

	if err := r.client.Client.Del(ctx, redisKeys...).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (r *EmbeddingCacheRepo) unmarshalEmbedding(data []byte) (*converter.EmbeddingRedisModel, error) {
	var model converter.EmbeddingRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, err
	}

	return &model, nil
}

// embeddingKey возвращает Redis-ключ записи эмбеддинга.
// Ключ уже содержит префикс сущности (product:/user:), сюда добавляется
// только пространство имён кэша.
func (r *EmbeddingCacheRepo) embeddingKey(key string) string {
	return "emb:" + key
}

// redisValueToBytes конвертирует значение из Redis в []byte.
// Поддерживает string и []byte, возвращает ошибку для неизвестных типов.
func redisValueToBytes(val interface{}, key string) ([]byte, error) {
	switch v := val.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case nil:
		return nil, nil // cache miss
	default:
		return nil, fmt.Errorf("unexpected Redis value type for key %s: %T", key, val)
	}
}
