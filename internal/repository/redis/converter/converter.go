//go:generate goverter gen github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/repository/redis/converter

package converter

import (
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/domain"
)

// goverter:converter
// goverter:extend ConvertPayload
// goverter:extend ConvertPayloadModel
type EmbeddingConverter interface {
	ToRedisModel(entity *domain.Embedding) *EmbeddingRedisModel
	ToEntity(model *EmbeddingRedisModel) *domain.Embedding
}

func ConvertPayload(p domain.Payload) map[string]any {
	return p
}

func ConvertPayloadModel(m map[string]any) domain.Payload {
	return m
}
