package domain

import "time"

// Payload описывает дополнительную информацию вектора
type Payload map[string]any

// Embedding представляет вектор одного объекта (товара или пользователя)
type Embedding struct {
	ID      string
	Vector  []float32
	Payload Payload
}

func NewEmbedding(id string, vector []float32, payload Payload) *Embedding {
	return &Embedding{
		ID:      id,
		Vector:  vector,
		Payload: payload,
	}
}

func NewPayload(productID string, modelVersion string) Payload {
	return Payload{
		"product_id":    productID,
		"created_at":    time.Now().UTC().UnixNano(),
		"model_version": modelVersion,
	}
}

// ZeroVector возвращает нулевой вектор размерности dim.
// Используется как cold-start эмбеддинг пользователя без истории покупок.
func ZeroVector(dim int) []float32 {
	return make([]float32, dim)
}

// IsZero сообщает, являются ли все координаты вектора нулевыми.
func IsZero(vector []float32) bool {
	for _, v := range vector {
		if v != 0 {
			return false
		}
	}

	return true
}
