package converter

// EmbeddingRedisModel — JSON-представление эмбеддинга в Redis.
type EmbeddingRedisModel struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload,omitempty"`
}
