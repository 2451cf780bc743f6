package generated

func NewEmbeddingConverterImpl() *EmbeddingConverterImpl {
	return &EmbeddingConverterImpl{}
}
