package domain

// Recommendation — один элемент выдачи рекомендаций.
// Score — косинусная близость к вкусовому вектору пользователя, в диапазоне [-1, 1].
type Recommendation struct {
	ProductID string
	Name      string
	Score     float64
	Price     int64
	ImageKey  *string
	Category  string
}

func NewRecommendation(product *Product, score float64) Recommendation {
	return Recommendation{
		ProductID: product.ID,
		Name:      product.Name,
		Score:     score,
		Price:     product.Price,
		ImageKey:  product.ImageKey,
		Category:  product.Category,
	}
}
