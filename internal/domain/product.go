package domain

import "time"

// Product описывает товар каталога
type Product struct {
	ID          string // внешний идентификатор товара (SKU)
	Name        string
	Description string // опционально; пустая строка допустима
	Price       int64  // Цена хранится в копейках
	Category    string
	Tags        []string
	ImageKey    *string // ключ изображения в S3, опционально
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	IsArchived  bool
}

func NewProduct(id string, name string, description string, price int64, category string, tags []string) *Product {
	return &Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		Tags:        tags,
	}
}

// EmbeddingText возвращает текстовое представление товара для векторизации:
// название и описание, склеенные через пробел. Пустое описание не является ошибкой.
func (p *Product) EmbeddingText() string {
	if p.Description == "" {
		return p.Name
	}

	return p.Name + " " + p.Description
}
