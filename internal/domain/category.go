package domain

import "time"

// Category описывает категорию товара
type Category struct {
	ID   int64
	Name string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	IsArchived bool
}

func NewCategory(name string) *Category {
	return &Category{
		Name: name,
	}
}
