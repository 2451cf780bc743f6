//go:generate goverter gen github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/repository/pgdb/converter
package converter

import (
	"time"

	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/domain"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/usecase"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertPointerString
type ProductConverter interface {
	// goverter:map Category CategoryName
	ToModel(entity *domain.Product) *ProductModel
	// goverter:map CategoryName Category
	ToEntity(model *ProductModel) *domain.Product
}

// CategoryConverter преобразует сущности Category между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
type CategoryConverter interface {
	ToModel(entity *domain.Category) *CategoryModel
	ToEntity(model *CategoryModel) *domain.Category
}

// PurchaseConverter преобразует записи истории покупок между domain и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
type PurchaseConverter interface {
	ToModel(entity *domain.PurchaseRecord) *PurchaseModel
	ToEntity(model *PurchaseModel) *domain.PurchaseRecord
	ToArrEntity(models []*PurchaseModel) []*domain.PurchaseRecord
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
// goverter:converter
// goverter:extend ConvertTime
// goverter:extend ConvertPointerTime
// goverter:extend ConvertOutBoxStatus
// goverter:extend ConvertOutboxEventType
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

func ConvertPointerTime(t *time.Time) *time.Time {
	return t
}

func ConvertTime(t time.Time) time.Time {
	return t
}

func ConvertPointerString(s *string) *string {
	return s
}

func ConvertOutBoxStatus(s usecase.OutboxStatus) usecase.OutboxStatus {
	return s
}

func ConvertOutboxEventType(t usecase.OutboxEventType) usecase.OutboxEventType {
	return t
}
