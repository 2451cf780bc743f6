package usecase

import (
	"context"

	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/domain"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/e"
)

// Null-object реализации опциональных подсистем.
// Выбор между рабочей и no-op реализацией делается один раз при старте
// приложения по конфигурации Features, дальше код подсистем не проверяет
// "включена ли фича".

// NoopVectorIndex — заглушка персистентного индекса эмбеддингов.
type NoopVectorIndex struct{}

func NewNoopVectorIndex() *NoopVectorIndex { return &NoopVectorIndex{} }

func (NoopVectorIndex) Upsert(_ context.Context, _ []domain.Embedding) error { return nil }

func (NoopVectorIndex) Delete(_ context.Context, _ []string) error { return nil }

// NoopOutbox — заглушка outbox-репозитория: события не публикуются.
type NoopOutbox struct{}

func NewNoopOutbox() *NoopOutbox { return &NoopOutbox{} }

func (NoopOutbox) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	return event, nil
}

func (NoopOutbox) GetAndMarkAsProcessing(_ context.Context, _ int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (NoopOutbox) MarkAsProcessed(_ context.Context, _ int64) error { return nil }

// NoopImagesInfra — заглушка хранилища изображений.
// Запросы без изображений проходят, попытка загрузки возвращает ошибку.
type NoopImagesInfra struct{}

func NewNoopImagesInfra() *NoopImagesInfra { return &NoopImagesInfra{} }

func (NoopImagesInfra) UploadImages(_ context.Context, req *UploadImagesReq) (*UploadImagesRes, error) {
	if len(req.Images) > 0 {
		return nil, e.ErrImageStoreDisabled
	}

	return NewUploadImagesRes(nil), nil
}

func (NoopImagesInfra) CleanupImages(_ []string) {}
