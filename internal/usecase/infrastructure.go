package usecase

import "context"

// EncoderInfra — клиент внешнего сервиса векторизации текста.
// Энкодер детерминирован: одинаковый текст всегда дает одинаковый вектор.
type EncoderInfra interface {
	EncodeTexts(ctx context.Context, req *EncodeReq) ([]EncodeRes, error)
}

type ImagesInfra interface {
	UploadImages(ctx context.Context, req *UploadImagesReq) (*UploadImagesRes, error)
	CleanupImages(keys []string)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}
