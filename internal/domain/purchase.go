package domain

import "time"

// PurchaseRecord описывает одну позицию истории покупок пользователя
type PurchaseRecord struct {
	UserID    string
	ProductID string
	Quantity  int32 // всегда положительное
	PricePaid int64 // фактически уплаченная цена в копейках
	CreatedAt time.Time
}

func NewPurchaseRecord(userID string, productID string, quantity int32, pricePaid int64) *PurchaseRecord {
	return &PurchaseRecord{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		PricePaid: pricePaid,
	}
}
