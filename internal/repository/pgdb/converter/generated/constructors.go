package generated

func NewCategoryConverterImpl() *CategoryConverterImpl {
	return &CategoryConverterImpl{}
}

func NewOutboxEventConverterImpl() *OutboxEventConverterImpl {
	return &OutboxEventConverterImpl{}
}

func NewProductConverterImpl() *ProductConverterImpl {
	return &ProductConverterImpl{}
}

func NewPurchaseConverterImpl() *PurchaseConverterImpl {
	return &PurchaseConverterImpl{}
}
