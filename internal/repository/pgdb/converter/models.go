package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
// CategoryName приходит из JOIN с categories.
type ProductModel struct {
	ID           string     `db:"id"`
	Name         string     `db:"name"`
	Description  string     `db:"description"`
	Price        int64      `db:"price"`
	CategoryName string     `db:"category_name"`
	Tags         []string   `db:"tags"`
	ImageKey     *string    `db:"image_key"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at"`
	IsArchived   bool       `db:"is_archived"`
}

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID         int64      `db:"id"`
	Name       string     `db:"name"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  *time.Time `db:"updated_at"`
	IsArchived bool       `db:"is_archived"`
}

// PurchaseModel представляет запись таблицы purchases в PostgreSQL.
type PurchaseModel struct {
	UserID    string    `db:"user_id"`
	ProductID string    `db:"product_id"`
	Quantity  int32     `db:"quantity"`
	PricePaid int64     `db:"price_paid"`
	CreatedAt time.Time `db:"created_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	EntityID    string     `db:"entity_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
