package pgdb

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/domain"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/repository/pgdb/converter"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/e"
)

// PurchaseRepo реализует историю покупок поверх PostgreSQL.
type PurchaseRepo struct {
	pool *pgxpool.Pool
	conv converter.PurchaseConverter
}

func NewPurchaseRepo(pool *pgxpool.Pool, conv converter.PurchaseConverter) *PurchaseRepo {
	return &PurchaseRepo{pool: pool, conv: conv}
}

// Create добавляет запись о покупке. Повторные покупки того же товара
// не схлопываются: каждая строка весит в среднем пользователя.
func (p *PurchaseRepo) Create(ctx context.Context, purchase *domain.PurchaseRecord) error {
	query := `
		INSERT INTO purchases (user_id, product_id, quantity, price_paid)
		VALUES ($1, $2, $3, $4)
	`

	model := p.conv.ToModel(purchase)
	if _, err := p.pool.Exec(ctx, query,
		model.UserID, model.ProductID, model.Quantity, model.PricePaid,
	); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// GetHistory возвращает полную историю покупок пользователя в порядке их совершения.
// Пустая история — не ошибка.
func (p *PurchaseRepo) GetHistory(ctx context.Context, userID string) ([]domain.PurchaseRecord, error) {
	query := `
		SELECT user_id, product_id, quantity, price_paid, created_at
		FROM purchases
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := p.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.PurchaseRecord, 0)
	for rows.Next() {
		var model converter.PurchaseModel
		if err := rows.Scan(
			&model.UserID, &model.ProductID, &model.Quantity, &model.PricePaid, &model.CreatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *p.conv.ToEntity(&model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
