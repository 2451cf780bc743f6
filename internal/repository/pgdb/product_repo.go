package pgdb

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/domain"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/repository/pgdb/converter"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/internal/usecase"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/e"
	"github.com/karthickgaurdian/AI-E-commerce-Assistant/pkg/tr"
)

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// Upsert идемпотентно создаёт или обновляет товар по внешнему идентификатору.
// Категория создаётся на месте, если её ещё нет. Запись обновляется только
// при фактическом изменении полей; image_key не затирается пустым значением.
func (p *ProductRepo) Upsert(ctx context.Context, product *domain.Product) (*usecase.UpsertProductRes, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// VALUES: id, name, description, price, category_name, tags, image_key
	query := `
		WITH cat AS (
			INSERT INTO categories (name) VALUES ($5)
			ON CONFLICT (name) DO NOTHING
			RETURNING id
		),
		cat_id AS (
			SELECT id FROM cat
			UNION ALL
			SELECT id FROM categories WHERE name = $5
			LIMIT 1
		),
		upsert AS (
		INSERT INTO products (id, name, description, price, category_id, tags, image_key)
		VALUES ($1, $2, $3, $4, (SELECT id FROM cat_id), $6, $7)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			category_id = EXCLUDED.category_id,
			tags = EXCLUDED.tags,
			image_key = COALESCE(EXCLUDED.image_key, products.image_key),
			updated_at = NOW()
		WHERE
			products.name IS DISTINCT FROM EXCLUDED.name OR
			products.description IS DISTINCT FROM EXCLUDED.description OR
			products.price IS DISTINCT FROM EXCLUDED.price OR
			products.category_id IS DISTINCT FROM EXCLUDED.category_id OR
			products.tags IS DISTINCT FROM EXCLUDED.tags OR
			(EXCLUDED.image_key IS NOT NULL AND products.image_key IS DISTINCT FROM EXCLUDED.image_key)
		RETURNING
			id, name, description, price, tags, image_key, created_at, updated_at, is_archived
		)
		SELECT
			id, name, description, price, tags, image_key, created_at, updated_at, is_archived,
			false AS no_changes
		FROM upsert

		UNION ALL

		SELECT
			id, name, description, price, tags, image_key, created_at, updated_at, is_archived,
			true AS no_changes
		FROM products
		WHERE id = $1
		  AND NOT EXISTS (SELECT 1 FROM upsert);
	`

	var model converter.ProductModel
	var noChanges bool
	err = tx.QueryRow(ctx, query,
		product.ID, product.Name, product.Description, product.Price,
		product.Category, product.Tags, product.ImageKey,
	).Scan(
		&model.ID, &model.Name, &model.Description, &model.Price, &model.Tags,
		&model.ImageKey, &model.CreatedAt, &model.UpdatedAt, &model.IsArchived, &noChanges,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// Категория известна из запроса, JOIN в CTE не нужен
	model.CategoryName = product.Category

	return usecase.NewUpsertProductRes(p.conv.ToEntity(&model), noChanges), nil
}

// GetProductsInfo возвращает информацию о товарах по их идентификаторам, включая название категории.
func (p *ProductRepo) GetProductsInfo(ctx context.Context, ids []string) ([]usecase.ProductInfo, error) {
	query := `
		SELECT pr.id, pr.name, pr.description, pr.price, cat.name, pr.image_key
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		WHERE pr.id = ANY($1)
	`

	rows, err := p.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]usecase.ProductInfo, 0)
	for rows.Next() {
		var product usecase.ProductInfo
		if err := rows.Scan(
			&product.ID, &product.Name, &product.Description,
			&product.Price, &product.CategoryName, &product.ImageKey,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, product)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

// GetCandidates возвращает пул кандидатов для ранжирования.
// Архивные товары исключаются всегда; пустая категория и нулевой
// ценовой потолок означают отсутствие соответствующего фильтра.
func (p *ProductRepo) GetCandidates(ctx context.Context, filter *usecase.CandidateFilter) ([]domain.Product, error) {
	query := `
		SELECT pr.id, pr.name, pr.description, pr.price, cat.name,
		       pr.tags, pr.image_key, pr.created_at, pr.updated_at, pr.is_archived
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		WHERE NOT pr.is_archived
		  AND ($1 = '' OR cat.name = $1)
		  AND ($2 <= 0 OR pr.price <= $2)
		ORDER BY pr.created_at DESC
		LIMIT $3
	`

	rows, err := p.pool.Query(ctx, query, filter.Category, filter.MaxPriceCents, filter.Limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0, filter.Limit)
	for rows.Next() {
		var model converter.ProductModel
		if err := rows.Scan(
			&model.ID, &model.Name, &model.Description, &model.Price, &model.CategoryName,
			&model.Tags, &model.ImageKey, &model.CreatedAt, &model.UpdatedAt, &model.IsArchived,
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
