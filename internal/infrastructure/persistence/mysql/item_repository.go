package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"

	"inventory-api/internal/domain/entity"
	domainErrors "inventory-api/internal/domain/errors"
)

// ER_NO_REFERENCED_ROW_2: category_id が categories に存在しない
const errForeignKeyViolation = 1452

const (
	selectItemsQuery = `SELECT i.id, i.name, i.price, i.quantity, c.id, c.name
		FROM items i JOIN categories c ON c.id = i.category_id`
	findAllItemsQuery     = selectItemsQuery + ` ORDER BY i.id`
	findItemByIDQuery     = selectItemsQuery + ` WHERE i.id = ?`
	findQuantityByIDQuery = `SELECT quantity FROM items WHERE id = ?`
	insertItemQuery       = `INSERT INTO items (name, price, quantity, category_id) VALUES (?, ?, ?, ?)`
	updateItemQuery       = `UPDATE items SET name = ?, price = ?, quantity = ?, category_id = ? WHERE id = ?`
	deleteItemQuery       = `DELETE FROM items WHERE id = ?`
	countByCategoryQuery  = `SELECT c.name, COUNT(*)
		FROM items i JOIN categories c ON c.id = i.category_id
		GROUP BY c.name`
)

type ItemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*entity.Item, error) {
	item := &entity.Item{Category: &entity.Category{}}
	err := row.Scan(&item.ID, &item.Name, &item.Price, &item.Quantity, &item.Category.ID, &item.Category.Name)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *ItemRepository) FindAll(ctx context.Context) ([]*entity.Item, error) {
	rows, err := r.db.QueryContext(ctx, findAllItemsQuery)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := []*entity.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	return items, nil
}

func (r *ItemRepository) FindByID(ctx context.Context, id int64) (*entity.Item, error) {
	item, err := scanItem(r.db.QueryRowContext(ctx, findItemByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainErrors.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query item: %w", err)
	}

	return item, nil
}

func (r *ItemRepository) FindQuantityByID(ctx context.Context, id int64) (int64, error) {
	var quantity int64
	err := r.db.QueryRowContext(ctx, findQuantityByIDQuery, id).Scan(&quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domainErrors.ErrItemNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("query quantity: %w", err)
	}

	return quantity, nil
}

func (r *ItemRepository) Create(ctx context.Context, item *entity.Item) (*entity.Item, error) {
	result, err := r.db.ExecContext(ctx, insertItemQuery,
		item.Name, item.Price, item.Quantity, item.CategoryID(),
	)
	if err != nil {
		return nil, mapWriteError("insert item", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	created := *item
	created.ID = id
	return &created, nil
}

// Update は DSN の clientFoundRows=true を前提に、変更のない行も 1 件として数える
func (r *ItemRepository) Update(ctx context.Context, item *entity.Item) error {
	result, err := r.db.ExecContext(ctx, updateItemQuery,
		item.Name, item.Price, item.Quantity, item.CategoryID(), item.ID,
	)
	if err != nil {
		return mapWriteError("update item", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domainErrors.ErrItemNotFound
	}

	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, deleteItemQuery, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domainErrors.ErrItemNotFound
	}

	return nil
}

func (r *ItemRepository) CountByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, countByCategoryQuery)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			name  string
			count int
		)
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		counts[name] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary: %w", err)
	}

	return counts, nil
}

// mapWriteError turns a foreign key violation into ErrCategoryNotFound;
// the category may have been deleted between lookup and write.
func mapWriteError(op string, err error) error {
	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == errForeignKeyViolation {
		return domainErrors.ErrCategoryNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
