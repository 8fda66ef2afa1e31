package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aswaq/storefront/internal/core/domain"
	"github.com/aswaq/storefront/internal/core/port"
)

var _ port.CatalogReader = (*RemoteCatalog)(nil)
var _ port.OrderStatusReader = (*RemoteCatalog)(nil)

const searchLimit = 20

// RemoteCatalog reads products and categories from the backend
// database.
type RemoteCatalog struct {
	sqldb sqldb
}

func NewRemoteCatalog(sqldb sqldb) RemoteCatalog {
	return RemoteCatalog{sqldb}
}

const productColumns = `
	id, name, price, description, image, image_alt,
	category_id, stock, barcode, is_available`

func (r RemoteCatalog) ProductByID(
	ctx context.Context, id string,
) (domain.Product, error) {
	const op = "RemoteCatalog.ProductByID"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT` + productColumns + `
		FROM products WHERE id = $1;`

	p, err := scanProduct(r.sqldb.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (r RemoteCatalog) ProductsPage(
	ctx context.Context, page, pageSize int, categoryID string,
) ([]domain.Product, error) {
	const op = "RemoteCatalog.ProductsPage"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	start, end := PageBounds(page, pageSize)

	query := `
		SELECT` + productColumns + `
		FROM products
		WHERE is_available
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;`
	args := []any{end - start + 1, start}

	if categoryID != "" {
		query = `
			SELECT` + productColumns + `
			FROM products
			WHERE is_available AND category_id = $3
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2;`
		args = append(args, categoryID)
	}

	rows, err := r.sqldb.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectProducts(op, rows)
}

func (r RemoteCatalog) ProductsByCategory(
	ctx context.Context, categoryID string,
) ([]domain.Product, error) {
	const op = "RemoteCatalog.ProductsByCategory"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT` + productColumns + `
		FROM products
		WHERE is_available AND category_id = $1
		ORDER BY created_at DESC;`

	rows, err := r.sqldb.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectProducts(op, rows)
}

// Search treats an all-digit query as an exact barcode lookup,
// anything else as a case-insensitive substring match on the name.
func (r RemoteCatalog) Search(
	ctx context.Context, query string,
) ([]domain.Product, error) {
	const op = "RemoteCatalog.Search"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}

	sqlQuery := `
		SELECT` + productColumns + `
		FROM products
		WHERE is_available AND name ILIKE $1
		ORDER BY created_at DESC
		LIMIT $2;`
	arg := "%" + q + "%"

	if isNumeric(q) {
		sqlQuery = `
			SELECT` + productColumns + `
			FROM products
			WHERE is_available AND barcode = $1
			ORDER BY created_at DESC
			LIMIT $2;`
		arg = q
	}

	rows, err := r.sqldb.QueryContext(ctx, sqlQuery, arg, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectProducts(op, rows)
}

func (r RemoteCatalog) Categories(
	ctx context.Context,
) ([]domain.Category, error) {
	const op = "RemoteCatalog.Categories"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT id, name, icon FROM categories ORDER BY name ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var cs []domain.Category
	for rows.Next() {
		var c domain.Category
		var icon sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &icon); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		c.Icon = icon.String
		cs = append(cs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cs, nil
}

func (r RemoteCatalog) CategoryByID(
	ctx context.Context, id string,
) (domain.Category, error) {
	const op = "RemoteCatalog.CategoryByID"

	if err := ctx.Err(); err != nil {
		return domain.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT id, name, icon FROM categories WHERE id = $1;`

	var c domain.Category
	var icon sql.NullString
	err := r.sqldb.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &icon)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Category{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return domain.Category{}, fmt.Errorf("%s: %w", op, err)
	}
	c.Icon = icon.String
	return c, nil
}

func (r RemoteCatalog) LatestOrderStatus(
	ctx context.Context, userID string,
) (string, error) {
	const op = "RemoteCatalog.LatestOrderStatus"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT status FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1;`

	var status string
	err := r.sqldb.QueryRowContext(ctx, query, userID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return status, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var description, image, imageAlt, categoryID, barcode sql.NullString
	var stock sql.NullInt64

	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &description, &image, &imageAlt,
		&categoryID, &stock, &barcode, &p.Available,
	)
	if err != nil {
		return domain.Product{}, err
	}

	p.Description = description.String
	p.Image = image.String
	if p.Image == "" {
		p.Image = domain.PlaceholderImage
	}
	p.ImageAlt = imageAlt.String
	if p.ImageAlt == "" {
		p.ImageAlt = p.Name
	}
	p.CategoryID = categoryID.String
	p.Stock = int(stock.Int64)
	p.Barcode = barcode.String
	return p, nil
}

func collectProducts(op string, rows *sql.Rows) ([]domain.Product, error) {
	defer rows.Close()

	var ps []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
