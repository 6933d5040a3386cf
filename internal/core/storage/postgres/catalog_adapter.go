package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	v1 "github.com/pricepulse-lab/pricepulse/internal/api/v1"
	"github.com/pricepulse-lab/pricepulse/internal/core/storage"
)

// CreateProduct inserts a product and populates its database-assigned id.
func (a *Adapter) CreateProduct(ctx context.Context, product *v1.Product) error {
	err := a.db.QueryRowContext(ctx, queryInsertProduct, product.Title, nullStr(product.Link)).Scan(&product.ID)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	slog.Debug("[Postgres] Created product", "product_id", product.ID)
	return nil
}

// GetProduct fetches one product by id.
// Returns storage.ErrNotFound when no row matches.
func (a *Adapter) GetProduct(ctx context.Context, id int64) (*v1.Product, error) {
	var product v1.Product
	var link sql.NullString

	err := a.db.QueryRowContext(ctx, queryGetProduct, id).Scan(&product.ID, &product.Title, &link)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	product.Link = strPtr(link)
	return &product, nil
}

// ListProducts returns a page of products in id order.
func (a *Adapter) ListProducts(ctx context.Context, page storage.Page) ([]*v1.Product, error) {
	skip, limit := normalizePage(page.Skip, page.Limit)

	rows, err := a.db.QueryContext(ctx, queryListProducts, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// ProductCount returns the total number of products.
func (a *Adapter) ProductCount(ctx context.Context) (int64, error) {
	var count int64
	if err := a.db.QueryRowContext(ctx, queryCountProducts).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// UpdateProduct replaces a product's mutable fields.
// Returns storage.ErrNotFound when no row matches the id.
func (a *Adapter) UpdateProduct(ctx context.Context, product *v1.Product) error {
	result, err := a.db.ExecContext(ctx, queryUpdateProduct, product.Title, nullStr(product.Link), product.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return requireRowAffected(result, "update product")
}

// DeleteProduct removes a product. Price facts referencing it are left in
// place; aggregation joins silently drop them.
func (a *Adapter) DeleteProduct(ctx context.Context, id int64) error {
	result, err := a.db.ExecContext(ctx, queryDeleteProduct, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return requireRowAffected(result, "delete product")
}

// SearchProducts filters by case-insensitive title substring and minimum
// price-fact count. Zero values disable the corresponding filter.
func (a *Adapter) SearchProducts(ctx context.Context, title string, minPrices int) ([]*v1.Product, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT pr.id, pr.title, pr.link FROM products pr`)

	var args []interface{}
	var where []string

	if minPrices > 0 {
		sb.WriteString(` JOIN (
			SELECT id_product, COUNT(*) AS price_count
			FROM prices
			GROUP BY id_product
		) pc ON pr.id = pc.id_product`)
		args = append(args, minPrices)
		where = append(where, fmt.Sprintf("pc.price_count >= $%d", len(args)))
	}
	if title != "" {
		args = append(args, "%"+title+"%")
		where = append(where, fmt.Sprintf("pr.title ILIKE $%d", len(args)))
	}
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY pr.id")

	rows, err := a.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// CreateSalePoint inserts a sale point and populates its id.
func (a *Adapter) CreateSalePoint(ctx context.Context, salePoint *v1.SalePoint) error {
	err := a.db.QueryRowContext(ctx, queryInsertSalePoint,
		salePoint.Name,
		nullStr(salePoint.City),
		nullStr(salePoint.Website),
		nullStr(salePoint.Type),
	).Scan(&salePoint.ID)
	if err != nil {
		return fmt.Errorf("failed to insert sale point: %w", err)
	}
	slog.Debug("[Postgres] Created sale point", "sale_point_id", salePoint.ID)
	return nil
}

// GetSalePoint fetches one sale point by id.
func (a *Adapter) GetSalePoint(ctx context.Context, id int64) (*v1.SalePoint, error) {
	var sp v1.SalePoint
	var city, website, spType sql.NullString

	err := a.db.QueryRowContext(ctx, queryGetSalePoint, id).Scan(&sp.ID, &sp.Name, &city, &website, &spType)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sale point: %w", err)
	}
	sp.City = strPtr(city)
	sp.Website = strPtr(website)
	sp.Type = strPtr(spType)
	return &sp, nil
}

// ListSalePoints returns a page of sale points, optionally filtered by
// city and type.
func (a *Adapter) ListSalePoints(ctx context.Context, filter storage.SalePointFilter, page storage.Page) ([]*v1.SalePoint, error) {
	skip, limit := normalizePage(page.Skip, page.Limit)

	query, args := salePointFilterQuery(`SELECT id, name, city, website, type FROM sale_points`, filter)
	query += fmt.Sprintf(" ORDER BY id OFFSET $%d LIMIT $%d", len(args)+1, len(args)+2)
	args = append(args, skip, limit)

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sale points: %w", err)
	}
	defer rows.Close()

	var salePoints []*v1.SalePoint
	for rows.Next() {
		var sp v1.SalePoint
		var city, website, spType sql.NullString
		if err := rows.Scan(&sp.ID, &sp.Name, &city, &website, &spType); err != nil {
			return nil, fmt.Errorf("failed to scan sale point row: %w", err)
		}
		sp.City = strPtr(city)
		sp.Website = strPtr(website)
		sp.Type = strPtr(spType)
		salePoints = append(salePoints, &sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale points: %w", err)
	}
	return salePoints, nil
}

// SalePointCount counts sale points matching the filter.
func (a *Adapter) SalePointCount(ctx context.Context, filter storage.SalePointFilter) (int64, error) {
	query, args := salePointFilterQuery(`SELECT COUNT(*) FROM sale_points`, filter)

	var count int64
	if err := a.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count sale points: %w", err)
	}
	return count, nil
}

// UpdateSalePoint replaces a sale point's mutable fields.
func (a *Adapter) UpdateSalePoint(ctx context.Context, salePoint *v1.SalePoint) error {
	result, err := a.db.ExecContext(ctx, queryUpdateSalePoint,
		salePoint.Name,
		nullStr(salePoint.City),
		nullStr(salePoint.Website),
		nullStr(salePoint.Type),
		salePoint.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update sale point: %w", err)
	}
	return requireRowAffected(result, "update sale point")
}

// DeleteSalePoint removes a sale point.
func (a *Adapter) DeleteSalePoint(ctx context.Context, id int64) error {
	result, err := a.db.ExecContext(ctx, queryDeleteSalePoint, id)
	if err != nil {
		return fmt.Errorf("failed to delete sale point: %w", err)
	}
	return requireRowAffected(result, "delete sale point")
}

// CreateDate inserts a date record and populates its id.
// The schema allows duplicate (day, month, year) rows.
func (a *Adapter) CreateDate(ctx context.Context, date *v1.DateRecord) error {
	err := a.db.QueryRowContext(ctx, queryInsertDate, date.Day, date.Month, date.Year).Scan(&date.ID)
	if err != nil {
		return fmt.Errorf("failed to insert date: %w", err)
	}
	return nil
}

// GetDate fetches one date record by id.
func (a *Adapter) GetDate(ctx context.Context, id int64) (*v1.DateRecord, error) {
	var date v1.DateRecord
	err := a.db.QueryRowContext(ctx, queryGetDate, id).Scan(&date.ID, &date.Day, &date.Month, &date.Year)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get date: %w", err)
	}
	return &date, nil
}

// ListDates returns a page of date records, optionally filtered by year
// and month.
func (a *Adapter) ListDates(ctx context.Context, filter storage.DateFilter, page storage.Page) ([]*v1.DateRecord, error) {
	skip, limit := normalizePage(page.Skip, page.Limit)

	query := `SELECT id, day, month, year FROM dates`
	var args []interface{}
	var where []string

	if filter.Year != 0 {
		args = append(args, filter.Year)
		where = append(where, fmt.Sprintf("year = $%d", len(args)))
	}
	if filter.Month != 0 {
		args = append(args, filter.Month)
		where = append(where, fmt.Sprintf("month = $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY id OFFSET $%d LIMIT $%d", len(args)+1, len(args)+2)
	args = append(args, skip, limit)

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list dates: %w", err)
	}
	defer rows.Close()

	var dates []*v1.DateRecord
	for rows.Next() {
		var date v1.DateRecord
		if err := rows.Scan(&date.ID, &date.Day, &date.Month, &date.Year); err != nil {
			return nil, fmt.Errorf("failed to scan date row: %w", err)
		}
		dates = append(dates, &date)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dates: %w", err)
	}
	return dates, nil
}

// DeleteDate removes a date record.
func (a *Adapter) DeleteDate(ctx context.Context, id int64) error {
	result, err := a.db.ExecContext(ctx, queryDeleteDate, id)
	if err != nil {
		return fmt.Errorf("failed to delete date: %w", err)
	}
	return requireRowAffected(result, "delete date")
}

// CreateAssociation records that a sale point carries a product.
// Returns storage.ErrDuplicate when the pair already exists.
func (a *Adapter) CreateAssociation(ctx context.Context, assoc *v1.ProductSalePoint) error {
	result, err := a.db.ExecContext(ctx, queryInsertAssociation, assoc.ProductID, assoc.SalePointID)
	if err != nil {
		return fmt.Errorf("failed to insert association: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check association insert: %w", err)
	}
	if affected == 0 {
		return storage.ErrDuplicate
	}
	return nil
}

// GetAssociation fetches one product–sale-point association.
func (a *Adapter) GetAssociation(ctx context.Context, productID, salePointID int64) (*v1.ProductSalePoint, error) {
	var assoc v1.ProductSalePoint
	err := a.db.QueryRowContext(ctx, queryGetAssociation, productID, salePointID).
		Scan(&assoc.ProductID, &assoc.SalePointID)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get association: %w", err)
	}
	return &assoc, nil
}

// ListAssociations returns a page of associations, optionally filtered by
// either side of the pair.
func (a *Adapter) ListAssociations(ctx context.Context, filter storage.AssociationFilter, page storage.Page) ([]*v1.ProductSalePoint, error) {
	skip, limit := normalizePage(page.Skip, page.Limit)

	query := `SELECT id_product, id_sale_point FROM product_sale_points`
	var args []interface{}
	var where []string

	if filter.ProductID != 0 {
		args = append(args, filter.ProductID)
		where = append(where, fmt.Sprintf("id_product = $%d", len(args)))
	}
	if filter.SalePointID != 0 {
		args = append(args, filter.SalePointID)
		where = append(where, fmt.Sprintf("id_sale_point = $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY id_product, id_sale_point OFFSET $%d LIMIT $%d", len(args)+1, len(args)+2)
	args = append(args, skip, limit)

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list associations: %w", err)
	}
	defer rows.Close()

	var assocs []*v1.ProductSalePoint
	for rows.Next() {
		var assoc v1.ProductSalePoint
		if err := rows.Scan(&assoc.ProductID, &assoc.SalePointID); err != nil {
			return nil, fmt.Errorf("failed to scan association row: %w", err)
		}
		assocs = append(assocs, &assoc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating associations: %w", err)
	}
	return assocs, nil
}

// DeleteAssociation removes a product–sale-point association.
func (a *Adapter) DeleteAssociation(ctx context.Context, productID, salePointID int64) error {
	result, err := a.db.ExecContext(ctx, queryDeleteAssociation, productID, salePointID)
	if err != nil {
		return fmt.Errorf("failed to delete association: %w", err)
	}
	return requireRowAffected(result, "delete association")
}

func salePointFilterQuery(base string, filter storage.SalePointFilter) (string, []interface{}) {
	var args []interface{}
	var where []string

	if filter.City != "" {
		args = append(args, filter.City)
		where = append(where, fmt.Sprintf("city = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if len(where) > 0 {
		base += " WHERE " + strings.Join(where, " AND ")
	}
	return base, args
}

func scanProducts(rows *sql.Rows) ([]*v1.Product, error) {
	var products []*v1.Product
	for rows.Next() {
		var product v1.Product
		var link sql.NullString
		if err := rows.Scan(&product.ID, &product.Title, &link); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		product.Link = strPtr(link)
		products = append(products, &product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

func requireRowAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", op, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
