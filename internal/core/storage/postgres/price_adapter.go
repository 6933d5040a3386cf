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

// CreatePrice inserts one price observation.
// Returns storage.ErrDuplicate when a fact already exists for the
// (product, sale point, date) triple. Referential existence of the three
// keys is checked by the API layer before calling this.
func (a *Adapter) CreatePrice(ctx context.Context, price *v1.Price) error {
	result, err := a.db.ExecContext(ctx, queryInsertPrice,
		price.ProductID,
		price.SalePointID,
		price.DateID,
		price.Price,
	)
	if err != nil {
		return fmt.Errorf("failed to insert price: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check price insert: %w", err)
	}
	if affected == 0 {
		return storage.ErrDuplicate
	}

	slog.Debug("[Postgres] Saved price",
		"product_id", price.ProductID,
		"sale_point_id", price.SalePointID,
		"date_id", price.DateID)
	return nil
}

// GetPrice fetches one price fact by its composite key.
func (a *Adapter) GetPrice(ctx context.Context, productID, salePointID, dateID int64) (*v1.Price, error) {
	var price v1.Price
	var value string

	err := a.db.QueryRowContext(ctx, queryGetPrice, productID, salePointID, dateID).
		Scan(&price.ProductID, &price.SalePointID, &price.DateID, &value)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get price: %w", err)
	}

	price.Price, err = parseDecimal(value)
	if err != nil {
		return nil, err
	}
	return &price, nil
}

// ListPrices returns a page of price facts, optionally filtered on any
// component of the composite key.
func (a *Adapter) ListPrices(ctx context.Context, filter storage.PriceFilter, page storage.Page) ([]*v1.Price, error) {
	skip, limit := normalizePage(page.Skip, page.Limit)

	query := `SELECT id_product, id_sale_point, id_date, price FROM prices`
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
	if filter.DateID != 0 {
		args = append(args, filter.DateID)
		where = append(where, fmt.Sprintf("id_date = $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY id_product, id_sale_point, id_date OFFSET $%d LIMIT $%d", len(args)+1, len(args)+2)
	args = append(args, skip, limit)

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	defer rows.Close()

	var prices []*v1.Price
	for rows.Next() {
		var price v1.Price
		var value string
		if err := rows.Scan(&price.ProductID, &price.SalePointID, &price.DateID, &value); err != nil {
			return nil, fmt.Errorf("failed to scan price row: %w", err)
		}
		if price.Price, err = parseDecimal(value); err != nil {
			return nil, err
		}
		prices = append(prices, &price)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prices: %w", err)
	}
	return prices, nil
}

// PriceCount returns the total number of price facts.
func (a *Adapter) PriceCount(ctx context.Context) (int64, error) {
	var count int64
	if err := a.db.QueryRowContext(ctx, queryCountPrices).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count prices: %w", err)
	}
	return count, nil
}

// DeletePrice removes one price fact by its composite key.
func (a *Adapter) DeletePrice(ctx context.Context, productID, salePointID, dateID int64) error {
	result, err := a.db.ExecContext(ctx, queryDeletePrice, productID, salePointID, dateID)
	if err != nil {
		return fmt.Errorf("failed to delete price: %w", err)
	}
	return requireRowAffected(result, "delete price")
}

// ListPriceDetails returns prices joined with their product and date.
// A zero salePointID means "all sale points".
func (a *Adapter) ListPriceDetails(ctx context.Context, salePointID int64, limit int) ([]*v1.PriceDetail, error) {
	_, limit = normalizePage(0, limit)

	query := `
		SELECT p.price, p.id_sale_point,
			d.id, d.day, d.month, d.year,
			pr.id, pr.title, pr.link
		FROM prices p
		JOIN products pr ON p.id_product = pr.id
		JOIN dates d ON p.id_date = d.id`
	var args []interface{}

	if salePointID != 0 {
		args = append(args, salePointID)
		query += fmt.Sprintf(" WHERE p.id_sale_point = $%d", len(args))
	}
	query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list price details: %w", err)
	}
	defer rows.Close()

	var details []*v1.PriceDetail
	for rows.Next() {
		var detail v1.PriceDetail
		var value string
		var link sql.NullString

		err := rows.Scan(
			&value,
			&detail.SalePoint,
			&detail.Date.ID,
			&detail.Date.Day,
			&detail.Date.Month,
			&detail.Date.Year,
			&detail.Product.ID,
			&detail.Product.Title,
			&link,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price detail row: %w", err)
		}
		if detail.Price, err = parseDecimal(value); err != nil {
			return nil, err
		}
		detail.Product.Link = strPtr(link)
		details = append(details, &detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price details: %w", err)
	}
	return details, nil
}
