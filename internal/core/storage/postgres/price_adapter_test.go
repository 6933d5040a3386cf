package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	v1 "github.com/pricepulse-lab/pricepulse/internal/api/v1"
	"github.com/pricepulse-lab/pricepulse/internal/core/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAdapter_CreatePrice(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	price := &v1.Price{
		ProductID:   1,
		SalePointID: 2,
		DateID:      3,
		Price:       decimal.RequireFromString("12.50"),
	}

	mock.ExpectExec(regexp.QuoteMeta(queryInsertPrice)).
		WithArgs(int64(1), int64(2), int64(3), price.Price).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, adapter.CreatePrice(context.Background(), price))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_CreatePriceDuplicateTriple(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	price := &v1.Price{
		ProductID:   1,
		SalePointID: 2,
		DateID:      3,
		Price:       decimal.RequireFromString("12.50"),
	}

	mock.ExpectExec(regexp.QuoteMeta(queryInsertPrice)).
		WithArgs(int64(1), int64(2), int64(3), price.Price).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := adapter.CreatePrice(context.Background(), price)
	require.ErrorIs(t, err, storage.ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_GetPriceParsesNumeric(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(regexp.QuoteMeta(queryGetPrice)).
		WithArgs(int64(1), int64(2), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id_product", "id_sale_point", "id_date", "price"}).
			AddRow(int64(1), int64(2), int64(3), "12.50"))

	price, err := adapter.GetPrice(context.Background(), 1, 2, 3)
	require.NoError(t, err)
	require.Equal(t, "12.5", price.Price.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_GetPriceNotFound(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(regexp.QuoteMeta(queryGetPrice)).
		WithArgs(int64(1), int64(2), int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id_product", "id_sale_point", "id_date", "price"}))

	_, err := adapter.GetPrice(context.Background(), 1, 2, 99)
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_ListPricesUnfiltered(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT id_product, id_sale_point, id_date, price FROM prices ORDER BY id_product, id_sale_point, id_date OFFSET \$1 LIMIT \$2`).
		WithArgs(0, defaultListLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id_product", "id_sale_point", "id_date", "price"}).
			AddRow(int64(1), int64(2), int64(3), "10.00").
			AddRow(int64(1), int64(2), int64(4), "11.00"))

	prices, err := adapter.ListPrices(context.Background(), storage.PriceFilter{}, storage.Page{})
	require.NoError(t, err)
	require.Len(t, prices, 2)
	require.Equal(t, "11", prices[1].Price.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_ListPricesFiltersOnCompositeKey(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`WHERE id_product = \$1 AND id_sale_point = \$2 AND id_date = \$3`).
		WithArgs(int64(1), int64(2), int64(3), 0, defaultListLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id_product", "id_sale_point", "id_date", "price"}).
			AddRow(int64(1), int64(2), int64(3), "10.00"))

	prices, err := adapter.ListPrices(context.Background(),
		storage.PriceFilter{ProductID: 1, SalePointID: 2, DateID: 3}, storage.Page{})
	require.NoError(t, err)
	require.Len(t, prices, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_PriceCount(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(regexp.QuoteMeta(queryCountPrices)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(120)))

	count, err := adapter.PriceCount(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(120), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_DeletePriceNotFound(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectExec(regexp.QuoteMeta(queryDeletePrice)).
		WithArgs(int64(1), int64(2), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := adapter.DeletePrice(context.Background(), 1, 2, 3)
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_ListPriceDetailsAllSalePoints(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`JOIN products pr ON p\.id_product = pr\.id`).
		WithArgs(defaultListLimit).
		WillReturnRows(sqlmock.NewRows([]string{
			"price", "id_sale_point",
			"d_id", "day", "month", "year",
			"pr_id", "title", "link",
		}).AddRow("9.99", int64(2), int64(3), 15, 3, 2024, int64(1), "Olive Oil 1L", nil))

	details, err := adapter.ListPriceDetails(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.Equal(t, "Olive Oil 1L", details[0].Product.Title)
	require.Equal(t, 2024, details[0].Date.Year)
	require.Nil(t, details[0].Product.Link)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_ListPriceDetailsFiltersBySalePoint(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`WHERE p\.id_sale_point = \$1 LIMIT \$2`).
		WithArgs(int64(2), 50).
		WillReturnRows(sqlmock.NewRows([]string{
			"price", "id_sale_point",
			"d_id", "day", "month", "year",
			"pr_id", "title", "link",
		}))

	details, err := adapter.ListPriceDetails(context.Background(), 2, 50)
	require.NoError(t, err)
	require.Empty(t, details)
	require.NoError(t, mock.ExpectationsWereMet())
}
