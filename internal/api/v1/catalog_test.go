package v1

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestProductValidate(t *testing.T) {
	tests := []struct {
		name    string
		product Product
		wantErr string
	}{
		{
			name:    "valid",
			product: Product{Title: "Cordless Drill", Link: strPtr("https://shop.example.com/drill")},
		},
		{
			name:    "valid without link",
			product: Product{Title: "AA Batteries"},
		},
		{
			name:    "title too short",
			product: Product{Title: " x "},
			wantErr: "at least 2 characters",
		},
		{
			name:    "title too long",
			product: Product{Title: string(make([]byte, 256))},
			wantErr: "exceed 255",
		},
		{
			name:    "bad link scheme",
			product: Product{Title: "Drill", Link: strPtr("ftp://shop.example.com")},
			wantErr: "http(s) URL",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.product.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestSalePointValidate(t *testing.T) {
	tests := []struct {
		name      string
		salePoint SalePoint
		wantErr   string
	}{
		{
			name:      "valid full",
			salePoint: SalePoint{Name: "Carrefour City", City: strPtr("Lyon"), Website: strPtr("https://carrefour.fr"), Type: strPtr(SalePointSupermarket)},
		},
		{
			name:      "valid minimal",
			salePoint: SalePoint{Name: "Corner shop"},
		},
		{
			name:      "unknown type",
			salePoint: SalePoint{Name: "Corner shop", Type: strPtr("bakery")},
			wantErr:   "type must be one of",
		},
		{
			name:      "name too short",
			salePoint: SalePoint{Name: "A"},
			wantErr:   "at least 2 characters",
		},
		{
			name:      "bad website",
			salePoint: SalePoint{Name: "Corner shop", Website: strPtr("not-a-url")},
			wantErr:   "http(s) URL",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.salePoint.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestDateRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		date    DateRecord
		wantErr string
	}{
		{name: "valid", date: DateRecord{Day: 15, Month: 3, Year: 2024}},
		{name: "leap day on leap year", date: DateRecord{Day: 29, Month: 2, Year: 2024}},
		{name: "leap day on non-leap year", date: DateRecord{Day: 29, Month: 2, Year: 2023}, wantErr: "invalid day 29 for month 2"},
		{name: "century non-leap", date: DateRecord{Day: 29, Month: 2, Year: 2100}, wantErr: "invalid day 29 for month 2"},
		{name: "month out of range", date: DateRecord{Day: 1, Month: 13, Year: 2024}, wantErr: "month must be"},
		{name: "day out of range", date: DateRecord{Day: 32, Month: 1, Year: 2024}, wantErr: "day must be"},
		{name: "april 31", date: DateRecord{Day: 31, Month: 4, Year: 2024}, wantErr: "invalid day 31 for month 4"},
		{name: "year below bound", date: DateRecord{Day: 1, Month: 1, Year: 1999}, wantErr: "year must be"},
		{name: "year above bound", date: DateRecord{Day: 1, Month: 1, Year: 2101}, wantErr: "year must be"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.date.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestPriceValidate(t *testing.T) {
	valid := Price{ProductID: 1, SalePointID: 2, DateID: 3, Price: decimal.NewFromFloat(9.99)}
	require.NoError(t, valid.Validate())

	zeroPrice := valid
	zeroPrice.Price = decimal.Zero
	require.ErrorContains(t, zeroPrice.Validate(), "price must be greater than 0")

	negative := valid
	negative.Price = decimal.NewFromFloat(-1.50)
	require.ErrorContains(t, negative.Validate(), "price must be greater than 0")

	missingKey := valid
	missingKey.DateID = 0
	require.ErrorContains(t, missingKey.Validate(), "id_date is required")
}

func TestProductSalePointValidate(t *testing.T) {
	require.NoError(t, (&ProductSalePoint{ProductID: 1, SalePointID: 1}).Validate())
	require.ErrorContains(t, (&ProductSalePoint{SalePointID: 1}).Validate(), "id_product is required")
	require.ErrorContains(t, (&ProductSalePoint{ProductID: 1}).Validate(), "id_sale_point is required")
}
