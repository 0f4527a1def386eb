package sale

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(price string) *ProductDetails {
	return &ProductDetails{
		Title:    "Arroz 5kg",
		Category: "Mercearia",
		Price:    decimal.RequireFromString(price),
		Image:    "https://cdn.example.com/arroz.png",
	}
}

func TestDiscountFor(t *testing.T) {
	cases := []struct {
		quantity int
		want     string
	}{
		{1, "0"},
		{3, "0"},
		{4, "0.10"},
		{9, "0.10"},
		{10, "0.20"},
		{20, "0.20"},
	}
	for _, tc := range cases {
		got := DiscountFor(tc.quantity)
		assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "quantidade %d: esperado %s, obtido %s", tc.quantity, tc.want, got)
	}
}

func TestNewSaleItem_ComputesPrices(t *testing.T) {
	saleID := uuid.New()

	item, err := NewSaleItem(saleID, uuid.New(), 4, product("100"))
	require.NoError(t, err)
	assert.Equal(t, saleID, item.SaleID())
	assert.True(t, decimal.RequireFromString("90").Equal(item.UnitPrice()))
	assert.True(t, decimal.RequireFromString("360").Equal(item.TotalAmount()))
	assert.Nil(t, item.UpdatedAt())

	item, err = NewSaleItem(saleID, uuid.New(), 12, product("50"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("40").Equal(item.UnitPrice()))
	assert.True(t, decimal.RequireFromString("480").Equal(item.TotalAmount()))
}

func TestNewSaleItem_ExactDecimalArithmetic(t *testing.T) {
	item, err := NewSaleItem(uuid.New(), uuid.New(), 7, product("19.99"))
	require.NoError(t, err)

	// 19.99 * 0.9 = 17.991; 17.991 * 7 = 125.937
	assert.Equal(t, "17.991", item.UnitPrice().String())
	assert.Equal(t, "125.937", item.TotalAmount().String())
}

func TestNewSaleItem_QuantityOutOfRange(t *testing.T) {
	for _, q := range []int{0, -1, 21} {
		_, err := NewSaleItem(uuid.New(), uuid.New(), q, product("10"))
		var domainErr *DomainError
		assert.ErrorAs(t, err, &domainErr, "quantidade %d", q)
	}
}

func TestNewSaleItem_InvalidProduct(t *testing.T) {
	_, err := NewSaleItem(uuid.New(), uuid.New(), 1, nil)
	assert.ErrorIs(t, err, ErrMissingProduct)

	_, err = NewSaleItem(uuid.Nil, uuid.Nil, 1, product("10"))
	assert.ErrorIs(t, err, ErrEmptyProductID)

	p := product("0")
	_, err = NewSaleItem(uuid.New(), uuid.New(), 1, p)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	p = product("10")
	p.Image = " "
	_, err = NewSaleItem(uuid.New(), uuid.New(), 1, p)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "product_details.image", validationErr.Field)
}

func TestProductDetails_LengthCountsCharacters(t *testing.T) {
	p := product("10")
	p.Title = strings.Repeat("ç", 255)
	p.Category = strings.Repeat("ã", 100)
	assert.NoError(t, p.Validate())

	p.Title += "ç"
	assert.ErrorIs(t, p.Validate(), ErrProductTitleTooLong)

	p = product("10")
	p.Category = strings.Repeat("ã", 101)
	assert.ErrorIs(t, p.Validate(), ErrCategoryTooLong)
}

func TestSetValues_AllOrNothing(t *testing.T) {
	item, err := NewSaleItem(uuid.New(), uuid.New(), 2, product("10"))
	require.NoError(t, err)
	before := item.State()

	err = item.SetValues(uuid.New(), 25, product("99"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, before, item.State())

	err = item.SetValues(uuid.New(), 5, nil)
	assert.ErrorIs(t, err, ErrMissingProduct)
	assert.Equal(t, before, item.State())
}

func TestSetValues_SnapshotsProduct(t *testing.T) {
	item, err := NewSaleItem(uuid.New(), uuid.New(), 1, product("10"))
	require.NoError(t, err)

	p := product("20")
	require.NoError(t, item.SetValues(item.ProductID(), 10, p))
	p.Price = decimal.RequireFromString("999")
	p.Title = "alterado"

	assert.Equal(t, "Arroz 5kg", item.ProductDetails().Title)
	assert.True(t, decimal.RequireFromString("16").Equal(item.UnitPrice()))
	assert.True(t, decimal.RequireFromString("160").Equal(item.TotalAmount()))
	assert.NotNil(t, item.UpdatedAt())
}
