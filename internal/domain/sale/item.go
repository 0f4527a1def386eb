package sale

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxQuantity é a quantidade máxima de um mesmo produto por item
const MaxQuantity = 20

var (
	tenPercent    = decimal.RequireFromString("0.10")
	twentyPercent = decimal.RequireFromString("0.20")
)

// now é substituído nos testes
var now = func() time.Time {
	return time.Now().UTC()
}

// ProductDetails é a fotografia do produto no momento da venda
type ProductDetails struct {
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
}

// Validate verifica os dados do produto
func (p ProductDetails) Validate() error {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return ErrEmptyProductTitle
	}
	if utf8.RuneCountInString(title) > 255 {
		return ErrProductTitleTooLong
	}
	category := strings.TrimSpace(p.Category)
	if category == "" {
		return ErrEmptyCategory
	}
	if utf8.RuneCountInString(category) > 100 {
		return ErrCategoryTooLong
	}
	if !p.Price.IsPositive() {
		return ErrInvalidPrice
	}
	if strings.TrimSpace(p.Image) == "" {
		return ErrEmptyImage
	}
	return nil
}

// ItemSpec descreve um item recebido na criação ou atualização da venda.
// ID igual a uuid.Nil indica um item novo.
type ItemSpec struct {
	ID             uuid.UUID
	ProductID      uuid.UUID
	Quantity       int
	ProductDetails *ProductDetails
}

// SaleItem representa um item de venda
type SaleItem struct {
	id          uuid.UUID
	saleID      uuid.UUID
	productID   uuid.UUID
	quantity    int
	discount    decimal.Decimal
	unitPrice   decimal.Decimal
	totalAmount decimal.Decimal
	product     ProductDetails
	createdAt   time.Time
	updatedAt   *time.Time
}

// itemValues são os valores já validados e calculados de um item
type itemValues struct {
	productID   uuid.UUID
	quantity    int
	discount    decimal.Decimal
	unitPrice   decimal.Decimal
	totalAmount decimal.Decimal
	product     ProductDetails
}

// DiscountFor retorna o desconto aplicável à quantidade
func DiscountFor(quantity int) decimal.Decimal {
	switch {
	case quantity >= 10:
		return twentyPercent
	case quantity >= 4:
		return tenPercent
	default:
		return decimal.Zero
	}
}

func computeItemValues(productID uuid.UUID, quantity int, details *ProductDetails) (itemValues, error) {
	if quantity <= 0 || quantity > MaxQuantity {
		return itemValues{}, ErrInvalidQuantity
	}
	if productID == uuid.Nil {
		return itemValues{}, ErrEmptyProductID
	}
	if details == nil {
		return itemValues{}, ErrMissingProduct
	}
	product := *details
	if err := product.Validate(); err != nil {
		return itemValues{}, err
	}

	discount := DiscountFor(quantity)
	unitPrice := product.Price.Mul(decimal.NewFromInt(1).Sub(discount))

	return itemValues{
		productID:   productID,
		quantity:    quantity,
		discount:    discount,
		unitPrice:   unitPrice,
		totalAmount: unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		product:     product,
	}, nil
}

// NewSaleItem cria um novo item para a venda informada
func NewSaleItem(saleID, productID uuid.UUID, quantity int, details *ProductDetails) (*SaleItem, error) {
	values, err := computeItemValues(productID, quantity, details)
	if err != nil {
		return nil, err
	}
	item := &SaleItem{
		id:        uuid.New(),
		saleID:    saleID,
		createdAt: now(),
	}
	item.apply(values)
	return item, nil
}

// SetValues valida e aplica produto e quantidade, recalculando desconto,
// preço unitário e total. Em caso de erro o item não é alterado.
func (i *SaleItem) SetValues(productID uuid.UUID, quantity int, details *ProductDetails) error {
	values, err := computeItemValues(productID, quantity, details)
	if err != nil {
		return err
	}
	i.apply(values)
	ts := now()
	i.updatedAt = &ts
	return nil
}

func (i *SaleItem) apply(v itemValues) {
	i.productID = v.productID
	i.quantity = v.quantity
	i.discount = v.discount
	i.unitPrice = v.unitPrice
	i.totalAmount = v.totalAmount
	i.product = v.product
}

func (i *SaleItem) ID() uuid.UUID { return i.id }
func (i *SaleItem) SaleID() uuid.UUID { return i.saleID }
func (i *SaleItem) ProductID() uuid.UUID { return i.productID }
func (i *SaleItem) Quantity() int { return i.quantity }
func (i *SaleItem) Discount() decimal.Decimal { return i.discount }
func (i *SaleItem) UnitPrice() decimal.Decimal { return i.unitPrice }
func (i *SaleItem) TotalAmount() decimal.Decimal { return i.totalAmount }
func (i *SaleItem) ProductDetails() ProductDetails { return i.product }
func (i *SaleItem) CreatedAt() time.Time { return i.createdAt }

// UpdatedAt retorna a data da última alteração, ou nil se nunca alterado
func (i *SaleItem) UpdatedAt() *time.Time {
	if i.updatedAt == nil {
		return nil
	}
	ts := *i.updatedAt
	return &ts
}

func (i *SaleItem) clone() *SaleItem {
	c := *i
	c.updatedAt = i.UpdatedAt()
	return &c
}

// ItemState é o estado persistido de um item
type ItemState struct {
	ID          uuid.UUID
	SaleID      uuid.UUID
	ProductID   uuid.UUID
	Quantity    int
	Discount    decimal.Decimal
	UnitPrice   decimal.Decimal
	TotalAmount decimal.Decimal
	Product     ProductDetails
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// RestoreSaleItem reconstrói um item a partir do estado persistido, sem validar
func RestoreSaleItem(s ItemState) *SaleItem {
	item := &SaleItem{
		id:          s.ID,
		saleID:      s.SaleID,
		productID:   s.ProductID,
		quantity:    s.Quantity,
		discount:    s.Discount,
		unitPrice:   s.UnitPrice,
		totalAmount: s.TotalAmount,
		product:     s.Product,
		createdAt:   s.CreatedAt,
	}
	if s.UpdatedAt != nil {
		ts := *s.UpdatedAt
		item.updatedAt = &ts
	}
	return item
}

// State retorna o estado do item para persistência
func (i *SaleItem) State() ItemState {
	return ItemState{
		ID:          i.id,
		SaleID:      i.saleID,
		ProductID:   i.productID,
		Quantity:    i.quantity,
		Discount:    i.discount,
		UnitPrice:   i.unitPrice,
		TotalAmount: i.totalAmount,
		Product:     i.product,
		CreatedAt:   i.createdAt,
		UpdatedAt:   i.UpdatedAt(),
	}
}
