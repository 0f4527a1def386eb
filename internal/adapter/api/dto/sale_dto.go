package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-vendas/internal/application/saleapp"
	"github.com/hugohenrick/erp-vendas/internal/domain/sale"
	"github.com/hugohenrick/erp-vendas/pkg/query"
	"github.com/shopspring/decimal"
)

// ProductDetailsRequest representa os dados do produto no momento da venda
type ProductDetailsRequest struct {
	Title    string          `json:"title" binding:"required"`
	Category string          `json:"category" binding:"required"`
	Price    decimal.Decimal `json:"price" swaggertype:"string" example:"19.90"`
	Image    string          `json:"image" binding:"required"`
}

// SaleItemRequest representa um item na criação/atualização de venda.
// Na atualização, itens sem id são novos.
type SaleItemRequest struct {
	ID             *uuid.UUID             `json:"id,omitempty" swaggertype:"string" format:"uuid"`
	ProductID      uuid.UUID              `json:"product_id" swaggertype:"string" format:"uuid"`
	Quantity       int                    `json:"quantity" example:"4"`
	ProductDetails *ProductDetailsRequest `json:"product_details"`
}

// SaleRequest representa a estrutura de dados para criação/atualização de venda
type SaleRequest struct {
	SaleNumber   string            `json:"sale_number" binding:"required,max=50"`
	SaleDate     time.Time         `json:"sale_date" binding:"required"`
	CustomerID   uuid.UUID         `json:"customer_id" swaggertype:"string" format:"uuid"`
	CustomerName string            `json:"customer_name" binding:"max=255"`
	Branch       string            `json:"branch" binding:"required,max=100"`
	IsCancelled  bool              `json:"is_cancelled"`
	Items        []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ListSalesQuery representa os parâmetros de paginação e ordenação da listagem
type ListSalesQuery struct {
	Page    int    `form:"page,default=1" binding:"min=1"`
	Size    int    `form:"size,default=10" binding:"min=1,max=100"`
	OrderBy string `form:"orderBy" binding:"max=200"`
}

// SaleItemResponse representa a estrutura de resposta para item de venda
type SaleItemResponse struct {
	ID             string                 `json:"id"`
	ProductID      string                 `json:"product_id"`
	Quantity       int                    `json:"quantity"`
	Discount       string                 `json:"discount" example:"0.1"`
	UnitPrice      string                 `json:"unit_price" example:"90"`
	TotalAmount    string                 `json:"total_amount" example:"360"`
	ProductDetails ProductDetailsResponse `json:"product_details"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      *time.Time             `json:"updated_at,omitempty"`
}

// ProductDetailsResponse representa os dados do produto gravados no item
type ProductDetailsResponse struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Image    string `json:"image"`
}

// SaleResponse representa a estrutura de resposta para venda
type SaleResponse struct {
	ID           string             `json:"id"`
	SaleNumber   string             `json:"sale_number"`
	SaleDate     time.Time          `json:"sale_date"`
	CustomerID   string             `json:"customer_id"`
	CustomerName string             `json:"customer_name"`
	Branch       string             `json:"branch"`
	TotalAmount  string             `json:"total_amount" example:"840"`
	IsCancelled  bool               `json:"is_cancelled"`
	ItemCount    int                `json:"item_count"`
	Items        []SaleItemResponse `json:"items"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    *time.Time         `json:"updated_at,omitempty"`
}

// SaleListResponse representa a estrutura de resposta para listagem de vendas
type SaleListResponse struct {
	Items       []*SaleResponse `json:"items"`
	TotalCount  int             `json:"total_count"`
	CurrentPage int             `json:"current_page"`
	PageSize    int             `json:"page_size"`
	TotalPages  int             `json:"total_pages"`
	HasNext     bool            `json:"has_next"`
	HasPrevious bool            `json:"has_previous"`
}

func (r SaleRequest) itemSpecs() []sale.ItemSpec {
	specs := make([]sale.ItemSpec, 0, len(r.Items))
	for _, item := range r.Items {
		spec := sale.ItemSpec{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if item.ID != nil {
			spec.ID = *item.ID
		}
		if item.ProductDetails != nil {
			spec.ProductDetails = &sale.ProductDetails{
				Title:    item.ProductDetails.Title,
				Category: item.ProductDetails.Category,
				Price:    item.ProductDetails.Price,
				Image:    item.ProductDetails.Image,
			}
		}
		specs = append(specs, spec)
	}
	return specs
}

// ToCreateInput converte a requisição para o caso de uso de criação
func (r SaleRequest) ToCreateInput() saleapp.CreateInput {
	return saleapp.CreateInput{
		SaleNumber:   r.SaleNumber,
		SaleDate:     r.SaleDate,
		CustomerID:   r.CustomerID,
		CustomerName: r.CustomerName,
		Branch:       r.Branch,
		IsCancelled:  r.IsCancelled,
		Items:        r.itemSpecs(),
	}
}

// ToUpdateInput converte a requisição para o caso de uso de atualização
func (r SaleRequest) ToUpdateInput() saleapp.UpdateInput {
	return saleapp.UpdateInput{
		SaleNumber:   r.SaleNumber,
		SaleDate:     r.SaleDate,
		CustomerID:   r.CustomerID,
		CustomerName: r.CustomerName,
		Branch:       r.Branch,
		IsCancelled:  r.IsCancelled,
		Items:        r.itemSpecs(),
	}
}

// ToSaleResponse converte uma entidade Sale para SaleResponse
func ToSaleResponse(s *sale.Sale) *SaleResponse {
	items := s.Items()
	resp := &SaleResponse{
		ID:           s.ID().String(),
		SaleNumber:   s.SaleNumber(),
		SaleDate:     s.SaleDate(),
		CustomerID:   s.CustomerID().String(),
		CustomerName: s.CustomerName(),
		Branch:       s.Branch(),
		TotalAmount:  s.TotalAmount().String(),
		IsCancelled:  s.IsCancelled(),
		ItemCount:    len(items),
		Items:        make([]SaleItemResponse, 0, len(items)),
		CreatedAt:    s.CreatedAt(),
		UpdatedAt:    s.UpdatedAt(),
	}

	for _, item := range items {
		p := item.ProductDetails()
		resp.Items = append(resp.Items, SaleItemResponse{
			ID:          item.ID().String(),
			ProductID:   item.ProductID().String(),
			Quantity:    item.Quantity(),
			Discount:    item.Discount().String(),
			UnitPrice:   item.UnitPrice().String(),
			TotalAmount: item.TotalAmount().String(),
			ProductDetails: ProductDetailsResponse{
				Title:    p.Title,
				Category: p.Category,
				Price:    p.Price.String(),
				Image:    p.Image,
			},
			CreatedAt: item.CreatedAt(),
			UpdatedAt: item.UpdatedAt(),
		})
	}

	return resp
}

// ToSaleListResponse converte uma página de vendas para SaleListResponse
func ToSaleListResponse(page *query.PaginatedList[*sale.Sale]) *SaleListResponse {
	items := make([]*SaleResponse, 0, len(page.Items))
	for _, s := range page.Items {
		items = append(items, ToSaleResponse(s))
	}

	return &SaleListResponse{
		Items:       items,
		TotalCount:  page.TotalCount,
		CurrentPage: page.CurrentPage,
		PageSize:    page.PageSize,
		TotalPages:  page.TotalPages,
		HasNext:     page.HasNext(),
		HasPrevious: page.HasPrevious(),
	}
}
