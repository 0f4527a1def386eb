package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hugohenrick/erp-vendas/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-vendas/internal/application/saleapp"
	"github.com/hugohenrick/erp-vendas/internal/domain/sale"
	"github.com/hugohenrick/erp-vendas/pkg/correlation"
	"github.com/hugohenrick/erp-vendas/pkg/logger"
	"github.com/hugohenrick/erp-vendas/pkg/query"
)

// SaleController gerencia as requisições relacionadas a vendas
type SaleController struct {
	service *saleapp.Service
	logger  logger.Logger
}

// NewSaleController cria uma nova instância de SaleController
func NewSaleController(service *saleapp.Service, logger logger.Logger) *SaleController {
	return &SaleController{
		service: service,
		logger:  logger,
	}
}

// Create cria uma nova venda
// @Summary Criar venda
// @Description Cria uma nova venda com seus itens. Descontos: 10% a partir de 4 unidades, 20% de 10 a 20 unidades.
// @Tags sales
// @Accept json
// @Produce json
// @Param X-Correlation-ID header string false "ID de correlação"
// @Param sale body dto.SaleRequest true "Dados da venda"
// @Success 201 {object} dto.SaleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales [post]
func (c *SaleController) Create(ctx *gin.Context) {
	var req dto.SaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(ctx.Request.Context(), http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	created, err := c.service.Create(ctx.Request.Context(), req.ToCreateInput())
	if err != nil {
		c.respondError(ctx, "erro ao criar venda", err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToSaleResponse(created))
}

// Get retorna uma venda pelo ID
// @Summary Buscar venda
// @Description Retorna os dados de uma venda e seus itens
// @Tags sales
// @Produce json
// @Param id path string true "ID da venda"
// @Success 200 {object} dto.SaleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales/{id} [get]
func (c *SaleController) Get(ctx *gin.Context) {
	id, ok := c.parseID(ctx)
	if !ok {
		return
	}

	s, err := c.service.Get(ctx.Request.Context(), id)
	if err != nil {
		c.respondError(ctx, "erro ao buscar venda", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSaleResponse(s))
}

// List lista as vendas com filtros, ordenação e paginação
// @Summary Listar vendas
// @Description Lista vendas paginadas. Qualquer outro parâmetro é tratado como filtro:
// @Description campo=valor (texto aceita * no início/fim), _minCampo e _maxCampo para intervalos.
// @Tags sales
// @Produce json
// @Param page query int false "Página" default(1)
// @Param size query int false "Tamanho da página" default(10)
// @Param orderBy query string false "Ordenação, ex: saleDate desc, totalAmount"
// @Param branch query string false "Filial, ex: *Paulo*"
// @Param _minTotalAmount query string false "Valor total mínimo"
// @Param _maxTotalAmount query string false "Valor total máximo"
// @Success 200 {object} dto.SaleListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales [get]
func (c *SaleController) List(ctx *gin.Context) {
	var q dto.ListSalesQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(ctx.Request.Context(), http.StatusBadRequest, "parâmetros inválidos", err.Error()))
		return
	}

	filters := make(map[string]string)
	for key, values := range ctx.Request.URL.Query() {
		if len(values) > 0 {
			filters[key] = values[0]
		}
	}

	page, err := c.service.List(ctx.Request.Context(), saleapp.ListInput{
		Page:    q.Page,
		Size:    q.Size,
		OrderBy: q.OrderBy,
		Filters: filters,
	})
	if err != nil {
		c.respondError(ctx, "erro ao listar vendas", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSaleListResponse(page))
}

// Update atualiza uma venda e reconcilia seus itens
// @Summary Atualizar venda
// @Description Atualiza o cabeçalho e substitui a lista de itens: itens com id são alterados, sem id são incluídos e os ausentes são removidos
// @Tags sales
// @Accept json
// @Produce json
// @Param id path string true "ID da venda"
// @Param sale body dto.SaleRequest true "Dados da venda"
// @Success 200 {object} dto.SaleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sales/{id} [put]
func (c *SaleController) Update(ctx *gin.Context) {
	id, ok := c.parseID(ctx)
	if !ok {
		return
	}

	var req dto.SaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(ctx.Request.Context(), http.StatusBadRequest, "dados inválidos", err.Error()))
		return
	}

	updated, err := c.service.Update(ctx.Request.Context(), id, req.ToUpdateInput())
	if err != nil {
		c.respondError(ctx, "erro ao atualizar venda", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSaleResponse(updated))
}

// Cancel cancela uma venda
// @Summary Cancelar venda
// @Tags sales
// @Produce json
// @Param id path string true "ID da venda"
// @Success 200 {object} dto.SaleResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /sales/{id}/cancel [patch]
func (c *SaleController) Cancel(ctx *gin.Context) {
	id, ok := c.parseID(ctx)
	if !ok {
		return
	}

	cancelled, err := c.service.Cancel(ctx.Request.Context(), id)
	if err != nil {
		c.respondError(ctx, "erro ao cancelar venda", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSaleResponse(cancelled))
}

// Delete remove uma venda
// @Summary Remover venda
// @Tags sales
// @Produce json
// @Param id path string true "ID da venda"
// @Success 200 {object} dto.DeleteSaleResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /sales/{id} [delete]
func (c *SaleController) Delete(ctx *gin.Context) {
	id, ok := c.parseID(ctx)
	if !ok {
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), id); err != nil {
		c.respondError(ctx, "erro ao remover venda", err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewDeleteSaleResponse(ctx.Request.Context(), id))
}

func (c *SaleController) parseID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(ctx.Request.Context(), http.StatusBadRequest, "ID inválido", "o ID da venda deve ser um UUID"))
		return uuid.Nil, false
	}
	return id, true
}

// respondError traduz o erro para o status HTTP correspondente
func (c *SaleController) respondError(ctx *gin.Context, message string, err error) {
	var (
		validationErr *sale.ValidationError
		domainErr     *sale.DomainError
		filterErr     *query.FilterError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr), errors.As(err, &domainErr), errors.As(err, &filterErr):
		status = http.StatusBadRequest
	case errors.Is(err, sale.ErrSaleNotFound):
		status = http.StatusNotFound
	case errors.Is(err, sale.ErrConcurrencyConflict):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		c.logger.Error(message, "error", err, "correlation_id", correlation.FromContext(ctx.Request.Context()))
	}

	ctx.JSON(status, dto.NewErrorResponse(ctx.Request.Context(), status, message, err.Error()))
}
