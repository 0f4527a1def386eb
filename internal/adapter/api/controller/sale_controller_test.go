package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hugohenrick/erp-vendas/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-vendas/internal/adapter/repository"
	"github.com/hugohenrick/erp-vendas/internal/application/saleapp"
	"github.com/hugohenrick/erp-vendas/internal/domain/event"
	"github.com/hugohenrick/erp-vendas/internal/domain/sale"
	"github.com/hugohenrick/erp-vendas/pkg/correlation"
	"github.com/hugohenrick/erp-vendas/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type nopPublisher struct{}

func (nopPublisher) Publish(_ context.Context, _ event.Event) error { return nil }

// conflictRepository simula uma atualização concorrente
type conflictRepository struct {
	*repository.MemorySaleRepository
}

func (conflictRepository) Update(_ context.Context, _ *sale.Sale) (*sale.Sale, error) {
	return nil, sale.ErrConcurrencyConflict
}

func setupRouter(t *testing.T, repo sale.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.FromZap(zaptest.NewLogger(t))
	ctrl := NewSaleController(saleapp.NewService(repo, nopPublisher{}, log), log)

	r := gin.New()
	r.Use(correlation.Middleware())
	api := r.Group("/api/v1")
	sales := api.Group("/sales")
	sales.POST("", ctrl.Create)
	sales.GET("", ctrl.List)
	sales.GET("/:id", ctrl.Get)
	sales.PUT("/:id", ctrl.Update)
	sales.PATCH("/:id/cancel", ctrl.Cancel)
	sales.DELETE("/:id", ctrl.Delete)
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func item(id string, quantity int, price float64) map[string]any {
	m := map[string]any{
		"product_id": uuid.NewString(),
		"quantity":   quantity,
		"product_details": map[string]any{
			"title":    "Leite Integral",
			"category": "Laticínios",
			"price":    price,
			"image":    "leite.png",
		},
	}
	if id != "" {
		m["id"] = id
	}
	return m
}

func saleBody(number, branch string, items ...map[string]any) map[string]any {
	return map[string]any{
		"sale_number":   number,
		"sale_date":     time.Date(2025, 5, 20, 14, 0, 0, 0, time.UTC).Format(time.RFC3339),
		"customer_id":   uuid.NewString(),
		"customer_name": "Fernanda Lima",
		"branch":        branch,
		"items":         items,
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestSaleController_FullFlow(t *testing.T) {
	r := setupRouter(t, repository.NewMemorySaleRepository())

	// POST
	w := doJSON(r, http.MethodPost, "/api/v1/sales", saleBody("VND-1", "São Paulo", item("", 4, 100), item("", 12, 50)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[dto.SaleResponse](t, w)
	assert.Equal(t, "840", created.TotalAmount)
	assert.Equal(t, 2, created.ItemCount)
	assert.Equal(t, "0.1", created.Items[0].Discount)
	assert.Equal(t, "90", created.Items[0].UnitPrice)
	assert.NotEmpty(t, w.Header().Get(correlation.HeaderName))

	// GET
	w = doJSON(r, http.MethodGet, "/api/v1/sales/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decode[dto.SaleResponse](t, w).ID)

	// PUT: mantém o primeiro item, remove o segundo e inclui um novo
	kept := created.Items[0].ID
	w = doJSON(r, http.MethodPut, "/api/v1/sales/"+created.ID, saleBody("VND-1", "Campinas", item(kept, 10, 100), item("", 1, 7.5)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[dto.SaleResponse](t, w)
	require.Len(t, updated.Items, 2)
	assert.Equal(t, kept, updated.Items[0].ID)
	assert.Equal(t, created.Items[0].CreatedAt, updated.Items[0].CreatedAt)
	assert.Equal(t, "807.5", updated.TotalAmount)
	assert.Equal(t, "Campinas", updated.Branch)

	// PATCH cancel
	w = doJSON(r, http.MethodPatch, "/api/v1/sales/"+created.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[dto.SaleResponse](t, w).IsCancelled)

	// DELETE
	w = doJSON(r, http.MethodDelete, "/api/v1/sales/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	deleted := decode[dto.DeleteSaleResponse](t, w)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, w.Header().Get(correlation.HeaderName), deleted.CorrelationID)

	w = doJSON(r, http.MethodGet, "/api/v1/sales/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(r, http.MethodDelete, "/api/v1/sales/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaleController_ListWithFiltersAndPaging(t *testing.T) {
	r := setupRouter(t, repository.NewMemorySaleRepository())

	for i := 0; i < 25; i++ {
		branch := "Rio de Janeiro"
		if i%5 == 0 {
			branch = "São Paulo"
		}
		w := doJSON(r, http.MethodPost, "/api/v1/sales", saleBody(fmt.Sprintf("V%02d", i), branch, item("", 1, float64(10*(i+1)))))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := doJSON(r, http.MethodGet, "/api/v1/sales?page=3&size=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[dto.SaleListResponse](t, w)
	assert.Equal(t, 25, page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 5)
	assert.False(t, page.HasNext)

	w = doJSON(r, http.MethodGet, "/api/v1/sales?branch=*Paulo*&orderBy=totalAmount%20desc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode[dto.SaleListResponse](t, w)
	assert.Equal(t, 5, page.TotalCount)
	assert.Equal(t, "210", page.Items[0].TotalAmount)

	w = doJSON(r, http.MethodGet, "/api/v1/sales?_minTotalAmount=50&_maxTotalAmount=100&orderBy=totalAmount", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode[dto.SaleListResponse](t, w)
	assert.Equal(t, 6, page.TotalCount)
	assert.Equal(t, "50", page.Items[0].TotalAmount)

	w = doJSON(r, http.MethodGet, "/api/v1/sales?nope=1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/sales?page=9223372036854775807&size=10", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	page = decode[dto.SaleListResponse](t, w)
	assert.Empty(t, page.Items)
	assert.Equal(t, 25, page.TotalCount)
	assert.False(t, page.HasNext)
}

func TestSaleController_BadRequests(t *testing.T) {
	r := setupRouter(t, repository.NewMemorySaleRepository())

	future := saleBody("V1", "Centro", item("", 1, 10))
	future["sale_date"] = time.Now().AddDate(1, 0, 0).Format(time.RFC3339)

	cases := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"ordenação desconhecida", http.MethodGet, "/api/v1/sales?orderBy=price", nil},
		{"intervalo inválido", http.MethodGet, "/api/v1/sales?_minTotalAmount=abc", nil},
		{"página zero", http.MethodGet, "/api/v1/sales?page=0", nil},
		{"página grande demais", http.MethodGet, "/api/v1/sales?size=101", nil},
		{"id inválido", http.MethodGet, "/api/v1/sales/123", nil},
		{"sem itens", http.MethodPost, "/api/v1/sales", saleBody("V1", "Centro")},
		{"quantidade acima do limite", http.MethodPost, "/api/v1/sales", saleBody("V1", "Centro", item("", 21, 10))},
		{"preço zero", http.MethodPost, "/api/v1/sales", saleBody("V1", "Centro", item("", 1, 0))},
		{"data no futuro", http.MethodPost, "/api/v1/sales", future},
		{"filial acima do limite", http.MethodPost, "/api/v1/sales", saleBody("V1", strings.Repeat("ã", 101), item("", 1, 10))},
		{"cliente ausente", http.MethodPost, "/api/v1/sales", map[string]any{
			"sale_number": "V1", "sale_date": time.Now().Format(time.RFC3339), "branch": "Centro",
			"items": []map[string]any{item("", 1, 10)},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(r, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			resp := decode[dto.ErrorResponse](t, w)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
			assert.NotEmpty(t, resp.CorrelationID)
		})
	}
}

func TestSaleController_AccentedBranchWithinLimit(t *testing.T) {
	r := setupRouter(t, repository.NewMemorySaleRepository())
	branch := strings.Repeat("ã", 60)

	w := doJSON(r, http.MethodPost, "/api/v1/sales", saleBody("V1", branch, item("", 1, 10)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, branch, decode[dto.SaleResponse](t, w).Branch)
}

func TestSaleController_CustomerNameOptional(t *testing.T) {
	r := setupRouter(t, repository.NewMemorySaleRepository())

	body := saleBody("V1", "Centro", item("", 1, 10))
	delete(body, "customer_name")
	w := doJSON(r, http.MethodPost, "/api/v1/sales", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Empty(t, decode[dto.SaleResponse](t, w).CustomerName)

	body = saleBody("V2", "Centro", item("", 1, 10))
	body["customer_name"] = strings.Repeat("é", 256)
	w = doJSON(r, http.MethodPost, "/api/v1/sales", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaleController_ErrorEchoesCorrelationID(t *testing.T) {
	r := setupRouter(t, repository.NewMemorySaleRepository())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sales/"+uuid.NewString(), nil)
	req.Header.Set(correlation.HeaderName, "pedido-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	resp := decode[dto.ErrorResponse](t, w)
	assert.Equal(t, "pedido-42", resp.CorrelationID)
	assert.Equal(t, "pedido-42", w.Header().Get(correlation.HeaderName))
}

func TestSaleController_UpdateConflict(t *testing.T) {
	mem := repository.NewMemorySaleRepository()
	w := doJSON(setupRouter(t, mem), http.MethodPost, "/api/v1/sales", saleBody("V1", "Centro", item("", 1, 10)))
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[dto.SaleResponse](t, w)

	r := setupRouter(t, conflictRepository{mem})
	w = doJSON(r, http.MethodPut, "/api/v1/sales/"+created.ID, saleBody("V1", "Centro", item(created.Items[0].ID, 2, 10)))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPut, "/api/v1/sales/"+uuid.NewString(), saleBody("V1", "Centro", item("", 2, 10)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
