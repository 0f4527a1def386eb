package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-vendas/internal/adapter/api/controller"
)

// RegisterSaleRoutes registra as rotas do módulo de vendas
func RegisterSaleRoutes(r *gin.RouterGroup, saleController *controller.SaleController) {
	sales := r.Group("/sales")
	{
		sales.POST("", saleController.Create)
		sales.GET("", saleController.List)
		sales.GET("/:id", saleController.Get)
		sales.PUT("/:id", saleController.Update)
		sales.PATCH("/:id/cancel", saleController.Cancel)
		sales.DELETE("/:id", saleController.Delete)
	}
}
