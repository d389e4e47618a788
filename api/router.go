package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pos_sales/internal/sales"
)

// InitRoutes registers the sales endpoints on the given Gin engine. When
// metrics is not nil it is served on /metrics.
func InitRoutes(e *gin.Engine, salesService *sales.Service, logger *zap.Logger, metrics http.Handler) {
	salesHandler := NewSalesHandler(salesService, logger)

	e.POST("/sales", salesHandler.handleCreateSale)
	e.GET("/sales", salesHandler.handleListSales)
	e.GET("/sales/summary", salesHandler.handleSummary)
	e.GET("/sales/:id", salesHandler.handleGetSale)
	e.DELETE("/sales/:id", salesHandler.handleDeleteSale)

	if metrics != nil {
		e.GET("/metrics", gin.WrapH(metrics))
	}

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}
