package api

import (
	"net/http"

	"sales_reports/internal/config"
	"sales_reports/internal/metrics"
	"sales_reports/internal/sales"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the collaborators the routes need.
type Deps struct {
	Config  *config.Config
	Service *sales.Service
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// NewRouter creates the Gin engine with the global middleware and every route.
func NewRouter(deps Deps) *gin.Engine {
	e := gin.New()
	e.Use(gin.Recovery())
	e.Use(requestLogger(deps.Logger))
	e.Use(metricsMiddleware(deps.Metrics))
	e.Use(corsMiddleware(deps.Config.CORS))

	InitRoutes(e, deps)
	return e
}

// InitRoutes registers the report endpoints under the configured base path,
// plus the ping, health and metrics endpoints at the root.
// Only the report endpoints are rate limited.
func InitRoutes(e *gin.Engine, deps Deps) {
	salesHandler := NewSalesHandler(deps.Service, deps.Logger, deps.Metrics)

	reports := e.Group(deps.Config.App.BasePath)
	reports.Use(rateLimitMiddleware(deps.Config.RateLimit))
	{
		reports.GET("/total-revenue", salesHandler.handleTotalRevenue)
		reports.GET("/quantity-by-product", salesHandler.handleQuantityByProduct)
		reports.GET("/top-products", salesHandler.handleTopProducts)
		reports.GET("/average-price", salesHandler.handleAveragePrice)
		reports.GET("/revenue-by-month", salesHandler.handleRevenueByMonth)
		reports.GET("/highest-quantity-sold", salesHandler.handleHighestQuantitySold)
		reports.GET("/department-salary-expense", salesHandler.handleDepartmentSalaryExpense)
	}

	e.GET("/health", salesHandler.handleHealth)
	if deps.Metrics != nil {
		e.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}
