package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"sales_reports/internal/metrics"
	"sales_reports/internal/sales"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	noSalesDataMessage  = "No sales data found"
	internalErrorString = "Internal Server Error"
	healthCheckTimeout  = 5 * time.Second
)

// salesHandler holds the sales service and implements HTTP handlers for the reports.
type salesHandler struct {
	salesService *sales.Service
	logger       *zap.Logger
	metrics      *metrics.Metrics
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(salesService *sales.Service, logger *zap.Logger, m *metrics.Metrics) *salesHandler {
	return &salesHandler{
		salesService: salesService,
		logger:       logger,
		metrics:      m,
	}
}

// handleTotalRevenue handles GET /total-revenue.
func (h *salesHandler) handleTotalRevenue(ctx *gin.Context) {
	result, err := h.salesService.TotalRevenue(ctx.Request.Context())
	if err != nil {
		h.respondError(ctx, "total-revenue", err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// handleQuantityByProduct handles GET /quantity-by-product.
func (h *salesHandler) handleQuantityByProduct(ctx *gin.Context) {
	result, err := h.salesService.QuantityByProduct(ctx.Request.Context())
	if err != nil {
		h.respondError(ctx, "quantity-by-product", err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// handleTopProducts handles GET /top-products.
func (h *salesHandler) handleTopProducts(ctx *gin.Context) {
	result, err := h.salesService.TopProductsByRevenue(ctx.Request.Context())
	if err != nil {
		h.respondError(ctx, "top-products", err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func (h *salesHandler) handleAveragePrice(ctx *gin.Context) {
	result, err := h.salesService.AveragePrice(ctx.Request.Context())
	if err != nil {
		h.respondError(ctx, "average-price", err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func (h *salesHandler) handleRevenueByMonth(ctx *gin.Context) {
	result, err := h.salesService.RevenueByMonth(ctx.Request.Context())
	if err != nil {
		h.respondError(ctx, "revenue-by-month", err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// handleHighestQuantitySold handles GET /highest-quantity-sold.
// Responds with a single object, not an array.
func (h *salesHandler) handleHighestQuantitySold(ctx *gin.Context) {
	result, err := h.salesService.HighestQuantitySold(ctx.Request.Context())
	if err != nil {
		h.respondError(ctx, "highest-quantity-sold", err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func (h *salesHandler) handleDepartmentSalaryExpense(ctx *gin.Context) {
	result, err := h.salesService.DepartmentSalaryExpense(ctx.Request.Context())
	if err != nil {
		h.respondError(ctx, "department-salary-expense", err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// handleHealth pings the store.
func (h *salesHandler) handleHealth(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.salesService.Ping(pingCtx); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "up"})
}

// respondError maps a report error to its HTTP response.
// An empty single-value report is not a failure.
func (h *salesHandler) respondError(ctx *gin.Context, report string, err error) {
	if errors.Is(err, sales.ErrNoSalesData) {
		ctx.JSON(http.StatusOK, gin.H{"message": noSalesDataMessage})
		return
	}

	h.logger.Error("failed to compute report",
		zap.String("report", report),
		zap.String("request_id", ctx.GetString(requestIDKey)),
		zap.Error(err),
	)
	if h.metrics != nil {
		h.metrics.ReportFailuresTotal.WithLabelValues(report).Inc()
	}
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorString})
}
