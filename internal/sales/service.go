package sales

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNoSalesData is returned by single-value reports when the collection is empty.
var ErrNoSalesData = errors.New("no sales data found")

// TopProductsLimit is the number of products returned by TopProductsByRevenue.
const TopProductsLimit = 5

// Service provides the sales reports on top of a Storage backend.
type Service struct {
	storage Storage
	logger  *zap.Logger
}

// NewService creates a new Service.
func NewService(storage Storage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// TotalRevenue returns a single row with the revenue of every sale.
// Returns ErrNoSalesData when there are no sales.
func (s *Service) TotalRevenue(ctx context.Context) ([]TotalRevenue, error) {
	result, err := s.storage.TotalRevenue(ctx)
	if err != nil {
		return nil, s.queryFailed("total revenue", err)
	}
	if len(result) == 0 {
		return nil, ErrNoSalesData
	}
	return result, nil
}

// QuantityByProduct returns units sold per product, sorted by product name.
func (s *Service) QuantityByProduct(ctx context.Context) ([]ProductQuantity, error) {
	result, err := s.storage.QuantityByProduct(ctx)
	if err != nil {
		return nil, s.queryFailed("quantity by product", err)
	}
	if result == nil {
		result = []ProductQuantity{}
	}
	s.logger.Debug("report computed", zap.String("report", "quantity by product"), zap.Int("rows", len(result)))
	return result, nil
}

// TopProductsByRevenue returns the five products with the highest revenue.
func (s *Service) TopProductsByRevenue(ctx context.Context) ([]ProductRevenue, error) {
	result, err := s.storage.TopProductsByRevenue(ctx, TopProductsLimit)
	if err != nil {
		return nil, s.queryFailed("top products", err)
	}
	if result == nil {
		result = []ProductRevenue{}
	}
	// el store ya limita, pero no confiamos en el driver
	if len(result) > TopProductsLimit {
		result = result[:TopProductsLimit]
	}
	return result, nil
}

// AveragePrice returns the mean price, or an empty slice when there are no sales.
func (s *Service) AveragePrice(ctx context.Context) ([]AveragePrice, error) {
	result, err := s.storage.AveragePrice(ctx)
	if err != nil {
		return nil, s.queryFailed("average price", err)
	}
	if result == nil {
		result = []AveragePrice{}
	}
	return result, nil
}

// RevenueByMonth returns revenue per calendar month in chronological order.
func (s *Service) RevenueByMonth(ctx context.Context) ([]MonthlyRevenue, error) {
	result, err := s.storage.RevenueByMonth(ctx)
	if err != nil {
		return nil, s.queryFailed("revenue by month", err)
	}
	if result == nil {
		result = []MonthlyRevenue{}
	}
	s.logger.Debug("report computed", zap.String("report", "revenue by month"), zap.Int("rows", len(result)))
	return result, nil
}

// HighestQuantitySold returns the product and day with the most units sold.
// Returns ErrNoSalesData when there are no sales.
func (s *Service) HighestQuantitySold(ctx context.Context) (*DailyProductQuantity, error) {
	result, err := s.storage.TopDailyQuantities(ctx, 1)
	if err != nil {
		return nil, s.queryFailed("highest quantity sold", err)
	}
	if len(result) == 0 {
		return nil, ErrNoSalesData
	}
	top := result[0]
	return &top, nil
}

// DepartmentSalaryExpense returns the salary total of every department.
func (s *Service) DepartmentSalaryExpense(ctx context.Context) ([]DepartmentSalary, error) {
	result, err := s.storage.SalaryByDepartment(ctx)
	if err != nil {
		return nil, s.queryFailed("department salary expense", err)
	}
	if result == nil {
		result = []DepartmentSalary{}
	}
	return result, nil
}

// Ping reports whether the storage backend is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.storage.Ping(ctx)
}

func (s *Service) queryFailed(report string, err error) error {
	s.logger.Error("report query failed", zap.String("report", report), zap.Error(err))
	return fmt.Errorf("%s: %w", report, err)
}
