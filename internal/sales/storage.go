package sales

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ErrInvalidSale is returned when trying to store a sale with a missing required field.
var ErrInvalidSale = errors.New("invalid sale")

// Storage is the main interface for our sales storage layer.
// Every report method runs one read-only aggregation over the whole collection.
type Storage interface {
	TotalRevenue(ctx context.Context) ([]TotalRevenue, error)
	QuantityByProduct(ctx context.Context) ([]ProductQuantity, error)
	TopProductsByRevenue(ctx context.Context, limit int) ([]ProductRevenue, error)
	AveragePrice(ctx context.Context) ([]AveragePrice, error)
	RevenueByMonth(ctx context.Context) ([]MonthlyRevenue, error)
	TopDailyQuantities(ctx context.Context, limit int) ([]DailyProductQuantity, error)
	SalaryByDepartment(ctx context.Context) ([]DepartmentSalary, error)
	Ping(ctx context.Context) error
}

// LocalStorage provides an in-memory implementation for storing sales.
type LocalStorage struct {
	mu sync.RWMutex
	m  map[bson.ObjectID]*Sale
}

// NewLocalStorage instantiates a new LocalStorage for sales with an empty map.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		m: map[bson.ObjectID]*Sale{},
	}
}

// Set stores a copy of sale, assigning its ID and timestamps.
// The assigned fields are written back to sale.
// Returns ErrInvalidSale if product, department or date are missing.
func (l *LocalStorage) Set(sale *Sale) error {
	if sale.Product == "" || sale.Department == "" || sale.Date == nil {
		return fmt.Errorf("%w: product, department and date are required", ErrInvalidSale)
	}

	stored := *sale

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if stored.ID.IsZero() {
		stored.ID = bson.NewObjectID()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	l.m[stored.ID] = &stored

	sale.ID, sale.CreatedAt, sale.UpdatedAt = stored.ID, stored.CreatedAt, stored.UpdatedAt
	return nil
}

// snapshot returns the stored sales ordered by ID, so float sums are
// accumulated in the same order on every call.
func (l *LocalStorage) snapshot() []*Sale {
	l.mu.RLock()
	defer l.mu.RUnlock()

	sales := make([]*Sale, 0, len(l.m))
	for _, s := range l.m {
		sales = append(sales, s)
	}
	sort.Slice(sales, func(i, j int) bool {
		return bytes.Compare(sales[i].ID[:], sales[j].ID[:]) < 0
	})
	return sales
}

// TotalRevenue sums price * quantity over every sale.
func (l *LocalStorage) TotalRevenue(_ context.Context) ([]TotalRevenue, error) {
	sales := l.snapshot()
	if len(sales) == 0 {
		return []TotalRevenue{}, nil
	}

	var total float64
	for _, s := range sales {
		total += s.Price * float64(s.Quantity)
	}
	return []TotalRevenue{{TotalRevenue: total}}, nil
}

// QuantityByProduct sums quantities per product, ordered by product name.
func (l *LocalStorage) QuantityByProduct(_ context.Context) ([]ProductQuantity, error) {
	totals := map[string]int64{}
	for _, s := range l.snapshot() {
		totals[s.Product] += s.Quantity
	}

	result := make([]ProductQuantity, 0, len(totals))
	for product, qty := range totals {
		result = append(result, ProductQuantity{Product: product, TotalQuantity: qty})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Product < result[j].Product
	})
	return result, nil
}

// TopProductsByRevenue returns the limit products with the highest revenue.
// Equal revenues are ordered by product name.
func (l *LocalStorage) TopProductsByRevenue(_ context.Context, limit int) ([]ProductRevenue, error) {
	totals := map[string]float64{}
	for _, s := range l.snapshot() {
		totals[s.Product] += s.Price * float64(s.Quantity)
	}

	result := make([]ProductRevenue, 0, len(totals))
	for product, revenue := range totals {
		result = append(result, ProductRevenue{Product: product, TotalRevenue: revenue})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalRevenue != result[j].TotalRevenue {
			return result[i].TotalRevenue > result[j].TotalRevenue
		}
		return result[i].Product < result[j].Product
	})
	if limit >= 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// AveragePrice returns the mean price of all sales.
func (l *LocalStorage) AveragePrice(_ context.Context) ([]AveragePrice, error) {
	sales := l.snapshot()
	if len(sales) == 0 {
		return []AveragePrice{}, nil
	}

	var sum float64
	for _, s := range sales {
		sum += s.Price
	}
	return []AveragePrice{{AveragePrice: sum / float64(len(sales))}}, nil
}

type monthKey struct {
	year  int
	month int
}

// RevenueByMonth groups revenue by the year and month of the normalized date.
func (l *LocalStorage) RevenueByMonth(_ context.Context) ([]MonthlyRevenue, error) {
	totals := map[monthKey]float64{}
	for _, s := range l.snapshot() {
		date, err := NormalizeDate(s.Date)
		if err != nil {
			return nil, fmt.Errorf("sale %s: %w", s.ID.Hex(), err)
		}
		key := monthKey{year: date.Year(), month: int(date.Month())}
		totals[key] += s.Price * float64(s.Quantity)
	}

	result := make([]MonthlyRevenue, 0, len(totals))
	for key, revenue := range totals {
		result = append(result, MonthlyRevenue{Year: key.year, Month: key.month, TotalRevenue: revenue})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		return result[i].Month < result[j].Month
	})
	return result, nil
}

type dayProductKey struct {
	date    string
	product string
}

// TopDailyQuantities groups quantities by calendar day and product and returns
// the limit largest groups. Ties are ordered by date, then product.
func (l *LocalStorage) TopDailyQuantities(_ context.Context, limit int) ([]DailyProductQuantity, error) {
	totals := map[dayProductKey]int64{}
	for _, s := range l.snapshot() {
		date, err := NormalizeDate(s.Date)
		if err != nil {
			return nil, fmt.Errorf("sale %s: %w", s.ID.Hex(), err)
		}
		key := dayProductKey{date: date.Format(DayLayout), product: s.Product}
		totals[key] += s.Quantity
	}

	result := make([]DailyProductQuantity, 0, len(totals))
	for key, qty := range totals {
		result = append(result, DailyProductQuantity{Date: key.date, Product: key.product, TotalSold: qty})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalSold != result[j].TotalSold {
			return result[i].TotalSold > result[j].TotalSold
		}
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].Product < result[j].Product
	})
	if limit >= 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// SalaryByDepartment sums salaries per department, ordered by department name.
func (l *LocalStorage) SalaryByDepartment(_ context.Context) ([]DepartmentSalary, error) {
	totals := map[string]float64{}
	for _, s := range l.snapshot() {
		totals[s.Department] += s.Salary
	}

	result := make([]DepartmentSalary, 0, len(totals))
	for department, salary := range totals {
		result = append(result, DepartmentSalary{Department: department, TotalSalary: salary})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Department < result[j].Department
	})
	return result, nil
}

// Ping always succeeds for the in-memory store.
func (l *LocalStorage) Ping(_ context.Context) error {
	return nil
}
