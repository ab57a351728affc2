package sales

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestLocalStorage_SetAssignsSystemFields(t *testing.T) {
	store := NewLocalStorage()
	sale := &Sale{Product: "pen", Quantity: 1, Price: 2, Salary: 3, Department: "office", Date: "2024-03-05"}

	require.NoError(t, store.Set(sale))
	assert.False(t, sale.ID.IsZero())
	assert.False(t, sale.CreatedAt.IsZero())
	assert.False(t, sale.UpdatedAt.IsZero())
}

func TestLocalStorage_SetStoresCopy(t *testing.T) {
	store := NewLocalStorage()
	sale := &Sale{Product: "pen", Quantity: 1, Price: 2, Salary: 3, Department: "office", Date: "2024-03-05"}
	require.NoError(t, store.Set(sale))

	sale.Quantity = 100
	sale.Product = "changed"

	result, err := store.QuantityByProduct(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ProductQuantity{{Product: "pen", TotalQuantity: 1}}, result)
}

func TestLocalStorage_SetConcurrentWithReports(t *testing.T) {
	store := NewLocalStorage()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_ = store.Set(&Sale{Product: "pen", Quantity: 1, Price: 0.1, Department: "x", Date: "2024-03-05"})
		}
	}()
	for i := 0; i < 100; i++ {
		_, err := store.TopProductsByRevenue(context.Background(), 5)
		require.NoError(t, err)
	}
	<-done

	result, err := store.QuantityByProduct(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ProductQuantity{{Product: "pen", TotalQuantity: 100}}, result)
}

func TestLocalStorage_SetRejectsMissingFields(t *testing.T) {
	store := NewLocalStorage()

	tests := []struct {
		name string
		sale *Sale
	}{
		{"missing product", &Sale{Department: "x", Date: "2024-01-01"}},
		{"missing department", &Sale{Product: "x", Date: "2024-01-01"}},
		{"missing date", &Sale{Product: "x", Department: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, store.Set(tt.sale), ErrInvalidSale)
		})
	}
}

func TestLocalStorage_QuantityByProductSortedByName(t *testing.T) {
	store := NewLocalStorage()
	seed(t, store,
		&Sale{Product: "zebra", Quantity: 1, Department: "x", Date: "2024-01-01"},
		&Sale{Product: "apple", Quantity: 2, Department: "x", Date: "2024-01-01"},
		&Sale{Product: "mango", Quantity: 3, Department: "x", Date: "2024-01-01"},
		&Sale{Product: "apple", Quantity: 5, Department: "x", Date: "2024-01-02"},
	)

	result, err := store.QuantityByProduct(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ProductQuantity{
		{Product: "apple", TotalQuantity: 7},
		{Product: "mango", TotalQuantity: 3},
		{Product: "zebra", TotalQuantity: 1},
	}, result)
}

func TestLocalStorage_TopProductsTieBreakByName(t *testing.T) {
	store := NewLocalStorage()
	seed(t, store,
		&Sale{Product: "b", Quantity: 1, Price: 10, Department: "x", Date: "2024-01-01"},
		&Sale{Product: "a", Quantity: 2, Price: 5, Department: "x", Date: "2024-01-01"},
		&Sale{Product: "c", Quantity: 1, Price: 20, Department: "x", Date: "2024-01-01"},
	)

	result, err := store.TopProductsByRevenue(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []ProductRevenue{
		{Product: "c", TotalRevenue: 20},
		{Product: "a", TotalRevenue: 10},
	}, result)
}

func TestLocalStorage_RevenueByMonthMixedDateTypes(t *testing.T) {
	store := NewLocalStorage()
	seed(t, store,
		&Sale{Product: "a", Quantity: 1, Price: 10, Department: "x", Date: "2024-03-05"},
		&Sale{Product: "a", Quantity: 2, Price: 10, Department: "x", Date: time.Date(2024, time.March, 20, 10, 0, 0, 0, time.UTC)},
		&Sale{Product: "a", Quantity: 1, Price: 3, Department: "x", Date: bson.NewDateTimeFromTime(time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC))},
		&Sale{Product: "a", Quantity: 1, Price: 7, Department: "x", Date: "2024-01-15T08:00:00Z"},
	)

	result, err := store.RevenueByMonth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []MonthlyRevenue{
		{Year: 2023, Month: 12, TotalRevenue: 3},
		{Year: 2024, Month: 1, TotalRevenue: 7},
		{Year: 2024, Month: 3, TotalRevenue: 30},
	}, result)
}

func TestLocalStorage_RevenueByMonthMalformedDate(t *testing.T) {
	store := NewLocalStorage()
	seed(t, store, &Sale{Product: "a", Quantity: 1, Price: 1, Department: "x", Date: "not a date"})

	_, err := store.RevenueByMonth(context.Background())
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = store.TopDailyQuantities(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestLocalStorage_TopDailyQuantitiesTieBreak(t *testing.T) {
	store := NewLocalStorage()
	seed(t, store,
		&Sale{Product: "b", Quantity: 5, Department: "x", Date: "2024-02-01"},
		&Sale{Product: "a", Quantity: 5, Department: "x", Date: "2024-02-01"},
		&Sale{Product: "a", Quantity: 5, Department: "x", Date: "2024-01-31"},
	)

	result, err := store.TopDailyQuantities(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []DailyProductQuantity{
		{Date: "2024-01-31", Product: "a", TotalSold: 5},
		{Date: "2024-02-01", Product: "a", TotalSold: 5},
		{Date: "2024-02-01", Product: "b", TotalSold: 5},
	}, result)
}

func TestLocalStorage_SalaryByDepartment(t *testing.T) {
	store := NewLocalStorage()
	seed(t, store,
		&Sale{Product: "a", Salary: 1000, Department: "sales", Date: "2024-01-01"},
		&Sale{Product: "b", Salary: 1500, Department: "sales", Date: "2024-01-01"},
		&Sale{Product: "c", Salary: 800, Department: "hr", Date: "2024-01-01"},
	)

	result, err := store.SalaryByDepartment(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []DepartmentSalary{
		{Department: "hr", TotalSalary: 800},
		{Department: "sales", TotalSalary: 2500},
	}, result)
}

func TestLocalStorage_TopProductsStableWithFractionalPrices(t *testing.T) {
	store := NewLocalStorage()
	for _, price := range []float64{0.1, 0.2, 0.3, 0.7, 1.1, 2.3} {
		seed(t, store,
			&Sale{Product: "a", Quantity: 3, Price: price, Department: "x", Date: "2024-01-01"},
			&Sale{Product: "b", Quantity: 3, Price: price, Department: "x", Date: "2024-01-01"},
		)
	}

	first, err := store.TopProductsByRevenue(context.Background(), 1)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		again, err := store.TopProductsByRevenue(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
