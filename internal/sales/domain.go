package sales

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Sale represents a sales transaction in the system.
// Date keeps whatever representation was stored: a native date or a text value.
type Sale struct {
	ID         bson.ObjectID `json:"id" bson:"_id,omitempty"`
	Product    string        `json:"product" bson:"product"`
	Quantity   int64         `json:"quantity" bson:"quantity"`
	Price      float64       `json:"price" bson:"price"`
	Salary     float64       `json:"salary" bson:"salary"`
	Department string        `json:"department" bson:"department"`
	Date       any           `json:"date" bson:"date"`
	CreatedAt  time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// TotalRevenue is the revenue of every sale in the collection.
type TotalRevenue struct {
	TotalRevenue float64 `json:"totalRevenue" bson:"totalRevenue"`
}

// ProductQuantity is the number of units sold for one product.
type ProductQuantity struct {
	Product       string `json:"product" bson:"product"`
	TotalQuantity int64  `json:"totalQuantity" bson:"totalQuantity"`
}

// ProductRevenue is the revenue generated by one product.
type ProductRevenue struct {
	Product      string  `json:"product" bson:"product"`
	TotalRevenue float64 `json:"totalRevenue" bson:"totalRevenue"`
}

// AveragePrice is the mean unit price across all sales.
type AveragePrice struct {
	AveragePrice float64 `json:"averagePrice" bson:"averagePrice"`
}

// MonthlyRevenue is the revenue of one calendar month.
type MonthlyRevenue struct {
	Year         int     `json:"year" bson:"year"`
	Month        int     `json:"month" bson:"month"`
	TotalRevenue float64 `json:"totalRevenue" bson:"totalRevenue"`
}

// DailyProductQuantity is the number of units of a product sold on one day.
// Date is formatted as YYYY-MM-DD.
type DailyProductQuantity struct {
	Date      string `json:"date" bson:"date"`
	Product   string `json:"product" bson:"product"`
	TotalSold int64  `json:"totalSold" bson:"totalSold"`
}

// DepartmentSalary is the salary expense of one department.
type DepartmentSalary struct {
	Department  string  `json:"department" bson:"department"`
	TotalSalary float64 `json:"totalSalary" bson:"totalSalary"`
}
