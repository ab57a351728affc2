package sales

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// MongoStorage runs the sales reports as aggregation pipelines on a MongoDB collection.
type MongoStorage struct {
	client       *mongo.Client
	collection   *mongo.Collection
	queryTimeout time.Duration
}

// NewMongoConnection connects to MongoDB and verifies the primary is reachable.
func NewMongoConnection(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetConnectTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// NewMongoStorage binds the storage to database.collection.
// A zero queryTimeout leaves deadlines to the caller's context.
func NewMongoStorage(client *mongo.Client, database, collection string, queryTimeout time.Duration) *MongoStorage {
	return &MongoStorage{
		client:       client,
		collection:   client.Database(database).Collection(collection),
		queryTimeout: queryTimeout,
	}
}

func aggregate[T any](ctx context.Context, m *MongoStorage, pipeline mongo.Pipeline) ([]T, error) {
	if m.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.queryTimeout)
		defer cancel()
	}

	cursor, err := m.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	defer cursor.Close(ctx)

	results := make([]T, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode aggregate results: %w", err)
	}
	return results, nil
}

func (m *MongoStorage) TotalRevenue(ctx context.Context) ([]TotalRevenue, error) {
	return aggregate[TotalRevenue](ctx, m, totalRevenuePipeline())
}

func (m *MongoStorage) QuantityByProduct(ctx context.Context) ([]ProductQuantity, error) {
	return aggregate[ProductQuantity](ctx, m, quantityByProductPipeline())
}

func (m *MongoStorage) TopProductsByRevenue(ctx context.Context, limit int) ([]ProductRevenue, error) {
	return aggregate[ProductRevenue](ctx, m, topProductsPipeline(limit))
}

func (m *MongoStorage) AveragePrice(ctx context.Context) ([]AveragePrice, error) {
	return aggregate[AveragePrice](ctx, m, averagePricePipeline())
}

func (m *MongoStorage) RevenueByMonth(ctx context.Context) ([]MonthlyRevenue, error) {
	return aggregate[MonthlyRevenue](ctx, m, revenueByMonthPipeline())
}

func (m *MongoStorage) TopDailyQuantities(ctx context.Context, limit int) ([]DailyProductQuantity, error) {
	return aggregate[DailyProductQuantity](ctx, m, topDailyQuantitiesPipeline(limit))
}

func (m *MongoStorage) SalaryByDepartment(ctx context.Context) ([]DepartmentSalary, error) {
	return aggregate[DepartmentSalary](ctx, m, salaryByDepartmentPipeline())
}

// Ping checks the primary is reachable.
func (m *MongoStorage) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the underlying client.
func (m *MongoStorage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// revenueExpr is price * quantity for the current document.
func revenueExpr() bson.D {
	return bson.D{{Key: "$multiply", Value: bson.A{"$price", "$quantity"}}}
}

// normalizedDateExpr converts field to a date when it was stored as text.
func normalizedDateExpr(field string) bson.D {
	return bson.D{{Key: "$cond", Value: bson.D{
		{Key: "if", Value: bson.D{{Key: "$eq", Value: bson.A{bson.D{{Key: "$type", Value: field}}, "string"}}}},
		{Key: "then", Value: bson.D{{Key: "$toDate", Value: field}}},
		{Key: "else", Value: field},
	}}}
}

func totalRevenuePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalRevenue", Value: bson.D{{Key: "$sum", Value: revenueExpr()}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "totalRevenue", Value: 1},
		}}},
	}
}

func quantityByProductPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$product"},
			{Key: "totalQuantity", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "product", Value: "$_id"},
			{Key: "totalQuantity", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "product", Value: 1}}}},
	}
}

func topProductsPipeline(limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$product"},
			{Key: "totalRevenue", Value: bson.D{{Key: "$sum", Value: revenueExpr()}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "totalRevenue", Value: -1},
			{Key: "_id", Value: 1},
		}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "product", Value: "$_id"},
			{Key: "totalRevenue", Value: 1},
		}}},
	}
}

func averagePricePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "averagePrice", Value: bson.D{{Key: "$avg", Value: "$price"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "averagePrice", Value: 1},
		}}},
	}
}

func revenueByMonthPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$project", Value: bson.D{
			{Key: "date", Value: normalizedDateExpr("$date")},
			{Key: "quantity", Value: 1},
			{Key: "price", Value: 1},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "year", Value: bson.D{{Key: "$year", Value: "$date"}}},
				{Key: "month", Value: bson.D{{Key: "$month", Value: "$date"}}},
			}},
			{Key: "totalRevenue", Value: bson.D{{Key: "$sum", Value: revenueExpr()}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "_id.year", Value: 1},
			{Key: "_id.month", Value: 1},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "year", Value: "$_id.year"},
			{Key: "month", Value: "$_id.month"},
			{Key: "totalRevenue", Value: 1},
		}}},
	}
}

func topDailyQuantitiesPipeline(limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$addFields", Value: bson.D{
			{Key: "convertedDate", Value: normalizedDateExpr("$date")},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "date", Value: bson.D{{Key: "$dateToString", Value: bson.D{
					{Key: "format", Value: "%Y-%m-%d"},
					{Key: "date", Value: "$convertedDate"},
					{Key: "timezone", Value: "UTC"},
				}}}},
				{Key: "product", Value: "$product"},
			}},
			{Key: "totalSold", Value: bson.D{{Key: "$sum", Value: "$quantity"}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "totalSold", Value: -1},
			{Key: "_id.date", Value: 1},
			{Key: "_id.product", Value: 1},
		}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "date", Value: "$_id.date"},
			{Key: "product", Value: "$_id.product"},
			{Key: "totalSold", Value: 1},
		}}},
	}
}

func salaryByDepartmentPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$department"},
			{Key: "totalSalary", Value: bson.D{{Key: "$sum", Value: "$salary"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "department", Value: "$_id"},
			{Key: "totalSalary", Value: 1},
		}}},
	}
}
