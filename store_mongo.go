package main

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func connectMongo(ctx context.Context, cfg Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.DBTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.mongoURI()))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// mongoStore serves the food, order and blog collections of one database.
type mongoStore struct {
	foods   *mongo.Collection
	orders  *mongo.Collection
	blogs   *mongo.Collection
	timeout time.Duration
}

func newMongoStore(db *mongo.Database, cfg Config) *mongoStore {
	return &mongoStore{
		foods:   db.Collection(cfg.FoodCollection),
		orders:  db.Collection(cfg.OrderCollection),
		blogs:   db.Collection(cfg.BlogCollection),
		timeout: cfg.DBTimeout,
	}
}

func (m *mongoStore) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.timeout)
}

const orderPairIndex = "food_customer_unique"

// ensureIndexes creates the indexes the queries below rely on. The unique
// (foodId, customerEmail) index is what keeps concurrent first orders for the
// same pair from producing two documents.
func (m *mongoStore) ensureIndexes(ctx context.Context) error {
	ctx, cancel := m.opContext(ctx)
	defer cancel()
	_, err := m.orders.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "foodId", Value: 1}, {Key: "customerEmail", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(orderPairIndex),
		},
		{Keys: bson.D{{Key: "customerEmail", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create order indexes (%s): %w", orderPairIndex, err)
	}
	_, err = m.foods.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "orders_count", Value: -1}}},
		{Keys: bson.D{{Key: "made_by_email", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create food indexes: %w", err)
	}
	return nil
}

// asInt reads field as a 64-bit integer inside an aggregation expression,
// whether it is stored as a number or a numeric string. Missing or
// unparsable values count as 0.
func asInt(field string) bson.D {
	return bson.D{{Key: "$toLong", Value: bson.D{{Key: "$convert", Value: bson.D{
		{Key: "input", Value: "$" + field},
		{Key: "to", Value: "double"},
		{Key: "onError", Value: 0},
		{Key: "onNull", Value: 0},
	}}}}}
}

// ----- Foods -----

func (m *mongoStore) ListFoods(ctx context.Context, q FoodQuery) ([]FoodItem, int64, error) {
	ctx, cancel := m.opContext(ctx)
	defer cancel()

	filter := bson.D{}
	if q.Search != "" {
		filter = bson.D{{Key: "name", Value: primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}}}
	}
	total, err := m.foods.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count foods: %w", err)
	}
	foods := []FoodItem{}
	if q.Limit <= 0 || q.Skip >= total {
		return foods, total, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetSkip(q.Skip).SetLimit(q.Limit)
	cur, err := m.foods.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find foods: %w", err)
	}
	if err := cur.All(ctx, &foods); err != nil {
		return nil, 0, fmt.Errorf("decode foods: %w", err)
	}
	return foods, total, nil
}

func (m *mongoStore) GetFood(ctx context.Context, id primitive.ObjectID) (FoodItem, error) {
	ctx, cancel := m.opContext(ctx)
	defer cancel()
	var f FoodItem
	err := m.foods.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return FoodItem{}, ErrNotFound
	}
	if err != nil {
		return FoodItem{}, fmt.Errorf("find food %s: %w", id.Hex(), err)
	}
	return f, nil
}

func (m *mongoStore) CreateFood(ctx context.Context, f FoodItem) (primitive.ObjectID, error) {
	ctx, cancel := m.opContext(ctx)
	defer cancel()
	f.ID = primitive.NewObjectID()
	if _, err := m.foods.InsertOne(ctx, f); err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert food: %w", err)
	}
	return f.ID, nil
}

func (m *mongoStore) RecordOrder(ctx context.Context, id primitive.ObjectID, quantity int) (FoodItem, error) {
	ctx, cancel := m.opContext(ctx)
	defer cancel()

	qty := int64(quantity)
	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "$expr", Value: bson.D{{Key: "$gte", Value: bson.A{asInt("available_quantity"), qty}}}},
	}
	update := mongo.Pipeline{{{Key: "$set", Value: bson.D{
		{Key: "available_quantity", Value: bson.D{{Key: "$subtract", Value: bson.A{asInt("available_quantity"), qty}}}},
		{Key: "orders_count", Value: bson.D{{Key: "$add", Value: bson.A{asInt("orders_count"), int64(1)}}}},
	}}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var f FoodItem
	err := m.foods.FindOneAndUpdate(ctx, filter, update, opts).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		n, cerr := m.foods.CountDocuments(ctx, bson.D{{Key: "_id", Value: id}}, options.Count().SetLimit(1))
		if cerr != nil {
			return FoodItem{}, fmt.Errorf("count food %s: %w", id.Hex(), cerr)
		}
		if n == 0 {
			return FoodItem{}, ErrNotFound
		}
		return FoodItem{}, ErrInsufficientQuantity
	}
	if err != nil {
		return FoodItem{}, fmt.Errorf("record order on food %s: %w", id.Hex(), err)
	}
	return f, nil
}

func (m *mongoStore) FoodsByOwner(ctx context.Context, ownerEmail string) ([]FoodItem, error) {
	return m.findFoods(ctx, bson.D{{Key: "made_by_email", Value: ownerEmail}}, options.Find())
}

func (m *mongoStore) UpdateFood(ctx context.Context, id primitive.ObjectID, ownerEmail string, upd FoodUpdate) (FoodItem, error) {
	ctx, cancel := m.opContext(ctx)
	defer cancel()

	filter := bson.D{{Key: "_id", Value: id}, {Key: "made_by_email", Value: ownerEmail}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: upd.Name},
		{Key: "image", Value: upd.Image},
		{Key: "category", Value: upd.Category},
		{Key: "price", Value: upd.Price},
		{Key: "origin", Value: upd.Origin},
		{Key: "description", Value: upd.Description},
		{Key: "available_quantity", Value: upd.AvailableQuantity},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var f FoodItem
	err := m.foods.FindOneAndUpdate(ctx, filter, update, opts).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return FoodItem{}, ErrNotFound
	}
	if err != nil {
		return FoodItem{}, fmt.Errorf("update food %s: %w", id.Hex(), err)
	}
	return f, nil
}

func (m *mongoStore) TopFoods(ctx context.Context, n int64) ([]FoodItem, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "orders_count", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(n)
	return m.findFoods(ctx, bson.D{}, opts)
}

func (m *mongoStore) findFoods(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]FoodItem, error) {
	ctx, cancel := m.opContext(ctx)
	defer cancel()
	cur, err := m.foods.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find foods: %w", err)
	}
	foods := []FoodItem{}
	if err := cur.All(ctx, &foods); err != nil {
		return nil, fmt.Errorf("decode foods: %w", err)
	}
	return foods, nil
}

// ----- Orders -----

func (m *mongoStore) PlaceOrder(ctx context.Context, foodID, customerEmail string, quantity int) (Order, bool, error) {
	ctx, cancel := m.opContext(ctx)
	defer cancel()

	filter := bson.D{{Key: "foodId", Value: foodID}, {Key: "customerEmail", Value: customerEmail}}
	update := mongo.Pipeline{{{Key: "$set", Value: bson.D{
		{Key: "quantity", Value: bson.D{{Key: "$add", Value: bson.A{asInt("quantity"), int64(quantity)}}}},
		{Key: "createdAt", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$createdAt", "$$NOW"}}}},
		{Key: "updatedAt", Value: "$$NOW"},
	}}}}
	opts := options.Update().SetUpsert(true)

	res, err := m.orders.UpdateOne(ctx, filter, update, opts)
	if mongo.IsDuplicateKeyError(err) {
		// Lost an insert race on the unique index; the other order exists now,
		// so this attempt matches it and increments.
		res, err = m.orders.UpdateOne(ctx, filter, update, opts)
	}
	if err != nil {
		return Order{}, false, fmt.Errorf("upsert order: %w", err)
	}

	created := res.UpsertedID != nil
	lookup := filter
	if created {
		lookup = bson.D{{Key: "_id", Value: res.UpsertedID}}
	}
	var o Order
	if err := m.orders.FindOne(ctx, lookup).Decode(&o); err != nil {
		return Order{}, false, fmt.Errorf("read back order: %w", err)
	}
	return o, created, nil
}

func (m *mongoStore) ListOrders(ctx context.Context, customerEmail string) ([]Order, error) {
	ctx, cancel := m.opContext(ctx)
	defer cancel()
	filter := bson.D{}
	if customerEmail != "" {
		filter = bson.D{{Key: "customerEmail", Value: customerEmail}}
	}
	cur, err := m.orders.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	orders := []Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

func (m *mongoStore) DeleteOrder(ctx context.Context, id primitive.ObjectID, customerEmail string) error {
	ctx, cancel := m.opContext(ctx)
	defer cancel()
	res, err := m.orders.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}, {Key: "customerEmail", Value: customerEmail}})
	if err != nil {
		return fmt.Errorf("delete order %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ----- Blogs -----

func (m *mongoStore) ListBlogs(ctx context.Context) ([]BlogPost, error) {
	ctx, cancel := m.opContext(ctx)
	defer cancel()
	cur, err := m.blogs.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find blogs: %w", err)
	}
	blogs := []BlogPost{}
	if err := cur.All(ctx, &blogs); err != nil {
		return nil, fmt.Errorf("decode blogs: %w", err)
	}
	return blogs, nil
}

func (m *mongoStore) GetBlog(ctx context.Context, id primitive.ObjectID) (BlogPost, error) {
	ctx, cancel := m.opContext(ctx)
	defer cancel()
	var b BlogPost
	err := m.blogs.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return BlogPost{}, ErrNotFound
	}
	if err != nil {
		return BlogPost{}, fmt.Errorf("find blog %s: %w", id.Hex(), err)
	}
	return b, nil
}
