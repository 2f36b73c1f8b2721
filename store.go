package main

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FoodQuery selects a page of the catalog. A non-positive Limit asks only for
// the total.
type FoodQuery struct {
	Search string
	Skip   int64
	Limit  int64
}

type FoodStore interface {
	ListFoods(ctx context.Context, q FoodQuery) ([]FoodItem, int64, error)
	GetFood(ctx context.Context, id primitive.ObjectID) (FoodItem, error)
	CreateFood(ctx context.Context, f FoodItem) (primitive.ObjectID, error)
	// RecordOrder takes quantity off the food's stock and counts one more
	// order, atomically; it fails with ErrInsufficientQuantity rather than
	// letting stock go negative.
	RecordOrder(ctx context.Context, id primitive.ObjectID, quantity int) (FoodItem, error)
	FoodsByOwner(ctx context.Context, ownerEmail string) ([]FoodItem, error)
	UpdateFood(ctx context.Context, id primitive.ObjectID, ownerEmail string, upd FoodUpdate) (FoodItem, error)
	TopFoods(ctx context.Context, n int64) ([]FoodItem, error)
}

type OrderStore interface {
	// PlaceOrder inserts the order for (foodID, customerEmail) or adds
	// quantity to the existing one. created reports which happened.
	PlaceOrder(ctx context.Context, foodID, customerEmail string, quantity int) (order Order, created bool, err error)
	ListOrders(ctx context.Context, customerEmail string) ([]Order, error)
	DeleteOrder(ctx context.Context, id primitive.ObjectID, customerEmail string) error
}

type BlogStore interface {
	ListBlogs(ctx context.Context) ([]BlogPost, error)
	GetBlog(ctx context.Context, id primitive.ObjectID) (BlogPost, error)
}

const topPicksLimit = 6

func parseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}
