// models.go

package main

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FoodItem struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name              string             `bson:"name" json:"name"`
	Category          string             `bson:"category" json:"category"`
	Price             Number             `bson:"price" json:"price"`
	Origin            string             `bson:"origin" json:"origin"`
	Description       string             `bson:"description" json:"description"`
	Image             string             `bson:"image" json:"image"`
	AvailableQuantity Int                `bson:"available_quantity" json:"available_quantity"`
	OrdersCount       Int                `bson:"orders_count" json:"orders_count"`
	MadeBy            string             `bson:"made_by,omitempty" json:"made_by,omitempty"`
	MadeByEmail       string             `bson:"made_by_email" json:"made_by_email"`
}

// FoodUpdate is the full set of fields a chef may replace on one of their foods.
type FoodUpdate struct {
	Name              string `json:"name"`
	Image             string `json:"image"`
	Category          string `json:"category"`
	Price             Number `json:"price"`
	Origin            string `json:"origin"`
	Description       string `json:"description"`
	AvailableQuantity Int    `json:"available_quantity" binding:"min=0"`
}

type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FoodID        string             `bson:"foodId" json:"foodId"`
	CustomerEmail string             `bson:"customerEmail" json:"customerEmail"`
	Quantity      Int                `bson:"quantity" json:"quantity"`
	CreatedAt     time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitzero"`
	UpdatedAt     time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitzero"`
}

type BlogPost struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Author      string             `bson:"author" json:"author"`
	Cover       string             `bson:"cover,omitempty" json:"cover,omitempty"`
	Date        string             `bson:"date" json:"date"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

// ----- Request payloads -----

type tokenRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

type orderRequest struct {
	FoodID        string `json:"foodId" binding:"required"`
	CustomerEmail string `json:"customerEmail" binding:"required,email"`
	Quantity      Int    `json:"quantity" binding:"required,min=1"`
}

type foodQuantityRequest struct {
	Quantity Int `json:"quantity" binding:"required,min=1"`
}

type foodUpdateRequest struct {
	Email string `json:"email"`
	FoodUpdate
}
