package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var orderMessages = map[error]string{
	ErrInvalidID: "Invalid order ID",
	ErrNotFound:  "Order not found",
}

func (s *server) listOrders(c *gin.Context) {
	email := c.Query("email")
	if !requireOwner(c, email) {
		return
	}
	orders, err := s.orders.ListOrders(c.Request.Context(), email)
	if err != nil {
		respondError(c, "listOrders", err, nil, "Failed to fetch orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// placeOrder creates the caller's order for a food, or adds to the quantity
// of the one they already have.
func (s *server) placeOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	order, created, err := s.orders.PlaceOrder(c.Request.Context(), req.FoodID, req.CustomerEmail, int(req.Quantity))
	if err != nil {
		respondError(c, "placeOrder", err, orderMessages, "Failed to place order")
		return
	}
	if created {
		c.JSON(http.StatusOK, gin.H{"acknowledged": true, "insertedId": order.ID, "order": order})
		return
	}
	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "modifiedCount": 1, "order": order})
}

// deleteOrder removes one of the caller's orders. Someone else's order is
// reported as missing.
func (s *server) deleteOrder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, "deleteOrder", err, orderMessages, "")
		return
	}
	claims := callerClaims(c)
	if claims == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}
	if err := s.orders.DeleteOrder(c.Request.Context(), id, claims.Email); err != nil {
		respondError(c, "deleteOrder", err, orderMessages, "Failed to delete order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "deletedCount": 1})
}
