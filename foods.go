package main

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

var foodMessages = map[error]string{
	ErrInvalidID:            "Invalid food ID",
	ErrNotFound:             "Food not found",
	ErrInsufficientQuantity: "Insufficient quantity",
}

// listFoods pages through the catalog, optionally filtered by name. A missing
// or malformed page/size yields an empty page; count is reported regardless.
func (s *server) listFoods(c *gin.Context) {
	q := FoodQuery{Search: c.Query("search")}
	page, perr := strconv.Atoi(c.Query("page"))
	size, serr := strconv.Atoi(c.Query("size"))
	// A page whose offset does not fit in int64 is past any real catalog.
	if perr == nil && serr == nil && page >= 0 && size > 0 && int64(page) <= math.MaxInt64/int64(size) {
		q.Skip = int64(page) * int64(size)
		q.Limit = int64(size)
	}
	foods, total, err := s.foods.ListFoods(c.Request.Context(), q)
	if err != nil {
		respondError(c, "listFoods", err, nil, "Failed to fetch foods")
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": foods, "count": total})
}

func (s *server) getFood(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, "getFood", err, foodMessages, "")
		return
	}
	food, err := s.foods.GetFood(c.Request.Context(), id)
	if err != nil {
		respondError(c, "getFood", err, foodMessages, "Failed to fetch food")
		return
	}
	c.JSON(http.StatusOK, food)
}

func (s *server) createFood(c *gin.Context) {
	var food FoodItem
	if err := c.ShouldBindJSON(&food); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	id, err := s.foods.CreateFood(c.Request.Context(), food)
	if err != nil {
		respondError(c, "createFood", err, nil, "Failed to add food")
		return
	}
	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "insertedId": id})
}

// recordFoodOrder takes an ordered quantity off a food's stock.
func (s *server) recordFoodOrder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, "recordFoodOrder", err, foodMessages, "")
		return
	}
	var req foodQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	food, err := s.foods.RecordOrder(c.Request.Context(), id, int(req.Quantity))
	if err != nil {
		respondError(c, "recordFoodOrder", err, foodMessages, "Failed to update food")
		return
	}
	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "modifiedCount": 1, "food": food})
}

func (s *server) foodsByChef(c *gin.Context) {
	chefEmail := c.Query("chefEmail")
	if !requireOwner(c, chefEmail) {
		return
	}
	foods, err := s.foods.FoodsByOwner(c.Request.Context(), chefEmail)
	if err != nil {
		respondError(c, "foodsByChef", err, nil, "Failed to fetch foods")
		return
	}
	c.JSON(http.StatusOK, foods)
}

func (s *server) updateFood(c *gin.Context) {
	var req foodUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if !requireOwner(c, req.Email) {
		return
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, "updateFood", err, foodMessages, "")
		return
	}
	food, err := s.foods.UpdateFood(c.Request.Context(), id, req.Email, req.FoodUpdate)
	if err != nil {
		respondError(c, "updateFood", err, foodMessages, "Failed to update food")
		return
	}
	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "modifiedCount": 1, "food": food})
}

func (s *server) topPicks(c *gin.Context) {
	foods, err := s.foods.TopFoods(c.Request.Context(), topPicksLimit)
	if err != nil {
		respondError(c, "topPicks", err, nil, "Failed to fetch top picks")
		return
	}
	c.JSON(http.StatusOK, foods)
}
