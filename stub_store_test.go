package main

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubStore is an in-memory FoodStore, OrderStore and BlogStore. Every call
// is counted so tests can assert that a request never reached the store.
type stubStore struct {
	mu     sync.Mutex
	foods  []FoodItem
	orders []Order
	blogs  []BlogPost
	calls  int

	failWith  error
	panicWith any
}

func newStubStore() *stubStore { return &stubStore{} }

func (s *stubStore) enter() error {
	s.calls++
	if s.panicWith != nil {
		panic(s.panicWith)
	}
	return s.failWith
}

func (s *stubStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubStore) addFood(f FoodItem) FoodItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.ID = primitive.NewObjectID()
	s.foods = append(s.foods, f)
	return f
}

func (s *stubStore) addOrder(o Order) Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = primitive.NewObjectID()
	s.orders = append(s.orders, o)
	return o
}

func (s *stubStore) addBlog(b BlogPost) BlogPost {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = primitive.NewObjectID()
	s.blogs = append(s.blogs, b)
	return b
}

func (s *stubStore) ListFoods(ctx context.Context, q FoodQuery) ([]FoodItem, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return nil, 0, err
	}
	matched := []FoodItem{}
	for _, f := range s.foods {
		if q.Search == "" || strings.Contains(strings.ToLower(f.Name), strings.ToLower(q.Search)) {
			matched = append(matched, f)
		}
	}
	total := int64(len(matched))
	if q.Limit <= 0 || q.Skip >= total {
		return []FoodItem{}, total, nil
	}
	end := q.Skip + q.Limit
	if end > total {
		end = total
	}
	return matched[q.Skip:end], total, nil
}

func (s *stubStore) GetFood(ctx context.Context, id primitive.ObjectID) (FoodItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return FoodItem{}, err
	}
	for _, f := range s.foods {
		if f.ID == id {
			return f, nil
		}
	}
	return FoodItem{}, ErrNotFound
}

func (s *stubStore) CreateFood(ctx context.Context, f FoodItem) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return primitive.NilObjectID, err
	}
	f.ID = primitive.NewObjectID()
	s.foods = append(s.foods, f)
	return f.ID, nil
}

func (s *stubStore) RecordOrder(ctx context.Context, id primitive.ObjectID, quantity int) (FoodItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return FoodItem{}, err
	}
	for i := range s.foods {
		if s.foods[i].ID != id {
			continue
		}
		if int(s.foods[i].AvailableQuantity) < quantity {
			return FoodItem{}, ErrInsufficientQuantity
		}
		s.foods[i].AvailableQuantity -= Int(quantity)
		s.foods[i].OrdersCount++
		return s.foods[i], nil
	}
	return FoodItem{}, ErrNotFound
}

func (s *stubStore) FoodsByOwner(ctx context.Context, ownerEmail string) ([]FoodItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return nil, err
	}
	out := []FoodItem{}
	for _, f := range s.foods {
		if f.MadeByEmail == ownerEmail {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *stubStore) UpdateFood(ctx context.Context, id primitive.ObjectID, ownerEmail string, upd FoodUpdate) (FoodItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return FoodItem{}, err
	}
	for i := range s.foods {
		f := &s.foods[i]
		if f.ID != id || f.MadeByEmail != ownerEmail {
			continue
		}
		f.Name, f.Image, f.Category = upd.Name, upd.Image, upd.Category
		f.Price, f.Origin, f.Description = upd.Price, upd.Origin, upd.Description
		f.AvailableQuantity = upd.AvailableQuantity
		return *f, nil
	}
	return FoodItem{}, ErrNotFound
}

func (s *stubStore) TopFoods(ctx context.Context, n int64) ([]FoodItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return nil, err
	}
	out := append([]FoodItem(nil), s.foods...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrdersCount > out[j].OrdersCount })
	if int64(len(out)) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *stubStore) PlaceOrder(ctx context.Context, foodID, customerEmail string, quantity int) (Order, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return Order{}, false, err
	}
	now := time.Now().UTC()
	for i := range s.orders {
		o := &s.orders[i]
		if o.FoodID == foodID && o.CustomerEmail == customerEmail {
			o.Quantity += Int(quantity)
			o.UpdatedAt = now
			return *o, false, nil
		}
	}
	o := Order{
		ID:            primitive.NewObjectID(),
		FoodID:        foodID,
		CustomerEmail: customerEmail,
		Quantity:      Int(quantity),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.orders = append(s.orders, o)
	return o, true, nil
}

func (s *stubStore) ListOrders(ctx context.Context, customerEmail string) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return nil, err
	}
	out := []Order{}
	for _, o := range s.orders {
		if customerEmail == "" || o.CustomerEmail == customerEmail {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *stubStore) DeleteOrder(ctx context.Context, id primitive.ObjectID, customerEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return err
	}
	for i, o := range s.orders {
		if o.ID == id && o.CustomerEmail == customerEmail {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *stubStore) ListBlogs(ctx context.Context) ([]BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return nil, err
	}
	return append([]BlogPost{}, s.blogs...), nil
}

func (s *stubStore) GetBlog(ctx context.Context, id primitive.ObjectID) (BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return BlogPost{}, err
	}
	for _, b := range s.blogs {
		if b.ID == id {
			return b, nil
		}
	}
	return BlogPost{}, ErrNotFound
}

// ----- Router under test -----

const testSecret = "test-secret"

func newTestRouter(store *stubStore) (*gin.Engine, *Authenticator) {
	gin.SetMode(gin.TestMode)
	auth := NewAuthenticator(testSecret, time.Hour)
	s := &server{foods: store, orders: store, blogs: store, auth: auth}
	return newRouter(s, nil), auth
}

func tokenCookieFor(t *testing.T, auth *Authenticator, email string) *http.Cookie {
	t.Helper()
	tok, err := auth.Issue(email, "")
	require.NoError(t, err)
	return &http.Cookie{Name: tokenCookie, Value: tok}
}
