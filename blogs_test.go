package main

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListBlogs(t *testing.T) {
	store := newStubStore()
	r, _ := newTestRouter(store)

	w := do(r, http.MethodGet, "/blogs", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	store.addBlog(BlogPost{Title: "Knife skills", Author: "Ana", Date: "2024-01-02"})
	store.addBlog(BlogPost{Title: "Stock", Author: "Ben", Date: "2024-02-03", Cover: "c.png", Description: "bones"})
	w = do(r, http.MethodGet, "/blogs", "")
	blogs := decode[[]BlogPost](t, w)
	require.Len(t, blogs, 2)
	assert.Equal(t, "Knife skills", blogs[0].Title)
	assert.Equal(t, "c.png", blogs[1].Cover)
}

func TestGetBlog(t *testing.T) {
	store := newStubStore()
	b := store.addBlog(BlogPost{Title: "Knife skills", Author: "Ana", Date: "2024-01-02"})
	r, _ := newTestRouter(store)

	w := do(r, http.MethodGet, "/blogs/"+b.ID.Hex(), "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[map[string]any](t, w)
	assert.Equal(t, b.ID.Hex(), got["_id"])
	assert.Equal(t, "Ana", got["author"])
	assert.NotContains(t, got, "cover", "optional fields are omitted when empty")

	w = do(r, http.MethodGet, "/blogs/"+primitive.NewObjectID().Hex(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Blog not found"}`, w.Body.String())

	w = do(r, http.MethodGet, "/blogs/123", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid blog ID"}`, w.Body.String())
}

func TestBlogs_StoreFailure(t *testing.T) {
	store := newStubStore()
	store.failWith = errors.New("server selection timeout")
	r, _ := newTestRouter(store)

	w := do(r, http.MethodGet, "/blogs", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch blogs"}`, w.Body.String())

	w = do(r, http.MethodGet, "/blogs/"+primitive.NewObjectID().Hex(), "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch blog"}`, w.Body.String())
}
