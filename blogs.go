package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var blogMessages = map[error]string{
	ErrInvalidID: "Invalid blog ID",
	ErrNotFound:  "Blog not found",
}

func (s *server) listBlogs(c *gin.Context) {
	blogs, err := s.blogs.ListBlogs(c.Request.Context())
	if err != nil {
		respondError(c, "listBlogs", err, nil, "Failed to fetch blogs")
		return
	}
	c.JSON(http.StatusOK, blogs)
}

func (s *server) getBlog(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		respondError(c, "getBlog", err, blogMessages, "")
		return
	}
	blog, err := s.blogs.GetBlog(c.Request.Context(), id)
	if err != nil {
		respondError(c, "getBlog", err, blogMessages, "Failed to fetch blog")
		return
	}
	c.JSON(http.StatusOK, blog)
}
