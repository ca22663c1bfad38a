package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/todos/internal/sqlite"
	"github.com/mesh-intelligence/todos/pkg/types"
)

func (s *Server) handleList(c *gin.Context) {
	raw := c.Query("userId")
	if raw == "" {
		abort(c, http.StatusBadRequest, "userId query parameter required")
		return
	}
	ownerID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ownerID <= 0 {
		abort(c, http.StatusBadRequest, "invalid userId")
		return
	}

	items, err := s.repo.List(c.Request.Context(), ownerID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) handleCreate(c *gin.Context) {
	var n types.NewItem
	if err := c.ShouldBindJSON(&n); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	item, err := s.repo.Create(c.Request.Context(), n)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) handleUpdate(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var p sqlite.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	item, err := s.repo.Update(c.Request.Context(), id, p)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) handleDelete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := s.repo.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abort(c, http.StatusBadRequest, "invalid todo id")
		return 0, false
	}
	return id, true
}

func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, types.ErrNotFound):
		abort(c, http.StatusNotFound, err.Error())
	case errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrEmptyTitle),
		errors.Is(err, types.ErrOwnerUnset):
		abort(c, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("repository failure", "path", c.Request.URL.Path, "error", err)
		abort(c, http.StatusInternalServerError, "internal error")
	}
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
