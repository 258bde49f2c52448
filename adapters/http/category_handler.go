package http

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/talent-directory/internal/application/usecase/store"
	"github.com/khoahotran/talent-directory/internal/domain/skill"
	"github.com/khoahotran/talent-directory/pkg/apperror"
)

func (h *DirectoryHandler) ListCategories(c *gin.Context) {
	st := h.store(c)
	if st == nil {
		return
	}
	c.JSON(http.StatusOK, CategoryListResponse{Categories: st.ListCategories()})
}

func (h *DirectoryHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for category", err))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.Error(apperror.NewInvalidInput("category name is blank", nil))
		return
	}

	st := h.store(c)
	if st == nil {
		return
	}
	ok, err := st.AddCategory(c.Request.Context(), req.Name)
	if err != nil {
		c.Error(err)
		return
	}
	if !ok {
		c.Error(apperror.NewConflict("category", "name", req.Name))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"name": strings.TrimSpace(req.Name)})
}

// rejectCategory attaches the error for a category mutation the store
// refused, telling a missing category apart from a protected or taken one.
func rejectCategory(c *gin.Context, st *store.Store, name, taken string) {
	switch {
	case name == skill.Uncategorized:
		c.Error(apperror.NewConflict("category", "name", name))
	case !slices.Contains(st.ListCategories(), name):
		c.Error(apperror.NewNotFound("category", name))
	default:
		c.Error(apperror.NewConflict("category", "name", taken))
	}
}

func (h *DirectoryHandler) RenameCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for category rename", err))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.Error(apperror.NewInvalidInput("category name is blank", nil))
		return
	}

	st := h.store(c)
	if st == nil {
		return
	}
	name := c.Param("name")
	ok, err := st.UpdateCategory(c.Request.Context(), name, req.Name)
	if err != nil {
		c.Error(err)
		return
	}
	if !ok {
		rejectCategory(c, st, name, req.Name)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": strings.TrimSpace(req.Name)})
}

func (h *DirectoryHandler) DeleteCategory(c *gin.Context) {
	st := h.store(c)
	if st == nil {
		return
	}
	name := c.Param("name")
	ok, err := st.DeleteCategory(c.Request.Context(), name)
	if err != nil {
		c.Error(err)
		return
	}
	if !ok {
		rejectCategory(c, st, name, name)
		return
	}
	c.Status(http.StatusNoContent)
}
