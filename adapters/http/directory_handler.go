package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/talent-directory/internal/application/usecase/store"
	"github.com/khoahotran/talent-directory/pkg/logger"
)

// DirectoryHandler serves the profile, skill and category routes from the
// shared record store.
type DirectoryHandler struct {
	provider *store.Provider
	logger   logger.Logger
}

func NewDirectoryHandler(provider *store.Provider, log logger.Logger) *DirectoryHandler {
	return &DirectoryHandler{provider: provider, logger: log}
}

// store returns the record store, or attaches the error and returns nil.
func (h *DirectoryHandler) store(c *gin.Context) *store.Store {
	st, err := h.provider.Store(c.Request.Context())
	if err != nil {
		c.Error(err)
		return nil
	}
	return st
}

func (h *DirectoryHandler) Stats(c *gin.Context) {
	st := h.store(c)
	if st == nil {
		return
	}
	c.JSON(http.StatusOK, st.Stats())
}
