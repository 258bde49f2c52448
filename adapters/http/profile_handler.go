package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/talent-directory/internal/domain/profile"
	"github.com/khoahotran/talent-directory/pkg/apperror"
)

func (h *DirectoryHandler) ListProfiles(c *gin.Context) {
	st := h.store(c)
	if st == nil {
		return
	}

	var profiles []profile.Profile
	if q, ok := c.GetQuery("q"); ok {
		profiles = st.SearchProfiles(q)
	} else {
		profiles = st.ListProfiles()
	}
	c.JSON(http.StatusOK, ProfileListResponse{Profiles: profiles, Total: len(profiles)})
}

func (h *DirectoryHandler) GetProfile(c *gin.Context) {
	st := h.store(c)
	if st == nil {
		return
	}

	id := c.Param("id")
	p, ok := st.GetProfile(id)
	if !ok {
		c.Error(apperror.NewNotFound("profile", id))
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *DirectoryHandler) CreateProfile(c *gin.Context) {
	var req profile.Profile
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for profile", err))
		return
	}

	st := h.store(c)
	if st == nil {
		return
	}
	created, err := st.AddProfile(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *DirectoryHandler) UpdateProfile(c *gin.Context) {
	var patch profile.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for profile update", err))
		return
	}

	st := h.store(c)
	if st == nil {
		return
	}
	id := c.Param("id")
	updated, ok, err := st.UpdateProfile(c.Request.Context(), id, patch)
	if err != nil {
		c.Error(err)
		return
	}
	if !ok {
		c.Error(apperror.NewNotFound("profile", id))
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *DirectoryHandler) DeleteProfile(c *gin.Context) {
	st := h.store(c)
	if st == nil {
		return
	}
	id := c.Param("id")
	ok, err := st.DeleteProfile(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	if !ok {
		c.Error(apperror.NewNotFound("profile", id))
		return
	}
	subject, _ := GetSubjectFromGinContext(c)
	h.logger.Info("Profile deleted via API", zap.String("profile_id", id), zap.String("by", subject))
	c.Status(http.StatusNoContent)
}
