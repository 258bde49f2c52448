package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/talent-directory/internal/domain/skill"
	"github.com/khoahotran/talent-directory/pkg/apperror"
)

func (h *DirectoryHandler) ListSkills(c *gin.Context) {
	st := h.store(c)
	if st == nil {
		return
	}
	skills := st.ListSkills()
	c.JSON(http.StatusOK, SkillListResponse{Skills: skills, Total: len(skills)})
}

func (h *DirectoryHandler) GetSkill(c *gin.Context) {
	st := h.store(c)
	if st == nil {
		return
	}
	id := c.Param("id")
	s, ok := st.GetSkill(id)
	if !ok {
		c.Error(apperror.NewNotFound("skill", id))
		return
	}
	c.JSON(http.StatusOK, s)
}

// CreateSkill answers 201 for a new skill and 200 when a skill with the same
// name already existed and was returned instead.
func (h *DirectoryHandler) CreateSkill(c *gin.Context) {
	var req SkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for skill", err))
		return
	}

	st := h.store(c)
	if st == nil {
		return
	}
	sk, created, err := st.AddSkill(c.Request.Context(), req.ToDomain())
	if err != nil {
		c.Error(err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, sk)
}

func (h *DirectoryHandler) UpdateSkill(c *gin.Context) {
	var patch skill.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for skill update", err))
		return
	}

	st := h.store(c)
	if st == nil {
		return
	}
	id := c.Param("id")
	updated, ok, err := st.UpdateSkill(c.Request.Context(), id, patch)
	if err != nil {
		c.Error(err)
		return
	}
	if !ok {
		c.Error(apperror.NewNotFound("skill", id))
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *DirectoryHandler) DeleteSkill(c *gin.Context) {
	st := h.store(c)
	if st == nil {
		return
	}
	id := c.Param("id")
	ok, err := st.DeleteSkill(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	if !ok {
		c.Error(apperror.NewNotFound("skill", id))
		return
	}
	c.Status(http.StatusNoContent)
}
