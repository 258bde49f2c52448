package http

import (
	"github.com/khoahotran/talent-directory/internal/domain/profile"
	"github.com/khoahotran/talent-directory/internal/domain/skill"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// Profile request bodies bind straight into profile.Profile and profile.Patch.
type ProfileListResponse struct {
	Profiles []profile.Profile `json:"profiles"`
	Total    int               `json:"total"`
}

type SkillRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
}

func (r SkillRequest) ToDomain() skill.Skill {
	return skill.Skill{Name: r.Name, Category: r.Category}
}

type SkillListResponse struct {
	Skills []skill.Skill `json:"skills"`
	Total  int           `json:"total"`
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type CategoryListResponse struct {
	Categories []string `json:"categories"`
}
