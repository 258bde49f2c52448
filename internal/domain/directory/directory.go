package directory

import (
	"context"
	"time"

	"github.com/khoahotran/talent-directory/internal/domain/profile"
	"github.com/khoahotran/talent-directory/internal/domain/skill"
)

// Repository loads and saves whole record sets. Each Save replaces the stored
// set wholesale; a missing set loads as empty.
type Repository interface {
	LoadProfiles(ctx context.Context) ([]profile.Profile, error)
	SaveProfiles(ctx context.Context, profiles []profile.Profile) error
	LoadSkills(ctx context.Context) ([]skill.Skill, error)
	SaveSkills(ctx context.Context, skills []skill.Skill) error
	LoadCategories(ctx context.Context) ([]string, error)
	SaveCategories(ctx context.Context, categories []string) error
}

type EventType string

const (
	EventProfileCreated  EventType = "profile.created"
	EventProfileUpdated  EventType = "profile.updated"
	EventProfileDeleted  EventType = "profile.deleted"
	EventSkillCreated    EventType = "skill.created"
	EventSkillUpdated    EventType = "skill.updated"
	EventSkillDeleted    EventType = "skill.deleted"
	EventCategoryCreated EventType = "category.created"
	EventCategoryRenamed EventType = "category.renamed"
	EventCategoryDeleted EventType = "category.deleted"
)

// Event describes a mutation that has already been persisted.
type Event struct {
	Type       EventType `json:"type"`
	ResourceID string    `json:"resource_id"`
	Detail     string    `json:"detail,omitempty"`
	At         time.Time `json:"at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, evt Event) error
}
