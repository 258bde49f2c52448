package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/khoahotran/talent-directory/internal/domain/profile"
	"github.com/khoahotran/talent-directory/internal/domain/skill"
)

const (
	docProfiles   = "profiles"
	docSkills     = "skills"
	docCategories = "categories"
)

// Document bodies shared by the file and redis adapters. Each set is stored
// as {"<name>": [...]}.
type profilesDoc struct {
	Profiles []profile.Profile `json:"profiles"`
}

type skillsDoc struct {
	Skills []skill.Skill `json:"skills"`
}

type categoriesDoc struct {
	Categories []string `json:"categories"`
}

func encodeDoc(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return append(b, '\n'), nil
}

func decodeProfiles(b []byte) ([]profile.Profile, error) {
	var doc profilesDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal %s document: %w", docProfiles, err)
	}
	return emptyIfNil(doc.Profiles), nil
}

func decodeSkills(b []byte) ([]skill.Skill, error) {
	var doc skillsDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal %s document: %w", docSkills, err)
	}
	return emptyIfNil(doc.Skills), nil
}

func decodeCategories(b []byte) ([]string, error) {
	var doc categoriesDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal %s document: %w", docCategories, err)
	}
	return emptyIfNil(doc.Categories), nil
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
