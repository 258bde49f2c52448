package store

import (
	"context"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/talent-directory/internal/domain/directory"
	"github.com/khoahotran/talent-directory/internal/domain/skill"
)

// ListCategories returns the user-managed categories. Uncategorized is
// reserved and never listed.
func (s *Store) ListCategories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.categories))
	for _, c := range s.categories {
		if c != skill.Uncategorized {
			out = append(out, c)
		}
	}
	return out
}

// AddCategory returns false for a blank name, the reserved name, or a name
// that already exists.
func (s *Store) AddCategory(ctx context.Context, name string) (bool, error) {
	ctx, span := tracer.Start(ctx, "AddCategory")
	defer span.End()

	name = strings.TrimSpace(name)
	span.SetAttributes(attribute.String("category", name))
	if name == "" || name == skill.Uncategorized {
		return false, nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if slices.Contains(s.categories, name) {
		return false, nil
	}

	staged := append(slices.Clone(s.categories), name)
	if err := s.saveCategories(ctx, staged); err != nil {
		span.RecordError(err)
		return false, err
	}

	s.mu.Lock()
	s.categories = staged
	s.mu.Unlock()

	s.logger.Info("Category added", zap.String("category", name))
	s.publish(ctx, directory.EventCategoryCreated, name, "")
	return true, nil
}

// DeleteCategory moves every skill in name to Uncategorized and removes name.
// It returns false for the reserved category or an unknown name.
func (s *Store) DeleteCategory(ctx context.Context, name string) (bool, error) {
	ctx, span := tracer.Start(ctx, "DeleteCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category", name))

	if name == skill.Uncategorized {
		return false, nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	i := slices.Index(s.categories, name)
	if i < 0 {
		return false, nil
	}

	stagedSkills, moved := recategorize(s.skills, name, skill.Uncategorized)
	if moved > 0 {
		if err := s.saveSkills(ctx, stagedSkills); err != nil {
			span.RecordError(err)
			return false, err
		}
	}

	stagedCategories := slices.Delete(slices.Clone(s.categories), i, i+1)
	if err := s.saveCategories(ctx, stagedCategories); err != nil {
		span.RecordError(err)
		if moved > 0 {
			// skills are already on disk; keep memory in line with them
			s.mu.Lock()
			s.skills = stagedSkills
			s.mu.Unlock()
		}
		return false, err
	}

	s.mu.Lock()
	s.skills = stagedSkills
	s.categories = stagedCategories
	s.mu.Unlock()

	s.logger.Info("Category deleted", zap.String("category", name), zap.Int("reassigned_skills", moved))
	s.publish(ctx, directory.EventCategoryDeleted, name, skill.Uncategorized)
	return true, nil
}

// UpdateCategory renames oldName to newName on the category set and on every
// skill carrying it. It returns false when oldName is reserved or unknown,
// newName is blank, or newName is already taken by another category.
func (s *Store) UpdateCategory(ctx context.Context, oldName, newName string) (bool, error) {
	ctx, span := tracer.Start(ctx, "UpdateCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category", oldName), attribute.String("new_category", newName))

	newName = strings.TrimSpace(newName)
	if oldName == skill.Uncategorized || newName == "" {
		return false, nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	i := slices.Index(s.categories, oldName)
	if i < 0 {
		return false, nil
	}
	if newName == oldName {
		return true, nil
	}
	if slices.Contains(s.categories, newName) {
		return false, nil
	}

	stagedSkills, moved := recategorize(s.skills, oldName, newName)
	renamed := slices.Clone(s.categories)
	renamed[i] = newName

	if moved == 0 {
		if err := s.saveCategories(ctx, renamed); err != nil {
			span.RecordError(err)
			return false, err
		}
	} else {
		// Both names stay on disk until every skill has moved, so no stored
		// skill ever points at a category that is not in the set.
		both := append(slices.Clone(s.categories), newName)
		if err := s.saveCategories(ctx, both); err != nil {
			span.RecordError(err)
			return false, err
		}
		if err := s.saveSkills(ctx, stagedSkills); err != nil {
			span.RecordError(err)
			s.commitCategories(both)
			return false, err
		}
		if err := s.saveCategories(ctx, renamed); err != nil {
			span.RecordError(err)
			s.mu.Lock()
			s.skills = stagedSkills
			s.categories = both
			s.mu.Unlock()
			return false, err
		}
	}

	s.mu.Lock()
	s.skills = stagedSkills
	s.categories = renamed
	s.mu.Unlock()

	s.logger.Info("Category renamed", zap.String("from", oldName), zap.String("to", newName), zap.Int("skills", moved))
	s.publish(ctx, directory.EventCategoryRenamed, newName, oldName)
	return true, nil
}

func recategorize(skills []skill.Skill, from, to string) ([]skill.Skill, int) {
	staged := slices.Clone(skills)
	moved := 0
	for i := range staged {
		if staged[i].Category == from {
			staged[i].Category = to
			moved++
		}
	}
	return staged, moved
}
