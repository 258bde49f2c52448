package store

import (
	"context"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/talent-directory/internal/domain/directory"
	"github.com/khoahotran/talent-directory/internal/domain/skill"
	"github.com/khoahotran/talent-directory/pkg/apperror"
)

func (s *Store) ListSkills() []skill.Skill {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.skills)
}

func (s *Store) GetSkill(id string) (skill.Skill, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.skillIndex(func(sk skill.Skill) bool { return sk.ID == id })
	if i < 0 {
		return skill.Skill{}, false
	}
	return s.skills[i], true
}

func (s *Store) skillIndex(match func(skill.Skill) bool) int {
	return slices.IndexFunc(s.skills, match)
}

// AddSkill creates a skill unless one with the same (case-sensitive) name
// already exists, in which case that skill is returned and nothing is written.
// A category the store does not know yet is registered alongside. created
// reports whether a new skill was stored.
func (s *Store) AddSkill(ctx context.Context, in skill.Skill) (out skill.Skill, created bool, err error) {
	ctx, span := tracer.Start(ctx, "AddSkill")
	defer span.End()

	rec := skill.Skill{Name: in.Name, Category: skill.NormalizeCategory(in.Category)}
	if err := rec.Validate(); err != nil {
		return skill.Skill{}, false, apperror.NewInvalidInput("skill validation failed", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if i := s.skillIndex(func(sk skill.Skill) bool { return sk.Name == rec.Name }); i >= 0 {
		s.logger.Debug("Skill already exists, skipping add", zap.String("name", rec.Name))
		return s.skills[i], false, nil
	}

	rec.ID = s.newID()
	span.SetAttributes(attribute.String("skill_id", rec.ID))

	stagedCategories, err := s.registerCategory(ctx, rec.Category)
	if err != nil {
		span.RecordError(err)
		return skill.Skill{}, false, err
	}

	stagedSkills := append(slices.Clone(s.skills), rec)
	if err := s.saveSkills(ctx, stagedSkills); err != nil {
		span.RecordError(err)
		s.commitCategories(stagedCategories)
		return skill.Skill{}, false, err
	}

	s.mu.Lock()
	s.skills = stagedSkills
	s.categories = stagedCategories
	s.mu.Unlock()

	s.logger.Info("Skill added", zap.String("skill_id", rec.ID), zap.String("name", rec.Name), zap.String("category", rec.Category))
	s.publish(ctx, directory.EventSkillCreated, rec.ID, rec.Name)
	return rec, true, nil
}

// registerCategory persists a category set containing category and returns it.
// The current set is returned untouched when category is already known.
// Callers hold writeMu and must commit the result themselves.
func (s *Store) registerCategory(ctx context.Context, category string) ([]string, error) {
	if slices.Contains(s.categories, category) {
		return s.categories, nil
	}
	staged := append(slices.Clone(s.categories), category)
	if err := s.saveCategories(ctx, staged); err != nil {
		return nil, err
	}
	return staged, nil
}

// commitCategories keeps memory in line with a category set that reached
// storage even though the skill write after it failed.
func (s *Store) commitCategories(staged []string) {
	s.mu.Lock()
	s.categories = staged
	s.mu.Unlock()
}

// UpdateSkill applies patch to the skill with id. ok is false when the id is
// unknown. Renaming onto another skill's name is a conflict. Profiles that
// embedded the old name or category keep their copy.
func (s *Store) UpdateSkill(ctx context.Context, id string, patch skill.Patch) (updated skill.Skill, ok bool, err error) {
	ctx, span := tracer.Start(ctx, "UpdateSkill")
	defer span.End()
	span.SetAttributes(attribute.String("skill_id", id))

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	i := s.skillIndex(func(sk skill.Skill) bool { return sk.ID == id })
	if i < 0 {
		return skill.Skill{}, false, nil
	}

	rec := s.skills[i]
	if patch.Name != nil {
		rec.Name = *patch.Name
	}
	if patch.Category != nil {
		rec.Category = skill.NormalizeCategory(*patch.Category)
	}
	if err := rec.Validate(); err != nil {
		return skill.Skill{}, true, apperror.NewInvalidInput("skill validation failed", err)
	}
	taken := s.skillIndex(func(sk skill.Skill) bool { return sk.Name == rec.Name && sk.ID != id })
	if taken >= 0 {
		return skill.Skill{}, true, apperror.NewConflict("skill", "name", rec.Name)
	}

	stagedCategories, err := s.registerCategory(ctx, rec.Category)
	if err != nil {
		span.RecordError(err)
		return skill.Skill{}, true, err
	}

	stagedSkills := slices.Clone(s.skills)
	stagedSkills[i] = rec
	if err := s.saveSkills(ctx, stagedSkills); err != nil {
		span.RecordError(err)
		s.commitCategories(stagedCategories)
		return skill.Skill{}, true, err
	}

	s.mu.Lock()
	s.skills = stagedSkills
	s.categories = stagedCategories
	s.mu.Unlock()

	s.logger.Info("Skill updated", zap.String("skill_id", id))
	s.publish(ctx, directory.EventSkillUpdated, id, rec.Name)
	return rec, true, nil
}

// DeleteSkill removes the taxonomy entry only; embedded ProfileSkill copies
// are left as they are.
func (s *Store) DeleteSkill(ctx context.Context, id string) (bool, error) {
	ctx, span := tracer.Start(ctx, "DeleteSkill")
	defer span.End()
	span.SetAttributes(attribute.String("skill_id", id))

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	i := s.skillIndex(func(sk skill.Skill) bool { return sk.ID == id })
	if i < 0 {
		return false, nil
	}

	staged := slices.Delete(slices.Clone(s.skills), i, i+1)
	if err := s.saveSkills(ctx, staged); err != nil {
		span.RecordError(err)
		return false, err
	}

	s.mu.Lock()
	s.skills = staged
	s.mu.Unlock()

	s.logger.Info("Skill deleted", zap.String("skill_id", id))
	s.publish(ctx, directory.EventSkillDeleted, id, "")
	return true, nil
}
