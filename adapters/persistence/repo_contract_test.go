package persistence

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/talent-directory/internal/domain/directory"
	"github.com/khoahotran/talent-directory/internal/domain/profile"
	"github.com/khoahotran/talent-directory/internal/domain/skill"
)

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }

func sampleProfiles() []profile.Profile {
	return []profile.Profile{
		{
			ID:           "p-1",
			Name:         "Ada Lovelace",
			Title:        "Principal Engineer",
			Department:   "Engineering",
			Bio:          "Notes on the analytical engine.",
			HourlyRate:   ptrF(120.5),
			ProjectRates: &profile.ProjectRates{Minimum: ptrF(5000), Currency: "EUR"},
			Contact: profile.Contact{
				Email:  "ada@example.com",
				Phone:  "+44 20 7946 0000",
				Social: &profile.SocialLinks{GitHub: "https://github.com/ada"},
			},
			Skills: []profile.ProfileSkill{
				{ID: "s-1", Name: "Go", Category: "Languages", Proficiency: profile.ProficiencyExpert},
				{ID: "s-2", Name: "SQL", Category: "Data", Proficiency: profile.ProficiencyAdvanced},
			},
			Availability: profile.Availability{
				Status:          profile.StatusLimited,
				Timezone:        "Europe/London",
				BookingLeadTime: ptrI(10),
				Capacity: &profile.Capacity{
					HoursPerWeek:             ptrF(30),
					PreferredProjectDuration: &profile.DurationRange{Max: ptrI(12)},
				},
			},
			Education:      []profile.Education{{Institution: "UCL", Degree: "BSc", Field: "Maths", StartDate: "2010", EndDate: "2013"}},
			Certifications: []profile.Certification{{Name: "CKA", Issuer: "CNCF", Date: "2024-01-01"}},
			Tags:           []string{"mentor"},
			Extra:          map[string]string{"costCenter": "CC-9"},
		},
		{
			ID:             "p-2",
			Name:           "Grace Hopper",
			Contact:        profile.Contact{Email: "grace@example.com", Phone: "2"},
			Skills:         []profile.ProfileSkill{},
			Education:      []profile.Education{},
			Certifications: []profile.Certification{},
		},
	}
}

// repositoryContract checks the behaviour every directory.Repository shares.
// newRepo must return an adapter over empty storage.
type repositoryContract struct {
	suite.Suite
	newRepo func() directory.Repository
}

func (s *repositoryContract) TestMissingSetsLoadEmpty() {
	ctx := context.Background()
	repo := s.newRepo()

	profiles, err := repo.LoadProfiles(ctx)
	s.Require().NoError(err)
	s.NotNil(profiles)
	s.Empty(profiles)

	skills, err := repo.LoadSkills(ctx)
	s.Require().NoError(err)
	s.NotNil(skills)
	s.Empty(skills)

	categories, err := repo.LoadCategories(ctx)
	s.Require().NoError(err)
	s.NotNil(categories)
	s.Empty(categories)
}

func (s *repositoryContract) TestProfilesRoundTrip() {
	ctx := context.Background()
	repo := s.newRepo()

	want := sampleProfiles()
	s.Require().NoError(repo.SaveProfiles(ctx, want))

	got, err := repo.LoadProfiles(ctx)
	s.Require().NoError(err)
	s.Equal(want, got)
}

func (s *repositoryContract) TestSaveReplacesWholeSet() {
	ctx := context.Background()
	repo := s.newRepo()

	s.Require().NoError(repo.SaveProfiles(ctx, sampleProfiles()))
	s.Require().NoError(repo.SaveProfiles(ctx, sampleProfiles()[1:]))

	got, err := repo.LoadProfiles(ctx)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("p-2", got[0].ID)

	s.Require().NoError(repo.SaveProfiles(ctx, nil))
	got, err = repo.LoadProfiles(ctx)
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *repositoryContract) TestSkillsAndCategoriesKeepOrder() {
	ctx := context.Background()
	repo := s.newRepo()

	skills := []skill.Skill{
		{ID: "s-2", Name: "SQL", Category: "Data"},
		{ID: "s-1", Name: "Go", Category: "Languages"},
		{ID: "s-3", Name: "Figma", Category: skill.Uncategorized},
	}
	categories := []string{"Languages", skill.Uncategorized, "Data"}

	s.Require().NoError(repo.SaveSkills(ctx, skills))
	s.Require().NoError(repo.SaveCategories(ctx, categories))

	gotSkills, err := repo.LoadSkills(ctx)
	s.Require().NoError(err)
	s.Equal(skills, gotSkills)

	gotCategories, err := repo.LoadCategories(ctx)
	s.Require().NoError(err)
	s.Equal(categories, gotCategories)
}
