package interchange

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/talent-directory/adapters/persistence"
	"github.com/khoahotran/talent-directory/internal/application/usecase/store"
	"github.com/khoahotran/talent-directory/internal/domain/profile"
	"github.com/khoahotran/talent-directory/internal/domain/skill"
	"github.com/khoahotran/talent-directory/pkg/apperror"
	"github.com/khoahotran/talent-directory/pkg/logger"
)

type InterchangeTestSuite struct {
	suite.Suite
	ctx      context.Context
	provider *store.Provider
	store    *store.Store
	importUC *ImportUseCase
	exportUC *ExportUseCase
}

func TestInterchange(t *testing.T) {
	suite.Run(t, new(InterchangeTestSuite))
}

func (s *InterchangeTestSuite) newProvider() *store.Provider {
	repo, err := persistence.NewFileDirectoryRepo(s.T().TempDir(), logger.NewNopLogger())
	s.Require().NoError(err)
	return store.NewProvider(repo, logger.NewNopLogger())
}

func (s *InterchangeTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.provider = s.newProvider()

	st, err := s.provider.Store(s.ctx)
	s.Require().NoError(err)
	s.store = st

	s.importUC = NewImportUseCase(s.provider, logger.NewNopLogger())
	s.exportUC = NewExportUseCase(s.provider, logger.NewNopLogger())
}

func (s *InterchangeTestSuite) Test_Import_AddsProfilesAndLinksKnownSkills() {
	goSkill, _, err := s.store.AddSkill(s.ctx, skill.Skill{Name: "Go", Category: "Languages"})
	s.Require().NoError(err)

	input := "name,email,phone,skills,tags\n" +
		"Ada,ada@x,1,Go::Expert|Cobol:Legacy:Beginner,mentor|remote\n" +
		"Grace,grace@x,2,,\n"

	report, err := s.importUC.Execute(s.ctx, strings.NewReader(input))
	s.Require().NoError(err)
	s.Equal(2, report.Total)
	s.Equal(2, report.Imported)
	s.Equal(0, report.Failed)
	s.Empty(report.Errors)

	profiles := s.store.ListProfiles()
	s.Require().Len(profiles, 2)
	ada := profiles[0]
	s.NotEmpty(ada.ID)
	s.Equal([]profile.ProfileSkill{
		{ID: goSkill.ID, Name: "Go", Category: "Languages", Proficiency: profile.ProficiencyExpert},
		{Name: "Cobol", Category: "Legacy", Proficiency: profile.ProficiencyBeginner},
	}, ada.Skills)
	s.Equal([]string{"mentor", "remote"}, ada.Tags)
	s.Empty(profiles[1].Skills)
}

func (s *InterchangeTestSuite) Test_Import_CollectsRowFailures() {
	input := "name,email,phone\n" +
		"Ada,ada@x,1\n" +
		"NoPhone,nophone@x,\n" +
		"Broken,\"bad\"quote,3\n" +
		"Grace,grace@x,4\n"

	report, err := s.importUC.Execute(s.ctx, strings.NewReader(input))
	s.Require().NoError(err)
	s.Equal(4, report.Total)
	s.Equal(2, report.Imported)
	s.Equal(2, report.Failed)
	s.Require().Len(report.Errors, 2)
	s.Equal(3, report.Errors[0].Line)
	s.Contains(report.Errors[0].Message, "phone")
	s.Equal(4, report.Errors[1].Line)

	names := []string{}
	for _, p := range s.store.ListProfiles() {
		names = append(names, p.Name)
	}
	s.Equal([]string{"Ada", "Grace"}, names)
}

func (s *InterchangeTestSuite) Test_Import_EmptyFileIsRejected() {
	report, err := s.importUC.Execute(s.ctx, strings.NewReader(""))
	s.Nil(report)
	s.ErrorIs(err, apperror.ErrInvalidInput)
}

func (s *InterchangeTestSuite) Test_Import_CancelledContextStops() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.importUC.Execute(ctx, strings.NewReader("name,email,phone\nAda,a@x,1\n"))
	s.ErrorIs(err, context.Canceled)
	s.Empty(s.store.ListProfiles())
}

func (s *InterchangeTestSuite) Test_Export_EmptyStoreWritesHeaderOnly() {
	var buf bytes.Buffer
	n, err := s.exportUC.Execute(s.ctx, &buf)
	s.Require().NoError(err)
	s.Zero(n)
	s.Equal(1, strings.Count(buf.String(), "\n"))
	s.True(strings.HasPrefix(buf.String(), "id,name,"))
}

func (s *InterchangeTestSuite) Test_ExportThenImport_ReproducesProfiles() {
	rate := 95.0
	src := profile.Profile{
		Name:       "Ada, Countess of Lovelace",
		Title:      "Engineer",
		Department: "R&D",
		HourlyRate: &rate,
		Contact: profile.Contact{
			Email:  "ada@x",
			Phone:  "1",
			Social: &profile.SocialLinks{GitHub: "https://github.com/ada"},
		},
		Skills:    []profile.ProfileSkill{{Name: "Go", Category: "Languages", Proficiency: profile.ProficiencyExpert}},
		Education: []profile.Education{{Institution: "UCL", Degree: "BSc"}},
		Tags:      []string{"a|b"},
		Extra:     map[string]string{"costCenter": "CC-9"},
	}
	added, err := s.store.AddProfile(s.ctx, src)
	s.Require().NoError(err)

	var buf bytes.Buffer
	n, err := s.exportUC.Execute(s.ctx, &buf)
	s.Require().NoError(err)
	s.Equal(1, n)

	target := s.newProvider()
	report, err := NewImportUseCase(target, logger.NewNopLogger()).Execute(s.ctx, &buf)
	s.Require().NoError(err)
	s.Equal(1, report.Imported)

	st, err := target.Store(s.ctx)
	s.Require().NoError(err)
	got := st.ListProfiles()
	s.Require().Len(got, 1)

	// The id column is carried in the file but a new record gets a new id.
	s.NotEqual(added.ID, got[0].ID)
	got[0].ID = added.ID
	s.Equal(added, got[0])
}
