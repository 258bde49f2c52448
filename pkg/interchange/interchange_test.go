package interchange

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/talent-directory/internal/domain/profile"
)

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }

func fullProfile() profile.Profile {
	return profile.Profile{
		ID:           "b0f3c6de-0000-4000-8000-000000000001",
		Name:         "Ada Lovelace",
		Title:        "Principal Engineer",
		Department:   "Engineering",
		Bio:          "Writes programs, \"analytical\" engines,\nand notes.",
		Image:        "https://cdn.example.com/ada.png",
		HourlyRate:   ptrF(120.5),
		DayRate:      ptrF(900),
		YearlySalary: ptrF(185000),
		ProjectRates: &profile.ProjectRates{Minimum: ptrF(5000), Maximum: ptrF(20000), Currency: "EUR"},
		Contact: profile.Contact{
			Email:    "ada@example.com",
			Phone:    "+44 20 7946 0000",
			Website:  "https://ada.dev",
			Location: "London, UK",
			Social:   &profile.SocialLinks{LinkedIn: "https://linkedin.com/in/ada", GitHub: "https://github.com/ada"},
		},
		Skills: []profile.ProfileSkill{
			{Name: "Go", Category: "Languages", Proficiency: profile.ProficiencyExpert},
			{Name: "Figma", Category: "Design", Proficiency: profile.ProficiencyBeginner},
		},
		Availability: profile.Availability{
			Status:          profile.StatusLimited,
			AvailableFrom:   "2026-11-01",
			NextAvailable:   "2026-12-15",
			PreferredHours:  "09:00-17:00",
			Timezone:        "Europe/London",
			BookingLeadTime: ptrI(14),
			Capacity: &profile.Capacity{
				HoursPerWeek:             ptrF(32),
				MaxConcurrentProjects:    ptrI(2),
				PreferredProjectDuration: &profile.DurationRange{Min: ptrI(4), Max: ptrI(12)},
			},
		},
		Education: []profile.Education{
			{Institution: "University of London", Degree: "BSc", Field: "Mathematics", StartDate: "1832", EndDate: "1835"},
		},
		Certifications: []profile.Certification{
			{Name: "CKA", Issuer: "CNCF", Date: "2024-03-01", ExpiryDate: "2027-03-01"},
			{Name: "PMP", Issuer: "PMI", Date: "2020-01-01"},
		},
		Tags:  []string{"mentor", "remote"},
		Extra: map[string]string{"employeeNumber": "E-1001"},
	}
}

func TestRoundTrip_FullProfile(t *testing.T) {
	p := fullProfile()
	assert.Equal(t, p, Parse(Flatten(p)))
}

func TestRoundTrip_MinimalProfile(t *testing.T) {
	p := profile.Profile{
		ID:      "1",
		Name:    "Grace",
		Contact: profile.Contact{Email: "g@example.com", Phone: "1"},
	}
	p.Normalize()

	row := Flatten(p)
	assert.Equal(t, "", row[ColHourlyRate])
	assert.Equal(t, "", row[ColLinkedIn])
	assert.Equal(t, "", row[ColMinProjectDuration])
	assert.Equal(t, p, Parse(row))
}

func TestFlatten_SingleSkillAndEmptyLists(t *testing.T) {
	p := profile.Profile{
		Skills:         []profile.ProfileSkill{{Name: "Go", Category: "Languages", Proficiency: profile.ProficiencyExpert}},
		Education:      []profile.Education{},
		Certifications: []profile.Certification{},
	}

	row := Flatten(p)
	assert.Equal(t, "Go:Languages:Expert", row[ColSkills])
	assert.Equal(t, "", row[ColEducation])
	assert.Equal(t, "", row[ColCertifications])

	back := Parse(row)
	assert.Equal(t, p.Skills, back.Skills)
	assert.Equal(t, []profile.Education{}, back.Education)
	assert.Equal(t, []profile.Certification{}, back.Certifications)
}

func TestEmptySkills_RoundTripToEmptySlice(t *testing.T) {
	row := Flatten(profile.Profile{Skills: []profile.ProfileSkill{}})
	assert.Equal(t, "", row[ColSkills])

	back := Parse(row)
	require.NotNil(t, back.Skills)
	assert.Len(t, back.Skills, 0)
}

func TestFlatten_MultipleEntriesJoinWithPipe(t *testing.T) {
	row := Flatten(fullProfile())
	assert.Equal(t, "Go:Languages:Expert|Figma:Design:Beginner", row[ColSkills])
	assert.Equal(t, "CKA:CNCF:2024-03-01:2027-03-01|PMP:PMI:2020-01-01:", row[ColCertifications])
	assert.Equal(t, "University of London:BSc:Mathematics:1832:1835", row[ColEducation])
	assert.Equal(t, "mentor|remote", row[ColTags])
	assert.Equal(t, "120.5", row[ColHourlyRate])
	assert.Equal(t, "185000", row[ColYearlySalary])
	assert.Equal(t, "London, UK", row[ColContactLocation])
	assert.Equal(t, "E-1001", row["employeeNumber"])
}

func TestDelimitersInsideSubFieldsAreEscaped(t *testing.T) {
	p := profile.Profile{
		Skills: []profile.ProfileSkill{
			{Name: "C++: templates", Category: "Languages|Systems", Proficiency: profile.ProficiencyAdvanced},
			{Name: `back\slash`, Category: "Misc"},
		},
		Education:      []profile.Education{},
		Certifications: []profile.Certification{{Name: "AWS SA: Pro", Issuer: "AWS", Date: "2025-01-01"}},
		Tags:           []string{"a|b", "key:value"},
	}

	row := Flatten(p)
	assert.Equal(t, `C++\: templates:Languages\|Systems:Advanced|back\\slash:Misc:`, row[ColSkills])
	assert.Equal(t, `a\|b|key:value`, row[ColTags])

	back := Parse(row)
	assert.Equal(t, p.Skills, back.Skills)
	assert.Equal(t, p.Certifications, back.Certifications)
	assert.Equal(t, p.Tags, back.Tags)
}

func TestParse_MissingSubFieldsDefaultToEmpty(t *testing.T) {
	back := Parse(Row{ColSkills: "Go|Rust:Languages", ColEducation: "MIT:PhD"})
	assert.Equal(t, []profile.ProfileSkill{
		{Name: "Go"},
		{Name: "Rust", Category: "Languages"},
	}, back.Skills)
	assert.Equal(t, []profile.Education{{Institution: "MIT", Degree: "PhD"}}, back.Education)
}

func TestParse_NumericCoercion(t *testing.T) {
	back := Parse(Row{
		ColHourlyRate:            " 85 ",
		ColDayRate:               "n/a",
		ColYearlySalary:          "NaN",
		ColBookingLeadTime:       "7.0",
		ColMaxConcurrentProjects: "2.5",
		ColHoursPerWeek:          "",
	})
	require.NotNil(t, back.HourlyRate)
	assert.Equal(t, 85.0, *back.HourlyRate)
	assert.Nil(t, back.DayRate)
	assert.Nil(t, back.YearlySalary)
	require.NotNil(t, back.Availability.BookingLeadTime)
	assert.Equal(t, 7, *back.Availability.BookingLeadTime)
	assert.Nil(t, back.Availability.Capacity)
}

func TestParse_UnknownColumnsPassThrough(t *testing.T) {
	back := Parse(Row{ColName: "Ada", "costCenter": "CC-9", "notes": ""})
	assert.Equal(t, map[string]string{"costCenter": "CC-9"}, back.Extra)
}

func TestParse_NestedObjectsOnlyWhenPresent(t *testing.T) {
	back := Parse(Row{ColGitHub: "https://github.com/x", ColMaxProjectDuration: "8"})
	require.NotNil(t, back.Contact.Social)
	assert.Equal(t, "https://github.com/x", back.Contact.Social.GitHub)
	require.NotNil(t, back.Availability.Capacity)
	require.NotNil(t, back.Availability.Capacity.PreferredProjectDuration)
	assert.Nil(t, back.Availability.Capacity.PreferredProjectDuration.Min)
	assert.Equal(t, 8, *back.Availability.Capacity.PreferredProjectDuration.Max)
	assert.Nil(t, back.ProjectRates)
}

func TestCSV_RoundTripWithQuoting(t *testing.T) {
	a := fullProfile()
	b := profile.Profile{ID: "2", Name: "Grace, \"Amazing\" Hopper", Contact: profile.Contact{Email: "g@x", Phone: "2"}}
	b.Normalize()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []Row{Flatten(a), Flatten(b)}))
	assert.Contains(t, buf.String(), `"Grace, ""Amazing"" Hopper"`)

	rows, rowErrs, err := ReadAll(&buf)
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 2)
	assert.Equal(t, a, Parse(rows[0]))
	assert.Equal(t, b, Parse(rows[1]))
}

func TestCSV_CRLFInsideQuotedFieldReadsBackAsLF(t *testing.T) {
	p := profile.Profile{ID: "3", Name: "Linus", Bio: "line1\r\nline2", Contact: profile.Contact{Email: "l@x", Phone: "3"}}
	p.Normalize()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []Row{Flatten(p)}))
	assert.Contains(t, buf.String(), "\"line1\r\nline2\"")

	rows, rowErrs, err := ReadAll(&buf)
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 1)

	back := Parse(rows[0])
	assert.Equal(t, "line1\nline2", back.Bio)
	back.Bio = p.Bio
	assert.Equal(t, p, back)
}

func TestCSV_HeaderOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []Row{{"zeta": "1"}, {"alpha": "2"}}))
	firstLine := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.True(t, strings.HasPrefix(firstLine, "id,name,title,department,"))
	assert.True(t, strings.HasSuffix(firstLine, ",tags,alpha,zeta"))
}

func TestReader_BadRowsDoNotStopReading(t *testing.T) {
	input := "\ufeffname,email,phone\n" +
		"Ada,ada@x,1\n" +
		"Bad,\"unterminated\"x,2\n" +
		"Too,many,fields,here\n" +
		"Short\n" +
		"Grace,grace@x,3\n"

	rd, err := NewReader(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "email", "phone"}, rd.Header())

	var names []string
	var lines []int
	for {
		row, line, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var re *RowError
		if errors.As(err, &re) {
			lines = append(lines, re.Line)
			continue
		}
		require.NoError(t, err)
		names = append(names, row[ColName])
		if row[ColName] == "Short" {
			assert.Equal(t, "", row[ColEmail])
			assert.Equal(t, 5, line)
		}
	}
	assert.Equal(t, []string{"Ada", "Short", "Grace"}, names)
	assert.Equal(t, []int{3, 4}, lines)
}

func TestReader_EmptyInput(t *testing.T) {
	_, err := NewReader(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = NewReader(strings.NewReader("name,,email\n"))
	assert.ErrorIs(t, err, ErrMissingHeader)
}
