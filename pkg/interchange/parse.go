package interchange

import (
	"math"
	"strconv"
	"strings"

	"github.com/khoahotran/talent-directory/internal/domain/profile"
)

// Parse rebuilds a profile from a row. Numeric columns that do not hold a
// number parse to nil. Nested optional objects stay nil when all of their
// columns are empty. Non-empty unknown columns land in Extra.
func Parse(row Row) profile.Profile {
	var (
		p        profile.Profile
		rates    profile.ProjectRates
		social   profile.SocialLinks
		capacity profile.Capacity
		duration profile.DurationRange
	)

	for col, v := range row {
		switch col {
		case ColID:
			p.ID = v
		case ColName:
			p.Name = v
		case ColTitle:
			p.Title = v
		case ColDepartment:
			p.Department = v
		case ColBio:
			p.Bio = v
		case ColImage:
			p.Image = v
		case ColHourlyRate:
			p.HourlyRate = parseFloat(v)
		case ColDayRate:
			p.DayRate = parseFloat(v)
		case ColYearlySalary:
			p.YearlySalary = parseFloat(v)
		case ColProjectRateMin:
			rates.Minimum = parseFloat(v)
		case ColProjectRateMax:
			rates.Maximum = parseFloat(v)
		case ColProjectRateCurrency:
			rates.Currency = v
		case ColEmail:
			p.Contact.Email = v
		case ColPhone:
			p.Contact.Phone = v
		case ColWebsite:
			p.Contact.Website = v
		case ColContactLocation:
			p.Contact.Location = v
		case ColLinkedIn:
			social.LinkedIn = v
		case ColGitHub:
			social.GitHub = v
		case ColTwitter:
			social.Twitter = v
		case ColDribbble:
			social.Dribbble = v
		case ColBehance:
			social.Behance = v
		case ColPortfolio:
			social.Portfolio = v
		case ColAvailability:
			p.Availability.Status = profile.AvailabilityStatus(v)
		case ColAvailableFrom:
			p.Availability.AvailableFrom = v
		case ColNextAvailable:
			p.Availability.NextAvailable = v
		case ColPreferredHours:
			p.Availability.PreferredHours = v
		case ColTimezone:
			p.Availability.Timezone = v
		case ColBookingLeadTime:
			p.Availability.BookingLeadTime = parseInt(v)
		case ColHoursPerWeek:
			capacity.HoursPerWeek = parseFloat(v)
		case ColMaxConcurrentProjects:
			capacity.MaxConcurrentProjects = parseInt(v)
		case ColMinProjectDuration:
			duration.Min = parseInt(v)
		case ColMaxProjectDuration:
			duration.Max = parseInt(v)
		case ColSkills:
			p.Skills = parseSkills(v)
		case ColEducation:
			p.Education = parseEducation(v)
		case ColCertifications:
			p.Certifications = parseCertifications(v)
		case ColTags:
			p.Tags = parseTags(v)
		default:
			if v == "" {
				continue
			}
			if p.Extra == nil {
				p.Extra = map[string]string{}
			}
			p.Extra[col] = v
		}
	}

	if rates.Minimum != nil || rates.Maximum != nil || rates.Currency != "" {
		p.ProjectRates = &rates
	}
	if social != (profile.SocialLinks{}) {
		p.Contact.Social = &social
	}
	if duration.Min != nil || duration.Max != nil {
		capacity.PreferredProjectDuration = &duration
	}
	if capacity.HoursPerWeek != nil || capacity.MaxConcurrentProjects != nil || capacity.PreferredProjectDuration != nil {
		p.Availability.Capacity = &capacity
	}

	p.Normalize()
	return p
}

// ParseRows parses every row in order.
func ParseRows(rows []Row) []profile.Profile {
	out := make([]profile.Profile, len(rows))
	for i, r := range rows {
		out[i] = Parse(r)
	}
	return out
}

func parseSkills(cell string) []profile.ProfileSkill {
	entries := unpackList(cell, 3)
	out := make([]profile.ProfileSkill, len(entries))
	for i, f := range entries {
		out[i] = profile.ProfileSkill{Name: f[0], Category: f[1], Proficiency: profile.Proficiency(f[2])}
	}
	return out
}

func parseEducation(cell string) []profile.Education {
	entries := unpackList(cell, 5)
	out := make([]profile.Education, len(entries))
	for i, f := range entries {
		out[i] = profile.Education{Institution: f[0], Degree: f[1], Field: f[2], StartDate: f[3], EndDate: f[4]}
	}
	return out
}

func parseCertifications(cell string) []profile.Certification {
	entries := unpackList(cell, 4)
	out := make([]profile.Certification, len(entries))
	for i, f := range entries {
		out[i] = profile.Certification{Name: f[0], Issuer: f[1], Date: f[2], ExpiryDate: f[3]}
	}
	return out
}

// parseTags drops blank entries, which the export never produces.
func parseTags(cell string) []string {
	if cell == "" {
		return nil
	}
	var out []string
	for _, t := range split(cell, entrySep) {
		if t = unescape(t); strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
	}
	return out
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// parseInt accepts integral floats such as "4.0" and rejects "4.5".
func parseInt(s string) *int {
	f := parseFloat(s)
	if f == nil || *f != math.Trunc(*f) || math.Abs(*f) > math.MaxInt32 {
		return nil
	}
	v := int(*f)
	return &v
}
