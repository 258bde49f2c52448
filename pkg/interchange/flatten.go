package interchange

import (
	"strconv"
	"strings"

	"github.com/khoahotran/talent-directory/internal/domain/profile"
)

// Flatten maps p onto a single row. Absent optional values become "".
// Passthrough values in p.Extra are copied under their own column unless the
// name collides with a mapped column.
func Flatten(p profile.Profile) Row {
	row := Row{
		ColID:         p.ID,
		ColName:       p.Name,
		ColTitle:      p.Title,
		ColDepartment: p.Department,
		ColBio:        p.Bio,
		ColImage:      p.Image,

		ColHourlyRate:   formatFloat(p.HourlyRate),
		ColDayRate:      formatFloat(p.DayRate),
		ColYearlySalary: formatFloat(p.YearlySalary),

		ColEmail:           p.Contact.Email,
		ColPhone:           p.Contact.Phone,
		ColWebsite:         p.Contact.Website,
		ColContactLocation: p.Contact.Location,

		ColAvailability:    string(p.Availability.Status),
		ColAvailableFrom:   p.Availability.AvailableFrom,
		ColNextAvailable:   p.Availability.NextAvailable,
		ColPreferredHours:  p.Availability.PreferredHours,
		ColTimezone:        p.Availability.Timezone,
		ColBookingLeadTime: formatInt(p.Availability.BookingLeadTime),

		ColSkills:         flattenSkills(p.Skills),
		ColEducation:      flattenEducation(p.Education),
		ColCertifications: flattenCertifications(p.Certifications),
		ColTags:           flattenTags(p.Tags),
	}

	var rates profile.ProjectRates
	if p.ProjectRates != nil {
		rates = *p.ProjectRates
	}
	row[ColProjectRateMin] = formatFloat(rates.Minimum)
	row[ColProjectRateMax] = formatFloat(rates.Maximum)
	row[ColProjectRateCurrency] = rates.Currency

	var social profile.SocialLinks
	if p.Contact.Social != nil {
		social = *p.Contact.Social
	}
	row[ColLinkedIn] = social.LinkedIn
	row[ColGitHub] = social.GitHub
	row[ColTwitter] = social.Twitter
	row[ColDribbble] = social.Dribbble
	row[ColBehance] = social.Behance
	row[ColPortfolio] = social.Portfolio

	var capacity profile.Capacity
	if p.Availability.Capacity != nil {
		capacity = *p.Availability.Capacity
	}
	var duration profile.DurationRange
	if capacity.PreferredProjectDuration != nil {
		duration = *capacity.PreferredProjectDuration
	}
	row[ColHoursPerWeek] = formatFloat(capacity.HoursPerWeek)
	row[ColMaxConcurrentProjects] = formatInt(capacity.MaxConcurrentProjects)
	row[ColMinProjectDuration] = formatInt(duration.Min)
	row[ColMaxProjectDuration] = formatInt(duration.Max)

	for k, v := range p.Extra {
		if !known[k] {
			row[k] = v
		}
	}
	return row
}

func flattenSkills(skills []profile.ProfileSkill) string {
	entries := make([][]string, len(skills))
	for i, s := range skills {
		entries[i] = []string{s.Name, s.Category, string(s.Proficiency)}
	}
	return packList(entries)
}

func flattenEducation(education []profile.Education) string {
	entries := make([][]string, len(education))
	for i, e := range education {
		entries[i] = []string{e.Institution, e.Degree, e.Field, e.StartDate, e.EndDate}
	}
	return packList(entries)
}

func flattenCertifications(certs []profile.Certification) string {
	entries := make([][]string, len(certs))
	for i, c := range certs {
		entries[i] = []string{c.Name, c.Issuer, c.Date, c.ExpiryDate}
	}
	return packList(entries)
}

// Tags have no sub-fields, so only "\" and "|" are escaped.
func flattenTags(tags []string) string {
	escaped := make([]string, len(tags))
	for i, t := range tags {
		escaped[i] = tagEscaper.Replace(t)
	}
	return strings.Join(escaped, string(entrySep))
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
