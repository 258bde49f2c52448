// Package interchange converts profiles to flat spreadsheet rows and back.
//
// Scalar fields map to same-named columns. Nested contact, social,
// availability and capacity fields each have a hand-picked column. List
// fields are packed into one cell: entries joined by "|", sub-fields by ":".
// A literal "\", ":" or "|" inside a sub-field is escaped with a backslash, so
// values such as "C++: templates" survive the round trip.
package interchange

import "sort"

// Row is one flattened profile keyed by column name.
type Row map[string]string

const (
	ColID                    = "id"
	ColName                  = "name"
	ColTitle                 = "title"
	ColDepartment            = "department"
	ColBio                   = "bio"
	ColImage                 = "image"
	ColHourlyRate            = "hourlyRate"
	ColDayRate               = "dayRate"
	ColYearlySalary          = "yearlySalary"
	ColProjectRateMin        = "projectRateMin"
	ColProjectRateMax        = "projectRateMax"
	ColProjectRateCurrency   = "projectRateCurrency"
	ColEmail                 = "email"
	ColPhone                 = "phone"
	ColWebsite               = "website"
	ColContactLocation       = "contactLocation"
	ColLinkedIn              = "linkedin"
	ColGitHub                = "github"
	ColTwitter               = "twitter"
	ColDribbble              = "dribbble"
	ColBehance               = "behance"
	ColPortfolio             = "portfolio"
	ColAvailability          = "availability"
	ColAvailableFrom         = "availableFrom"
	ColNextAvailable         = "nextAvailable"
	ColPreferredHours        = "preferredHours"
	ColTimezone              = "timezone"
	ColBookingLeadTime       = "bookingLeadTime"
	ColHoursPerWeek          = "hoursPerWeek"
	ColMaxConcurrentProjects = "maxConcurrentProjects"
	ColMinProjectDuration    = "minProjectDuration"
	ColMaxProjectDuration    = "maxProjectDuration"
	ColSkills                = "skills"
	ColEducation             = "education"
	ColCertifications        = "certifications"
	ColTags                  = "tags"
)

var columns = []string{
	ColID, ColName, ColTitle, ColDepartment, ColBio, ColImage,
	ColHourlyRate, ColDayRate, ColYearlySalary,
	ColProjectRateMin, ColProjectRateMax, ColProjectRateCurrency,
	ColEmail, ColPhone, ColWebsite, ColContactLocation,
	ColLinkedIn, ColGitHub, ColTwitter, ColDribbble, ColBehance, ColPortfolio,
	ColAvailability, ColAvailableFrom, ColNextAvailable, ColPreferredHours, ColTimezone, ColBookingLeadTime,
	ColHoursPerWeek, ColMaxConcurrentProjects, ColMinProjectDuration, ColMaxProjectDuration,
	ColSkills, ColEducation, ColCertifications, ColTags,
}

var known = func() map[string]bool {
	m := make(map[string]bool, len(columns))
	for _, c := range columns {
		m[c] = true
	}
	return m
}()

// Columns returns the fixed column order used for export.
func Columns() []string {
	return append([]string(nil), columns...)
}

// IsKnownColumn reports whether name is mapped to a Profile field.
func IsKnownColumn(name string) bool {
	return known[name]
}

// Header returns the fixed columns followed by every passthrough column found
// in rows, sorted by name.
func Header(rows []Row) []string {
	extra := map[string]struct{}{}
	for _, r := range rows {
		for k := range r {
			if !known[k] {
				extra[k] = struct{}{}
			}
		}
	}
	names := make([]string, 0, len(extra))
	for k := range extra {
		names = append(names, k)
	}
	sort.Strings(names)
	return append(Columns(), names...)
}
