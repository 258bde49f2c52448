package profile

import (
	"errors"
	"fmt"
	"strings"
)

type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "Beginner"
	ProficiencyIntermediate Proficiency = "Intermediate"
	ProficiencyAdvanced     Proficiency = "Advanced"
	ProficiencyExpert       Proficiency = "Expert"
)

func (p Proficiency) Valid() bool {
	switch p {
	case ProficiencyBeginner, ProficiencyIntermediate, ProficiencyAdvanced, ProficiencyExpert:
		return true
	}
	return false
}

type AvailabilityStatus string

const (
	StatusAvailable   AvailabilityStatus = "available"
	StatusLimited     AvailabilityStatus = "limited"
	StatusUnavailable AvailabilityStatus = "unavailable"
)

func (s AvailabilityStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusLimited, StatusUnavailable:
		return true
	}
	return false
}

// ProfileSkill is a copy of a taxonomy Skill taken when it was attached.
// Renaming or deleting the Skill later does not touch it.
type ProfileSkill struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	Proficiency Proficiency `json:"proficiency"`
}

type SocialLinks struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Dribbble  string `json:"dribbble,omitempty"`
	Behance   string `json:"behance,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

type Contact struct {
	Email    string       `json:"email"`
	Phone    string       `json:"phone"`
	Website  string       `json:"website,omitempty"`
	Location string       `json:"location,omitempty"`
	Social   *SocialLinks `json:"social,omitempty"`
}

// DurationRange is measured in weeks.
type DurationRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

type Capacity struct {
	HoursPerWeek             *float64       `json:"hoursPerWeek,omitempty"`
	MaxConcurrentProjects    *int           `json:"maxConcurrentProjects,omitempty"`
	PreferredProjectDuration *DurationRange `json:"preferredProjectDuration,omitempty"`
}

type Availability struct {
	Status          AvailabilityStatus `json:"status"`
	AvailableFrom   string             `json:"availableFrom,omitempty"`
	NextAvailable   string             `json:"nextAvailable,omitempty"`
	PreferredHours  string             `json:"preferredHours,omitempty"`
	Timezone        string             `json:"timezone,omitempty"`
	BookingLeadTime *int               `json:"bookingLeadTime,omitempty"`
	Capacity        *Capacity          `json:"capacity,omitempty"`
}

type ProjectRates struct {
	Minimum  *float64 `json:"minimum,omitempty"`
	Maximum  *float64 `json:"maximum,omitempty"`
	Currency string   `json:"currency,omitempty"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

type Certification struct {
	Name       string `json:"name"`
	Issuer     string `json:"issuer"`
	Date       string `json:"date"`
	ExpiryDate string `json:"expiryDate,omitempty"`
}

type Profile struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Title          string            `json:"title"`
	Department     string            `json:"department"`
	Bio            string            `json:"bio,omitempty"`
	Image          string            `json:"image,omitempty"`
	HourlyRate     *float64          `json:"hourlyRate,omitempty"`
	DayRate        *float64          `json:"dayRate,omitempty"`
	YearlySalary   *float64          `json:"yearlySalary,omitempty"`
	ProjectRates   *ProjectRates     `json:"projectRates,omitempty"`
	Contact        Contact           `json:"contact"`
	Skills         []ProfileSkill    `json:"skills"`
	Availability   Availability      `json:"availability"`
	Education      []Education       `json:"education"`
	Certifications []Certification   `json:"certifications"`
	Tags           []string          `json:"tags,omitempty"`
	Extra          map[string]string `json:"extra,omitempty"`
}

var (
	ErrEmailRequired      = errors.New("contact email is required")
	ErrPhoneRequired      = errors.New("contact phone is required")
	ErrInvalidProficiency = errors.New("invalid skill proficiency")
	ErrInvalidStatus      = errors.New("invalid availability status")
)

func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Contact.Email) == "" {
		return ErrEmailRequired
	}
	if strings.TrimSpace(p.Contact.Phone) == "" {
		return ErrPhoneRequired
	}
	for _, s := range p.Skills {
		if s.Proficiency != "" && !s.Proficiency.Valid() {
			return fmt.Errorf("%w: %q on skill %q", ErrInvalidProficiency, s.Proficiency, s.Name)
		}
	}
	if p.Availability.Status != "" && !p.Availability.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, p.Availability.Status)
	}
	return nil
}

// Normalize replaces nil lists with empty ones so stored documents always carry arrays.
func (p *Profile) Normalize() {
	if p.Skills == nil {
		p.Skills = []ProfileSkill{}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.Certifications == nil {
		p.Certifications = []Certification{}
	}
}

// Clone returns a copy that shares no slices, maps or pointers with p.
func (p Profile) Clone() Profile {
	c := p
	c.HourlyRate = cloneFloat(p.HourlyRate)
	c.DayRate = cloneFloat(p.DayRate)
	c.YearlySalary = cloneFloat(p.YearlySalary)
	if p.ProjectRates != nil {
		r := *p.ProjectRates
		r.Minimum = cloneFloat(r.Minimum)
		r.Maximum = cloneFloat(r.Maximum)
		c.ProjectRates = &r
	}
	if p.Contact.Social != nil {
		s := *p.Contact.Social
		c.Contact.Social = &s
	}
	c.Availability.BookingLeadTime = cloneInt(p.Availability.BookingLeadTime)
	if p.Availability.Capacity != nil {
		cp := *p.Availability.Capacity
		cp.HoursPerWeek = cloneFloat(cp.HoursPerWeek)
		cp.MaxConcurrentProjects = cloneInt(cp.MaxConcurrentProjects)
		if cp.PreferredProjectDuration != nil {
			d := DurationRange{
				Min: cloneInt(cp.PreferredProjectDuration.Min),
				Max: cloneInt(cp.PreferredProjectDuration.Max),
			}
			cp.PreferredProjectDuration = &d
		}
		c.Availability.Capacity = &cp
	}
	if p.Skills != nil {
		c.Skills = append([]ProfileSkill{}, p.Skills...)
	}
	if p.Education != nil {
		c.Education = append([]Education{}, p.Education...)
	}
	if p.Certifications != nil {
		c.Certifications = append([]Certification{}, p.Certifications...)
	}
	if p.Tags != nil {
		c.Tags = append([]string{}, p.Tags...)
	}
	if p.Extra != nil {
		c.Extra = make(map[string]string, len(p.Extra))
		for k, v := range p.Extra {
			c.Extra[k] = v
		}
	}
	return c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	x := *v
	return &x
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	x := *v
	return &x
}
