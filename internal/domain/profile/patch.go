package profile

// Patch is a partial Profile. Every non-nil field replaces the whole field on
// the target; nested objects are not merged. ID is deliberately absent.
type Patch struct {
	Name           *string          `json:"name,omitempty"`
	Title          *string          `json:"title,omitempty"`
	Department     *string          `json:"department,omitempty"`
	Bio            *string          `json:"bio,omitempty"`
	Image          *string          `json:"image,omitempty"`
	HourlyRate     *float64         `json:"hourlyRate,omitempty"`
	DayRate        *float64         `json:"dayRate,omitempty"`
	YearlySalary   *float64         `json:"yearlySalary,omitempty"`
	ProjectRates   *ProjectRates    `json:"projectRates,omitempty"`
	Contact        *Contact         `json:"contact,omitempty"`
	Skills         *[]ProfileSkill  `json:"skills,omitempty"`
	Availability   *Availability    `json:"availability,omitempty"`
	Education      *[]Education     `json:"education,omitempty"`
	Certifications *[]Certification `json:"certifications,omitempty"`
	Tags           *[]string        `json:"tags,omitempty"`
}

// Apply returns p with the patch merged on top. p itself is not modified.
func (pt Patch) Apply(p Profile) Profile {
	out := p.Clone()
	if pt.Name != nil {
		out.Name = *pt.Name
	}
	if pt.Title != nil {
		out.Title = *pt.Title
	}
	if pt.Department != nil {
		out.Department = *pt.Department
	}
	if pt.Bio != nil {
		out.Bio = *pt.Bio
	}
	if pt.Image != nil {
		out.Image = *pt.Image
	}
	if pt.HourlyRate != nil {
		out.HourlyRate = cloneFloat(pt.HourlyRate)
	}
	if pt.DayRate != nil {
		out.DayRate = cloneFloat(pt.DayRate)
	}
	if pt.YearlySalary != nil {
		out.YearlySalary = cloneFloat(pt.YearlySalary)
	}
	if pt.ProjectRates != nil {
		out.ProjectRates = Profile{ProjectRates: pt.ProjectRates}.Clone().ProjectRates
	}
	if pt.Contact != nil {
		out.Contact = Profile{Contact: *pt.Contact}.Clone().Contact
	}
	if pt.Skills != nil {
		out.Skills = append([]ProfileSkill{}, (*pt.Skills)...)
	}
	if pt.Availability != nil {
		out.Availability = Profile{Availability: *pt.Availability}.Clone().Availability
	}
	if pt.Education != nil {
		out.Education = append([]Education{}, (*pt.Education)...)
	}
	if pt.Certifications != nil {
		out.Certifications = append([]Certification{}, (*pt.Certifications)...)
	}
	if pt.Tags != nil {
		out.Tags = append([]string{}, (*pt.Tags)...)
	}
	return out
}
