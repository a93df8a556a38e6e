package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/yoockh/talentmatch/internal/matching"
	"gorm.io/datatypes"
)

// Resume is a parsed résumé row. Nullable text columns are pointers; array
// columns decode to empty slices when NULL.
type Resume struct {
	ID          int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        *string `gorm:"column:name;type:text" json:"name"`
	ContactInfo *string `gorm:"column:contact_info;type:text" json:"contact_info"`

	EducationDegree         *string        `gorm:"column:education_degree;type:text" json:"education_degree"`
	EducationSchool         pq.StringArray `gorm:"column:education_school;type:text[]" json:"education_school"`
	EducationMajor          *string        `gorm:"column:education_major;type:text" json:"education_major"`
	EducationGraduationYear *int           `gorm:"column:education_graduation_year;type:integer" json:"education_graduation_year"`
	EducationTiers          pq.StringArray `gorm:"column:education_tiers;type:text[]" json:"education_tiers"`

	Skills               pq.StringArray `gorm:"column:skills;type:text[]" json:"skills"`
	WorkExperience       pq.StringArray `gorm:"column:work_experience;type:text[]" json:"work_experience"`
	InternshipExperience pq.StringArray `gorm:"column:internship_experience;type:text[]" json:"internship_experience"`
	ProjectExperience    pq.StringArray `gorm:"column:project_experience;type:text[]" json:"project_experience"`
	SelfEvaluation       *string        `gorm:"column:self_evaluation;type:text" json:"self_evaluation"`

	// free-form parser output
	Other datatypes.JSON `gorm:"column:other;type:jsonb" json:"other,omitempty"`

	TagNames     pq.StringArray `gorm:"column:tag_names;type:text[]" json:"tag_names"`
	WorkYears    *int           `gorm:"column:work_years;type:integer" json:"work_years"`
	ResumeFileID *int64         `gorm:"column:resume_file_id" json:"resume_file_id"`

	CreatedAt *time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Resume) TableName() string { return "resumes" }

// SearchDocument is the projection every search and match path builds its
// blob from.
func (r *Resume) SearchDocument() matching.Document {
	return matching.Document{
		Identity:             []string{str(r.Name), str(r.ContactInfo)},
		SelfEvaluation:       str(r.SelfEvaluation),
		EducationDegree:      str(r.EducationDegree),
		Skills:               r.Skills,
		WorkExperience:       r.WorkExperience,
		InternshipExperience: r.InternshipExperience,
		ProjectExperience:    r.ProjectExperience,
		TagNames:             r.TagNames,
	}
}

func (r *Resume) Blob() string { return matching.BuildBlob(r.SearchDocument()) }

// WorkHistory is work_experience, or internship + project when it is empty.
func (r *Resume) WorkHistory() []string {
	return matching.EffectiveWorkHistory(r.WorkExperience, r.InternshipExperience, r.ProjectExperience)
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
