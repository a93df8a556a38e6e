package matching

import "strings"

// Document is the searchable projection of a record. Identity holds the
// name followed by contact fields in schema order.
type Document struct {
	Identity        []string
	SelfEvaluation  string
	EducationDegree string

	Skills               []string
	WorkExperience       []string
	InternshipExperience []string
	ProjectExperience    []string
	TagNames             []string
}

// EffectiveWorkHistory is work when it has any entries, otherwise internship
// followed by project with blank entries dropped. The result is never nil.
func EffectiveWorkHistory(work, internship, project []string) []string {
	if len(work) > 0 {
		out := make([]string, len(work))
		copy(out, work)
		return out
	}

	out := make([]string, 0, len(internship)+len(project))
	for _, group := range [][]string{internship, project} {
		for _, v := range group {
			if v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// WorkHistory is EffectiveWorkHistory for the document.
func (d Document) WorkHistory() []string {
	return EffectiveWorkHistory(d.WorkExperience, d.InternshipExperience, d.ProjectExperience)
}

// BuildBlob joins every searchable field with newlines and lower-cases the
// result. Field order is fixed so debug output is reproducible.
func BuildBlob(d Document) string {
	parts := make([]string, 0, 16)
	parts = append(parts, d.Identity...)
	parts = append(parts, d.SelfEvaluation)
	if d.EducationDegree != "" {
		parts = append(parts, d.EducationDegree)
	}
	parts = append(parts, d.Skills...)
	parts = append(parts, d.WorkHistory()...)
	parts = append(parts, d.InternshipExperience...)
	parts = append(parts, d.ProjectExperience...)
	parts = append(parts, d.TagNames...)

	return strings.ToLower(strings.Join(parts, "\n"))
}
