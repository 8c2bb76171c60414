package advising

import (
	"slices"
	"strings"

	"github.com/tcu-dcda/dcda-advisor/internal/model"
)

// FilterOffered resolves a category and keeps the courses offered in the
// current term that are not in exclude. The capstone course never appears
// among general electives.
func (s *Snapshot) FilterOffered(categoryID string, degree model.DegreeType, exclude, completedRequired []string) []model.Course {
	courses := s.ResolveCategory(categoryID, degree, completedRequired)
	excluded := toSet(exclude)
	out := make([]model.Course, 0, len(courses))
	for _, c := range courses {
		if categoryID == s.policy.GeneralElectivesID && c.Code == s.policy.CapstoneCourseCode {
			continue
		}
		if !s.IsOffered(c.Code) {
			continue
		}
		if _, skip := excluded[c.Code]; skip {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FilterSelectable drops courses that are already selected elsewhere or
// that clash with any selection through a mutual exclusion rule. Codes in
// selfCodes are this step's own picks: they stay listed, but they still
// exclude their alternatives.
func (s *Snapshot) FilterSelectable(courses []model.Course, allSelected, selfCodes []string) []model.Course {
	selected := toSet(allSelected)
	own := toSet(selfCodes)

	out := make([]model.Course, 0, len(courses))
	for _, c := range courses {
		_, taken := selected[c.Code]
		_, mine := own[c.Code]
		if taken && !mine {
			continue
		}
		if s.IsMutuallyExcluded(c.Code, allSelected) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// IsMutuallyExcluded reports whether some rule lists code together with
// another code in selected.
func (s *Snapshot) IsMutuallyExcluded(code string, selected []string) bool {
	_, ok := s.MutualExclusion(code, selected)
	return ok
}

// MutualExclusion returns the first rule that code violates against selected.
func (s *Snapshot) MutualExclusion(code string, selected []string) (model.MutualExclusionRule, bool) {
	for _, rule := range s.requirements.MutuallyExclusive {
		if !slices.Contains(rule.Courses, code) {
			continue
		}
		for _, other := range selected {
			if other != code && slices.Contains(rule.Courses, other) {
				return rule, true
			}
		}
	}
	return model.MutualExclusionRule{}, false
}

// EnrollmentWarning returns the advisory for code, keyed by its prefix.
func (s *Snapshot) EnrollmentWarning(code string) (string, bool) {
	prefix, _, _ := strings.Cut(code, " ")
	w, ok := s.requirements.EnrollmentWarnings[prefix]
	if !ok || !slices.Contains(w.Courses, code) {
		return "", false
	}
	return w.Message, true
}

// CourseOptions lists the courses a wizard step offers, with their sections
// and advisories attached.
func (s *Snapshot) CourseOptions(categoryID string, req model.CategoryCoursesRequest) []model.CourseOption {
	var courses []model.Course
	if req.OfferedOnly {
		courses = s.FilterOffered(categoryID, req.DegreeType, req.Exclude, req.CompletedRequired)
	} else {
		excluded := toSet(req.Exclude)
		for _, c := range s.ResolveCategory(categoryID, req.DegreeType, req.CompletedRequired) {
			if _, skip := excluded[c.Code]; !skip {
				courses = append(courses, c)
			}
		}
	}
	courses = s.FilterSelectable(courses, req.Selected, req.OwnCodes())

	out := make([]model.CourseOption, 0, len(courses))
	for _, c := range courses {
		warning, _ := s.EnrollmentWarning(c.Code)
		out = append(out, model.CourseOption{
			Course:            c,
			Offered:           s.IsOffered(c.Code),
			Sections:          s.Sections(c.Code),
			EnrollmentWarning: warning,
		})
	}
	return out
}
