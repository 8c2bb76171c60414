package advising

import (
	"github.com/tcu-dcda/dcda-advisor/internal/model"
)

// ResolveCategory returns the catalog courses that can satisfy a category.
//
// A required category with an explicit course list resolves to those codes
// that exist in the catalog. For the major, an elective bucket resolves to
// every catalog course of its subject, minus completedRequired. The general
// electives id resolves to the whole catalog. Anything else is empty.
func (s *Snapshot) ResolveCategory(categoryID string, degree model.DegreeType, completedRequired []string) []model.Course {
	degree = degree.OrDefault()
	tree := s.requirements.Degree(degree)
	if tree == nil {
		return []model.Course{}
	}

	if cat, ok := tree.Required.Category(categoryID); ok {
		if rule, ok := cat.Enumerated(); ok && rule.Courses != nil {
			return s.lookup(rule.Courses)
		}
	}

	if degree == model.DegreeMajor {
		if cat, ok := tree.Electives.Category(categoryID); ok {
			if rule, ok := cat.Bucket(); ok {
				return s.subjectCourses(rule.Subject, toSet(completedRequired))
			}
		}
	}

	if categoryID == s.policy.GeneralElectivesID {
		return s.Courses()
	}
	return []model.Course{}
}

// RequiredCategoryCourses returns every code listed by the required
// enumerated categories of a degree, in requirement order.
func (s *Snapshot) RequiredCategoryCourses(degree model.DegreeType) []string {
	tree := s.requirements.Degree(degree)
	if tree == nil {
		return []string{}
	}
	var codes []string
	seen := map[string]struct{}{}
	for _, cat := range tree.Required.Categories {
		rule, ok := cat.Enumerated()
		if !ok {
			continue
		}
		for _, code := range rule.Courses {
			if _, dup := seen[code]; dup {
				continue
			}
			seen[code] = struct{}{}
			codes = append(codes, code)
		}
	}
	if codes == nil {
		return []string{}
	}
	return codes
}

func (s *Snapshot) subjectCourses(subject model.SubjectCategory, exclude map[string]struct{}) []model.Course {
	out := []model.Course{}
	for _, c := range s.courses {
		if c.Category != subject {
			continue
		}
		if _, skip := exclude[c.Code]; skip {
			continue
		}
		out = append(out, c)
	}
	return out
}
