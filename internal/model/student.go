package model

// SpecialCredit is transfer, AP or substitution credit counted toward a category.
type SpecialCredit struct {
	Type        string `json:"type" binding:"max=64"`
	Description string `json:"description" binding:"max=500"`
	CountsAs    string `json:"counts_as" binding:"max=64"`
}

// StudentData is the wizard state. It is never stored with the student's identity.
type StudentData struct {
	Name               string            `json:"name" binding:"max=255"`
	DegreeType         DegreeType        `json:"degree_type" binding:"omitempty,oneof=major minor"`
	ExpectedGraduation string            `json:"expected_graduation" binding:"max=32"`
	CompletedCourses   []string          `json:"completed_courses" binding:"max=100,dive,max=32"`
	ScheduledCourses   []string          `json:"scheduled_courses" binding:"max=100,dive,max=32"`
	CourseCategories   map[string]string `json:"course_categories,omitempty"`
	GeneralElectives   []string          `json:"general_electives,omitempty" binding:"max=100,dive,max=32"`
	SpecialCredits     []SpecialCredit   `json:"special_credits" binding:"max=20,dive"`
	IncludeSummer      bool              `json:"include_summer"`
	Notes              string            `json:"notes,omitempty" binding:"max=5000"`
	Email              string            `json:"email,omitempty" binding:"omitempty,email,max=255"`
}

// Normalized drops duplicate codes and removes scheduled courses that are
// also completed. Completed wins when both lists name the same course.
func (s StudentData) Normalized() StudentData {
	out := s
	out.CompletedCourses = uniqueCodes(s.CompletedCourses, nil)
	done := make(map[string]struct{}, len(out.CompletedCourses))
	for _, c := range out.CompletedCourses {
		done[c] = struct{}{}
	}
	out.ScheduledCourses = uniqueCodes(s.ScheduledCourses, done)
	out.GeneralElectives = uniqueCodes(s.GeneralElectives, nil)
	return out
}

func uniqueCodes(codes []string, skip map[string]struct{}) []string {
	out := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		if c == "" {
			continue
		}
		if _, ok := skip[c]; ok {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
