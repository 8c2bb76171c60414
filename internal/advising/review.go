package advising

import (
	"github.com/tcu-dcda/dcda-advisor/internal/model"
)

// Review runs the whole engine for the review step of the wizard.
func (s *Snapshot) Review(student model.StudentData) model.Review {
	st := student.Normalized()
	progress := s.ComputeProgress(student)
	needed := s.NeededCategories(st)
	plan, warnings := s.BuildSemesterPlan(st.ScheduledCourses, st.CourseCategories, needed, st.ExpectedGraduation, st.IncludeSummer)

	r := model.Review{
		CurrentTerm:     s.current.Label(),
		Progress:        progress,
		Needed:          needed,
		Plan:            plan,
		Warnings:        warnings,
		TakeCapstoneNow: s.ShouldTakeCapstoneNow(st.ExpectedGraduation),
		Advisories:      s.Advisories(append(append([]string{}, st.CompletedCourses...), st.ScheduledCourses...)),
	}
	if r.Warnings == nil {
		r.Warnings = []model.PlanWarning{}
	}
	if target, ok := s.CapstoneTarget(st.ExpectedGraduation); ok {
		r.CapstoneTarget = target.Label()
	}
	return r
}

// Advisories collects enrollment and mutual exclusion messages for a selection.
func (s *Snapshot) Advisories(selected []string) []model.CourseAdvisory {
	out := []model.CourseAdvisory{}
	for _, code := range selected {
		a := model.CourseAdvisory{Code: code}
		a.EnrollmentWarning, _ = s.EnrollmentWarning(code)
		if rule, ok := s.MutualExclusion(code, selected); ok {
			a.ExclusionMessage = rule.Message
		}
		if a.EnrollmentWarning != "" || a.ExclusionMessage != "" {
			out = append(out, a)
		}
	}
	return out
}
