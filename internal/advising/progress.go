package advising

import (
	"math"
	"slices"

	"github.com/tcu-dcda/dcda-advisor/internal/model"
)

// crediting accumulates which courses have already been counted, so no
// course satisfies two categories.
type crediting struct {
	snap      *Snapshot
	completed []string
	scheduled []string
	used      map[string]struct{}
	order     []string
	special   map[string]int
}

func (s *Snapshot) newCrediting(st model.StudentData, countScheduled bool) *crediting {
	cr := &crediting{
		snap:      s,
		completed: st.CompletedCourses,
		used:      map[string]struct{}{},
		special:   map[string]int{},
	}
	if countScheduled {
		cr.completed = append(append([]string{}, st.CompletedCourses...), st.ScheduledCourses...)
	} else {
		cr.scheduled = st.ScheduledCourses
	}
	for _, sc := range st.SpecialCredits {
		if sc.CountsAs != "" {
			cr.special[sc.CountsAs]++
		}
	}
	return cr
}

func (cr *crediting) take(code string) {
	cr.used[code] = struct{}{}
	cr.order = append(cr.order, code)
}

func (cr *crediting) free(code string) bool {
	_, ok := cr.used[code]
	return !ok
}

// category credits one requirement category.
//
// An enumerated category counts completed courses from its list. With
// selectOne, any one course fills all of its hours; otherwise each listed
// course is worth an equal share. A bucket counts completed and then
// scheduled courses of its subject by their credit hours. Special credits
// naming the category count as one course each.
func (cr *crediting) category(cat model.RequirementCategory) model.CategoryStatus {
	status := model.CategoryStatus{
		ID:      cat.ID,
		Name:    cr.snap.policy.CategoryName(cat.ID, cat.Name),
		Hours:   cat.Hours,
		Courses: []string{},
	}
	extra := cr.special[cat.ID]

	switch rule := cat.Rule.(type) {
	case model.Enumerated:
		var matched []string
		for _, code := range cr.completed {
			if cr.free(code) && slices.Contains(rule.Courses, code) {
				matched = append(matched, code)
			}
		}
		if rule.SelectOne {
			if len(matched) > 0 || extra > 0 {
				status.CompletedHours = cat.Hours
			}
			if len(matched) > 0 {
				matched = matched[:1]
			}
		} else if n := len(rule.Courses); n > 0 {
			units := min(len(matched)+extra, n)
			status.CompletedHours = cat.Hours * units / n
		}
		for _, code := range matched {
			cr.take(code)
			status.Courses = append(status.Courses, code)
		}

	case model.Bucket:
		hours := extra * cr.snap.policy.HoursPerSlot
		for _, code := range append(append([]string{}, cr.completed...), cr.scheduled...) {
			if hours >= cat.Hours {
				break
			}
			c, ok := cr.snap.Course(code)
			if !ok || c.Category != rule.Subject || !cr.free(code) {
				continue
			}
			cr.take(code)
			status.Courses = append(status.Courses, code)
			hours += c.CreditHours()
		}
		status.CompletedHours = min(hours, cat.Hours)
	}

	status.Satisfied = status.CompletedHours >= cat.Hours
	return status
}

// generalElectives credits the free electives from courses not used by any
// other category. Courses the student tagged as general electives go first;
// codes missing from the catalog earn nothing.
func (cr *crediting) generalElectives(ge model.GeneralElectives, tagged []string) model.CategoryStatus {
	id := cr.snap.policy.GeneralElectivesID
	target := ge.Count * cr.snap.policy.HoursPerSlot
	status := model.CategoryStatus{
		ID:      id,
		Name:    cr.snap.policy.CategoryName(id, ge.Name),
		Hours:   target,
		Courses: []string{},
	}

	hours := cr.special[id] * cr.snap.policy.HoursPerSlot
	done := toSet(cr.completed)
	var candidates []string
	for _, code := range tagged {
		if _, ok := done[code]; ok {
			candidates = append(candidates, code)
		}
	}
	candidates = append(candidates, cr.completed...)

	for _, code := range candidates {
		if hours >= target {
			break
		}
		c, ok := cr.snap.Course(code)
		if !ok || !cr.free(code) {
			continue
		}
		cr.take(code)
		status.Courses = append(status.Courses, code)
		hours += c.CreditHours()
	}
	status.CompletedHours = min(hours, target)
	status.Satisfied = status.CompletedHours >= target
	return status
}

// ComputeProgress evaluates a student's completed work against the
// requirement tree of their degree type.
func (s *Snapshot) ComputeProgress(student model.StudentData) model.Progress {
	ignored := overlap(student.ScheduledCourses, student.CompletedCourses)
	st := student.Normalized()
	degree := st.DegreeType.OrDefault()

	p := model.Progress{
		DegreeType:         degree,
		RequiredCategories: []model.CategoryStatus{},
		ElectiveCategories: []model.CategoryStatus{},
		CompletedRequired:  []string{},
		IgnoredScheduled:   ignored,
	}
	for _, code := range append(append([]string{}, st.CompletedCourses...), st.ScheduledCourses...) {
		if _, ok := s.Course(code); !ok {
			p.UnknownCourses = append(p.UnknownCourses, code)
		}
	}

	tree := s.requirements.Degree(degree)
	if tree == nil {
		return p
	}
	p.TotalHours = tree.TotalHours

	cr := s.newCrediting(st, false)
	for _, cat := range tree.Required.Categories {
		status := cr.category(cat)
		p.CompletedHours += status.CompletedHours
		p.RequiredCategories = append(p.RequiredCategories, status)
	}
	p.CompletedRequired = append(p.CompletedRequired, cr.order...)

	if tree.Electives != nil {
		for _, cat := range tree.Electives.Categories {
			status := cr.category(cat)
			p.CompletedHours += status.CompletedHours
			p.ElectiveCategories = append(p.ElectiveCategories, status)
		}
	}

	p.GeneralElectives = cr.generalElectives(tree.GeneralElectives, st.GeneralElectives)
	p.CompletedHours += p.GeneralElectives.CompletedHours
	p.OverallPercent = Percent(p.CompletedHours, p.TotalHours)
	return p
}

// NeededCategories lists the category slots that remain once completed and
// scheduled courses are both counted. Each slot stands for HoursPerSlot
// credit hours.
func (s *Snapshot) NeededCategories(student model.StudentData) []model.NeededCategory {
	st := student.Normalized()
	tree := s.requirements.Degree(st.DegreeType.OrDefault())
	out := []model.NeededCategory{}
	if tree == nil {
		return out
	}

	cr := s.newCrediting(st, true)
	add := func(status model.CategoryStatus) {
		remaining := status.Hours - status.CompletedHours
		if remaining <= 0 {
			return
		}
		out = append(out, model.NeededCategory{
			Category:  status.ID,
			Name:      status.Name,
			Remaining: ceilDiv(remaining, s.policy.HoursPerSlot),
		})
	}

	for _, cat := range tree.Required.Categories {
		add(cr.category(cat))
	}
	if tree.Electives != nil {
		for _, cat := range tree.Electives.Categories {
			add(cr.category(cat))
		}
	}
	add(cr.generalElectives(tree.GeneralElectives, st.GeneralElectives))
	return out
}

// Percent is completed/total as a rounded percentage clamped to 0..100.
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(completed) * 100 / float64(total)))
	return max(0, min(100, pct))
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func overlap(a, b []string) []string {
	in := toSet(b)
	var out []string
	seen := map[string]struct{}{}
	for _, code := range a {
		if _, ok := in[code]; !ok {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}
