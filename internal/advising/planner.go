package advising

import (
	"fmt"
	"strings"

	"github.com/tcu-dcda/dcda-advisor/internal/model"
	"github.com/tcu-dcda/dcda-advisor/internal/term"
)

// SemestersUntilGraduation lists the terms from the current term through the
// expected graduation term.
func (s *Snapshot) SemestersUntilGraduation(expectedGraduation string, includeSummer bool) []term.Term {
	terms, _ := s.termSequence(expectedGraduation, includeSummer)
	return terms
}

// termSequence walks forward from the current term. Summer terms are skipped
// unless includeSummer is set, except that the graduation term itself is
// always included.
func (s *Snapshot) termSequence(expectedGraduation string, includeSummer bool) ([]term.Term, []model.PlanWarning) {
	start := s.current

	if strings.TrimSpace(expectedGraduation) == "" {
		n := s.policy.DefaultTerms
		if includeSummer {
			n = s.policy.DefaultTermsSummer
		}
		return s.walk(start, n, includeSummer), nil
	}

	grad, err := term.ParseLabel(expectedGraduation)
	if err != nil {
		return s.walk(start, s.policy.DefaultTerms, includeSummer), []model.PlanWarning{{
			Code:    model.WarnInvalidGraduation,
			Message: fmt.Sprintf("Expected graduation %q is not a term like \"Spring 2028\"; showing the next %d terms.", expectedGraduation, s.policy.DefaultTerms),
		}}
	}
	if grad.Before(start) {
		return []term.Term{start}, []model.PlanWarning{{
			Code:    model.WarnGraduationPassed,
			Message: fmt.Sprintf("Expected graduation %s is before %s.", grad, start),
		}}
	}

	out := []term.Term{}
	for t := start; len(out) < s.policy.MaxPlanTerms; t = t.Next() {
		if t.Season != term.Summer || includeSummer || t == grad {
			out = append(out, t)
		}
		if !t.Before(grad) {
			break
		}
	}
	return out, nil
}

// walk returns n terms from start, skipping summers unless includeSummer.
func (s *Snapshot) walk(start term.Term, n int, includeSummer bool) []term.Term {
	n = min(n, s.policy.MaxPlanTerms)
	out := make([]term.Term, 0, n)
	for t := start; len(out) < n; t = t.Next() {
		if t.Season == term.Summer && !includeSummer {
			continue
		}
		out = append(out, t)
	}
	return out
}

// CapstoneTarget is the last capstone-season term not after graduation.
// It reports false when the graduation label does not parse.
func (s *Snapshot) CapstoneTarget(expectedGraduation string) (term.Term, bool) {
	grad, err := term.ParseLabel(expectedGraduation)
	if err != nil {
		return term.Term{}, false
	}
	target := term.New(s.capstoneSeason, grad.Year)
	if target.After(grad) {
		target = term.New(s.capstoneSeason, grad.Year-1)
	}
	return target, true
}

// ShouldTakeCapstoneNow reports whether the capstone target is the current term.
func (s *Snapshot) ShouldTakeCapstoneNow(expectedGraduation string) bool {
	target, ok := s.CapstoneTarget(expectedGraduation)
	return ok && target == s.current
}

// BuildSemesterPlan projects scheduled courses and the remaining category
// slots onto the terms until graduation.
//
// Scheduled courses fill the first term. The capstone slot is pinned to its
// target term when that term is in the sequence. The other slots spread
// evenly over the remaining terms, with the capstone term holding at most
// CapstoneTermMaxSlots of them unless it is the only term. Empty terms are
// dropped, except the first when nothing was scheduled.
func (s *Snapshot) BuildSemesterPlan(scheduled []string, scheduledCategories map[string]string, needed []model.NeededCategory, expectedGraduation string, includeSummer bool) ([]model.SemesterPlan, []model.PlanWarning) {
	terms, warnings := s.termSequence(expectedGraduation, includeSummer)
	plan := make([]model.SemesterPlan, len(terms))
	for i, t := range terms {
		plan[i] = model.SemesterPlan{Semester: t.Label(), Courses: []model.PlannedCourse{}}
	}
	if len(plan) == 0 {
		return plan, warnings
	}

	for _, code := range scheduled {
		category := scheduledCategories[code]
		if category == "" {
			category = s.policy.FallbackCategory
		}
		plan[0].Courses = append(plan[0].Courses, model.PlannedCourse{Code: code, Category: category})
	}

	var slots []model.NeededCategory
	for _, n := range needed {
		for range n.Remaining {
			slots = append(slots, n)
		}
	}

	capIdx := -1
	target, hasTarget := s.CapstoneTarget(expectedGraduation)
	if hasTarget {
		for i, t := range terms {
			if t == target {
				capIdx = i
				break
			}
		}
	}
	for i, slot := range slots {
		if slot.Category != s.policy.CapstoneCategoryID {
			continue
		}
		if capIdx < 0 {
			// Without a graduation term there is nothing to pin to.
			if hasTarget {
				warnings = append(warnings, model.PlanWarning{
					Code:    model.WarnCapstoneUnplaced,
					Message: "No " + s.capstoneSeason.String() + " term before graduation is in the plan; the capstone was scheduled with the other requirements.",
				})
			}
			break
		}
		plan[capIdx].Courses = append(plan[capIdx].Courses, model.PlannedCourse{Code: model.PlaceholderCode, Category: slot.Name})
		slots = append(slots[:i:i], slots[i+1:]...)
		break
	}

	startIdx := 0
	if len(plan[0].Courses) > 0 {
		startIdx = 1
	}
	place := func(i int, slot model.NeededCategory) {
		plan[i].Courses = append(plan[i].Courses, model.PlannedCourse{Code: model.PlaceholderCode, Category: slot.Name})
	}

	available := len(plan) - startIdx
	next := 0
	if available <= 0 {
		// Only one term exists. Every slot lands there even when it is the
		// capstone term: CapstoneTermMaxSlots yields to placing all slots.
		for ; next < len(slots); next++ {
			place(len(plan)-1, slots[next])
		}
	} else if len(slots) > 0 {
		perTerm := ceilDiv(len(slots), available)
		for i := startIdx; i < len(plan) && next < len(slots); i++ {
			limit := perTerm
			if i == capIdx {
				limit = min(limit, s.policy.CapstoneTermMaxSlots)
			}
			for k := 0; k < limit && next < len(slots); k++ {
				place(i, slots[next])
				next++
			}
		}
		for next < len(slots) {
			placed := false
			for i := startIdx; i < len(plan) && next < len(slots); i++ {
				if i == capIdx {
					continue
				}
				place(i, slots[next])
				next++
				placed = true
			}
			if !placed {
				for ; next < len(slots); next++ {
					place(capIdx, slots[next])
				}
			}
		}
	}

	out := make([]model.SemesterPlan, 0, len(plan))
	for i, sem := range plan {
		if len(sem.Courses) > 0 || (i == 0 && len(scheduled) == 0) {
			out = append(out, sem)
		}
	}
	return out, warnings
}
