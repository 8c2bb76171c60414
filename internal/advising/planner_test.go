package advising

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcu-dcda/dcda-advisor/internal/model"
	"github.com/tcu-dcda/dcda-advisor/internal/term"
)

func TestSemestersUntilGraduation(t *testing.T) {
	s := newTestSnapshot()

	tests := []struct {
		name          string
		graduation    string
		includeSummer bool
		want          []string
	}{
		{"default run", "", false, []string{"Fall 2026", "Spring 2027", "Fall 2027", "Spring 2028"}},
		{"default run with summer", "", true, []string{"Fall 2026", "Spring 2027", "Summer 2027", "Fall 2027", "Spring 2028", "Summer 2028"}},
		{"through graduation", "Spring 2028", false, []string{"Fall 2026", "Spring 2027", "Fall 2027", "Spring 2028"}},
		{"summer graduation is kept", "Summer 2027", false, []string{"Fall 2026", "Spring 2027", "Summer 2027"}},
		{"graduating now", "Fall 2026", false, []string{"Fall 2026"}},
		{"unparseable falls back", "someday", true, []string{"Fall 2026", "Spring 2027", "Summer 2027", "Fall 2027"}},
		{"past graduation", "Spring 2025", false, []string{"Fall 2026"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.SemestersUntilGraduation(tt.graduation, tt.includeSummer)
			assert.Equal(t, tt.want, term.Labels(got))
		})
	}
}

func TestSemestersUntilGraduationIsCapped(t *testing.T) {
	s := newTestSnapshot()

	got := s.SemestersUntilGraduation("Fall 2045", true)
	assert.Len(t, got, 15)
	assert.Equal(t, "Fall 2026", got[0].Label())
}

func TestCapstoneTarget(t *testing.T) {
	s := newTestSnapshot()

	target, ok := s.CapstoneTarget("Fall 2027")
	require.True(t, ok)
	assert.Equal(t, "Spring 2027", target.Label())

	target, ok = s.CapstoneTarget("Spring 2028")
	require.True(t, ok)
	assert.Equal(t, "Spring 2028", target.Label())

	_, ok = s.CapstoneTarget("")
	assert.False(t, ok)

	assert.False(t, s.ShouldTakeCapstoneNow("Spring 2027"))
	spring := NewSnapshot(testCatalog(), testRequirements(), testOfferings("Spring 2027"), DefaultPolicy())
	assert.True(t, spring.ShouldTakeCapstoneNow("Spring 2027"))
	assert.True(t, spring.ShouldTakeCapstoneNow("Fall 2027"))
}

func countEntries(plan []model.SemesterPlan) int {
	n := 0
	for _, sem := range plan {
		n += len(sem.Courses)
	}
	return n
}

func semester(t *testing.T, plan []model.SemesterPlan, label string) model.SemesterPlan {
	t.Helper()
	for _, sem := range plan {
		if sem.Semester == label {
			return sem
		}
	}
	require.Failf(t, "semester missing", "%s not in plan", label)
	return model.SemesterPlan{}
}

func TestBuildSemesterPlanPinsCapstone(t *testing.T) {
	s := newTestSnapshot()
	needed := []model.NeededCategory{
		{Category: "capstone", Name: "Capstone", Remaining: 1},
		{Category: "dcElective", Name: "Digital Culture Elective", Remaining: 2},
	}

	plan, warnings := s.BuildSemesterPlan(nil, nil, needed, "Spring 2027", false)
	assert.Empty(t, warnings)
	require.Len(t, plan, 2)

	spring := semester(t, plan, "Spring 2027")
	assert.Equal(t, model.PlannedCourse{Code: model.PlaceholderCode, Category: "Capstone"}, spring.Courses[0])
	assert.Len(t, spring.Courses, 2)
	assert.Len(t, semester(t, plan, "Fall 2026").Courses, 1)
}

func TestBuildSemesterPlanCapstoneFallsBackToPool(t *testing.T) {
	s := newTestSnapshot()
	needed := []model.NeededCategory{{Category: "capstone", Name: "Capstone", Remaining: 1}}

	plan, warnings := s.BuildSemesterPlan(nil, nil, needed, "Fall 2026", false)
	require.Len(t, warnings, 1)
	assert.Equal(t, model.WarnCapstoneUnplaced, warnings[0].Code)
	require.Len(t, plan, 1)
	assert.Equal(t, "Capstone", plan[0].Courses[0].Category)
}

func TestBuildSemesterPlanCapstoneWithoutGraduation(t *testing.T) {
	s := newTestSnapshot()
	needed := []model.NeededCategory{
		{Category: "capstone", Name: "Capstone", Remaining: 1},
		{Category: "dcElective", Name: "Digital Culture Elective", Remaining: 1},
	}

	for _, grad := range []string{"", "   "} {
		plan, warnings := s.BuildSemesterPlan(nil, nil, needed, grad, false)
		assert.Empty(t, warnings, "grad=%q", grad)
		assert.Equal(t, 2, countEntries(plan))
	}

	_, warnings := s.BuildSemesterPlan(nil, nil, needed, "nonsense", false)
	require.Len(t, warnings, 1)
	assert.Equal(t, model.WarnInvalidGraduation, warnings[0].Code)
}

func TestBuildSemesterPlanSingleCapstoneTermTakesEverything(t *testing.T) {
	s := NewSnapshot(testCatalog(), testRequirements(), testOfferings("Spring 2027"), DefaultPolicy())
	needed := []model.NeededCategory{
		{Category: "capstone", Name: "Capstone", Remaining: 1},
		{Category: "generalElectives", Name: "General Electives", Remaining: 3},
	}

	plan, warnings := s.BuildSemesterPlan(nil, nil, needed, "Spring 2027", false)
	assert.Empty(t, warnings)
	require.Len(t, plan, 1)
	assert.Equal(t, "Spring 2027", plan[0].Semester)
	assert.Len(t, plan[0].Courses, 4, "the cap gives way when there is no other term")
	assert.Equal(t, "Capstone", plan[0].Courses[0].Category)
}

func TestBuildSemesterPlanCapsCapstoneTerm(t *testing.T) {
	s := newTestSnapshot()
	needed := []model.NeededCategory{
		{Category: "capstone", Name: "Capstone", Remaining: 1},
		{Category: "generalElectives", Name: "General Electives", Remaining: 9},
	}

	plan, _ := s.BuildSemesterPlan(nil, nil, needed, "Fall 2027", false)
	require.Len(t, plan, 3)
	assert.Len(t, semester(t, plan, "Fall 2026").Courses, 4)
	assert.Len(t, semester(t, plan, "Spring 2027").Courses, 3, "capstone plus at most two others")
	assert.Len(t, semester(t, plan, "Fall 2027").Courses, 3)
	assert.Equal(t, 10, countEntries(plan))
}

func TestBuildSemesterPlanScheduledFirst(t *testing.T) {
	s := newTestSnapshot()
	scheduled := []string{"ENGL 20833", "INSC 30833"}
	categories := map[string]string{"ENGL 20833": "Intro/Req'd English"}
	needed := []model.NeededCategory{{Category: "daElective", Name: "Data Analytics Elective", Remaining: 3}}

	plan, _ := s.BuildSemesterPlan(scheduled, categories, needed, "", false)
	require.Len(t, plan, 4)
	assert.Equal(t, []model.PlannedCourse{
		{Code: "ENGL 20833", Category: "Intro/Req'd English"},
		{Code: "INSC 30833", Category: "Elective"},
	}, plan[0].Courses)
	for _, sem := range plan[1:] {
		assert.Len(t, sem.Courses, 1, sem.Semester)
	}
}

func TestBuildSemesterPlanPrunesEmptyTerms(t *testing.T) {
	s := newTestSnapshot()

	plan, _ := s.BuildSemesterPlan(nil, nil, nil, "Spring 2028", false)
	require.Len(t, plan, 1)
	assert.Equal(t, "Fall 2026", plan[0].Semester)
	assert.Empty(t, plan[0].Courses)

	plan, _ = s.BuildSemesterPlan([]string{"ENGL 20833"}, nil, nil, "Spring 2028", false)
	require.Len(t, plan, 1)
	assert.Len(t, plan[0].Courses, 1)
}

func TestBuildSemesterPlanSingleScheduledTerm(t *testing.T) {
	s := newTestSnapshot()
	needed := []model.NeededCategory{{Category: "dcElective", Name: "Digital Culture Elective", Remaining: 2}}

	plan, _ := s.BuildSemesterPlan([]string{"ENGL 20833"}, nil, needed, "Fall 2026", false)
	require.Len(t, plan, 1)
	assert.Len(t, plan[0].Courses, 3)
}

func TestBuildSemesterPlanCoverage(t *testing.T) {
	s := newTestSnapshot()
	neededSets := [][]model.NeededCategory{
		nil,
		{{Category: "capstone", Name: "Capstone", Remaining: 1}},
		{
			{Category: "coding", Name: "Coding", Remaining: 1},
			{Category: "capstone", Name: "Capstone", Remaining: 1},
			{Category: "dcElective", Name: "Digital Culture Elective", Remaining: 2},
			{Category: "generalElectives", Name: "General Electives", Remaining: 6},
		},
	}
	scheduledSets := [][]string{nil, {"ENGL 20833"}, {"ENGL 20833", "INSC 20153", "COSC 10403"}}
	graduations := []string{"", "Fall 2026", "Spring 2027", "Summer 2027", "Fall 2028", "nonsense", "Spring 2020"}

	for _, needed := range neededSets {
		want := 0
		for _, n := range needed {
			want += n.Remaining
		}
		for _, scheduled := range scheduledSets {
			for _, grad := range graduations {
				for _, summer := range []bool{false, true} {
					plan, _ := s.BuildSemesterPlan(scheduled, nil, needed, grad, summer)
					assert.Equal(t, want+len(scheduled), countEntries(plan), "grad=%q summer=%v scheduled=%v", grad, summer, scheduled)
					again, _ := s.BuildSemesterPlan(scheduled, nil, needed, grad, summer)
					assert.Equal(t, plan, again)
				}
			}
		}
	}
}

func TestReview(t *testing.T) {
	s := newTestSnapshot()

	r := s.Review(model.StudentData{
		ExpectedGraduation: "Spring 2028",
		CompletedCourses:   []string{"ENGL 20833", "INSC 20153", "MATH 10043"},
		ScheduledCourses:   []string{"COSC 10403"},
		CourseCategories:   map[string]string{"COSC 10403": "Coding"},
	})

	assert.Equal(t, "Fall 2026", r.CurrentTerm)
	assert.Equal(t, "Spring 2028", r.CapstoneTarget)
	assert.False(t, r.TakeCapstoneNow)
	assert.Empty(t, r.Warnings)
	require.NotEmpty(t, r.Plan)
	assert.Equal(t, model.PlannedCourse{Code: "COSC 10403", Category: "Coding"}, r.Plan[0].Courses[0])

	last := r.Plan[len(r.Plan)-1]
	assert.Equal(t, "Spring 2028", last.Semester)
	assert.Equal(t, "Capstone", last.Courses[0].Category)

	advised := map[string]model.CourseAdvisory{}
	for _, a := range r.Advisories {
		advised[a.Code] = a
	}
	assert.NotEmpty(t, advised["INSC 20153"].ExclusionMessage)
	assert.NotEmpty(t, advised["MATH 10043"].ExclusionMessage)
	assert.NotEmpty(t, advised["COSC 10403"].EnrollmentWarning)
}
