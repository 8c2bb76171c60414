package advising

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcu-dcda/dcda-advisor/internal/model"
)

func TestComputeProgressEmpty(t *testing.T) {
	s := newTestSnapshot()

	p := s.ComputeProgress(model.StudentData{})
	assert.Equal(t, model.DegreeMajor, p.DegreeType)
	assert.Equal(t, 0, p.CompletedHours)
	assert.Equal(t, 33, p.TotalHours)
	assert.Equal(t, 0, p.OverallPercent)
	require.Len(t, p.RequiredCategories, 5)
	for _, c := range p.RequiredCategories {
		assert.False(t, c.Satisfied, c.ID)
	}
	assert.Empty(t, p.CompletedRequired)
}

func TestComputeProgressCreditsEachCourseOnce(t *testing.T) {
	s := newTestSnapshot()

	p := s.ComputeProgress(model.StudentData{
		DegreeType:       model.DegreeMajor,
		CompletedCourses: []string{"ENGL 20833", "INSC 20153", "ENGL 30133", "WRIT 40163", "ENGL 40233"},
	})

	assert.Equal(t, 15, p.CompletedHours)
	assert.Equal(t, 45, p.OverallPercent)
	assert.Equal(t, []string{"ENGL 20833", "INSC 20153"}, p.CompletedRequired)

	intro := p.RequiredCategories[0]
	assert.Equal(t, "intro", intro.ID)
	assert.Equal(t, "Intro/Req'd English", intro.Name)
	assert.True(t, intro.Satisfied)

	dc := p.ElectiveCategories[0]
	assert.Equal(t, 6, dc.CompletedHours)
	assert.Equal(t, []string{"ENGL 30133", "WRIT 40163"}, dc.Courses, "intro course is not reused")

	assert.Equal(t, 3, p.GeneralElectives.CompletedHours)
	assert.Equal(t, []string{"ENGL 40233"}, p.GeneralElectives.Courses)
}

func TestComputeProgressBucketCountsScheduledAndCaps(t *testing.T) {
	s := newTestSnapshot()

	p := s.ComputeProgress(model.StudentData{
		CompletedCourses: []string{"WRIT 20833", "ENGL 30133"},
		ScheduledCourses: []string{"WRIT 40163", "ENGL 40233"},
	})

	dc := p.ElectiveCategories[0]
	assert.Equal(t, 6, dc.CompletedHours)
	assert.True(t, dc.Satisfied)
	assert.Equal(t, []string{"ENGL 30133", "WRIT 40163"}, dc.Courses)
}

func TestComputeProgressClampsPercent(t *testing.T) {
	reqs := testRequirements()
	reqs.Major.TotalHours = 6
	s := NewSnapshot(testCatalog(), reqs, testOfferings("Fall 2026"), DefaultPolicy())

	p := s.ComputeProgress(model.StudentData{
		CompletedCourses: []string{"ENGL 20833", "INSC 20153", "COSC 10403", "WRIT 20303"},
	})
	assert.Equal(t, 12, p.CompletedHours)
	assert.Equal(t, 100, p.OverallPercent)
}

func TestComputeProgressCompletedWins(t *testing.T) {
	s := newTestSnapshot()

	p := s.ComputeProgress(model.StudentData{
		CompletedCourses: []string{"ENGL 20833"},
		ScheduledCourses: []string{"ENGL 20833", "WRIT 20303"},
	})
	assert.Equal(t, []string{"ENGL 20833"}, p.IgnoredScheduled)
	assert.Equal(t, 3, p.CompletedHours)
	assert.False(t, p.RequiredCategories[3].Satisfied, "scheduled courses do not complete enumerated categories")
}

func TestComputeProgressSpecialCreditsAndUnknown(t *testing.T) {
	s := newTestSnapshot()

	p := s.ComputeProgress(model.StudentData{
		CompletedCourses: []string{"ZZZZ 10003"},
		SpecialCredits: []model.SpecialCredit{
			{Type: "AP", Description: "AP Statistics", CountsAs: "statistics"},
			{Type: "Transfer", Description: "Digital media", CountsAs: "dcElective"},
		},
	})

	assert.True(t, p.RequiredCategories[1].Satisfied)
	assert.Empty(t, p.RequiredCategories[1].Courses)
	assert.Equal(t, 3, p.ElectiveCategories[0].CompletedHours)
	assert.Equal(t, 0, p.GeneralElectives.CompletedHours, "unknown codes earn nothing")
	assert.Equal(t, []string{"ZZZZ 10003"}, p.UnknownCourses)
	assert.Equal(t, 6, p.CompletedHours)
}

func TestComputeProgressMinor(t *testing.T) {
	s := newTestSnapshot()

	p := s.ComputeProgress(model.StudentData{
		DegreeType:       model.DegreeMinor,
		CompletedCourses: []string{"WRIT 20833", "MATH 10043", "ENGL 30133"},
	})
	assert.Equal(t, 18, p.TotalHours)
	assert.Empty(t, p.ElectiveCategories)
	assert.Equal(t, 9, p.CompletedHours)
	assert.Equal(t, 50, p.OverallPercent)
	assert.Equal(t, 12, p.GeneralElectives.Hours)
}

func TestNeededCategories(t *testing.T) {
	s := newTestSnapshot()

	needed := s.NeededCategories(model.StudentData{})
	total := 0
	for _, n := range needed {
		total += n.Remaining
	}
	assert.Equal(t, 11, total)
	assert.Equal(t, model.NeededCategory{Category: "dcElective", Name: "Digital Culture Elective", Remaining: 2}, needed[5])

	needed = s.NeededCategories(model.StudentData{
		CompletedCourses: []string{"ENGL 20833", "INSC 20153", "ENGL 30133", "WRIT 40163", "ENGL 40233"},
		ScheduledCourses: []string{"COSC 10403", "INSC 30833"},
	})
	assert.Equal(t, []model.NeededCategory{
		{Category: "mmAuthoring", Name: "Multimedia Authoring", Remaining: 1},
		{Category: "capstone", Name: "Capstone", Remaining: 1},
		{Category: "daElective", Name: "Data Analytics Elective", Remaining: 1},
		{Category: "generalElectives", Name: "General Electives", Remaining: 1},
	}, needed)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(5, 0))
	assert.Equal(t, 100, Percent(40, 33))
	assert.Equal(t, 9, Percent(3, 33))
	assert.Equal(t, 0, Percent(-3, 33))
}
