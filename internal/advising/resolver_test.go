package advising

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcu-dcda/dcda-advisor/internal/model"
	"github.com/tcu-dcda/dcda-advisor/internal/term"
)

func TestNewSnapshotDedupesCatalog(t *testing.T) {
	s := newTestSnapshot()

	c, ok := s.Course("ENGL 20833")
	require.True(t, ok)
	assert.Equal(t, "Intro to Digital Culture", c.Title)
	assert.Len(t, s.Courses(), len(testCatalog())-1)
	assert.Equal(t, term.New(term.Fall, 2026), s.CurrentTerm())
}

func TestNewSnapshotFallsBackToDefaultTerm(t *testing.T) {
	s := NewSnapshot(testCatalog(), testRequirements(), testOfferings("not a term"), DefaultPolicy())
	assert.Equal(t, "Fall 2026", s.CurrentTerm().Label())
}

func TestResolveRequiredCategory(t *testing.T) {
	s := newTestSnapshot()

	got := s.ResolveCategory("intro", model.DegreeMajor, nil)
	assert.Equal(t, []string{"ENGL 20833", "WRIT 20833"}, codes(got), "unknown codes are dropped")

	got = s.ResolveCategory("statistics", "", nil)
	assert.Equal(t, []string{"INSC 20153", "MATH 10043"}, codes(got), "empty degree type means major")
}

func TestResolveElectiveBucket(t *testing.T) {
	s := newTestSnapshot()

	got := s.ResolveCategory("dcElective", model.DegreeMajor, []string{"ENGL 20833"})
	assert.Equal(t, []string{"WRIT 20833", "ENGL 30133", "WRIT 40163", "ENGL 40233"}, codes(got))

	assert.Empty(t, s.ResolveCategory("dcElective", model.DegreeMinor, nil), "minor has no elective buckets")
}

func TestResolveGeneralElectivesAndUnknown(t *testing.T) {
	s := newTestSnapshot()

	assert.Len(t, s.ResolveCategory("generalElectives", model.DegreeMinor, nil), len(s.Courses()))

	got := s.ResolveCategory("nope", model.DegreeMajor, nil)
	require.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, s.ResolveCategory("intro", "bachelor", nil))
}

func TestResolveDoesNotMutateSnapshot(t *testing.T) {
	s := newTestSnapshot()
	before := s.Requirements()
	beforeCourses := s.Courses()

	first := s.ResolveCategory("generalElectives", model.DegreeMajor, nil)
	first[0].Title = "changed"
	second := s.ResolveCategory("generalElectives", model.DegreeMajor, nil)

	assert.Equal(t, beforeCourses, second)
	assert.Equal(t, before, s.Requirements())
}

func TestRequiredCategoryCourses(t *testing.T) {
	s := newTestSnapshot()
	assert.Equal(t, []string{"ENGL 20833", "WRIT 20833", "INSC 20153", "MATH 10043"}, s.RequiredCategoryCourses(model.DegreeMinor))
}

func TestHolderReplaceOfferings(t *testing.T) {
	h := NewHolder(nil)
	assert.Nil(t, h.Load())
	assert.False(t, h.ReplaceOfferings(testOfferings("Spring 2027")))

	h.Store(newTestSnapshot())
	before := h.Load()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				snap := h.Load()
				if !assert.NotNil(t, snap) {
					return
				}
				assert.Len(t, snap.Courses(), len(before.Courses()))
			}
		}()
	}
	assert.True(t, h.ReplaceOfferings(testOfferings("Spring 2027")))
	wg.Wait()

	assert.Equal(t, "Spring 2027", h.Load().CurrentTerm().Label())
	assert.Equal(t, "Fall 2026", before.CurrentTerm().Label(), "old snapshot is untouched")
}
