// Package advising evaluates degree requirements and projects semester plans.
//
// All evaluation runs against a Snapshot: an immutable view of the catalog,
// the requirements and one term's offerings. Snapshots are swapped whole
// through a Holder, so a reader never sees a half-applied update. None of the
// evaluation methods return errors; unknown codes, ids and malformed terms
// degrade to empty or shortened results.
package advising

import (
	"sync/atomic"

	"github.com/tcu-dcda/dcda-advisor/internal/model"
	"github.com/tcu-dcda/dcda-advisor/internal/term"
)

// Snapshot is one consistent view of catalog, requirements and offerings.
// It must not be modified after NewSnapshot returns.
type Snapshot struct {
	policy         Policy
	capstoneSeason term.Season

	courses []model.Course
	byCode  map[string]int

	requirements model.Requirements

	offerings model.CourseOfferings
	offered   map[string]struct{}
	current   term.Term
}

// NewSnapshot indexes the loaded documents. Courses are deduplicated by code,
// keeping the first occurrence.
func NewSnapshot(courses []model.Course, requirements model.Requirements, offerings model.CourseOfferings, policy Policy) *Snapshot {
	policy = policy.WithDefaults()
	season, _ := term.ParseSeason(policy.CapstoneSeason)

	s := &Snapshot{
		policy:         policy,
		capstoneSeason: season,
		courses:        make([]model.Course, 0, len(courses)),
		byCode:         make(map[string]int, len(courses)),
		requirements:   requirements,
	}
	for _, c := range courses {
		if _, dup := s.byCode[c.Code]; dup {
			continue
		}
		s.byCode[c.Code] = len(s.courses)
		s.courses = append(s.courses, c)
	}
	s.setOfferings(offerings)
	return s
}

// WithOfferings returns a snapshot that shares the catalog and requirements
// of s but reads the given offerings.
func (s *Snapshot) WithOfferings(offerings model.CourseOfferings) *Snapshot {
	next := &Snapshot{
		policy:         s.policy,
		capstoneSeason: s.capstoneSeason,
		courses:        s.courses,
		byCode:         s.byCode,
		requirements:   s.requirements,
	}
	next.setOfferings(offerings)
	return next
}

func (s *Snapshot) setOfferings(o model.CourseOfferings) {
	s.offerings = o
	s.offered = make(map[string]struct{}, len(o.OfferedCodes))
	for _, code := range o.OfferedCodes {
		s.offered[code] = struct{}{}
	}
	if t, err := term.ParseLabel(o.Term); err == nil {
		s.current = t
		return
	}
	s.current, _ = term.ParseLabel(s.policy.DefaultStartTerm)
}

// Policy returns the rules the snapshot was built with.
func (s *Snapshot) Policy() Policy { return s.policy }

// Requirements returns the requirements document. Treat it as read-only.
func (s *Snapshot) Requirements() model.Requirements { return s.requirements }

// Offerings returns the offerings of the current term. Treat it as read-only.
func (s *Snapshot) Offerings() model.CourseOfferings { return s.offerings }

// CurrentTerm is the next term for which course data exists.
func (s *Snapshot) CurrentTerm() term.Term { return s.current }

// Courses returns a copy of the deduplicated catalog.
func (s *Snapshot) Courses() []model.Course {
	out := make([]model.Course, len(s.courses))
	copy(out, s.courses)
	return out
}

// Course looks a course up by code.
func (s *Snapshot) Course(code string) (model.Course, bool) {
	i, ok := s.byCode[code]
	if !ok {
		return model.Course{}, false
	}
	return s.courses[i], true
}

// UnselectedCourses returns the catalog minus the selected codes.
func (s *Snapshot) UnselectedCourses(selected []string) []model.Course {
	skip := toSet(selected)
	out := make([]model.Course, 0, len(s.courses))
	for _, c := range s.courses {
		if _, ok := skip[c.Code]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// IsOffered reports whether code is offered in the current term.
func (s *Snapshot) IsOffered(code string) bool {
	_, ok := s.offered[code]
	return ok
}

// Sections returns the current term's sections of a course.
func (s *Snapshot) Sections(code string) []model.CourseSection {
	out := []model.CourseSection{}
	for _, sec := range s.offerings.Sections {
		if sec.Code == code {
			out = append(out, sec)
		}
	}
	return out
}

func (s *Snapshot) lookup(codes []string) []model.Course {
	out := make([]model.Course, 0, len(codes))
	for _, code := range codes {
		if c, ok := s.Course(code); ok {
			out = append(out, c)
		}
	}
	return out
}

func toSet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

// Holder owns the live snapshot. Load never blocks and never observes a
// partially replaced snapshot.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder returns a holder, optionally seeded with an initial snapshot.
func NewHolder(initial *Snapshot) *Holder {
	h := &Holder{}
	if initial != nil {
		h.current.Store(initial)
	}
	return h
}

// Load returns the current snapshot, or nil if none has been stored yet.
func (h *Holder) Load() *Snapshot {
	return h.current.Load()
}

// Store replaces the snapshot.
func (h *Holder) Store(s *Snapshot) {
	h.current.Store(s)
}

// ReplaceOfferings swaps in new offerings on top of the current catalog and
// requirements. It reports false when no snapshot is loaded yet.
func (h *Holder) ReplaceOfferings(offerings model.CourseOfferings) bool {
	for {
		old := h.current.Load()
		if old == nil {
			return false
		}
		if h.current.CompareAndSwap(old, old.WithOfferings(offerings)) {
			return true
		}
	}
}
