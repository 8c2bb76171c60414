package service

import (
	"errors"
	"slices"
	"time"

	"github.com/tcu-dcda/dcda-advisor/internal/model"
	"github.com/tcu-dcda/dcda-advisor/internal/term"
)

// Advising errors.
var (
	ErrUnknownCourse = errors.New("unknown course")
)

// graduationOptionCount is how many Spring/Fall terms the wizard offers.
const graduationOptionCount = 8

// AdvisingService runs the engine against the live snapshot for the wizard.
type AdvisingService struct {
	catalog *CatalogService
	now     func() time.Time
}

// NewAdvisingService creates a new AdvisingService.
func NewAdvisingService(catalog *CatalogService) *AdvisingService {
	return &AdvisingService{catalog: catalog, now: time.Now}
}

// TermInfo returns the planning term and the graduation choices.
func (s *AdvisingService) TermInfo() (model.TermInfo, error) {
	snap, err := s.catalog.Snapshot()
	if err != nil {
		return model.TermInfo{}, err
	}
	o := snap.Offerings()
	return model.TermInfo{
		CurrentTerm:       snap.CurrentTerm().Label(),
		OfferingsUpdated:  o.Updated,
		OfferedCount:      len(o.OfferedCodes),
		GraduationOptions: term.Labels(term.GraduationOptions(s.now(), graduationOptionCount)),
	}, nil
}

// Courses returns the deduplicated catalog.
func (s *AdvisingService) Courses() ([]model.Course, error) {
	snap, err := s.catalog.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Courses(), nil
}

// Course returns one catalog course with its current-term sections.
func (s *AdvisingService) Course(code string) (model.CourseOption, error) {
	snap, err := s.catalog.Snapshot()
	if err != nil {
		return model.CourseOption{}, err
	}
	c, ok := snap.Course(code)
	if !ok {
		return model.CourseOption{}, ErrUnknownCourse
	}
	warning, _ := snap.EnrollmentWarning(code)
	return model.CourseOption{
		Course:            c,
		Offered:           snap.IsOffered(code),
		Sections:          snap.Sections(code),
		EnrollmentWarning: warning,
	}, nil
}

// Requirements returns the requirements the snapshot was built from.
func (s *AdvisingService) Requirements() (model.Requirements, error) {
	snap, err := s.catalog.Snapshot()
	if err != nil {
		return model.Requirements{}, err
	}
	return snap.Requirements(), nil
}

// Offerings returns the current term's offerings.
func (s *AdvisingService) Offerings() (model.CourseOfferings, error) {
	snap, err := s.catalog.Snapshot()
	if err != nil {
		return model.CourseOfferings{}, err
	}
	return snap.Offerings(), nil
}

// CategoryCourses lists the options of one wizard step. An unknown category
// has no options.
func (s *AdvisingService) CategoryCourses(categoryID string, req model.CategoryCoursesRequest) ([]model.CourseOption, error) {
	snap, err := s.catalog.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.CourseOptions(categoryID, req), nil
}

// CheckExclusion tells whether code clashes with the other selected courses.
func (s *AdvisingService) CheckExclusion(req model.ExclusionCheckRequest) (model.ExclusionCheckResult, error) {
	snap, err := s.catalog.Snapshot()
	if err != nil {
		return model.ExclusionCheckResult{}, err
	}

	res := model.ExclusionCheckResult{Code: req.Code, ConflictsWith: []string{}}
	rule, ok := snap.MutualExclusion(req.Code, req.Selected)
	if !ok {
		return res, nil
	}
	res.Excluded = true
	res.Message = rule.Message
	for _, other := range req.Selected {
		if other != req.Code && slices.Contains(rule.Courses, other) && !slices.Contains(res.ConflictsWith, other) {
			res.ConflictsWith = append(res.ConflictsWith, other)
		}
	}
	return res, nil
}

// Progress computes degree progress.
func (s *AdvisingService) Progress(student model.StudentData) (model.Progress, error) {
	snap, err := s.catalog.Snapshot()
	if err != nil {
		return model.Progress{}, err
	}
	return snap.ComputeProgress(student), nil
}

// Plan projects the remaining requirements onto terms.
func (s *AdvisingService) Plan(student model.StudentData) (model.PlanResponse, error) {
	snap, err := s.catalog.Snapshot()
	if err != nil {
		return model.PlanResponse{}, err
	}
	r := snap.Review(student)
	return model.PlanResponse{
		CurrentTerm:     r.CurrentTerm,
		Needed:          r.Needed,
		Plan:            r.Plan,
		Warnings:        r.Warnings,
		CapstoneTarget:  r.CapstoneTarget,
		TakeCapstoneNow: r.TakeCapstoneNow,
	}, nil
}

// Review runs the whole engine for the review step.
func (s *AdvisingService) Review(student model.StudentData) (model.Review, error) {
	snap, err := s.catalog.Snapshot()
	if err != nil {
		return model.Review{}, err
	}
	return snap.Review(student), nil
}
