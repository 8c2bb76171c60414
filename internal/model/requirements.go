package model

import (
	"encoding/json"
	"fmt"
)

// DegreeType selects the major or minor requirement tree.
type DegreeType string

const (
	DegreeMajor DegreeType = "major"
	DegreeMinor DegreeType = "minor"
)

// OrDefault returns the major when the degree type is unset.
func (d DegreeType) OrDefault() DegreeType {
	if d == "" {
		return DegreeMajor
	}
	return d
}

// Valid reports whether d is major or minor.
func (d DegreeType) Valid() bool {
	return d == DegreeMajor || d == DegreeMinor
}

// CategoryKind tags the variant held by a RequirementCategory.
type CategoryKind string

const (
	KindEnumerated CategoryKind = "enumerated"
	KindBucket     CategoryKind = "bucket"
)

// CategoryRule is implemented by Enumerated and Bucket only.
type CategoryRule interface {
	Kind() CategoryKind
	isCategoryRule()
}

// Enumerated is satisfied by courses from an explicit list.
type Enumerated struct {
	Courses   []string
	SelectOne bool
}

// Bucket is satisfied by any course in a subject category.
type Bucket struct {
	Subject SubjectCategory
}

func (Enumerated) Kind() CategoryKind { return KindEnumerated }
func (Bucket) Kind() CategoryKind     { return KindBucket }
func (Enumerated) isCategoryRule()    {}
func (Bucket) isCategoryRule()        {}

// RequirementCategory is one named bucket of required credit hours.
type RequirementCategory struct {
	ID            string
	Name          string
	Hours         int
	Prerequisites []string
	Rule          CategoryRule
}

// Enumerated returns the enumerated rule, if that is the variant held.
func (c RequirementCategory) Enumerated() (Enumerated, bool) {
	e, ok := c.Rule.(Enumerated)
	return e, ok
}

// Bucket returns the bucket rule, if that is the variant held.
func (c RequirementCategory) Bucket() (Bucket, bool) {
	b, ok := c.Rule.(Bucket)
	return b, ok
}

type categoryJSON struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Hours         int             `json:"hours"`
	Kind          CategoryKind    `json:"kind,omitempty"`
	Courses       []string        `json:"courses,omitempty"`
	SelectOne     bool            `json:"select_one,omitempty"`
	Subject       SubjectCategory `json:"subject,omitempty"`
	Prerequisites []string        `json:"prerequisites,omitempty"`
}

// MarshalJSON flattens the rule and always writes its kind.
func (c RequirementCategory) MarshalJSON() ([]byte, error) {
	out := categoryJSON{
		ID:            c.ID,
		Name:          c.Name,
		Hours:         c.Hours,
		Prerequisites: c.Prerequisites,
	}
	switch rule := c.Rule.(type) {
	case Enumerated:
		out.Kind = KindEnumerated
		out.Courses = rule.Courses
		out.SelectOne = rule.SelectOne
	case Bucket:
		out.Kind = KindBucket
		out.Subject = rule.Subject
	case nil:
		out.Kind = KindEnumerated
	default:
		return nil, fmt.Errorf("category %q: unsupported rule %T", c.ID, rule)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the tagged form. Without a kind, a subject field
// means bucket and anything else is enumerated.
func (c *RequirementCategory) UnmarshalJSON(data []byte) error {
	var in categoryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	kind := in.Kind
	if kind == "" {
		if in.Subject != "" {
			kind = KindBucket
		} else {
			kind = KindEnumerated
		}
	}

	*c = RequirementCategory{
		ID:            in.ID,
		Name:          in.Name,
		Hours:         in.Hours,
		Prerequisites: in.Prerequisites,
	}
	switch kind {
	case KindEnumerated:
		c.Rule = Enumerated{Courses: in.Courses, SelectOne: in.SelectOne}
	case KindBucket:
		c.Rule = Bucket{Subject: in.Subject}
	default:
		return fmt.Errorf("category %q: unknown kind %q", in.ID, kind)
	}
	return nil
}

// RequirementSection groups the categories of the required or elective part.
type RequirementSection struct {
	Name       string                `json:"name"`
	Hours      int                   `json:"hours"`
	Categories []RequirementCategory `json:"categories"`
}

// Category finds a category by id.
func (s *RequirementSection) Category(id string) (RequirementCategory, bool) {
	if s == nil {
		return RequirementCategory{}, false
	}
	for _, c := range s.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return RequirementCategory{}, false
}

// GeneralElectives is the count of free elective courses a degree needs.
type GeneralElectives struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Note  string `json:"note,omitempty"`
}

// DegreeRequirements is the requirement tree for one degree type.
type DegreeRequirements struct {
	Name             string              `json:"name"`
	TotalHours       int                 `json:"total_hours"`
	Required         RequirementSection  `json:"required"`
	Electives        *RequirementSection `json:"electives,omitempty"`
	GeneralElectives GeneralElectives    `json:"general_electives"`
}

// MutualExclusionRule forbids selecting more than one course of the set.
type MutualExclusionRule struct {
	Courses []string `json:"courses" binding:"required,min=2,dive,required"`
	Message string   `json:"message" binding:"required,max=500"`
}

// EnrollmentWarning is an advisory message for listed courses of a prefix.
type EnrollmentWarning struct {
	Courses []string `json:"courses"`
	Message string   `json:"message"`
}

// Requirements is the program-wide requirements document.
type Requirements struct {
	Major              DegreeRequirements           `json:"major"`
	Minor              DegreeRequirements           `json:"minor"`
	MutuallyExclusive  []MutualExclusionRule        `json:"mutually_exclusive"`
	EnrollmentWarnings map[string]EnrollmentWarning `json:"enrollment_warnings"`
}

// Degree returns the tree for d, or nil for an unknown degree type.
func (r *Requirements) Degree(d DegreeType) *DegreeRequirements {
	switch d.OrDefault() {
	case DegreeMajor:
		return &r.Major
	case DegreeMinor:
		return &r.Minor
	}
	return nil
}

// RequirementSectionName selects the required or electives part of a degree.
type RequirementSectionName string

const (
	SectionRequired  RequirementSectionName = "required"
	SectionElectives RequirementSectionName = "electives"
)

// SaveCategoryRequest is the admin payload for creating or replacing a category.
type SaveCategoryRequest struct {
	Name          string          `json:"name" binding:"required,max=255"`
	Hours         int             `json:"hours" binding:"min=0,max=60"`
	Kind          CategoryKind    `json:"kind" binding:"required,oneof=enumerated bucket"`
	Courses       []string        `json:"courses"`
	SelectOne     bool            `json:"select_one"`
	Subject       SubjectCategory `json:"subject"`
	Prerequisites []string        `json:"prerequisites"`
}

// Category converts the request into a category with the given id.
func (r SaveCategoryRequest) Category(id string) RequirementCategory {
	c := RequirementCategory{
		ID:            id,
		Name:          r.Name,
		Hours:         r.Hours,
		Prerequisites: r.Prerequisites,
	}
	if r.Kind == KindBucket {
		c.Rule = Bucket{Subject: r.Subject}
	} else {
		c.Rule = Enumerated{Courses: r.Courses, SelectOne: r.SelectOne}
	}
	return c
}
