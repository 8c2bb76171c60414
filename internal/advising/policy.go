package advising

import (
	"github.com/tcu-dcda/dcda-advisor/internal/term"
)

// Policy holds the program rules that are data rather than algorithm.
type Policy struct {
	CapstoneCourseCode   string            `toml:"capstone_course_code"`
	CapstoneCategoryID   string            `toml:"capstone_category_id"`
	CapstoneSeason       string            `toml:"capstone_season"`
	GeneralElectivesID   string            `toml:"general_electives_id"`
	DefaultStartTerm     string            `toml:"default_start_term"`
	HoursPerSlot         int               `toml:"hours_per_slot"`
	DefaultTerms         int               `toml:"default_terms"`
	DefaultTermsSummer   int               `toml:"default_terms_with_summer"`
	MaxPlanTerms         int               `toml:"max_plan_terms"`
	CapstoneTermMaxSlots int               `toml:"capstone_term_max_slots"`
	FallbackCategory     string            `toml:"fallback_category"`
	CategoryNames        map[string]string `toml:"category_names"`
}

// DefaultPolicy returns the DCDA rules.
func DefaultPolicy() Policy {
	return Policy{
		CapstoneCourseCode:   "DCDA 40833",
		CapstoneCategoryID:   "capstone",
		CapstoneSeason:       "Spring",
		GeneralElectivesID:   "generalElectives",
		DefaultStartTerm:     "Fall 2026",
		HoursPerSlot:         3,
		DefaultTerms:         4,
		DefaultTermsSummer:   6,
		MaxPlanTerms:         15,
		CapstoneTermMaxSlots: 2,
		FallbackCategory:     "Elective",
		CategoryNames: map[string]string{
			"intro":            "Intro/Req'd English",
			"statistics":       "Statistics",
			"coding":           "Coding",
			"mmAuthoring":      "Multimedia Authoring",
			"capstone":         "Capstone",
			"dcElective":       "Digital Culture Elective",
			"daElective":       "Data Analytics Elective",
			"generalElectives": "General Electives",
		},
	}
}

// WithDefaults fills every zero field from DefaultPolicy.
func (p Policy) WithDefaults() Policy {
	d := DefaultPolicy()
	if p.CapstoneCourseCode == "" {
		p.CapstoneCourseCode = d.CapstoneCourseCode
	}
	if p.CapstoneCategoryID == "" {
		p.CapstoneCategoryID = d.CapstoneCategoryID
	}
	if _, err := term.ParseSeason(p.CapstoneSeason); err != nil {
		p.CapstoneSeason = d.CapstoneSeason
	}
	if p.GeneralElectivesID == "" {
		p.GeneralElectivesID = d.GeneralElectivesID
	}
	if _, err := term.ParseLabel(p.DefaultStartTerm); err != nil {
		p.DefaultStartTerm = d.DefaultStartTerm
	}
	if p.HoursPerSlot <= 0 {
		p.HoursPerSlot = d.HoursPerSlot
	}
	if p.DefaultTerms <= 0 {
		p.DefaultTerms = d.DefaultTerms
	}
	if p.DefaultTermsSummer <= 0 {
		p.DefaultTermsSummer = d.DefaultTermsSummer
	}
	if p.MaxPlanTerms <= 0 {
		p.MaxPlanTerms = d.MaxPlanTerms
	}
	if p.CapstoneTermMaxSlots <= 0 {
		p.CapstoneTermMaxSlots = d.CapstoneTermMaxSlots
	}
	if p.FallbackCategory == "" {
		p.FallbackCategory = d.FallbackCategory
	}
	names := make(map[string]string, len(d.CategoryNames)+len(p.CategoryNames))
	for k, v := range d.CategoryNames {
		names[k] = v
	}
	for k, v := range p.CategoryNames {
		names[k] = v
	}
	p.CategoryNames = names
	return p
}

// CategoryName returns the display name for a category id, or fallback.
func (p Policy) CategoryName(id, fallback string) string {
	if name, ok := p.CategoryNames[id]; ok && name != "" {
		return name
	}
	if fallback != "" {
		return fallback
	}
	return id
}
