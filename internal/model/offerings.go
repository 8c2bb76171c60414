package model

// CourseSection is one scheduled section, keyed by (Code, Section).
type CourseSection struct {
	Code       string `json:"code" binding:"required,course_code"`
	Section    string `json:"section" binding:"required,max=16"`
	Title      string `json:"title" binding:"max=255"`
	Schedule   string `json:"schedule" binding:"max=255"`
	Modality   string `json:"modality" binding:"max=64"`
	Enrollment string `json:"enrollment" binding:"max=64"`
}

// CourseOfferings lists what is offered in one term.
type CourseOfferings struct {
	Term         string          `json:"term"`
	Updated      string          `json:"updated"`
	OfferedCodes []string        `json:"offered_codes"`
	Sections     []CourseSection `json:"sections"`
}

// OfferingsTerm is a row of the admin term list.
type OfferingsTerm struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Active       bool   `json:"active"`
	OfferedCount int    `json:"offered_count"`
	SectionCount int    `json:"section_count"`
}

// CreateTermRequest creates an empty offerings document.
type CreateTermRequest struct {
	Season string `json:"season" binding:"required,oneof=Spring Summer Fall"`
	Year   int    `json:"year" binding:"required,min=2000,max=2099"`
}

// ToggleOfferedRequest flips a course in or out of a term's offered list.
type ToggleOfferedRequest struct {
	Code string `json:"code" binding:"required,course_code"`
}

// SetActiveTermRequest selects the term the wizard plans from.
type SetActiveTermRequest struct {
	TermID string `json:"term_id" binding:"required,max=32"`
}
