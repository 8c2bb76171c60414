package model

// PlaceholderCode marks a planned slot whose concrete course is not chosen yet.
const PlaceholderCode = "—"

// PlannedCourse is one entry in a planned term.
type PlannedCourse struct {
	Code     string `json:"code"`
	Category string `json:"category"`
}

// SemesterPlan is one term of a projected plan.
type SemesterPlan struct {
	Semester string          `json:"semester"`
	Courses  []PlannedCourse `json:"courses"`
}

// NeededCategory is how many slots of a category still have to be planned.
type NeededCategory struct {
	Category  string `json:"category"`
	Name      string `json:"name"`
	Remaining int    `json:"remaining"`
}

// PlanWarningCode identifies a planner condition worth showing to the student.
type PlanWarningCode string

const (
	// WarnCapstoneUnplaced: the Spring capstone term is not in the projected
	// sequence, so the capstone was distributed like any other slot.
	WarnCapstoneUnplaced PlanWarningCode = "capstone_unplaced"
	// WarnInvalidGraduation: the graduation label could not be parsed.
	WarnInvalidGraduation PlanWarningCode = "invalid_graduation"
	// WarnGraduationPassed: the graduation term is before the current term.
	WarnGraduationPassed PlanWarningCode = "graduation_passed"
)

// PlanWarning is advisory output of the planner.
type PlanWarning struct {
	Code    PlanWarningCode `json:"code"`
	Message string          `json:"message"`
}

// CategoryStatus is the progress of one requirement category.
type CategoryStatus struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Hours          int      `json:"hours"`
	CompletedHours int      `json:"completed_hours"`
	Satisfied      bool     `json:"satisfied"`
	Courses        []string `json:"courses"`
}

// Progress is the degree progress summary for a student.
type Progress struct {
	DegreeType         DegreeType       `json:"degree_type"`
	CompletedHours     int              `json:"completed_hours"`
	TotalHours         int              `json:"total_hours"`
	OverallPercent     int              `json:"overall_percent"`
	RequiredCategories []CategoryStatus `json:"required_categories"`
	ElectiveCategories []CategoryStatus `json:"elective_categories"`
	GeneralElectives   CategoryStatus   `json:"general_electives"`
	CompletedRequired  []string         `json:"completed_required"`
	IgnoredScheduled   []string         `json:"ignored_scheduled,omitempty"`
	UnknownCourses     []string         `json:"unknown_courses,omitempty"`
}

// CourseAdvisory carries display-only warnings for a selected course.
type CourseAdvisory struct {
	Code              string `json:"code"`
	EnrollmentWarning string `json:"enrollment_warning,omitempty"`
	ExclusionMessage  string `json:"exclusion_message,omitempty"`
}

// Review is the combined engine output for the review step.
type Review struct {
	CurrentTerm     string           `json:"current_term"`
	Progress        Progress         `json:"progress"`
	Needed          []NeededCategory `json:"needed"`
	Plan            []SemesterPlan   `json:"plan"`
	Warnings        []PlanWarning    `json:"warnings"`
	CapstoneTarget  string           `json:"capstone_target,omitempty"`
	TakeCapstoneNow bool             `json:"take_capstone_now"`
	Advisories      []CourseAdvisory `json:"advisories"`
}

// CategoryCoursesRequest asks for the selectable courses of one wizard step.
type CategoryCoursesRequest struct {
	DegreeType        DegreeType `json:"degree_type" binding:"omitempty,oneof=major minor"`
	Exclude           []string   `json:"exclude" binding:"max=100"`
	CompletedRequired []string   `json:"completed_required" binding:"max=100"`
	Selected          []string   `json:"selected" binding:"max=100"`
	SelfCode          string     `json:"self_code" binding:"max=32"`
	SelfCodes         []string   `json:"self_codes" binding:"max=100,dive,max=32"`
	OfferedOnly       bool       `json:"offered_only"`
}

// OwnCodes merges SelfCode into SelfCodes: the picks the step already holds.
func (r CategoryCoursesRequest) OwnCodes() []string {
	if r.SelfCode == "" {
		return r.SelfCodes
	}
	return append([]string{r.SelfCode}, r.SelfCodes...)
}

// CourseOption is a course as shown on a wizard step.
type CourseOption struct {
	Course
	Offered           bool            `json:"offered"`
	Sections          []CourseSection `json:"sections"`
	EnrollmentWarning string          `json:"enrollment_warning,omitempty"`
}

// ExclusionCheckRequest asks whether a course clashes with a selection.
type ExclusionCheckRequest struct {
	Code     string   `json:"code" binding:"required,course_code"`
	Selected []string `json:"selected" binding:"max=100"`
}

// ExclusionCheckResult tells whether a course clashes with the selection.
type ExclusionCheckResult struct {
	Code          string   `json:"code"`
	Excluded      bool     `json:"excluded"`
	Message       string   `json:"message,omitempty"`
	ConflictsWith []string `json:"conflicts_with"`
}

// PlanResponse is the planner output for a student.
type PlanResponse struct {
	CurrentTerm     string           `json:"current_term"`
	Needed          []NeededCategory `json:"needed"`
	Plan            []SemesterPlan   `json:"plan"`
	Warnings        []PlanWarning    `json:"warnings"`
	CapstoneTarget  string           `json:"capstone_target,omitempty"`
	TakeCapstoneNow bool             `json:"take_capstone_now"`
}

// TermInfo describes the term the wizard plans from.
type TermInfo struct {
	CurrentTerm       string   `json:"current_term"`
	OfferingsUpdated  string   `json:"offerings_updated"`
	OfferedCount      int      `json:"offered_count"`
	GraduationOptions []string `json:"graduation_options"`
}
