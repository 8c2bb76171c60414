package model

import "time"

// AnalyticsEventType names an anonymous wizard event.
type AnalyticsEventType string

const (
	EventWizardStart AnalyticsEventType = "wizard_start"
	EventStepVisit   AnalyticsEventType = "step_visit"
	EventExport      AnalyticsEventType = "export"
	EventSubmission  AnalyticsEventType = "submission"
)

// ExportMethod names how a plan left the wizard.
type ExportMethod string

const (
	ExportPDF   ExportMethod = "pdf"
	ExportCSV   ExportMethod = "csv"
	ExportPrint ExportMethod = "print"
	ExportEmail ExportMethod = "email"
	ExportXLSX  ExportMethod = "xlsx"
	ExportJSON  ExportMethod = "json"
)

// Daily counter metrics. Labeled metrics keep one row per label.
const (
	MetricWizardStarts      = "wizard_starts"
	MetricWizardCompletions = "wizard_completions"
	MetricHourlyStarts      = "hourly_starts"
	MetricStepVisits        = "step_visits"
	MetricExports           = "exports"
)

// Course demand kinds.
const (
	DemandScheduled = "scheduled"
	DemandCompleted = "completed"
)

// WizardSteps is the step order of the wizard, used to order the funnel.
var WizardSteps = []string{
	"welcome", "name", "graduation", "intro", "statistics", "coding",
	"mmAuthoring", "dcElective", "daElective", "generalElectives",
	"specialCredits", "transition", "schedule", "reviewSummary", "reviewActions",
}

// TrackEventRequest is the public payload for a counter event.
type TrackEventRequest struct {
	Type   AnalyticsEventType `json:"type" binding:"required,oneof=wizard_start step_visit export"`
	Step   string             `json:"step" binding:"max=64"`
	Method ExportMethod       `json:"method" binding:"omitempty,oneof=pdf csv print email xlsx json"`
}

// AnalyticsEvent is what travels through the analytics queue.
type AnalyticsEvent struct {
	Type       AnalyticsEventType `json:"type"`
	OccurredAt time.Time          `json:"occurred_at"`
	Step       string             `json:"step,omitempty"`
	Method     ExportMethod       `json:"method,omitempty"`
	Submission *Submission        `json:"submission,omitempty"`
	// Attempts counts failed writes; the worker sets it on requeue.
	Attempts   int                `json:"attempts,omitempty"`
}

// Submission is an anonymous record of a finished plan. It holds no name or email.
type Submission struct {
	SubmittedAt        time.Time  `json:"submitted_at"`
	DegreeType         DegreeType `json:"degree_type"`
	ExpectedGraduation string     `json:"expected_graduation"`
	CompletedCourses   []string   `json:"completed_course_codes"`
	ScheduledCourses   []string   `json:"scheduled_course_codes"`
	CompletedCount     int        `json:"completed_course_count"`
	ScheduledCount     int        `json:"scheduled_course_count"`
	SpecialCreditCount int        `json:"special_credit_count"`
	IncludeSummer      bool       `json:"include_summer"`
	HasNotes           bool       `json:"has_notes"`
	DegreeProgressPct  int        `json:"degree_progress_pct"`
	SessionHash        string     `json:"session_hash"`
	DemandTerm         string     `json:"demand_term"`
}

// DailyStats are the counters of one day.
type DailyStats struct {
	Date              string         `json:"date"`
	WizardStarts      int            `json:"wizard_starts"`
	WizardCompletions int            `json:"wizard_completions"`
	HourlyStarts      map[string]int `json:"hourly_starts"`
	StepVisits        map[string]int `json:"step_visits"`
	Exports           map[string]int `json:"exports"`
}

// SubmissionStats aggregates the anonymous submissions.
type SubmissionStats struct {
	Total              int            `json:"total"`
	Major              int            `json:"major"`
	Minor              int            `json:"minor"`
	ByGraduation       map[string]int `json:"by_graduation"`
	SummerOptInCount   int            `json:"summer_opt_in_count"`
	HasNotesCount      int            `json:"has_notes_count"`
	SpecialCreditCount int            `json:"special_credits_count"`
	ProgressSum        int            `json:"-"`
}

// CourseDemand counts scheduled and completed selections for one term key.
type CourseDemand struct {
	Term      string         `json:"term"`
	Scheduled map[string]int `json:"scheduled"`
	Completed map[string]int `json:"completed"`
}

// StepFunnel is the visit count of one wizard step.
type StepFunnel struct {
	StepID string `json:"step_id"`
	Visits int    `json:"visits"`
}

// AnalyticsInsights are derived submission ratios.
type AnalyticsInsights struct {
	SummerOptInCount    int `json:"summer_opt_in_count"`
	HasNotesCount       int `json:"has_notes_count"`
	AvgDegreeProgress   int `json:"avg_degree_progress"`
	SpecialCreditsCount int `json:"special_credits_count"`
}

// AnalyticsSummary is the admin dashboard payload.
type AnalyticsSummary struct {
	TotalSubmissions int               `json:"total_submissions"`
	ByDegreeType     map[string]int    `json:"by_degree_type"`
	ByGraduation     map[string]int    `json:"by_graduation"`
	RecentDays       []DailyStats      `json:"recent_days"`
	CourseDemand     *CourseDemand     `json:"course_demand"`
	Insights         AnalyticsInsights `json:"insights"`
	StepFunnel       []StepFunnel      `json:"step_funnel"`
	PeakHours        map[string]int    `json:"peak_hours"`
	ExportCounts     map[string]int    `json:"export_counts"`
}
