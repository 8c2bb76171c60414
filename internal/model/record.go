package model

// AdvisingRecordVersion is the schema version of exported records.
const AdvisingRecordVersion = "1.0"

// AdvisingRecord is the structured JSON export of a finished plan.
type AdvisingRecord struct {
	Version    string             `json:"version"`
	Student    RecordStudent      `json:"student"`
	Coursework RecordCoursework   `json:"coursework"`
	Notes      string             `json:"notes"`
	Metadata   RecordMetadata     `json:"metadata"`
	Plan       []SemesterPlan     `json:"plan"`
	Progress   RecordProgressLine `json:"progress"`
}

// RecordStudent identifies the student on their own export.
type RecordStudent struct {
	Name               string     `json:"name"`
	DegreeType         DegreeType `json:"degree_type"`
	ExpectedGraduation string     `json:"expected_graduation"`
	Email              string     `json:"email,omitempty"`
}

// RecordCoursework lists the courses the plan was built from.
type RecordCoursework struct {
	Completed        []string          `json:"completed"`
	Scheduled        []string          `json:"scheduled"`
	GeneralElectives []string          `json:"general_electives"`
	SpecialCredits   []SpecialCredit   `json:"special_credits"`
	CourseCategories map[string]string `json:"course_categories"`
	IncludeSummer    bool              `json:"include_summer"`
}

// RecordMetadata describes when and from which data the record was made.
type RecordMetadata struct {
	ExportedAt  string `json:"exported_at"`
	CurrentTerm string `json:"current_term"`
	Source      string `json:"source"`
}

// RecordProgressLine is the headline progress figure.
type RecordProgressLine struct {
	CompletedHours int `json:"completed_hours"`
	TotalHours     int `json:"total_hours"`
	Percent        int `json:"percent"`
}

// EmailDraft is a prepared message to the advisor.
type EmailDraft struct {
	To        string `json:"to"`
	Cc        string `json:"cc,omitempty"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	MailtoURL string `json:"mailto_url"`
}
