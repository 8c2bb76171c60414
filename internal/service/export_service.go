package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/signintech/gopdf"
	"github.com/xuri/excelize/v2"

	"github.com/tcu-dcda/dcda-advisor/internal/metrics"
	"github.com/tcu-dcda/dcda-advisor/internal/model"
)

// Export errors.
var (
	ErrPDFFontMissing  = errors.New("pdf font file is not available")
	ErrInvalidCSV      = errors.New("not a DCDA mobile export")
	ErrUnsupportedType = errors.New("unsupported export format")
)

const (
	csvMagic    = "DCDA_MOBILE_EXPORT"
	csvVersion  = "v1"
	exportAgent = "DCDA Advisor"
	planSheet   = "Plan"
	reqSheet    = "Progress"
)

// ExportService renders a student's plan into downloadable documents.
type ExportService struct {
	catalog      *CatalogService
	advisorEmail string
	advisorName  string
	fontPath     string
	now          func() time.Time
}

// NewExportService creates a new ExportService.
func NewExportService(catalog *CatalogService, advisorEmail, advisorName, fontPath string) *ExportService {
	return &ExportService{
		catalog:      catalog,
		advisorEmail: advisorEmail,
		advisorName:  advisorName,
		fontPath:     fontPath,
		now:          time.Now,
	}
}

// Filename builds "{safeName}_{yyyy-mm-dd}.{ext}".
func (s *ExportService) Filename(student model.StudentData, ext string) string {
	return fmt.Sprintf("%s_%s.%s", safeName(student.Name), s.now().Format("2006-01-02"), ext)
}

func safeName(name string) string {
	if name == "" {
		name = "Student"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, name)
}

// ─── CSV ────────────────────────────────────────────────────────────

// csvCredit keeps the camelCase keys of the mobile format.
type csvCredit struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	CountsAs    string `json:"countsAs"`
}

// CSV writes the mobile key/value format.
func (s *ExportService) CSV(student model.StudentData) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{csvMagic, csvVersion},
		{"name", student.Name},
		{"degreeType", string(student.DegreeType)},
		{"expectedGraduation", student.ExpectedGraduation},
		{"completedCourses", strings.Join(student.CompletedCourses, ";")},
		{"scheduledCourses", strings.Join(student.ScheduledCourses, ";")},
	}

	if len(student.SpecialCredits) > 0 {
		credits := make([]csvCredit, len(student.SpecialCredits))
		for i, c := range student.SpecialCredits {
			credits[i] = csvCredit{Type: c.Type, Description: c.Description, CountsAs: c.CountsAs}
		}
		raw, err := json.Marshal(credits)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []string{"specialCredits", string(raw)})
	}
	if len(student.CourseCategories) > 0 {
		raw, err := json.Marshal(student.CourseCategories)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []string{"courseCategories", string(raw)})
	}
	if len(student.GeneralElectives) > 0 {
		rows = append(rows, []string{"generalElectives", strings.Join(student.GeneralElectives, ";")})
	}
	if student.Notes != "" {
		rows = append(rows, []string{"notes", student.Notes})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	metrics.ExportsTotal.WithLabelValues(string(model.ExportCSV)).Inc()
	return buf.Bytes(), nil
}

// ParseCSV reads a mobile export back into wizard state. Unknown keys are ignored.
func (s *ExportService) ParseCSV(r io.Reader) (model.StudentData, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return model.StudentData{}, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}
	if len(records) == 0 || len(records[0]) < 1 || records[0][0] != csvMagic {
		return model.StudentData{}, ErrInvalidCSV
	}

	var st model.StudentData
	for _, rec := range records[1:] {
		if len(rec) < 2 {
			continue
		}
		key, value := rec[0], rec[1]
		switch key {
		case "name":
			st.Name = value
		case "degreeType":
			st.DegreeType = model.DegreeType(value)
		case "expectedGraduation":
			st.ExpectedGraduation = value
		case "completedCourses":
			st.CompletedCourses = splitCodes(value)
		case "scheduledCourses":
			st.ScheduledCourses = splitCodes(value)
		case "generalElectives":
			st.GeneralElectives = splitCodes(value)
		case "notes":
			st.Notes = value
		case "specialCredits":
			var credits []csvCredit
			if err := json.Unmarshal([]byte(value), &credits); err != nil {
				return model.StudentData{}, fmt.Errorf("%w: specialCredits: %v", ErrInvalidCSV, err)
			}
			for _, c := range credits {
				st.SpecialCredits = append(st.SpecialCredits, model.SpecialCredit{Type: c.Type, Description: c.Description, CountsAs: c.CountsAs})
			}
		case "courseCategories":
			if err := json.Unmarshal([]byte(value), &st.CourseCategories); err != nil {
				return model.StudentData{}, fmt.Errorf("%w: courseCategories: %v", ErrInvalidCSV, err)
			}
		}
	}

	if st.CompletedCourses == nil {
		st.CompletedCourses = []string{}
	}
	if st.ScheduledCourses == nil {
		st.ScheduledCourses = []string{}
	}
	if st.SpecialCredits == nil {
		st.SpecialCredits = []model.SpecialCredit{}
	}
	return st, nil
}

func splitCodes(raw string) []string {
	out := []string{}
	for _, c := range strings.Split(raw, ";") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// ─── JSON record ────────────────────────────────────────────────────

// Record builds the structured advising record with the plan attached.
func (s *ExportService) Record(student model.StudentData) (model.AdvisingRecord, error) {
	snap, err := s.catalog.Snapshot()
	if err != nil {
		return model.AdvisingRecord{}, err
	}
	review := snap.Review(student)

	credits := student.SpecialCredits
	if credits == nil {
		credits = []model.SpecialCredit{}
	}
	categories := student.CourseCategories
	if categories == nil {
		categories = map[string]string{}
	}

	metrics.ExportsTotal.WithLabelValues(string(model.ExportJSON)).Inc()
	return model.AdvisingRecord{
		Version: model.AdvisingRecordVersion,
		Student: model.RecordStudent{
			Name:               student.Name,
			DegreeType:         student.DegreeType.OrDefault(),
			ExpectedGraduation: student.ExpectedGraduation,
			Email:              student.Email,
		},
		Coursework: model.RecordCoursework{
			Completed:        nonNil(student.CompletedCourses),
			Scheduled:        nonNil(student.ScheduledCourses),
			GeneralElectives: nonNil(student.GeneralElectives),
			SpecialCredits:   credits,
			CourseCategories: categories,
			IncludeSummer:    student.IncludeSummer,
		},
		Notes: student.Notes,
		Metadata: model.RecordMetadata{
			ExportedAt:  s.now().UTC().Format(time.RFC3339),
			CurrentTerm: review.CurrentTerm,
			Source:      exportAgent,
		},
		Plan: review.Plan,
		Progress: model.RecordProgressLine{
			CompletedHours: review.Progress.CompletedHours,
			TotalHours:     review.Progress.TotalHours,
			Percent:        review.Progress.OverallPercent,
		},
	}, nil
}

func nonNil(codes []string) []string {
	if codes == nil {
		return []string{}
	}
	return codes
}

// ─── XLSX ───────────────────────────────────────────────────────────

// XLSX renders the plan and the category progress into a workbook.
func (s *ExportService) XLSX(student model.StudentData) ([]byte, error) {
	snap, err := s.catalog.Snapshot()
	if err != nil {
		return nil, err
	}
	review := snap.Review(student)
	p := review.Progress

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", planSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(reqSheet); err != nil {
		return nil, err
	}
	f.SetColWidth(planSheet, "A", "A", 16)
	f.SetColWidth(planSheet, "B", "B", 16)
	f.SetColWidth(planSheet, "C", "C", 40)
	f.SetColWidth(reqSheet, "A", "A", 32)
	f.SetColWidth(reqSheet, "B", "E", 14)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4D1979"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	boldStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	name := student.Name
	if name == "" {
		name = "Student"
	}
	info := [][2]string{
		{"Student", name},
		{"Degree", "DCDA " + degreeLabel(student.DegreeType)},
		{"Expected Graduation", orDefault(student.ExpectedGraduation, "Not specified")},
		{"Current Term", review.CurrentTerm},
		{"Progress", fmt.Sprintf("%d/%d hours (%d%%)", p.CompletedHours, p.TotalHours, p.OverallPercent)},
	}
	row := 1
	for _, kv := range info {
		f.SetCellValue(planSheet, cell("A", row), kv[0])
		f.SetCellValue(planSheet, cell("B", row), kv[1])
		f.SetCellStyle(planSheet, cell("A", row), cell("A", row), boldStyle)
		row++
	}

	row++
	for i, h := range []string{"Semester", "Course", "Category / Title"} {
		f.SetCellValue(planSheet, cell(colName(i), row), h)
	}
	f.SetCellStyle(planSheet, cell("A", row), cell("C", row), headerStyle)
	row++
	for _, sem := range review.Plan {
		for _, pc := range sem.Courses {
			f.SetCellValue(planSheet, cell("A", row), sem.Semester)
			f.SetCellValue(planSheet, cell("B", row), pc.Code)
			f.SetCellValue(planSheet, cell("C", row), describePlanned(snap.Course, pc))
			row++
		}
	}

	row = 1
	for i, h := range []string{"Category", "Hours", "Completed", "Satisfied", "Courses"} {
		f.SetCellValue(reqSheet, cell(colName(i), row), h)
	}
	f.SetCellStyle(reqSheet, "A1", "E1", headerStyle)
	row++
	all := append(append(append([]model.CategoryStatus{}, p.RequiredCategories...), p.ElectiveCategories...), p.GeneralElectives)
	for _, c := range all {
		f.SetCellValue(reqSheet, cell("A", row), c.Name)
		f.SetCellValue(reqSheet, cell("B", row), c.Hours)
		f.SetCellValue(reqSheet, cell("C", row), c.CompletedHours)
		f.SetCellValue(reqSheet, cell("D", row), yesNo(c.Satisfied))
		f.SetCellValue(reqSheet, cell("E", row), strings.Join(c.Courses, ", "))
		row++
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	metrics.ExportsTotal.WithLabelValues(string(model.ExportXLSX)).Inc()
	return buf.Bytes(), nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func describePlanned(lookup func(string) (model.Course, bool), pc model.PlannedCourse) string {
	if c, ok := lookup(pc.Code); ok {
		return c.Title
	}
	return pc.Category
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func degreeLabel(d model.DegreeType) string {
	if d.OrDefault() == model.DegreeMinor {
		return "Minor"
	}
	return "Major"
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// ─── PDF ────────────────────────────────────────────────────────────

const (
	pdfFont       = "body"
	pdfMargin     = 40.0
	pdfLineHeight = 16.0
	pdfPageBottom = 800.0
)

// PDF renders a one-column advising plan. It needs a TTF font on disk.
func (s *ExportService) PDF(student model.StudentData) ([]byte, error) {
	if _, err := os.Stat(s.fontPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPDFFontMissing, s.fontPath)
	}
	snap, err := s.catalog.Snapshot()
	if err != nil {
		return nil, err
	}
	review := snap.Review(student)
	p := review.Progress

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()
	if err := pdf.AddTTFFont(pdfFont, s.fontPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFFontMissing, err)
	}

	w := &pdfWriter{pdf: pdf, y: pdfMargin}
	if err := w.line(18, "DCDA Advising Plan"); err != nil {
		return nil, err
	}
	w.gap()

	lines := []string{
		"Student: " + orDefault(student.Name, "Student"),
		"Degree: DCDA " + degreeLabel(student.DegreeType),
		"Expected Graduation: " + orDefault(student.ExpectedGraduation, "Not specified"),
		fmt.Sprintf("Progress: %d/%d hours (%d%%)", p.CompletedHours, p.TotalHours, p.OverallPercent),
		"Generated: " + s.now().Format("January 2, 2006"),
	}
	for _, l := range lines {
		if err := w.line(11, l); err != nil {
			return nil, err
		}
	}

	w.gap()
	if err := w.line(14, "Requirements"); err != nil {
		return nil, err
	}
	all := append(append(append([]model.CategoryStatus{}, p.RequiredCategories...), p.ElectiveCategories...), p.GeneralElectives)
	for _, c := range all {
		mark := "[ ]"
		if c.Satisfied {
			mark = "[x]"
		}
		if err := w.line(10, fmt.Sprintf("%s %s  %d/%d  %s", mark, c.Name, c.CompletedHours, c.Hours, strings.Join(c.Courses, ", "))); err != nil {
			return nil, err
		}
	}

	w.gap()
	if err := w.line(14, "Semester Plan"); err != nil {
		return nil, err
	}
	for _, sem := range review.Plan {
		if err := w.line(12, sem.Semester); err != nil {
			return nil, err
		}
		for _, pc := range sem.Courses {
			if err := w.line(10, fmt.Sprintf("    %s  %s", pc.Code, describePlanned(snap.Course, pc))); err != nil {
				return nil, err
			}
		}
	}

	if student.Notes != "" {
		w.gap()
		if err := w.line(14, "Notes"); err != nil {
			return nil, err
		}
		for _, l := range strings.Split(student.Notes, "\n") {
			if err := w.line(10, l); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	metrics.ExportsTotal.WithLabelValues(string(model.ExportPDF)).Inc()
	return buf.Bytes(), nil
}

// pdfWriter tracks the cursor and breaks pages.
type pdfWriter struct {
	pdf *gopdf.GoPdf
	y   float64
}

func (w *pdfWriter) line(size int, text string) error {
	if w.y > pdfPageBottom {
		w.pdf.AddPage()
		w.y = pdfMargin
	}
	if err := w.pdf.SetFont(pdfFont, "", size); err != nil {
		return err
	}
	w.pdf.SetXY(pdfMargin, w.y)
	if err := w.pdf.Cell(nil, text); err != nil {
		return err
	}
	w.y += pdfLineHeight
	return nil
}

func (w *pdfWriter) gap() {
	w.y += pdfLineHeight / 2
}

// ─── Advisor email ──────────────────────────────────────────────────

// EmailDraft prepares the message a student sends their advisor.
func (s *ExportService) EmailDraft(student model.StudentData) (model.EmailDraft, error) {
	snap, err := s.catalog.Snapshot()
	if err != nil {
		return model.EmailDraft{}, err
	}
	p := snap.ComputeProgress(student)

	name := orDefault(student.Name, "Student")
	subject := "DCDA Advising Record: " + name

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", s.advisorName)
	b.WriteString("I've completed my DCDA advising plan using the advising wizard and wanted to share it with you ahead of our meeting. ")
	b.WriteString("Please find my plan attached. I'd love to go over it together and make sure I'm on the right track.\n\n")
	b.WriteString("---\nDCDA Advising Record\n\n")
	fmt.Fprintf(&b, "Student: %s\n", name)
	fmt.Fprintf(&b, "Degree: DCDA %s\n", degreeLabel(student.DegreeType))
	fmt.Fprintf(&b, "Expected Graduation: %s\n", orDefault(student.ExpectedGraduation, "Not specified"))
	fmt.Fprintf(&b, "Date: %s\n", s.now().Format("1/2/2006"))
	fmt.Fprintf(&b, "Progress: %d/%d hours (%d%%)\n\n", p.CompletedHours, p.TotalHours, p.OverallPercent)
	fmt.Fprintf(&b, "Notes/Questions:\n%s\n\n", orDefault(student.Notes, "None"))
	b.WriteString("---\nAdvising plan PDF attached.\nSubmitted via DCDA Advisor")
	body := b.String()

	q := url.Values{}
	q.Set("subject", subject)
	q.Set("body", body)
	if student.Email != "" {
		q.Set("cc", student.Email)
	}
	mailto := (&url.URL{Scheme: "mailto", Opaque: s.advisorEmail, RawQuery: strings.ReplaceAll(q.Encode(), "+", "%20")}).String()

	metrics.ExportsTotal.WithLabelValues(string(model.ExportEmail)).Inc()
	return model.EmailDraft{
		To:        s.advisorEmail,
		Cc:        student.Email,
		Subject:   subject,
		Body:      body,
		MailtoURL: mailto,
	}, nil
}
