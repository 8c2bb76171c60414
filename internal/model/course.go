package model

import (
	"strings"
	"unicode"
)

// SubjectCategory is the subject area a catalog course belongs to.
type SubjectCategory string

const (
	SubjectDigitalCulture         SubjectCategory = "Digital Culture"
	SubjectDataAnalytics          SubjectCategory = "Data Analytics"
	SubjectHonorsSeminarsCapstone SubjectCategory = "Honors Seminars and Capstone"
	SubjectMultimediaAuthoring    SubjectCategory = "Multimedia Authoring"
)

// AllSubjectCategories lists every known subject category.
var AllSubjectCategories = []SubjectCategory{
	SubjectDigitalCulture,
	SubjectDataAnalytics,
	SubjectHonorsSeminarsCapstone,
	SubjectMultimediaAuthoring,
}

// Valid reports whether c is one of the known subject categories.
func (c SubjectCategory) Valid() bool {
	for _, known := range AllSubjectCategories {
		if c == known {
			return true
		}
	}
	return false
}

// DefaultCreditHours is used when a course number does not encode its hours.
const DefaultCreditHours = 3

// Course is a catalog entry. Code ("DCDA 40833") is the natural key.
type Course struct {
	Code        string          `json:"code" binding:"required,course_code"`
	Title       string          `json:"title" binding:"required,max=255"`
	Category    SubjectCategory `json:"category" binding:"required,subject_category"`
	College     string          `json:"college" binding:"max=255"`
	Description string          `json:"description,omitempty"`
}

// Prefix returns the subject prefix of the code, the part before the first space.
func (c Course) Prefix() string {
	return CoursePrefix(c.Code)
}

// CreditHours reads the last digit of the course number, which carries the
// credit hours in TCU numbering ("DCDA 40833" is 3 hours).
func (c Course) CreditHours() int {
	return CourseCreditHours(c.Code)
}

// CoursePrefix returns the substring of code before its first space.
func CoursePrefix(code string) string {
	prefix, _, _ := strings.Cut(code, " ")
	return prefix
}

// CourseCreditHours applies the last-digit rule to a bare course code.
func CourseCreditHours(code string) int {
	_, number, ok := strings.Cut(strings.TrimSpace(code), " ")
	if !ok || len(number) != 5 {
		return DefaultCreditHours
	}
	last := rune(number[len(number)-1])
	if !unicode.IsDigit(last) || last == '0' {
		return DefaultCreditHours
	}
	return int(last - '0')
}
