package advising

import (
	"github.com/tcu-dcda/dcda-advisor/internal/model"
)

func testCatalog() []model.Course {
	dc := model.SubjectDigitalCulture
	da := model.SubjectDataAnalytics
	mm := model.SubjectMultimediaAuthoring
	return []model.Course{
		{Code: "ENGL 20833", Title: "Intro to Digital Culture", Category: dc},
		{Code: "WRIT 20833", Title: "Intro to Coding in the Humanities", Category: dc},
		{Code: "INSC 20153", Title: "Statistical Analysis", Category: da},
		{Code: "MATH 10043", Title: "Elementary Statistics", Category: da},
		{Code: "COSC 10403", Title: "Intro to Programming", Category: da},
		{Code: "COSC 10603", Title: "Intro to Computer Science", Category: da},
		{Code: "WRIT 20303", Title: "Writing for Digital Media", Category: mm},
		{Code: "FTDM 20163", Title: "Digital Audio and Video", Category: mm},
		{Code: "DCDA 40833", Title: "DCDA Capstone", Category: model.SubjectHonorsSeminarsCapstone},
		{Code: "ENGL 30133", Title: "Digital Rhetoric", Category: dc},
		{Code: "WRIT 40163", Title: "Games and Culture", Category: dc},
		{Code: "ENGL 40233", Title: "Digital Archives", Category: dc},
		{Code: "INSC 30833", Title: "Data Visualization", Category: da},
		{Code: "MATH 30853", Title: "Regression", Category: da},
		{Code: "ENGL 20833", Title: "Duplicate Entry", Category: da},
	}
}

func selectOne(id string, codes ...string) model.RequirementCategory {
	return model.RequirementCategory{ID: id, Name: id, Hours: 3, Rule: model.Enumerated{Courses: codes, SelectOne: true}}
}

func testRequirements() model.Requirements {
	return model.Requirements{
		Major: model.DegreeRequirements{
			Name:       "DCDA Major",
			TotalHours: 33,
			Required: model.RequirementSection{
				Name:  "Required",
				Hours: 15,
				Categories: []model.RequirementCategory{
					selectOne("intro", "ENGL 20833", "WRIT 20833", "ENGL 99999"),
					selectOne("statistics", "INSC 20153", "MATH 10043"),
					selectOne("coding", "COSC 10403", "COSC 10603"),
					selectOne("mmAuthoring", "WRIT 20303", "FTDM 20163"),
					selectOne("capstone", "DCDA 40833"),
				},
			},
			Electives: &model.RequirementSection{
				Name:  "Electives",
				Hours: 12,
				Categories: []model.RequirementCategory{
					{ID: "dcElective", Name: "DC Elective", Hours: 6, Rule: model.Bucket{Subject: model.SubjectDigitalCulture}},
					{ID: "daElective", Name: "DA Elective", Hours: 6, Rule: model.Bucket{Subject: model.SubjectDataAnalytics}},
				},
			},
			GeneralElectives: model.GeneralElectives{Name: "General Electives", Count: 2},
		},
		Minor: model.DegreeRequirements{
			Name:       "DCDA Minor",
			TotalHours: 18,
			Required: model.RequirementSection{
				Name:  "Required",
				Hours: 6,
				Categories: []model.RequirementCategory{
					selectOne("intro", "ENGL 20833", "WRIT 20833"),
					selectOne("statistics", "INSC 20153", "MATH 10043"),
				},
			},
			GeneralElectives: model.GeneralElectives{Name: "General Electives", Count: 4},
		},
		MutuallyExclusive: []model.MutualExclusionRule{
			{Courses: []string{"INSC 20153", "MATH 10043"}, Message: "Take only one introductory statistics course."},
		},
		EnrollmentWarnings: map[string]model.EnrollmentWarning{
			"COSC": {Courses: []string{"COSC 10403"}, Message: "COSC 10403 requires a math placement score."},
		},
	}
}

func testOfferings(label string) model.CourseOfferings {
	return model.CourseOfferings{
		Term:    label,
		Updated: "2026-04-01",
		OfferedCodes: []string{
			"ENGL 20833", "INSC 20153", "MATH 10043", "COSC 10403",
			"DCDA 40833", "ENGL 30133", "INSC 30833",
		},
		Sections: []model.CourseSection{
			{Code: "ENGL 20833", Section: "010", Schedule: "MWF 10:00"},
			{Code: "ENGL 20833", Section: "020", Schedule: "TR 14:00"},
			{Code: "INSC 20153", Section: "001", Schedule: "TR 09:30"},
		},
	}
}

// newTestSnapshot pins the current term to Fall 2026.
func newTestSnapshot() *Snapshot {
	return NewSnapshot(testCatalog(), testRequirements(), testOfferings("Fall 2026"), DefaultPolicy())
}

func codes(courses []model.Course) []string {
	out := make([]string, 0, len(courses))
	for _, c := range courses {
		out = append(out, c.Code)
	}
	return out
}
