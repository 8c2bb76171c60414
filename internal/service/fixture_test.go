package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tcu-dcda/dcda-advisor/internal/advising"
	"github.com/tcu-dcda/dcda-advisor/internal/model"
	"github.com/tcu-dcda/dcda-advisor/internal/repository"
	ws "github.com/tcu-dcda/dcda-advisor/internal/websocket"
)

// memDocs is an in-memory DocumentStore.
type memDocs struct {
	mu   sync.Mutex
	data map[string][]byte
	fail error
}

func newMemDocs() *memDocs {
	return &memDocs{data: map[string][]byte{}}
}

func (m *memDocs) key(collection, id string) string { return collection + "/" + id }

func (m *memDocs) Get(_ context.Context, collection, id string) (*model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	raw, ok := m.data[m.key(collection, id)]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, repository.ErrDocumentNotFound)
	}
	return &model.Document{Collection: collection, ID: id, Data: raw}, nil
}

func (m *memDocs) Put(_ context.Context, collection, id string, data []byte) (*model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[m.key(collection, id)] = data
	return &model.Document{Collection: collection, ID: id, Data: data, UpdatedAt: time.Now()}, nil
}

func (m *memDocs) Update(_ context.Context, collection, id string, fn func([]byte) ([]byte, error)) (*model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, err := fn(m.data[m.key(collection, id)])
	if err != nil {
		return nil, fmt.Errorf("update document %s/%s: %w", collection, id, err)
	}
	m.data[m.key(collection, id)] = next
	return &model.Document{Collection: collection, ID: id, Data: next}, nil
}

func (m *memDocs) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[m.key(collection, id)]; !ok {
		return repository.ErrDocumentNotFound
	}
	delete(m.data, m.key(collection, id))
	return nil
}

func (m *memDocs) ListByPrefix(_ context.Context, collection, prefix string) ([]model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Document
	for k, raw := range m.data {
		id, ok := strings.CutPrefix(k, collection+"/")
		if ok && strings.HasPrefix(id, prefix) {
			out = append(out, model.Document{Collection: collection, ID: id, Data: raw})
		}
	}
	slices.SortFunc(out, func(a, b model.Document) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (m *memDocs) put(t *testing.T, id string, v any) {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	m.data[m.key(model.ConfigCollection, id)] = raw
}

// recordingNotifier keeps every published event.
type recordingNotifier struct {
	mu     sync.Mutex
	events []ws.ChangeEvent
}

func (n *recordingNotifier) Notify(_ context.Context, ev ws.ChangeEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return nil
}

func (n *recordingNotifier) last() ws.ChangeEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.events) == 0 {
		return ws.ChangeEvent{}
	}
	return n.events[len(n.events)-1]
}

func fixtureCourses() []model.Course {
	return []model.Course{
		{Code: "ENGL 20833", Title: "Intro to Digital Culture", Category: model.SubjectDigitalCulture},
		{Code: "WRIT 20833", Title: "Intro to Coding in the Humanities", Category: model.SubjectDigitalCulture},
		{Code: "INSC 20153", Title: "Statistical Analysis", Category: model.SubjectDataAnalytics},
		{Code: "MATH 10043", Title: "Elementary Statistics", Category: model.SubjectDataAnalytics},
		{Code: "DCDA 40833", Title: "DCDA Capstone", Category: model.SubjectHonorsSeminarsCapstone},
		{Code: "ENGL 30133", Title: "Digital Rhetoric", Category: model.SubjectDigitalCulture},
	}
}

func fixtureRequirements() model.Requirements {
	enum := func(id string, codes ...string) model.RequirementCategory {
		return model.RequirementCategory{ID: id, Name: id, Hours: 3, Rule: model.Enumerated{Courses: codes, SelectOne: true}}
	}
	return model.Requirements{
		Major: model.DegreeRequirements{
			Name:       "DCDA Major",
			TotalHours: 18,
			Required: model.RequirementSection{
				Name:  "Required",
				Hours: 9,
				Categories: []model.RequirementCategory{
					enum("intro", "ENGL 20833", "WRIT 20833"),
					enum("statistics", "INSC 20153", "MATH 10043"),
					enum("capstone", "DCDA 40833"),
				},
			},
			Electives: &model.RequirementSection{
				Name:  "Electives",
				Hours: 3,
				Categories: []model.RequirementCategory{
					{ID: "dcElective", Name: "DC Elective", Hours: 3, Rule: model.Bucket{Subject: model.SubjectDigitalCulture}},
				},
			},
			GeneralElectives: model.GeneralElectives{Name: "General Electives", Count: 2},
		},
		Minor: model.DegreeRequirements{
			Name:       "DCDA Minor",
			TotalHours: 12,
			Required: model.RequirementSection{
				Name:       "Required",
				Hours:      6,
				Categories: []model.RequirementCategory{enum("intro", "ENGL 20833", "WRIT 20833"), enum("statistics", "INSC 20153", "MATH 10043")},
			},
			GeneralElectives: model.GeneralElectives{Name: "General Electives", Count: 2},
		},
		MutuallyExclusive: []model.MutualExclusionRule{
			{Courses: []string{"INSC 20153", "MATH 10043"}, Message: "Take only one introductory statistics course."},
		},
		EnrollmentWarnings: map[string]model.EnrollmentWarning{},
	}
}

func fixtureOfferings(label string) model.CourseOfferings {
	return model.CourseOfferings{
		Term:         label,
		Updated:      "2026-04-01",
		OfferedCodes: []string{"ENGL 20833", "INSC 20153", "MATH 10043"},
		Sections:     []model.CourseSection{{Code: "ENGL 20833", Section: "010", Schedule: "MWF 10:00"}},
	}
}

// seededDocs returns a store holding a complete catalog with Fall 2026 offerings.
func seededDocs(t *testing.T) *memDocs {
	docs := newMemDocs()
	docs.put(t, model.DocCourses, coursesDocument{Courses: fixtureCourses()})
	docs.put(t, model.DocRequirements, fixtureRequirements())
	docs.put(t, "offerings_fa26", fixtureOfferings("Fall 2026"))
	return docs
}

var fixedNow = time.Date(2026, time.October, 16, 14, 30, 0, 0, time.UTC)

func newTestCatalog(t *testing.T, docs DocumentStore) (*CatalogService, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	svc := NewCatalogService(docs, advising.NewHolder(nil), advising.DefaultPolicy(), "", n, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return svc, n
}

// loadedCatalog returns a catalog service whose snapshot is already loaded.
func loadedCatalog(t *testing.T) (*CatalogService, *memDocs, *recordingNotifier) {
	t.Helper()
	docs := seededDocs(t)
	svc, n := newTestCatalog(t, docs)
	require.NoError(t, svc.Reload(context.Background()))
	return svc, docs, n
}
