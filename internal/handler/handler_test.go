package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcu-dcda/dcda-advisor/internal/advising"
	"github.com/tcu-dcda/dcda-advisor/internal/config"
	"github.com/tcu-dcda/dcda-advisor/internal/middleware"
	"github.com/tcu-dcda/dcda-advisor/internal/model"
	"github.com/tcu-dcda/dcda-advisor/internal/repository"
	"github.com/tcu-dcda/dcda-advisor/internal/response"
	"github.com/tcu-dcda/dcda-advisor/internal/service"
	"github.com/tcu-dcda/dcda-advisor/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

// memStore is an in-memory service.DocumentStore.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (m *memStore) Get(_ context.Context, collection, id string) (*model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[collection+"/"+id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, repository.ErrDocumentNotFound)
	}
	return &model.Document{Collection: collection, ID: id, Data: raw}, nil
}

func (m *memStore) Put(_ context.Context, collection, id string, data []byte) (*model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[collection+"/"+id] = data
	return &model.Document{Collection: collection, ID: id, Data: data}, nil
}

func (m *memStore) Update(_ context.Context, collection, id string, fn func([]byte) ([]byte, error)) (*model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, err := fn(m.data[collection+"/"+id])
	if err != nil {
		return nil, err
	}
	m.data[collection+"/"+id] = next
	return &model.Document{Collection: collection, ID: id, Data: next}, nil
}

func (m *memStore) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[collection+"/"+id]; !ok {
		return repository.ErrDocumentNotFound
	}
	delete(m.data, collection+"/"+id)
	return nil
}

func (m *memStore) ListByPrefix(_ context.Context, collection, prefix string) ([]model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Document
	for k, raw := range m.data {
		if id, ok := strings.CutPrefix(k, collection+"/"); ok && strings.HasPrefix(id, prefix) {
			out = append(out, model.Document{Collection: collection, ID: id, Data: raw})
		}
	}
	slices.SortFunc(out, func(a, b model.Document) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

type memQueue struct {
	mu     sync.Mutex
	events []model.AnalyticsEvent
}

func (q *memQueue) Enqueue(_ context.Context, ev model.AnalyticsEvent) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, ev)
	return nil
}

type memAdmins struct {
	byEmail map[string]*model.Admin
}

func (m *memAdmins) GetByID(_ context.Context, id int) (*model.Admin, error) {
	for _, a := range m.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, fmt.Errorf("admin %d not found", id)
}

func (m *memAdmins) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	if a, ok := m.byEmail[email]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("admin %s not found", email)
}

func (m *memAdmins) Create(_ context.Context, a *model.Admin) error {
	m.byEmail[a.Email] = a
	return nil
}

// testApp wires the services over in-memory stores and registers the
// handlers on a bare engine.
type testApp struct {
	engine  *gin.Engine
	catalog *service.CatalogService
	queue   *memQueue
	auth    *service.AuthService
}

func testCourses() []model.Course {
	return []model.Course{
		{Code: "ENGL 20833", Title: "Intro to Digital Culture", Category: model.SubjectDigitalCulture},
		{Code: "WRIT 20833", Title: "Intro to Coding in the Humanities", Category: model.SubjectDigitalCulture},
		{Code: "INSC 20153", Title: "Statistical Analysis", Category: model.SubjectDataAnalytics},
		{Code: "MATH 10043", Title: "Elementary Statistics", Category: model.SubjectDataAnalytics},
		{Code: "DCDA 40833", Title: "DCDA Capstone", Category: model.SubjectHonorsSeminarsCapstone},
	}
}

func testRequirements() model.Requirements {
	enum := func(id string, codes ...string) model.RequirementCategory {
		return model.RequirementCategory{ID: id, Name: id, Hours: 3, Rule: model.Enumerated{Courses: codes, SelectOne: true}}
	}
	tree := model.DegreeRequirements{
		Name:       "DCDA",
		TotalHours: 12,
		Required: model.RequirementSection{
			Name:       "Required",
			Hours:      9,
			Categories: []model.RequirementCategory{enum("intro", "ENGL 20833", "WRIT 20833"), enum("statistics", "INSC 20153", "MATH 10043"), enum("capstone", "DCDA 40833")},
		},
		GeneralElectives: model.GeneralElectives{Name: "General Electives", Count: 1},
	}
	return model.Requirements{
		Major: tree,
		Minor: tree,
		MutuallyExclusive: []model.MutualExclusionRule{
			{Courses: []string{"INSC 20153", "MATH 10043"}, Message: "Take only one introductory statistics course."},
		},
	}
}

func newTestApp(t *testing.T, load bool) *testApp {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()
	docs := newMemStore()

	catalog := service.NewCatalogService(docs, advising.NewHolder(nil), advising.DefaultPolicy(), "", nil, log)
	requirements := service.NewRequirementsService(docs, catalog, log)
	offerings := service.NewOfferingsService(docs, catalog, log)
	if load {
		require.NoError(t, catalog.ReplaceCourses(ctx, testCourses()))
		require.NoError(t, requirements.Replace(ctx, testRequirements()))
		_, err := offerings.ImportTerm(ctx, "fa26", model.CourseOfferings{OfferedCodes: []string{"ENGL 20833", "INSC 20153"}})
		require.NoError(t, err)
		require.NoError(t, catalog.Reload(ctx))
	}

	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour, BcryptCost: 4}
	auth := service.NewAuthService(cfg)
	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)
	admins := &memAdmins{byEmail: map[string]*model.Admin{
		"staff@tcu.edu":    {ID: 1, Email: "staff@tcu.edu", Name: "Staff", PasswordHash: hash, Role: model.RoleEditor},
		"outsider@tcu.edu": {ID: 2, Email: "outsider@tcu.edu", Name: "Outsider", PasswordHash: hash, Role: model.RoleViewer},
	}}
	adminService := service.NewAdminService(admins, []string{"staff@tcu.edu"})

	queue := &memQueue{}
	advisingService := service.NewAdvisingService(catalog)
	analytics := service.NewAnalyticsService(queue, nil, catalog, log)
	exports := service.NewExportService(catalog, "c.rode@tcu.edu", "Professor Rode", "/nonexistent/font.ttf")

	wizard := NewWizardHandler(advisingService, log)
	cat := NewCatalogHandler(advisingService, log)
	export := NewExportHandler(exports, analytics, log)
	analyticsHandler := NewAnalyticsHandler(analytics, log)
	authHandler := NewAuthHandler(auth, adminService, log)
	courses := NewCourseAdminHandler(catalog, log)
	reqs := NewRequirementsHandler(requirements, log)
	offer := NewOfferingsHandler(offerings, log)

	r := gin.New()
	r.Use(response.RequestIDMiddleware())
	r.GET("/wizard/term", wizard.GetTerm)
	r.POST("/wizard/categories/:category/courses", wizard.CategoryCourses)
	r.POST("/wizard/exclusions/check", wizard.CheckExclusion)
	r.POST("/wizard/progress", wizard.Progress)
	r.POST("/wizard/plan", wizard.Plan)
	r.GET("/catalog/courses/:code", cat.GetCourse)
	r.POST("/export/:format", export.Export)
	r.POST("/import/csv", export.ImportCSV)
	r.POST("/analytics/events", analyticsHandler.TrackEvent)
	r.POST("/analytics/submissions", analyticsHandler.RecordSubmission)
	r.POST("/auth/login", authHandler.AdminLogin)
	r.GET("/auth/me", middleware.RequireAdminJWT(auth), authHandler.GetAdminProfile)

	admin := r.Group("/admin", middleware.RequireAdminJWT(auth))
	admin.GET("/courses", middleware.RequirePermission(string(model.PermissionCatalogRead)), courses.ListCourses)
	admin.POST("/courses", middleware.RequirePermission(string(model.PermissionCatalogWrite)), courses.CreateCourse)
	admin.DELETE("/courses/:code", middleware.RequirePermission(string(model.PermissionCatalogWrite)), courses.DeleteCourse)
	admin.POST("/requirements/exclusions", middleware.RequirePermission(string(model.PermissionRequirementsWrite)), reqs.AddExclusionRule)
	admin.PUT("/requirements/:degree/:section/categories/:id", middleware.RequirePermission(string(model.PermissionRequirementsWrite)), reqs.SaveCategory)
	admin.POST("/offerings/:term/offered", middleware.RequirePermission(string(model.PermissionOfferingsWrite)), offer.ToggleOffered)
	admin.PUT("/active-term", middleware.RequirePermission(string(model.PermissionOfferingsWrite)), offer.SetActiveTerm)

	return &testApp{engine: r, catalog: catalog, queue: queue, auth: auth}
}

func (a *testApp) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) editorToken(t *testing.T) string {
	t.Helper()
	tok, err := a.auth.GenerateAdminToken(1, model.RoleEditor, model.PermissionsFor(model.RoleEditor))
	require.NoError(t, err)
	return tok
}

type envelope struct {
	Data  json.RawMessage     `json:"data"`
	Error *response.ErrorBody `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestWizardUnavailableWithoutSnapshot(t *testing.T) {
	app := newTestApp(t, false)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/wizard/term"},
		{http.MethodPost, "/wizard/progress"},
		{http.MethodPost, "/wizard/plan"},
	} {
		w := app.do(t, tc.method, tc.path, model.StudentData{}, "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, tc.path)
		env := decode(t, w, nil)
		require.NotNil(t, env.Error)
		assert.Equal(t, response.ErrCatalogUnavailable, env.Error.Code)
	}
}

func TestWizardTermAndProgress(t *testing.T) {
	app := newTestApp(t, true)

	w := app.do(t, http.MethodGet, "/wizard/term", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var info model.TermInfo
	decode(t, w, &info)
	assert.Equal(t, "Fall 2026", info.CurrentTerm)
	assert.Equal(t, 2, info.OfferedCount)
	assert.Len(t, info.GraduationOptions, 8)

	w = app.do(t, http.MethodPost, "/wizard/progress", model.StudentData{CompletedCourses: []string{"ENGL 20833"}}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var p model.Progress
	decode(t, w, &p)
	assert.Equal(t, 3, p.CompletedHours)
	assert.Equal(t, 25, p.OverallPercent)

	w = app.do(t, http.MethodPost, "/wizard/progress", map[string]any{"degree_type": "bachelor"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w, nil)
	assert.Contains(t, env.Error.Fields, "degree_type")
}

func TestWizardCategoryCourses(t *testing.T) {
	app := newTestApp(t, true)

	w := app.do(t, http.MethodPost, "/wizard/categories/statistics/courses", model.CategoryCoursesRequest{}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Courses []model.CourseOption `json:"courses"`
	}
	decode(t, w, &body)
	require.Len(t, body.Courses, 2)
	assert.True(t, body.Courses[0].Offered)
	assert.False(t, body.Courses[1].Offered)

	w = app.do(t, http.MethodPost, "/wizard/categories/nope/courses", model.CategoryCoursesRequest{}, "")
	require.Equal(t, http.StatusOK, w.Code)
	body.Courses = nil
	decode(t, w, &body)
	assert.NotNil(t, body.Courses)
	assert.Empty(t, body.Courses)
}

func TestWizardCheckExclusion(t *testing.T) {
	app := newTestApp(t, true)

	w := app.do(t, http.MethodPost, "/wizard/exclusions/check", model.ExclusionCheckRequest{Code: "MATH 10043", Selected: []string{"INSC 20153"}}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var res model.ExclusionCheckResult
	decode(t, w, &res)
	assert.True(t, res.Excluded)
	assert.Equal(t, []string{"INSC 20153"}, res.ConflictsWith)

	w = app.do(t, http.MethodPost, "/wizard/exclusions/check", model.ExclusionCheckRequest{Code: "not a code"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogGetCourse(t *testing.T) {
	app := newTestApp(t, true)

	w := app.do(t, http.MethodGet, "/catalog/courses/ENGL%2020833", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var opt model.CourseOption
	decode(t, w, &opt)
	assert.Equal(t, "Intro to Digital Culture", opt.Title)

	w = app.do(t, http.MethodGet, "/catalog/courses/ZZZZ%2010003", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportFormats(t *testing.T) {
	app := newTestApp(t, true)
	student := model.StudentData{Name: "Ada", CompletedCourses: []string{"ENGL 20833"}}

	w := app.do(t, http.MethodPost, "/export/csv", student, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "DCDA_MOBILE_EXPORT,v1"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Ada_")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")

	w = app.do(t, http.MethodPost, "/export/json", student, "")
	require.Equal(t, http.StatusOK, w.Code)
	var record model.AdvisingRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, "1.0", record.Version)

	w = app.do(t, http.MethodPost, "/export/email", student, "")
	require.Equal(t, http.StatusOK, w.Code)
	var draft model.EmailDraft
	decode(t, w, &draft)
	assert.Equal(t, "c.rode@tcu.edu", draft.To)

	w = app.do(t, http.MethodPost, "/export/pdf", student, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = app.do(t, http.MethodPost, "/export/docx", student, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	methods := map[model.ExportMethod]int{}
	for _, ev := range app.queue.events {
		methods[ev.Method]++
	}
	assert.Equal(t, map[model.ExportMethod]int{model.ExportCSV: 1, model.ExportJSON: 1, model.ExportEmail: 1}, methods)
}

func TestImportCSVRawBody(t *testing.T) {
	app := newTestApp(t, true)

	body := "DCDA_MOBILE_EXPORT,v1\nname,Ada\ncompletedCourses,ENGL 20833;INSC 20153\n"
	req := httptest.NewRequest(http.MethodPost, "/import/csv", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	app.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var st model.StudentData
	decode(t, w, &st)
	assert.Equal(t, "Ada", st.Name)
	assert.Equal(t, []string{"ENGL 20833", "INSC 20153"}, st.CompletedCourses)

	req = httptest.NewRequest(http.MethodPost, "/import/csv", strings.NewReader("name,Ada\n"))
	w = httptest.NewRecorder()
	app.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyticsEndpoints(t *testing.T) {
	app := newTestApp(t, true)

	w := app.do(t, http.MethodPost, "/analytics/events", model.TrackEventRequest{Type: model.EventStepVisit, Step: "intro"}, "")
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = app.do(t, http.MethodPost, "/analytics/events", model.TrackEventRequest{Type: model.EventStepVisit}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/analytics/events", map[string]string{"type": "submission"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "submissions have their own endpoint")

	w = app.do(t, http.MethodPost, "/analytics/submissions", model.StudentData{Name: "Ada", CompletedCourses: []string{"ENGL 20833"}}, "")
	require.Equal(t, http.StatusAccepted, w.Code)

	require.Len(t, app.queue.events, 2)
	sub := app.queue.events[1].Submission
	require.NotNil(t, sub)
	assert.Equal(t, 25, sub.DegreeProgressPct)
	assert.NotContains(t, w.Body.String(), "Ada")
}

func TestAdminLogin(t *testing.T) {
	app := newTestApp(t, true)

	w := app.do(t, http.MethodPost, "/auth/login", model.AdminLoginRequest{Email: "staff@tcu.edu", Password: "correct-horse"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Token       string   `json:"token"`
		Permissions []string `json:"permissions"`
	}
	decode(t, w, &body)
	assert.NotEmpty(t, body.Token)
	assert.Contains(t, body.Permissions, string(model.PermissionCatalogWrite))

	w = app.do(t, http.MethodGet, "/auth/me", nil, body.Token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodPost, "/auth/login", model.AdminLoginRequest{Email: "staff@tcu.edu", Password: "wrong-horse"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/auth/login", model.AdminLoginRequest{Email: "outsider@tcu.edu", Password: "correct-horse"}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, response.ErrEmailNotAllowed, decode(t, w, nil).Error.Code)
}

func TestAdminCourseWrites(t *testing.T) {
	app := newTestApp(t, true)
	token := app.editorToken(t)

	course := model.Course{Code: "ENGL 30133", Title: "Digital Rhetoric", Category: model.SubjectDigitalCulture}
	w := app.do(t, http.MethodPost, "/admin/courses", course, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/admin/courses", course, token)
	require.Equal(t, http.StatusCreated, w.Code)

	snap, err := app.catalog.Snapshot()
	require.NoError(t, err)
	_, ok := snap.Course("ENGL 30133")
	assert.True(t, ok, "writes reload the live snapshot")

	w = app.do(t, http.MethodPost, "/admin/courses", course, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.do(t, http.MethodPost, "/admin/courses", model.Course{Code: "ENGL 30133", Title: "x", Category: "Poetry"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodDelete, "/admin/courses/ENGL%2030133", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminListCoursesPaged(t *testing.T) {
	app := newTestApp(t, true)
	token := app.editorToken(t)

	var body struct {
		Courses []model.Course `json:"courses"`
	}
	var env struct {
		Pagination response.Pagination `json:"pagination"`
	}

	w := app.do(t, http.MethodGet, "/admin/courses", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &body)
	assert.Len(t, body.Courses, 5)

	w = app.do(t, http.MethodGet, "/admin/courses?category=Data%20Analytics&per_page=1&page=2", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &body)
	require.Len(t, body.Courses, 1)
	assert.Equal(t, "MATH 10043", body.Courses[0].Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, response.Pagination{Page: 2, PerPage: 1, TotalItems: 2, TotalPages: 2}, env.Pagination)

	w = app.do(t, http.MethodGet, "/admin/courses?q=capstone", nil, token)
	decode(t, w, &body)
	require.Len(t, body.Courses, 1)
	assert.Equal(t, "DCDA 40833", body.Courses[0].Code)

	w = app.do(t, http.MethodGet, "/admin/courses?page=9&per_page=2", nil, token)
	decode(t, w, &body)
	assert.Empty(t, body.Courses)

	w = app.do(t, http.MethodGet, "/admin/courses?category=Poetry", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRequirementsAndOfferings(t *testing.T) {
	app := newTestApp(t, true)
	token := app.editorToken(t)

	save := model.SaveCategoryRequest{Name: "Digital Culture Elective", Hours: 3, Kind: model.KindBucket, Subject: model.SubjectDigitalCulture}
	w := app.do(t, http.MethodPut, "/admin/requirements/major/electives/categories/dcElective", save, token)
	require.Equal(t, http.StatusOK, w.Code)

	save.Kind = model.KindEnumerated
	w = app.do(t, http.MethodPut, "/admin/requirements/major/required/categories/coding", save, token)
	assert.Equal(t, http.StatusBadRequest, w.Code, "enumerated categories need courses")

	w = app.do(t, http.MethodPut, "/admin/requirements/phd/required/categories/coding", model.SaveCategoryRequest{Name: "Coding", Kind: model.KindEnumerated, Courses: []string{"COSC 10403"}}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/admin/requirements/exclusions", model.MutualExclusionRule{Courses: []string{"ENGL 20833", "WRIT 20833"}, Message: "Pick one intro."}, token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.do(t, http.MethodPost, "/admin/offerings/fa26/offered", model.ToggleOfferedRequest{Code: "MATH 10043"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	snap, err := app.catalog.Snapshot()
	require.NoError(t, err)
	assert.True(t, snap.IsOffered("MATH 10043"))

	w = app.do(t, http.MethodPost, "/admin/offerings/someday/offered", model.ToggleOfferedRequest{Code: "MATH 10043"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPut, "/admin/active-term", model.SetActiveTermRequest{TermID: "sp27"}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
