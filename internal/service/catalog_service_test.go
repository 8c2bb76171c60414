package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcu-dcda/dcda-advisor/internal/advising"
	"github.com/tcu-dcda/dcda-advisor/internal/model"
	ws "github.com/tcu-dcda/dcda-advisor/internal/websocket"
)

func TestCatalogServiceUnavailableUntilLoaded(t *testing.T) {
	svc, _ := newTestCatalog(t, newMemDocs())

	_, err := svc.Snapshot()
	assert.ErrorIs(t, err, ErrCatalogUnavailable)

	err = svc.Reload(context.Background())
	assert.Error(t, err)
	_, err = svc.Snapshot()
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}

func TestCatalogServiceReload(t *testing.T) {
	svc, _, _ := loadedCatalog(t)

	snap, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "Fall 2026", snap.CurrentTerm().Label())
	assert.Len(t, snap.Courses(), len(fixtureCourses()))
	assert.True(t, snap.IsOffered("INSC 20153"))
}

func TestCatalogServiceKeepsLastGoodSnapshot(t *testing.T) {
	svc, docs, _ := loadedCatalog(t)
	before, err := svc.Snapshot()
	require.NoError(t, err)

	docs.fail = errors.New("connection refused")
	assert.Error(t, svc.Reload(context.Background()))

	after, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Same(t, before, after)
}

func TestCatalogServiceActiveTerm(t *testing.T) {
	ctx := context.Background()
	docs := seededDocs(t)
	docs.put(t, "offerings_sp27", fixtureOfferings("Spring 2027"))
	docs.put(t, "offerings_su26", fixtureOfferings("Summer 2026"))

	svc, _ := newTestCatalog(t, docs)
	got, err := svc.ActiveTerm(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Fall 2026", got.Label(), "calendar term wins without an active_term document")

	svc.now = func() time.Time { return time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC) }
	got, err = svc.ActiveTerm(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Summer 2026", got.Label(), "earliest stored term before any has started")

	docs.put(t, model.DocActiveTerm, model.ActiveTerm{TermID: "sp27"})
	got, err = svc.ActiveTerm(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Spring 2027", got.Label())

	pinned := NewCatalogService(docs, advising.NewHolder(nil), advising.DefaultPolicy(), "Summer 2026", nil, zerolog.Nop())
	got, err = pinned.ActiveTerm(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Summer 2026", got.Label())

	empty, _ := newTestCatalog(t, newMemDocs())
	got, err = empty.ActiveTerm(ctx)
	require.NoError(t, err)
	assert.Equal(t, advising.DefaultPolicy().DefaultStartTerm, got.Label())
}

func TestCatalogServiceMissingOfferingsOffersNothing(t *testing.T) {
	docs := seededDocs(t)
	docs.put(t, model.DocActiveTerm, model.ActiveTerm{TermID: "sp27"})
	svc, _ := newTestCatalog(t, docs)

	require.NoError(t, svc.Reload(context.Background()))
	snap, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "Spring 2027", snap.CurrentTerm().Label())
	assert.False(t, snap.IsOffered("ENGL 20833"))
}

func TestCatalogServiceCourseCRUD(t *testing.T) {
	ctx := context.Background()
	svc, _, n := loadedCatalog(t)

	created, err := svc.CreateCourse(ctx, model.Course{Code: "ENGL 40233", Title: "Digital Archives", Category: model.SubjectDigitalCulture})
	require.NoError(t, err)
	assert.Equal(t, "ENGL 40233", created.Code)
	assert.Equal(t, ws.EventCatalogUpdated, n.last().Event)
	assert.Equal(t, fixedNow, n.last().At)

	snap, err := svc.Snapshot()
	require.NoError(t, err)
	_, ok := snap.Course("ENGL 40233")
	assert.True(t, ok, "snapshot reloads after a write")

	_, err = svc.CreateCourse(ctx, model.Course{Code: "ENGL 40233"})
	assert.ErrorIs(t, err, ErrCourseExists)

	updated, err := svc.UpdateCourse(ctx, "ENGL 40233", model.Course{Code: "IGNORED 10000", Title: "Archives", Category: model.SubjectDigitalCulture})
	require.NoError(t, err)
	assert.Equal(t, "ENGL 40233", updated.Code)

	got, err := svc.GetCourse(ctx, "ENGL 40233")
	require.NoError(t, err)
	assert.Equal(t, "Archives", got.Title)

	require.NoError(t, svc.DeleteCourse(ctx, "ENGL 40233"))
	assert.ErrorIs(t, svc.DeleteCourse(ctx, "ENGL 40233"), ErrCourseNotFound)
	_, err = svc.UpdateCourse(ctx, "ENGL 40233", model.Course{})
	assert.ErrorIs(t, err, ErrCourseNotFound)

	courses, err := svc.ListCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, len(fixtureCourses()))
}
