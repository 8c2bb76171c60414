package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcu-dcda/dcda-advisor/internal/model"
	ws "github.com/tcu-dcda/dcda-advisor/internal/websocket"
)

func newTestOfferings(t *testing.T) (*OfferingsService, *CatalogService, *recordingNotifier) {
	t.Helper()
	catalog, docs, n := loadedCatalog(t)
	return NewOfferingsService(docs, catalog, zerolog.Nop()), catalog, n
}

func TestOfferingsServiceToggleUpdatesLiveSnapshot(t *testing.T) {
	ctx := context.Background()
	svc, catalog, n := newTestOfferings(t)

	offered, err := svc.ToggleOffered(ctx, "fa26", "DCDA 40833")
	require.NoError(t, err)
	assert.True(t, offered)

	snap, err := catalog.Snapshot()
	require.NoError(t, err)
	assert.True(t, snap.IsOffered("DCDA 40833"))
	assert.Equal(t, ws.ChangeEvent{Event: ws.EventOfferingsUpdated, TermID: "fa26", Term: "Fall 2026", At: fixedNow}, n.last())

	o, err := svc.GetTerm(ctx, "Fall 2026")
	require.NoError(t, err)
	assert.Equal(t, []string{"DCDA 40833", "ENGL 20833", "INSC 20153", "MATH 10043"}, o.OfferedCodes, "offered codes stay sorted")
	assert.Equal(t, "2026-10-16", o.Updated)

	offered, err = svc.ToggleOffered(ctx, "offerings_fa26", "DCDA 40833")
	require.NoError(t, err)
	assert.False(t, offered)
	snap, _ = catalog.Snapshot()
	assert.False(t, snap.IsOffered("DCDA 40833"))
}

func TestOfferingsServiceOtherTermLeavesSnapshot(t *testing.T) {
	ctx := context.Background()
	svc, catalog, _ := newTestOfferings(t)

	_, err := svc.CreateTerm(ctx, model.CreateTermRequest{Season: "Spring", Year: 2027})
	require.NoError(t, err)
	_, err = svc.CreateTerm(ctx, model.CreateTermRequest{Season: "Spring", Year: 2027})
	assert.ErrorIs(t, err, ErrTermExists)

	_, err = svc.ToggleOffered(ctx, "sp27", "DCDA 40833")
	require.NoError(t, err)

	snap, err := catalog.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "Fall 2026", snap.CurrentTerm().Label())
	assert.False(t, snap.IsOffered("DCDA 40833"))
}

func TestOfferingsServiceSections(t *testing.T) {
	ctx := context.Background()
	svc, catalog, _ := newTestOfferings(t)

	_, err := svc.UpsertSection(ctx, "fa26", model.CourseSection{Code: "DCDA 40833", Section: "001", Schedule: "W 18:00"})
	require.NoError(t, err)
	o, err := svc.UpsertSection(ctx, "fa26", model.CourseSection{Code: "ENGL 20833", Section: "010", Schedule: "TR 11:00"})
	require.NoError(t, err)

	require.Len(t, o.Sections, 2)
	assert.Equal(t, "DCDA 40833", o.Sections[0].Code, "sections are ordered by code")
	assert.Equal(t, "TR 11:00", o.Sections[1].Schedule, "same key replaces")

	snap, err := catalog.Snapshot()
	require.NoError(t, err)
	assert.Len(t, snap.Sections("DCDA 40833"), 1)

	require.NoError(t, svc.DeleteSection(ctx, "fa26", "DCDA 40833", "001"))
	assert.ErrorIs(t, svc.DeleteSection(ctx, "fa26", "DCDA 40833", "001"), ErrSectionNotFound)
	_, err = svc.UpsertSection(ctx, "sp30", model.CourseSection{Code: "DCDA 40833", Section: "001"})
	assert.ErrorIs(t, err, ErrTermNotFound)
}

func TestOfferingsServiceImportAndActivate(t *testing.T) {
	ctx := context.Background()
	svc, catalog, _ := newTestOfferings(t)

	o, err := svc.ImportTerm(ctx, "sp27", model.CourseOfferings{
		Term:         "ignored",
		OfferedCodes: []string{"MATH 10043", "DCDA 40833", "MATH 10043"},
		Sections: []model.CourseSection{
			{Code: "MATH 10043", Section: "2", Schedule: "first"},
			{Code: "MATH 10043", Section: "1"},
			{Code: "MATH 10043", Section: "2", Schedule: "second"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Spring 2027", o.Term)
	assert.Equal(t, []string{"DCDA 40833", "MATH 10043"}, o.OfferedCodes)
	require.Len(t, o.Sections, 2)
	assert.Equal(t, "first", o.Sections[1].Schedule)

	terms, err := svc.ListTerms(ctx)
	require.NoError(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, model.OfferingsTerm{ID: "fa26", Label: "Fall 2026", Active: true, OfferedCount: 3, SectionCount: 1}, terms[0])
	assert.Equal(t, "sp27", terms[1].ID)
	assert.False(t, terms[1].Active)

	active, err := svc.SetActiveTerm(ctx, "sp27")
	require.NoError(t, err)
	assert.Equal(t, "Spring 2027", active.Label())

	snap, err := catalog.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "Spring 2027", snap.CurrentTerm().Label())
	assert.True(t, snap.IsOffered("DCDA 40833"))

	_, err = svc.SetActiveTerm(ctx, "fa30")
	assert.ErrorIs(t, err, ErrTermNotFound)
	_, err = svc.SetActiveTerm(ctx, "someday")
	assert.ErrorIs(t, err, ErrInvalidTerm)
}
