package service

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/tcu-dcda/dcda-advisor/internal/model"
	"github.com/tcu-dcda/dcda-advisor/internal/term"
	ws "github.com/tcu-dcda/dcda-advisor/internal/websocket"
)

// Offerings errors.
var (
	ErrInvalidTerm     = errors.New("invalid term")
	ErrTermNotFound    = errors.New("offerings term not found")
	ErrTermExists      = errors.New("offerings term already exists")
	ErrSectionNotFound = errors.New("section not found")
)

// OfferingsService edits the per-term offerings documents and the active term.
type OfferingsService struct {
	docs    DocumentStore
	catalog *CatalogService
	log     zerolog.Logger
}

// NewOfferingsService creates a new OfferingsService.
func NewOfferingsService(docs DocumentStore, catalog *CatalogService, log zerolog.Logger) *OfferingsService {
	return &OfferingsService{
		docs:    docs,
		catalog: catalog,
		log:     log.With().Str("component", "offerings_service").Logger(),
	}
}

// ParseTermID accepts "fa26", "offerings_fa26" and "Fall 2026".
func ParseTermID(raw string) (term.Term, error) {
	t, err := term.Parse(raw)
	if err != nil {
		return term.Term{}, fmt.Errorf("%w: %q", ErrInvalidTerm, raw)
	}
	return t, nil
}

// ListTerms returns every stored term, oldest first, with the active one flagged.
func (s *OfferingsService) ListTerms(ctx context.Context) ([]model.OfferingsTerm, error) {
	docs, err := s.docs.ListByPrefix(ctx, model.ConfigCollection, term.DocumentPrefix)
	if err != nil {
		return nil, err
	}
	active, err := s.catalog.ActiveTerm(ctx)
	if err != nil {
		return nil, err
	}

	type row struct {
		t term.Term
		o model.CourseOfferings
	}
	rows := make([]row, 0, len(docs))
	for _, d := range docs {
		t, err := term.ParseKey(d.ID)
		if err != nil {
			s.log.Warn().Str("id", d.ID).Msg("Skipping offerings document with an unparseable id")
			continue
		}
		var o model.CourseOfferings
		if err := json.Unmarshal(d.Data, &o); err != nil {
			s.log.Warn().Err(err).Str("id", d.ID).Msg("Skipping undecodable offerings document")
			continue
		}
		rows = append(rows, row{t: t, o: o})
	}
	slices.SortFunc(rows, func(a, b row) int { return a.t.Compare(b.t) })

	out := make([]model.OfferingsTerm, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.OfferingsTerm{
			ID:           r.t.Key(),
			Label:        r.t.Label(),
			Active:       r.t == active,
			OfferedCount: len(r.o.OfferedCodes),
			SectionCount: len(r.o.Sections),
		})
	}
	return out, nil
}

// CreateTerm stores an empty offerings document for a new term.
func (s *OfferingsService) CreateTerm(ctx context.Context, req model.CreateTermRequest) (model.CourseOfferings, error) {
	season, err := term.ParseSeason(req.Season)
	if err != nil {
		return model.CourseOfferings{}, fmt.Errorf("%w: %v", ErrInvalidTerm, err)
	}
	t := term.New(season, req.Year)

	o, err := updateJSON(ctx, s.docs, t.DocumentID(), func(o *model.CourseOfferings, exists bool) error {
		if exists {
			return ErrTermExists
		}
		*o = emptyOfferings(t)
		o.Updated = s.today()
		return nil
	})
	if err != nil {
		return model.CourseOfferings{}, err
	}

	s.log.Info().Str("term", t.Label()).Msg("Offerings term created")
	return o, nil
}

// GetTerm returns the offerings of one term.
func (s *OfferingsService) GetTerm(ctx context.Context, termID string) (model.CourseOfferings, error) {
	t, err := ParseTermID(termID)
	if err != nil {
		return model.CourseOfferings{}, err
	}
	var o model.CourseOfferings
	if err := getJSON(ctx, s.docs, t.DocumentID(), &o); err != nil {
		if isNotFound(err) {
			return model.CourseOfferings{}, ErrTermNotFound
		}
		return model.CourseOfferings{}, err
	}
	return o, nil
}

// ImportTerm replaces a term's offerings wholesale, creating the term if needed.
func (s *OfferingsService) ImportTerm(ctx context.Context, termID string, in model.CourseOfferings) (model.CourseOfferings, error) {
	t, err := ParseTermID(termID)
	if err != nil {
		return model.CourseOfferings{}, err
	}
	o, err := s.edit(ctx, t, true, func(o *model.CourseOfferings) error {
		o.OfferedCodes = in.OfferedCodes
		o.Sections = in.Sections
		return nil
	})
	if err != nil {
		return model.CourseOfferings{}, err
	}
	s.log.Info().Str("term", t.Label()).Int("offered", len(o.OfferedCodes)).Int("sections", len(o.Sections)).Msg("Offerings imported")
	return o, nil
}

// ToggleOffered flips code in or out of the term's offered list and reports
// whether it is now offered.
func (s *OfferingsService) ToggleOffered(ctx context.Context, termID, code string) (bool, error) {
	t, err := ParseTermID(termID)
	if err != nil {
		return false, err
	}
	var offered bool
	_, err = s.edit(ctx, t, false, func(o *model.CourseOfferings) error {
		if i := slices.Index(o.OfferedCodes, code); i >= 0 {
			o.OfferedCodes = slices.Delete(o.OfferedCodes, i, i+1)
			offered = false
		} else {
			o.OfferedCodes = append(o.OfferedCodes, code)
			offered = true
		}
		return nil
	})
	return offered, err
}

// UpsertSection creates or replaces the section keyed by (code, section).
func (s *OfferingsService) UpsertSection(ctx context.Context, termID string, sec model.CourseSection) (model.CourseOfferings, error) {
	t, err := ParseTermID(termID)
	if err != nil {
		return model.CourseOfferings{}, err
	}
	return s.edit(ctx, t, false, func(o *model.CourseOfferings) error {
		i := slices.IndexFunc(o.Sections, func(e model.CourseSection) bool {
			return e.Code == sec.Code && e.Section == sec.Section
		})
		if i < 0 {
			o.Sections = append(o.Sections, sec)
		} else {
			o.Sections[i] = sec
		}
		return nil
	})
}

// DeleteSection removes the section keyed by (code, section).
func (s *OfferingsService) DeleteSection(ctx context.Context, termID, code, section string) error {
	t, err := ParseTermID(termID)
	if err != nil {
		return err
	}
	_, err = s.edit(ctx, t, false, func(o *model.CourseOfferings) error {
		before := len(o.Sections)
		o.Sections = slices.DeleteFunc(o.Sections, func(e model.CourseSection) bool {
			return e.Code == code && e.Section == section
		})
		if len(o.Sections) == before {
			return ErrSectionNotFound
		}
		return nil
	})
	return err
}

// SetActiveTerm selects the term the wizard plans from. The term must exist.
func (s *OfferingsService) SetActiveTerm(ctx context.Context, termID string) (term.Term, error) {
	t, err := ParseTermID(termID)
	if err != nil {
		return term.Term{}, err
	}
	if _, err := s.docs.Get(ctx, model.ConfigCollection, t.DocumentID()); err != nil {
		if isNotFound(err) {
			return term.Term{}, ErrTermNotFound
		}
		return term.Term{}, err
	}

	raw, err := json.Marshal(model.ActiveTerm{TermID: t.Key()})
	if err != nil {
		return term.Term{}, err
	}
	if _, err := s.docs.Put(ctx, model.ConfigCollection, model.DocActiveTerm, raw); err != nil {
		return term.Term{}, err
	}

	s.log.Info().Str("term", t.Label()).Msg("Active offerings term set")
	s.catalog.documentChanged(ctx, ws.ChangeEvent{Event: ws.EventOfferingsUpdated, TermID: t.Key(), Term: t.Label()})
	return t, nil
}

// edit applies fn to a term's offerings under the row lock, normalizes the
// result, and pushes it to the live snapshot.
func (s *OfferingsService) edit(ctx context.Context, t term.Term, create bool, fn func(o *model.CourseOfferings) error) (model.CourseOfferings, error) {
	o, err := updateJSON(ctx, s.docs, t.DocumentID(), func(o *model.CourseOfferings, exists bool) error {
		if !exists {
			if !create {
				return ErrTermNotFound
			}
			*o = emptyOfferings(t)
		}
		if err := fn(o); err != nil {
			return err
		}
		o.Term = t.Label()
		o.Updated = s.today()
		normalizeOfferings(o)
		return nil
	})
	if err != nil {
		return model.CourseOfferings{}, err
	}

	s.catalog.offeringsChanged(ctx, t, o)
	return o, nil
}

func (s *OfferingsService) today() string {
	return s.catalog.now().Format("2006-01-02")
}

// normalizeOfferings sorts and dedupes the offered codes and the sections,
// keeping the first section written for each (code, section).
func normalizeOfferings(o *model.CourseOfferings) {
	if o.OfferedCodes == nil {
		o.OfferedCodes = []string{}
	}
	slices.Sort(o.OfferedCodes)
	o.OfferedCodes = slices.Compact(o.OfferedCodes)

	if o.Sections == nil {
		o.Sections = []model.CourseSection{}
	}
	slices.SortStableFunc(o.Sections, func(a, b model.CourseSection) int {
		return cmp.Or(cmp.Compare(a.Code, b.Code), cmp.Compare(a.Section, b.Section))
	})
	o.Sections = slices.CompactFunc(o.Sections, func(a, b model.CourseSection) bool {
		return a.Code == b.Code && a.Section == b.Section
	})
}
