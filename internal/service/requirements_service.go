package service

import (
	"context"
	"errors"
	"slices"

	"github.com/rs/zerolog"

	"github.com/tcu-dcda/dcda-advisor/internal/model"
	ws "github.com/tcu-dcda/dcda-advisor/internal/websocket"
)

// Requirements errors.
var (
	ErrUnknownDegree      = errors.New("unknown degree type")
	ErrUnknownSection     = errors.New("unknown requirement section")
	ErrCategoryNotFound   = errors.New("requirement category not found")
	ErrRuleNotFound       = errors.New("mutual exclusion rule not found")
	ErrRequirementsAbsent = errors.New("requirements document does not exist")
)

// RequirementsService edits the requirements document.
type RequirementsService struct {
	docs    DocumentStore
	catalog *CatalogService
	log     zerolog.Logger
}

// NewRequirementsService creates a new RequirementsService.
func NewRequirementsService(docs DocumentStore, catalog *CatalogService, log zerolog.Logger) *RequirementsService {
	return &RequirementsService{
		docs:    docs,
		catalog: catalog,
		log:     log.With().Str("component", "requirements_service").Logger(),
	}
}

// Get returns the stored requirements document.
func (s *RequirementsService) Get(ctx context.Context) (model.Requirements, error) {
	var reqs model.Requirements
	err := getJSON(ctx, s.docs, model.DocRequirements, &reqs)
	if isNotFound(err) {
		return model.Requirements{}, ErrRequirementsAbsent
	}
	return reqs, err
}

// section returns a pointer into reqs for (degree, section). The electives
// section is created on demand when create is set.
func section(reqs *model.Requirements, degree model.DegreeType, name model.RequirementSectionName, create bool) (*model.RequirementSection, error) {
	if !degree.Valid() {
		return nil, ErrUnknownDegree
	}
	tree := reqs.Degree(degree)
	switch name {
	case model.SectionRequired:
		return &tree.Required, nil
	case model.SectionElectives:
		if tree.Electives == nil {
			if !create {
				return nil, ErrCategoryNotFound
			}
			tree.Electives = &model.RequirementSection{Name: "Electives"}
		}
		return tree.Electives, nil
	}
	return nil, ErrUnknownSection
}

// SaveCategory creates or replaces the category id in {degree}.{section}.
func (s *RequirementsService) SaveCategory(ctx context.Context, degree model.DegreeType, name model.RequirementSectionName, cat model.RequirementCategory) (model.RequirementCategory, error) {
	_, err := updateJSON(ctx, s.docs, model.DocRequirements, func(reqs *model.Requirements, exists bool) error {
		if !exists {
			return ErrRequirementsAbsent
		}
		sec, err := section(reqs, degree, name, true)
		if err != nil {
			return err
		}
		i := slices.IndexFunc(sec.Categories, func(c model.RequirementCategory) bool { return c.ID == cat.ID })
		if i < 0 {
			sec.Categories = append(sec.Categories, cat)
		} else {
			sec.Categories[i] = cat
		}
		return nil
	})
	if err != nil {
		return model.RequirementCategory{}, err
	}

	s.log.Info().Str("degree", string(degree)).Str("section", string(name)).Str("category", cat.ID).Msg("Requirement category saved")
	s.catalog.documentChanged(ctx, ws.ChangeEvent{Event: ws.EventRequirementsUpdated})
	return cat, nil
}

// DeleteCategory removes the category id from {degree}.{section}.
func (s *RequirementsService) DeleteCategory(ctx context.Context, degree model.DegreeType, name model.RequirementSectionName, id string) error {
	_, err := updateJSON(ctx, s.docs, model.DocRequirements, func(reqs *model.Requirements, exists bool) error {
		if !exists {
			return ErrRequirementsAbsent
		}
		sec, err := section(reqs, degree, name, false)
		if err != nil {
			return err
		}
		before := len(sec.Categories)
		sec.Categories = slices.DeleteFunc(sec.Categories, func(c model.RequirementCategory) bool { return c.ID == id })
		if len(sec.Categories) == before {
			return ErrCategoryNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("degree", string(degree)).Str("section", string(name)).Str("category", id).Msg("Requirement category deleted")
	s.catalog.documentChanged(ctx, ws.ChangeEvent{Event: ws.EventRequirementsUpdated})
	return nil
}

// AddExclusionRule appends a mutual exclusion rule and returns its index.
func (s *RequirementsService) AddExclusionRule(ctx context.Context, rule model.MutualExclusionRule) (int, error) {
	reqs, err := updateJSON(ctx, s.docs, model.DocRequirements, func(reqs *model.Requirements, exists bool) error {
		if !exists {
			return ErrRequirementsAbsent
		}
		reqs.MutuallyExclusive = append(reqs.MutuallyExclusive, rule)
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.catalog.documentChanged(ctx, ws.ChangeEvent{Event: ws.EventRequirementsUpdated})
	return len(reqs.MutuallyExclusive) - 1, nil
}

// UpdateExclusionRule replaces the rule at index.
func (s *RequirementsService) UpdateExclusionRule(ctx context.Context, index int, rule model.MutualExclusionRule) error {
	_, err := updateJSON(ctx, s.docs, model.DocRequirements, func(reqs *model.Requirements, exists bool) error {
		if !exists {
			return ErrRequirementsAbsent
		}
		if index < 0 || index >= len(reqs.MutuallyExclusive) {
			return ErrRuleNotFound
		}
		reqs.MutuallyExclusive[index] = rule
		return nil
	})
	if err != nil {
		return err
	}

	s.catalog.documentChanged(ctx, ws.ChangeEvent{Event: ws.EventRequirementsUpdated})
	return nil
}

// DeleteExclusionRule removes the rule at index. Later rules shift down.
func (s *RequirementsService) DeleteExclusionRule(ctx context.Context, index int) error {
	_, err := updateJSON(ctx, s.docs, model.DocRequirements, func(reqs *model.Requirements, exists bool) error {
		if !exists {
			return ErrRequirementsAbsent
		}
		if index < 0 || index >= len(reqs.MutuallyExclusive) {
			return ErrRuleNotFound
		}
		reqs.MutuallyExclusive = slices.Delete(reqs.MutuallyExclusive, index, index+1)
		return nil
	})
	if err != nil {
		return err
	}

	s.catalog.documentChanged(ctx, ws.ChangeEvent{Event: ws.EventRequirementsUpdated})
	return nil
}

// Replace overwrites the whole document. Used by the seed tool.
func (s *RequirementsService) Replace(ctx context.Context, reqs model.Requirements) error {
	_, err := updateJSON(ctx, s.docs, model.DocRequirements, func(current *model.Requirements, _ bool) error {
		*current = reqs
		return nil
	})
	if err != nil {
		return err
	}
	s.catalog.publish(ctx, ws.ChangeEvent{Event: ws.EventRequirementsUpdated})
	return nil
}
