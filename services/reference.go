package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ccenter-uz/1009-organization-service-sub000/models"
	"github.com/ccenter-uz/1009-organization-service-sub000/repository"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils/logger"
)

// ReferenceService serves every reference entity through the registry.
type ReferenceService struct {
	referenceRepo  repository.ReferenceRepositoryInterface
	logger         logger.Logger
	defaultPerPage int
}

func NewReferenceService(referenceRepo repository.ReferenceRepositoryInterface, log logger.Logger, defaultPerPage int) *ReferenceService {
	if defaultPerPage <= 0 {
		defaultPerPage = 10
	}
	return &ReferenceService{
		referenceRepo:  referenceRepo,
		logger:         log,
		defaultPerPage: defaultPerPage,
	}
}

func (s *ReferenceService) Create(ctx context.Context, kind models.EntityKind, req *models.CreateReferenceRequest, lang models.LanguageCode) (*models.ReferenceEntity, error) {
	cfg, ok := models.Entities[kind]
	if !ok {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	if req == nil || len(req.Name) == 0 {
		return nil, errors.New("at least one name translation is required")
	}
	if err := validateTranslations(req.Name, req.OldName, req.NewName); err != nil {
		return nil, err
	}
	if err := s.validateParents(ctx, cfg, req.ParentIDs, true); err != nil {
		return nil, err
	}

	rec := &models.ReferenceRecord{
		Names:     req.Name,
		ParentIDs: req.ParentIDs,
	}
	if cfg.HasHistory() {
		rec.OldNames = req.OldName
		rec.NewNames = req.NewName
	}

	created, err := s.referenceRepo.Create(ctx, kind, rec)
	if err != nil {
		return nil, err
	}
	return s.format(ctx, cfg, created, lang, true)
}

func (s *ReferenceService) FindAll(ctx context.Context, kind models.EntityKind, filter models.ListFilter) ([]*models.ReferenceEntity, models.Pagination, error) {
	cfg, ok := models.Entities[kind]
	if !ok {
		return nil, models.Pagination{}, fmt.Errorf("unknown entity kind %q", kind)
	}
	if filter.LanguageCode != "" && !models.IsValidLanguage(filter.LanguageCode) {
		return nil, models.Pagination{}, fmt.Errorf("unsupported language code %q", filter.LanguageCode)
	}

	page, perPage := s.normalizePaging(filter.Page, filter.PerPage)
	take, skip := perPage, (page-1)*perPage
	if filter.All {
		take, skip = 0, 0
	}

	records, count, err := s.referenceRepo.FindAll(ctx, kind, filter, take, skip)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	entities := make([]*models.ReferenceEntity, 0, len(records))
	for _, rec := range records {
		// Listings skip parent resolution; one level of the tree per call.
		entity, err := s.format(ctx, cfg, rec, filter.LanguageCode, false)
		if err != nil {
			return nil, models.Pagination{}, err
		}
		entities = append(entities, entity)
	}

	pagination := utils.NewPagination(page, perPage, count)
	if filter.All {
		pagination.Take = 0
		pagination.Skip = 0
	}
	return entities, pagination, nil
}

func (s *ReferenceService) FindOne(ctx context.Context, kind models.EntityKind, id string, lang models.LanguageCode) (*models.ReferenceEntity, error) {
	cfg, ok := models.Entities[kind]
	if !ok {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	if id == "" {
		return nil, errors.New("id is required")
	}

	rec, err := s.referenceRepo.FindOne(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return s.format(ctx, cfg, rec, lang, true)
}

func (s *ReferenceService) Update(ctx context.Context, kind models.EntityKind, req *models.UpdateReferenceRequest, lang models.LanguageCode) (*models.ReferenceEntity, error) {
	cfg, ok := models.Entities[kind]
	if !ok {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	if req == nil || req.ID == "" {
		return nil, errors.New("id is required")
	}
	if err := validateTranslations(req.Name, req.OldName, req.NewName); err != nil {
		return nil, err
	}
	if err := s.validateParents(ctx, cfg, req.ParentIDs, false); err != nil {
		return nil, err
	}

	updated, err := s.referenceRepo.Update(ctx, kind, req)
	if err != nil {
		return nil, err
	}
	return s.format(ctx, cfg, updated, lang, true)
}

func (s *ReferenceService) Remove(ctx context.Context, kind models.EntityKind, req *models.RemoveReferenceRequest) error {
	if req == nil || req.ID == "" {
		return errors.New("id is required")
	}
	return s.referenceRepo.Remove(ctx, kind, req.ID, req.Delete)
}

func (s *ReferenceService) Restore(ctx context.Context, kind models.EntityKind, id string) error {
	if id == "" {
		return errors.New("id is required")
	}
	return s.referenceRepo.Restore(ctx, kind, id)
}

func (s *ReferenceService) normalizePaging(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = s.defaultPerPage
	}
	return page, perPage
}

func validateTranslations(sets ...[]models.Translation) error {
	for _, set := range sets {
		seen := make(map[models.LanguageCode]bool, len(set))
		for _, t := range set {
			if !models.IsValidLanguage(t.LanguageCode) {
				return fmt.Errorf("unsupported language code %q", t.LanguageCode)
			}
			if t.Name == "" {
				return fmt.Errorf("empty name for language %q", t.LanguageCode)
			}
			if seen[t.LanguageCode] {
				return fmt.Errorf("duplicate translation for language %q", t.LanguageCode)
			}
			seen[t.LanguageCode] = true
		}
	}
	return nil
}

// validateParents checks parent references against the registry. With
// requireAll set, every non-optional parent must be present; in either case
// a provided parent id must point at an active record.
func (s *ReferenceService) validateParents(ctx context.Context, cfg models.EntityConfig, parentIDs map[string]string, requireAll bool) error {
	for _, p := range cfg.Parents {
		id := parentIDs[p.Column]
		if id == "" {
			if requireAll && !p.Optional {
				return fmt.Errorf("%s is required", p.Column)
			}
			continue
		}
		if _, err := s.referenceRepo.FindOne(ctx, p.Kind, id); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return fmt.Errorf("%s %s: %w", p.Kind, id, models.ErrNotFound)
			}
			return err
		}
	}
	for column := range parentIDs {
		known := false
		for _, p := range cfg.Parents {
			if p.Column == column {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%s does not reference %s", cfg.Kind, column)
		}
	}
	return nil
}

// format turns a raw record into the API shape, optionally resolving parent
// entities one level deep.
func (s *ReferenceService) format(ctx context.Context, cfg models.EntityConfig, rec *models.ReferenceRecord, lang models.LanguageCode, resolveParents bool) (*models.ReferenceEntity, error) {
	entity := &models.ReferenceEntity{
		ID:        rec.ID,
		Status:    rec.Status,
		Name:      utils.FormatName(rec.Names, lang),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if cfg.HasHistory() {
		if len(rec.OldNames) > 0 {
			entity.OldName = utils.FormatName(rec.OldNames, lang)
		}
		if len(rec.NewNames) > 0 {
			entity.NewName = utils.FormatName(rec.NewNames, lang)
		}
	}

	if !resolveParents {
		return entity, nil
	}
	for _, p := range cfg.Parents {
		id := rec.ParentIDs[p.Column]
		if id == "" {
			continue
		}
		parentCfg := models.Entities[p.Kind]
		parentRec, err := s.referenceRepo.FindOne(ctx, p.Kind, id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				// Parent soft-deleted after the child was created.
				continue
			}
			return nil, err
		}
		parent, err := s.format(ctx, parentCfg, parentRec, lang, false)
		if err != nil {
			return nil, err
		}
		if entity.Parents == nil {
			entity.Parents = make(map[models.EntityKind]*models.ReferenceEntity)
		}
		entity.Parents[p.Kind] = parent
	}
	return entity, nil
}
