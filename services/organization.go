package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ccenter-uz/1009-organization-service-sub000/models"
	"github.com/ccenter-uz/1009-organization-service-sub000/repository"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils/logger"
)

// OrganizationService owns the aggregate lifecycle: direct writes for
// moderators, staged versions for everyone else, and the confirmation state
// machine that moves staged changes onto the live record.
type OrganizationService struct {
	orgRepo        repository.OrganizationRepositoryInterface
	versionRepo    repository.OrganizationVersionRepositoryInterface
	referenceRepo  repository.ReferenceRepositoryInterface
	logger         logger.Logger
	defaultPerPage int
}

func NewOrganizationService(
	orgRepo repository.OrganizationRepositoryInterface,
	versionRepo repository.OrganizationVersionRepositoryInterface,
	referenceRepo repository.ReferenceRepositoryInterface,
	log logger.Logger,
	defaultPerPage int,
) *OrganizationService {
	if defaultPerPage <= 0 {
		defaultPerPage = 10
	}
	return &OrganizationService{
		orgRepo:        orgRepo,
		versionRepo:    versionRepo,
		referenceRepo:  referenceRepo,
		logger:         log,
		defaultPerPage: defaultPerPage,
	}
}

func (s *OrganizationService) Create(ctx context.Context, req *models.CreateOrganizationRequest) (*models.Organization, error) {
	if req == nil {
		return nil, errors.New("create request is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.New("organization name is required")
	}
	if err := s.validateReferences(ctx, &req.Organization, true); err != nil {
		return nil, err
	}

	org := req.Organization
	org.ID = ""
	org.CreatedBy = req.Role
	org.Status = models.OrganizationStatusCheck
	if req.Role.IsModerator() {
		org.Status = models.OrganizationStatusAccepted
	}

	created, err := s.orgRepo.Create(ctx, &org)
	if err != nil {
		return nil, err
	}

	// Every record starts with a create entry in the version log so the
	// moderation history is complete from birth.
	_, err = s.versionRepo.Create(ctx, &models.OrganizationVersion{
		OrganizationID: created.ID,
		Method:         models.MethodCreate,
		Status:         created.Status,
		Snapshot:       taggedSnapshot(created),
	})
	if err != nil {
		return nil, fmt.Errorf("organization %s created but version log failed: %w", created.ID, err)
	}

	s.logger.WithField("organization_id", created.ID).
		Infof("organization created by %s with status %s", req.Role, created.Status)
	return created, nil
}

func (s *OrganizationService) FindAll(ctx context.Context, filter models.OrganizationFilter) ([]*models.Organization, models.Pagination, error) {
	if filter.LanguageCode != "" && !models.IsValidLanguage(filter.LanguageCode) {
		return nil, models.Pagination{}, fmt.Errorf("unsupported language code %q", filter.LanguageCode)
	}

	page, perPage := s.normalizePaging(filter.Page, filter.PerPage)
	take, skip := perPage, (page-1)*perPage
	if filter.All {
		take, skip = 0, 0
	}

	orgs, count, err := s.orgRepo.FindAll(ctx, filter, take, skip)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	for _, org := range orgs {
		formatRelated(org, filter.LanguageCode)
	}

	pagination := utils.NewPagination(page, perPage, count)
	if filter.All {
		pagination.Take = 0
		pagination.Skip = 0
	}
	return orgs, pagination, nil
}

func (s *OrganizationService) FindOne(ctx context.Context, id string, lang models.LanguageCode) (*models.Organization, error) {
	if id == "" {
		return nil, errors.New("id is required")
	}
	org, err := s.orgRepo.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	formatRelated(org, lang)
	return org, nil
}

// Update stages a replacement snapshot. Moderator updates are confirmed in
// the same call; everyone else waits in the moderation queue.
func (s *OrganizationService) Update(ctx context.Context, req *models.UpdateOrganizationRequest) (*models.OrganizationVersion, error) {
	if req == nil || req.ID == "" {
		return nil, errors.New("id is required")
	}

	current, err := s.orgRepo.FindOne(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if err := s.validateReferences(ctx, &req.Organization, true); err != nil {
		return nil, err
	}

	snapshot := taggedSnapshot(&req.Organization)
	snapshot.Status = models.OrganizationStatusAccepted
	snapshot.CreatedBy = current.CreatedBy
	snapshot.CreatedAt = current.CreatedAt

	version, err := s.versionRepo.Create(ctx, &models.OrganizationVersion{
		OrganizationID: req.ID,
		Method:         models.MethodUpdate,
		Status:         models.OrganizationStatusCheck,
		Snapshot:       snapshot,
	})
	if err != nil {
		return nil, err
	}

	if req.Role.IsModerator() {
		return s.Confirm(ctx, &models.ConfirmOrganizationRequest{
			ID:     req.ID,
			Status: models.OrganizationStatusAccepted,
			Role:   req.Role,
		})
	}
	return version, nil
}

// Confirm applies a moderator verdict to the organization's pending version.
// What happens to the live record depends on the (verdict, method) pair.
func (s *OrganizationService) Confirm(ctx context.Context, req *models.ConfirmOrganizationRequest) (*models.OrganizationVersion, error) {
	if req == nil || req.ID == "" {
		return nil, errors.New("id is required")
	}
	if !req.Role.IsModerator() {
		return nil, models.ErrNotModerator
	}

	version, err := s.versionRepo.LatestPending(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	switch req.Status {
	case models.OrganizationStatusRejected:
		if err := s.versionRepo.SetStatus(ctx, version.ID, models.OrganizationStatusRejected); err != nil {
			return nil, err
		}
		version.Status = models.OrganizationStatusRejected

	case models.OrganizationStatusAccepted:
		switch version.Method {
		case models.MethodCreate:
			if err := s.orgRepo.SetStatus(ctx, req.ID, models.OrganizationStatusAccepted); err != nil {
				return nil, err
			}
		case models.MethodUpdate:
			snapshot := version.Snapshot
			snapshot.ID = req.ID
			snapshot.Status = models.OrganizationStatusAccepted
			if err := s.orgRepo.ApplySnapshot(ctx, &snapshot); err != nil {
				return nil, err
			}
		case models.MethodDelete:
			if err := s.orgRepo.SetStatus(ctx, req.ID, models.OrganizationStatusDeleted); err != nil {
				return nil, err
			}
			if err := s.versionRepo.SetStatus(ctx, version.ID, models.OrganizationStatusDeleted); err != nil {
				return nil, err
			}
			version.Status = models.OrganizationStatusDeleted
			s.logger.WithField("organization_id", req.ID).Info("delete confirmed")
			return version, nil
		case models.MethodRestore:
			if err := s.orgRepo.SetStatus(ctx, req.ID, models.OrganizationStatusAccepted); err != nil {
				return nil, err
			}
		default:
			return nil, models.ErrInvalidTransition
		}

		if err := s.versionRepo.SetStatus(ctx, version.ID, models.OrganizationStatusAccepted); err != nil {
			return nil, err
		}
		version.Status = models.OrganizationStatusAccepted

	default:
		return nil, models.ErrInvalidTransition
	}

	s.logger.WithField("organization_id", req.ID).
		Infof("moderation verdict %s applied to %s version", req.Status, version.Method)
	return version, nil
}

// Remove soft-deletes immediately when a moderator asks for it with the
// delete flag; every other request stages a delete for moderation.
func (s *OrganizationService) Remove(ctx context.Context, req *models.RemoveOrganizationRequest) error {
	if req == nil || req.ID == "" {
		return errors.New("id is required")
	}

	org, err := s.orgRepo.FindOne(ctx, req.ID)
	if err != nil {
		return err
	}

	if req.Role.IsModerator() && req.Delete {
		if _, err := s.versionRepo.Create(ctx, &models.OrganizationVersion{
			OrganizationID: req.ID,
			Method:         models.MethodDelete,
			Status:         models.OrganizationStatusDeleted,
			Snapshot:       taggedSnapshot(org),
		}); err != nil {
			return err
		}
		return s.orgRepo.SetStatus(ctx, req.ID, models.OrganizationStatusDeleted)
	}

	_, err = s.versionRepo.Create(ctx, &models.OrganizationVersion{
		OrganizationID: req.ID,
		Method:         models.MethodDelete,
		Status:         models.OrganizationStatusCheck,
		Snapshot:       taggedSnapshot(org),
	})
	return err
}

// Restore brings a soft-deleted record back: immediately for moderators,
// through the moderation queue otherwise.
func (s *OrganizationService) Restore(ctx context.Context, req *models.RestoreOrganizationRequest) error {
	if req == nil || req.ID == "" {
		return errors.New("id is required")
	}

	status, err := s.orgRepo.Status(ctx, req.ID)
	if err != nil {
		return err
	}
	if status != models.OrganizationStatusDeleted {
		return models.ErrRestoreActive
	}

	if req.Role.IsModerator() {
		if _, err := s.versionRepo.Create(ctx, &models.OrganizationVersion{
			OrganizationID: req.ID,
			Method:         models.MethodRestore,
			Status:         models.OrganizationStatusAccepted,
			Snapshot:       models.Organization{ID: req.ID},
		}); err != nil {
			return err
		}
		return s.orgRepo.SetStatus(ctx, req.ID, models.OrganizationStatusAccepted)
	}

	_, err = s.versionRepo.Create(ctx, &models.OrganizationVersion{
		OrganizationID: req.ID,
		Method:         models.MethodRestore,
		Status:         models.OrganizationStatusCheck,
		Snapshot:       models.Organization{ID: req.ID},
	})
	return err
}

// taggedSnapshot copies the aggregate for a shadow row. Phone and picture
// rows carry the sync marker on version records only, so the copies are
// tagged without touching the caller's slices.
func taggedSnapshot(org *models.Organization) models.Organization {
	snap := *org
	if len(org.Phones) > 0 {
		snap.Phones = make([]models.Phone, len(org.Phones))
		copy(snap.Phones, org.Phones)
		for i := range snap.Phones {
			snap.Phones[i].Action = models.ChildActionGet
		}
	}
	if len(org.Pictures) > 0 {
		snap.Pictures = make([]models.Picture, len(org.Pictures))
		copy(snap.Pictures, org.Pictures)
		for i := range snap.Pictures {
			snap.Pictures[i].Action = models.ChildActionGet
		}
	}
	return snap
}

func (s *OrganizationService) normalizePaging(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = s.defaultPerPage
	}
	return page, perPage
}

// validateReferences checks every set foreign key against the reference
// tables before any row is written, so a bad reference never leaves a
// partial aggregate behind.
func (s *OrganizationService) validateReferences(ctx context.Context, org *models.Organization, requireMandatory bool) error {
	if requireMandatory {
		set := make(map[models.EntityKind]bool)
		for _, ref := range org.GeoRefs() {
			set[ref.Kind] = true
		}
		for _, kind := range models.RequiredOrganizationRefs {
			if !set[kind] {
				return fmt.Errorf("%s_id is required", kind)
			}
		}
	}

	check := func(kind models.EntityKind, id string) error {
		if id == "" {
			return nil
		}
		if _, err := s.referenceRepo.FindOne(ctx, kind, id); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return fmt.Errorf("%s %s: %w", kind, id, models.ErrNotFound)
			}
			return err
		}
		return nil
	}

	for _, ref := range org.GeoRefs() {
		if err := check(ref.Kind, ref.ID); err != nil {
			return err
		}
	}
	for _, p := range org.Phones {
		if err := check(models.EntityPhoneType, p.PhoneTypeID); err != nil {
			return err
		}
	}
	for _, nb := range org.Nearbees {
		if err := check(models.EntityNearby, nb.NearbyID); err != nil {
			return err
		}
	}
	for _, ps := range org.ProductServices {
		if err := check(models.EntityProductServiceCategory, ps.CategoryID); err != nil {
			return err
		}
		if err := check(models.EntityProductServiceSubCategory, ps.SubCategoryID); err != nil {
			return err
		}
	}
	return nil
}

// formatRelated collapses resolved reference names to the requested language.
func formatRelated(org *models.Organization, lang models.LanguageCode) {
	if lang == "" || org == nil {
		return
	}
	for _, entity := range org.Related {
		if name, ok := entity.Name.(models.LocalizedName); ok {
			entity.Name = name[lang]
		}
	}
}
