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

// OrganizationVersionService serves the moderation queue.
type OrganizationVersionService struct {
	versionRepo    repository.OrganizationVersionRepositoryInterface
	logger         logger.Logger
	defaultPerPage int
}

func NewOrganizationVersionService(versionRepo repository.OrganizationVersionRepositoryInterface, log logger.Logger, defaultPerPage int) *OrganizationVersionService {
	if defaultPerPage <= 0 {
		defaultPerPage = 10
	}
	return &OrganizationVersionService{
		versionRepo:    versionRepo,
		logger:         log,
		defaultPerPage: defaultPerPage,
	}
}

func (s *OrganizationVersionService) FindAll(ctx context.Context, filter models.OrganizationVersionFilter) ([]*models.OrganizationVersion, models.Pagination, error) {
	if filter.LanguageCode != "" && !models.IsValidLanguage(filter.LanguageCode) {
		return nil, models.Pagination{}, fmt.Errorf("unsupported language code %q", filter.LanguageCode)
	}

	page, perPage := filter.Page, filter.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = s.defaultPerPage
	}
	take, skip := perPage, (page-1)*perPage
	if filter.All {
		take, skip = 0, 0
	}

	versions, count, err := s.versionRepo.FindAll(ctx, filter, take, skip)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	pagination := utils.NewPagination(page, perPage, count)
	if filter.All {
		pagination.Take = 0
		pagination.Skip = 0
	}
	return versions, pagination, nil
}

func (s *OrganizationVersionService) FindOne(ctx context.Context, id string) (*models.OrganizationVersion, error) {
	if id == "" {
		return nil, errors.New("id is required")
	}
	return s.versionRepo.FindOne(ctx, id)
}
