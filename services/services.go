package services

import (
	"context"

	"github.com/ccenter-uz/1009-organization-service-sub000/models"
	"github.com/ccenter-uz/1009-organization-service-sub000/repository"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils/logger"
)

// Service implements ServiceContainerInterface.
type Service struct {
	referenceService ReferenceServiceInterface
	orgService       OrganizationServiceInterface
	versionService   OrganizationVersionServiceInterface
}

// NewService creates a new service container with all dependencies injected.
func NewService(
	ctx context.Context,
	repoContainer repository.RepositoryContainerInterface,
	log logger.Logger,
	config *models.Config,
) ServiceContainerInterface {
	perPage := config.DefaultPerPage

	return &Service{
		referenceService: NewReferenceService(repoContainer.GetReferenceRepository(), log, perPage),
		orgService: NewOrganizationService(
			repoContainer.GetOrganizationRepository(),
			repoContainer.GetOrganizationVersionRepository(),
			repoContainer.GetReferenceRepository(),
			log,
			perPage,
		),
		versionService: NewOrganizationVersionService(repoContainer.GetOrganizationVersionRepository(), log, perPage),
	}
}

// GetReferenceService returns the reference-entity service interface.
func (s *Service) GetReferenceService() ReferenceServiceInterface {
	return s.referenceService
}

// GetOrganizationService returns the organization service interface.
func (s *Service) GetOrganizationService() OrganizationServiceInterface {
	return s.orgService
}

// GetOrganizationVersionService returns the moderation queue service
// interface.
func (s *Service) GetOrganizationVersionService() OrganizationVersionServiceInterface {
	return s.versionService
}
