package services

import (
	"context"

	"github.com/ccenter-uz/1009-organization-service-sub000/models"
)

// ReferenceServiceInterface defines the contract for reference-entity
// operations. The kind argument selects the entity from the registry.
type ReferenceServiceInterface interface {
	Create(ctx context.Context, kind models.EntityKind, req *models.CreateReferenceRequest, lang models.LanguageCode) (*models.ReferenceEntity, error)
	FindAll(ctx context.Context, kind models.EntityKind, filter models.ListFilter) ([]*models.ReferenceEntity, models.Pagination, error)
	FindOne(ctx context.Context, kind models.EntityKind, id string, lang models.LanguageCode) (*models.ReferenceEntity, error)
	Update(ctx context.Context, kind models.EntityKind, req *models.UpdateReferenceRequest, lang models.LanguageCode) (*models.ReferenceEntity, error)
	Remove(ctx context.Context, kind models.EntityKind, req *models.RemoveReferenceRequest) error
	Restore(ctx context.Context, kind models.EntityKind, id string) error
}

// OrganizationServiceInterface defines the contract for the organization
// aggregate and its moderation workflow.
type OrganizationServiceInterface interface {
	Create(ctx context.Context, req *models.CreateOrganizationRequest) (*models.Organization, error)
	FindAll(ctx context.Context, filter models.OrganizationFilter) ([]*models.Organization, models.Pagination, error)
	FindOne(ctx context.Context, id string, lang models.LanguageCode) (*models.Organization, error)
	Update(ctx context.Context, req *models.UpdateOrganizationRequest) (*models.OrganizationVersion, error)
	Confirm(ctx context.Context, req *models.ConfirmOrganizationRequest) (*models.OrganizationVersion, error)
	Remove(ctx context.Context, req *models.RemoveOrganizationRequest) error
	Restore(ctx context.Context, req *models.RestoreOrganizationRequest) error
}

// OrganizationVersionServiceInterface defines the contract for the
// moderation queue listings.
type OrganizationVersionServiceInterface interface {
	FindAll(ctx context.Context, filter models.OrganizationVersionFilter) ([]*models.OrganizationVersion, models.Pagination, error)
	FindOne(ctx context.Context, id string) (*models.OrganizationVersion, error)
}

// ServiceContainerInterface defines the main service container contract.
type ServiceContainerInterface interface {
	GetReferenceService() ReferenceServiceInterface
	GetOrganizationService() OrganizationServiceInterface
	GetOrganizationVersionService() OrganizationVersionServiceInterface
}
