package repository

import (
	"context"

	"github.com/ccenter-uz/1009-organization-service-sub000/models"
)

// ReferenceRepositoryInterface is the storage contract for every reference
// entity. The kind argument selects the table set from the entity registry.
type ReferenceRepositoryInterface interface {
	Create(ctx context.Context, kind models.EntityKind, rec *models.ReferenceRecord) (*models.ReferenceRecord, error)
	FindAll(ctx context.Context, kind models.EntityKind, filter models.ListFilter, take, skip int) ([]*models.ReferenceRecord, int, error)
	FindOne(ctx context.Context, kind models.EntityKind, id string) (*models.ReferenceRecord, error)
	Update(ctx context.Context, kind models.EntityKind, req *models.UpdateReferenceRequest) (*models.ReferenceRecord, error)
	Remove(ctx context.Context, kind models.EntityKind, id string, hard bool) error
	Restore(ctx context.Context, kind models.EntityKind, id string) error
}

// OrganizationRepositoryInterface is the storage contract for the live
// organization aggregate.
type OrganizationRepositoryInterface interface {
	Create(ctx context.Context, org *models.Organization) (*models.Organization, error)
	FindAll(ctx context.Context, filter models.OrganizationFilter, take, skip int) ([]*models.Organization, int, error)
	FindOne(ctx context.Context, id string) (*models.Organization, error)
	// ApplySnapshot overwrites the live record's scalars and replaces every
	// owned child collection from the snapshot, in one transaction, and marks
	// the record accepted.
	ApplySnapshot(ctx context.Context, snapshot *models.Organization) error
	SetStatus(ctx context.Context, id string, status models.OrganizationStatus) error
	// Status reports the lifecycle state of a record, including deleted ones
	// FindOne hides.
	Status(ctx context.Context, id string) (models.OrganizationStatus, error)
}

// OrganizationVersionRepositoryInterface is the storage contract for staged
// organization changes awaiting moderation.
type OrganizationVersionRepositoryInterface interface {
	Create(ctx context.Context, version *models.OrganizationVersion) (*models.OrganizationVersion, error)
	FindAll(ctx context.Context, filter models.OrganizationVersionFilter, take, skip int) ([]*models.OrganizationVersion, int, error)
	FindOne(ctx context.Context, id string) (*models.OrganizationVersion, error)
	// LatestPending returns the organization's single version with status
	// check, or ErrNotFound when nothing is awaiting moderation.
	LatestPending(ctx context.Context, organizationID string) (*models.OrganizationVersion, error)
	SetStatus(ctx context.Context, id string, status models.OrganizationStatus) error
}
