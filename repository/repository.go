package repository

import (
	"github.com/ccenter-uz/1009-organization-service-sub000/dal"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils/logger"
)

// RepositoryContainerInterface bundles every repository behind one contract
// for dependency injection.
type RepositoryContainerInterface interface {
	GetReferenceRepository() ReferenceRepositoryInterface
	GetOrganizationRepository() OrganizationRepositoryInterface
	GetOrganizationVersionRepository() OrganizationVersionRepositoryInterface
}

// Repository implements RepositoryContainerInterface.
type Repository struct {
	referenceRepo ReferenceRepositoryInterface
	orgRepo       OrganizationRepositoryInterface
	versionRepo   OrganizationVersionRepositoryInterface
}

// NewRepository creates the repository container with all repositories wired
// to the shared database client.
func NewRepository(db dal.DatabaseClientInterface, log logger.Logger) RepositoryContainerInterface {
	return &Repository{
		referenceRepo: NewReferenceRepository(db, log),
		orgRepo:       NewOrganizationRepository(db, log),
		versionRepo:   NewOrganizationVersionRepository(db, log),
	}
}

func (r *Repository) GetReferenceRepository() ReferenceRepositoryInterface {
	return r.referenceRepo
}

func (r *Repository) GetOrganizationRepository() OrganizationRepositoryInterface {
	return r.orgRepo
}

func (r *Repository) GetOrganizationVersionRepository() OrganizationVersionRepositoryInterface {
	return r.versionRepo
}
