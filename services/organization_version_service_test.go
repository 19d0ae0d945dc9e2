package services

import (
	"context"
	"testing"

	"github.com/ccenter-uz/1009-organization-service-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type OrganizationVersionServiceTestSuite struct {
	suite.Suite
	versionRepo *MockOrganizationVersionRepository
	service     *OrganizationVersionService
	ctx         context.Context
}

func (suite *OrganizationVersionServiceTestSuite) SetupTest() {
	suite.versionRepo = &MockOrganizationVersionRepository{}
	suite.service = NewOrganizationVersionService(suite.versionRepo, newQuietLogger(), 10)
	suite.ctx = context.Background()
}

func (suite *OrganizationVersionServiceTestSuite) TestFindAllPagination() {
	suite.versionRepo.On("FindAll", suite.ctx, mock.Anything, 10, 10).
		Return([]*models.OrganizationVersion{{ID: "v-1"}}, 21, nil)

	versions, pagination, err := suite.service.FindAll(suite.ctx, models.OrganizationVersionFilter{
		Page:    2,
		PerPage: 10,
	})

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), versions, 1)
	assert.Equal(suite.T(), 10, pagination.Skip)
	assert.Equal(suite.T(), 3, pagination.TotalPage)
}

func (suite *OrganizationVersionServiceTestSuite) TestFindAllDefaultsPerPage() {
	suite.versionRepo.On("FindAll", suite.ctx, mock.Anything, 10, 0).
		Return([]*models.OrganizationVersion{}, 0, nil)

	_, pagination, err := suite.service.FindAll(suite.ctx, models.OrganizationVersionFilter{})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 10, pagination.PerPage)
}

func (suite *OrganizationVersionServiceTestSuite) TestFindAllRejectsUnknownLanguage() {
	_, _, err := suite.service.FindAll(suite.ctx, models.OrganizationVersionFilter{LanguageCode: "en"})

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "unsupported language")
	suite.versionRepo.AssertNotCalled(suite.T(), "FindAll", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OrganizationVersionServiceTestSuite) TestFindOneRequiresID() {
	_, err := suite.service.FindOne(suite.ctx, "")

	assert.Error(suite.T(), err)
}

func (suite *OrganizationVersionServiceTestSuite) TestFindOneNotFound() {
	suite.versionRepo.On("FindOne", suite.ctx, "missing").Return(nil, models.ErrNotFound)

	_, err := suite.service.FindOne(suite.ctx, "missing")

	assert.ErrorIs(suite.T(), err, models.ErrNotFound)
}

func TestOrganizationVersionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationVersionServiceTestSuite))
}
