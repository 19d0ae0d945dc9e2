package mq

import (
	"context"
	"net/http"
	"testing"

	"github.com/ccenter-uz/1009-organization-service-sub000/models"
	"github.com/ccenter-uz/1009-organization-service-sub000/services"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(args ...interface{})                 { m.Called(args...) }
func (m *MockLogger) Debugf(format string, args ...interface{}) { m.Called(format, args) }
func (m *MockLogger) Info(args ...interface{})                  { m.Called(args...) }
func (m *MockLogger) Infof(format string, args ...interface{})  { m.Called(format, args) }
func (m *MockLogger) Warn(args ...interface{})                  { m.Called(args...) }
func (m *MockLogger) Warnf(format string, args ...interface{})  { m.Called(format, args) }
func (m *MockLogger) Error(args ...interface{})                 { m.Called(args...) }
func (m *MockLogger) Errorf(format string, args ...interface{}) { m.Called(format, args) }
func (m *MockLogger) Fatal(args ...interface{})                 { m.Called(args...) }
func (m *MockLogger) Fatalf(format string, args ...interface{}) { m.Called(format, args) }
func (m *MockLogger) WithField(key string, value interface{}) logger.Logger {
	m.Called(key, value)
	return m
}

func newQuietLogger() *MockLogger {
	l := &MockLogger{}
	l.On("Debug", mock.Anything).Return().Maybe()
	l.On("Debugf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	l.On("Info", mock.Anything).Return().Maybe()
	l.On("Infof", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	l.On("Warn", mock.Anything).Return().Maybe()
	l.On("Warnf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	l.On("Error", mock.Anything).Return().Maybe()
	l.On("Errorf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	l.On("WithField", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	return l
}

type MockReferenceService struct {
	mock.Mock
}

func (m *MockReferenceService) Create(ctx context.Context, kind models.EntityKind, req *models.CreateReferenceRequest, lang models.LanguageCode) (*models.ReferenceEntity, error) {
	args := m.Called(ctx, kind, req, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReferenceEntity), args.Error(1)
}

func (m *MockReferenceService) FindAll(ctx context.Context, kind models.EntityKind, filter models.ListFilter) ([]*models.ReferenceEntity, models.Pagination, error) {
	args := m.Called(ctx, kind, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(models.Pagination), args.Error(2)
	}
	return args.Get(0).([]*models.ReferenceEntity), args.Get(1).(models.Pagination), args.Error(2)
}

func (m *MockReferenceService) FindOne(ctx context.Context, kind models.EntityKind, id string, lang models.LanguageCode) (*models.ReferenceEntity, error) {
	args := m.Called(ctx, kind, id, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReferenceEntity), args.Error(1)
}

func (m *MockReferenceService) Update(ctx context.Context, kind models.EntityKind, req *models.UpdateReferenceRequest, lang models.LanguageCode) (*models.ReferenceEntity, error) {
	args := m.Called(ctx, kind, req, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReferenceEntity), args.Error(1)
}

func (m *MockReferenceService) Remove(ctx context.Context, kind models.EntityKind, req *models.RemoveReferenceRequest) error {
	args := m.Called(ctx, kind, req)
	return args.Error(0)
}

func (m *MockReferenceService) Restore(ctx context.Context, kind models.EntityKind, id string) error {
	args := m.Called(ctx, kind, id)
	return args.Error(0)
}

type MockOrganizationService struct {
	mock.Mock
}

func (m *MockOrganizationService) Create(ctx context.Context, req *models.CreateOrganizationRequest) (*models.Organization, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrganizationService) FindAll(ctx context.Context, filter models.OrganizationFilter) ([]*models.Organization, models.Pagination, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(models.Pagination), args.Error(2)
	}
	return args.Get(0).([]*models.Organization), args.Get(1).(models.Pagination), args.Error(2)
}

func (m *MockOrganizationService) FindOne(ctx context.Context, id string, lang models.LanguageCode) (*models.Organization, error) {
	args := m.Called(ctx, id, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrganizationService) Update(ctx context.Context, req *models.UpdateOrganizationRequest) (*models.OrganizationVersion, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrganizationVersion), args.Error(1)
}

func (m *MockOrganizationService) Confirm(ctx context.Context, req *models.ConfirmOrganizationRequest) (*models.OrganizationVersion, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrganizationVersion), args.Error(1)
}

func (m *MockOrganizationService) Remove(ctx context.Context, req *models.RemoveOrganizationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockOrganizationService) Restore(ctx context.Context, req *models.RestoreOrganizationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

type MockOrganizationVersionService struct {
	mock.Mock
}

func (m *MockOrganizationVersionService) FindAll(ctx context.Context, filter models.OrganizationVersionFilter) ([]*models.OrganizationVersion, models.Pagination, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(models.Pagination), args.Error(2)
	}
	return args.Get(0).([]*models.OrganizationVersion), args.Get(1).(models.Pagination), args.Error(2)
}

func (m *MockOrganizationVersionService) FindOne(ctx context.Context, id string) (*models.OrganizationVersion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrganizationVersion), args.Error(1)
}

type fakeContainer struct {
	ref      *MockReferenceService
	org      *MockOrganizationService
	versions *MockOrganizationVersionService
}

func (c *fakeContainer) GetReferenceService() services.ReferenceServiceInterface {
	return c.ref
}

func (c *fakeContainer) GetOrganizationService() services.OrganizationServiceInterface {
	return c.org
}

func (c *fakeContainer) GetOrganizationVersionService() services.OrganizationVersionServiceInterface {
	return c.versions
}

type DispatcherTestSuite struct {
	suite.Suite
	container  *fakeContainer
	dispatcher *Dispatcher
	ctx        context.Context
}

func (suite *DispatcherTestSuite) SetupTest() {
	suite.container = &fakeContainer{
		ref:      &MockReferenceService{},
		org:      &MockOrganizationService{},
		versions: &MockOrganizationVersionService{},
	}
	suite.dispatcher = NewDispatcher(suite.container, newQuietLogger())
	suite.ctx = context.Background()
}

func (suite *DispatcherTestSuite) TestInvalidJSON() {
	resp := suite.dispatcher.Dispatch(suite.ctx, []byte("{not json"))

	assert.Equal(suite.T(), "error", resp.Status)
	assert.Equal(suite.T(), http.StatusBadRequest, resp.Code)
	assert.Equal(suite.T(), "ValidationError", resp.Error.Type)
}

func (suite *DispatcherTestSuite) TestMissingCmd() {
	resp := suite.dispatcher.Dispatch(suite.ctx, []byte(`{"payload":{}}`))

	assert.Equal(suite.T(), "error", resp.Status)
	assert.Equal(suite.T(), http.StatusBadRequest, resp.Code)
}

func (suite *DispatcherTestSuite) TestUnknownCmd() {
	resp := suite.dispatcher.Dispatch(suite.ctx, []byte(`{"cmd":"region.MERGE"}`))

	assert.Equal(suite.T(), "error", resp.Status)
	assert.Equal(suite.T(), "unknown command", resp.Message)
	assert.Equal(suite.T(), "region.MERGE", resp.Error.Details)
}

func (suite *DispatcherTestSuite) TestReferenceGetByID() {
	suite.container.ref.On("FindOne", suite.ctx, models.EntityRegion, "r-1", models.LanguageUZ).
		Return(&models.ReferenceEntity{ID: "r-1", Name: "Namangan"}, nil)

	resp := suite.dispatcher.Dispatch(suite.ctx,
		[]byte(`{"cmd":"region.GET_BY_ID","payload":{"id":"r-1","language_code":"uz"}}`))

	assert.Equal(suite.T(), "success", resp.Status)
	assert.Equal(suite.T(), http.StatusOK, resp.Code)
	entity, ok := resp.Data.(*models.ReferenceEntity)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), "r-1", entity.ID)
}

func (suite *DispatcherTestSuite) TestReferenceCreate() {
	suite.container.ref.On("Create", suite.ctx, models.EntityCity,
		mock.MatchedBy(func(req *models.CreateReferenceRequest) bool {
			return len(req.Name) == 1 && req.ParentIDs["region_id"] == "r-1"
		}), models.LanguageCode("")).
		Return(&models.ReferenceEntity{ID: "c-1"}, nil)

	resp := suite.dispatcher.Dispatch(suite.ctx,
		[]byte(`{"cmd":"city.CREATE","payload":{"name":[{"language_code":"uz","name":"Chust"}],"parent_ids":{"region_id":"r-1"}}}`))

	assert.Equal(suite.T(), "success", resp.Status)
	assert.Equal(suite.T(), http.StatusCreated, resp.Code)
}

func (suite *DispatcherTestSuite) TestReferenceGetAllListForcesAll() {
	suite.container.ref.On("FindAll", suite.ctx, models.EntityRegion,
		mock.MatchedBy(func(filter models.ListFilter) bool { return filter.All })).
		Return([]*models.ReferenceEntity{}, models.Pagination{Total: 2}, nil)

	resp := suite.dispatcher.Dispatch(suite.ctx, []byte(`{"cmd":"region.GET_ALL_LIST","payload":{}}`))

	assert.Equal(suite.T(), "success", resp.Status)
	body, ok := resp.Data.(map[string]interface{})
	assert.True(suite.T(), ok)
	assert.Contains(suite.T(), body, "items")
	assert.Contains(suite.T(), body, "pagination")
}

func (suite *DispatcherTestSuite) TestReferenceNotFoundMapsTo404() {
	suite.container.ref.On("FindOne", suite.ctx, models.EntityRegion, "missing", models.LanguageCode("")).
		Return(nil, models.ErrNotFound)

	resp := suite.dispatcher.Dispatch(suite.ctx,
		[]byte(`{"cmd":"region.GET_BY_ID","payload":{"id":"missing"}}`))

	assert.Equal(suite.T(), "error", resp.Status)
	assert.Equal(suite.T(), http.StatusNotFound, resp.Code)
	assert.Equal(suite.T(), "NotFound", resp.Error.Type)
}

func (suite *DispatcherTestSuite) TestOrganizationConfirmCarriesRole() {
	suite.container.org.On("Confirm", suite.ctx,
		mock.MatchedBy(func(req *models.ConfirmOrganizationRequest) bool {
			return req.Role == models.RoleModerator && req.ID == "org-1"
		})).
		Return(&models.OrganizationVersion{ID: "v-1", Status: models.OrganizationStatusAccepted}, nil)

	resp := suite.dispatcher.Dispatch(suite.ctx,
		[]byte(`{"cmd":"organization.CONFIRM","payload":{"id":"org-1","status":"accepted","role":"moderator"}}`))

	assert.Equal(suite.T(), "success", resp.Status)
	version, ok := resp.Data.(*models.OrganizationVersion)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), "v-1", version.ID)
}

func (suite *DispatcherTestSuite) TestOrganizationConfirmByClientForbidden() {
	suite.container.org.On("Confirm", suite.ctx, mock.Anything).
		Return(nil, models.ErrNotModerator)

	resp := suite.dispatcher.Dispatch(suite.ctx,
		[]byte(`{"cmd":"organization.CONFIRM","payload":{"id":"org-1","status":"accepted","role":"client"}}`))

	assert.Equal(suite.T(), "error", resp.Status)
	assert.Equal(suite.T(), http.StatusForbidden, resp.Code)
	assert.Equal(suite.T(), "AuthorizationError", resp.Error.Type)
}

func (suite *DispatcherTestSuite) TestOrganizationUpdatePendingConflict() {
	suite.container.org.On("Update", suite.ctx, mock.Anything).
		Return(nil, models.ErrVersionPending)

	resp := suite.dispatcher.Dispatch(suite.ctx,
		[]byte(`{"cmd":"organization.UPDATE","payload":{"id":"org-1","role":"client"}}`))

	assert.Equal(suite.T(), "error", resp.Status)
	assert.Equal(suite.T(), http.StatusConflict, resp.Code)
	assert.Equal(suite.T(), "Conflict", resp.Error.Type)
}

func (suite *DispatcherTestSuite) TestOrganizationDelete() {
	suite.container.org.On("Remove", suite.ctx,
		mock.MatchedBy(func(req *models.RemoveOrganizationRequest) bool {
			return req.ID == "org-1" && req.Role == models.RoleModerator && !req.Delete
		})).
		Return(nil)

	resp := suite.dispatcher.Dispatch(suite.ctx,
		[]byte(`{"cmd":"organization.DELETE","payload":{"id":"org-1","role":"moderator"}}`))

	assert.Equal(suite.T(), "success", resp.Status)
}

func (suite *DispatcherTestSuite) TestVersionListing() {
	suite.container.versions.On("FindAll", suite.ctx, mock.Anything).
		Return([]*models.OrganizationVersion{{ID: "v-1"}}, models.Pagination{Total: 1}, nil)

	resp := suite.dispatcher.Dispatch(suite.ctx,
		[]byte(`{"cmd":"organization-version.GET_LIST_BY_PAGINATION","payload":{"page":1,"per_page":10}}`))

	assert.Equal(suite.T(), "success", resp.Status)
}

func TestDispatcherTestSuite(t *testing.T) {
	suite.Run(t, new(DispatcherTestSuite))
}
