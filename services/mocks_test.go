package services

import (
	"context"

	"github.com/ccenter-uz/1009-organization-service-sub000/models"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils/logger"

	"github.com/stretchr/testify/mock"
)

// MockLogger implements the logger interface for testing
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

// newQuietLogger returns a mock logger that swallows every call.
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

// MockReferenceRepository mocks the reference-entity storage contract
type MockReferenceRepository struct {
	mock.Mock
}

func (m *MockReferenceRepository) Create(ctx context.Context, kind models.EntityKind, rec *models.ReferenceRecord) (*models.ReferenceRecord, error) {
	args := m.Called(ctx, kind, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReferenceRecord), args.Error(1)
}

func (m *MockReferenceRepository) FindAll(ctx context.Context, kind models.EntityKind, filter models.ListFilter, take, skip int) ([]*models.ReferenceRecord, int, error) {
	args := m.Called(ctx, kind, filter, take, skip)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.ReferenceRecord), args.Int(1), args.Error(2)
}

func (m *MockReferenceRepository) FindOne(ctx context.Context, kind models.EntityKind, id string) (*models.ReferenceRecord, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReferenceRecord), args.Error(1)
}

func (m *MockReferenceRepository) Update(ctx context.Context, kind models.EntityKind, req *models.UpdateReferenceRequest) (*models.ReferenceRecord, error) {
	args := m.Called(ctx, kind, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReferenceRecord), args.Error(1)
}

func (m *MockReferenceRepository) Remove(ctx context.Context, kind models.EntityKind, id string, hard bool) error {
	args := m.Called(ctx, kind, id, hard)
	return args.Error(0)
}

func (m *MockReferenceRepository) Restore(ctx context.Context, kind models.EntityKind, id string) error {
	args := m.Called(ctx, kind, id)
	return args.Error(0)
}

// MockOrganizationRepository mocks the live aggregate storage contract
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) Create(ctx context.Context, org *models.Organization) (*models.Organization, error) {
	args := m.Called(ctx, org)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) FindAll(ctx context.Context, filter models.OrganizationFilter, take, skip int) ([]*models.Organization, int, error) {
	args := m.Called(ctx, filter, take, skip)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Organization), args.Int(1), args.Error(2)
}

func (m *MockOrganizationRepository) FindOne(ctx context.Context, id string) (*models.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) ApplySnapshot(ctx context.Context, snapshot *models.Organization) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockOrganizationRepository) SetStatus(ctx context.Context, id string, status models.OrganizationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrganizationRepository) Status(ctx context.Context, id string) (models.OrganizationStatus, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.OrganizationStatus), args.Error(1)
}

// MockOrganizationVersionRepository mocks the staged-change storage contract
type MockOrganizationVersionRepository struct {
	mock.Mock
}

func (m *MockOrganizationVersionRepository) Create(ctx context.Context, version *models.OrganizationVersion) (*models.OrganizationVersion, error) {
	args := m.Called(ctx, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrganizationVersion), args.Error(1)
}

func (m *MockOrganizationVersionRepository) FindAll(ctx context.Context, filter models.OrganizationVersionFilter, take, skip int) ([]*models.OrganizationVersion, int, error) {
	args := m.Called(ctx, filter, take, skip)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.OrganizationVersion), args.Int(1), args.Error(2)
}

func (m *MockOrganizationVersionRepository) FindOne(ctx context.Context, id string) (*models.OrganizationVersion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrganizationVersion), args.Error(1)
}

func (m *MockOrganizationVersionRepository) LatestPending(ctx context.Context, organizationID string) (*models.OrganizationVersion, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrganizationVersion), args.Error(1)
}

func (m *MockOrganizationVersionRepository) SetStatus(ctx context.Context, id string, status models.OrganizationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
