package middelware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ccenter-uz/1009-organization-service-sub000/models"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
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

// AuthMiddlewareTestSuite defines a test suite for auth middleware functions
type AuthMiddlewareTestSuite struct {
	suite.Suite
	config     *models.Config
	mockLogger *MockLogger
	jwtManager *JWTManager
	router     *gin.Engine
}

// SetupTest runs before each test
func (suite *AuthMiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.config = &models.Config{
		AppName:      "TestApp",
		JWTSecret:    "test-secret-key-for-testing",
		JWTExpiresIn: 24 * time.Hour,
	}

	suite.mockLogger = &MockLogger{}
	suite.mockLogger.On("Info", mock.Anything).Return().Maybe()
	suite.mockLogger.On("Infof", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	suite.mockLogger.On("Debug", mock.Anything).Return().Maybe()
	suite.mockLogger.On("Debugf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	suite.mockLogger.On("Error", mock.Anything).Return().Maybe()
	suite.mockLogger.On("Errorf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()
	suite.mockLogger.On("Warn", mock.Anything).Return().Maybe()
	suite.mockLogger.On("Warnf", mock.AnythingOfType("string"), mock.Anything).Return().Maybe()

	suite.jwtManager = NewJWTManager(suite.config, suite.mockLogger)

	suite.router = gin.New()
	suite.router.GET("/protected", suite.jwtManager.AuthMiddleware(), func(c *gin.Context) {
		claims, _ := ClaimsFromContext(c)
		c.JSON(http.StatusOK, gin.H{"role": claims.Role})
	})
	suite.router.POST("/moderator-only",
		suite.jwtManager.AuthMiddleware(), suite.jwtManager.RequireModerator(),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
}

func (suite *AuthMiddlewareTestSuite) signToken(role models.ActorRole, expiresIn time.Duration) string {
	claims := models.JWTClaims{
		UserID:      "user-1",
		Role:        role,
		StaffNumber: "staff-77",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.config.JWTSecret))
	suite.Require().NoError(err)
	return signed
}

func (suite *AuthMiddlewareTestSuite) TestValidateToken() {
	signed := suite.signToken(models.RoleModerator, time.Hour)

	claims, err := suite.jwtManager.ValidateToken(signed)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "user-1", claims.UserID)
	assert.Equal(suite.T(), models.RoleModerator, claims.Role)
	assert.Equal(suite.T(), "staff-77", claims.StaffNumber)
}

func (suite *AuthMiddlewareTestSuite) TestValidateTokenExpired() {
	signed := suite.signToken(models.RoleClient, -time.Hour)

	_, err := suite.jwtManager.ValidateToken(signed)

	assert.Error(suite.T(), err)
}

func (suite *AuthMiddlewareTestSuite) TestValidateTokenWrongSecret() {
	claims := models.JWTClaims{
		UserID: "user-1",
		Role:   models.RoleClient,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("some-other-secret"))
	suite.Require().NoError(err)

	_, err = suite.jwtManager.ValidateToken(signed)

	assert.Error(suite.T(), err)
}

func (suite *AuthMiddlewareTestSuite) TestValidateTokenMissingRole() {
	claims := models.JWTClaims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.config.JWTSecret))
	suite.Require().NoError(err)

	_, err = suite.jwtManager.ValidateToken(signed)

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "missing role claim")
}

func (suite *AuthMiddlewareTestSuite) TestAuthMiddlewareMissingHeader() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)

	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *AuthMiddlewareTestSuite) TestAuthMiddlewareMalformedHeader() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")

	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *AuthMiddlewareTestSuite) TestAuthMiddlewareValidToken() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+suite.signToken(models.RoleClient, time.Hour))

	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "client")
}

func (suite *AuthMiddlewareTestSuite) TestRequireModeratorBlocksClient() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/moderator-only", nil)
	req.Header.Set("Authorization", "Bearer "+suite.signToken(models.RoleClient, time.Hour))

	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *AuthMiddlewareTestSuite) TestRequireModeratorAllowsModerator() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/moderator-only", nil)
	req.Header.Set("Authorization", "Bearer "+suite.signToken(models.RoleModerator, time.Hour))

	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

// Run the test suite
func TestAuthMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}
