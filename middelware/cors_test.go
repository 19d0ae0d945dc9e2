package middelware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ccenter-uz/1009-organization-service-sub000/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// CORSMiddlewareTestSuite defines a test suite for the CORS middleware
type CORSMiddlewareTestSuite struct {
	suite.Suite
	router *gin.Engine
}

func (suite *CORSMiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	cfg := &models.Config{
		CORSOrigins: []string{"https://1009.uz", "*.admin.1009.uz"},
	}

	suite.router = gin.New()
	suite.router.Use(NewCORSMiddleware(cfg).CORS())
	suite.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
}

func (suite *CORSMiddlewareTestSuite) do(method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *CORSMiddlewareTestSuite) TestExactOriginAllowed() {
	w := suite.do(http.MethodGet, "https://1009.uz")

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "https://1009.uz", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(suite.T(), "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func (suite *CORSMiddlewareTestSuite) TestWildcardSubdomainAllowed() {
	w := suite.do(http.MethodGet, "https://staging.admin.1009.uz")

	assert.Equal(suite.T(), "https://staging.admin.1009.uz", w.Header().Get("Access-Control-Allow-Origin"))
}

func (suite *CORSMiddlewareTestSuite) TestUnknownOriginGetsNoAllowHeader() {
	w := suite.do(http.MethodGet, "https://evil.example")

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Empty(suite.T(), w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(suite.T(), w.Header().Get("Access-Control-Allow-Credentials"))
}

func (suite *CORSMiddlewareTestSuite) TestPreflightShortCircuits() {
	w := suite.do(http.MethodOptions, "https://1009.uz")

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Empty(suite.T(), w.Body.String())
}

func (suite *CORSMiddlewareTestSuite) TestAllowAll() {
	router := gin.New()
	router.Use(NewCORSMiddleware(&models.Config{CORSOrigins: []string{"*"}}).CORS())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://anything.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(suite.T(), "https://anything.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(CORSMiddlewareTestSuite))
}
