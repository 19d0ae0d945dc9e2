package swagger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ccenter-uz/1009-organization-service-sub000/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// SwaggerTestSuite defines a test suite for the documentation handlers
type SwaggerTestSuite struct {
	suite.Suite
	router *gin.Engine
}

// SetupTest runs before each test
func (suite *SwaggerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
}

func (suite *SwaggerTestSuite) TestServeSwaggerUI() {
	config := SwaggerConfig{
		Title:  "1009 Organization Service API",
		DocURL: "/api/v1/docs/openapi.json",
	}

	suite.router.GET("/docs", ServeSwaggerUI(config))

	req, err := http.NewRequest("GET", "/docs", nil)
	require.NoError(suite.T(), err)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(suite.T(), body, "1009 Organization Service API")
	assert.Contains(suite.T(), body, "/api/v1/docs/openapi.json")
	assert.Contains(suite.T(), body, "swagger-ui-bundle.js")
}

func (suite *SwaggerTestSuite) TestServeSwaggerUIWithDefaults() {
	suite.router.GET("/docs", ServeSwaggerUI(SwaggerConfig{}))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, httptest.NewRequest("GET", "/docs", nil))

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "API Documentation")
	assert.Contains(suite.T(), w.Body.String(), "/docs/openapi.json")
}

func (suite *SwaggerTestSuite) TestDocumentCoversRegistryRoutes() {
	cfg := &models.Config{AppName: "1009 Organization Service", AppVersion: "1.0"}
	doc := Document(cfg, "/api/v1")

	paths, ok := doc["paths"].(map[string]interface{})
	require.True(suite.T(), ok)

	for _, kind := range models.EntityOrder {
		route := "/" + models.Entities[kind].RoutePath
		assert.Contains(suite.T(), paths, route)
		assert.Contains(suite.T(), paths, route+"/{id}")
		assert.Contains(suite.T(), paths, route+"/{id}/restore")
	}

	assert.Contains(suite.T(), paths, "/organization")
	assert.Contains(suite.T(), paths, "/organization/confirm")
	assert.Contains(suite.T(), paths, "/organization-version")
}

func (suite *SwaggerTestSuite) TestServeDocument() {
	cfg := &models.Config{AppName: "1009 Organization Service", AppVersion: "1.0"}
	suite.router.GET("/docs/openapi.json", ServeDocument(cfg, "/api/v1"))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, httptest.NewRequest("GET", "/docs/openapi.json", nil))

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var doc map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(suite.T(), "3.0.3", doc["openapi"])

	info, ok := doc["info"].(map[string]interface{})
	require.True(suite.T(), ok)
	assert.Equal(suite.T(), "1009 Organization Service API", info["title"])
}

func TestSwaggerTestSuite(t *testing.T) {
	suite.Run(t, new(SwaggerTestSuite))
}
