package swagger

import (
	"net/http"
	"sync"

	"github.com/ccenter-uz/1009-organization-service-sub000/models"

	"github.com/gin-gonic/gin"
)

type spec = map[string]interface{}

// Document builds the OpenAPI description from the same entity registry that
// drives the routes, so the documentation can never drift from the router.
func Document(cfg *models.Config, basePath string) spec {
	paths := spec{}

	for _, kind := range models.EntityOrder {
		entity := models.Entities[kind]
		addEntityPaths(paths, string(kind), entity.RoutePath)
	}
	addOrganizationPaths(paths)

	return spec{
		"openapi": "3.0.3",
		"info": spec{
			"title":       cfg.AppName + " API",
			"version":     cfg.AppVersion,
			"description": "Directory of organizations and the address hierarchy behind them.",
		},
		"servers": []spec{{"url": basePath}},
		"components": spec{
			"securitySchemes": spec{
				"BearerAuth": spec{
					"type":         "http",
					"scheme":       "bearer",
					"bearerFormat": "JWT",
				},
			},
		},
		"paths": paths,
	}
}

func operation(summary, tag string, authorized bool, params ...spec) spec {
	op := spec{
		"summary":   summary,
		"tags":      []string{tag},
		"responses": spec{"200": spec{"description": "OK"}},
	}
	if authorized {
		op["security"] = []spec{{"BearerAuth": []string{}}}
	}
	if len(params) > 0 {
		op["parameters"] = params
	}
	return op
}

func idParam() spec {
	return spec{
		"name":     "id",
		"in":       "path",
		"required": true,
		"schema":   spec{"type": "string", "format": "uuid"},
	}
}

func addEntityPaths(paths spec, kind, route string) {
	paths["/"+route] = spec{
		"get":  operation("List "+kind+" records", kind, false),
		"post": operation("Create a "+kind, kind, true),
	}
	paths["/"+route+"/{id}"] = spec{
		"get":    operation("Get a "+kind+" by id", kind, false, idParam()),
		"put":    operation("Update a "+kind, kind, true, idParam()),
		"delete": operation("Remove a "+kind, kind, true, idParam()),
	}
	paths["/"+route+"/{id}/restore"] = spec{
		"post": operation("Restore a soft-deleted "+kind, kind, true, idParam()),
	}
}

func addOrganizationPaths(paths spec) {
	const tag = "organization"
	paths["/organization"] = spec{
		"get":  operation("List organizations", tag, false),
		"post": operation("Create an organization", tag, true),
	}
	paths["/organization/{id}"] = spec{
		"get":    operation("Get an organization by id", tag, false, idParam()),
		"put":    operation("Stage an organization update", tag, true, idParam()),
		"delete": operation("Remove an organization", tag, true, idParam()),
	}
	paths["/organization/{id}/restore"] = spec{
		"post": operation("Restore an organization", tag, true, idParam()),
	}
	paths["/organization/confirm"] = spec{
		"post": operation("Apply a moderation verdict", tag, true),
	}
	paths["/organization-version"] = spec{
		"get": operation("List pending organization versions", "organization-version", true),
	}
	paths["/organization-version/{id}"] = spec{
		"get": operation("Get an organization version by id", "organization-version", true, idParam()),
	}
}

// ServeDocument serves the generated OpenAPI document. The document only
// depends on static config, so it is built once.
func ServeDocument(cfg *models.Config, basePath string) gin.HandlerFunc {
	var once sync.Once
	var doc spec

	return func(c *gin.Context) {
		once.Do(func() {
			doc = Document(cfg, basePath)
		})
		c.JSON(http.StatusOK, doc)
	}
}
