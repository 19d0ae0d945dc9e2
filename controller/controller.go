package controller

import (
	"context"
	"net/http"

	"github.com/ccenter-uz/1009-organization-service-sub000/dal"
	"github.com/ccenter-uz/1009-organization-service-sub000/middelware"
	"github.com/ccenter-uz/1009-organization-service-sub000/models"
	"github.com/ccenter-uz/1009-organization-service-sub000/repository"
	"github.com/ccenter-uz/1009-organization-service-sub000/services"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils/logger"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils/swagger"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	Reference    *ReferenceController
	Organization *OrganizationController
	jwtManager   *middelware.JWTManager
	services     services.ServiceContainerInterface
}

// NewController wires repositories and services onto the shared database
// client and builds the HTTP handlers.
func NewController(ctx context.Context, cfg *models.Config, log logger.Logger, dbclient dal.DatabaseClientInterface) *Controller {
	repoContainer := repository.NewRepository(dbclient, log)
	serviceContainer := services.NewService(ctx, repoContainer, log, cfg)
	jwtManager := middelware.NewJWTManager(cfg, log)

	return &Controller{
		Reference:    NewReferenceController(ctx, serviceContainer.GetReferenceService(), log),
		Organization: NewOrganizationController(ctx, serviceContainer.GetOrganizationService(), serviceContainer.GetOrganizationVersionService(), log),
		jwtManager:   jwtManager,
		services:     serviceContainer,
	}
}

// Services exposes the service container so other transports (AMQP) can share
// the same wiring.
func (c *Controller) Services() services.ServiceContainerInterface {
	return c.services
}

// RegisterRoutes mounts every route and runs the HTTP server until it stops.
func (c *Controller) RegisterRoutes(ctx context.Context, config *models.Config, r *gin.Engine, basePath string) error {
	v1 := r.Group(basePath)

	// Health check endpoint (no auth required)
	v1.GET("/health", func(gc *gin.Context) {
		gc.JSON(200, gin.H{
			"status":  "healthy",
			"version": config.AppVersion,
			"service": config.AppName,
		})
	})

	// API documentation (no auth required)
	v1.GET("/docs", swagger.ServeSwaggerUI(swagger.SwaggerConfig{
		Title:  config.AppName + " API",
		DocURL: basePath + "/docs/openapi.json",
	}))
	v1.GET("/docs/openapi.json", swagger.ServeDocument(config, basePath))

	auth := c.jwtManager.AuthMiddleware()
	moderator := c.jwtManager.RequireModerator()

	// One route set per reference entity, driven by the registry.
	for _, kind := range models.EntityOrder {
		cfg := models.Entities[kind]
		group := v1.Group("/" + cfg.RoutePath)

		group.GET("", c.Reference.GetAll(kind))
		group.GET("/:id", c.Reference.GetByID(kind))
		group.POST("", auth, moderator, c.Reference.Create(kind))
		group.PUT("/:id", auth, moderator, c.Reference.Update(kind))
		group.DELETE("/:id", auth, moderator, c.Reference.Remove(kind))
		group.POST("/:id/restore", auth, moderator, c.Reference.Restore(kind))
	}

	org := v1.Group("/organization")
	org.GET("", c.Organization.GetAll)
	org.GET("/:id", c.Organization.GetByID)
	org.POST("", auth, c.Organization.Create)
	org.PUT("/:id", auth, c.Organization.Update)
	org.POST("/confirm", auth, moderator, c.Organization.Confirm)
	org.DELETE("/:id", auth, c.Organization.Remove)
	org.POST("/:id/restore", auth, c.Organization.Restore)

	versions := v1.Group("/organization-version", auth, moderator)
	versions.GET("", c.Organization.GetVersions)
	versions.GET("/:id", c.Organization.GetVersionByID)

	srv := &http.Server{
		Addr:    config.AppHost + ":" + config.AppPort,
		Handler: r,
	}

	log := logger.NewLogger(config.LogLevel, config.LogFormat)
	log.Infof("Starting server on %s:%s", config.AppHost, config.AppPort)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
