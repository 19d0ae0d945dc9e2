package controller

import (
	"context"

	"github.com/ccenter-uz/1009-organization-service-sub000/models"
	"github.com/ccenter-uz/1009-organization-service-sub000/services"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ReferenceController serves every reference entity; handlers are bound to a
// kind when routes are registered.
type ReferenceController struct {
	ctx              context.Context
	referenceService services.ReferenceServiceInterface
	logger           logger.Logger
	validator        *validator.Validate
}

func NewReferenceController(ctx context.Context, referenceService services.ReferenceServiceInterface, log logger.Logger) *ReferenceController {
	return &ReferenceController{
		ctx:              ctx,
		referenceService: referenceService,
		logger:           log,
		validator:        validator.New(),
	}
}

// Create handles POST /api/v1/{entity}
// @Summary Create a reference entity
// @Description Create a directory entry with ru/uz/cy translations
// @Tags Directory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateReferenceRequest true "Create request"
// @Success 201 {object} models.APIResponse "Entity created successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid data"
// @Failure 404 {object} models.APIResponse "Not Found - Parent does not exist"
// @Router /{entity} [post]
func (h *ReferenceController) Create(kind models.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateReferenceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, h.logger, "Invalid request", err.Error())
			return
		}
		if err := h.validator.Struct(&req); err != nil {
			respondBadRequest(c, h.logger, "Validation failed", formatValidationErrors(err))
			return
		}

		lang := models.LanguageCode(c.Query("language_code"))
		entity, err := h.referenceService.Create(c.Request.Context(), kind, &req, lang)
		if err != nil {
			respondError(c, h.logger, "Failed to create "+string(kind), err)
			return
		}

		respondCreated(c, string(kind)+" created successfully", entity)
	}
}

// GetAll handles GET /api/v1/{entity}
// @Summary List reference entities
// @Description Paginated listing with search and status filters
// @Tags Directory
// @Accept json
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param all query bool false "Return every record without paging"
// @Param search query string false "Name substring filter"
// @Param status query string false "Lifecycle filter (active, inactive)"
// @Param language_code query string false "Collapse names to one language (ru, uz, cy)"
// @Success 200 {object} models.APIResponse "Entities retrieved successfully"
// @Router /{entity} [get]
func (h *ReferenceController) GetAll(kind models.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter models.ListFilter
		if err := c.ShouldBindQuery(&filter); err != nil {
			respondBadRequest(c, h.logger, "Invalid query parameters", err.Error())
			return
		}

		entities, pagination, err := h.referenceService.FindAll(c.Request.Context(), kind, filter)
		if err != nil {
			respondError(c, h.logger, "Failed to list "+string(kind), err)
			return
		}

		respondOK(c, string(kind)+" list retrieved successfully", listPayload(entities, pagination))
	}
}

// GetByID handles GET /api/v1/{entity}/:id
// @Summary Get a reference entity by ID
// @Tags Directory
// @Accept json
// @Produce json
// @Param id path string true "Entity ID"
// @Param language_code query string false "Collapse names to one language"
// @Success 200 {object} models.APIResponse "Entity retrieved successfully"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Router /{entity}/{id} [get]
func (h *ReferenceController) GetByID(kind models.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		lang := models.LanguageCode(c.Query("language_code"))

		entity, err := h.referenceService.FindOne(c.Request.Context(), kind, id, lang)
		if err != nil {
			respondError(c, h.logger, "Failed to get "+string(kind), err)
			return
		}

		respondOK(c, string(kind)+" retrieved successfully", entity)
	}
}

// Update handles PUT /api/v1/{entity}/:id
// @Summary Update a reference entity
// @Description Partial update; only languages present in the body change
// @Tags Directory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Entity ID"
// @Param request body models.UpdateReferenceRequest true "Update request"
// @Success 200 {object} models.APIResponse "Entity updated successfully"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Router /{entity}/{id} [put]
func (h *ReferenceController) Update(kind models.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UpdateReferenceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, h.logger, "Invalid request", err.Error())
			return
		}
		req.ID = c.Param("id")
		if err := h.validator.Struct(&req); err != nil {
			respondBadRequest(c, h.logger, "Validation failed", formatValidationErrors(err))
			return
		}

		lang := models.LanguageCode(c.Query("language_code"))
		entity, err := h.referenceService.Update(c.Request.Context(), kind, &req, lang)
		if err != nil {
			respondError(c, h.logger, "Failed to update "+string(kind), err)
			return
		}

		respondOK(c, string(kind)+" updated successfully", entity)
	}
}

// Remove handles DELETE /api/v1/{entity}/:id
// @Summary Remove a reference entity
// @Description Soft delete by default; delete=true removes the row
// @Tags Directory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Entity ID"
// @Param delete query bool false "Hard delete"
// @Success 200 {object} models.APIResponse "Entity removed successfully"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Router /{entity}/{id} [delete]
func (h *ReferenceController) Remove(kind models.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := models.RemoveReferenceRequest{
			ID:     c.Param("id"),
			Delete: c.Query("delete") == "true",
		}

		if err := h.referenceService.Remove(c.Request.Context(), kind, &req); err != nil {
			respondError(c, h.logger, "Failed to remove "+string(kind), err)
			return
		}

		respondOK(c, string(kind)+" removed successfully", map[string]interface{}{
			"id":     req.ID,
			"delete": req.Delete,
		})
	}
}

// Restore handles POST /api/v1/{entity}/:id/restore
// @Summary Restore a soft-deleted reference entity
// @Tags Directory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Entity ID"
// @Success 200 {object} models.APIResponse "Entity restored successfully"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Failure 409 {object} models.APIResponse "Conflict - Entity is not inactive"
// @Router /{entity}/{id}/restore [post]
func (h *ReferenceController) Restore(kind models.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		if err := h.referenceService.Restore(c.Request.Context(), kind, id); err != nil {
			respondError(c, h.logger, "Failed to restore "+string(kind), err)
			return
		}

		respondOK(c, string(kind)+" restored successfully", map[string]interface{}{"id": id})
	}
}
