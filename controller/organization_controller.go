package controller

import (
	"context"

	"github.com/ccenter-uz/1009-organization-service-sub000/middelware"
	"github.com/ccenter-uz/1009-organization-service-sub000/models"
	"github.com/ccenter-uz/1009-organization-service-sub000/services"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type OrganizationController struct {
	ctx            context.Context
	orgService     services.OrganizationServiceInterface
	versionService services.OrganizationVersionServiceInterface
	logger         logger.Logger
	validator      *validator.Validate
}

func NewOrganizationController(
	ctx context.Context,
	orgService services.OrganizationServiceInterface,
	versionService services.OrganizationVersionServiceInterface,
	log logger.Logger,
) *OrganizationController {
	return &OrganizationController{
		ctx:            ctx,
		orgService:     orgService,
		versionService: versionService,
		logger:         log,
		validator:      validator.New(),
	}
}

func (h *OrganizationController) callerRole(c *gin.Context) (models.ActorRole, string, bool) {
	claims, ok := middelware.ClaimsFromContext(c)
	if !ok {
		respondBadRequest(c, h.logger, "Authentication required", "token claims missing from context")
		return "", "", false
	}
	return claims.Role, claims.StaffNumber, true
}

// Create handles POST /api/v1/organization
// @Summary Create an organization
// @Description Moderator creates go live as accepted; other roles start in check
// @Tags Organization
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateOrganizationRequest true "Create request"
// @Success 201 {object} models.APIResponse "Organization created successfully"
// @Failure 400 {object} models.APIResponse "Bad Request - Invalid data"
// @Failure 404 {object} models.APIResponse "Not Found - Referenced entity missing"
// @Router /organization [post]
func (h *OrganizationController) Create(c *gin.Context) {
	var req models.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, "Invalid request", err.Error())
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		respondBadRequest(c, h.logger, "Validation failed", formatValidationErrors(err))
		return
	}

	role, staffNumber, ok := h.callerRole(c)
	if !ok {
		return
	}
	req.Role = role
	if req.StaffNumber == "" {
		req.StaffNumber = staffNumber
	}

	org, err := h.orgService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, "Failed to create organization", err)
		return
	}

	respondCreated(c, "Organization created successfully", org)
}

// GetAll handles GET /api/v1/organization
// @Summary List organizations
// @Description Paginated listing with address, classification and ownership filters
// @Tags Organization
// @Accept json
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param all query bool false "Return every record without paging"
// @Param search query string false "Full-text search over the address hierarchy"
// @Param status query string false "Lifecycle filter (check, accepted, rejected, deleted)"
// @Param language_code query string false "Collapse related names to one language"
// @Success 200 {object} models.APIResponse "Organizations retrieved successfully"
// @Router /organization [get]
func (h *OrganizationController) GetAll(c *gin.Context) {
	var filter models.OrganizationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBadRequest(c, h.logger, "Invalid query parameters", err.Error())
		return
	}

	if filter.Mine {
		claims, ok := middelware.ClaimsFromContext(c)
		if !ok {
			respondBadRequest(c, h.logger, "Authentication required", "mine filter requires a token")
			return
		}
		filter.StaffNumber = claims.StaffNumber
	}

	orgs, pagination, err := h.orgService.FindAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, "Failed to list organizations", err)
		return
	}

	respondOK(c, "Organizations retrieved successfully", listPayload(orgs, pagination))
}

// GetByID handles GET /api/v1/organization/:id
// @Summary Get an organization by ID
// @Tags Organization
// @Accept json
// @Produce json
// @Param id path string true "Organization ID"
// @Param language_code query string false "Collapse related names to one language"
// @Success 200 {object} models.APIResponse "Organization retrieved successfully"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Router /organization/{id} [get]
func (h *OrganizationController) GetByID(c *gin.Context) {
	id := c.Param("id")
	lang := models.LanguageCode(c.Query("language_code"))

	org, err := h.orgService.FindOne(c.Request.Context(), id, lang)
	if err != nil {
		respondError(c, h.logger, "Failed to get organization", err)
		return
	}

	respondOK(c, "Organization retrieved successfully", org)
}

// Update handles PUT /api/v1/organization/:id
// @Summary Stage an organization update
// @Description Stages a replacement snapshot; moderator updates apply immediately
// @Tags Organization
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Organization ID"
// @Param request body models.UpdateOrganizationRequest true "Replacement snapshot"
// @Success 200 {object} models.APIResponse "Update staged successfully"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Failure 409 {object} models.APIResponse "Conflict - A version is already pending"
// @Router /organization/{id} [put]
func (h *OrganizationController) Update(c *gin.Context) {
	var req models.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, "Invalid request", err.Error())
		return
	}
	req.ID = c.Param("id")
	if err := h.validator.Struct(&req); err != nil {
		respondBadRequest(c, h.logger, "Validation failed", formatValidationErrors(err))
		return
	}

	role, _, ok := h.callerRole(c)
	if !ok {
		return
	}
	req.Role = role

	version, err := h.orgService.Update(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, "Failed to update organization", err)
		return
	}

	respondOK(c, "Organization update staged successfully", version)
}

// Confirm handles POST /api/v1/organization/confirm
// @Summary Apply a moderation verdict
// @Description Accept or reject the organization's pending version
// @Tags Organization
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.ConfirmOrganizationRequest true "Verdict"
// @Success 200 {object} models.APIResponse "Verdict applied successfully"
// @Failure 403 {object} models.APIResponse "Forbidden - Moderator role required"
// @Failure 404 {object} models.APIResponse "Not Found - No pending version"
// @Router /organization/confirm [post]
func (h *OrganizationController) Confirm(c *gin.Context) {
	var req models.ConfirmOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, "Invalid request", err.Error())
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		respondBadRequest(c, h.logger, "Validation failed", formatValidationErrors(err))
		return
	}

	role, _, ok := h.callerRole(c)
	if !ok {
		return
	}
	req.Role = role

	version, err := h.orgService.Confirm(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, "Failed to confirm organization", err)
		return
	}

	respondOK(c, "Moderation verdict applied successfully", version)
}

// Remove handles DELETE /api/v1/organization/:id
// @Summary Remove an organization
// @Description Moderators delete immediately; other roles stage a delete
// @Tags Organization
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Organization ID"
// @Success 200 {object} models.APIResponse "Organization removed successfully"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Router /organization/{id} [delete]
func (h *OrganizationController) Remove(c *gin.Context) {
	role, _, ok := h.callerRole(c)
	if !ok {
		return
	}

	req := models.RemoveOrganizationRequest{
		ID:     c.Param("id"),
		Delete: c.Query("delete") == "true",
		Role:   role,
	}

	if err := h.orgService.Remove(c.Request.Context(), &req); err != nil {
		respondError(c, h.logger, "Failed to remove organization", err)
		return
	}

	respondOK(c, "Organization removed successfully", map[string]interface{}{"id": req.ID})
}

// Restore handles POST /api/v1/organization/:id/restore
// @Summary Restore a deleted organization
// @Description Moderators restore immediately; other roles stage a restore
// @Tags Organization
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Organization ID"
// @Success 200 {object} models.APIResponse "Organization restored successfully"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Failure 409 {object} models.APIResponse "Conflict - Organization is not deleted"
// @Router /organization/{id}/restore [post]
func (h *OrganizationController) Restore(c *gin.Context) {
	role, _, ok := h.callerRole(c)
	if !ok {
		return
	}

	req := models.RestoreOrganizationRequest{
		ID:   c.Param("id"),
		Role: role,
	}

	if err := h.orgService.Restore(c.Request.Context(), &req); err != nil {
		respondError(c, h.logger, "Failed to restore organization", err)
		return
	}

	respondOK(c, "Organization restored successfully", map[string]interface{}{"id": req.ID})
}

// GetVersions handles GET /api/v1/organization-version
// @Summary List staged versions
// @Description Moderation queue with organization-shaped filters
// @Tags Moderation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param status query string false "Version status filter"
// @Param method query string false "Version method filter"
// @Success 200 {object} models.APIResponse "Versions retrieved successfully"
// @Router /organization-version [get]
func (h *OrganizationController) GetVersions(c *gin.Context) {
	var filter models.OrganizationVersionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBadRequest(c, h.logger, "Invalid query parameters", err.Error())
		return
	}

	versions, pagination, err := h.versionService.FindAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, "Failed to list organization versions", err)
		return
	}

	respondOK(c, "Organization versions retrieved successfully", listPayload(versions, pagination))
}

// GetVersionByID handles GET /api/v1/organization-version/:id
// @Summary Get a staged version by ID
// @Tags Moderation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Version ID"
// @Success 200 {object} models.APIResponse "Version retrieved successfully"
// @Failure 404 {object} models.APIResponse "Not Found"
// @Router /organization-version/{id} [get]
func (h *OrganizationController) GetVersionByID(c *gin.Context) {
	version, err := h.versionService.FindOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "Failed to get organization version", err)
		return
	}

	respondOK(c, "Organization version retrieved successfully", version)
}
