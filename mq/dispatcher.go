package mq

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ccenter-uz/1009-organization-service-sub000/models"
	"github.com/ccenter-uz/1009-organization-service-sub000/services"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils/logger"

	"github.com/tidwall/gjson"
)

// Command verbs carried in the cmd field, prefixed with the entity route
// path, e.g. "region.CREATE" or "organization.CONFIRM".
const (
	CmdCreate           = "CREATE"
	CmdGetAllList       = "GET_ALL_LIST"
	CmdGetByPagination  = "GET_LIST_BY_PAGINATION"
	CmdGetByID          = "GET_BY_ID"
	CmdUpdate           = "UPDATE"
	CmdDelete           = "DELETE"
	CmdRestore          = "RESTORE"
	CmdConfirm          = "CONFIRM"
	commandSeparator    = "."
	fieldCmd            = "cmd"
	fieldPayload        = "payload"
	fieldRole           = "role"
	fieldID             = "id"
	fieldLanguage       = "language_code"
	fieldDeleteFlag     = "delete"
	unknownCommandError = "unknown command"
)

// Handler serves one command from the queue.
type Handler func(ctx context.Context, payload gjson.Result) models.APIResponse

// Dispatcher routes {cmd, payload} messages to the same services the HTTP
// controllers use.
type Dispatcher struct {
	handlers map[string]Handler
	logger   logger.Logger
}

func NewDispatcher(svc services.ServiceContainerInterface, log logger.Logger) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[string]Handler),
		logger:   log,
	}
	d.registerReferenceHandlers(svc.GetReferenceService())
	d.registerOrganizationHandlers(svc.GetOrganizationService(), svc.GetOrganizationVersionService())
	return d
}

// Dispatch decodes one raw message body and runs its handler. Unknown and
// malformed commands produce an error envelope, never a crash.
func (d *Dispatcher) Dispatch(ctx context.Context, body []byte) models.APIResponse {
	if !gjson.ValidBytes(body) {
		return errorResponse(http.StatusBadRequest, "Invalid message body", "ValidationError", "body is not valid JSON")
	}

	cmd := gjson.GetBytes(body, fieldCmd).String()
	if cmd == "" {
		return errorResponse(http.StatusBadRequest, "Missing command", "ValidationError", "cmd field is required")
	}

	handler, ok := d.handlers[cmd]
	if !ok {
		d.logger.Warnf("unknown command received: %s", cmd)
		return errorResponse(http.StatusBadRequest, unknownCommandError, "ValidationError", cmd)
	}

	d.logger.Debugf("dispatching command %s", cmd)
	return handler(ctx, gjson.GetBytes(body, fieldPayload))
}

func (d *Dispatcher) register(prefix, verb string, h Handler) {
	d.handlers[prefix+commandSeparator+verb] = h
}

func (d *Dispatcher) registerReferenceHandlers(refService services.ReferenceServiceInterface) {
	for _, kind := range models.EntityOrder {
		kind := kind
		prefix := models.Entities[kind].RoutePath

		d.register(prefix, CmdCreate, func(ctx context.Context, payload gjson.Result) models.APIResponse {
			var req models.CreateReferenceRequest
			if resp, ok := decodePayload(payload, &req); !ok {
				return resp
			}
			entity, err := refService.Create(ctx, kind, &req, language(payload))
			if err != nil {
				return serviceError("Failed to create "+string(kind), err)
			}
			return successResponse(http.StatusCreated, string(kind)+" created successfully", entity)
		})

		d.register(prefix, CmdGetAllList, func(ctx context.Context, payload gjson.Result) models.APIResponse {
			var filter models.ListFilter
			if resp, ok := decodePayload(payload, &filter); !ok {
				return resp
			}
			filter.All = true
			entities, pagination, err := refService.FindAll(ctx, kind, filter)
			if err != nil {
				return serviceError("Failed to list "+string(kind), err)
			}
			return listResponse(string(kind)+" list retrieved successfully", entities, pagination)
		})

		d.register(prefix, CmdGetByPagination, func(ctx context.Context, payload gjson.Result) models.APIResponse {
			var filter models.ListFilter
			if resp, ok := decodePayload(payload, &filter); !ok {
				return resp
			}
			entities, pagination, err := refService.FindAll(ctx, kind, filter)
			if err != nil {
				return serviceError("Failed to list "+string(kind), err)
			}
			return listResponse(string(kind)+" list retrieved successfully", entities, pagination)
		})

		d.register(prefix, CmdGetByID, func(ctx context.Context, payload gjson.Result) models.APIResponse {
			entity, err := refService.FindOne(ctx, kind, payload.Get(fieldID).String(), language(payload))
			if err != nil {
				return serviceError("Failed to get "+string(kind), err)
			}
			return successResponse(http.StatusOK, string(kind)+" retrieved successfully", entity)
		})

		d.register(prefix, CmdUpdate, func(ctx context.Context, payload gjson.Result) models.APIResponse {
			var req models.UpdateReferenceRequest
			if resp, ok := decodePayload(payload, &req); !ok {
				return resp
			}
			entity, err := refService.Update(ctx, kind, &req, language(payload))
			if err != nil {
				return serviceError("Failed to update "+string(kind), err)
			}
			return successResponse(http.StatusOK, string(kind)+" updated successfully", entity)
		})

		d.register(prefix, CmdDelete, func(ctx context.Context, payload gjson.Result) models.APIResponse {
			req := models.RemoveReferenceRequest{
				ID:     payload.Get(fieldID).String(),
				Delete: payload.Get(fieldDeleteFlag).Bool(),
			}
			if err := refService.Remove(ctx, kind, &req); err != nil {
				return serviceError("Failed to remove "+string(kind), err)
			}
			return successResponse(http.StatusOK, string(kind)+" removed successfully", map[string]interface{}{"id": req.ID})
		})

		d.register(prefix, CmdRestore, func(ctx context.Context, payload gjson.Result) models.APIResponse {
			id := payload.Get(fieldID).String()
			if err := refService.Restore(ctx, kind, id); err != nil {
				return serviceError("Failed to restore "+string(kind), err)
			}
			return successResponse(http.StatusOK, string(kind)+" restored successfully", map[string]interface{}{"id": id})
		})
	}
}

func (d *Dispatcher) registerOrganizationHandlers(
	orgService services.OrganizationServiceInterface,
	versionService services.OrganizationVersionServiceInterface,
) {
	const prefix = "organization"

	d.register(prefix, CmdCreate, func(ctx context.Context, payload gjson.Result) models.APIResponse {
		var req models.CreateOrganizationRequest
		if resp, ok := decodePayload(payload, &req); !ok {
			return resp
		}
		req.Role = actorRole(payload)
		org, err := orgService.Create(ctx, &req)
		if err != nil {
			return serviceError("Failed to create organization", err)
		}
		return successResponse(http.StatusCreated, "Organization created successfully", org)
	})

	list := func(ctx context.Context, payload gjson.Result, all bool) models.APIResponse {
		var filter models.OrganizationFilter
		if resp, ok := decodePayload(payload, &filter); !ok {
			return resp
		}
		filter.All = all
		orgs, pagination, err := orgService.FindAll(ctx, filter)
		if err != nil {
			return serviceError("Failed to list organizations", err)
		}
		return listResponse("Organizations retrieved successfully", orgs, pagination)
	}
	d.register(prefix, CmdGetAllList, func(ctx context.Context, payload gjson.Result) models.APIResponse {
		return list(ctx, payload, true)
	})
	d.register(prefix, CmdGetByPagination, func(ctx context.Context, payload gjson.Result) models.APIResponse {
		return list(ctx, payload, false)
	})

	d.register(prefix, CmdGetByID, func(ctx context.Context, payload gjson.Result) models.APIResponse {
		org, err := orgService.FindOne(ctx, payload.Get(fieldID).String(), language(payload))
		if err != nil {
			return serviceError("Failed to get organization", err)
		}
		return successResponse(http.StatusOK, "Organization retrieved successfully", org)
	})

	d.register(prefix, CmdUpdate, func(ctx context.Context, payload gjson.Result) models.APIResponse {
		var req models.UpdateOrganizationRequest
		if resp, ok := decodePayload(payload, &req); !ok {
			return resp
		}
		req.Role = actorRole(payload)
		version, err := orgService.Update(ctx, &req)
		if err != nil {
			return serviceError("Failed to update organization", err)
		}
		return successResponse(http.StatusOK, "Organization update staged successfully", version)
	})

	d.register(prefix, CmdConfirm, func(ctx context.Context, payload gjson.Result) models.APIResponse {
		var req models.ConfirmOrganizationRequest
		if resp, ok := decodePayload(payload, &req); !ok {
			return resp
		}
		req.Role = actorRole(payload)
		version, err := orgService.Confirm(ctx, &req)
		if err != nil {
			return serviceError("Failed to confirm organization", err)
		}
		return successResponse(http.StatusOK, "Moderation verdict applied successfully", version)
	})

	d.register(prefix, CmdDelete, func(ctx context.Context, payload gjson.Result) models.APIResponse {
		req := models.RemoveOrganizationRequest{
			ID:     payload.Get(fieldID).String(),
			Delete: payload.Get(fieldDeleteFlag).Bool(),
			Role:   actorRole(payload),
		}
		if err := orgService.Remove(ctx, &req); err != nil {
			return serviceError("Failed to remove organization", err)
		}
		return successResponse(http.StatusOK, "Organization removed successfully", map[string]interface{}{"id": req.ID})
	})

	d.register(prefix, CmdRestore, func(ctx context.Context, payload gjson.Result) models.APIResponse {
		req := models.RestoreOrganizationRequest{
			ID:   payload.Get(fieldID).String(),
			Role: actorRole(payload),
		}
		if err := orgService.Restore(ctx, &req); err != nil {
			return serviceError("Failed to restore organization", err)
		}
		return successResponse(http.StatusOK, "Organization restored successfully", map[string]interface{}{"id": req.ID})
	})

	const versionPrefix = "organization-version"

	d.register(versionPrefix, CmdGetByPagination, func(ctx context.Context, payload gjson.Result) models.APIResponse {
		var filter models.OrganizationVersionFilter
		if resp, ok := decodePayload(payload, &filter); !ok {
			return resp
		}
		versions, pagination, err := versionService.FindAll(ctx, filter)
		if err != nil {
			return serviceError("Failed to list organization versions", err)
		}
		return listResponse("Organization versions retrieved successfully", versions, pagination)
	})

	d.register(versionPrefix, CmdGetByID, func(ctx context.Context, payload gjson.Result) models.APIResponse {
		version, err := versionService.FindOne(ctx, payload.Get(fieldID).String())
		if err != nil {
			return serviceError("Failed to get organization version", err)
		}
		return successResponse(http.StatusOK, "Organization version retrieved successfully", version)
	})
}

func decodePayload(payload gjson.Result, dst any) (models.APIResponse, bool) {
	raw := payload.Raw
	if raw == "" {
		raw = "{}"
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid payload", "ValidationError", err.Error()), false
	}
	return models.APIResponse{}, true
}

func language(payload gjson.Result) models.LanguageCode {
	return models.LanguageCode(payload.Get(fieldLanguage).String())
}

// actorRole reads the role the gateway stamped on the message. The broker is
// internal; the gateway authenticates callers before publishing.
func actorRole(payload gjson.Result) models.ActorRole {
	return models.ActorRole(payload.Get(fieldRole).String())
}

func serviceError(message string, err error) models.APIResponse {
	code := http.StatusInternalServerError
	errType := "DatabaseError"
	switch {
	case errors.Is(err, models.ErrNotFound):
		code, errType = http.StatusNotFound, "NotFound"
	case errors.Is(err, models.ErrAlreadyExists),
		errors.Is(err, models.ErrVersionPending),
		errors.Is(err, models.ErrRestoreActive):
		code, errType = http.StatusConflict, "Conflict"
	case errors.Is(err, models.ErrInvalidTransition):
		code, errType = http.StatusBadRequest, "StateError"
	case errors.Is(err, models.ErrNotModerator):
		code, errType = http.StatusForbidden, "AuthorizationError"
	}
	return errorResponse(code, message, errType, err.Error())
}

func successResponse(code int, message string, data interface{}) models.APIResponse {
	return models.APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		Data:    data,
	}
}

func listResponse(message string, items interface{}, pagination models.Pagination) models.APIResponse {
	return successResponse(http.StatusOK, message, map[string]interface{}{
		"items":      items,
		"pagination": pagination,
	})
}

func errorResponse(code int, message, errType, details string) models.APIResponse {
	return models.APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		Error: &models.APIError{
			Type:    errType,
			Details: details,
		},
	}
}
