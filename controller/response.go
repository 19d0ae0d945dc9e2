package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ccenter-uz/1009-organization-service-sub000/models"
	"github.com/ccenter-uz/1009-organization-service-sub000/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// formatValidationErrors formats validation errors into readable messages
func formatValidationErrors(err error) string {
	var errorMessages []string

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			switch fieldError.Tag() {
			case "required":
				errorMessages = append(errorMessages, fieldError.Field()+" is required")
			case "min":
				errorMessages = append(errorMessages, fieldError.Field()+" must be at least "+fieldError.Param()+" characters/items")
			case "max":
				errorMessages = append(errorMessages, fieldError.Field()+" must be at most "+fieldError.Param()+" characters/items")
			case "uuid4":
				errorMessages = append(errorMessages, fieldError.Field()+" must be a valid UUID")
			case "url":
				errorMessages = append(errorMessages, fieldError.Field()+" must be a valid URL")
			case "oneof":
				errorMessages = append(errorMessages, fieldError.Field()+" must be one of: "+strings.ReplaceAll(fieldError.Param(), " ", ", "))
			default:
				errorMessages = append(errorMessages, fieldError.Field()+" is invalid")
			}
		}
	}

	return strings.Join(errorMessages, "; ")
}

// respondError maps service errors to HTTP status codes and the shared
// response envelope.
func respondError(c *gin.Context, log logger.Logger, message string, err error) {
	log.Errorf("%s: %v", message, err)

	statusCode := http.StatusInternalServerError
	errType := "DatabaseError"

	switch {
	case errors.Is(err, models.ErrNotFound):
		statusCode = http.StatusNotFound
		errType = "NotFound"
	case errors.Is(err, models.ErrAlreadyExists):
		statusCode = http.StatusConflict
		errType = "Conflict"
	case errors.Is(err, models.ErrVersionPending):
		statusCode = http.StatusConflict
		errType = "Conflict"
	case errors.Is(err, models.ErrRestoreActive):
		statusCode = http.StatusConflict
		errType = "Conflict"
	case errors.Is(err, models.ErrInvalidTransition):
		statusCode = http.StatusBadRequest
		errType = "StateError"
	case errors.Is(err, models.ErrNotModerator):
		statusCode = http.StatusForbidden
		errType = "AuthorizationError"
	}

	c.JSON(statusCode, models.APIResponse{
		Status:  "error",
		Code:    statusCode,
		Message: message,
		Error: &models.APIError{
			Type:    errType,
			Details: err.Error(),
		},
	})
}

func respondBadRequest(c *gin.Context, log logger.Logger, message, details string) {
	log.Error(message + ": " + details)
	c.JSON(http.StatusBadRequest, models.APIResponse{
		Status:  "error",
		Code:    http.StatusBadRequest,
		Message: message,
		Error: &models.APIError{
			Type:    "ValidationError",
			Details: details,
		},
	})
}

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, models.APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
	})
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, models.APIResponse{
		Status:  "success",
		Code:    http.StatusCreated,
		Message: message,
		Data:    data,
	})
}

// listPayload is the envelope for paginated listings.
func listPayload(items interface{}, pagination models.Pagination) map[string]interface{} {
	return map[string]interface{}{
		"items":      items,
		"pagination": pagination,
	}
}
