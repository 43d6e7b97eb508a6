package response

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"stackit.dev/forum/pkg/apperror"
	appvalidator "stackit.dev/forum/pkg/validator"
)

// Body is the envelope every endpoint returns:
// {status, code, message, data?, errors?}
type Body struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// OptionalUserID returns the user ID when a valid token was presented,
// nil for anonymous requests.
func OptionalUserID(c *gin.Context) *uuid.UUID {
	userID, err := GetUserID(c)
	if err != nil {
		return nil
	}
	return &userID
}

func Success(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Body{
		Status:  "success",
		Code:    code,
		Message: message,
		Data:    data,
	})
}

func OK(c *gin.Context, message string, data any) {
	Success(c, http.StatusOK, message, data)
}

func Created(c *gin.Context, message string, data any) {
	Success(c, http.StatusCreated, message, data)
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, Body{
			Status:  "error",
			Code:    http.StatusBadRequest,
			Message: "validation failed",
			Errors:  appvalidator.FieldMessages(validationErrors),
		})
		return
	}

	code := apperror.MapErrorToStatus(err)
	message := err.Error()

	// Log internal errors, never leak them to the caller
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
		message = apperror.ErrInternal.Error()
	}

	c.JSON(code, Body{
		Status:  "error",
		Code:    code,
		Message: message,
	})
}
