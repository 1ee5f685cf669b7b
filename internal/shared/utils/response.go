package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slatepos/slate/internal/shared/errors"
)

// APIResponse represents a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorInfo represents error information in API response
type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse sends a successful response with custom status code
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// CreatedResponse sends a created response
func CreatedResponse(c *gin.Context, data interface{}, message ...string) {
	response := APIResponse{
		Success: true,
		Data:    data,
	}
	if len(message) > 0 {
		response.Message = message[0]
	} else {
		response.Message = "Resource created successfully"
	}
	c.JSON(http.StatusCreated, response)
}

// ErrorResponse sends an error response with custom status code and message
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error: &ErrorInfo{
			Type:    "error",
			Message: message,
		},
	})
}

// ErrorResponseWithError sends an error response based on error type
func ErrorResponseWithError(c *gin.Context, err error) {
	var appErr *errors.AppError
	statusCode := http.StatusInternalServerError

	if e, ok := err.(*errors.AppError); ok {
		appErr = e
		switch {
		case e.Type == errors.ErrorTypeValidation:
			statusCode = http.StatusBadRequest
		case errors.IsNotFound(err):
			statusCode = http.StatusNotFound
		case e.Type == errors.ErrorTypePersistence && e.Kind == errors.PersistenceConstraint:
			statusCode = http.StatusConflict
		case e.Type == errors.ErrorTypeSync || e.Type == errors.ErrorTypeTransport:
			statusCode = http.StatusBadGateway
		}
	}

	if appErr != nil {
		c.JSON(statusCode, APIResponse{
			Success: false,
			Error: &ErrorInfo{
				Type:    string(appErr.Type),
				Message: appErr.Message,
				Details: appErr.Details,
			},
		})
		return
	}
	ErrorResponse(c, statusCode, err.Error())
}
