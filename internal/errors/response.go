package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 标准错误响应
type ErrorResponse struct {
	Error   string `json:"error"`   // error code for frontend mapping
	Message string `json:"message"` // localized message shown to the user
}

// RespondWithError writes an ErrorResponse with the given status
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "请先登录"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "无访问权限"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

// ValidationError carries per-field messages
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithValidationError(c *gin.Context, errorCode, message string, fields map[string]string) {
	if errorCode == "" {
		errorCode = ValidationInvalidInput
	}
	if message == "" {
		message = "输入信息有误"
	}
	c.JSON(http.StatusBadRequest, ValidationError{
		Error:   errorCode,
		Message: message,
		Fields:  fields,
	})
}
