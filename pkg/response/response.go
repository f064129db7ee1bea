package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Machine-readable error codes carried in the error envelope.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeAuthentication  = "AUTH_ERROR"
	CodeAuthorization   = "AUTHZ_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeAIService       = "AI_SERVICE_ERROR"
	CodeExternalService = "EXTERNAL_SERVICE_ERROR"
	CodeInternal        = "INTERNAL_ERROR"
)

// Envelope is the unified API response shape: {success, data|error}.
type Envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	ErrorCode string      `json:"error_code,omitempty"`
}

// AppError is a structured application error carrying an HTTP status and a
// machine-readable error code.
type AppError struct {
	HTTPStatus int
	Code       string
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidationError(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Code: CodeValidation, Message: msg}
}

func NewAuthError(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusUnauthorized, Code: CodeAuthentication, Message: msg}
}

func NewForbidden(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusForbidden, Code: CodeAuthorization, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusNotFound, Code: CodeNotFound, Message: msg}
}

func NewAIServiceError(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusServiceUnavailable, Code: CodeAIService, Message: msg}
}

func NewExternalServiceError(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadGateway, Code: CodeExternalService, Message: msg}
}

func NewServerError(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusInternalServerError, Code: CodeInternal, Message: msg}
}

// --- Gin helpers ---

// Success sends a 200 OK envelope with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created sends a 201 Created envelope with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Error sends an error envelope. An *AppError keeps its status and code;
// anything else becomes a generic 500 internal error.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, Envelope{
			Success:   false,
			Error:     appErr.Message,
			ErrorCode: appErr.Code,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, Envelope{
		Success:   false,
		Error:     err.Error(),
		ErrorCode: CodeInternal,
	})
}

// Status helpers delegate through the taxonomy constructors so the
// status/code mapping lives in one place.

func BadRequest(c *gin.Context, msg string) {
	Error(c, NewValidationError(msg))
}

func Unauthorized(c *gin.Context, msg string) {
	Error(c, NewAuthError(msg))
}

func Forbidden(c *gin.Context, msg string) {
	Error(c, NewForbidden(msg))
}

func NotFound(c *gin.Context, msg string) {
	Error(c, NewNotFound(msg))
}

func AIServiceUnavailable(c *gin.Context, msg string) {
	Error(c, NewAIServiceError(msg))
}

func BadGateway(c *gin.Context, msg string) {
	Error(c, NewExternalServiceError(msg))
}

func ServerError(c *gin.Context, msg string) {
	Error(c, NewServerError(msg))
}
