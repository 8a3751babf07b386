package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	searchapp "github.com/shopscout/backend/internal/application/search"
	"github.com/shopscout/backend/internal/domain/search"
	"github.com/shopscout/backend/internal/infrastructure/logger"
	"github.com/shopscout/backend/internal/interfaces/http/dto"
	"github.com/shopscout/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, logger.GetGinRequestID(c)))
}

// ErrorWithCode sends an error response, deriving the status code from the error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// ValidationError sends a 400 response listing the invalid fields
func (h *BaseHandler) ValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		logger.GetGinRequestID(c),
		middleware.ValidationDetails(err),
	))
}

// errorCodes maps sentinel errors onto API error codes, in match order
var errorCodes = []struct {
	err  error
	code string
}{
	{search.ErrEmptyQuery, dto.ErrCodeEmptyQuery},
	{search.ErrSearchCanceled, dto.ErrCodeSearchCanceled},
	{search.ErrUnknownProvider, dto.ErrCodeUnknownProvider},
	{search.ErrProviderNotConfigured, dto.ErrCodeProviderNotConfigured},
	{searchapp.ErrHistoryDisabled, dto.ErrCodeHistoryDisabled},
}

// HandleError converts service errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	for _, m := range errorCodes {
		if errors.Is(err, m.err) {
			h.ErrorWithCode(c, m.code, err.Error())
			return
		}
	}

	logger.GetGinLogger(c).Error("Unhandled request error", zap.Error(err))
	_ = c.Error(err)
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}
