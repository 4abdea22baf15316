package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "grantledger/internal/errors"
	"grantledger/internal/logger"
	"grantledger/internal/middleware"
	"grantledger/internal/models"
	"grantledger/internal/pagination"
)

// getActor extracts the authenticated user from the Gin context.
// Returns ErrUnauthorized if not present.
func getActor(c *gin.Context) (models.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return models.User{}, apperrors.ErrUnauthorized
	}
	return user, nil
}

// parsePathID reads a non-empty ID path parameter.
func parsePathID(c *gin.Context, param string) (string, error) {
	id := strings.TrimSpace(c.Param(param))
	if id == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

func parsePage(c *gin.Context) (pagination.PageRequest, error) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		return page, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return page, nil
}

// parseBoolQuery parses an optional "true"/"false" query parameter.
func parseBoolQuery(c *gin.Context, key string) (*bool, error) {
	switch c.Query(key) {
	case "":
		return nil, nil
	case "true":
		b := true
		return &b, nil
	case "false":
		b := false
		return &b, nil
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, key+" must be 'true' or 'false'")
	}
}

// parseDate accepts RFC3339 or YYYY-MM-DD. An empty string yields the zero time.
func parseDate(raw, field string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		parsed, err = time.Parse("2006-01-02", raw)
	}
	if err != nil {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, field+" must be RFC3339 or YYYY-MM-DD")
	}
	return parsed, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, message and headroom.
// Otherwise it logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
				"request_id", middleware.RequestID(c),
			)
		}
		c.JSON(appErr.StatusCode, middleware.ErrorBody(appErr))
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"request_id", middleware.RequestID(c),
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, middleware.ErrorBody(apperrors.ErrInternalServer))
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Headroom *int64 `json:"headroom,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse is returned by endpoints that only confirm an action.
type MessageResponse struct {
	Message string `json:"message"`
}
