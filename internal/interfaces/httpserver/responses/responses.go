package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"loom-server/services/chat-api/internal/infrastructure/logger"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

// ErrorResponse is the JSON error envelope every failing endpoint returns.
type ErrorResponse struct {
	Error *ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

// HandleError writes the response for a domain or repository failure. Platform
// errors carry their own type; anything else is an internal error.
func HandleError(c *gin.Context, err error, fallbackMessage string) {
	var platformErr *platformerrors.PlatformError
	if !errors.As(err, &platformErr) {
		platformErr = platformerrors.NewError(
			c.Request.Context(),
			platformerrors.LayerHandler,
			platformerrors.ErrorTypeInternal,
			fallbackMessage,
			err,
			"",
		)
	}

	platformerrors.LogError(logger.GetLogger(), platformErr)

	status := platformerrors.ErrorTypeToHTTPStatus(platformErr.Type)
	message := platformErr.Message
	if status == http.StatusInternalServerError {
		// internal details stay in the logs
		message = fallbackMessage
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: &ErrorDetail{
			Message: message,
			Type:    errorTypeToString(platformErr.Type),
			Code:    platformErr.UUID,
		},
	})
}

// HandleNewError creates and writes a new typed error response. Use this for
// route-level failures like validation or missing credentials.
func HandleNewError(c *gin.Context, errorType platformerrors.ErrorType, message string) {
	status := platformerrors.ErrorTypeToHTTPStatus(errorType)
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: &ErrorDetail{
			Message: message,
			Type:    errorTypeToString(errorType),
		},
	})
}

// HandleErrorWithStatus writes an error response with an explicit status code.
func HandleErrorWithStatus(c *gin.Context, statusCode int, err error, message string) {
	if err != nil {
		log := logger.GetLogger()
		log.Warn().Err(err).Int("status", statusCode).Str("path", c.Request.URL.Path).Msg(message)
	}
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error: &ErrorDetail{
			Message: message,
			Type:    statusToErrorType(statusCode),
		},
	})
}

func statusToErrorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "validation_error"
	case http.StatusUnauthorized:
		return "unauthorized_error"
	case http.StatusForbidden:
		return "forbidden_error"
	case http.StatusNotFound:
		return "not_found_error"
	case http.StatusConflict:
		return "conflict_error"
	case http.StatusGone:
		return "gone_error"
	case http.StatusGatewayTimeout:
		return "timeout_error"
	case http.StatusBadGateway:
		return "gateway_error"
	default:
		return "internal_error"
	}
}

// errorTypeToString converts an ErrorType to a snake_case string for API responses.
func errorTypeToString(t platformerrors.ErrorType) string {
	switch t {
	case platformerrors.ErrorTypeNotFound:
		return "not_found_error"
	case platformerrors.ErrorTypeValidation:
		return "validation_error"
	case platformerrors.ErrorTypeConflict:
		return "conflict_error"
	case platformerrors.ErrorTypeUnauthorized:
		return "unauthorized_error"
	case platformerrors.ErrorTypeForbidden:
		return "forbidden_error"
	case platformerrors.ErrorTypeQuotaExceeded:
		return "quota_exceeded_error"
	case platformerrors.ErrorTypeGone:
		return "gone_error"
	case platformerrors.ErrorTypeTimeout:
		return "timeout_error"
	case platformerrors.ErrorTypeExternal:
		return "gateway_error"
	case platformerrors.ErrorTypeNotImplemented:
		return "not_implemented_error"
	case platformerrors.ErrorTypeInternal, platformerrors.ErrorTypeDatabaseError:
		fallthrough
	default:
		return "internal_error"
	}
}
