package api

import (
	"net/http"

	"socialgraph/backend/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// errorTypeInvalidRequest marks malformed bodies and path parameters
const errorTypeInvalidRequest = "invalid_request"

// statusFor maps an error kind to its HTTP status
func statusFor(err error) int {
	t, ok := errors.TypeOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch t {
	case errors.ErrorTypeInvalidHandle, errors.ErrorTypeInvalidContent:
		return http.StatusBadRequest
	case errors.ErrorTypeHandleTaken:
		return http.StatusConflict
	case errors.ErrorTypeAccountNotFound, errors.ErrorTypeTargetNotFound, errors.ErrorTypeContentNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeNotActionable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func resultOf(err error) string {
	if err == nil {
		return "ok"
	}
	if t, ok := errors.TypeOf(err); ok {
		return string(t)
	}
	return "error"
}

// fail writes err as a JSON error body and records it against operation
func (s *Server) fail(c *gin.Context, operation string, err error) {
	s.observe(operation, err)
	_ = c.Error(err)

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Operation failed",
			zap.String("operation", operation),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{"error": err.Error(), "type": resultOf(err)})
}

// badRequest rejects a request that never reached the graph
func (s *Server) badRequest(c *gin.Context, operation string, err error) {
	s.record(operation, errorTypeInvalidRequest)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "type": errorTypeInvalidRequest})
}
