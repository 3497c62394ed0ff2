package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/ai-summarizer/internal/domain/summarizer"
	apperrors "github.com/yanqian/ai-summarizer/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// fromDomainError maps summarizer error codes onto HTTP statuses. Only the
// AppError message reaches the client; the wrapped cause is logged.
func fromDomainError(err error) *HTTPError {
	code := apperrors.CodeOf(err)
	message := apperrors.MessageOf(err)
	switch code {
	case summarizer.CodeInvalidInput:
		return NewHTTPError(http.StatusBadRequest, code, message, err)
	case summarizer.CodeModelUnavailable, summarizer.CodeMalformedRequest, summarizer.CodeInferenceFailed:
		return NewHTTPError(http.StatusInternalServerError, code, message, err)
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal_error", summarizer.MsgSummaryFailed, err)
	}
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "Internal server error.",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
