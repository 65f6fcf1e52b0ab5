package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/framevault-backend/internal/platform/apierr"
	"github.com/yungbote/framevault-backend/internal/platform/ctxutil"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	// RequestID matches the X-Request-Id header and the server logs.
	RequestID string `json:"requestId,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	writeError(c, status, APIError{Message: msg, Code: code})
}

// RespondAPIError writes err with the status carried by an *apierr.Error.
// Anything else is a 500 and its message is not exposed; the cause is attached
// to the gin context for the request logger.
func RespondAPIError(c *gin.Context, err error) {
	ae, ok := apierr.As(err)
	if !ok {
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, APIError{Message: "internal server error", Code: "internal_error"})
		return
	}
	status := ae.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	writeError(c, status, APIError{Message: ae.Error(), Code: ae.Code})
}

// NewAPIError builds an error body stamped with the request id, for handlers
// that return an error alongside a partial payload.
func NewAPIError(c *gin.Context, code, message string) APIError {
	body := APIError{Message: message, Code: code}
	if c.Request != nil {
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			body.RequestID = td.RequestID
		}
	}
	return body
}

func writeError(c *gin.Context, status int, body APIError) {
	stamped := NewAPIError(c, body.Code, body.Message)
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: stamped})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
