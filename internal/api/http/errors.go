package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/browserctl/internal/domain/browser"
)

// Codes for failures detected by the request layer itself.
const (
	codeInvalidArgument  = "invalid_argument"
	codeDeadlineExceeded = "deadline_exceeded"
	codeInternal         = "internal"
)

// statusFor maps a controller error to an HTTP status and error code.
func statusFor(err error) (int, string) {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, codeDeadlineExceeded
	}

	code := browser.CodeOf(err)
	switch code {
	case browser.ErrAlreadyRunning, browser.ErrNotRunning, browser.ErrStillRunning:
		return http.StatusConflict, string(code)
	case browser.ErrExecutableNotFound:
		return http.StatusServiceUnavailable, string(code)
	case browser.ErrSpawnFailed, browser.ErrQueryFailed, browser.ErrResetFailed:
		return http.StatusInternalServerError, string(code)
	case browser.ErrUnsupportedKind:
		return http.StatusBadRequest, string(code)
	}
	return http.StatusInternalServerError, codeInternal
}

func writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  code,
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": msg,
		"code":  codeInvalidArgument,
	})
}
