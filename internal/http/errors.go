package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fyrsmithlabs/reposcribe/internal/aggregate"
	"github.com/fyrsmithlabs/reposcribe/internal/digest"
	"github.com/fyrsmithlabs/reposcribe/internal/errs"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// statusFor maps a handler error to a status code and client message.
// Every class carries the error text so callers can render the cause.
func statusFor(err error) (int, string) {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code, fmt.Sprint(he.Message)
	case errors.Is(err, errs.ErrInvalidArgument), errors.Is(err, digest.ErrNoContent):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, aggregate.ErrNoMatchingFiles):
		return http.StatusNotFound, "No priority files or folders found in the repository"
	case errors.Is(err, errs.ErrRemoteUnavailable), errors.Is(err, errs.ErrRemoteProtocol):
		return http.StatusBadGateway, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

// handleError writes every error as {"error": "..."}.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, msg := statusFor(err)
	ctx := c.Request().Context()
	if status >= http.StatusInternalServerError {
		s.logger.Error(ctx, "request failed", zap.Int("status", status), zap.Error(err))
	} else {
		s.logger.Debug(ctx, "request rejected", zap.Int("status", status), zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, ErrorResponse{Error: msg})
}
