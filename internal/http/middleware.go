package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/louisbranch/decisionlog/internal/auth"
	apperrors "github.com/louisbranch/decisionlog/internal/platform/errors"
)

const userContextKey = "decisionlog.user"

// requireAuth resolves a Bearer token to a user and stores it on the
// request context.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return s.writeError(c, apperrors.New(apperrors.CodeTokenInvalid, "missing bearer token"))
		}

		user, err := s.services.Auth.Authenticate(c.Request().Context(), strings.TrimSpace(token))
		if err != nil {
			return s.writeError(c, err)
		}
		c.Set(userContextKey, user)
		return next(c)
	}
}

// currentUser returns the authenticated user set by requireAuth.
func currentUser(c echo.Context) auth.User {
	user, _ := c.Get(userContextKey).(auth.User)
	return user
}

// ErrorResponse is the error body shape for every failed request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the machine-readable code alongside the message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeError(c echo.Context, err error) error {
	status := apperrors.HTTPStatus(err)
	code := apperrors.GetCode(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
		message = "internal error"
	}
	return c.JSON(status, ErrorResponse{Error: ErrorBody{Code: string(code), Message: message}})
}
