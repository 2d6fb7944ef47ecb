package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	apperrors "flanes/internal/errors"
)

// APIPrefix is the path prefix of the JSON API. Errors under it are
// answered with an ErrorResponse instead of an HTML page.
const APIPrefix = "/admin/api"

// ErrorHandler renders errors returned by handlers. Domain errors are
// mapped with MapErrorToHTTP; server errors are logged.
func ErrorHandler(log *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body, cause := resolveError(err)
		if status >= http.StatusInternalServerError {
			log.WithError(cause).WithFields(logrus.Fields{
				"method":     c.Request().Method,
				"uri":        c.Request().RequestURI,
				"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
			}).Error("request failed")
		}

		var writeErr error
		switch {
		case c.Request().Method == http.MethodHead:
			writeErr = c.NoContent(status)
		case strings.HasPrefix(c.Request().URL.Path, APIPrefix):
			writeErr = c.JSON(status, body)
		default:
			writeErr = render(c, status, "error", Page{
				Title:   http.StatusText(status),
				Status:  status,
				Message: pageMessage(status),
			})
		}
		if writeErr != nil {
			log.WithError(writeErr).Warn("write error response")
		}
	}
}

// resolveError picks the status code and JSON body for err and returns the
// underlying error for logging.
func resolveError(err error) (int, apperrors.ErrorResponse, error) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		cause := err
		if he.Internal != nil {
			cause = he.Internal
		}
		switch msg := he.Message.(type) {
		case apperrors.ErrorResponse:
			return he.Code, msg, cause
		case string:
			return he.Code, apperrors.ErrorResponse{Error: msg, Code: codeForStatus(he.Code)}, cause
		default:
			return he.Code, apperrors.ErrorResponse{Error: http.StatusText(he.Code), Code: codeForStatus(he.Code)}, cause
		}
	}

	var appErr *apperrors.HTTPError
	if errors.As(err, &appErr) {
		return appErr.StatusCode, appErr.ToErrorResponse(), err
	}

	mapped := apperrors.MapErrorToHTTP(err)
	return mapped.StatusCode, mapped.ToErrorResponse(), err
}

func codeForStatus(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}

func pageMessage(status int) string {
	switch status {
	case http.StatusNotFound:
		return "La página que buscas no existe."
	case http.StatusBadRequest:
		return "La solicitud no es válida."
	case http.StatusUnauthorized, http.StatusForbidden:
		return "No tienes permiso para ver esta página."
	case http.StatusMethodNotAllowed:
		return "Método no permitido."
	default:
		if status >= http.StatusInternalServerError {
			return "Ocurrió un error inesperado. Inténtalo de nuevo más tarde."
		}
		return http.StatusText(status)
	}
}
