package auth

import (
	"net/http"
	"net/url"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "flanes/internal/errors"
	"flanes/internal/model"
)

const (
	// SessionCookie is the cookie carrying the signed session token.
	SessionCookie = "session"
	// contextKey is where the session middleware stores *Claims.
	contextKey = "session"
)

// Session resolves the session cookie on every request. A missing, invalid,
// expired or revoked token leaves the request anonymous; it never fails the
// request.
func Session(jwtService *JWTService, tokens TokenStoreInterface) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  contextKey,
		TokenLookup: "cookie:" + SessionCookie,
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			claims, err := jwtService.ValidateToken(raw)
			if err != nil {
				return nil, apperrors.ErrInvalidSession
			}
			revoked, err := tokens.IsRevoked(c.Request().Context(), claims.ID)
			if err != nil || revoked {
				return nil, apperrors.ErrInvalidSession
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return nil
		},
		ContinueOnIgnoredError: true,
	})
}

// CurrentUser returns the claims of the authenticated caller, if any.
func CurrentUser(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(contextKey).(*Claims)
	return claims, ok && claims != nil
}

// RequireLogin redirects anonymous callers to loginPath. For GET requests
// the original URI is passed along as ?next= so login can return there.
func RequireLogin(loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentUser(c); ok {
				return next(c)
			}
			target := loginPath
			if c.Request().Method == http.MethodGet {
				target += "?next=" + url.QueryEscape(c.Request().URL.RequestURI())
			}
			return c.Redirect(http.StatusFound, target)
		}
	}
}

// RequireAdmin rejects anonymous callers with 401 and non-admin callers
// with 403, as JSON.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := CurrentUser(c)
			if !ok {
				httpErr := apperrors.MapErrorToHTTP(apperrors.ErrInvalidSession)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			if claims.Role != model.RoleAdmin {
				httpErr := apperrors.MapErrorToHTTP(apperrors.ErrForbidden)
				return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			return next(c)
		}
	}
}
