package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"flanes/internal/auth"
	"flanes/internal/service"
	"flanes/internal/validation"
)

const (
	loginPath = "/login/"
	homePath  = "/"
)

// AuthHandler handles registration, login and logout pages.
type AuthHandler struct {
	authService  service.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new auth handler. secureCookie marks the
// session cookie as HTTPS only.
func NewAuthHandler(authService service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

// RegisterForm shows an empty registration form.
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return render(c, http.StatusOK, "register", Page{Title: "Registro", Form: &validation.RegisterForm{}})
}

// Register creates an account and sends the visitor to the login page.
func (h *AuthHandler) Register(c echo.Context) error {
	var form validation.RegisterForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}

	_, errs, err := h.authService.Register(c.Request().Context(), &form)
	if err != nil {
		return err
	}
	if !errs.Valid() {
		return render(c, http.StatusOK, "register", Page{Title: "Registro", Form: &form, Errors: errs})
	}
	return redirect(c, loginPath)
}

// LoginForm shows the login form, keeping ?next= for after login.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	form := &validation.LoginForm{Next: safeNext(c.QueryParam("next"))}
	return render(c, http.StatusOK, "login", Page{Title: "Ingresar", Form: form})
}

// Login checks the credentials, sets the session cookie and redirects to
// next (same site only) or the home page.
func (h *AuthHandler) Login(c echo.Context) error {
	var form validation.LoginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}
	form.Next = safeNext(form.Next)

	session, errs, err := h.authService.Login(c.Request().Context(), &form)
	if err != nil {
		return err
	}
	if !errs.Valid() {
		return render(c, http.StatusOK, "login", Page{Title: "Ingresar", Form: &form, Errors: errs})
	}

	auth.SetSessionCookie(c, session.Token, session.ExpiresAt, h.secureCookie)
	target := form.Next
	if target == "" {
		target = homePath
	}
	return redirect(c, target)
}

// Logout revokes the session and clears the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, err := mustUser(c)
	if err != nil {
		return err
	}

	auth.ClearSessionCookie(c, h.secureCookie)
	if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
		return err
	}
	return redirect(c, homePath)
}

// safeNext keeps next only when it is a local absolute path, so login
// cannot be used to redirect off site.
func safeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return next
}
