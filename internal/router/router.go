package router

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"flanes/internal/auth"
	"flanes/internal/handler"
	"flanes/internal/logging"
	"flanes/internal/metrics"
	"flanes/internal/validation"
)

// Handlers groups the handlers served by the router.
type Handlers struct {
	Catalog *handler.CatalogHandler
	Product *handler.ProductHandler
	Cart    *handler.CartHandler
	Contact *handler.ContactHandler
	Auth    *handler.AuthHandler
	Review  *handler.ReviewHandler
	Admin   *handler.AdminHandler
}

// Deps holds the shared infrastructure the middleware needs.
type Deps struct {
	Log        *logrus.Logger
	Metrics    *metrics.Metrics
	JWTService *auth.JWTService
	TokenStore auth.TokenStoreInterface
	Renderer   echo.Renderer
}

// Register wires routes and middleware.
func Register(e *echo.Echo, deps Deps, h Handlers) {
	e.Renderer = deps.Renderer
	e.Validator = validation.EchoValidator{}
	e.HTTPErrorHandler = handler.ErrorHandler(deps.Log)

	// Reads get a 301; other methods get a 308 so the form body is resent.
	e.Pre(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			return !isReadMethod(c.Request().Method) || skipTrailingSlash(c)
		},
	}))
	e.Pre(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusPermanentRedirect,
		Skipper: func(c echo.Context) bool {
			return isReadMethod(c.Request().Method) || skipTrailingSlash(c)
		},
	}))
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(deps.Log))
	e.Use(middleware.Recover())
	e.Use(deps.Metrics.Middleware())
	e.Use(auth.Session(deps.JWTService, deps.TokenStore))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", deps.Metrics.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	requireLogin := auth.RequireLogin("/login/")

	// Public pages
	e.GET("/", h.Catalog.Index)
	e.GET("/about/", h.Catalog.About)
	e.GET("/catalog/", h.Catalog.Catalog)
	e.GET("/contact/", h.Contact.Form)
	e.POST("/contact/", h.Contact.Submit)
	e.GET("/contact/success/", h.Contact.Success)
	e.GET("/register/", h.Auth.RegisterForm)
	e.POST("/register/", h.Auth.Register)
	e.GET("/login/", h.Auth.LoginForm)
	e.POST("/login/", h.Auth.Login)
	e.GET("/product/:id/", h.Product.Detail)
	e.POST("/product/:id/", h.Product.SubmitReview, requireLogin)

	// Pages for signed-in users
	e.GET("/welcome/", h.Catalog.Welcome, requireLogin)
	e.GET("/cart/", h.Cart.View, requireLogin)
	e.POST("/cart/add/:productId/", h.Cart.Add, requireLogin)
	e.POST("/cart/remove/:itemId/", h.Cart.Remove, requireLogin)
	e.GET("/reviews/", h.Review.Mine, requireLogin)
	e.GET("/logout/", h.Auth.Logout, requireLogin)
	e.POST("/logout/", h.Auth.Logout, requireLogin)

	// Admin API
	admin := e.Group(handler.APIPrefix, auth.RequireAdmin())
	admin.GET("/flans", h.Admin.ListFlans)
	admin.POST("/flans", h.Admin.CreateFlan)
	admin.PUT("/flans/:id", h.Admin.UpdateFlan)
	admin.DELETE("/flans/:id", h.Admin.DeleteFlan)
	admin.GET("/contacts", h.Admin.ListContacts)
	admin.GET("/reviews", h.Admin.ListReviews)
}

func isReadMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

// skipTrailingSlash leaves non-page paths alone.
func skipTrailingSlash(c echo.Context) bool {
	p := c.Request().URL.Path
	for _, prefix := range []string{"/healthz", "/metrics", "/swagger", handler.APIPrefix} {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}
