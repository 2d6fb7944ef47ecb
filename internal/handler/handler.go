package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"flanes/internal/auth"
	apperrors "flanes/internal/errors"
	"flanes/internal/model"
	"flanes/internal/service"
	"flanes/internal/validation"
)

// Page is the data handed to every HTML view. Handlers fill the fields
// their view uses; User is set by render.
type Page struct {
	Title   string
	User    *auth.Claims
	Errors  validation.Errors
	Form    interface{}
	Flans   []model.Flan
	Page    *service.CatalogPage
	Cart    *service.Cart
	Reviews []model.Review
	Detail  *service.ProductDetail
	Ratings []int
	Status  int
	Message string
}

// render writes an HTML view with the current session attached.
func render(c echo.Context, status int, name string, page Page) error {
	if claims, ok := auth.CurrentUser(c); ok {
		page.User = claims
	}
	if page.Errors == nil {
		page.Errors = validation.Errors{}
	}
	return c.Render(status, name, page)
}

// redirect answers a successful form POST so a reload does not resubmit it.
func redirect(c echo.Context, target string) error {
	return c.Redirect(http.StatusSeeOther, target)
}

// parseID reads a positive numeric path parameter. Anything else is
// reported as notFound.
func parseID(c echo.Context, name string, notFound error) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, notFound
	}
	return uint(id), nil
}

// mustUser returns the caller's claims on routes guarded by RequireLogin.
func mustUser(c echo.Context) (*auth.Claims, error) {
	claims, ok := auth.CurrentUser(c)
	if !ok {
		return nil, apperrors.ErrInvalidSession
	}
	return claims, nil
}

// ratingChoices lists the selectable review ratings.
func ratingChoices() []int {
	choices := make([]int, 0, model.MaxRating-model.MinRating+1)
	for r := model.MinRating; r <= model.MaxRating; r++ {
		choices = append(choices, r)
	}
	return choices
}
