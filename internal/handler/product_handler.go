package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"flanes/internal/auth"
	apperrors "flanes/internal/errors"
	"flanes/internal/service"
	"flanes/internal/validation"
)

// ProductHandler serves the flan detail page and review submission.
type ProductHandler struct {
	catalogService service.CatalogService
	reviewService  service.ReviewService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(catalogService service.CatalogService, reviewService service.ReviewService) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		reviewService:  reviewService,
	}
}

// Detail shows a flan with its reviews. Private flans are not found for
// anonymous callers.
func (h *ProductHandler) Detail(c echo.Context) error {
	id, err := parseID(c, "id", apperrors.ErrFlanNotFound)
	if err != nil {
		return err
	}

	_, authenticated := auth.CurrentUser(c)
	return h.renderDetail(c, id, authenticated, &validation.ReviewForm{}, nil)
}

// SubmitReview stores a review from the detail page and redirects back to
// it. Invalid reviews re-render the page with the field errors.
func (h *ProductHandler) SubmitReview(c echo.Context) error {
	id, err := parseID(c, "id", apperrors.ErrFlanNotFound)
	if err != nil {
		return err
	}
	claims, err := mustUser(c)
	if err != nil {
		return err
	}

	form := &validation.ReviewForm{
		Rating:  c.FormValue("rating"),
		Comment: c.FormValue("comment"),
	}
	errs, err := h.reviewService.Submit(c.Request().Context(), claims.UserID, id, form)
	if err != nil {
		return err
	}
	if !errs.Valid() {
		return h.renderDetail(c, id, true, form, errs)
	}
	return redirect(c, fmt.Sprintf("/product/%d/", id))
}

func (h *ProductHandler) renderDetail(c echo.Context, id uint, authenticated bool, form *validation.ReviewForm, errs validation.Errors) error {
	detail, err := h.catalogService.GetProductDetail(c.Request().Context(), id, authenticated)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "product", Page{
		Title:   detail.Flan.Name,
		Detail:  detail,
		Form:    form,
		Errors:  errs,
		Ratings: ratingChoices(),
	})
}
