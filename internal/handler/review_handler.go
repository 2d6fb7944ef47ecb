package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"flanes/internal/service"
)

// ReviewHandler lists the reviews written by the caller.
type ReviewHandler struct {
	reviewService service.ReviewService
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// Mine lists the caller's reviews, newest first.
func (h *ReviewHandler) Mine(c echo.Context) error {
	claims, err := mustUser(c)
	if err != nil {
		return err
	}

	reviews, err := h.reviewService.ListByUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "reviews", Page{Title: "Mis reseñas", Reviews: reviews})
}
