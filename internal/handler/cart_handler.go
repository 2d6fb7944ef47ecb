package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "flanes/internal/errors"
	"flanes/internal/service"
)

const cartPath = "/cart/"

// CartHandler handles the shopping cart pages.
type CartHandler struct {
	cartService service.CartService
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// View shows the caller's cart and its total.
func (h *CartHandler) View(c echo.Context) error {
	claims, err := mustUser(c)
	if err != nil {
		return err
	}

	cart, err := h.cartService.View(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "cart", Page{Title: "Carrito", Cart: cart})
}

// Add puts one unit of a flan in the caller's cart.
func (h *CartHandler) Add(c echo.Context) error {
	flanID, err := parseID(c, "productId", apperrors.ErrFlanNotFound)
	if err != nil {
		return err
	}
	claims, err := mustUser(c)
	if err != nil {
		return err
	}

	if err := h.cartService.Add(c.Request().Context(), claims.UserID, flanID); err != nil {
		return err
	}
	return redirect(c, cartPath)
}

// Remove deletes one of the caller's cart lines. Lines owned by someone
// else are left alone.
func (h *CartHandler) Remove(c echo.Context) error {
	itemID, err := parseID(c, "itemId", echo.ErrNotFound)
	if err != nil {
		return err
	}
	claims, err := mustUser(c)
	if err != nil {
		return err
	}

	if err := h.cartService.Remove(c.Request().Context(), claims.UserID, itemID); err != nil {
		return err
	}
	return redirect(c, cartPath)
}
