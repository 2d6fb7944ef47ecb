package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"flanes/internal/service"
	"flanes/internal/validation"
)

// ContactHandler handles the contact form.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Form shows an empty contact form.
func (h *ContactHandler) Form(c echo.Context) error {
	return render(c, http.StatusOK, "contact", Page{Title: "Contacto", Form: &validation.ContactForm{}})
}

// Submit stores a contact message. Invalid submissions re-render the form
// with field errors.
func (h *ContactHandler) Submit(c echo.Context) error {
	var form validation.ContactForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form data")
	}

	errs, err := h.contactService.Submit(c.Request().Context(), &form)
	if err != nil {
		return err
	}
	if !errs.Valid() {
		return render(c, http.StatusOK, "contact", Page{Title: "Contacto", Form: &form, Errors: errs})
	}
	return redirect(c, "/contact/success/")
}

// Success thanks the visitor for their message.
func (h *ContactHandler) Success(c echo.Context) error {
	return render(c, http.StatusOK, "contact_success", Page{Title: "Gracias"})
}
