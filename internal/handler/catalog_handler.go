package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"flanes/internal/service"
)

// CatalogHandler serves the public and private flan listings.
type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// Index lists every public flan.
func (h *CatalogHandler) Index(c echo.Context) error {
	flans, err := h.catalogService.ListPublic(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "index", Page{Flans: flans})
}

// About shows the static about page.
func (h *CatalogHandler) About(c echo.Context) error {
	return render(c, http.StatusOK, "about", Page{Title: "Acerca"})
}

// Welcome lists the private flans to an authenticated caller.
func (h *CatalogHandler) Welcome(c echo.Context) error {
	flans, err := h.catalogService.ListPrivate(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "welcome", Page{Title: "Bienvenido", Flans: flans})
}

// Catalog shows one page of public flans. A missing or unparsable page
// number means the first page.
func (h *CatalogHandler) Catalog(c echo.Context) error {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil {
		page = 1
	}

	result, err := h.catalogService.ListCatalog(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "catalog", Page{Title: "Catálogo", Page: result})
}
