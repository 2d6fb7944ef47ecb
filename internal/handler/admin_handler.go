package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "flanes/internal/errors"
	"flanes/internal/repository"
	"flanes/internal/service"
)

// AdminHandler serves the catalog management JSON API.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// apiError converts a service error into an echo error carrying an
// ErrorResponse body.
func apiError(err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(message, code string) error {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// ListFlans godoc
// @Summary List flans
// @Description Lists public and private flans ordered by name.
// @Tags admin
// @Produce json
// @Param private query bool false "Filter by visibility"
// @Param q query string false "Search in name and description"
// @Success 200 {array} model.Flan
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security SessionCookie
// @Router /flans [get]
func (h *AdminHandler) ListFlans(c echo.Context) error {
	filter := repository.FlanFilter{Query: c.QueryParam("q")}
	if raw := c.QueryParam("private"); raw != "" {
		private, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest("private must be true or false", "INVALID_FILTER")
		}
		filter.Private = &private
	}

	flans, err := h.adminService.ListFlans(c.Request().Context(), filter)
	if err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusOK, flans)
}

// CreateFlan godoc
// @Summary Create a flan
// @Description The slug is derived from the name when omitted.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body service.FlanInput true "Flan data"
// @Success 201 {object} model.Flan
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security SessionCookie
// @Router /flans [post]
func (h *AdminHandler) CreateFlan(c echo.Context) error {
	var req service.FlanInput
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body", "INVALID_BODY")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error(), "VALIDATION_FAILED")
	}

	flan, err := h.adminService.CreateFlan(c.Request().Context(), req)
	if err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusCreated, flan)
}

// UpdateFlan godoc
// @Summary Update a flan
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Flan ID"
// @Param request body service.FlanInput true "Flan data"
// @Success 200 {object} model.Flan
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security SessionCookie
// @Router /flans/{id} [put]
func (h *AdminHandler) UpdateFlan(c echo.Context) error {
	id, err := parseID(c, "id", apperrors.ErrFlanNotFound)
	if err != nil {
		return apiError(err)
	}

	var req service.FlanInput
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body", "INVALID_BODY")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error(), "VALIDATION_FAILED")
	}

	flan, err := h.adminService.UpdateFlan(c.Request().Context(), id, req)
	if err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusOK, flan)
}

// DeleteFlan godoc
// @Summary Delete a flan
// @Description Cart lines and reviews of the flan are deleted with it.
// @Tags admin
// @Param id path int true "Flan ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security SessionCookie
// @Router /flans/{id} [delete]
func (h *AdminHandler) DeleteFlan(c echo.Context) error {
	id, err := parseID(c, "id", apperrors.ErrFlanNotFound)
	if err != nil {
		return apiError(err)
	}

	if err := h.adminService.DeleteFlan(c.Request().Context(), id); err != nil {
		return apiError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListContacts godoc
// @Summary List contact messages
// @Tags admin
// @Produce json
// @Success 200 {array} model.ContactMessage
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security SessionCookie
// @Router /contacts [get]
func (h *AdminHandler) ListContacts(c echo.Context) error {
	msgs, err := h.adminService.ListContactMessages(c.Request().Context())
	if err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusOK, msgs)
}

// ListReviews godoc
// @Summary List reviews
// @Tags admin
// @Produce json
// @Param rating query int false "Only reviews with this rating (1-5)"
// @Success 200 {array} model.Review
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security SessionCookie
// @Router /reviews [get]
func (h *AdminHandler) ListReviews(c echo.Context) error {
	rating := 0
	if raw := c.QueryParam("rating"); raw != "" {
		var err error
		rating, err = strconv.Atoi(raw)
		if err != nil {
			return badRequest("rating must be a number", "INVALID_FILTER")
		}
	}

	reviews, err := h.adminService.ListReviews(c.Request().Context(), rating)
	if err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusOK, reviews)
}
