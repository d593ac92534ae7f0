package scheduling

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medibloom/api/internal/domain/identity"
	"github.com/medibloom/api/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(protected *echo.Group) {
	protected.GET("/clinics", h.ListClinics)
	protected.GET("/appointments", h.ListAppointments)
	protected.GET("/appointments/upcoming", h.ListUpcoming)
	protected.GET("/appointments/calendar", h.Calendar)
	protected.POST("/appointments", h.CreateAppointment)
	protected.GET("/appointments/:id", h.GetAppointment)
	protected.PUT("/appointments/:id", h.UpdateAppointment)
	protected.DELETE("/appointments/:id", h.DeleteAppointment)
}

func (h *Handler) ListClinics(c echo.Context) error {
	clinics, err := h.svc.ListClinics(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if clinics == nil {
		clinics = []*Clinic{}
	}
	return c.JSON(http.StatusOK, clinics)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.svc.ListAll(ctx, auth.PatientIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListUpcoming(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = parsed
	}

	ctx := c.Request().Context()
	items, err := h.svc.ListUpcoming(ctx, auth.PatientIDFromContext(ctx), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	// An empty slice is the "no appointments" signal for the dashboard.
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Calendar(c echo.Context) error {
	from, err := parseTimeParam(c.QueryParam("from"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "from must be an RFC 3339 timestamp")
	}
	to, err := parseTimeParam(c.QueryParam("to"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "to must be an RFC 3339 timestamp")
	}
	if !to.After(from) {
		return echo.NewHTTPError(http.StatusBadRequest, "to must be after from")
	}

	ctx := c.Request().Context()
	entries, err := h.svc.Calendar(ctx, auth.PatientIDFromContext(ctx), from, to)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if entries == nil {
		entries = []CalendarEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	var in AppointmentInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	a, err := h.svc.Create(ctx, auth.PatientIDFromContext(ctx), &in)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "clinic not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment ID")
	}

	ctx := c.Request().Context()
	a, err := h.svc.Get(ctx, auth.PatientIDFromContext(ctx), id)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment ID")
	}
	var in AppointmentInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	a, err := h.svc.Update(ctx, auth.PatientIDFromContext(ctx), id, &in)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment ID")
	}

	ctx := c.Request().Context()
	if err := h.svc.Delete(ctx, auth.PatientIDFromContext(ctx), id); err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func parseTimeParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("missing value")
	}
	return time.Parse(time.RFC3339, raw)
}
