package records

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medibloom/api/internal/platform/auth"
	"github.com/medibloom/api/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(protected *echo.Group) {
	protected.POST("/vitals", h.CreateVital)
	protected.GET("/vitals", h.ListVitals)
	protected.POST("/symptoms", h.CreateSymptom)
	protected.GET("/symptoms", h.ListSymptoms)
	protected.POST("/medications", h.CreateMedication)
	protected.GET("/medications", h.ListMedications)
}

func (h *Handler) CreateVital(c echo.Context) error {
	var v VitalRecord
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if err := h.svc.AddVital(ctx, auth.PatientIDFromContext(ctx), &v); err != nil {
		return addErrorStatus(err)
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) ListVitals(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	items, total, err := h.svc.ListVitals(ctx, auth.PatientIDFromContext(ctx), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*VitalRecord{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) CreateSymptom(c echo.Context) error {
	var s Symptom
	if err := c.Bind(&s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if err := h.svc.AddSymptom(ctx, auth.PatientIDFromContext(ctx), &s); err != nil {
		return addErrorStatus(err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *Handler) ListSymptoms(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	items, total, err := h.svc.ListSymptoms(ctx, auth.PatientIDFromContext(ctx), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Symptom{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) CreateMedication(c echo.Context) error {
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if err := h.svc.AddMedication(ctx, auth.PatientIDFromContext(ctx), &m); err != nil {
		return addErrorStatus(err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) ListMedications(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	items, total, err := h.svc.ListMedications(ctx, auth.PatientIDFromContext(ctx), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Medication{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// addErrorStatus maps an Add failure to the right HTTP status: input the
// caller can fix is a 400, a failed insert is a 500.
func addErrorStatus(err error) error {
	if errors.Is(err, ErrValidation) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
