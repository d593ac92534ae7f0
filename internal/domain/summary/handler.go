package summary

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medibloom/api/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(protected *echo.Group) {
	protected.GET("/dashboard", h.GetDashboard)
}

func (h *Handler) GetDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	return c.JSON(http.StatusOK, h.svc.Get(ctx, auth.PatientIDFromContext(ctx)))
}
