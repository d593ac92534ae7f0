package report

import (
	"fmt"
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
	protected.GET("/reports/health", h.Download)
}

func (h *Handler) Download(c echo.Context) error {
	ctx := c.Request().Context()
	doc, generatedAt, err := h.svc.Generate(ctx, auth.PatientIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// The filename date comes from the same clock as the document's
	// "Report Generated" line.
	filename := fmt.Sprintf("health_report_%s.pdf", generatedAt.Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Blob(http.StatusOK, "application/pdf", doc)
}
