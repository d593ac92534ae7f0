package identity

import (
	"errors"
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

// RegisterRoutes wires the identity endpoints. Sign-up and sign-in are
// public; everything else requires a bearer session.
func (h *Handler) RegisterRoutes(public, protected *echo.Group) {
	public.POST("/auth/signup", h.SignUp)
	public.POST("/auth/signin", h.SignIn)

	protected.POST("/auth/signout", h.SignOut)
	protected.GET("/auth/session", h.GetSession)
	protected.POST("/onboarding", h.CompleteOnboarding)
}

func (h *Handler) SignUp(c echo.Context) error {
	var in SignUpInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, err := h.svc.SignUp(c.Request().Context(), in)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, p)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess, err := h.svc.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "sign in failed")
	}

	return c.JSON(http.StatusOK, sess)
}

func (h *Handler) SignOut(c echo.Context) error {
	ctx := c.Request().Context()
	patientID := auth.PatientIDFromContext(ctx)
	sessionID := auth.SessionIDFromContext(ctx)

	if err := h.svc.SignOut(ctx, patientID, sessionID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "sign out failed")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetSession(c echo.Context) error {
	ctx := c.Request().Context()
	patientID := auth.PatientIDFromContext(ctx)

	p, err := h.svc.GetPatient(ctx, patientID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "no patient for session")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "session lookup failed")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"patient":    p,
		"session_id": auth.SessionIDFromContext(ctx),
	})
}

func (h *Handler) CompleteOnboarding(c echo.Context) error {
	var d PatientDetails
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if err := h.svc.CompleteOnboarding(ctx, auth.PatientIDFromContext(ctx), &d); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return echo.NewHTTPError(http.StatusConflict, "onboarding already completed")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, d)
}
