package video

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

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/video/token", h.CreateToken)
}

type tokenRequest struct {
	Identity string `json:"identity"`
	Room     string `json:"room"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// CreateToken issues a video access token for the authenticated patient. The
// requested identity must be the caller's own patient ID; the room is the
// appointment being joined.
func (h *Handler) CreateToken(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if req.Identity == "" || req.Room == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "identity and room are required"})
	}

	patientID := auth.PatientIDFromContext(c.Request().Context())
	if req.Identity != patientID.String() {
		return c.JSON(http.StatusForbidden, errorResponse{Error: "identity does not match the authenticated patient"})
	}

	token, err := h.svc.Token(req.Identity, req.Room)
	if err != nil {
		if errors.Is(err, ErrIdentityMissing) || errors.Is(err, ErrRoomMissing) {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to create video token"})
	}

	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}
