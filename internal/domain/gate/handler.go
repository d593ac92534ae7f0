package gate

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medibloom/api/internal/platform/auth"
	"github.com/medibloom/api/internal/platform/websocket"
)

// SignOuter revokes sessions. The gate issues the sign-out a self-healing
// decision asks for; evaluation never does it implicitly. Revocation covers
// every session of the patient, since a missing patient row orphans all of
// them at once.
type SignOuter interface {
	SignOutAll(ctx context.Context, patientID uuid.UUID) error
}

type Handler struct {
	svc     *Service
	signout SignOuter
	broker  *auth.Broker
	hub     *websocket.Hub
	logger  zerolog.Logger
}

func NewHandler(svc *Service, signout SignOuter, broker *auth.Broker, hub *websocket.Hub, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, signout: signout, broker: broker, hub: hub, logger: logger}
}

func (h *Handler) RegisterRoutes(protected *echo.Group) {
	protected.GET("/gate", h.GetState)
	protected.GET("/gate/ws", h.Stream)
}

type stateResponse struct {
	State State `json:"state"`
}

// GetState evaluates the gate for the caller and applies a sign-out decision
// before responding.
func (h *Handler) GetState(c echo.Context) error {
	ctx := c.Request().Context()
	patientID := auth.PatientIDFromContext(ctx)
	sessionID := auth.SessionIDFromContext(ctx)

	d := h.svc.Evaluate(ctx, patientID, sessionID)
	if d.SignOut {
		if err := h.signout.SignOutAll(ctx, patientID); err != nil {
			h.logger.Error().Err(err).
				Str("session_id", sessionID.String()).
				Msg("self-healing sign-out failed")
		}
	}

	return c.JSON(http.StatusOK, stateResponse{State: d.State})
}

// Stream upgrades to a websocket and pushes gate states on every session
// event for the caller's patient. The broker subscription lives exactly as
// long as the connection and is released once on teardown.
func (h *Handler) Stream(c echo.Context) error {
	ctx := c.Request().Context()
	patientID := auth.PatientIDFromContext(ctx)
	sessionID := auth.SessionIDFromContext(ctx)

	ws, err := websocket.Upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	events, cancel := h.broker.Subscribe(patientID)
	client := websocket.NewClient(patientID.String(), websocket.GorillaConn{Conn: ws})
	h.hub.ServeClient(client, cancel)

	// Initial state so the client never renders from a stale guess.
	d := h.svc.Evaluate(ctx, patientID, sessionID)
	h.push(patientID, d.State)

	go func() {
		for evt := range events {
			var st State
			switch evt.Type {
			case auth.EventSignedOut:
				st = StateUnauthenticated
			case auth.EventSignedIn:
				next := h.svc.Evaluate(context.Background(), evt.PatientID, evt.SessionID)
				st = next.State
			default:
				continue
			}
			h.push(patientID, st)
		}
	}()

	return nil
}

func (h *Handler) push(patientID uuid.UUID, st State) {
	data, err := json.Marshal(stateResponse{State: st})
	if err != nil {
		h.logger.Error().Err(err).Msg("marshal gate state")
		return
	}
	h.hub.Broadcast(websocket.Event{
		Type:      "gate_state",
		PatientID: patientID.String(),
		Data:      data,
	})
}
