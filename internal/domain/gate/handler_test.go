package gate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medibloom/api/internal/platform/auth"
	"github.com/medibloom/api/internal/platform/websocket"
)

type recordingSignOuter struct {
	mu    sync.Mutex
	calls int
}

func (r *recordingSignOuter) SignOutAll(_ context.Context, _ uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return nil
}

func (r *recordingSignOuter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func newGateRequest(patientID, sessionID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/gate", nil)
	ctx := req.Context()
	ctx = context.WithValue(ctx, auth.PatientIDKey, patientID)
	ctx = context.WithValue(ctx, auth.SessionIDKey, sessionID)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestGetState_SignsOutExactlyOnceOnMissingPatient(t *testing.T) {
	svc, _, ids, patientID, sessionID := newGateFixture()
	delete(ids.patients, patientID)

	so := &recordingSignOuter{}
	h := NewHandler(svc, so, auth.NewBroker(), websocket.NewHub(), zerolog.Nop())

	c, rec := newGateRequest(patientID, sessionID)
	if err := h.GetState(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp stateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.State != StateUnauthenticated {
		t.Errorf("expected unauthenticated, got %s", resp.State)
	}
	if so.count() != 1 {
		t.Errorf("expected exactly one sign-out, got %d", so.count())
	}
}

func TestGetState_NoSignOutWhenHealthy(t *testing.T) {
	svc, _, _, patientID, sessionID := newGateFixture()

	so := &recordingSignOuter{}
	h := NewHandler(svc, so, auth.NewBroker(), websocket.NewHub(), zerolog.Nop())

	c, rec := newGateRequest(patientID, sessionID)
	if err := h.GetState(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp stateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.State != StateAuthenticatedIncomplete {
		t.Errorf("expected authenticated_incomplete, got %s", resp.State)
	}
	if so.count() != 0 {
		t.Errorf("expected no sign-out, got %d", so.count())
	}
}
