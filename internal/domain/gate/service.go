package gate

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medibloom/api/internal/domain/identity"
	"github.com/medibloom/api/internal/platform/auth"
)

// IdentityReader is the slice of the identity service the gate depends on.
type IdentityReader interface {
	GetPatient(ctx context.Context, id uuid.UUID) (*identity.Patient, error)
	GetDetails(ctx context.Context, patientID uuid.UUID) (*identity.PatientDetails, error)
}

type Service struct {
	sessions auth.SessionChecker
	ids      IdentityReader
	logger   zerolog.Logger
}

func NewService(sessions auth.SessionChecker, ids IdentityReader, logger zerolog.Logger) *Service {
	return &Service{sessions: sessions, ids: ids, logger: logger}
}

// Evaluate resolves the gate state for a session. A session whose Patient row
// is missing or unreadable is self-healing: the decision tells the caller to
// sign the session out, exactly once, and the state is unauthenticated. A
// failed details lookup is soft: it is logged and the patient is treated as
// not yet onboarded.
func (s *Service) Evaluate(ctx context.Context, patientID, sessionID uuid.UUID) Decision {
	if patientID == uuid.Nil || sessionID == uuid.Nil {
		return Decision{State: StateUnauthenticated}
	}

	active, err := s.sessions.SessionActive(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID.String()).Msg("session lookup failed")
		return Decision{State: StateUnauthenticated}
	}
	if !active {
		return Decision{State: StateUnauthenticated}
	}

	if _, err := s.ids.GetPatient(ctx, patientID); err != nil {
		s.logger.Warn().Err(err).
			Str("patient_id", patientID.String()).
			Msg("session has no patient row, signing out")
		return Decision{State: StateUnauthenticated, SignOut: true}
	}

	if _, err := s.ids.GetDetails(ctx, patientID); err != nil {
		if !errors.Is(err, identity.ErrNotFound) {
			s.logger.Warn().Err(err).
				Str("patient_id", patientID.String()).
				Msg("details lookup failed, treating onboarding as incomplete")
		}
		return Decision{State: StateAuthenticatedIncomplete}
	}

	return Decision{State: StateAuthenticatedComplete}
}
