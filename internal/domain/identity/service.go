package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medibloom/api/internal/platform/auth"
)

// signupAttempts bounds the duplicate-key retry loop during registration.
const signupAttempts = 3

// SignUpInput carries the registration form fields.
type SignUpInput struct {
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	FullName    string     `json:"full_name"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

// AuthSession is the result of a successful sign-in.
type AuthSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Patient   *Patient  `json:"patient"`
}

type Service struct {
	patients PatientRepository
	details  DetailsRepository
	sessions SessionRepository
	issuer   *auth.TokenIssuer
	broker   *auth.Broker
	logger   zerolog.Logger

	// retryDelay separates duplicate-key retry attempts; tests shorten it.
	retryDelay time.Duration
}

func NewService(patients PatientRepository, details DetailsRepository, sessions SessionRepository,
	issuer *auth.TokenIssuer, broker *auth.Broker, logger zerolog.Logger) *Service {
	return &Service{
		patients:   patients,
		details:    details,
		sessions:   sessions,
		issuer:     issuer,
		broker:     broker,
		logger:     logger,
		retryDelay: time.Second,
	}
}

// SignUp registers a new patient. A duplicate email fails immediately; other
// unique-key conflicts are treated as transient and retried a bounded number
// of times before the registration is abandoned. No session is issued here;
// the client signs in afterwards.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*Patient, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if in.FullName == "" {
		return nil, fmt.Errorf("full_name is required")
	}
	if in.DateOfBirth == nil || in.DateOfBirth.IsZero() {
		return nil, fmt.Errorf("date_of_birth is required")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	p := &Patient{
		Email:        in.Email,
		FullName:     in.FullName,
		DateOfBirth:  in.DateOfBirth,
		PasswordHash: hash,
	}

	var lastErr error
	for attempt := 1; attempt <= signupAttempts; attempt++ {
		err := s.patients.Create(ctx, p)
		if err == nil {
			return p, nil
		}
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		if !errors.Is(err, ErrDuplicate) {
			return nil, fmt.Errorf("create patient: %w", err)
		}

		lastErr = err
		s.logger.Warn().
			Int("attempt", attempt).
			Str("email", in.Email).
			Msg("patient insert hit a key conflict, retrying")

		// Fresh ID for the next attempt.
		p.ID = uuid.Nil

		if attempt < signupAttempts {
			select {
			case <-time.After(s.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("create patient after %d attempts: %w", signupAttempts, lastErr)
}

// SignIn verifies credentials, records a session row and returns a signed
// session token. A signed_in event is published on success.
func (s *Service) SignIn(ctx context.Context, email, password string) (*AuthSession, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	p, err := s.patients.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up patient: %w", err)
	}

	if !auth.CheckPassword(p.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, claims, err := s.issuer.Issue(p.ID, p.Email)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, fmt.Errorf("parse session id: %w", err)
	}

	sess := &Session{
		ID:        sessionID,
		PatientID: p.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("record session: %w", err)
	}

	s.broker.Publish(auth.Event{
		Type:      auth.EventSignedIn,
		PatientID: p.ID,
		SessionID: sessionID,
	})

	return &AuthSession{Token: token, ExpiresAt: sess.ExpiresAt, Patient: p}, nil
}

// SignOut revokes the session and publishes a signed_out event.
func (s *Service) SignOut(ctx context.Context, patientID, sessionID uuid.UUID) error {
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	s.broker.Publish(auth.Event{
		Type:      auth.EventSignedOut,
		PatientID: patientID,
		SessionID: sessionID,
	})
	return nil
}

// SignOutAll revokes every session the patient holds. The gate uses this for
// self-healing: when the patient row behind a session is gone, all of that
// identity's sessions are orphaned, not just the one that noticed.
func (s *Service) SignOutAll(ctx context.Context, patientID uuid.UUID) error {
	if err := s.sessions.RevokeAllForPatient(ctx, patientID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	s.broker.Publish(auth.Event{
		Type:      auth.EventSignedOut,
		PatientID: patientID,
	})
	return nil
}

// SessionActive implements auth.SessionChecker.
func (s *Service) SessionActive(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	return s.sessions.Active(ctx, sessionID)
}

// GetPatient returns the patient row for an authenticated subject.
func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

// GetDetails returns the onboarding details for a patient, or ErrNotFound
// when onboarding has not been completed.
func (s *Service) GetDetails(ctx context.Context, patientID uuid.UUID) (*PatientDetails, error) {
	return s.details.GetByPatient(ctx, patientID)
}

// CompleteOnboarding validates and stores the patient's details. A second
// submission surfaces ErrDuplicate; partial details are never persisted.
func (s *Service) CompleteOnboarding(ctx context.Context, patientID uuid.UUID, d *PatientDetails) error {
	if d.Condition == "" {
		return fmt.Errorf("condition is required")
	}
	if d.HeightCm <= 0 {
		return fmt.Errorf("height_cm must be a positive number")
	}
	if d.WeightKg <= 0 {
		return fmt.Errorf("weight_kg must be a positive number")
	}
	if d.EmergencyContact == "" {
		return fmt.Errorf("emergency_contact is required")
	}
	if d.EmergencyPhone == "" {
		return fmt.Errorf("emergency_phone is required")
	}

	d.PatientID = patientID
	if err := s.details.Create(ctx, d); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return ErrDuplicate
		}
		return fmt.Errorf("create patient details: %w", err)
	}
	return nil
}
