package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	PatientIDKey contextKey = "patient_id"
	SessionIDKey contextKey = "session_id"
)

// SessionChecker reports whether a session (identified by jti) is still
// active. Revoked and expired sessions must return false.
type SessionChecker interface {
	SessionActive(ctx context.Context, sessionID uuid.UUID) (bool, error)
}

// Middleware validates the bearer session token and rejects revoked sessions.
// On success the patient and session IDs are placed on the request context.
func Middleware(issuer *TokenIssuer, sessions SessionChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims, err := issuer.Parse(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			patientID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
			}
			sessionID, err := uuid.Parse(claims.ID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token id")
			}

			if sessions != nil {
				active, err := sessions.SessionActive(c.Request().Context(), sessionID)
				if err != nil {
					return echo.NewHTTPError(http.StatusInternalServerError, "session lookup failed")
				}
				if !active {
					return echo.NewHTTPError(http.StatusUnauthorized, "session revoked")
				}
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, PatientIDKey, patientID)
			ctx = context.WithValue(ctx, SessionIDKey, sessionID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// PatientIDFromContext returns the authenticated patient ID, or uuid.Nil when
// the request is unauthenticated.
func PatientIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(PatientIDKey).(uuid.UUID)
	return id
}

// SessionIDFromContext returns the session ID (jti) of the current request.
func SessionIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(SessionIDKey).(uuid.UUID)
	return id
}
