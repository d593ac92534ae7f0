// Package video mints access tokens for the video provider's room service.
// Tokens are signed locally with the API key secret; the media plane itself
// is the provider's concern.
package video

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNotConfigured   = errors.New("video credentials are not configured")
	ErrIdentityMissing = errors.New("identity is required")
	ErrRoomMissing     = errors.New("room is required")
)

// Service issues provider-compatible video access tokens.
type Service struct {
	accountSID string
	apiKey     string
	apiSecret  string
	ttl        time.Duration
	now        func() time.Time
}

func NewService(accountSID, apiKey, apiSecret string, ttl time.Duration) *Service {
	return &Service{
		accountSID: accountSID,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Configured reports whether signing credentials are present.
func (s *Service) Configured() bool {
	return s.accountSID != "" && s.apiKey != "" && s.apiSecret != ""
}

type videoGrant struct {
	Room string `json:"room"`
}

type grants struct {
	Identity string     `json:"identity"`
	Video    videoGrant `json:"video"`
}

type accessClaims struct {
	jwt.RegisteredClaims
	Grants grants `json:"grants"`
}

// Token mints a short-lived access token granting the given identity entry to
// a single room. The token is a stateless JWT in the provider's access-token
// format; no idempotency key is involved and a failed mint is never retried
// here.
func (s *Service) Token(identity, room string) (string, error) {
	if !s.Configured() {
		return "", ErrNotConfigured
	}
	if identity == "" {
		return "", ErrIdentityMissing
	}
	if room == "" {
		return "", ErrRoomMissing
	}

	now := s.now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        fmt.Sprintf("%s-%d", s.apiKey, now.Unix()),
			Issuer:    s.apiKey,
			Subject:   s.accountSID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Grants: grants{
			Identity: identity,
			Video:    videoGrant{Room: room},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["cty"] = "twilio-fpa;v=1"

	signed, err := token.SignedString([]byte(s.apiSecret))
	if err != nil {
		return "", fmt.Errorf("sign video token: %w", err)
	}
	return signed, nil
}
