package gate

import "github.com/medibloom/api/internal/platform/auth"

// State is the single authoritative value describing where a caller stands
// in the session/onboarding flow.
type State string

const (
	StateLoading                 State = "loading"
	StateUnauthenticated         State = "unauthenticated"
	StateAuthenticating          State = "authenticating"
	StateAuthenticatedIncomplete State = "authenticated_incomplete"
	StateAuthenticatedComplete   State = "authenticated_complete"
)

// Decision is the outcome of evaluating the gate. SignOut instructs the
// caller to revoke the session; the evaluation itself never signs anyone out.
type Decision struct {
	State   State `json:"state"`
	SignOut bool  `json:"-"`
}

// OnEvent maps a session event to the interim state pushed to clients before
// a full re-evaluation completes.
func OnEvent(evt auth.EventType) State {
	switch evt {
	case auth.EventSignedIn:
		return StateAuthenticating
	case auth.EventSignedOut:
		return StateUnauthenticated
	default:
		return StateLoading
	}
}
