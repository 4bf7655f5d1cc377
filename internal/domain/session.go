package domain

import "time"

// SessionState tracks how far a visitor's conversation has progressed.
type SessionState string

const (
	// StateNew is a session with nothing extracted yet.
	StateNew SessionState = "new"
	// StateInformed means contact info and/or a project type have been
	// recorded, but no notification has fired.
	StateInformed SessionState = "informed"
	// StateNotified is terminal for the life of the session: no further
	// automatic notification fires once it is reached.
	StateNotified SessionState = "notified"
)

// Session is the per-visitor conversation record, keyed by an opaque
// session ID. Sessions are created lazily on a visitor's first turn and
// carry no persistence guarantee (loss on restart is acceptable).
type Session struct {
	SessionID        string       `json:"sessionId"`
	State            SessionState `json:"state"`
	NotificationSent bool         `json:"notificationSent"`
	ProjectType      ProjectType  `json:"projectType,omitempty"`
	ContactInfo      string       `json:"contactInfo,omitempty"`
	CreatedAt        time.Time    `json:"-"`
	UpdatedAt        time.Time    `json:"-"`
}

// NewSession creates a fresh session record.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		SessionID: id,
		State:     StateNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkNotified records a successful relay. NotificationSent transitions
// false→true at most once and is never reset.
func (s *Session) MarkNotified() {
	s.NotificationSent = true
	s.State = StateNotified
}
