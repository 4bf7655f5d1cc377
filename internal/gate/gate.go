// Package gate decides whether a conversational turn owes an outbound
// notification and what the next session state is. Decisions are pure:
// the gate performs no I/O, so the relay attempt stays with the caller
// and the rules are testable without network mocking.
package gate

import "github.com/taherahmed/portfolio-api/internal/domain"

// Kind labels why a relay fires.
type Kind string

const (
	// KindChat marks an automatic notification from extracted chat info.
	KindChat Kind = "chat"
	// KindForm marks an explicit form submission.
	KindForm Kind = "form"
)

// projectTypeUnspecified is sent when an email notification fires before a
// project type is known.
const projectTypeUnspecified = domain.ProjectType("Not specified")

// Input carries everything derived from the current turn.
type Input struct {
	IsFormSubmission bool
	Info             *domain.UserInfo    // nil when nothing extracted
	Project          *domain.ProjectInfo // nil when no project signal
	ProjectRelated   bool
}

// Notification describes a relay the caller should attempt.
type Notification struct {
	Kind           Kind
	Info           domain.UserInfo
	ProjectType    domain.ProjectType
	FormSubmission bool
}

// Decision is the outcome of evaluating one turn: the updated session
// record to persist and an optional notification effect. The caller marks
// the session notified only after the relay actually succeeds, so a failed
// delivery leaves the gate open for a later turn.
type Decision struct {
	Session      domain.Session
	Notification *Notification
}

// Evaluate folds this turn's extraction into the session record and applies
// the notification rules in priority order:
//
//  1. An explicit form submission always fires a "form" relay, even when
//     the session is already notified — each submit is a new intentional
//     act and idempotent from the visitor's perspective.
//  2. A newly extracted email fires a "chat" relay once per session.
//  3. A project-related conversation with both a known project type and
//     known contact fires a "chat" relay once per session.
//  4. Otherwise no relay; the session still absorbs any new info.
func Evaluate(sess domain.Session, in Input) Decision {
	// Email is the preferred contact channel; a phone number only fills an
	// empty slot.
	if in.Info != nil {
		if in.Info.Email != "" {
			sess.ContactInfo = in.Info.Email
		} else if in.Info.Phone != "" && sess.ContactInfo == "" {
			sess.ContactInfo = in.Info.Phone
		}
	}
	if in.Project != nil && in.Project.ProjectType != "" {
		sess.ProjectType = in.Project.ProjectType
	}
	if sess.State == domain.StateNew && (sess.ContactInfo != "" || sess.ProjectType != "") {
		sess.State = domain.StateInformed
	}

	hasEmail := in.Info != nil && in.Info.Email != ""

	var note *Notification
	switch {
	case in.IsFormSubmission:
		note = &Notification{
			Kind:           KindForm,
			Info:           infoOrZero(in.Info),
			ProjectType:    extractedProjectType(in),
			FormSubmission: true,
		}

	case hasEmail && !sess.NotificationSent:
		pt := sess.ProjectType
		if pt == "" {
			pt = projectTypeUnspecified
		}
		note = &Notification{Kind: KindChat, Info: *in.Info, ProjectType: pt}

	case in.ProjectRelated && sess.ProjectType != "" && sess.ContactInfo != "" && !sess.NotificationSent:
		info := infoOrZero(in.Info)
		if info.Email == "" {
			// Best-known contact from a previous turn.
			info.Email = sess.ContactInfo
		}
		note = &Notification{Kind: KindChat, Info: info, ProjectType: sess.ProjectType}
	}

	return Decision{Session: sess, Notification: note}
}

func infoOrZero(info *domain.UserInfo) domain.UserInfo {
	if info == nil {
		return domain.UserInfo{}
	}
	return *info
}

func extractedProjectType(in Input) domain.ProjectType {
	if in.Project == nil {
		return ""
	}
	return in.Project.ProjectType
}
