// Package identity abstracts the external identity provider consumed by the
// session core. The core only ever asks "who is the current user" — token
// issuance and validation live in the auth service.
package identity

import (
	"context"
	"errors"
	"strings"
)

// ErrNoSession is returned when there is no authenticated identity.
var ErrNoSession = errors.New("no authenticated session")

// Session is the authenticated identity visible to the session core.
type Session struct {
	Subject string // stable account identifier
	Email   string
}

// DisplayName derives the student display name from the session email: the
// local part of the address, or "Unknown" when the email is malformed. Two
// different addresses with the same local part collide on purpose — this
// preserves the existing weak bridge between identities and student records.
func (s *Session) DisplayName() string {
	local, _, found := strings.Cut(s.Email, "@")
	if !found || local == "" {
		return "Unknown"
	}
	return local
}

// Provider yields the current authenticated session, if any.
type Provider interface {
	// CurrentSession returns the active session or ErrNoSession.
	CurrentSession(ctx context.Context) (*Session, error)
}

// Static is a Provider bound to one already-authenticated session. The HTTP
// layer builds one per request from validated JWT claims.
type Static struct {
	Session Session
}

// CurrentSession implements Provider.
func (p Static) CurrentSession(ctx context.Context) (*Session, error) {
	if p.Session.Email == "" {
		return nil, ErrNoSession
	}
	s := p.Session
	return &s, nil
}
