package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSession is returned when a session selector cannot be parsed
var ErrUnknownSession = errors.New("unknown session type")

// SessionType selects which marks feed an element's session value
type SessionType string

const (
	SessionPrincipal  SessionType = "principal"  // continuous assessment + exam
	SessionRattrapage SessionType = "rattrapage" // makeup mark alone
	SessionCombined   SessionType = "combined"   // best of principal and makeup
)

// ParseSessionType parses a session selector as it appears in request paths
func ParseSessionType(s string) (SessionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "principal", "principale", "p":
		return SessionPrincipal, nil
	case "rattrapage", "r":
		return SessionRattrapage, nil
	case "combined", "combinee", "combinée", "c":
		return SessionCombined, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSession, s)
}

// Title returns the label used in the report subtitle
func (t SessionType) Title() string {
	switch t {
	case SessionRattrapage:
		return "SESSION RATTRAPAGE"
	case SessionCombined:
		return "SESSION COMBINÉE"
	default:
		return "SESSION PRINCIPALE"
	}
}
