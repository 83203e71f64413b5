package types

import (
	"fmt"

	"github.com/gnolang/py3port/internal/pytree"
)

// Severity grades a Change.
type Severity int

const (
	// SeverityInfo marks a rewrite that was (or would be) applied.
	SeverityInfo Severity = iota
	// SeverityWarning marks a match that needs a human decision.
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	default:
		return "UNKNOWN"
	}
}

// MarshalText spells the severity out in JSON reports.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "INFO":
		*s = SeverityInfo
	case "WARNING":
		*s = SeverityWarning
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Change records one rewrite, or one match left for manual review.
type Change struct {
	Pass     string
	Filename string
	Message  string
	// Before and After hold the text of the rewritten node. After is empty
	// when nothing was or could be rewritten.
	Before   string
	After    string
	Severity Severity
	Start    pytree.Position
	End      pytree.Position
}
