// Package types contains common enumerations used across the application
package types

import (
	"errors"
	"strings"
)

// Sentinel errors shared by the sourcing and QA flows.
var (
	// ErrInvalidMode is returned when a sourcing mode is neither people nor company.
	ErrInvalidMode = errors.New("invalid mode")
	// ErrNotAllowed is returned when a reviewer lacks the admin role.
	ErrNotAllowed = errors.New("not allowed")
	// ErrUnknownUser is returned when an owner has no account.
	ErrUnknownUser = errors.New("unknown user")
)

// Mode selects which fixed column schema a sheet read or write uses.
type Mode string

// Supported sourcing modes.
const (
	ModePeople  Mode = "people"
	ModeCompany Mode = "company"
)

// ParseMode validates a mode string coming from a client.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePeople, ModeCompany:
		return Mode(s), nil
	default:
		return "", ErrInvalidMode
	}
}

// Relevance filters QA candidates by the sourcer's relevancy verdict.
type Relevance int

// Relevance filters.
const (
	RelevanceBoth Relevance = iota
	RelevanceRelevant
	RelevanceUnrelevant
)

// ParseRelevance maps the QA extension filter value. Anything that is not
// "relevant" or "unrelevant" disables the filter.
func ParseRelevance(s string) Relevance {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "relevant":
		return RelevanceRelevant
	case "unrelevant":
		return RelevanceUnrelevant
	default:
		return RelevanceBoth
	}
}

// Marker returns the cell value a row must carry to pass the filter, or ""
// when every row passes.
func (r Relevance) Marker() string {
	switch r {
	case RelevanceRelevant:
		return "yes"
	case RelevanceUnrelevant:
		return "no"
	default:
		return ""
	}
}

// Direction is the walk direction used by link navigation.
type Direction int

// Walk directions.
const (
	Prev Direction = iota
	Next
)

// Step returns the row offset of one move in the direction.
func (d Direction) Step() int {
	if d == Prev {
		return -1
	}
	return 1
}
