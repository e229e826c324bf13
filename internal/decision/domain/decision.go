// Package domain implements the decision lifecycle and supersession engine.
package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/decisionlog/internal/platform/errors"
)

// Status describes a decision's lifecycle state.
type Status string

const (
	// StatusOpen marks a decision that is still in effect.
	StatusOpen Status = "OPEN"
	// StatusClosed marks a decision that has been closed or superseded.
	StatusClosed Status = "CLOSED"
)

// ParseStatus validates a raw status value.
func ParseStatus(value string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(value))) {
	case StatusOpen:
		return StatusOpen, nil
	case StatusClosed:
		return StatusClosed, nil
	default:
		return "", apperrors.WithMetadata(apperrors.CodeDecisionInvalidStatus, fmt.Sprintf("invalid decision status %q", value), map[string]string{"status": value})
	}
}

const (
	// SupersededClosureReason is the sentinel closure reason marking a
	// decision closed because a newer decision replaced it. A decision
	// closed with this reason can never be reopened.
	SupersededClosureReason = "Superseded by new decision"

	// ManualClosureReason is the default reason when a caller closes a
	// decision without supplying one.
	ManualClosureReason = "Manually closed"
)

// titleMaxRunes bounds titles derived from message content.
const titleMaxRunes = 100

// Decision represents a team's resolved choice, tracked OPEN or CLOSED.
type Decision struct {
	ID                   string
	Title                string
	Description          string
	Status               Status
	OwnerID              string
	ChannelID            string
	MessageID            string
	SupersedesDecisionID string
	ClosedAt             *time.Time
	ClosureReason        string
	CreatedAt            time.Time
}

// Superseded reports whether the decision was closed by supersession.
func (d Decision) Superseded() bool {
	return d.ClosureReason == SupersededClosureReason
}

// DeriveTitle shortens message content into a decision title, truncating to
// 100 runes with an ellipsis.
func DeriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= titleMaxRunes {
		return content
	}
	return string(runes[:titleMaxRunes]) + "..."
}
