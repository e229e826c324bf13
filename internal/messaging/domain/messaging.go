// Package domain holds channel and message entities for team chat.
package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/decisionlog/internal/platform/errors"
	"github.com/louisbranch/decisionlog/internal/platform/id"
)

// Channel represents one team chat channel.
type Channel struct {
	ID        string
	TeamID    string
	Name      string
	CreatedAt time.Time
}

// Message represents one chat message. HasDecision mirrors whether exactly
// one decision currently references this message.
type Message struct {
	ID          string
	ChannelID   string
	AuthorID    string
	Content     string
	HasDecision bool
	CreatedAt   time.Time
}

// CreateChannelInput describes the metadata needed to create a channel.
type CreateChannelInput struct {
	TeamID string
	Name   string
}

// CreateChannel creates a channel with a generated ID.
func CreateChannel(input CreateChannelInput, now func() time.Time, idGenerator func() (string, error)) (Channel, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Channel{}, apperrors.New(apperrors.CodeChannelNameEmpty, "channel name is required")
	}

	channelID, err := idGenerator()
	if err != nil {
		return Channel{}, fmt.Errorf("generate channel id: %w", err)
	}
	return Channel{
		ID:        channelID,
		TeamID:    input.TeamID,
		Name:      name,
		CreatedAt: now().UTC(),
	}, nil
}
