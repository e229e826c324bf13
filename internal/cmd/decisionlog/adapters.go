package decisionlog

import (
	"context"

	decisiondomain "github.com/louisbranch/decisionlog/internal/decision/domain"
	"github.com/louisbranch/decisionlog/internal/storage/sqlite"
	teamdomain "github.com/louisbranch/decisionlog/internal/team/domain"
)

// messageSource narrows the sqlite store to the message view the decision
// engine reads.
type messageSource struct {
	store *sqlite.Store
}

func (a messageSource) GetMessage(ctx context.Context, messageID string) (decisiondomain.MessageRef, error) {
	message, err := a.store.GetMessage(ctx, messageID)
	if err != nil {
		return decisiondomain.MessageRef{}, err
	}
	return decisiondomain.MessageRef{
		ID:          message.ID,
		ChannelID:   message.ChannelID,
		AuthorID:    message.AuthorID,
		Content:     message.Content,
		HasDecision: message.HasDecision,
	}, nil
}

type channelSource struct {
	store *sqlite.Store
}

func (a channelSource) GetChannelTeam(ctx context.Context, channelID string) (string, error) {
	channel, err := a.store.GetChannel(ctx, channelID)
	if err != nil {
		return "", err
	}
	return channel.TeamID, nil
}

type roleSource struct {
	store *sqlite.Store
}

func (a roleSource) TeamRole(ctx context.Context, teamID string, userID string) (teamdomain.Role, error) {
	member, err := a.store.GetMember(ctx, teamID, userID)
	if err != nil {
		return "", err
	}
	return member.Role, nil
}
