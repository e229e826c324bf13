package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	decisiondomain "github.com/louisbranch/decisionlog/internal/decision/domain"
	apperrors "github.com/louisbranch/decisionlog/internal/platform/errors"
	"github.com/louisbranch/decisionlog/internal/platform/id"
	"github.com/louisbranch/decisionlog/internal/storage"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Store is the persistence boundary for channels and messages.
type Store interface {
	CreateChannel(ctx context.Context, channel Channel) error
	GetChannel(ctx context.Context, channelID string) (Channel, error)
	ListTeamChannels(ctx context.Context, teamID string) ([]Channel, error)
	CreateMessage(ctx context.Context, message Message) error
	GetMessage(ctx context.Context, messageID string) (Message, error)
	ListChannelMessages(ctx context.Context, channelID string, limit int, offset int) ([]Message, error)
}

// Analyzer flags message content that reads like a decision.
type Analyzer interface {
	Analyze(content string) decisiondomain.Verdict
}

// Service orchestrates channel and message behavior. Every created message
// is run through the analyzer so clients can offer a "track as decision"
// affordance; the verdict is advisory and never creates a decision.
type Service struct {
	store    Store
	analyzer Analyzer
	clock    func() time.Time
	newID    func() (string, error)
}

// NewService constructs messaging use-cases.
func NewService(store Store, analyzer Analyzer, clock func() time.Time, newID func() (string, error)) *Service {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = id.NewID
	}
	return &Service{store: store, analyzer: analyzer, clock: clock, newID: newID}
}

// CreateChannel creates one channel in a team.
func (s *Service) CreateChannel(ctx context.Context, input CreateChannelInput) (Channel, error) {
	channel, err := CreateChannel(input, s.clock, s.newID)
	if err != nil {
		return Channel{}, err
	}
	if err := s.store.CreateChannel(ctx, channel); err != nil {
		return Channel{}, fmt.Errorf("create channel: %w", err)
	}
	return channel, nil
}

// GetChannel loads one channel.
func (s *Service) GetChannel(ctx context.Context, channelID string) (Channel, error) {
	channel, err := s.store.GetChannel(ctx, channelID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Channel{}, apperrors.New(apperrors.CodeChannelNotFound, "channel not found")
		}
		return Channel{}, fmt.Errorf("get channel: %w", err)
	}
	return channel, nil
}

// ListTeamChannels lists a team's channels.
func (s *Service) ListTeamChannels(ctx context.Context, teamID string) ([]Channel, error) {
	channels, err := s.store.ListTeamChannels(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team channels: %w", err)
	}
	return channels, nil
}

// CreateMessage posts a message to a channel and returns it together with
// the analyzer's advisory verdict.
func (s *Service) CreateMessage(ctx context.Context, channelID string, authorID string, content string) (Message, decisiondomain.Verdict, error) {
	if strings.TrimSpace(content) == "" {
		return Message{}, decisiondomain.Verdict{}, apperrors.New(apperrors.CodeMessageContentEmpty, "message content is required")
	}
	if _, err := s.GetChannel(ctx, channelID); err != nil {
		return Message{}, decisiondomain.Verdict{}, err
	}

	messageID, err := s.newID()
	if err != nil {
		return Message{}, decisiondomain.Verdict{}, fmt.Errorf("generate message id: %w", err)
	}
	message := Message{
		ID:        messageID,
		ChannelID: channelID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: s.clock().UTC(),
	}
	if err := s.store.CreateMessage(ctx, message); err != nil {
		return Message{}, decisiondomain.Verdict{}, fmt.Errorf("create message: %w", err)
	}

	verdict := decisiondomain.Verdict{Reason: "No decision patterns matched"}
	if s.analyzer != nil {
		verdict = s.analyzer.Analyze(content)
	}
	return message, verdict, nil
}

// GetMessage loads one message.
func (s *Service) GetMessage(ctx context.Context, messageID string) (Message, error) {
	message, err := s.store.GetMessage(ctx, messageID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Message{}, apperrors.New(apperrors.CodeMessageNotFound, "message not found")
		}
		return Message{}, fmt.Errorf("get message: %w", err)
	}
	return message, nil
}

// ListChannelMessages lists a channel's messages newest-first.
func (s *Service) ListChannelMessages(ctx context.Context, channelID string, limit int, offset int) ([]Message, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	messages, err := s.store.ListChannelMessages(ctx, channelID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list channel messages: %w", err)
	}
	return messages, nil
}
