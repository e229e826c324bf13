package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	msgdomain "github.com/louisbranch/decisionlog/internal/messaging/domain"
	"github.com/louisbranch/decisionlog/internal/storage"
)

// CreateChannel inserts one channel.
func (s *Store) CreateChannel(ctx context.Context, channel msgdomain.Channel) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(channel.ID) == "" {
		return fmt.Errorf("channel id is required")
	}
	if strings.TrimSpace(channel.TeamID) == "" {
		return fmt.Errorf("team id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO channels (id, team_id, name, created_at)
VALUES (?, ?, ?, ?)
`, channel.ID, channel.TeamID, channel.Name, toMillis(channel.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("insert channel: %w", err)
	}
	return nil
}

// GetChannel fetches one channel by ID.
func (s *Store) GetChannel(ctx context.Context, channelID string) (msgdomain.Channel, error) {
	if err := ctx.Err(); err != nil {
		return msgdomain.Channel{}, err
	}
	if s == nil || s.sqlDB == nil {
		return msgdomain.Channel{}, fmt.Errorf("storage is not configured")
	}
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return msgdomain.Channel{}, fmt.Errorf("channel id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, team_id, name, created_at
FROM channels
WHERE id = ?
`, channelID)

	var channel msgdomain.Channel
	var createdAt int64
	if err := row.Scan(&channel.ID, &channel.TeamID, &channel.Name, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return msgdomain.Channel{}, storage.ErrNotFound
		}
		return msgdomain.Channel{}, fmt.Errorf("get channel: %w", err)
	}
	channel.CreatedAt = fromMillis(createdAt)
	return channel, nil
}

// ListTeamChannels returns a team's channels in creation order.
func (s *Store) ListTeamChannels(ctx context.Context, teamID string) ([]msgdomain.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("team id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, team_id, name, created_at
FROM channels
WHERE team_id = ?
ORDER BY created_at, id
`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team channels: %w", err)
	}
	defer rows.Close()

	channels := make([]msgdomain.Channel, 0)
	for rows.Next() {
		var channel msgdomain.Channel
		var createdAt int64
		if err := rows.Scan(&channel.ID, &channel.TeamID, &channel.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scan channel row: %w", err)
		}
		channel.CreatedAt = fromMillis(createdAt)
		channels = append(channels, channel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channel rows: %w", err)
	}
	return channels, nil
}

// CreateMessage inserts one message.
func (s *Store) CreateMessage(ctx context.Context, message msgdomain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(message.ID) == "" {
		return fmt.Errorf("message id is required")
	}
	if strings.TrimSpace(message.ChannelID) == "" {
		return fmt.Errorf("channel id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO messages (id, channel_id, author_id, content, has_decision, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`,
		message.ID,
		message.ChannelID,
		message.AuthorID,
		message.Content,
		boolToInt(message.HasDecision),
		toMillis(message.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// GetMessage fetches one message by ID.
func (s *Store) GetMessage(ctx context.Context, messageID string) (msgdomain.Message, error) {
	if err := ctx.Err(); err != nil {
		return msgdomain.Message{}, err
	}
	if s == nil || s.sqlDB == nil {
		return msgdomain.Message{}, fmt.Errorf("storage is not configured")
	}
	messageID = strings.TrimSpace(messageID)
	if messageID == "" {
		return msgdomain.Message{}, fmt.Errorf("message id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, channel_id, author_id, content, has_decision, created_at
FROM messages
WHERE id = ?
`, messageID)

	message, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return msgdomain.Message{}, storage.ErrNotFound
		}
		return msgdomain.Message{}, fmt.Errorf("get message: %w", err)
	}
	return message, nil
}

// ListChannelMessages returns a page of a channel's messages newest-first.
func (s *Store) ListChannelMessages(ctx context.Context, channelID string, limit int, offset int) ([]msgdomain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return nil, fmt.Errorf("channel id is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}
	if offset < 0 {
		return nil, fmt.Errorf("offset must not be negative")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, channel_id, author_id, content, has_decision, created_at
FROM messages
WHERE channel_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?
`, channelID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list channel messages: %w", err)
	}
	defer rows.Close()

	messages := make([]msgdomain.Message, 0, limit)
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate message rows: %w", err)
	}
	return messages, nil
}

func scanMessage(row rowScanner) (msgdomain.Message, error) {
	var message msgdomain.Message
	var hasDecision int64
	var createdAt int64
	if err := row.Scan(
		&message.ID,
		&message.ChannelID,
		&message.AuthorID,
		&message.Content,
		&hasDecision,
		&createdAt,
	); err != nil {
		return msgdomain.Message{}, err
	}
	message.HasDecision = hasDecision != 0
	message.CreatedAt = fromMillis(createdAt)
	return message, nil
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}
