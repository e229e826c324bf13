package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	decisiondomain "github.com/louisbranch/decisionlog/internal/decision/domain"
	"github.com/louisbranch/decisionlog/internal/storage"
)

const decisionColumns = `id, title, description, status, owner_id, channel_id, message_id, supersedes_decision_id, closed_at, closure_reason, created_at`

// GetDecision fetches one decision by ID.
func (s *Store) GetDecision(ctx context.Context, decisionID string) (decisiondomain.Decision, error) {
	if err := ctx.Err(); err != nil {
		return decisiondomain.Decision{}, err
	}
	if s == nil || s.sqlDB == nil {
		return decisiondomain.Decision{}, fmt.Errorf("storage is not configured")
	}
	decisionID = strings.TrimSpace(decisionID)
	if decisionID == "" {
		return decisiondomain.Decision{}, fmt.Errorf("decision id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT `+decisionColumns+`
FROM decisions
WHERE id = ?
`, decisionID)

	decision, err := scanDecision(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decisiondomain.Decision{}, storage.ErrNotFound
		}
		return decisiondomain.Decision{}, fmt.Errorf("get decision: %w", err)
	}
	return decision, nil
}

// GetDecisionByMessage fetches the decision derived from one message.
func (s *Store) GetDecisionByMessage(ctx context.Context, messageID string) (decisiondomain.Decision, error) {
	if err := ctx.Err(); err != nil {
		return decisiondomain.Decision{}, err
	}
	if s == nil || s.sqlDB == nil {
		return decisiondomain.Decision{}, fmt.Errorf("storage is not configured")
	}
	messageID = strings.TrimSpace(messageID)
	if messageID == "" {
		return decisiondomain.Decision{}, fmt.Errorf("message id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT `+decisionColumns+`
FROM decisions
WHERE message_id = ?
`, messageID)

	decision, err := scanDecision(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decisiondomain.Decision{}, storage.ErrNotFound
		}
		return decisiondomain.Decision{}, fmt.Errorf("get decision by message: %w", err)
	}
	return decision, nil
}

// CreateDecision inserts one decision. When the decision derives from a
// message the message is flagged in the same transaction; a message already
// backing a decision yields storage.ErrConflict.
func (s *Store) CreateDecision(ctx context.Context, decision decisiondomain.Decision) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(decision.ID) == "" {
		return fmt.Errorf("decision id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if decision.MessageID != "" {
		if err := markMessageDecision(ctx, tx, decision.MessageID); err != nil {
			return err
		}
	}
	if err := insertDecision(ctx, tx, decision); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit decision: %w", err)
	}
	return nil
}

// CreateDecisionSuperseding closes the superseded decision with the
// supersession sentinel and inserts the new decision as one transaction.
// A target that is missing yields storage.ErrNotFound; a target that is no
// longer OPEN yields storage.ErrConflict.
func (s *Store) CreateDecisionSuperseding(ctx context.Context, decision decisiondomain.Decision, closedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(decision.ID) == "" {
		return fmt.Errorf("decision id is required")
	}
	targetID := strings.TrimSpace(decision.SupersedesDecisionID)
	if targetID == "" {
		return fmt.Errorf("superseded decision id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `
UPDATE decisions
SET status = ?, closed_at = ?, closure_reason = ?
WHERE id = ? AND status = ?
`,
		string(decisiondomain.StatusClosed),
		toMillis(closedAt),
		decisiondomain.SupersededClosureReason,
		targetID,
		string(decisiondomain.StatusOpen),
	)
	if err != nil {
		return fmt.Errorf("close superseded decision: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("close superseded decision rows affected: %w", err)
	}
	if affected == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM decisions WHERE id = ?`, targetID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("check superseded decision: %w", err)
		}
		return storage.ErrConflict
	}

	if decision.MessageID != "" {
		if err := markMessageDecision(ctx, tx, decision.MessageID); err != nil {
			return err
		}
	}
	if err := insertDecision(ctx, tx, decision); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit superseding decision: %w", err)
	}
	return nil
}

// UpdateDecisionStatus transitions one decision's lifecycle state and returns
// the updated row. Reopening a decision closed by supersession yields
// storage.ErrConflict.
func (s *Store) UpdateDecisionStatus(ctx context.Context, decisionID string, status decisiondomain.Status, closedAt *time.Time, closureReason string) (decisiondomain.Decision, error) {
	if err := ctx.Err(); err != nil {
		return decisiondomain.Decision{}, err
	}
	if s == nil || s.sqlDB == nil {
		return decisiondomain.Decision{}, fmt.Errorf("storage is not configured")
	}
	decisionID = strings.TrimSpace(decisionID)
	if decisionID == "" {
		return decisiondomain.Decision{}, fmt.Errorf("decision id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return decisiondomain.Decision{}, fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var res sql.Result
	if status == decisiondomain.StatusOpen {
		res, err = tx.ExecContext(ctx, `
UPDATE decisions
SET status = ?, closed_at = NULL, closure_reason = NULL
WHERE id = ? AND (closure_reason IS NULL OR closure_reason <> ?)
`, string(status), decisionID, decisiondomain.SupersededClosureReason)
	} else {
		res, err = tx.ExecContext(ctx, `
UPDATE decisions
SET status = ?, closed_at = ?, closure_reason = ?
WHERE id = ?
`, string(status), nullMillis(closedAt), nullString(closureReason), decisionID)
	}
	if err != nil {
		return decisiondomain.Decision{}, fmt.Errorf("update decision status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return decisiondomain.Decision{}, fmt.Errorf("update decision status rows affected: %w", err)
	}
	if affected == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM decisions WHERE id = ?`, decisionID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return decisiondomain.Decision{}, storage.ErrNotFound
			}
			return decisiondomain.Decision{}, fmt.Errorf("check decision: %w", err)
		}
		return decisiondomain.Decision{}, storage.ErrConflict
	}

	row := tx.QueryRowContext(ctx, `
SELECT `+decisionColumns+`
FROM decisions
WHERE id = ?
`, decisionID)
	updated, err := scanDecision(row)
	if err != nil {
		return decisiondomain.Decision{}, fmt.Errorf("reload decision: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return decisiondomain.Decision{}, fmt.Errorf("commit decision status: %w", err)
	}
	return updated, nil
}

// DeleteDecision removes one decision and clears its source message's flag in
// the same transaction. A decision referenced as superseded by another yields
// storage.ErrConflict.
func (s *Store) DeleteDecision(ctx context.Context, decisionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	decisionID = strings.TrimSpace(decisionID)
	if decisionID == "" {
		return fmt.Errorf("decision id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var messageID sql.NullString
	if err := tx.QueryRowContext(ctx, `SELECT message_id FROM decisions WHERE id = ?`, decisionID).Scan(&messageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("get decision: %w", err)
	}

	var hasSuccessor int
	if err := tx.QueryRowContext(ctx, `
SELECT EXISTS (SELECT 1 FROM decisions WHERE supersedes_decision_id = ?)
`, decisionID).Scan(&hasSuccessor); err != nil {
		return fmt.Errorf("check decision successor: %w", err)
	}
	if hasSuccessor != 0 {
		return storage.ErrConflict
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM decisions WHERE id = ?`, decisionID); err != nil {
		return fmt.Errorf("delete decision: %w", err)
	}

	if messageID.Valid {
		if _, err := tx.ExecContext(ctx, `
UPDATE messages SET has_decision = 0 WHERE id = ?
`, messageID.String); err != nil {
			return fmt.Errorf("unmark message: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit decision delete: %w", err)
	}
	return nil
}

// ListDecisionsByTeam returns a team's decisions newest-first. Decisions
// closed by supersession are excluded unless the filter includes them.
func (s *Store) ListDecisionsByTeam(ctx context.Context, teamID string, filter decisiondomain.ListFilter) ([]decisiondomain.Decision, error) {
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

	query := `
SELECT d.id, d.title, d.description, d.status, d.owner_id, d.channel_id, d.message_id, d.supersedes_decision_id, d.closed_at, d.closure_reason, d.created_at
FROM decisions d
JOIN channels c ON c.id = d.channel_id
WHERE c.team_id = ?`
	args := []any{teamID}
	if filter.Status != "" {
		query += ` AND d.status = ?`
		args = append(args, string(filter.Status))
	}
	if !filter.IncludeSuperseded {
		query += ` AND (d.closure_reason IS NULL OR d.closure_reason <> ?)`
		args = append(args, decisiondomain.SupersededClosureReason)
	}
	query += `
ORDER BY d.created_at DESC, d.id DESC`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list decisions by team: %w", err)
	}
	defer rows.Close()

	return collectDecisions(rows)
}

// ListDecisionsByChannel returns a channel's decisions newest-first,
// optionally filtered by status.
func (s *Store) ListDecisionsByChannel(ctx context.Context, channelID string, status decisiondomain.Status) ([]decisiondomain.Decision, error) {
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

	query := `
SELECT ` + decisionColumns + `
FROM decisions
WHERE channel_id = ?`
	args := []any{channelID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += `
ORDER BY created_at DESC, id DESC`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list decisions by channel: %w", err)
	}
	defer rows.Close()

	return collectDecisions(rows)
}

func insertDecision(ctx context.Context, tx *sql.Tx, decision decisiondomain.Decision) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO decisions (
	id, title, description, status, owner_id, channel_id, message_id, supersedes_decision_id, closed_at, closure_reason, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		decision.ID,
		decision.Title,
		nullString(decision.Description),
		string(decision.Status),
		decision.OwnerID,
		decision.ChannelID,
		nullString(decision.MessageID),
		nullString(decision.SupersedesDecisionID),
		nullMillis(decision.ClosedAt),
		nullString(decision.ClosureReason),
		toMillis(decision.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// markMessageDecision flags the message as having a decision. The guarded
// update makes concurrent promotions of the same message lose cleanly.
func markMessageDecision(ctx context.Context, tx *sql.Tx, messageID string) error {
	res, err := tx.ExecContext(ctx, `
UPDATE messages SET has_decision = 1 WHERE id = ? AND has_decision = 0
`, messageID)
	if err != nil {
		return fmt.Errorf("mark message: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark message rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrConflict
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDecision(row rowScanner) (decisiondomain.Decision, error) {
	var d decisiondomain.Decision
	var status string
	var description sql.NullString
	var messageID sql.NullString
	var supersedes sql.NullString
	var closedAt sql.NullInt64
	var closureReason sql.NullString
	var createdAt int64
	if err := row.Scan(
		&d.ID,
		&d.Title,
		&description,
		&status,
		&d.OwnerID,
		&d.ChannelID,
		&messageID,
		&supersedes,
		&closedAt,
		&closureReason,
		&createdAt,
	); err != nil {
		return decisiondomain.Decision{}, err
	}
	d.Status = decisiondomain.Status(status)
	d.Description = description.String
	d.MessageID = messageID.String
	d.SupersedesDecisionID = supersedes.String
	if closedAt.Valid {
		t := fromMillis(closedAt.Int64)
		d.ClosedAt = &t
	}
	d.ClosureReason = closureReason.String
	d.CreatedAt = fromMillis(createdAt)
	return d, nil
}

func collectDecisions(rows *sql.Rows) ([]decisiondomain.Decision, error) {
	decisions := make([]decisiondomain.Decision, 0)
	for rows.Next() {
		decision, err := scanDecision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan decision row: %w", err)
		}
		decisions = append(decisions, decision)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decision rows: %w", err)
	}
	return decisions, nil
}
