package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/decisionlog/internal/storage"
	teamdomain "github.com/louisbranch/decisionlog/internal/team/domain"
)

// CreateTeam inserts one team together with its owning member.
func (s *Store) CreateTeam(ctx context.Context, team teamdomain.Team, owner teamdomain.Member) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(team.ID) == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(owner.UserID) == "" {
		return fmt.Errorf("owner user id is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO teams (id, name, invite_code, created_at)
VALUES (?, ?, ?, ?)
`, team.ID, team.Name, team.InviteCode, toMillis(team.CreatedAt)); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("insert team: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO team_members (team_id, user_id, role, created_at)
VALUES (?, ?, ?, ?)
`, owner.TeamID, owner.UserID, string(owner.Role), toMillis(owner.CreatedAt)); err != nil {
		return fmt.Errorf("insert team owner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team: %w", err)
	}
	return nil
}

// GetTeam fetches one team by ID.
func (s *Store) GetTeam(ctx context.Context, teamID string) (teamdomain.Team, error) {
	if err := ctx.Err(); err != nil {
		return teamdomain.Team{}, err
	}
	if s == nil || s.sqlDB == nil {
		return teamdomain.Team{}, fmt.Errorf("storage is not configured")
	}
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return teamdomain.Team{}, fmt.Errorf("team id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, invite_code, created_at
FROM teams
WHERE id = ?
`, teamID)
	return scanTeam(row)
}

// GetTeamByInviteCode fetches the team owning one invite code.
func (s *Store) GetTeamByInviteCode(ctx context.Context, code string) (teamdomain.Team, error) {
	if err := ctx.Err(); err != nil {
		return teamdomain.Team{}, err
	}
	if s == nil || s.sqlDB == nil {
		return teamdomain.Team{}, fmt.Errorf("storage is not configured")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return teamdomain.Team{}, fmt.Errorf("invite code is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, invite_code, created_at
FROM teams
WHERE invite_code = ?
`, code)
	return scanTeam(row)
}

// UpdateTeamInviteCode replaces one team's invite code.
func (s *Store) UpdateTeamInviteCode(ctx context.Context, teamID string, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return fmt.Errorf("team id is required")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("invite code is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE teams
SET invite_code = ?
WHERE id = ?
`, code, teamID)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("update invite code: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update invite code rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// AddMember inserts one membership. An existing membership for the same team
// and user yields storage.ErrConflict.
func (s *Store) AddMember(ctx context.Context, member teamdomain.Member) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(member.TeamID) == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(member.UserID) == "" {
		return fmt.Errorf("user id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO team_members (team_id, user_id, role, created_at)
VALUES (?, ?, ?, ?)
`, member.TeamID, member.UserID, string(member.Role), toMillis(member.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("insert team member: %w", err)
	}
	return nil
}

// GetMember fetches one user's membership in one team.
func (s *Store) GetMember(ctx context.Context, teamID string, userID string) (teamdomain.Member, error) {
	if err := ctx.Err(); err != nil {
		return teamdomain.Member{}, err
	}
	if s == nil || s.sqlDB == nil {
		return teamdomain.Member{}, fmt.Errorf("storage is not configured")
	}
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return teamdomain.Member{}, fmt.Errorf("team id is required")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return teamdomain.Member{}, fmt.Errorf("user id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT team_id, user_id, role, created_at
FROM team_members
WHERE team_id = ? AND user_id = ?
`, teamID, userID)
	return scanMember(row)
}

// ListMembers returns a team's members oldest-first.
func (s *Store) ListMembers(ctx context.Context, teamID string) ([]teamdomain.Member, error) {
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
SELECT team_id, user_id, role, created_at
FROM team_members
WHERE team_id = ?
ORDER BY created_at, user_id
`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()

	members := make([]teamdomain.Member, 0)
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate member rows: %w", err)
	}
	return members, nil
}

// ListTeamsByUser returns the teams one user belongs to.
func (s *Store) ListTeamsByUser(ctx context.Context, userID string) ([]teamdomain.Team, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT t.id, t.name, t.invite_code, t.created_at
FROM teams t
JOIN team_members m ON m.team_id = t.id
WHERE m.user_id = ?
ORDER BY t.created_at, t.id
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list teams by user: %w", err)
	}
	defer rows.Close()

	teams := make([]teamdomain.Team, 0)
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team rows: %w", err)
	}
	return teams, nil
}

func scanTeam(row rowScanner) (teamdomain.Team, error) {
	var team teamdomain.Team
	var createdAt int64
	if err := row.Scan(&team.ID, &team.Name, &team.InviteCode, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return teamdomain.Team{}, storage.ErrNotFound
		}
		return teamdomain.Team{}, fmt.Errorf("scan team row: %w", err)
	}
	team.CreatedAt = fromMillis(createdAt)
	return team, nil
}

func scanMember(row rowScanner) (teamdomain.Member, error) {
	var member teamdomain.Member
	var role string
	var createdAt int64
	if err := row.Scan(&member.TeamID, &member.UserID, &role, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return teamdomain.Member{}, storage.ErrNotFound
		}
		return teamdomain.Member{}, fmt.Errorf("scan member row: %w", err)
	}
	member.Role = teamdomain.Role(role)
	member.CreatedAt = fromMillis(createdAt)
	return member, nil
}
