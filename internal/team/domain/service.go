package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/decisionlog/internal/platform/errors"
	"github.com/louisbranch/decisionlog/internal/platform/id"
	"github.com/louisbranch/decisionlog/internal/storage"
)

// Store is the persistence boundary for teams and memberships.
type Store interface {
	CreateTeam(ctx context.Context, team Team, owner Member) error
	GetTeam(ctx context.Context, teamID string) (Team, error)
	GetTeamByInviteCode(ctx context.Context, code string) (Team, error)
	UpdateTeamInviteCode(ctx context.Context, teamID string, code string) error
	AddMember(ctx context.Context, member Member) error
	GetMember(ctx context.Context, teamID string, userID string) (Member, error)
	ListMembers(ctx context.Context, teamID string) ([]Member, error)
	ListTeamsByUser(ctx context.Context, userID string) ([]Team, error)
}

// Service orchestrates team lifecycle and membership behavior.
type Service struct {
	store Store
	clock func() time.Time
	newID func() (string, error)
}

// NewService constructs team domain use-cases.
func NewService(store Store, clock func() time.Time, newID func() (string, error)) *Service {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = id.NewID
	}
	return &Service{store: store, clock: clock, newID: newID}
}

// Create creates a team and enrolls the creator as OWNER.
func (s *Service) Create(ctx context.Context, actorID string, input CreateTeamInput) (Team, error) {
	team, err := CreateTeam(input, s.clock, s.newID)
	if err != nil {
		return Team{}, err
	}
	owner := Member{
		TeamID:    team.ID,
		UserID:    actorID,
		Role:      RoleOwner,
		CreatedAt: team.CreatedAt,
	}
	if err := s.store.CreateTeam(ctx, team, owner); err != nil {
		return Team{}, fmt.Errorf("create team: %w", err)
	}
	return team, nil
}

// Get loads one team by id.
func (s *Service) Get(ctx context.Context, teamID string) (Team, error) {
	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Team{}, apperrors.New(apperrors.CodeTeamNotFound, "team not found")
		}
		return Team{}, fmt.Errorf("get team: %w", err)
	}
	return team, nil
}

// Join enrolls the actor as MEMBER of the team matching the invite code.
func (s *Service) Join(ctx context.Context, actorID string, inviteCode string) (Team, error) {
	code := strings.ToUpper(strings.TrimSpace(inviteCode))
	if code == "" {
		return Team{}, apperrors.New(apperrors.CodeInviteCodeInvalid, "invite code is required")
	}
	team, err := s.store.GetTeamByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Team{}, apperrors.New(apperrors.CodeInviteCodeInvalid, "invalid invite code")
		}
		return Team{}, fmt.Errorf("get team by invite code: %w", err)
	}

	member := Member{
		TeamID:    team.ID,
		UserID:    actorID,
		Role:      RoleMember,
		CreatedAt: s.clock().UTC(),
	}
	if err := s.store.AddMember(ctx, member); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return Team{}, apperrors.New(apperrors.CodeTeamMemberExists, "already a member of this team")
		}
		return Team{}, fmt.Errorf("add member: %w", err)
	}
	return team, nil
}

// AddMember enrolls a user with the given role. The actor must hold a
// managing role in the team.
func (s *Service) AddMember(ctx context.Context, teamID string, actorID string, userID string, role Role) (Member, error) {
	actor, err := s.store.GetMember(ctx, teamID, actorID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Member{}, apperrors.New(apperrors.CodeTeamMemberRequired, "actor is not a member of this team")
		}
		return Member{}, fmt.Errorf("get actor membership: %w", err)
	}
	if !actor.Role.CanManage() {
		return Member{}, apperrors.New(apperrors.CodeTeamMemberRequired, "only managers can add members")
	}

	member := Member{
		TeamID:    teamID,
		UserID:    userID,
		Role:      role,
		CreatedAt: s.clock().UTC(),
	}
	if err := s.store.AddMember(ctx, member); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return Member{}, apperrors.New(apperrors.CodeTeamMemberExists, "user is already a member of this team")
		}
		return Member{}, fmt.Errorf("add member: %w", err)
	}
	return member, nil
}

// RegenerateInviteCode replaces the team's join code. The actor must hold
// a managing role; the old code stops working immediately.
func (s *Service) RegenerateInviteCode(ctx context.Context, teamID string, actorID string) (Team, error) {
	actor, err := s.store.GetMember(ctx, teamID, actorID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Team{}, apperrors.New(apperrors.CodeTeamMemberRequired, "actor is not a member of this team")
		}
		return Team{}, fmt.Errorf("get actor membership: %w", err)
	}
	if !actor.Role.CanManage() {
		return Team{}, apperrors.New(apperrors.CodeTeamMemberRequired, "only managers can regenerate the invite code")
	}

	code, err := NewInviteCode()
	if err != nil {
		return Team{}, fmt.Errorf("generate invite code: %w", err)
	}
	if err := s.store.UpdateTeamInviteCode(ctx, teamID, code); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Team{}, apperrors.New(apperrors.CodeTeamNotFound, "team not found")
		}
		return Team{}, fmt.Errorf("update invite code: %w", err)
	}
	return s.Get(ctx, teamID)
}

// MemberRole resolves the role a user holds in a team.
func (s *Service) MemberRole(ctx context.Context, teamID string, userID string) (Role, error) {
	member, err := s.store.GetMember(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", apperrors.New(apperrors.CodeTeamMemberRequired, "user is not a member of this team")
		}
		return "", fmt.Errorf("get membership: %w", err)
	}
	return member.Role, nil
}

// ListMembers lists all memberships of a team.
func (s *Service) ListMembers(ctx context.Context, teamID string) ([]Member, error) {
	members, err := s.store.ListMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// ListByUser lists the teams a user belongs to.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Team, error) {
	teams, err := s.store.ListTeamsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list teams by user: %w", err)
	}
	return teams, nil
}
