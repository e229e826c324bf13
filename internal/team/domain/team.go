// Package domain holds team and membership entities with their role policy.
package domain

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/decisionlog/internal/platform/errors"
	"github.com/louisbranch/decisionlog/internal/platform/id"
)

// Role describes a member's responsibility level within a team.
type Role string

const (
	// RoleMember is the default role with no administrative rights.
	RoleMember Role = "MEMBER"
	// RoleLead may supersede decisions but not manage the team.
	RoleLead Role = "LEAD"
	// RoleManager may supersede decisions and manage membership.
	RoleManager Role = "MANAGER"
	// RoleOwner is the team creator with full rights.
	RoleOwner Role = "OWNER"
)

// ParseRole validates a raw role value.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case RoleMember:
		return RoleMember, nil
	case RoleLead:
		return RoleLead, nil
	case RoleManager:
		return RoleManager, nil
	case RoleOwner:
		return RoleOwner, nil
	default:
		return "", apperrors.WithMetadata(apperrors.CodeTeamRoleInvalid, fmt.Sprintf("invalid team role %q", value), map[string]string{"role": value})
	}
}

// CanSupersede reports whether the role may replace open decisions.
func (r Role) CanSupersede() bool {
	switch r {
	case RoleLead, RoleManager, RoleOwner:
		return true
	default:
		return false
	}
}

// CanManage reports whether the role may administer team membership.
func (r Role) CanManage() bool {
	return r == RoleManager || r == RoleOwner
}

// Team represents one decision-tracking team.
type Team struct {
	ID         string
	Name       string
	InviteCode string
	CreatedAt  time.Time
}

// Member represents one user's membership in a team.
type Member struct {
	TeamID    string
	UserID    string
	Role      Role
	CreatedAt time.Time
}

// CreateTeamInput describes the metadata needed to create a team.
type CreateTeamInput struct {
	Name string
}

// CreateTeam creates a new team with a generated ID and invite code.
func CreateTeam(input CreateTeamInput, now func() time.Time, idGenerator func() (string, error)) (Team, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Team{}, apperrors.New(apperrors.CodeTeamNameEmpty, "team name is required")
	}

	teamID, err := idGenerator()
	if err != nil {
		return Team{}, fmt.Errorf("generate team id: %w", err)
	}
	code, err := NewInviteCode()
	if err != nil {
		return Team{}, fmt.Errorf("generate invite code: %w", err)
	}

	return Team{
		ID:         teamID,
		Name:       name,
		InviteCode: code,
		CreatedAt:  now().UTC(),
	}, nil
}

// inviteCodeAlphabet omits easily-confused characters (0/O, 1/I).
const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const inviteCodeLength = 8

// NewInviteCode generates an 8-character uppercase join code.
func NewInviteCode() (string, error) {
	raw := make([]byte, inviteCodeLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	code := make([]byte, inviteCodeLength)
	for i, b := range raw {
		code[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(code), nil
}
