package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/louisbranch/decisionlog/internal/auth"
	"github.com/louisbranch/decisionlog/internal/storage"
	teamdomain "github.com/louisbranch/decisionlog/internal/team/domain"
)

func TestCreateTeamInsertsOwner(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	fx := seedFixtures(t, store)

	member, err := store.GetMember(context.Background(), fx.team.ID, fx.user.ID)
	if err != nil {
		t.Fatalf("get owner membership: %v", err)
	}
	if member.Role != teamdomain.RoleOwner {
		t.Fatalf("owner role = %q, want %q", member.Role, teamdomain.RoleOwner)
	}

	got, err := store.GetTeamByInviteCode(context.Background(), fx.team.InviteCode)
	if err != nil {
		t.Fatalf("get team by invite code: %v", err)
	}
	if got.ID != fx.team.ID {
		t.Fatalf("team id = %q, want %q", got.ID, fx.team.ID)
	}

	if _, err := store.GetTeamByInviteCode(context.Background(), "WRONG234"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("unknown invite code err = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestAddMemberRejectsDuplicate(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	fx := seedFixtures(t, store)
	now := time.Date(2026, 3, 14, 9, 15, 0, 0, time.UTC)

	joiner := auth.User{
		ID:           "user-2",
		Name:         "Grace",
		Email:        "grace@example.com",
		PasswordHash: "hash-2",
		CreatedAt:    now,
	}
	if err := store.CreateUser(context.Background(), joiner); err != nil {
		t.Fatalf("create user: %v", err)
	}

	member := teamdomain.Member{
		TeamID:    fx.team.ID,
		UserID:    joiner.ID,
		Role:      teamdomain.RoleMember,
		CreatedAt: now,
	}
	if err := store.AddMember(context.Background(), member); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := store.AddMember(context.Background(), member); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate membership, got %v", err)
	}

	members, err := store.ListMembers(context.Background(), fx.team.ID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("members = %d, want 2", len(members))
	}
}

func TestListTeamsByUser(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	fx := seedFixtures(t, store)
	now := time.Date(2026, 3, 14, 9, 20, 0, 0, time.UTC)

	other := teamdomain.Team{
		ID:         "team-2",
		Name:       "Infra",
		InviteCode: "WXYZ6789",
		CreatedAt:  now,
	}
	if err := store.CreateTeam(context.Background(), other, teamdomain.Member{
		TeamID:    other.ID,
		UserID:    fx.user.ID,
		Role:      teamdomain.RoleOwner,
		CreatedAt: now,
	}); err != nil {
		t.Fatalf("create second team: %v", err)
	}

	teams, err := store.ListTeamsByUser(context.Background(), fx.user.ID)
	if err != nil {
		t.Fatalf("list teams by user: %v", err)
	}
	if len(teams) != 2 {
		t.Fatalf("teams = %d, want 2", len(teams))
	}

	none, err := store.ListTeamsByUser(context.Background(), "user-none")
	if err != nil {
		t.Fatalf("list teams for unknown user: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("teams for unknown user = %d, want 0", len(none))
	}
}

func TestGetMemberNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	fx := seedFixtures(t, store)

	if _, err := store.GetMember(context.Background(), fx.team.ID, "user-none"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get missing member err = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestUpdateTeamInviteCode(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	fx := seedFixtures(t, store)

	if err := store.UpdateTeamInviteCode(context.Background(), fx.team.ID, "WXYZ6789"); err != nil {
		t.Fatalf("update invite code: %v", err)
	}
	team, err := store.GetTeamByInviteCode(context.Background(), "WXYZ6789")
	if err != nil {
		t.Fatalf("get team by new code: %v", err)
	}
	if team.ID != fx.team.ID {
		t.Fatalf("team id = %q, want %q", team.ID, fx.team.ID)
	}
	if _, err := store.GetTeamByInviteCode(context.Background(), fx.team.InviteCode); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("old code err = %v, want %v", err, storage.ErrNotFound)
	}

	if err := store.UpdateTeamInviteCode(context.Background(), "team-none", "QRST2345"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("missing team err = %v, want %v", err, storage.ErrNotFound)
	}
}
