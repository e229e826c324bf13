package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	decisiondomain "github.com/louisbranch/decisionlog/internal/decision/domain"
	"github.com/louisbranch/decisionlog/internal/storage"
)

func TestCreateAndGetDecision(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	fx := seedFixtures(t, store)
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	message := seedMessage(t, store, fx, "msg-1", "Decision: ship the importer", now)

	decision := decisiondomain.Decision{
		ID:          "dec-1",
		Title:       "Decision: ship the importer",
		Description: message.Content,
		Status:      decisiondomain.StatusOpen,
		OwnerID:     fx.user.ID,
		ChannelID:   fx.channel.ID,
		MessageID:   message.ID,
		CreatedAt:   now,
	}
	if err := store.CreateDecision(context.Background(), decision); err != nil {
		t.Fatalf("create decision: %v", err)
	}

	got, err := store.GetDecision(context.Background(), "dec-1")
	if err != nil {
		t.Fatalf("get decision: %v", err)
	}
	if got.Title != decision.Title {
		t.Fatalf("title = %q, want %q", got.Title, decision.Title)
	}
	if got.Status != decisiondomain.StatusOpen {
		t.Fatalf("status = %q, want %q", got.Status, decisiondomain.StatusOpen)
	}
	if got.MessageID != message.ID {
		t.Fatalf("message id = %q, want %q", got.MessageID, message.ID)
	}
	if got.ClosedAt != nil {
		t.Fatalf("closed_at = %v, want nil", got.ClosedAt)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, now)
	}

	byMessage, err := store.GetDecisionByMessage(context.Background(), message.ID)
	if err != nil {
		t.Fatalf("get decision by message: %v", err)
	}
	if byMessage.ID != "dec-1" {
		t.Fatalf("decision by message id = %q, want %q", byMessage.ID, "dec-1")
	}

	marked, err := store.GetMessage(context.Background(), message.ID)
	if err != nil {
		t.Fatalf("get message: %v", err)
	}
	if !marked.HasDecision {
		t.Fatal("expected message to be flagged after decision create")
	}
}

func TestGetDecisionNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)

	if _, err := store.GetDecision(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get decision err = %v, want %v", err, storage.ErrNotFound)
	}
	if _, err := store.GetDecisionByMessage(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get decision by message err = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestCreateDecisionRejectsAlreadyMarkedMessage(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	fx := seedFixtures(t, store)
	now := time.Date(2026, 3, 14, 10, 5, 0, 0, time.UTC)
	message := seedMessage(t, store, fx, "msg-1", "We will use Postgres", now)

	first := decisiondomain.Decision{
		ID:        "dec-1",
		Title:     "We will use Postgres",
		Status:    decisiondomain.StatusOpen,
		OwnerID:   fx.user.ID,
		ChannelID: fx.channel.ID,
		MessageID: message.ID,
		CreatedAt: now,
	}
	if err := store.CreateDecision(context.Background(), first); err != nil {
		t.Fatalf("create first decision: %v", err)
	}

	second := first
	second.ID = "dec-2"
	if err := store.CreateDecision(context.Background(), second); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict for second decision on same message, got %v", err)
	}
	if _, err := store.GetDecision(context.Background(), "dec-2"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected second decision rollback, got %v", err)
	}
}

func TestCreateDecisionSuperseding(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	fx := seedFixtures(t, store)
	now := time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC)

	target := decisiondomain.Decision{
		ID:        "dec-old",
		Title:     "We will use MySQL",
		Status:    decisiondomain.StatusOpen,
		OwnerID:   fx.user.ID,
		ChannelID: fx.channel.ID,
		CreatedAt: now,
	}
	if err := store.CreateDecision(context.Background(), target); err != nil {
		t.Fatalf("create target: %v", err)
	}

	closedAt := now.Add(time.Hour)
	message := seedMessage(t, store, fx, "msg-1", "Decision: switch to Postgres", closedAt)
	successor := decisiondomain.Decision{
		ID:                   "dec-new",
		Title:                "Decision: switch to Postgres",
		Status:               decisiondomain.StatusOpen,
		OwnerID:              fx.user.ID,
		ChannelID:            fx.channel.ID,
		MessageID:            message.ID,
		SupersedesDecisionID: target.ID,
		CreatedAt:            closedAt,
	}
	if err := store.CreateDecisionSuperseding(context.Background(), successor, closedAt); err != nil {
		t.Fatalf("create superseding decision: %v", err)
	}

	closed, err := store.GetDecision(context.Background(), target.ID)
	if err != nil {
		t.Fatalf("get superseded decision: %v", err)
	}
	if closed.Status != decisiondomain.StatusClosed {
		t.Fatalf("superseded status = %q, want %q", closed.Status, decisiondomain.StatusClosed)
	}
	if closed.ClosureReason != decisiondomain.SupersededClosureReason {
		t.Fatalf("closure reason = %q, want %q", closed.ClosureReason, decisiondomain.SupersededClosureReason)
	}
	if closed.ClosedAt == nil || !closed.ClosedAt.Equal(closedAt) {
		t.Fatalf("closed_at = %v, want %v", closed.ClosedAt, closedAt)
	}

	created, err := store.GetDecision(context.Background(), successor.ID)
	if err != nil {
		t.Fatalf("get successor: %v", err)
	}
	if created.SupersedesDecisionID != target.ID {
		t.Fatalf("supersedes = %q, want %q", created.SupersedesDecisionID, target.ID)
	}
}

func TestCreateDecisionSupersedingClosedTargetRollsBack(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	fx := seedFixtures(t, store)
	now := time.Date(2026, 3, 14, 11, 30, 0, 0, time.UTC)

	closedAt := now
	target := decisiondomain.Decision{
		ID:            "dec-old",
		Title:         "We will use MySQL",
		Status:        decisiondomain.StatusClosed,
		OwnerID:       fx.user.ID,
		ChannelID:     fx.channel.ID,
		ClosedAt:      &closedAt,
		ClosureReason: decisiondomain.ManualClosureReason,
		CreatedAt:     now,
	}
	if err := store.CreateDecision(context.Background(), target); err != nil {
		t.Fatalf("create target: %v", err)
	}

	message := seedMessage(t, store, fx, "msg-1", "Decision: switch to Postgres", now)
	successor := decisiondomain.Decision{
		ID:                   "dec-new",
		Title:                "Decision: switch to Postgres",
		Status:               decisiondomain.StatusOpen,
		OwnerID:              fx.user.ID,
		ChannelID:            fx.channel.ID,
		MessageID:            message.ID,
		SupersedesDecisionID: target.ID,
		CreatedAt:            now,
	}
	err := store.CreateDecisionSuperseding(context.Background(), successor, now.Add(time.Minute))
	if !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict for closed target, got %v", err)
	}

	if _, err := store.GetDecision(context.Background(), successor.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected successor rollback, got %v", err)
	}
	unmarked, err := store.GetMessage(context.Background(), message.ID)
	if err != nil {
		t.Fatalf("get message: %v", err)
	}
	if unmarked.HasDecision {
		t.Fatal("expected message flag rollback")
	}
}

func TestCreateDecisionSupersedingMissingTarget(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	fx := seedFixtures(t, store)
	now := time.Date(2026, 3, 14, 11, 45, 0, 0, time.UTC)

	successor := decisiondomain.Decision{
		ID:                   "dec-new",
		Title:                "Decision: switch to Postgres",
		Status:               decisiondomain.StatusOpen,
		OwnerID:              fx.user.ID,
		ChannelID:            fx.channel.ID,
		SupersedesDecisionID: "missing",
		CreatedAt:            now,
	}
	if err := store.CreateDecisionSuperseding(context.Background(), successor, now); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing target, got %v", err)
	}
}

func TestUpdateDecisionStatusCloseAndReopen(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	fx := seedFixtures(t, store)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	decision := decisiondomain.Decision{
		ID:        "dec-1",
		Title:     "Adopt trunk-based development",
		Status:    decisiondomain.StatusOpen,
		OwnerID:   fx.user.ID,
		ChannelID: fx.channel.ID,
		CreatedAt: now,
	}
	if err := store.CreateDecision(context.Background(), decision); err != nil {
		t.Fatalf("create decision: %v", err)
	}

	closedAt := now.Add(time.Hour)
	closed, err := store.UpdateDecisionStatus(context.Background(), decision.ID, decisiondomain.StatusClosed, &closedAt, decisiondomain.ManualClosureReason)
	if err != nil {
		t.Fatalf("close decision: %v", err)
	}
	if closed.Status != decisiondomain.StatusClosed {
		t.Fatalf("status = %q, want %q", closed.Status, decisiondomain.StatusClosed)
	}
	if closed.ClosedAt == nil || !closed.ClosedAt.Equal(closedAt) {
		t.Fatalf("closed_at = %v, want %v", closed.ClosedAt, closedAt)
	}
	if closed.ClosureReason != decisiondomain.ManualClosureReason {
		t.Fatalf("closure reason = %q, want %q", closed.ClosureReason, decisiondomain.ManualClosureReason)
	}

	reopened, err := store.UpdateDecisionStatus(context.Background(), decision.ID, decisiondomain.StatusOpen, nil, "")
	if err != nil {
		t.Fatalf("reopen decision: %v", err)
	}
	if reopened.Status != decisiondomain.StatusOpen {
		t.Fatalf("status = %q, want %q", reopened.Status, decisiondomain.StatusOpen)
	}
	if reopened.ClosedAt != nil {
		t.Fatalf("closed_at = %v, want nil", reopened.ClosedAt)
	}
	if reopened.ClosureReason != "" {
		t.Fatalf("closure reason = %q, want empty", reopened.ClosureReason)
	}
}

func TestUpdateDecisionStatusReopenSupersededConflict(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	fx := seedFixtures(t, store)
	now := time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)

	target := decisiondomain.Decision{
		ID:        "dec-old",
		Title:     "We will use MySQL",
		Status:    decisiondomain.StatusOpen,
		OwnerID:   fx.user.ID,
		ChannelID: fx.channel.ID,
		CreatedAt: now,
	}
	if err := store.CreateDecision(context.Background(), target); err != nil {
		t.Fatalf("create target: %v", err)
	}
	successor := decisiondomain.Decision{
		ID:                   "dec-new",
		Title:                "Decision: switch to Postgres",
		Status:               decisiondomain.StatusOpen,
		OwnerID:              fx.user.ID,
		ChannelID:            fx.channel.ID,
		SupersedesDecisionID: target.ID,
		CreatedAt:            now,
	}
	if err := store.CreateDecisionSuperseding(context.Background(), successor, now.Add(time.Minute)); err != nil {
		t.Fatalf("create superseding decision: %v", err)
	}

	if _, err := store.UpdateDecisionStatus(context.Background(), target.ID, decisiondomain.StatusOpen, nil, ""); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict reopening superseded decision, got %v", err)
	}
}

func TestUpdateDecisionStatusNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)

	if _, err := store.UpdateDecisionStatus(context.Background(), "missing", decisiondomain.StatusOpen, nil, ""); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteDecisionUnmarksMessage(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	fx := seedFixtures(t, store)
	now := time.Date(2026, 3, 14, 13, 0, 0, 0, time.UTC)
	message := seedMessage(t, store, fx, "msg-1", "Decision: drop the legacy API", now)

	decision := decisiondomain.Decision{
		ID:        "dec-1",
		Title:     "Decision: drop the legacy API",
		Status:    decisiondomain.StatusOpen,
		OwnerID:   fx.user.ID,
		ChannelID: fx.channel.ID,
		MessageID: message.ID,
		CreatedAt: now,
	}
	if err := store.CreateDecision(context.Background(), decision); err != nil {
		t.Fatalf("create decision: %v", err)
	}

	if err := store.DeleteDecision(context.Background(), decision.ID); err != nil {
		t.Fatalf("delete decision: %v", err)
	}

	if _, err := store.GetDecision(context.Background(), decision.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected decision gone, got %v", err)
	}
	unmarked, err := store.GetMessage(context.Background(), message.ID)
	if err != nil {
		t.Fatalf("get message: %v", err)
	}
	if unmarked.HasDecision {
		t.Fatal("expected message flag cleared after delete")
	}
}

func TestDeleteDecisionWithSuccessorConflict(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	fx := seedFixtures(t, store)
	now := time.Date(2026, 3, 14, 13, 30, 0, 0, time.UTC)

	target := decisiondomain.Decision{
		ID:        "dec-old",
		Title:     "We will use MySQL",
		Status:    decisiondomain.StatusOpen,
		OwnerID:   fx.user.ID,
		ChannelID: fx.channel.ID,
		CreatedAt: now,
	}
	if err := store.CreateDecision(context.Background(), target); err != nil {
		t.Fatalf("create target: %v", err)
	}
	successor := decisiondomain.Decision{
		ID:                   "dec-new",
		Title:                "Decision: switch to Postgres",
		Status:               decisiondomain.StatusOpen,
		OwnerID:              fx.user.ID,
		ChannelID:            fx.channel.ID,
		SupersedesDecisionID: target.ID,
		CreatedAt:            now,
	}
	if err := store.CreateDecisionSuperseding(context.Background(), successor, now.Add(time.Minute)); err != nil {
		t.Fatalf("create superseding decision: %v", err)
	}

	if err := store.DeleteDecision(context.Background(), target.ID); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("expected ErrConflict deleting superseded decision, got %v", err)
	}
	if _, err := store.GetDecision(context.Background(), target.ID); err != nil {
		t.Fatalf("expected superseded decision kept, got %v", err)
	}
}

func TestListDecisionsByTeamHidesSuperseded(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	fx := seedFixtures(t, store)
	now := time.Date(2026, 3, 14, 14, 0, 0, 0, time.UTC)

	first := decisiondomain.Decision{
		ID:        "dec-1",
		Title:     "We will use MySQL",
		Status:    decisiondomain.StatusOpen,
		OwnerID:   fx.user.ID,
		ChannelID: fx.channel.ID,
		CreatedAt: now,
	}
	if err := store.CreateDecision(context.Background(), first); err != nil {
		t.Fatalf("create first: %v", err)
	}
	second := decisiondomain.Decision{
		ID:                   "dec-2",
		Title:                "Decision: switch to Postgres",
		Status:               decisiondomain.StatusOpen,
		OwnerID:              fx.user.ID,
		ChannelID:            fx.channel.ID,
		SupersedesDecisionID: first.ID,
		CreatedAt:            now.Add(time.Hour),
	}
	if err := store.CreateDecisionSuperseding(context.Background(), second, now.Add(time.Hour)); err != nil {
		t.Fatalf("create second: %v", err)
	}

	visible, err := store.ListDecisionsByTeam(context.Background(), fx.team.ID, decisiondomain.ListFilter{})
	if err != nil {
		t.Fatalf("list default: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != "dec-2" {
		t.Fatalf("default listing = %v, want only dec-2", decisionIDs(visible))
	}

	all, err := store.ListDecisionsByTeam(context.Background(), fx.team.ID, decisiondomain.ListFilter{IncludeSuperseded: true})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 || all[0].ID != "dec-2" || all[1].ID != "dec-1" {
		t.Fatalf("full listing = %v, want [dec-2 dec-1]", decisionIDs(all))
	}

	open, err := store.ListDecisionsByTeam(context.Background(), fx.team.ID, decisiondomain.ListFilter{Status: decisiondomain.StatusOpen, IncludeSuperseded: true})
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	if len(open) != 1 || open[0].ID != "dec-2" {
		t.Fatalf("open listing = %v, want only dec-2", decisionIDs(open))
	}
}

func TestListDecisionsByChannelStatusFilter(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	fx := seedFixtures(t, store)
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

	closedAt := now
	for _, decision := range []decisiondomain.Decision{
		{
			ID:        "dec-1",
			Title:     "Keep the monorepo",
			Status:    decisiondomain.StatusOpen,
			OwnerID:   fx.user.ID,
			ChannelID: fx.channel.ID,
			CreatedAt: now,
		},
		{
			ID:            "dec-2",
			Title:         "Retire the cron jobs",
			Status:        decisiondomain.StatusClosed,
			OwnerID:       fx.user.ID,
			ChannelID:     fx.channel.ID,
			ClosedAt:      &closedAt,
			ClosureReason: decisiondomain.ManualClosureReason,
			CreatedAt:     now.Add(time.Minute),
		},
	} {
		if err := store.CreateDecision(context.Background(), decision); err != nil {
			t.Fatalf("create decision %s: %v", decision.ID, err)
		}
	}

	all, err := store.ListDecisionsByChannel(context.Background(), fx.channel.ID, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 || all[0].ID != "dec-2" {
		t.Fatalf("channel listing = %v, want newest-first pair", decisionIDs(all))
	}

	open, err := store.ListDecisionsByChannel(context.Background(), fx.channel.ID, decisiondomain.StatusOpen)
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	if len(open) != 1 || open[0].ID != "dec-1" {
		t.Fatalf("open channel listing = %v, want only dec-1", decisionIDs(open))
	}
}

func decisionIDs(decisions []decisiondomain.Decision) []string {
	ids := make([]string, 0, len(decisions))
	for _, decision := range decisions {
		ids = append(ids, decision.ID)
	}
	return ids
}
