package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	msgdomain "github.com/louisbranch/decisionlog/internal/messaging/domain"
	"github.com/louisbranch/decisionlog/internal/storage"
)

func TestChannelRoundtrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	fx := seedFixtures(t, store)

	got, err := store.GetChannel(context.Background(), fx.channel.ID)
	if err != nil {
		t.Fatalf("get channel: %v", err)
	}
	if got.Name != fx.channel.Name {
		t.Fatalf("name = %q, want %q", got.Name, fx.channel.Name)
	}
	if got.TeamID != fx.team.ID {
		t.Fatalf("team id = %q, want %q", got.TeamID, fx.team.ID)
	}

	if _, err := store.GetChannel(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get missing channel err = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestListTeamChannels(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	fx := seedFixtures(t, store)
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	second := msgdomain.Channel{
		ID:        "chan-2",
		TeamID:    fx.team.ID,
		Name:      "decisions",
		CreatedAt: now,
	}
	if err := store.CreateChannel(context.Background(), second); err != nil {
		t.Fatalf("create channel: %v", err)
	}

	channels, err := store.ListTeamChannels(context.Background(), fx.team.ID)
	if err != nil {
		t.Fatalf("list team channels: %v", err)
	}
	if len(channels) != 2 {
		t.Fatalf("channels = %d, want 2", len(channels))
	}
	if channels[0].ID != fx.channel.ID || channels[1].ID != "chan-2" {
		t.Fatalf("channel order = [%s %s], want creation order", channels[0].ID, channels[1].ID)
	}
}

func TestListChannelMessagesNewestFirst(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	fx := seedFixtures(t, store)
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		seedMessage(t, store, fx, fmt.Sprintf("msg-%d", i), fmt.Sprintf("message %d", i), now.Add(time.Duration(i)*time.Minute))
	}

	page, err := store.ListChannelMessages(context.Background(), fx.channel.ID, 2, 0)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("page size = %d, want 2", len(page))
	}
	if page[0].ID != "msg-4" || page[1].ID != "msg-3" {
		t.Fatalf("page order = [%s %s], want newest-first", page[0].ID, page[1].ID)
	}

	next, err := store.ListChannelMessages(context.Background(), fx.channel.ID, 2, 2)
	if err != nil {
		t.Fatalf("list messages offset: %v", err)
	}
	if len(next) != 2 || next[0].ID != "msg-2" {
		t.Fatalf("offset page start = %s, want msg-2", next[0].ID)
	}
}

func TestGetMessageNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)

	if _, err := store.GetMessage(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get message err = %v, want %v", err, storage.ErrNotFound)
	}
}
