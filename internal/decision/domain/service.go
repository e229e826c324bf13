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
	teamdomain "github.com/louisbranch/decisionlog/internal/team/domain"
)

// ListFilter narrows decision listings.
type ListFilter struct {
	// Status filters by lifecycle state when set.
	Status Status
	// IncludeSuperseded keeps decisions closed by supersession in
	// team-scoped listings. They are hidden by default.
	IncludeSuperseded bool
}

// Store is the persistence boundary for decisions. Multi-entity operations
// (supersession, deletion with message unlink) are single atomic units:
// either every write commits or none does.
type Store interface {
	GetDecision(ctx context.Context, decisionID string) (Decision, error)
	GetDecisionByMessage(ctx context.Context, messageID string) (Decision, error)
	// CreateDecision inserts the decision and, when it derives from a
	// message, marks that message atomically. A message that already has a
	// decision yields storage.ErrConflict.
	CreateDecision(ctx context.Context, decision Decision) error
	// CreateDecisionSuperseding atomically closes the decision referenced
	// by SupersedesDecisionID with the supersession sentinel and inserts
	// the new decision. A target that is no longer OPEN yields
	// storage.ErrConflict.
	CreateDecisionSuperseding(ctx context.Context, decision Decision, closedAt time.Time) error
	// UpdateDecisionStatus transitions lifecycle state. Reopening a
	// decision closed by supersession yields storage.ErrConflict.
	UpdateDecisionStatus(ctx context.Context, decisionID string, status Status, closedAt *time.Time, closureReason string) (Decision, error)
	// DeleteDecision removes the decision and clears its message's flag
	// atomically. A decision with a successor yields storage.ErrConflict.
	DeleteDecision(ctx context.Context, decisionID string) error
	ListDecisionsByTeam(ctx context.Context, teamID string, filter ListFilter) ([]Decision, error)
	ListDecisionsByChannel(ctx context.Context, channelID string, status Status) ([]Decision, error)
}

// MessageRef is the slice of a chat message the engine reads.
type MessageRef struct {
	ID          string
	ChannelID   string
	AuthorID    string
	Content     string
	HasDecision bool
}

// MessageSource resolves chat messages for promotion and unmarking.
type MessageSource interface {
	GetMessage(ctx context.Context, messageID string) (MessageRef, error)
}

// ChannelSource resolves the team owning a channel.
type ChannelSource interface {
	GetChannelTeam(ctx context.Context, channelID string) (string, error)
}

// RoleSource answers what role an actor holds in a team. A missing
// membership is reported as storage.ErrNotFound.
type RoleSource interface {
	TeamRole(ctx context.Context, teamID string, userID string) (teamdomain.Role, error)
}

// Service owns decision creation, status transitions, supersession, and
// history resolution.
type Service struct {
	store    Store
	messages MessageSource
	channels ChannelSource
	roles    RoleSource
	clock    func() time.Time
	newID    func() (string, error)
}

// NewService constructs the decision engine.
func NewService(store Store, messages MessageSource, channels ChannelSource, roles RoleSource, clock func() time.Time, newID func() (string, error)) *Service {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = id.NewID
	}
	return &Service{
		store:    store,
		messages: messages,
		channels: channels,
		roles:    roles,
		clock:    clock,
		newID:    newID,
	}
}

// CreateFromMessageInput configures message promotion.
type CreateFromMessageInput struct {
	SupersedesDecisionID string
}

// CreateFromMessage promotes a chat message into a tracked decision. The
// message author becomes the owner. When superseding, the actor must hold an
// elevated team role and the target must still be OPEN; closing the target
// and creating the new decision commit as one unit.
func (s *Service) CreateFromMessage(ctx context.Context, messageID string, actorID string, input CreateFromMessageInput) (Decision, error) {
	message, err := s.messages.GetMessage(ctx, messageID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Decision{}, apperrors.New(apperrors.CodeMessageNotFound, "message not found")
		}
		return Decision{}, fmt.Errorf("get message: %w", err)
	}
	if message.HasDecision {
		return Decision{}, apperrors.New(apperrors.CodeMessageAlreadyDecision, "this message is already marked as a decision")
	}

	if input.SupersedesDecisionID != "" {
		if err := s.authorizeSupersede(ctx, message.ChannelID, actorID); err != nil {
			return Decision{}, err
		}
		if err := s.validateSupersedeTarget(ctx, input.SupersedesDecisionID); err != nil {
			return Decision{}, err
		}
	}

	decisionID, err := s.newID()
	if err != nil {
		return Decision{}, fmt.Errorf("generate decision id: %w", err)
	}
	now := s.clock().UTC()
	decision := Decision{
		ID:                   decisionID,
		Title:                DeriveTitle(message.Content),
		Description:          message.Content,
		Status:               StatusOpen,
		OwnerID:              message.AuthorID,
		ChannelID:            message.ChannelID,
		MessageID:            message.ID,
		SupersedesDecisionID: input.SupersedesDecisionID,
		CreatedAt:            now,
	}

	if err := s.persistCreate(ctx, decision, now); err != nil {
		return Decision{}, err
	}
	return decision, nil
}

// CreateManualInput configures standalone decision creation.
type CreateManualInput struct {
	Title                string
	Status               Status
	SupersedesDecisionID string
}

// CreateManual records a decision that was not derived from a message. The
// acting user becomes the owner. An explicit CLOSED status stamps the close
// time at creation without a closure reason.
func (s *Service) CreateManual(ctx context.Context, channelID string, actorID string, input CreateManualInput) (Decision, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Decision{}, apperrors.New(apperrors.CodeDecisionTitleEmpty, "decision title is required")
	}

	if _, err := s.channels.GetChannelTeam(ctx, channelID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Decision{}, apperrors.New(apperrors.CodeChannelNotFound, "channel not found")
		}
		return Decision{}, fmt.Errorf("get channel team: %w", err)
	}

	if input.SupersedesDecisionID != "" {
		if err := s.authorizeSupersede(ctx, channelID, actorID); err != nil {
			return Decision{}, err
		}
		if err := s.validateSupersedeTarget(ctx, input.SupersedesDecisionID); err != nil {
			return Decision{}, err
		}
	}

	status := input.Status
	if status == "" {
		status = StatusOpen
	}
	if status != StatusOpen && status != StatusClosed {
		return Decision{}, apperrors.New(apperrors.CodeDecisionInvalidStatus, fmt.Sprintf("invalid decision status %q", status))
	}

	decisionID, err := s.newID()
	if err != nil {
		return Decision{}, fmt.Errorf("generate decision id: %w", err)
	}
	now := s.clock().UTC()
	decision := Decision{
		ID:                   decisionID,
		Title:                title,
		Status:               status,
		OwnerID:              actorID,
		ChannelID:            channelID,
		SupersedesDecisionID: input.SupersedesDecisionID,
		CreatedAt:            now,
	}
	if status == StatusClosed {
		closedAt := now
		decision.ClosedAt = &closedAt
	}

	if err := s.persistCreate(ctx, decision, now); err != nil {
		return Decision{}, err
	}
	return decision, nil
}

// SetStatus transitions a decision between OPEN and CLOSED. Closing stamps
// the close time and a closure reason; reopening clears both. A decision
// closed by supersession can never be reopened.
func (s *Service) SetStatus(ctx context.Context, decisionID string, status Status, actorID string, closureReason string) (Decision, error) {
	decision, err := s.store.GetDecision(ctx, decisionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Decision{}, apperrors.New(apperrors.CodeDecisionNotFound, "decision not found")
		}
		return Decision{}, fmt.Errorf("get decision: %w", err)
	}

	if status == StatusOpen && decision.Superseded() {
		return Decision{}, apperrors.New(apperrors.CodeDecisionSuperseded, "cannot reopen a superseded decision")
	}

	var closedAt *time.Time
	reason := ""
	if status == StatusClosed {
		now := s.clock().UTC()
		closedAt = &now
		reason = strings.TrimSpace(closureReason)
		if reason == "" {
			reason = ManualClosureReason
		}
	}

	updated, err := s.store.UpdateDecisionStatus(ctx, decisionID, status, closedAt, reason)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return Decision{}, apperrors.New(apperrors.CodeDecisionNotFound, "decision not found")
		case errors.Is(err, storage.ErrConflict):
			return Decision{}, apperrors.New(apperrors.CodeDecisionSuperseded, "cannot reopen a superseded decision")
		default:
			return Decision{}, fmt.Errorf("update decision status: %w", err)
		}
	}
	return updated, nil
}

// Delete removes a decision, clearing its source message's mark in the same
// unit of work. A decision that supersedes another cannot be deleted while
// the successor reference exists.
func (s *Service) Delete(ctx context.Context, decisionID string, actorID string) error {
	if err := s.store.DeleteDecision(ctx, decisionID); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return apperrors.New(apperrors.CodeDecisionNotFound, "decision not found")
		case errors.Is(err, storage.ErrConflict):
			return apperrors.New(apperrors.CodeDecisionHasSuccessor, "cannot delete a decision that supersedes other decisions")
		default:
			return fmt.Errorf("delete decision: %w", err)
		}
	}
	return nil
}

// UnmarkMessage removes the decision derived from a message and clears the
// message's decision mark, with the same successor guard as Delete.
func (s *Service) UnmarkMessage(ctx context.Context, messageID string, actorID string) error {
	if _, err := s.messages.GetMessage(ctx, messageID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeMessageNotFound, "message not found")
		}
		return fmt.Errorf("get message: %w", err)
	}

	decision, err := s.store.GetDecisionByMessage(ctx, messageID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeMessageNotDecision, "this message is not marked as a decision")
		}
		return fmt.Errorf("get decision by message: %w", err)
	}

	return s.Delete(ctx, decision.ID, actorID)
}

// GetByID loads one decision.
func (s *Service) GetByID(ctx context.Context, decisionID string) (Decision, error) {
	decision, err := s.store.GetDecision(ctx, decisionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Decision{}, apperrors.New(apperrors.CodeDecisionNotFound, "decision not found")
		}
		return Decision{}, fmt.Errorf("get decision: %w", err)
	}
	return decision, nil
}

// ListByTeam lists a team's decisions newest-first. Superseded decisions are
// excluded unless the filter requests them.
func (s *Service) ListByTeam(ctx context.Context, teamID string, filter ListFilter) ([]Decision, error) {
	decisions, err := s.store.ListDecisionsByTeam(ctx, teamID, filter)
	if err != nil {
		return nil, fmt.Errorf("list decisions by team: %w", err)
	}
	return decisions, nil
}

// ListOpenByTeam lists a team's OPEN decisions, the candidate set for
// supersession.
func (s *Service) ListOpenByTeam(ctx context.Context, teamID string) ([]Decision, error) {
	return s.ListByTeam(ctx, teamID, ListFilter{Status: StatusOpen, IncludeSuperseded: true})
}

// ListByChannel lists a channel's decisions newest-first.
func (s *Service) ListByChannel(ctx context.Context, channelID string, status Status) ([]Decision, error) {
	decisions, err := s.store.ListDecisionsByChannel(ctx, channelID, status)
	if err != nil {
		return nil, fmt.Errorf("list decisions by channel: %w", err)
	}
	return decisions, nil
}

func (s *Service) authorizeSupersede(ctx context.Context, channelID string, actorID string) error {
	teamID, err := s.channels.GetChannelTeam(ctx, channelID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeChannelNotFound, "channel not found")
		}
		return fmt.Errorf("get channel team: %w", err)
	}

	role, err := s.roles.TeamRole(ctx, teamID, actorID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeSupersedeRoleRequired, "only leads can supersede decisions")
		}
		return fmt.Errorf("get team role: %w", err)
	}
	if !role.CanSupersede() {
		return apperrors.New(apperrors.CodeSupersedeRoleRequired, "only leads can supersede decisions")
	}
	return nil
}

func (s *Service) validateSupersedeTarget(ctx context.Context, decisionID string) error {
	target, err := s.store.GetDecision(ctx, decisionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeDecisionNotFound, "decision to supersede not found")
		}
		return fmt.Errorf("get superseded decision: %w", err)
	}
	if target.Status == StatusClosed {
		return apperrors.New(apperrors.CodeDecisionAlreadyClosed, "cannot supersede a closed decision")
	}
	return nil
}

func (s *Service) persistCreate(ctx context.Context, decision Decision, now time.Time) error {
	if decision.SupersedesDecisionID != "" {
		if err := s.store.CreateDecisionSuperseding(ctx, decision, now); err != nil {
			switch {
			case errors.Is(err, storage.ErrNotFound):
				return apperrors.New(apperrors.CodeDecisionNotFound, "decision to supersede not found")
			case errors.Is(err, storage.ErrConflict):
				return apperrors.New(apperrors.CodeDecisionAlreadyClosed, "cannot supersede a closed decision")
			default:
				return fmt.Errorf("create superseding decision: %w", err)
			}
		}
		return nil
	}

	if err := s.store.CreateDecision(ctx, decision); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return apperrors.New(apperrors.CodeMessageAlreadyDecision, "this message is already marked as a decision")
		}
		return fmt.Errorf("create decision: %w", err)
	}
	return nil
}
