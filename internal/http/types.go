package http

import (
	"time"

	"github.com/louisbranch/decisionlog/internal/auth"
	decisiondomain "github.com/louisbranch/decisionlog/internal/decision/domain"
	msgdomain "github.com/louisbranch/decisionlog/internal/messaging/domain"
	teamdomain "github.com/louisbranch/decisionlog/internal/team/domain"
)

// UserJSON is the wire shape of a user account.
type UserJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func userJSON(user auth.User) UserJSON {
	return UserJSON{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// TeamJSON is the wire shape of a team.
type TeamJSON struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"invite_code"`
	CreatedAt  time.Time `json:"created_at"`
}

func teamJSON(team teamdomain.Team) TeamJSON {
	return TeamJSON{
		ID:         team.ID,
		Name:       team.Name,
		InviteCode: team.InviteCode,
		CreatedAt:  team.CreatedAt,
	}
}

func teamsJSON(teams []teamdomain.Team) []TeamJSON {
	out := make([]TeamJSON, 0, len(teams))
	for _, team := range teams {
		out = append(out, teamJSON(team))
	}
	return out
}

// MemberJSON is the wire shape of a team membership.
type MemberJSON struct {
	TeamID    string    `json:"team_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func memberJSON(member teamdomain.Member) MemberJSON {
	return MemberJSON{
		TeamID:    member.TeamID,
		UserID:    member.UserID,
		Role:      string(member.Role),
		CreatedAt: member.CreatedAt,
	}
}

// ChannelJSON is the wire shape of a channel.
type ChannelJSON struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"team_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func channelJSON(channel msgdomain.Channel) ChannelJSON {
	return ChannelJSON{
		ID:        channel.ID,
		TeamID:    channel.TeamID,
		Name:      channel.Name,
		CreatedAt: channel.CreatedAt,
	}
}

// MessageJSON is the wire shape of a chat message.
type MessageJSON struct {
	ID          string    `json:"id"`
	ChannelID   string    `json:"channel_id"`
	AuthorID    string    `json:"author_id"`
	Content     string    `json:"content"`
	HasDecision bool      `json:"has_decision"`
	CreatedAt   time.Time `json:"created_at"`
}

func messageJSON(message msgdomain.Message) MessageJSON {
	return MessageJSON{
		ID:          message.ID,
		ChannelID:   message.ChannelID,
		AuthorID:    message.AuthorID,
		Content:     message.Content,
		HasDecision: message.HasDecision,
		CreatedAt:   message.CreatedAt,
	}
}

// VerdictJSON is the wire shape of an analyzer verdict.
type VerdictJSON struct {
	Suggest  bool   `json:"suggest"`
	Reason   string `json:"reason"`
	Category string `json:"category,omitempty"`
	Pattern  string `json:"pattern,omitempty"`
}

func verdictJSON(verdict decisiondomain.Verdict) VerdictJSON {
	return VerdictJSON{
		Suggest:  verdict.Suggest,
		Reason:   verdict.Reason,
		Category: verdict.Category,
		Pattern:  verdict.Pattern,
	}
}

// DecisionJSON is the wire shape of a decision.
type DecisionJSON struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description,omitempty"`
	Status               string     `json:"status"`
	OwnerID              string     `json:"owner_id"`
	ChannelID            string     `json:"channel_id"`
	MessageID            string     `json:"message_id,omitempty"`
	SupersedesDecisionID string     `json:"supersedes_decision_id,omitempty"`
	ClosedAt             *time.Time `json:"closed_at,omitempty"`
	ClosureReason        string     `json:"closure_reason,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

func decisionJSON(decision decisiondomain.Decision) DecisionJSON {
	return DecisionJSON{
		ID:                   decision.ID,
		Title:                decision.Title,
		Description:          decision.Description,
		Status:               string(decision.Status),
		OwnerID:              decision.OwnerID,
		ChannelID:            decision.ChannelID,
		MessageID:            decision.MessageID,
		SupersedesDecisionID: decision.SupersedesDecisionID,
		ClosedAt:             decision.ClosedAt,
		ClosureReason:        decision.ClosureReason,
		CreatedAt:            decision.CreatedAt,
	}
}

func decisionsJSON(decisions []decisiondomain.Decision) []DecisionJSON {
	out := make([]DecisionJSON, 0, len(decisions))
	for _, decision := range decisions {
		out = append(out, decisionJSON(decision))
	}
	return out
}
