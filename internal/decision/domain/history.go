package domain

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/louisbranch/decisionlog/internal/platform/errors"
	"github.com/louisbranch/decisionlog/internal/storage"
)

// maxHistoryDepth bounds the supersession chain walk. Nothing in the data
// model prevents a malformed chain from looping, so the walk tracks visited
// ids and stops at this depth.
const maxHistoryDepth = 100

// History reconstructs the supersession chain ending at the given decision,
// most-recent first. A back-pointer that resolves to nothing ends the chain
// without error.
func (s *Service) History(ctx context.Context, decisionID string) ([]Decision, error) {
	head, err := s.store.GetDecision(ctx, decisionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.New(apperrors.CodeDecisionNotFound, "decision not found")
		}
		return nil, fmt.Errorf("get decision: %w", err)
	}

	history := []Decision{head}
	visited := map[string]struct{}{head.ID: {}}

	current := head
	for current.SupersedesDecisionID != "" && len(history) < maxHistoryDepth {
		if _, seen := visited[current.SupersedesDecisionID]; seen {
			break
		}
		predecessor, err := s.store.GetDecision(ctx, current.SupersedesDecisionID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				// Dangling reference: treat as chain end.
				break
			}
			return nil, fmt.Errorf("get predecessor decision: %w", err)
		}
		history = append(history, predecessor)
		visited[predecessor.ID] = struct{}{}
		current = predecessor
	}

	return history, nil
}
