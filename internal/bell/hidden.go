package bell

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// HiddenStore persists the per-viewer set of dismissed alert ids in redis.
// Entries never expire; hiding only suppresses bell visibility and never
// touches server-side read state.
type HiddenStore struct {
	rdb *redis.Client
}

func NewHiddenStore(rdb *redis.Client) *HiddenStore {
	return &HiddenStore{rdb: rdb}
}

func hiddenKey(viewerID string) string {
	return fmt.Sprintf("bell:hidden:%s", viewerID)
}

// Hidden returns the alert ids the viewer has dismissed.
func (s *HiddenStore) Hidden(ctx context.Context, viewerID string) (map[string]bool, error) {
	ids, err := s.rdb.SMembers(ctx, hiddenKey(viewerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load hidden ids for viewer %s: %w", viewerID, err)
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// Hide records a dismissed alert id for the viewer.
func (s *HiddenStore) Hide(ctx context.Context, viewerID, alertID string) error {
	if err := s.rdb.SAdd(ctx, hiddenKey(viewerID), alertID).Err(); err != nil {
		return fmt.Errorf("hide alert %s for viewer %s: %w", alertID, viewerID, err)
	}
	return nil
}
