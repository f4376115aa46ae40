package identity

import (
	"context"
	"fmt"
	"sort"

	"github.com/ambrish/job-aggregator/internal/types"
)

// ExactMatchScore is the similarity recorded for tuple-identical pairs.
// The grouped scan only ever links exact normalized-tuple matches, so the
// score is 1.0 by construction.
const ExactMatchScore = 1.0

// LinkStore is the slice of the storage layer the dedup pass needs.
type LinkStore interface {
	// ListKeys returns the identity projection of every stored record.
	ListKeys(ctx context.Context) ([]types.RecordKey, error)
	// InsertDuplicateLink stores a link if the pair is not already linked.
	InsertDuplicateLink(ctx context.Context, link types.DuplicateLink) (bool, error)
}

// Pass runs the batch deduplication scan over all persisted records.
//
// Records are grouped by their normalized identity tuple; within each
// group every ordered pair (older record first) yields one DuplicateLink.
// This produces the same link set as a pairwise scan over all records,
// without the quadratic comparison over the whole table. Returns the
// number of links newly inserted.
func Pass(ctx context.Context, store LinkStore) (int, error) {
	keys, err := store.ListKeys(ctx)
	if err != nil {
		return 0, fmt.Errorf("dedup pass: listing records: %w", err)
	}

	groups := make(map[string][]types.RecordKey)
	for _, k := range keys {
		id := NewKey(k.CompanyName, k.Role, k.Location).String()
		groups[id] = append(groups[id], k)
	}

	inserted := 0
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		// Oldest record is the original; ties break on post_id so the
		// pass is deterministic run to run.
		sort.Slice(group, func(i, j int) bool {
			if group[i].CreatedAt.Equal(group[j].CreatedAt) {
				return group[i].PostID < group[j].PostID
			}
			return group[i].CreatedAt.Before(group[j].CreatedAt)
		})

		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				ok, err := store.InsertDuplicateLink(ctx, types.DuplicateLink{
					OriginalPostID:  group[i].PostID,
					DuplicatePostID: group[j].PostID,
					SimilarityScore: ExactMatchScore,
				})
				if err != nil {
					return inserted, fmt.Errorf("dedup pass: linking %s -> %s: %w",
						group[i].PostID, group[j].PostID, err)
				}
				if ok {
					inserted++
				}
			}
		}
	}

	return inserted, nil
}
