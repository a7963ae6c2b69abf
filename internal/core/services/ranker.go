package services

import (
	"fmt"
	"sort"

	"github.com/resolva-labs/resolva-cli/internal/core/domain"
	"github.com/resolva-labs/resolva-cli/internal/core/ports/driven"
)

// RankMatches turns raw index hits into ordered match records.
//
// Each hit's cosine distance becomes a similarity score (1 - distance),
// candidates below the threshold are dropped, and every surviving slot
// is joined back to its ticket in the slot-ordered corpus. Results are
// ordered with resolved tickets first, then by descending similarity;
// ties keep the order the index reported.
//
// A surviving slot with no corresponding ticket means the index and the
// corpus have drifted apart, and the whole result set is rejected with
// domain.ErrRecordNotFound rather than silently thinned.
func RankMatches(hits []driven.VectorHit, corpus []domain.Ticket, threshold float64) ([]domain.Match, error) {
	matches := make([]domain.Match, 0, len(hits))
	for _, hit := range hits {
		similarity := 1 - float64(hit.Distance)
		if similarity < threshold {
			continue
		}
		if hit.Slot < 0 || hit.Slot >= len(corpus) {
			return nil, fmt.Errorf(
				"ranker: slot %d has no ticket in a corpus of %d: %w",
				hit.Slot, len(corpus), domain.ErrRecordNotFound,
			)
		}
		matches = append(matches, domain.SnapshotMatch(corpus[hit.Slot], similarity))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Resolved != matches[j].Resolved {
			return matches[i].Resolved
		}
		return matches[i].Similarity > matches[j].Similarity
	})

	return matches, nil
}
