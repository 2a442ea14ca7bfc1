package syncer

import "github.com/jinxingedu/kindersync/internal/domain"

// MergeByID unions two replicas of a domain array. The result starts from the
// local order; every cloud record overlays the local one with the same id, and
// ids present only in the cloud are appended in cloud order. Nothing is ever
// deleted by a merge: a record present in only one replica always survives.
// The cost of that choice is that a locally-deleted record still held by the
// cloud reappears; there is no tombstone mechanism.
func MergeByID(local, cloud []domain.Record) []domain.Record {
	merged := make([]domain.Record, len(local))
	position := make(map[string]int, len(local))

	for i, rec := range local {
		merged[i] = rec
		position[rec.ID()] = i
	}

	for _, rec := range cloud {
		if i, ok := position[rec.ID()]; ok {
			merged[i] = rec // cloud wins on id collision
			continue
		}
		position[rec.ID()] = len(merged)
		merged = append(merged, rec)
	}

	return merged
}
