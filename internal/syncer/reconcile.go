package syncer

import (
	"context"

	"github.com/jinxingedu/kindersync/internal/domain"
	"github.com/jinxingedu/kindersync/internal/infrastructure/logging"
	"github.com/jinxingedu/kindersync/internal/infrastructure/metrics"
)

// ReconcileResult reports what happened to one key during reconciliation.
type ReconcileResult struct {
	Key     string `json:"key"`
	Outcome string `json:"outcome"` // skipped, bootstrapped, merged, merged_reuploaded
	Local   int    `json:"local"`
	Cloud   int    `json:"cloud"`
	Merged  int    `json:"merged,omitempty"`
}

// Reconcile converges the two replicas for each key, in sequence:
//
//   - local non-empty, cloud empty: the cloud is bootstrapped from local
//   - cloud non-empty: union merge (cloud wins per id) is written back
//     locally, and re-uploaded when local contributed ids the cloud lacked
//   - both empty: nothing to do
//
// The merge never deletes: a record deleted locally after a successful sync
// reappears if the cloud still holds it. Known gap, left as-is.
func (c *Coordinator) Reconcile(ctx context.Context, keys []domain.StorageKey) []ReconcileResult {
	results := make([]ReconcileResult, 0, len(keys))
	for _, key := range keys {
		results = append(results, c.reconcileKey(ctx, key))
	}
	c.local.MarkSynced()
	return results
}

func (c *Coordinator) reconcileKey(ctx context.Context, key domain.StorageKey) ReconcileResult {
	local := c.local.Get(key)
	cloud := c.mirror.Download(ctx, key)

	result := ReconcileResult{Key: string(key), Local: len(local), Cloud: len(cloud)}

	switch {
	case len(local) == 0 && len(cloud) == 0:
		result.Outcome = "skipped"

	case len(cloud) == 0:
		c.mirror.Upload(ctx, key, local)
		result.Outcome = "bootstrapped"

	default:
		merged := MergeByID(local, cloud)
		result.Merged = len(merged)
		c.local.Replace(key, merged)

		if len(merged) > len(cloud) {
			// Local contributed ids the cloud lacked; push so both
			// replicas converge.
			c.mirror.Upload(ctx, key, merged)
			result.Outcome = "merged_reuploaded"
		} else {
			result.Outcome = "merged"
		}
	}

	metrics.ReconcileRuns.WithLabelValues(result.Outcome).Inc()
	c.logger.Info(logging.Sync, logging.Reconcile, "reconciled key", map[logging.ExtraKey]any{
		logging.Key:   string(key),
		logging.Count: result.Merged,
	})
	return result
}

// UploadResult reports one key's outcome from an operator-triggered push.
type UploadResult struct {
	Key     string `json:"key"`
	Count   int    `json:"count"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// UploadAll pushes every non-empty registered key to the cloud in sequence.
// Per-key outcomes are reported rather than aborting on the first failure.
func (c *Coordinator) UploadAll(ctx context.Context) []UploadResult {
	keys := domain.RegisteredKeys()
	results := make([]UploadResult, 0, len(keys))

	for _, key := range keys {
		records := c.local.Get(key)
		if len(records) == 0 {
			results = append(results, UploadResult{Key: string(key), Skipped: true})
			continue
		}

		result := UploadResult{Key: string(key), Count: len(records)}
		if !c.mirror.Upload(ctx, key, records) {
			result.Error = "upload failed"
		}
		results = append(results, result)
	}

	c.local.MarkSynced()
	return results
}
