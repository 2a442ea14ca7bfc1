package mirror

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jinxingedu/kindersync/internal/domain"
	"github.com/jinxingedu/kindersync/internal/infrastructure/logging"
	"github.com/jinxingedu/kindersync/internal/infrastructure/metrics"
)

// partIndex is the manifest object written next to part-uploaded arrays.
type partIndex struct {
	StorageKey   string `json:"storageKey"`
	TotalRecords int    `json:"totalRecords"`
	TotalBatches int    `json:"totalBatches"`
	BatchSize    int    `json:"batchSize"`
	UpdatedAt    string `json:"updatedAt"`
}

// uploadInParts splits a large array into BatchSize chunks and writes one
// object per chunk plus the index manifest. Partial failures are reported as
// an overall failure but successful parts stay in place; the next sync cycle
// rewrites them.
func (c *Client) uploadInParts(ctx context.Context, key domain.StorageKey, records []domain.Record) bool {
	total := (len(records) + c.cfg.BatchSize - 1) / c.cfg.BatchSize

	failed := 0
	for i := 0; i < total; i++ {
		start := i * c.cfg.BatchSize
		end := min(start+c.cfg.BatchSize, len(records))

		body, err := json.Marshal(records[start:end])
		if err == nil {
			err = c.putObject(ctx, c.partPath(key, i), body)
		}
		if err != nil {
			failed++
			c.logger.Error(logging.Mirror, logging.Upload, "part upload failed", map[logging.ExtraKey]any{
				logging.Key:          string(key),
				logging.Count:        i,
				logging.ErrorMessage: err.Error(),
			})
		}
	}

	index := partIndex{
		StorageKey:   string(key),
		TotalRecords: len(records),
		TotalBatches: total,
		BatchSize:    c.cfg.BatchSize,
		UpdatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	body, err := json.MarshalIndent(index, "", "  ")
	if err == nil {
		err = c.putObject(ctx, c.indexPath(key), body)
	}
	if err != nil {
		c.logger.Error(logging.Mirror, logging.Upload, "index upload failed", map[logging.ExtraKey]any{
			logging.Key:          string(key),
			logging.ErrorMessage: err.Error(),
		})
		failed++
	}

	if failed > 0 {
		metrics.MirrorUploads.WithLabelValues(string(key), "error").Inc()
		return false
	}

	metrics.MirrorUploads.WithLabelValues(string(key), "ok").Inc()
	c.logger.Info(logging.Mirror, logging.Upload, "uploaded in parts", map[logging.ExtraKey]any{
		logging.Key:   string(key),
		logging.Count: len(records),
	})
	return true
}

// downloadParts reassembles a part-uploaded array. The second return value is
// false when no index object exists, which sends the caller down the
// single-object path.
func (c *Client) downloadParts(ctx context.Context, key domain.StorageKey) ([]domain.Record, bool) {
	raw, err := c.getObject(ctx, c.indexPath(key))
	if err != nil {
		return nil, false
	}

	var index partIndex
	if err := json.Unmarshal(raw, &index); err != nil {
		c.logger.Error(logging.Mirror, logging.Download, "malformed index object", map[logging.ExtraKey]any{
			logging.Key:          string(key),
			logging.ErrorMessage: err.Error(),
		})
		return nil, false
	}

	all := make([]domain.Record, 0, index.TotalRecords)
	for i := 0; i < index.TotalBatches; i++ {
		raw, err := c.getObject(ctx, c.partPath(key, i))
		if err != nil {
			// A missing part is data loss we cannot repair here; keep what we
			// have so reconciliation still sees the surviving records.
			c.logger.Error(logging.Mirror, logging.Download, "part download failed", map[logging.ExtraKey]any{
				logging.Key:          string(key),
				logging.Count:        i,
				logging.ErrorMessage: err.Error(),
			})
			continue
		}

		var part []domain.Record
		if err := json.Unmarshal(raw, &part); err != nil {
			c.logger.Error(logging.Mirror, logging.Download, "malformed part object", map[logging.ExtraKey]any{
				logging.Key:          string(key),
				logging.Count:        i,
				logging.ErrorMessage: err.Error(),
			})
			continue
		}
		all = append(all, part...)
	}
	return all, true
}
