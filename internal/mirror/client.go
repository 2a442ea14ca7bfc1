// Package mirror implements the cloud replica client. Each domain array lives
// as one JSON object at <namespace>/<key>.json in an OSS bucket; large arrays
// are split into part objects plus an index. The client never surfaces errors
// to callers: failures become false/empty results with an operator log line,
// and an unconfigured client short-circuits without touching the network.
package mirror

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jinxingedu/kindersync/internal/domain"
	"github.com/jinxingedu/kindersync/internal/infrastructure/logging"
	"github.com/jinxingedu/kindersync/internal/infrastructure/metrics"
)

const contentTypeJSON = "application/json; charset=utf-8"

type Config struct {
	Region       string
	AccessKey    string
	AccessSecret string
	Bucket       string
	Namespace    string
	// Endpoint overrides the derived bucket URL; tests point it at a local
	// HTTP server.
	Endpoint string
	Timeout  time.Duration

	// Arrays longer than BatchThreshold upload as parts of BatchSize records.
	BatchSize      int
	BatchThreshold int
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger logging.Logger
}

func New(cfg Config, logger logging.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 200
	}
	if cfg.BatchThreshold <= 0 {
		cfg.BatchThreshold = 300
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Configured reports whether the client has a complete credential set. When
// false, every operation is a deterministic no-op: this is the supported
// offline-only mode, not an error condition.
func (c *Client) Configured() bool {
	return c.cfg.Region != "" && c.cfg.AccessKey != "" && c.cfg.AccessSecret != "" && c.cfg.Bucket != ""
}

func (c *Client) baseURL() string {
	if c.cfg.Endpoint != "" {
		return c.cfg.Endpoint
	}
	return fmt.Sprintf("https://%s.%s.aliyuncs.com", c.cfg.Bucket, c.cfg.Region)
}

func (c *Client) objectPath(key domain.StorageKey) string {
	return fmt.Sprintf("/%s/%s.json", c.cfg.Namespace, key)
}

func (c *Client) partPath(key domain.StorageKey, index int) string {
	return fmt.Sprintf("/%s/%s_part%d.json", c.cfg.Namespace, key, index)
}

func (c *Client) indexPath(key domain.StorageKey) string {
	return fmt.Sprintf("/%s/%s_index.json", c.cfg.Namespace, key)
}

// sign sets the Date header and the OSS-style Authorization header:
// base64(hmac-sha1(secret, VERB\nContent-MD5\nContent-Type\nDate\nResource)).
func (c *Client) sign(req *http.Request, resource string) {
	date := time.Now().UTC().Format(http.TimeFormat)
	req.Header.Set("Date", date)

	stringToSign := req.Method + "\n" +
		req.Header.Get("Content-MD5") + "\n" +
		req.Header.Get("Content-Type") + "\n" +
		date + "\n" +
		resource

	mac := hmac.New(sha1.New, []byte(c.cfg.AccessSecret))
	mac.Write([]byte(stringToSign))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	req.Header.Set("Authorization", fmt.Sprintf("OSS %s:%s", c.cfg.AccessKey, signature))
}

func (c *Client) putObject(ctx context.Context, path string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL()+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	c.sign(req, "/"+c.cfg.Bucket+path)

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.MirrorLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("put %s: status %d", path, resp.StatusCode)
	}
	return nil
}

var errObjectMissing = fmt.Errorf("object does not exist")

func (c *Client) getObject(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL()+path, nil)
	if err != nil {
		return nil, err
	}
	c.sign(req, "/"+c.cfg.Bucket+path)

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.MirrorLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return nil, errObjectMissing
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("get %s: status %d", path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Upload writes the array for key to the bucket. Returns false on any failure
// after logging it; network errors never propagate.
func (c *Client) Upload(ctx context.Context, key domain.StorageKey, records []domain.Record) bool {
	if !c.Configured() {
		return false
	}

	if len(records) > c.cfg.BatchThreshold {
		return c.uploadInParts(ctx, key, records)
	}

	body, err := json.MarshalIndent(records, "", "  ")
	if err == nil {
		err = c.putObject(ctx, c.objectPath(key), body)
	}
	if err != nil {
		metrics.MirrorUploads.WithLabelValues(string(key), "error").Inc()
		c.logger.Error(logging.Mirror, logging.Upload, "upload failed", map[logging.ExtraKey]any{
			logging.Key:          string(key),
			logging.ErrorMessage: err.Error(),
		})
		return false
	}

	metrics.MirrorUploads.WithLabelValues(string(key), "ok").Inc()
	c.logger.Info(logging.Mirror, logging.Upload, "uploaded", map[logging.ExtraKey]any{
		logging.Key:   string(key),
		logging.Count: len(records),
	})
	return true
}

// Download fetches the array for key. A missing object means "no cloud data
// yet" and comes back as an empty slice, as does any failure.
func (c *Client) Download(ctx context.Context, key domain.StorageKey) []domain.Record {
	if !c.Configured() {
		return []domain.Record{}
	}

	// Part-uploaded arrays are reassembled through their index object.
	if records, ok := c.downloadParts(ctx, key); ok {
		metrics.MirrorDownloads.WithLabelValues(string(key), "ok").Inc()
		return records
	}

	raw, err := c.getObject(ctx, c.objectPath(key))
	if err == errObjectMissing {
		metrics.MirrorDownloads.WithLabelValues(string(key), "missing").Inc()
		return []domain.Record{}
	}
	if err != nil {
		metrics.MirrorDownloads.WithLabelValues(string(key), "error").Inc()
		c.logger.Error(logging.Mirror, logging.Download, "download failed", map[logging.ExtraKey]any{
			logging.Key:          string(key),
			logging.ErrorMessage: err.Error(),
		})
		return []domain.Record{}
	}

	var records []domain.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		metrics.MirrorDownloads.WithLabelValues(string(key), "error").Inc()
		c.logger.Error(logging.Mirror, logging.Download, "malformed cloud object", map[logging.ExtraKey]any{
			logging.Key:          string(key),
			logging.ErrorMessage: err.Error(),
		})
		return []domain.Record{}
	}

	metrics.MirrorDownloads.WithLabelValues(string(key), "ok").Inc()
	return records
}

// Health reports reachability for the operator status view. It never gates
// correctness anywhere.
type Health struct {
	Healthy   bool   `json:"healthy"`
	LatencyMS int64  `json:"latencyMs,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HealthCheck performs a one-key prefix listing and measures the round trip.
func (c *Client) HealthCheck(ctx context.Context) Health {
	if !c.Configured() {
		return Health{Healthy: false, Error: "mirror is not configured"}
	}

	url := fmt.Sprintf("%s/?prefix=%s/&max-keys=1", c.baseURL(), c.cfg.Namespace)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Health{Healthy: false, Error: err.Error()}
	}
	c.sign(req, "/"+c.cfg.Bucket+"/")

	start := time.Now()
	resp, err := c.http.Do(req)
	latency := time.Since(start)
	if err != nil {
		return Health{Healthy: false, Error: err.Error()}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return Health{Healthy: false, LatencyMS: latency.Milliseconds(), Error: fmt.Sprintf("status %d", resp.StatusCode)}
	}
	return Health{Healthy: true, LatencyMS: latency.Milliseconds()}
}

// Status describes the configured replica target for the operator view.
type Status struct {
	Enabled  bool   `json:"enabled"`
	Provider string `json:"provider"`
	Region   string `json:"region,omitempty"`
	Bucket   string `json:"bucket,omitempty"`
}

func (c *Client) Status() Status {
	return Status{
		Enabled:  c.Configured(),
		Provider: "aliyun-oss",
		Region:   c.cfg.Region,
		Bucket:   c.cfg.Bucket,
	}
}
