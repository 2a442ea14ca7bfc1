package configs

import (
	"fmt"
	"time"

	"github.com/jinxingedu/kindersync/internal/infrastructure/env"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	HTTP    HTTPConfig    `koanf:"http"`
	Store   StoreConfig   `koanf:"store"`
	Mirror  MirrorConfig  `koanf:"mirror"`
	Sync    SyncConfig    `koanf:"sync"`
	Tracing TracingConfig `koanf:"tracing"`
}

type HTTPConfig struct {
	Host           string        `koanf:"host"`
	Port           uint16        `koanf:"port"`
	AllowedOrigins []string      `koanf:"allowed_origins"`
	AllowedHeaders []string      `koanf:"allowed_headers"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
}

type StoreConfig struct {
	DataDir string `koanf:"data_dir"`
}

// MirrorConfig holds the object-storage credentials. The mirror counts as
// configured only when region, access key, secret and bucket are all set;
// otherwise every cloud operation is a deterministic no-op.
type MirrorConfig struct {
	Region       string        `koanf:"region"`
	AccessKey    string        `koanf:"access_key"`
	AccessSecret string        `koanf:"access_secret"`
	Bucket       string        `koanf:"bucket"`
	Namespace    string        `koanf:"namespace"`
	Endpoint     string        `koanf:"endpoint"`
	Timeout      time.Duration `koanf:"timeout"`
}

type SyncConfig struct {
	Debounce       time.Duration  `koanf:"debounce"`
	BatchSize      int            `koanf:"batch_size"`
	BatchThreshold int            `koanf:"batch_threshold"`
	ProtectedKeys  map[string]int `koanf:"protected_keys"`
}

type TracingConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
	Environment string `koanf:"environment"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Load from YAML file if it exists
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			// Only return error if file was explicitly provided but failed to load
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Apply defaults and environment variable overrides
	applyDefaults(k)
	applyEnvOverrides(k)

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(k *koanf.Koanf) {
	// HTTP defaults
	setDefault(k, "http.host", "0.0.0.0")
	setDefault(k, "http.port", 8090)
	setDefault(k, "http.read_timeout", 10*time.Second)
	setDefault(k, "http.write_timeout", 30*time.Second)
	setDefault(k, "http.allowed_origins", []string{"*"})
	setDefault(k, "http.allowed_headers", []string{"Content-Type", "Authorization"})

	// Local store defaults
	setDefault(k, "store.data_dir", "./data")

	// Mirror defaults: credentials intentionally default to empty, which puts
	// the daemon in offline-only mode
	setDefault(k, "mirror.namespace", "jinxing-edu")
	setDefault(k, "mirror.timeout", 2*time.Minute)

	// Sync defaults follow the admin UI's historical values
	setDefault(k, "sync.debounce", 500*time.Millisecond)
	setDefault(k, "sync.batch_size", 200)
	setDefault(k, "sync.batch_threshold", 300)
	setDefault(k, "sync.protected_keys", map[string]int{
		"kt_students": 10,
		"kt_staff":    20,
	})

	// Tracing defaults
	setDefault(k, "tracing.enabled", false)
	setDefault(k, "tracing.endpoint", "http://jaeger:4318")
	setDefault(k, "tracing.service_name", "kindersyncd")
	setDefault(k, "tracing.environment", "development")
}

func applyEnvOverrides(k *koanf.Koanf) {
	// HTTP config from env
	if host := env.GetString("HTTP_HOST", ""); host != "" {
		k.Set("http.host", host)
	}
	if port := env.GetInt("HTTP_PORT", 0); port > 0 {
		k.Set("http.port", port)
	}
	if readTimeout := env.GetInt("HTTP_READ_TIMEOUT_SECONDS", 0); readTimeout > 0 {
		k.Set("http.read_timeout", time.Duration(readTimeout)*time.Second)
	}
	if writeTimeout := env.GetInt("HTTP_WRITE_TIMEOUT_SECONDS", 0); writeTimeout > 0 {
		k.Set("http.write_timeout", time.Duration(writeTimeout)*time.Second)
	}

	// Local store config from env
	if dataDir := env.GetString("STORE_DATA_DIR", ""); dataDir != "" {
		k.Set("store.data_dir", dataDir)
	}

	// Mirror config from env
	if region := env.GetString("MIRROR_REGION", ""); region != "" {
		k.Set("mirror.region", region)
	}
	if accessKey := env.GetString("MIRROR_ACCESS_KEY", ""); accessKey != "" {
		k.Set("mirror.access_key", accessKey)
	}
	if accessSecret := env.GetString("MIRROR_ACCESS_SECRET", ""); accessSecret != "" {
		k.Set("mirror.access_secret", accessSecret)
	}
	if bucket := env.GetString("MIRROR_BUCKET", ""); bucket != "" {
		k.Set("mirror.bucket", bucket)
	}
	if namespace := env.GetString("MIRROR_NAMESPACE", ""); namespace != "" {
		k.Set("mirror.namespace", namespace)
	}
	if endpoint := env.GetString("MIRROR_ENDPOINT", ""); endpoint != "" {
		k.Set("mirror.endpoint", endpoint)
	}

	// Sync config from env
	if debounce := env.GetInt("SYNC_DEBOUNCE_MS", 0); debounce > 0 {
		k.Set("sync.debounce", time.Duration(debounce)*time.Millisecond)
	}
	if batchSize := env.GetInt("SYNC_BATCH_SIZE", 0); batchSize > 0 {
		k.Set("sync.batch_size", batchSize)
	}
	if batchThreshold := env.GetInt("SYNC_BATCH_THRESHOLD", 0); batchThreshold > 0 {
		k.Set("sync.batch_threshold", batchThreshold)
	}

	// Tracing config from env
	if env.GetBool("TRACING_ENABLED", false) {
		k.Set("tracing.enabled", true)
	}
	if endpoint := env.GetString("TRACING_ENDPOINT", ""); endpoint != "" {
		k.Set("tracing.endpoint", endpoint)
	}
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value interface{}) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}
