package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// Duration accepte les valeurs "30s", "5m", "2h" dans le YAML
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("❌ invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// EndpointLimit is the fixed-window budget for one endpoint class
type EndpointLimit struct {
	Window Duration `yaml:"window"` // W
	Quota  uint32   `yaml:"quota"`  // Q
}

// RateLimitConfig groups rate limiter settings
type RateLimitConfig struct {
	Backend  string `yaml:"backend"`  // "sqlite" or "redis"
	FailOpen bool   `yaml:"failOpen"` // on store failure: allow (true) or reject (false)
	Redis    struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password,omitempty"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Endpoints     map[string]EndpointLimit `yaml:"endpoints"`
	SweepInterval Duration                 `yaml:"sweepInterval"`
}

// Limit returns the configured budget for an endpoint, or a safe default
func (r *RateLimitConfig) Limit(endpoint string) EndpointLimit {
	if lim, ok := r.Endpoints[endpoint]; ok && lim.Window > 0 && lim.Quota > 0 {
		return lim
	}
	return EndpointLimit{Window: Duration(time.Minute), Quota: 60}
}

// TrendingConfig groups trending cache settings
type TrendingConfig struct {
	RefreshInterval Duration `yaml:"refreshInterval"`
	MaxAge          Duration `yaml:"maxAge"`
	SnapshotSize    int      `yaml:"snapshotSize"`
}

// SearchConfig groups search engine settings
type SearchConfig struct {
	MaxPageSize uint32   `yaml:"maxPageSize"`
	Timeout     Duration `yaml:"timeout"`
}

// Backup settings, per cloud provider
type Backup struct {
	Provider string `yaml:"provider"` // "aws", "gcp", ou "azure"
	Enabled  bool   `yaml:"enabled"`
	GCP      struct {
		Bucket    string `yaml:"bucket"`
		ProjectID string `yaml:"projectID"`
	} `yaml:"gcp"`
	AWS struct {
		Bucket string `yaml:"bucket"`
		Region string `yaml:"region"`
	} `yaml:"aws"`
	Azure struct {
		StorageAccount string `yaml:"storageAccount"`
		Container      string `yaml:"container"`
	} `yaml:"azure"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Trending  TrendingConfig  `yaml:"trending"`
	Search    SearchConfig    `yaml:"search"`
	Backup    Backup          `yaml:"backup"`
}

type Secrets struct {
	// AWS credentials
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// GCP credentials
	GCPCredentialsFile string

	// Azure credentials
	AzureStorageAccountKey string
}

// LoadConfig charge la configuration depuis un fichier YAML
func LoadConfig(path string) (*Config, error) {
	config := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("❌ error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("❌ error parsing config: %w", err)
	}

	loadConfigFromEnv(config)
	applyDefaults(config)

	return config, nil
}

// applyDefaults fills the values a minimal config file leaves out
func applyDefaults(config *Config) {
	if config.Server.Port == 0 {
		config.Server.Port = 3030
	}
	if config.Storage.Path == "" {
		config.Storage.Path = "./data"
	}
	if config.RateLimit.Backend == "" {
		config.RateLimit.Backend = "sqlite"
	}
	if config.RateLimit.SweepInterval == 0 {
		config.RateLimit.SweepInterval = Duration(5 * time.Minute)
	}
	if config.Trending.RefreshInterval == 0 {
		config.Trending.RefreshInterval = Duration(2 * time.Hour)
	}
	if config.Trending.MaxAge == 0 {
		config.Trending.MaxAge = 2 * config.Trending.RefreshInterval
	}
	if config.Trending.SnapshotSize == 0 {
		config.Trending.SnapshotSize = 100
	}
	if config.Search.MaxPageSize == 0 || config.Search.MaxPageSize > 100 {
		config.Search.MaxPageSize = 100
	}
	if config.Search.Timeout == 0 {
		config.Search.Timeout = Duration(5 * time.Second)
	}
}

// Charge les configurations depuis les variables d'environnement
func loadConfigFromEnv(config *Config) {
	// Paramètres du serveur
	if portStr := os.Getenv("SERVER_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			config.Server.Port = port
		}
	}

	// Paramètres de logging
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		config.Logging.Level = logLevel
	}
	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		config.Logging.Format = logFormat
	}

	// Rate limiter
	if backend := os.Getenv("RATE_LIMIT_BACKEND"); backend != "" {
		config.RateLimit.Backend = backend
	}
	if failOpen := os.Getenv("RATE_LIMIT_FAIL_OPEN"); failOpen != "" {
		config.RateLimit.FailOpen = failOpen == "true"
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		config.RateLimit.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		config.RateLimit.Redis.Password = password
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		if n, err := strconv.Atoi(db); err == nil {
			config.RateLimit.Redis.DB = n
		}
	}

	// Trending
	if interval := os.Getenv("TRENDING_REFRESH_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			config.Trending.RefreshInterval = Duration(d)
		}
	}
	if maxAge := os.Getenv("TRENDING_MAX_AGE"); maxAge != "" {
		if d, err := time.ParseDuration(maxAge); err == nil {
			config.Trending.MaxAge = Duration(d)
		}
	}
	if size := os.Getenv("TRENDING_SNAPSHOT_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil {
			config.Trending.SnapshotSize = n
		}
	}

	// Paramètres de backup
	if provider := os.Getenv("BACKUP_PROVIDER"); provider != "" {
		config.Backup.Provider = provider
	}
	if enabled := os.Getenv("BACKUP_ENABLED"); enabled != "" {
		config.Backup.Enabled = enabled == "true"
	}

	// GCP backup config
	if gcpBucket := os.Getenv("GCP_BUCKET"); gcpBucket != "" {
		config.Backup.GCP.Bucket = gcpBucket
	}
	if gcpProjectID := os.Getenv("GCP_PROJECT_ID"); gcpProjectID != "" {
		config.Backup.GCP.ProjectID = gcpProjectID
	}

	// AWS backup config
	if awsBucket := os.Getenv("AWS_BUCKET"); awsBucket != "" {
		config.Backup.AWS.Bucket = awsBucket
	}
	if awsRegion := os.Getenv("AWS_REGION"); awsRegion != "" {
		config.Backup.AWS.Region = awsRegion
	}

	// Azure backup config
	if azureAccount := os.Getenv("AZURE_STORAGE_ACCOUNT"); azureAccount != "" {
		config.Backup.Azure.StorageAccount = azureAccount
	}
	if azureContainer := os.Getenv("AZURE_CONTAINER"); azureContainer != "" {
		config.Backup.Azure.Container = azureContainer
	}
}

// LoadSecrets charge les secrets depuis les variables d'environnement
func LoadSecrets() *Secrets {
	secrets := &Secrets{}

	// AWS secrets
	secrets.AWSAccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	secrets.AWSSecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")

	// GCP secrets
	secrets.GCPCredentialsFile = os.Getenv("GCP_CREDENTIALS_FILE")

	// Azure secrets
	secrets.AzureStorageAccountKey = os.Getenv("AZURE_STORAGE_ACCOUNT_KEY")

	return secrets
}
