package configuration

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverPostgres = "postgres"
	DriverMinio    = "minio"
	DriverMemory   = "memory"
)

type Config struct {
	Database DatabaseConfig
	MinIO    MinIOConfig
	Server   ServerConfig
	Log      LogConfig

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	BlobDriver    string `env:"BLOB_DRIVER" envDefault:"minio"`

	// Empty values disable the integration.
	NATSURL   string `env:"NATS_URL"`
	RedisAddr string `env:"REDIS_ADDR"`
	CLAMAVURL string `env:"CLAMAV_URL"`

	InviteCacheTTL time.Duration `env:"INVITE_CACHE_TTL" envDefault:"24h"`
	TraceEnabled   bool          `env:"DD_TRACE_ENABLED" envDefault:"false"`
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"fileuser"`
	Password string `env:"DB_PASSWORD" envDefault:"filepassword"`
	DBName   string `env:"DB_NAME" envDefault:"filemanager"`
	SSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`
}

type MinIOConfig struct {
	Endpoint      string        `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	AccessKey     string        `env:"MINIO_ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey     string        `env:"MINIO_SECRET_KEY" envDefault:"minioadmin"`
	BucketName    string        `env:"MINIO_BUCKET" envDefault:"slides"`
	UseSSL        bool          `env:"MINIO_USE_SSL" envDefault:"false"`
	PresignExpiry time.Duration `env:"PRESIGN_EXPIRY" envDefault:"1h"`
}

type ServerConfig struct {
	Port string `env:"SERVER_PORT" envDefault:"8080"`
	// PublicBaseURL prefixes invite codes to build shareable links.
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:3000"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMemory, c.StorageDriver)
	}
	switch c.BlobDriver {
	case DriverMinio, DriverMemory:
	default:
		return fmt.Errorf("BLOB_DRIVER must be %q or %q, got %q", DriverMinio, DriverMemory, c.BlobDriver)
	}
	if _, err := url.Parse(c.Server.PublicBaseURL); err != nil {
		return fmt.Errorf("PUBLIC_BASE_URL: %w", err)
	}
	return nil
}

func (c *DatabaseConfig) ConnectionString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}
