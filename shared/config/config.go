package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	StorageMinio = "minio"
	StorageFS    = "fs"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	MaxFileCount     int      `yaml:"max_file_count" validate:"required,gt=0,lte=1000"`
	MaxFileSize      int64    `yaml:"max_file_size" validate:"required,gt=0,lte=1099511627776"` // bytes, per file, at most 1 TiB
	AllowedMimeTypes []string `yaml:"allowed_mime_types"`                     // empty means any type

	StorageBackend string `yaml:"storage_backend" validate:"required,oneof=minio fs"`
	MediaPath      string `yaml:"media_path" validate:"required_if=StorageBackend fs"`
	Minio          Minio  `yaml:"minio"`

	HTTPPort    int      `yaml:"http_port"`
	CorsOrigins []string `yaml:"cors_origins"`
	UploadRps   float64  `yaml:"upload_rps"` // per client IP, 0 disables the limit
	// all clients together, 0 disables the limit
	UploadGlobalRps float64 `yaml:"upload_global_rps"`
	HTTPS       bool     `yaml:"https"`      // enables HSTS

	// orphan collector, a zero interval disables it
	GCInterval        time.Duration `yaml:"gc_interval"`
	GCSafetyThreshold time.Duration `yaml:"gc_safety_threshold"`

	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`
}

type Minio struct {
	Endpoint string `yaml:"endpoint"`
	Bucket   string `yaml:"bucket"`
	Location string `yaml:"location"`
	UseSSL   bool   `yaml:"use_ssl"`
}

type Pg struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname" validate:"required"`
}

type MinioCredentials struct {
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type Private struct {
	Pg    Pg               `yaml:"pg"`
	Minio MinioCredentials `yaml:"minio"`
}

// BucketName is the bucket (or media root directory for the fs backend) files are stored in.
func (c *Config) BucketName() string {
	if c.Public.StorageBackend == StorageFS {
		if abs, err := filepath.Abs(c.Public.MediaPath); err == nil {
			return filepath.Base(abs)
		}
		return filepath.Base(c.Public.MediaPath)
	}
	return c.Public.Minio.Bucket
}

func loadPath(configPath string, output interface{}) error {
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("can't read config file %s: %w", configPath, err)
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		return fmt.Errorf("can't unmarshal config file %s: %w", configPath, err)
	}
	return nil
}

// Load reads public.yaml and private.yaml from configFolder.
// Secrets can be overridden with environment variables, optionally from a .env file.
func Load(configFolder string) (*Config, error) {
	var cfg Config
	if err := loadPath(path.Join(configFolder, "public.yaml"), &cfg.Public); err != nil {
		return nil, err
	}
	if err := loadPath(path.Join(configFolder, "private.yaml"), &cfg.Private); err != nil {
		return nil, err
	}

	// missing .env is fine, plain environment is used then
	_ = godotenv.Load(path.Join(configFolder, ".env"))
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	setDefaults(&cfg)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Public.StorageBackend == StorageMinio && (cfg.Public.Minio.Endpoint == "" || cfg.Public.Minio.Bucket == "") {
		return nil, fmt.Errorf("invalid config: minio endpoint and bucket are required")
	}
	return &cfg, nil
}

func MustLoad(configFolder string) *Config {
	cfg, err := Load(configFolder)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PG_HOST"); v != "" {
		cfg.Private.Pg.Host = v
	}
	if v := os.Getenv("PG_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PG_PORT %q: %w", v, err)
		}
		cfg.Private.Pg.Port = port
	}
	if v := os.Getenv("PG_PASSWORD"); v != "" {
		cfg.Private.Pg.Password = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		cfg.Private.Minio.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		cfg.Private.Minio.SecretKey = v
	}
	return nil
}

func setDefaults(cfg *Config) {
	if cfg.Public.HTTPPort == 0 {
		cfg.Public.HTTPPort = 8080
	}
	if cfg.Public.GCSafetyThreshold == 0 {
		cfg.Public.GCSafetyThreshold = time.Hour
	}
	if cfg.Public.LogLevel == "" {
		cfg.Public.LogLevel = "info"
	}
}
