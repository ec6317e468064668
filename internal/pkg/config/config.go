package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"leadconversion/internal/pkg/consts"
	"leadconversion/internal/pkg/log_messages"
	"leadconversion/internal/pkg/logger"
	"leadconversion/internal/pkg/models"
)

// ServerConfig holds server-level config
type ServerConfig struct {
	ServiceName            string `yaml:"service_name"`
	Port                   int    `yaml:"port"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds"`
}

type LogConfig struct {
	LogLevel string `yaml:"level"`
}

// SalesforceConfig holds defaults applied to every convertLead call.
type SalesforceConfig struct {
	APIVersion         string            `yaml:"api_version"`
	ConvertedStatus    string            `yaml:"converted_status"`
	HTTPTimeoutSeconds int               `yaml:"http_timeout_seconds"`
	Proxies            map[string]string `yaml:"proxies"`
}

func (c SalesforceConfig) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Redis connection config
type RedisConfig struct {
	Addr           string        `yaml:"addr"`
	Password       string        `yaml:"password"`
	DB             int           `yaml:"db"`
	EnableTLS      bool          `yaml:"enable_tls"`
	ConnectTimeout time.Duration `yaml:"-"`
	CertContent    string        `yaml:"cert_content"`
	LockTTLSeconds int           `yaml:"lock_ttl_seconds"`
}

func (c RedisConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLSeconds) * time.Second
}

// MongoDB connection config
type MongoConfig struct {
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	URI             string        `yaml:"uri"`
	DBName          string        `yaml:"db_name"`
	AuditCollection string        `yaml:"audit_collection"`
	MaxPoolSize     uint64        `yaml:"max_pool_size"`
	MinPoolSize     uint64        `yaml:"min_pool_size"`
	MaxConnIdleTime time.Duration `yaml:"-"`
	ConnectTimeout  time.Duration `yaml:"-"`
}

// Kafka connection config
type KafkaConfig struct {
	Server           string `yaml:"server"`
	StatusTopic      string `yaml:"status_topic"`
	SecurityProtocol string `yaml:"security_protocol"`
	SASLMechanism    string `yaml:"sasl_mechanism"`
	SASLUsername     string `yaml:"sasl_username"`
	SASLPassword     string `yaml:"sasl_password"`
	ClientID         string `yaml:"client_id"`
	FlushTimeoutMs   int    `yaml:"flush_timeout_ms"`
}

type PubSubConfig struct {
	ProjectID              string `yaml:"project_id"`
	Subscription           string `yaml:"subscription"`
	MaxOutstandingMessages int    `yaml:"max_outstanding_messages"`
	NumGoroutines          int    `yaml:"num_goroutines"`
}

type GCSConfig struct {
	BucketName   string `yaml:"bucket_name"`
	ObjectPrefix string `yaml:"object_prefix"`
}

type OtelConfig struct {
	CollectorURL string `yaml:"collector_url"`
}

// AppConfig is the main config struct that holds all configs
type AppConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LogConfig        `yaml:"logging"`
	Salesforce SalesforceConfig `yaml:"salesforce"`
	Redis      RedisConfig      `yaml:"redis"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	PubSub     PubSubConfig     `yaml:"pubsub"`
	GCS        GCSConfig        `yaml:"gcs"`
	Otel       OtelConfig       `yaml:"otel"`
}

// nolint: funlen
func assignDefaultConfigValues(cfg *AppConfig) *AppConfig {

	// server config defaults
	cfg.Server.ServiceName = GetEnvOrDefaultAsString("SERVICE_NAME", orDefault(cfg.Server.ServiceName, "lead-conversion"))
	cfg.Server.Port = GetEnvOrDefaultAsInt("SERVER_PORT", orDefaultInt(cfg.Server.Port, 8080))
	cfg.Server.ShutdownTimeoutSeconds = GetEnvOrDefaultAsInt("SERVER_SHUTDOWN_TIMEOUT_SECONDS",
		orDefaultInt(cfg.Server.ShutdownTimeoutSeconds, 10))

	// log config defaults
	cfg.Logging.LogLevel = GetEnvOrDefaultAsString("LOGGING_LEVEL", orDefault(cfg.Logging.LogLevel, "info"))

	// Salesforce config defaults
	cfg.Salesforce.APIVersion = GetEnvOrDefaultAsString("SALESFORCE_API_VERSION",
		orDefault(cfg.Salesforce.APIVersion, models.DefaultAPIVersion))
	cfg.Salesforce.ConvertedStatus = GetEnvOrDefaultAsString("SALESFORCE_CONVERTED_STATUS",
		orDefault(cfg.Salesforce.ConvertedStatus, models.DefaultConvertedStatus))
	cfg.Salesforce.HTTPTimeoutSeconds = GetEnvOrDefaultAsInt("SALESFORCE_HTTP_TIMEOUT_SECONDS",
		orDefaultInt(cfg.Salesforce.HTTPTimeoutSeconds, 30))
	if proxy, ok := os.LookupEnv("SALESFORCE_HTTPS_PROXY"); ok {
		if cfg.Salesforce.Proxies == nil {
			cfg.Salesforce.Proxies = make(map[string]string)
		}
		cfg.Salesforce.Proxies["https"] = proxy
	}

	// Redis config defaults
	cfg.Redis.Addr = GetEnvOrDefaultAsString("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = GetEnvOrDefaultAsString("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = GetEnvOrDefaultAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.EnableTLS = GetEnvOrDefaultAsBool("REDIS_ENABLE_TLS", cfg.Redis.EnableTLS)
	cfg.Redis.ConnectTimeout = time.Duration(GetEnvOrDefaultAsInt("REDIS_CONNECT_TIMEOUT_SECONDS", 10)) * time.Second
	cfg.Redis.CertContent = GetEnvOrDefaultAsString("REDIS_TLS_CERT", cfg.Redis.CertContent)
	cfg.Redis.LockTTLSeconds = GetEnvOrDefaultAsInt("REDIS_LOCK_TTL_SECONDS", orDefaultInt(cfg.Redis.LockTTLSeconds, 120))

	// MongoDB config defaults
	cfg.Mongo.URI = GetEnvOrDefaultAsString("MONGO_URI", cfg.Mongo.URI)
	cfg.Mongo.DBName = GetEnvOrDefaultAsString("MONGO_DB_NAME", orDefault(cfg.Mongo.DBName, "lead_conversion"))
	cfg.Mongo.AuditCollection = GetEnvOrDefaultAsString("MONGO_AUDIT_COLLECTION",
		orDefault(cfg.Mongo.AuditCollection, consts.ConversionAuditCollection))
	cfg.Mongo.Username = GetEnvOrDefaultAsString("MONGO_USERNAME", cfg.Mongo.Username)
	cfg.Mongo.Password = GetEnvOrDefaultAsString("MONGO_PASSWORD", cfg.Mongo.Password)
	cfg.Mongo.MaxPoolSize = GetEnvOrDefaultAsUint64("MONGO_MAX_POOL_SIZE", orDefaultUint64(cfg.Mongo.MaxPoolSize, 20))
	cfg.Mongo.MinPoolSize = GetEnvOrDefaultAsUint64("MONGO_MIN_POOL_SIZE", orDefaultUint64(cfg.Mongo.MinPoolSize, 5))
	cfg.Mongo.MaxConnIdleTime = time.Duration(GetEnvOrDefaultAsInt("MONGO_MAX_CONN_IDLE_MINUTES", 30)) * time.Minute
	cfg.Mongo.ConnectTimeout = time.Duration(GetEnvOrDefaultAsInt("MONGO_CONNECT_TIMEOUT_SECONDS", 10)) * time.Second

	// Kafka config defaults
	cfg.Kafka.Server = GetEnvOrDefaultAsString("KAFKA_SERVER", cfg.Kafka.Server)
	cfg.Kafka.StatusTopic = GetEnvOrDefaultAsString("KAFKA_STATUS_TOPIC",
		orDefault(cfg.Kafka.StatusTopic, "lead-conversion-status"))
	cfg.Kafka.SecurityProtocol = GetEnvOrDefaultAsString("KAFKA_SECURITY_PROTOCOL", cfg.Kafka.SecurityProtocol)
	cfg.Kafka.SASLMechanism = GetEnvOrDefaultAsString("KAFKA_SASL_MECHANISM", cfg.Kafka.SASLMechanism)
	cfg.Kafka.SASLUsername = GetEnvOrDefaultAsString("KAFKA_SASL_USERNAME", cfg.Kafka.SASLUsername)
	cfg.Kafka.SASLPassword = GetEnvOrDefaultAsString("KAFKA_SASL_PASSWORD", cfg.Kafka.SASLPassword)
	cfg.Kafka.ClientID = GetEnvOrDefaultAsString("KAFKA_CLIENT_ID", orDefault(cfg.Kafka.ClientID, "lead-conversion"))
	cfg.Kafka.FlushTimeoutMs = GetEnvOrDefaultAsInt("KAFKA_FLUSH_TIMEOUT_MS", orDefaultInt(cfg.Kafka.FlushTimeoutMs, 5000))

	// PubSub config defaults
	cfg.PubSub.ProjectID = GetEnvOrDefaultAsString("PROJECT_ID", cfg.PubSub.ProjectID)
	cfg.PubSub.Subscription = GetEnvOrDefaultAsString("PUBSUB_SUBSCRIPTION", cfg.PubSub.Subscription)
	cfg.PubSub.MaxOutstandingMessages = GetEnvOrDefaultAsInt("PUBSUB_MAX_OUTSTANDING_MESSAGES",
		orDefaultInt(cfg.PubSub.MaxOutstandingMessages, 10))
	cfg.PubSub.NumGoroutines = GetEnvOrDefaultAsInt("PUBSUB_NUM_GOROUTINES", orDefaultInt(cfg.PubSub.NumGoroutines, 1))

	// GCS config defaults
	cfg.GCS.BucketName = GetEnvOrDefaultAsString("GCS_BUCKET_NAME", cfg.GCS.BucketName)
	cfg.GCS.ObjectPrefix = GetEnvOrDefaultAsString("GCS_OBJECT_PREFIX", orDefault(cfg.GCS.ObjectPrefix, "convert-lead"))

	cfg.Otel.CollectorURL = GetEnvOrDefaultAsString("OTEL_COLLECTOR_URL", cfg.Otel.CollectorURL)
	return cfg
}

// LoadFromConfigFilePath loads and parses config file into AppConfig
func LoadFromConfigFilePath(configPath string) (*AppConfig, error) {

	// #nosec G304: configPath comes from the deployment environment
	data, err := os.ReadFile(configPath)
	if err != nil {
		logger.Error(log_messages.ConfigReadFailure, err, zap.String("path", configPath))
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error(log_messages.ConfigUnmarshalFailure, err)
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	defaultCfg := assignDefaultConfigValues(&cfg)

	if err := validateConfig(defaultCfg); err != nil {
		logger.Error("Config validation failed", err)
		return nil, err
	}

	logger.Info(log_messages.ConfigLoaded, zap.String("path", configPath))

	return defaultCfg, nil
}

func validateConfig(cfg *AppConfig) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	if _, err := strconv.ParseFloat(cfg.Salesforce.APIVersion, 64); err != nil {
		return fmt.Errorf("salesforce.api_version must be numeric, got %q", cfg.Salesforce.APIVersion)
	}
	if cfg.Salesforce.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("salesforce.http_timeout_seconds must be positive, got %d", cfg.Salesforce.HTTPTimeoutSeconds)
	}
	for scheme := range cfg.Salesforce.Proxies {
		if scheme != "http" && scheme != "https" {
			return fmt.Errorf("salesforce.proxies keys must be http or https, got %q", scheme)
		}
	}
	if cfg.Redis.Addr != "" && cfg.Redis.LockTTLSeconds <= 0 {
		return fmt.Errorf("redis.lock_ttl_seconds must be positive, got %d", cfg.Redis.LockTTLSeconds)
	}
	if cfg.Mongo.URI != "" && cfg.Mongo.MinPoolSize > cfg.Mongo.MaxPoolSize {
		return fmt.Errorf("mongo.min_pool_size (%d) must not exceed mongo.max_pool_size (%d)",
			cfg.Mongo.MinPoolSize, cfg.Mongo.MaxPoolSize)
	}
	if cfg.PubSub.Subscription != "" && cfg.PubSub.ProjectID == "" {
		return errors.New("pubsub.project_id is required when pubsub.subscription is set")
	}
	return nil
}

func orDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func orDefaultInt(value, defaultValue int) int {
	if value == 0 {
		return defaultValue
	}
	return value
}

func orDefaultUint64(value, defaultValue uint64) uint64 {
	if value == 0 {
		return defaultValue
	}
	return value
}

func GetEnvOrDefaultAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return int(value)
}

func GetEnvOrDefaultAsUint64(key string, defaultValue uint64) uint64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvOrDefaultAsBool(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseBool(strings.TrimSpace(valueStr))
	if err != nil {
		return defaultValue
	}
	return value
}

// GetEnvOrDefaultAsString returns the value of the given env variable or the default value if not set.
func GetEnvOrDefaultAsString(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

// LoadEnvFile loads variables from a .env file without overriding ones
// already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug(log_messages.EnvFileNotLoaded, zap.String("path", path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// LoadFromConfig loads the optional .env file and then the config file at CONFIG_PATH.
func LoadFromConfig() (*AppConfig, error) {
	if err := LoadEnvFile(GetEnvOrDefaultAsString("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	configPath := GetEnvOrDefaultAsString("CONFIG_PATH", "configs/config.yaml")

	cfg, err := LoadFromConfigFilePath(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	return cfg, nil
}
