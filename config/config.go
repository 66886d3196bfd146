package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server     ServerConfig
	Logger     LoggerConfig
	Backend    BackendConfig
	Postgres   PostgresConfig
	JWT        JWTConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Elastic    ElasticsearchConfig
	Shop       ShopConfig
	Cart       CartConfig
	Cloudinary CloudinaryConfig
	SendGrid   SendGridConfig
}

type ServerConfig struct {
	AppEnv          string
	HTTPPort        string
	GRPCPort        string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	AdminRateLimit  int // requests per minute, 0 disables
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

// BackendConfig selects how the managed data backend is reached.
// Driver is one of "rest", "postgres" or "memory".
type BackendConfig struct {
	Driver  string
	URL     string
	APIKey  string
	Schema  string
	Timeout time.Duration
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	CatalogTopic string
	GroupID      string
}

type ElasticsearchConfig struct {
	Enabled   bool
	Addresses []string
	Username  string
	Password  string
}

type ShopConfig struct {
	StalePolicy    string        // "discard-stale" or "last-resolved-wins"
	FetchTimeout   time.Duration // 0 means no timeout
	SessionIdleTTL time.Duration
}

type CartConfig struct {
	TTL time.Duration
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:          getEnv("APP_ENV", "dev"),
			HTTPPort:        getEnv("HTTP_PORT", ":8080"),
			GRPCPort:        getEnv("GRPC_PORT", ":8082"),
			AllowedOrigins:  getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			AdminRateLimit:  getEnvInt("ADMIN_RATE_LIMIT", 100),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Backend: BackendConfig{
			Driver:  getEnv("BACKEND_DRIVER", "memory"),
			URL:     getEnv("BACKEND_URL", "http://localhost:54321/rest/v1"),
			APIKey:  getEnv("BACKEND_API_KEY", ""),
			Schema:  getEnv("BACKEND_SCHEMA", "public"),
			Timeout: getEnvDuration("BACKEND_TIMEOUT", 0),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5432"),
			User:            getEnv("POSTGRES_USER", "frameshop"),
			Password:        getEnv("POSTGRES_PASSWORD", "frameshop"),
			DBName:          getEnv("POSTGRES_DB", "frameshop"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET_KEY", "your-secret-key-change-this-in-prod"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Enabled:      getEnvBool("KAFKA_ENABLED", false),
			Brokers:      getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			CatalogTopic: getEnv("KAFKA_TOPIC_CATALOG", "catalog.events"),
			GroupID:      getEnv("KAFKA_GROUP_STOREFRONT", ""),
		},
		Elastic: ElasticsearchConfig{
			Enabled:   getEnvBool("ELASTICSEARCH_ENABLED", false),
			Addresses: getEnvSlice("ELASTICSEARCH_ADDRESSES", []string{"http://localhost:9200"}),
			Username:  getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:  getEnv("ELASTICSEARCH_PASSWORD", ""),
		},
		Shop: ShopConfig{
			StalePolicy:    getEnv("SHOP_STALE_POLICY", "discard-stale"),
			FetchTimeout:   getEnvDuration("SHOP_FETCH_TIMEOUT", 0),
			SessionIdleTTL: getEnvDuration("SHOP_SESSION_IDLE_TTL", 30*time.Minute),
		},
		Cart: CartConfig{
			TTL: getEnvDuration("CART_TTL", 7*24*time.Hour),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
			Folder:    getEnv("CLOUDINARY_FOLDER", "frameshop/products"),
		},
		SendGrid: SendGridConfig{
			APIKey:    getEnv("SENDGRID_API_KEY", ""),
			FromEmail: getEnv("SENDGRID_FROM_EMAIL", "orders@frameshop.local"),
			FromName:  getEnv("SENDGRID_FROM_NAME", "Frameshop"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.Split(value, ",")
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
