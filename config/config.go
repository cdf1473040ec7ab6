package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/malwarebo/taskhub/throttle"
)

type Config struct {
	Environment string           `json:"environment"`
	Server      ServerConfig     `json:"server"`
	Database    DatabaseConfig   `json:"database"`
	Redis       RedisConfig      `json:"redis"`
	Cache       CacheConfig      `json:"cache"`
	Pagination  PaginationConfig `json:"pagination"`
	Throttles   ThrottleConfig   `json:"throttles"`
	Auth        AuthConfig       `json:"auth"`
	Email       EmailConfig      `json:"email"`
	// DefaultOwnerID is the user records are attributed to when a
	// request carries no authenticated user.
	DefaultOwnerID uint `json:"default_owner_id"`
}

type ServerConfig struct {
	Port           string        `json:"port"`
	ReadTimeout    time.Duration `json:"read_timeout"`
	WriteTimeout   time.Duration `json:"write_timeout"`
	IdleTimeout    time.Duration `json:"idle_timeout"`
	MaxHeaderBytes int           `json:"max_header_bytes"`
}

type DatabaseConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	User         string        `json:"user"`
	Password     string        `json:"password"`
	DBName       string        `json:"dbname"`
	SSLMode      string        `json:"sslmode"`
	MaxOpenConns int           `json:"max_open_conns"`
	MaxIdleConns int           `json:"max_idle_conns"`
	MaxLifetime  time.Duration `json:"max_lifetime"`
	MaxIdleTime  time.Duration `json:"max_idle_time"`
	ReplicaDSNs  []string      `json:"replica_dsns"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type CacheConfig struct {
	TTL time.Duration `json:"ttl"`
}

type PaginationConfig struct {
	DefaultSize int `json:"default_size"`
	MaxSize     int `json:"max_size"`
}

// ThrottleConfig carries the per-client scopes for anonymous and
// authenticated traffic plus the global burst ceiling. Rates use the
// "count/period" form, e.g. "100/day".
type ThrottleConfig struct {
	Anonymous      []throttle.ScopeRate `json:"anonymous"`
	Authenticated  []throttle.ScopeRate `json:"authenticated"`
	BurstPerSecond int                  `json:"burst_per_second"`
}

type AuthConfig struct {
	JWTSecret string `json:"jwt_secret"`
}

type EmailConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
	NotifyTo string `json:"notify_to"`
}

func LoadConfig() (*Config, error) {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	config := &Config{}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	config.Environment = env

	configDir, err := filepath.Abs("config")
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(configDir, "config.json")

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}

		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %v", err)
		}
	}

	config.loadFromEnv()

	config.setDefaults()

	return config, nil
}

func (c *Config) loadFromEnv() {
	if host := os.Getenv("DB_HOST"); host != "" {
		c.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Database.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		c.Database.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		c.Database.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		c.Database.DBName = dbname
	}
	if sslmode := os.Getenv("DB_SSLMODE"); sslmode != "" {
		c.Database.SSLMode = sslmode
	}

	if host := os.Getenv("REDIS_HOST"); host != "" {
		c.Redis.Host = host
	}
	if port := os.Getenv("REDIS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Redis.Port = p
		}
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		c.Redis.Password = password
	}

	if serverPort := os.Getenv("SERVER_PORT"); serverPort != "" {
		c.Server.Port = serverPort
	}

	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		c.Auth.JWTSecret = jwtSecret
	}

	if host := os.Getenv("EMAIL_HOST"); host != "" {
		c.Email.Host = host
	}
	if port := os.Getenv("EMAIL_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Email.Port = p
		}
	}
	if username := os.Getenv("EMAIL_USERNAME"); username != "" {
		c.Email.Username = username
	}
	if password := os.Getenv("EMAIL_PASSWORD"); password != "" {
		c.Email.Password = password
	}
	if from := os.Getenv("EMAIL_FROM"); from != "" {
		c.Email.From = from
	}

	if owner := os.Getenv("DEFAULT_OWNER_ID"); owner != "" {
		if id, err := strconv.ParseUint(owner, 10, 32); err == nil {
			c.DefaultOwnerID = uint(id)
		}
	}
}

func (c *Config) setDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}

	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 100
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 10
	}
	if c.Database.MaxLifetime == 0 {
		c.Database.MaxLifetime = time.Hour
	}
	if c.Database.MaxIdleTime == 0 {
		c.Database.MaxIdleTime = 10 * time.Minute
	}

	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}

	if c.Pagination.DefaultSize == 0 {
		c.Pagination.DefaultSize = 10
	}
	if c.Pagination.MaxSize == 0 {
		c.Pagination.MaxSize = 100
	}

	if len(c.Throttles.Anonymous) == 0 {
		c.Throttles.Anonymous = []throttle.ScopeRate{
			{Name: "anon_minute", Rate: "60/minute"},
			{Name: "anon_day", Rate: "1000/day"},
		}
	}
	if len(c.Throttles.Authenticated) == 0 {
		c.Throttles.Authenticated = []throttle.ScopeRate{
			{Name: "user_minute", Rate: "120/minute"},
			{Name: "user_day", Rate: "10000/day"},
		}
	}
	if c.Throttles.BurstPerSecond == 0 {
		c.Throttles.BurstPerSecond = 500
	}

	if c.DefaultOwnerID == 0 {
		c.DefaultOwnerID = 1
	}
}

func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.DBName, c.Database.SSLMode)
}
