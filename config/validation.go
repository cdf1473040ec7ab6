package config

import (
	"fmt"

	"github.com/malwarebo/taskhub/throttle"
	"github.com/malwarebo/taskhub/utils"
)

func (c *Config) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database config: %w", err)
	}

	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("redis config: %w", err)
	}

	if err := c.Throttles.Validate(); err != nil {
		return fmt.Errorf("throttle config: %w", err)
	}

	if c.Pagination.DefaultSize > c.Pagination.MaxSize {
		return utils.NewConfigurationError("pagination.default_size", "must not exceed pagination.max_size")
	}

	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.Host == "" {
		return utils.NewConfigurationError("database.host", "is required")
	}
	if c.Port == 0 {
		return utils.NewConfigurationError("database.port", "is required")
	}
	if c.User == "" {
		return utils.NewConfigurationError("database.user", "is required")
	}
	if c.DBName == "" {
		return utils.NewConfigurationError("database.dbname", "is required")
	}
	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return utils.NewConfigurationError("server.port", "is required")
	}
	return nil
}

func (c *RedisConfig) Validate() error {
	if c.Host == "" {
		return utils.NewConfigurationError("redis.host", "is required")
	}
	if c.Port == 0 {
		return utils.NewConfigurationError("redis.port", "is required")
	}
	return nil
}

// Validate rejects unparseable rates up front rather than letting them
// be silently skipped at runtime.
func (c *ThrottleConfig) Validate() error {
	for _, scope := range append(append([]throttle.ScopeRate{}, c.Anonymous...), c.Authenticated...) {
		if scope.Name == "" {
			return utils.NewConfigurationError("throttles", "every scope needs a name")
		}
		if _, _, err := throttle.ParseRate(scope.Rate); err != nil {
			return utils.NewConfigurationError("throttles."+scope.Name, fmt.Sprintf("unparseable rate %q", scope.Rate))
		}
	}
	return nil
}
