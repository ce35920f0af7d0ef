// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. STARCRUISER_GAME_TICKINTERVAL.
const EnvPrefix = "STARCRUISER"

// Config contains the server configuration
type Config struct {
	LogLevel string        `json:"logLevel" mapstructure:"logLevel"`
	Server   ServerConfig  `json:"server" mapstructure:"server"`
	Game     GameConfig    `json:"game" mapstructure:"game"`
	Network  NetworkConfig `json:"network" mapstructure:"network"`
	Health   HealthConfig  `json:"health" mapstructure:"health"`
}

// ServerConfig contains listener settings
type ServerConfig struct {
	Address         string        `json:"address" mapstructure:"address"`
	HealthPort      int           `json:"healthPort" mapstructure:"healthPort"`
	ShutdownTimeout time.Duration `json:"shutdownTimeout" mapstructure:"shutdownTimeout"`
}

// GameConfig contains simulation settings
type GameConfig struct {
	TickInterval         time.Duration `json:"tickInterval" mapstructure:"tickInterval"`
	SnapshotInterval     time.Duration `json:"snapshotInterval" mapstructure:"snapshotInterval"`
	MaxInflightSnapshots int           `json:"maxInflightSnapshots" mapstructure:"maxInflightSnapshots"`
	SnapshotTimeout      time.Duration `json:"snapshotTimeout" mapstructure:"snapshotTimeout"`
	AsteroidCount        int           `json:"asteroidCount" mapstructure:"asteroidCount"`
	EnemyShips           int           `json:"enemyShips" mapstructure:"enemyShips"`
	NeutralShips         int           `json:"neutralShips" mapstructure:"neutralShips"`
	InboxSize            int           `json:"inboxSize" mapstructure:"inboxSize"`
}

// NetworkConfig contains client session settings
type NetworkConfig struct {
	MaxCommandsPerSecond float64       `json:"maxCommandsPerSecond" mapstructure:"maxCommandsPerSecond"`
	CommandBurst         int           `json:"commandBurst" mapstructure:"commandBurst"`
	MaxFrameSize         int64         `json:"maxFrameSize" mapstructure:"maxFrameSize"`
	PingPeriod           time.Duration `json:"pingPeriod" mapstructure:"pingPeriod"`
	AllowedOrigins       []string      `json:"allowedOrigins" mapstructure:"allowedOrigins"`
}

// HealthConfig contains health check thresholds
type HealthConfig struct {
	MaxMemoryMB   int           `json:"maxMemoryMB" mapstructure:"maxMemoryMB"`
	MaxTickAge    time.Duration `json:"maxTickAge" mapstructure:"maxTickAge"`
	CheckInterval time.Duration `json:"checkInterval" mapstructure:"checkInterval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")

	v.SetDefault("server.address", ":35667")
	v.SetDefault("server.healthPort", 8081)
	v.SetDefault("server.shutdownTimeout", 10*time.Second)

	v.SetDefault("game.tickInterval", 20*time.Millisecond)
	v.SetDefault("game.snapshotInterval", 10*time.Millisecond)
	v.SetDefault("game.maxInflightSnapshots", 3)
	v.SetDefault("game.snapshotTimeout", time.Second)
	v.SetDefault("game.asteroidCount", 50)
	v.SetDefault("game.enemyShips", 2)
	v.SetDefault("game.neutralShips", 2)
	v.SetDefault("game.inboxSize", 256)

	v.SetDefault("network.maxCommandsPerSecond", 60.0)
	v.SetDefault("network.commandBurst", 30)
	v.SetDefault("network.maxFrameSize", 4096)
	v.SetDefault("network.pingPeriod", 15*time.Second)
	v.SetDefault("network.allowedOrigins", []string{"*"})

	v.SetDefault("health.maxMemoryMB", 512)
	v.SetDefault("health.maxTickAge", 2*time.Second)
	v.SetDefault("health.checkInterval", 10*time.Second)
}

// Load reads the configuration from defaults, the optional JSON file at path
// and STARCRUISER_* environment variables, in increasing precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("invalid built-in config: %v", err))
	}
	return cfg
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Address == "" {
		errs = append(errs, errors.New("server.address must not be empty"))
	}
	if c.Game.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("game.tickInterval must be positive, got %v", c.Game.TickInterval))
	}
	if c.Game.SnapshotInterval <= 0 {
		errs = append(errs, fmt.Errorf("game.snapshotInterval must be positive, got %v", c.Game.SnapshotInterval))
	}
	if c.Game.SnapshotTimeout <= 0 {
		errs = append(errs, fmt.Errorf("game.snapshotTimeout must be positive, got %v", c.Game.SnapshotTimeout))
	}
	if c.Game.MaxInflightSnapshots < 1 {
		errs = append(errs, fmt.Errorf("game.maxInflightSnapshots must be at least 1, got %d", c.Game.MaxInflightSnapshots))
	}
	if c.Game.InboxSize < 1 {
		errs = append(errs, fmt.Errorf("game.inboxSize must be at least 1, got %d", c.Game.InboxSize))
	}
	if c.Game.AsteroidCount < 0 || c.Game.EnemyShips < 0 || c.Game.NeutralShips < 0 {
		errs = append(errs, errors.New("game entity counts must not be negative"))
	}
	if c.Network.MaxCommandsPerSecond <= 0 || c.Network.CommandBurst < 1 {
		errs = append(errs, errors.New("network rate limit must be positive"))
	}
	if c.Network.MaxFrameSize < 1 {
		errs = append(errs, fmt.Errorf("network.maxFrameSize must be positive, got %d", c.Network.MaxFrameSize))
	}
	if c.Network.PingPeriod <= 0 {
		errs = append(errs, fmt.Errorf("network.pingPeriod must be positive, got %v", c.Network.PingPeriod))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.shutdownTimeout must be positive, got %v", c.Server.ShutdownTimeout))
	}
	if c.Health.CheckInterval <= 0 {
		errs = append(errs, fmt.Errorf("health.checkInterval must be positive, got %v", c.Health.CheckInterval))
	}
	if c.Health.MaxTickAge <= 0 {
		errs = append(errs, fmt.Errorf("health.maxTickAge must be positive, got %v", c.Health.MaxTickAge))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
