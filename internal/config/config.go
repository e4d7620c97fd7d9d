package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

var (
	ErrUnknownStorage = errors.New("unknown storage")
	ErrInvalidGameTTL = errors.New("game-ttl must be positive")
)

type Config struct {
	LogLevel   string        `yaml:"log-level" env:"TICTACTOE_LOG_LEVEL" env-default:"info"`
	HTTPPort   string        `yaml:"http-port" env:"TICTACTOE_HTTP_PORT" env-default:"9090"`
	SocketPort string        `yaml:"socket-port" env:"TICTACTOE_SOCKET_PORT" env-default:"8080"`
	Storage    string        `yaml:"storage" env:"TICTACTOE_STORAGE" env-default:"memory"`
	GameTTL    time.Duration `yaml:"game-ttl" env:"TICTACTOE_GAME_TTL" env-default:"1h"`
	Redis      Redis         `yaml:"redis"`
	Engine     Engine        `yaml:"engine"`
}

type Redis struct {
	Host string `yaml:"host" env:"TICTACTOE_REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"TICTACTOE_REDIS_PORT" env-default:"6379"`
}

type Engine struct {
	ComputerFirst bool   `yaml:"computer-first" env:"TICTACTOE_ENGINE_COMPUTER_FIRST" env-default:"false"`
	Opening       string `yaml:"opening" env:"TICTACTOE_ENGINE_OPENING" env-default:"full"`
}

// Load - reads path, or only the environment when path is empty.
func Load(path string) (*Config, error) {
	config := &Config{}

	if path == "" {
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to read config from environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Locate - the first existing config file: ./config.yml, then $XDG_CONFIG_HOME/tictactoe/config.yml.
// Returns "" when neither exists.
func Locate(baseDir string) string {
	local := filepath.Join(baseDir, "config.yml")
	if _, err := os.Stat(local); err == nil {
		return local
	}

	if path, err := xdg.SearchConfigFile(filepath.Join("tictactoe", "config.yml")); err == nil {
		return path
	}

	return ""
}

func (that *Config) validate() error {
	switch that.Storage {
	case StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorage, that.Storage)
	}

	// games are never kept past a session
	if that.GameTTL <= 0 {
		return fmt.Errorf("%w, got %s", ErrInvalidGameTTL, that.GameTTL)
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
