package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Redis    Redis  `yaml:"redis"`
	Game     Game   `yaml:"game"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Game holds the defaults used when a client starts a game without a body,
// and the host-side timings.
type Game struct {
	BoardSize       int           `yaml:"board-size" env:"GAME_BOARD_SIZE" env-default:"3"`
	NumPlayers      int           `yaml:"num-players" env:"GAME_NUM_PLAYERS" env-default:"2"`
	OpponentEnabled bool          `yaml:"opponent-enabled" env:"GAME_OPPONENT_ENABLED"`
	OpponentDelay   time.Duration `yaml:"opponent-delay" env:"GAME_OPPONENT_DELAY" env-default:"500ms"`
	SnapshotTTL     time.Duration `yaml:"snapshot-ttl" env:"GAME_SNAPSHOT_TTL" env-default:"24h"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// LoadEnv reads configuration from the environment only, for hosts that ship without a config file.
func LoadEnv() (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("unable to read env config: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
