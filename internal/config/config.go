package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Redis      Redis  `yaml:"redis"`
	Game       Game   `yaml:"game"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Game holds the session rules handed to every controller.
type Game struct {
	DurationSeconds      int           `yaml:"duration-seconds" env:"GAME_DURATION_SECONDS" env-default:"60"`
	TargetsToWin         int           `yaml:"targets-to-win" env:"GAME_TARGETS_TO_WIN" env-default:"5"`
	PenaltySeconds       int           `yaml:"penalty-seconds" env:"GAME_PENALTY_SECONDS" env-default:"5"`
	WinBonus             int           `yaml:"win-bonus" env:"GAME_WIN_BONUS" env-default:"1"`
	Tries                int           `yaml:"tries" env:"GAME_TRIES" env-default:"1"`
	TickInterval         time.Duration `yaml:"tick-interval" env:"GAME_TICK_INTERVAL" env-default:"1s"`
	ForfeitOnElimination bool          `yaml:"forfeit-on-elimination" env:"GAME_FORFEIT_ON_ELIMINATION" env-default:"false"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Load - reads the config file, or only the environment when the file does not exist.
func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read env: %w", err)
		}

		return config, nil
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
