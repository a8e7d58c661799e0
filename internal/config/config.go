package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env        string `yaml:"env" env:"TRACKER_ENV" env-default:"prod"`
	HTTPServer `yaml:"http_server"`
	DB         `yaml:"db"`

	LogFile        string        `yaml:"log_file" env:"TRACKER_LOG_FILE" env-default:"errors.log"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"TRACKER_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
	StreamBuffer   int           `yaml:"stream_buffer" env-default:"16"`
	StartupTimeout time.Duration `yaml:"startup_timeout" env-default:"30s"`
	SessionTTL     time.Duration `yaml:"session_ttl" env:"TRACKER_SESSION_TTL" env-default:"720h"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"TRACKER_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type DB struct {
	User      string `yaml:"user" env:"TRACKER_DB_USER" env-required:"true"`
	Password  string `yaml:"password" env:"TRACKER_DB_PASSWORD"`
	Host      string `yaml:"host" env:"TRACKER_DB_HOST" env-default:"localhost"`
	Port      int    `yaml:"port" env:"TRACKER_DB_PORT" env-default:"3306"`
	Name      string `yaml:"name" env:"TRACKER_DB_NAME" env-required:"true"`
	ParseTime bool   `yaml:"parse_time" env-default:"true"`
}

// MustConfig reads CONFIG_PATH (or ./config/local.yaml) and environment
// overrides. It stops the process on any error.
func MustConfig() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
