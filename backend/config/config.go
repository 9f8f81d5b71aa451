package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Server ServerConfig `koanf:"server"`
	DB     DBConfig     `koanf:"db"`
	JWT    JWTConfig    `koanf:"jwt"`
	Log    LogConfig    `koanf:"log"`
	CORS   CORSConfig   `koanf:"cors"`
	Auth   AuthConfig   `koanf:"auth"`
}

type ServerConfig struct {
	Port            string        `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DBConfig struct {
	Driver       string `koanf:"driver"` // postgres, sqlite
	Host         string `koanf:"host"`
	Port         string `koanf:"port"`
	User         string `koanf:"user"`
	Password     string `koanf:"password"`
	Name         string `koanf:"name"`
	SSLMode      string `koanf:"sslmode"`
	Path         string `koanf:"path"` // sqlite file or DSN
	LogLevel     string `koanf:"log_level"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
}

type JWTConfig struct {
	Secret    string        `koanf:"secret"`
	ExpiresIn time.Duration `koanf:"expires_in"`
}

type LogConfig struct {
	Mode string `koanf:"mode"` // development, production
}

type CORSConfig struct {
	AllowOrigins string `koanf:"allow_origins"`
}

type AuthConfig struct {
	BcryptCost int `koanf:"bcrypt_cost"`
}

// envSections are the env var prefixes that map onto config sections.
var envSections = []string{"server_", "db_", "jwt_", "log_", "cors_", "auth_"}

func defaults() Config {
	return Config{
		Server: ServerConfig{Port: "8080", ShutdownTimeout: 10 * time.Second},
		DB: DBConfig{
			Driver:       "postgres",
			Host:         "localhost",
			Port:         "5432",
			User:         "postgres",
			Password:     "postgres",
			Name:         "learning_platform",
			SSLMode:      "disable",
			Path:         "edulearn.db",
			LogLevel:     "warn",
			MaxOpenConns: 100,
			MaxIdleConns: 10,
		},
		JWT:  JWTConfig{Secret: "secret", ExpiresIn: time.Hour},
		Log:  LogConfig{Mode: "development"},
		CORS: CORSConfig{AllowOrigins: "*"},
		Auth: AuthConfig{BcryptCost: 10},
	}
}

// LoadConfig reads .env, then an optional YAML file, then the environment.
// Later sources override earlier ones.
func LoadConfig(path ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	k := koanf.New(".")

	configPath := os.Getenv("CONFIG_FILE")
	if len(path) > 0 && path[0] != "" {
		configPath = path[0]
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps DB_MAX_OPEN_CONNS to db.max_open_conns. Unrelated variables are dropped.
func envKey(s string) string {
	key := strings.ToLower(s)
	for _, prefix := range envSections {
		if strings.HasPrefix(key, prefix) {
			return strings.Replace(key, "_", ".", 1)
		}
	}
	return ""
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret must not be empty")
	}
	if c.JWT.ExpiresIn <= 0 {
		return fmt.Errorf("jwt expires_in must be positive, got %s", c.JWT.ExpiresIn)
	}
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported db driver %q", c.DB.Driver)
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost %d out of range [%d, %d]", c.Auth.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}
