// Package config loads coursedash settings from defaults, an optional config
// file, COURSEDASH_ environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "COURSEDASH"

// Dataset sources.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceMongo    = "mongo"
	SourceSQLite   = "sqlite"
)

// Config holds application configuration.
type Config struct {
	Env       string          `mapstructure:"env" validate:"oneof=development production"`
	Log       LogConfig       `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn warning error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	// TrustProxy takes client addresses from X-Forwarded-For / X-Real-IP.
	TrustProxy bool `mapstructure:"trust_proxy"`
}

// Addr is the listen address for Port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// DatasetConfig selects where courses are read from.
type DatasetConfig struct {
	Source      string        `mapstructure:"source" validate:"oneof=embedded file mongo sqlite"`
	Path        string        `mapstructure:"path" validate:"required_if=Source file,required_if=Source sqlite"`
	LoadTimeout time.Duration `mapstructure:"load_timeout" validate:"gt=0"`
}

// MongoConfig holds the MongoDB source settings.
type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database" validate:"required"`
	Collection string `mapstructure:"collection" validate:"required"`
}

// DashboardConfig holds header defaults used when the dataset has none.
type DashboardConfig struct {
	Title  string `mapstructure:"title"`
	Author string `mapstructure:"author"`
}

// RateLimitConfig bounds requests to /api and /mcp. RPS 0 disables the limiter.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps" validate:"gte=0"`
	Burst int     `mapstructure:"burst" validate:"gte=1"`
}

// CORSConfig holds the origins allowed to call /api.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"env":          "env",
	"log-level":    "log.level",
	"log-format":   "log.format",
	"port":         "server.port",
	"source":       "dataset.source",
	"dataset":      "dataset.path",
	"mongo-uri":    "mongo.uri",
	"title":        "dashboard.title",
	"load-timeout": "dataset.load_timeout",
	"trust-proxy":  "server.trust_proxy",
}

// Flags registers the command-line overrides on fs.
func Flags(fs *pflag.FlagSet) {
	fs.String("env", "", "Environment (development, production)")
	fs.String("log-level", "", "Log level (debug, info, warn, error)")
	fs.String("log-format", "", "Log format (text, json)")
	fs.Int("port", 0, "HTTP port (default 7521)")
	fs.Bool("trust-proxy", false, "Take client addresses from X-Forwarded-For (only behind a trusted proxy)")
	fs.String("source", "", "Dataset source (embedded, file, mongo, sqlite)")
	fs.String("dataset", "", "Dataset file or SQLite database path")
	fs.String("mongo-uri", "", "MongoDB connection string")
	fs.String("title", "", "Dashboard title")
	fs.Duration("load-timeout", 0, "Dataset load timeout")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("server.port", 7521)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.trust_proxy", false)
	v.SetDefault("dataset.source", SourceEmbedded)
	v.SetDefault("dataset.path", "")
	v.SetDefault("dataset.load_timeout", 10*time.Second)
	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "coursedash")
	v.SetDefault("mongo.collection", "courses")
	v.SetDefault("dashboard.title", "Mis Cursos")
	v.SetDefault("dashboard.author", "")
	v.SetDefault("ratelimit.rps", 20.0)
	v.SetDefault("ratelimit.burst", 40)
	v.SetDefault("cors.allowed_origins", []string{"*"})
}

// Load reads configuration with precedence flags > env > config file > defaults.
// configFile may be empty; COURSEDASH_CONFIG is consulted then. flags may be nil.
// Only flags the user actually set override other sources.
func Load(configFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		configFile = os.Getenv(envPrefix + "_CONFIG")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and cross-section requirements.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Dataset.Source == SourceMongo && c.Mongo.URI == "" {
		return fmt.Errorf("%w: mongo.uri is required when dataset.source is mongo", ErrInvalid)
	}
	return nil
}
