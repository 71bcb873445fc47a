package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // Location must resolve on hosts without a zoneinfo database

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	Password          string `mapstructure:"password"`
	Port              string `mapstructure:"port"`
	Username          string `mapstructure:"username"`
	DB                string `mapstructure:"db"`
	SSLMODE           string `mapstructure:"SSLMODE"`
	MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
}

type JWTConfig struct {
	SecretKey      string        `mapstructure:"secretKey"`
	Issuer         string        `mapstructure:"issuer"`
	AccessTokenTTL time.Duration `mapstructure:"accessTokenTTL"`
}

type LLMConfig struct {
	Model          string        `mapstructure:"model"`
	APIKey         string        `mapstructure:"apiKey"`
	Temperature    float32       `mapstructure:"temperature"`
	MaxToolRounds  int           `mapstructure:"maxToolRounds"`
	MaxCorrections int           `mapstructure:"maxCorrections"`
	RequestTimeout time.Duration `mapstructure:"requestTimeout"`
}

type SearchConfig struct {
	BaseURL  string        `mapstructure:"baseURL"`
	APIKey   string        `mapstructure:"apiKey"`
	Size     int           `mapstructure:"size"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cacheTTL"`
}

type S3Config struct {
	Enabled      bool   `mapstructure:"enabled"`
	Bucket       string `mapstructure:"bucket"`
	Region       string `mapstructure:"region"`
	Prefix       string `mapstructure:"prefix"`
	Endpoint     string `mapstructure:"endpoint"`
	UsePathStyle bool   `mapstructure:"usePathStyle"`
}

type EventsConfig struct {
	Driver string `mapstructure:"driver"` // none, kafka or sqs
	Kafka  struct {
		Brokers []string `mapstructure:"brokers"`
		Topic   string   `mapstructure:"topic"`
	} `mapstructure:"kafka"`
	SQS struct {
		QueueName string `mapstructure:"queueName"`
	} `mapstructure:"sqs"`
}

type Config struct {
	Mode         string `mapstructure:"mode"`
	Dotenv       string `mapstructure:"dotenv"`
	Repositories struct {
		Driver   string         `mapstructure:"driver"` // postgres or sqlite
		Postgres PostgresConfig `mapstructure:"postgres"`
		SQLite   struct {
			Path string `mapstructure:"path"`
		} `mapstructure:"sqlite"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	JWT     JWTConfig    `mapstructure:"jwt"`
	LLM     LLMConfig    `mapstructure:"llm"`
	Search  SearchConfig `mapstructure:"search"`
	Storage struct {
		S3 S3Config `mapstructure:"s3"`
	} `mapstructure:"storage"`
	Events EventsConfig `mapstructure:"events"`
	Chat   struct {
		RecentLogs int `mapstructure:"recentLogs"`
		MaxHistory int `mapstructure:"maxHistory"`
	} `mapstructure:"chat"`
	History struct {
		FoodLimit  int `mapstructure:"foodLimit"`
		SugarLimit int `mapstructure:"sugarLimit"`
	} `mapstructure:"history"`
	Timezone      string `mapstructure:"timezone"`
	Observability struct {
		ServiceName    string `mapstructure:"serviceName"`
		PrometheusPort string `mapstructure:"prometheusPort"`
	} `mapstructure:"observability"`
}

// Location resolves the configured time zone, falling back to UTC.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// secrets and deployment knobs that are usually injected through the environment
var envBindings = map[string]string{
	"mode":                           "APP_ENV",
	"llm.apiKey":                     "GOOGLE_GEMINI_API_KEY",
	"search.apiKey":                  "KAKAO_API_KEY",
	"jwt.secretKey":                  "JWT_SECRET_KEY",
	"repositories.driver":            "DATABASE_DRIVER",
	"repositories.postgres.host":     "POSTGRES_HOST",
	"repositories.postgres.port":     "POSTGRES_PORT",
	"repositories.postgres.username": "POSTGRES_USER",
	"repositories.postgres.password": "POSTGRES_PASSWORD",
	"repositories.postgres.db":       "POSTGRES_DB",
	"repositories.sqlite.path":       "SQLITE_PATH",
	"storage.s3.enabled":             "S3_ENABLED",
	"storage.s3.bucket":              "S3_BUCKET",
	"storage.s3.endpoint":            "S3_ENDPOINT",
	"events.driver":                  "EVENTS_DRIVER",
	"observability.prometheusPort":   "PROMETHEUS_PORT",
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")
	v.AddConfigPath("/usr/local/bin")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}
