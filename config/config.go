package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Config struct {
	Env            string `env:"ENVIRONMENT"`
	ServerPort     int    `env:"SERVER_PORT" envDefault:"8080"`
	BasicAuthCreds string `env:"BASIC_AUTH_CREDS"`

	APIEnabled    bool          `env:"API_ENABLED" envDefault:"true"`
	PollerEnabled bool          `env:"POLLER_ENABLED" envDefault:"true"`
	PollInterval  time.Duration `env:"POLL_INTERVAL" envDefault:"60s"`
	SweepWorkers  int           `env:"SWEEP_WORKERS" envDefault:"5"`

	FeedBaseURL   string `env:"FEED_BASE_URL" envDefault:"https://data.deadlock-api.com"`
	AssetsBaseURL string `env:"ASSETS_BASE_URL" envDefault:"https://assets.deadlock-api.com"`

	ModelPath string `env:"MODEL_PATH" envDefault:"models/model.txt"`
	DBPath    string `env:"DB_PATH" envDefault:"matchwatch.sqlite"`

	TelegramToken string `env:"TELEGRAM_TOKEN"`
	Mailgun       struct {
		Domain      string `env:"MAILGUN_DOMAIN"`
		APIKey      string `env:"MAILGUN_API_KEY"`
		SenderFrom  string `env:"MAILGUN_SENDER_FROM"`
		TimeoutSecs int    `env:"MAILGUN_TIMEOUT_SECS" envDefault:"10"`
	}

	log   *zap.Logger
	creds map[string]string
}

func NewConfig(lc fx.Lifecycle, log *zap.Logger) *Config {
	godotenv.Load()

	cfg := &Config{log: log}
	env.Parse(cfg)

	creds, err := cfg.parseCreds()
	if err != nil {
		if cfg.Env == "production" {
			cfg.log.Sugar().Panic(err)
		} else {
			cfg.log.Sugar().Infof("%s (auth is disabled outside production)", err)
			creds = nil
		}
	}
	cfg.creds = creds

	return cfg
}

func (cfg *Config) GetCreds() map[string]string {
	return cfg.creds
}

func (cfg *Config) parseCreds() (map[string]string, error) {
	if cfg.BasicAuthCreds == "" {
		return nil, errors.New("BASIC_AUTH_CREDS envvar must be populated")
	}

	creds := strings.Split(cfg.BasicAuthCreds, ",")
	if len(creds) == 0 {
		return nil, errors.New("BASIC_AUTH_CREDS envvar should be filled with comma-separated values -- user1:pass1,user2:pass2")
	}

	result := make(map[string]string)
	for _, cred := range creds {
		userPass := strings.Split(cred, ":")
		if len(userPass) != 2 {
			return nil, fmt.Errorf("failed to parse '%s', each credential should be delimited by a colon -- user1:pass1,user2:pass2", cred)
		}

		user, pass := userPass[0], userPass[1]
		result[strings.Trim(user, " ")] = strings.Trim(pass, " ")
	}

	return result, nil
}
