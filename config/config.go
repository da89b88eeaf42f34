/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"errors"
	"log"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_BASE_URL      = "https://shyam-veneer-backend-1.onrender.com/api/v1"
	DEFAULT_DEV_PORT      = "3001"
	DEFAULT_SESSION_FILE  = ".veneer-session.json"
	DEFAULT_API_TIMEOUT   = 15
	DEFAULT_POLL_INTERVAL = 60
)

var ConfigStore atomic.Value

type APIConfig struct {
	BaseURL    string `json:"base_url" envconfig:"VENEER_API_BASE_URL"`
	TimeoutSec int    `json:"timeout_sec" envconfig:"VENEER_API_TIMEOUT_SEC"`
}

// PollerConfig drives the unread-notification poller. All values are seconds.
type PollerConfig struct {
	InitialDelaySec int `json:"initial_delay_sec" envconfig:"VENEER_POLLER_INITIAL_DELAY_SEC"`
	IntervalSec     int `json:"interval_sec" envconfig:"VENEER_POLLER_INTERVAL_SEC"`
	FetchTimeoutSec int `json:"fetch_timeout_sec" envconfig:"VENEER_POLLER_FETCH_TIMEOUT_SEC"`
	RetryBaseSec    int `json:"retry_base_sec" envconfig:"VENEER_POLLER_RETRY_BASE_SEC"`
	MaxRetries      int `json:"max_retries" envconfig:"VENEER_POLLER_MAX_RETRIES"`
}

type SessionConfig struct {
	File     string `json:"file" envconfig:"VENEER_SESSION_FILE"`
	RedisDns string `json:"redis_dns" envconfig:"VENEER_SESSION_REDIS_DNS"`
	Key      string `json:"key" envconfig:"VENEER_SESSION_KEY"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url" envconfig:"VENEER_SLACK_WEBHOOK_URL"`
}

type Notification struct {
	Slack SlackWebhook `json:"slack"`
}

type TelemetryConfig struct {
	Enabled     bool   `json:"enabled" envconfig:"VENEER_TELEMETRY_ENABLED"`
	Endpoint    string `json:"endpoint" envconfig:"VENEER_TELEMETRY_ENDPOINT"`
	ServiceName string `json:"service_name" envconfig:"VENEER_TELEMETRY_SERVICE_NAME"`
}

// DevServerConfig drives the in-memory backend started by `veneer devserver`.
// Rate limiting is off unless both RateLimitRPS and RateLimitBurst are set.
type DevServerConfig struct {
	Port               string   `json:"port" envconfig:"VENEER_DEV_PORT"`
	JWTSecret          string   `json:"jwt_secret" envconfig:"VENEER_DEV_JWT_SECRET"`
	TokenTTLHours      int      `json:"token_ttl_hours" envconfig:"VENEER_DEV_TOKEN_TTL_HOURS"`
	RateLimitRPS       *float64 `json:"rate_limit_rps" envconfig:"VENEER_DEV_RATE_LIMIT_RPS"`
	RateLimitBurst     *int     `json:"rate_limit_burst" envconfig:"VENEER_DEV_RATE_LIMIT_BURST"`
	CleanupIntervalSec int      `json:"cleanup_interval_sec" envconfig:"VENEER_DEV_CLEANUP_INTERVAL_SEC"`
}

type Configuration struct {
	ProjectName  string          `json:"project_name" envconfig:"VENEER_PROJECT_NAME"`
	LogLevel     string          `json:"log_level" envconfig:"VENEER_LOG_LEVEL"`
	LogFormat    string          `json:"log_format" envconfig:"VENEER_LOG_FORMAT"`
	API          APIConfig       `json:"api"`
	Poller       PollerConfig    `json:"poller"`
	Session      SessionConfig   `json:"session"`
	Notification Notification    `json:"notification"`
	Telemetry    TelemetryConfig `json:"telemetry"`
	DevServer    DevServerConfig `json:"dev_server"`
}

func loadConfigFromFile(file string) error {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		logrus.Debug("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("veneer", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return nil
}

func InitConfig(configFile string) error {
	err := loadConfigFromFile(configFile)
	if err != nil {
		return err
	}
	cnf, err := Fetch()
	if err != nil {
		return err
	}
	logger(cnf)
	return nil
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded. Create a json file called veneer.json or set VENEER_* variables")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		cnf.ProjectName = "Annapurna Veneer"
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.API.BaseURL = strings.TrimRight(strings.TrimSpace(cnf.API.BaseURL), "/")
	cnf.Session.RedisDns = strings.TrimSpace(cnf.Session.RedisDns)

	if cnf.API.BaseURL == "" {
		cnf.API.BaseURL = DEFAULT_BASE_URL
	}
	u, err := url.Parse(cnf.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("api base url must be an absolute http(s) url")
	}

	if cnf.API.TimeoutSec <= 0 {
		cnf.API.TimeoutSec = DEFAULT_API_TIMEOUT
	}

	if cnf.Poller.InitialDelaySec <= 0 {
		cnf.Poller.InitialDelaySec = 1
	}
	if cnf.Poller.IntervalSec <= 0 {
		cnf.Poller.IntervalSec = DEFAULT_POLL_INTERVAL
	}
	if cnf.Poller.FetchTimeoutSec <= 0 {
		cnf.Poller.FetchTimeoutSec = 5
	}
	if cnf.Poller.RetryBaseSec <= 0 {
		cnf.Poller.RetryBaseSec = 2
	}
	if cnf.Poller.MaxRetries < 0 {
		return errors.New("poller max retries cannot be negative")
	}
	if cnf.Poller.MaxRetries == 0 {
		cnf.Poller.MaxRetries = 3
	}

	if cnf.Session.File == "" && cnf.Session.RedisDns == "" {
		cnf.Session.File = DEFAULT_SESSION_FILE
	}
	if cnf.Session.Key == "" {
		cnf.Session.Key = "veneer:session"
	}

	if cnf.Telemetry.ServiceName == "" {
		cnf.Telemetry.ServiceName = "veneer"
	}

	if cnf.DevServer.Port == "" {
		cnf.DevServer.Port = DEFAULT_DEV_PORT
	}
	if cnf.DevServer.JWTSecret == "" {
		cnf.DevServer.JWTSecret = "veneer-dev-secret"
	}
	if cnf.DevServer.TokenTTLHours <= 0 {
		cnf.DevServer.TokenTTLHours = 24
	}
	if cnf.DevServer.CleanupIntervalSec <= 0 {
		cnf.DevServer.CleanupIntervalSec = 600
	}

	return nil
}

func (p PollerConfig) InitialDelay() time.Duration {
	return time.Duration(p.InitialDelaySec) * time.Second
}

func (p PollerConfig) Interval() time.Duration {
	return time.Duration(p.IntervalSec) * time.Second
}

func (p PollerConfig) FetchTimeout() time.Duration {
	return time.Duration(p.FetchTimeoutSec) * time.Second
}

func (p PollerConfig) RetryBase() time.Duration {
	return time.Duration(p.RetryBaseSec) * time.Second
}

func (d DevServerConfig) TokenTTL() time.Duration {
	return time.Duration(d.TokenTTLHours) * time.Hour
}

func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSec) * time.Second
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger(cnf *Configuration) {
	level, err := logrus.ParseLevel(cnf.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if cnf.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	log.SetOutput(logrus.StandardLogger().Writer())
}
