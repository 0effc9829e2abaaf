package config

import (
	// Go Internal Packages
	"time"

	// Local Packages
	errors "paybot-console/errors"
)

var DefaultConfig = []byte(`
application: "paybot-console"

logger:
  level: "info"

is_prod_mode: false

api:
  base_url: "http://localhost:3000"
  timeout: 30s
  wallet_timeout: 2m

display:
  timezone: "America/Argentina/Buenos_Aires"

poller:
  enabled: true
  interval: 30s

export:
  dir: "."

session:
  store: "memory"
  key: "paybot-console:session"
  ttl: 24h

redis:
  uri: "localhost:6379"
  password: ""
  db: 0
  dlq_list: "paybot-console:dlq"

mongo:
  enabled: false
  uri: "mongodb://localhost:27017"
  database: "paybot_console"
  timeout: 10s

kafka:
  consume: false
  brokers:
    - "localhost:9092"
  topic: "transaction-events"
  consumer_name: "paybot-console"
  records_per_poll: 100

server:
  addr: ":8090"
`)

type Config struct {
	Application string  `koanf:"application"`
	Logger      Logger  `koanf:"logger"`
	IsProdMode  bool    `koanf:"is_prod_mode"`
	API         API     `koanf:"api"`
	Display     Display `koanf:"display"`
	Poller      Poller  `koanf:"poller"`
	Export      Export  `koanf:"export"`
	Session     Session `koanf:"session"`
	Redis       Redis   `koanf:"redis"`
	Mongo       Mongo   `koanf:"mongo"`
	Kafka       Kafka   `koanf:"kafka"`
	Server      Server  `koanf:"server"`
}

type Logger struct {
	Level string `koanf:"level"`
}

type API struct {
	BaseURL       string        `koanf:"base_url"`
	Timeout       time.Duration `koanf:"timeout"`
	WalletTimeout time.Duration `koanf:"wallet_timeout"`
	// Token seeds the session when no stored credential exists.
	Token string `koanf:"token"`
}

type Display struct {
	Timezone string `koanf:"timezone"`
}

type Poller struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
}

type Export struct {
	Dir string `koanf:"dir"`
}

type Session struct {
	Store string        `koanf:"store"`
	Key   string        `koanf:"key"`
	TTL   time.Duration `koanf:"ttl"`
}

type Redis struct {
	URI      string `koanf:"uri"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	DLQList  string `koanf:"dlq_list"`
}

type Mongo struct {
	Enabled  bool          `koanf:"enabled"`
	URI      string        `koanf:"uri"`
	Database string        `koanf:"database"`
	Timeout  time.Duration `koanf:"timeout"`
}

type Kafka struct {
	Consume        bool     `koanf:"consume"`
	Brokers        []string `koanf:"brokers"`
	Topic          string   `koanf:"topic"`
	ConsumerName   string   `koanf:"consumer_name"`
	RecordsPerPoll int      `koanf:"records_per_poll"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

// Location resolves the display timezone, falling back to the local zone.
func (c *Config) Location() *time.Location {
	if c.Display.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// UsesRedis reports whether any enabled component needs a redis connection.
func (c *Config) UsesRedis() bool {
	return c.Session.Store == "redis" || c.Kafka.Consume
}

// Validate validates the configuration
func (c *Config) Validate() error {
	ve := errors.ValidationErrs()

	if c.Application == "" {
		ve.Add("application", "cannot be empty")
	}
	if c.Logger.Level == "" {
		ve.Add("logger.level", "cannot be empty")
	}
	if c.API.BaseURL == "" {
		ve.Add("api.base_url", "cannot be empty")
	}
	if c.API.Timeout <= 0 {
		ve.Add("api.timeout", "must be positive")
	}
	if c.API.WalletTimeout <= 0 {
		ve.Add("api.wallet_timeout", "must be positive")
	}
	if c.Poller.Interval <= 0 {
		ve.Add("poller.interval", "must be positive")
	}
	switch c.Session.Store {
	case "memory":
	case "redis":
		if c.Session.Key == "" {
			ve.Add("session.key", "cannot be empty")
		}
	default:
		ve.Add("session.store", "must be one of memory, redis")
	}
	if c.UsesRedis() && c.Redis.URI == "" {
		ve.Add("redis.uri", "cannot be empty")
	}
	if c.Mongo.Enabled {
		if c.Mongo.URI == "" {
			ve.Add("mongo.uri", "cannot be empty")
		}
		if c.Mongo.Database == "" {
			ve.Add("mongo.database", "cannot be empty")
		}
	}
	if c.Kafka.Consume {
		if len(c.Kafka.Brokers) == 0 {
			ve.Add("kafka.brokers", "cannot be empty")
		}
		if c.Kafka.Topic == "" {
			ve.Add("kafka.topic", "cannot be empty")
		}
		if c.Kafka.ConsumerName == "" {
			ve.Add("kafka.consumer_name", "cannot be empty")
		}
		if c.Kafka.RecordsPerPoll <= 0 {
			ve.Add("kafka.records_per_poll", "must be positive")
		}
	}

	return ve.Err()
}
