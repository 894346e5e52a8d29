package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Environment variables overriding values from the config file.
const (
	envBaseURL          = "SHORTLINK_BASE_URL"
	envHTTPPort         = "SHORTLINK_HTTP_PORT"
	envPostgresPassword = "SHORTLINK_POSTGRES_PASSWORD"
	envRedisPassword    = "SHORTLINK_REDIS_PASSWORD"
)

type Config struct {
	Env        string        `yaml:"env" validate:"oneof=dev stage prod"`
	BaseURL    string        `yaml:"base_url" validate:"required,http_url"`
	ShortCode  ShortCode     `yaml:"short_code"`
	HitTimeout time.Duration `yaml:"hit_timeout" validate:"gt=0"`
	HTTPServer HTTPServer    `yaml:"http_server"`
	Postgres   Postgres      `yaml:"postgres"`
	Redis      Redis         `yaml:"redis"`
}

type ShortCode struct {
	Length      int `yaml:"length" validate:"gt=0,lte=32"`
	MaxAttempts int `yaml:"max_attempts" validate:"gt=0"`
}

var defaultShortCode = ShortCode{
	Length:      7,
	MaxAttempts: 5,
}

type HTTPServer struct {
	Port           int           `yaml:"port" validate:"gt=0,lte=65535"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
	CertFile       string        `yaml:"cert_file"`
	KeyFile        string        `yaml:"key_file"`
}

var defaultHTTPServer = HTTPServer{
	Port:           8080,
	ReadTimeout:    5 * time.Second,
	WriteTimeout:   10 * time.Second,
	IdleTimeout:    time.Minute,
	MaxHeaderBytes: 1 << 20,
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type Postgres struct {
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	DB              string        `yaml:"db"`
	SSLMode         string        `yaml:"sslmode"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns" validate:"gt=0"`
	QueryTimeout    time.Duration `yaml:"query_timeout"`
}

var defaultPostgres = Postgres{
	Host:            "localhost",
	Port:            5432,
	SSLMode:         "disable",
	ConnMaxIdleTime: 5 * time.Minute,
	ConnMaxLifetime: 30 * time.Minute,
	MaxIdleConns:    5,
	MaxOpenConns:    10,
	QueryTimeout:    3 * time.Second,
}

// DSN returns the connection URL with user and password escaped.
func (p *Postgres) DSN() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:     "/" + p.DB,
		RawQuery: url.Values{"sslmode": {p.SSLMode}}.Encode(),
	}

	return dsn.String()
}

// Redis configures the redirect cache. An empty Addr disables it.
type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

var defaultRedis = Redis{
	TTL: time.Hour,
}

func (r *Redis) Enabled() bool {
	return r.Addr != ""
}

// Load reads the YAML config file at path on top of the defaults, then applies
// overrides from the environment. A .env file in the working directory, if
// present, is loaded into the environment first.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: failed to load .env file: %w", op, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open config file: %w", op, err)
	}
	defer f.Close()

	var cfg Config
	setDefaults(&cfg)

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to apply environment: %w", op, err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%s: invalid config: %w", op, err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.BaseURL = "http://localhost:8080"
	cfg.ShortCode = defaultShortCode
	cfg.HitTimeout = 5 * time.Second
	cfg.HTTPServer = defaultHTTPServer
	cfg.Postgres = defaultPostgres
	cfg.Redis = defaultRedis
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(envBaseURL); ok {
		cfg.BaseURL = v
	}

	if v, ok := os.LookupEnv(envHTTPPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envHTTPPort, err)
		}
		cfg.HTTPServer.Port = port
	}

	if v, ok := os.LookupEnv(envPostgresPassword); ok {
		cfg.Postgres.Password = v
	}

	if v, ok := os.LookupEnv(envRedisPassword); ok {
		cfg.Redis.Password = v
	}

	return nil
}
