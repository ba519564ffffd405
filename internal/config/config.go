// config - источник загрузки конфигурации conecta-gateway и CLI conecta.
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. только ENV (cleanenv).
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Адрес бэкенда резюме по умолчанию.
const DefaultBackendURL = "http://34.217.206.3:3000/api"

type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Proxy    ProxyConfig    `yaml:"proxy"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
	Client   ClientConfig   `yaml:"client"`
}

// TimeoutConfig — таймаут обработки входящего запроса и вызова апстрима.
type TimeoutConfig struct {
	Service  time.Duration `yaml:"service"  env:"SERVICE"          env-default:"35s"`
	Upstream time.Duration `yaml:"upstream" env:"UPSTREAM_TIMEOUT" env-default:"30s"`
}

// HTTPConfig — публичный HTTP-сервер шлюза.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"3000"`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// MetricsConfig — экспозиция Prometheus на основном сервере.
type MetricsConfig struct {
	Disabled bool   `yaml:"disabled" env:"METRICS_DISABLED"`
	Path     string `yaml:"path"     env:"METRICS_PATH" env-default:"/metrics"`
}

// UpstreamConfig — REST-бэкенд, в который проксируется /api/*.
type UpstreamConfig struct {
	BaseURL string `yaml:"base_url" env:"BACKEND_URL" env-default:"http://34.217.206.3:3000/api"`
}

// ProxyConfig — вариант развёртывания с CORS-заголовками на ответах прокси.
type ProxyConfig struct {
	CORSEnabled bool   `yaml:"cors_enabled" env:"PROXY_CORS_ENABLED" env-default:"false"`
	AllowOrigin string `yaml:"allow_origin" env:"PROXY_CORS_ORIGIN"  env-default:"*"`
}

// ClientConfig — настройки CLI: куда ходить и где хранить токены.
type ClientConfig struct {
	BaseURL    string           `yaml:"base_url"    env:"CONECTA_API_URL"     env-default:"http://localhost:3000/api"`
	Timeout    time.Duration    `yaml:"timeout"     env:"CONECTA_API_TIMEOUT" env-default:"60s"`
	UserAgent  string           `yaml:"user_agent"  env:"CONECTA_USER_AGENT"  env-default:"conecta-cli"`
	AccessTTL  time.Duration    `yaml:"access_ttl"  env:"ACCESS_TOKEN_TTL"    env-default:"24h"`
	RefreshTTL time.Duration    `yaml:"refresh_ttl" env:"REFRESH_TOKEN_TTL"   env-default:"168h"`
	TokenStore TokenStoreConfig `yaml:"token_store"`
}

// Бэкенды хранилища токенов.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

type TokenStoreConfig struct {
	Backend    string `yaml:"backend"    env:"TOKEN_STORE"            env-default:"file"`
	Path       string `yaml:"path"       env:"TOKEN_STORE_PATH"`
	Passphrase string `yaml:"passphrase" env:"TOKEN_STORE_PASSPHRASE"`
	RedisURL   string `yaml:"redis_url"  env:"TOKEN_STORE_REDIS_URL"  env-default:"redis://localhost:6379/0"`
	Prefix     string `yaml:"prefix"     env:"TOKEN_STORE_PREFIX"     env-default:"conecta:secret:"`
}

// ResolvedPath — путь к файлу хранилища; пустой Path раскрывается
// в каталог пользовательской конфигурации.
func (t TokenStoreConfig) ResolvedPath() (string, error) {
	if t.Path != "" {
		return t.Path, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve token store path: %w", err)
	}

	name := "tokens.json"
	if t.Backend == StoreSQLite {
		name = "tokens.db"
	}

	return filepath.Join(dir, "conecta", name), nil
}

// Validate проверяет согласованность полей, которые cleanenv проверить не может.
func (c *Config) Validate() error {
	switch c.Client.TokenStore.Backend {
	case StoreMemory, StoreFile, StoreSQLite, StoreRedis:
	default:
		return fmt.Errorf("unknown token store backend %q", c.Client.TokenStore.Backend)
	}

	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("empty upstream base url")
	}

	return nil
}

// MustLoad — паника при ошибке загрузки.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return validated(&cfg)
	}

	// 1) --config
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml
	if _, err := os.Stat("local.yaml"); err == nil {
		return tryRead("local.yaml")
	}

	// 4) только ENV
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	return validated(&cfg)
}

func validated(cfg *Config) (*Config, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
