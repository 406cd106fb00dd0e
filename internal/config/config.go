// Package config loads process settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"food-order-service/internal/infra/mysql"

	"gopkg.in/yaml.v3"
)

type Paystack struct {
	SecretKey string        `yaml:"secret_key"`
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
}

type Catalog struct {
	URL         string        `yaml:"url"`
	Timeout     time.Duration `yaml:"timeout"`
	WarmupItems []string      `yaml:"warmup_items"`
}

type Auth struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	MaxAttempts   int           `yaml:"max_attempts"`
	Lockout       time.Duration `yaml:"lockout"`
	StaffAccounts string        `yaml:"staff_accounts"`
}

type RateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type Config struct {
	Port      string       `yaml:"port"`
	Currency  string       `yaml:"currency"`
	MySQL     mysql.Config `yaml:"mysql"`
	RedisHost string       `yaml:"redis_host"`
	RabbitURL string       `yaml:"rabbitmq_url"`
	Paystack  Paystack     `yaml:"paystack"`
	Catalog   Catalog      `yaml:"catalog"`
	Auth      Auth         `yaml:"auth"`
	OrderRate RateLimit    `yaml:"order_rate"`
	LoginRate RateLimit    `yaml:"login_rate"`
}

func Default() Config {
	return Config{
		Port:     "8080",
		Currency: "GHS",
		MySQL:    mysql.Config{Host: "localhost", Port: "3306"},
		Paystack: Paystack{Timeout: 10 * time.Second},
		Catalog:  Catalog{Timeout: 2 * time.Second},
		Auth: Auth{
			TokenTTL:    12 * time.Hour,
			MaxAttempts: 5,
			Lockout:     15 * time.Minute,
		},
		OrderRate: RateLimit{RPS: 2, Burst: 10},
		LoginRate: RateLimit{RPS: 0.2, Burst: 5},
	}
}

// Load reads CONFIG_FILE when set, then applies environment overrides.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	var errs []string
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, key)
				return
			}
			*dst = d
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, key)
				return
			}
			*dst = n
		}
	}
	flt := func(key string, dst *float64) {
		if v, ok := lookup(key); ok && v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, key)
				return
			}
			*dst = f
		}
	}

	str("PORT", &c.Port)
	str("CURRENCY", &c.Currency)
	str("MYSQL_USER", &c.MySQL.User)
	str("MYSQL_PASSWORD", &c.MySQL.Password)
	str("MYSQL_HOST", &c.MySQL.Host)
	str("MYSQL_PORT", &c.MySQL.Port)
	str("MYSQL_DATABASE", &c.MySQL.Database)
	str("REDIS_HOST", &c.RedisHost)
	str("RABBITMQ_URL", &c.RabbitURL)
	str("PAYSTACK_SECRET_KEY", &c.Paystack.SecretKey)
	str("PAYSTACK_BASE_URL", &c.Paystack.BaseURL)
	dur("PAYSTACK_TIMEOUT", &c.Paystack.Timeout)
	str("CATALOG_SERVICE_URL", &c.Catalog.URL)
	if v, ok := lookup("CATALOG_WARMUP_ITEMS"); ok && v != "" {
		c.Catalog.WarmupItems = splitList(v)
	}
	str("JWT_SECRET", &c.Auth.JWTSecret)
	dur("JWT_TTL", &c.Auth.TokenTTL)
	num("LOGIN_MAX_ATTEMPTS", &c.Auth.MaxAttempts)
	dur("LOGIN_LOCKOUT", &c.Auth.Lockout)
	str("STAFF_ACCOUNTS", &c.Auth.StaffAccounts)
	flt("ORDER_RATE_RPS", &c.OrderRate.RPS)
	num("ORDER_RATE_BURST", &c.OrderRate.Burst)
	flt("LOGIN_RATE_RPS", &c.LoginRate.RPS)
	num("LOGIN_RATE_BURST", &c.LoginRate.Burst)

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid value for %s", strings.Join(errs, ", "))
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
