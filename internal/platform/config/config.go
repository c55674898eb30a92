package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	// MinBcryptCost es el piso que aceptamos aunque venga otro valor por env.
	MinBcryptCost = 10
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Port string

	DB DBConfig

	JWTSecret string
	JWTTTL    time.Duration

	BcryptCost int

	LogLevel  string
	LogFormat string
	AppName   string
}

type DBConfig struct {
	Driver      string
	DSN         string
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

// Los defaults son solo para desarrollo local; en producción todo debe venir por env.
func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "3000")

	v.SetDefault("db_driver", DriverPostgres)
	v.SetDefault("db_dsn", "")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_username", "postgres")
	v.SetDefault("db_password", "admin")
	v.SetDefault("db_database", "petshop_db")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_auto_migrate", true)

	// Sin default para JWT_SECRET: su ausencia se reporta como error de configuración.
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_ttl", time.Hour)
	v.SetDefault("bcrypt_cost", MinBcryptCost)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("app_name", "pet-shop-api")
}

// New arma un viper leyendo variables de entorno (DB_HOST, JWT_SECRET, ...).
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Load lee la configuración desde env (vía viper) y la valida.
func Load() (Config, error) {
	return FromViper(New())
}

func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port: strings.TrimSpace(v.GetString("port")),
		DB: DBConfig{
			Driver:      strings.ToLower(strings.TrimSpace(v.GetString("db_driver"))),
			DSN:         strings.TrimSpace(v.GetString("db_dsn")),
			Host:        strings.TrimSpace(v.GetString("db_host")),
			Port:        v.GetInt("db_port"),
			User:        v.GetString("db_username"),
			Password:    v.GetString("db_password"),
			Name:        strings.TrimSpace(v.GetString("db_database")),
			SSLMode:     strings.TrimSpace(v.GetString("db_sslmode")),
			AutoMigrate: v.GetBool("db_auto_migrate"),
		},
		JWTSecret:  v.GetString("jwt_secret"),
		JWTTTL:     v.GetDuration("jwt_ttl"),
		BcryptCost: v.GetInt("bcrypt_cost"),
		LogLevel:   v.GetString("log_level"),
		LogFormat:  v.GetString("log_format"),
		AppName:    v.GetString("app_name"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("%w: PORT is empty", ErrInvalidConfig)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("%w: PORT must be numeric", ErrInvalidConfig)
	}

	switch c.DB.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("%w: unknown DB_DRIVER %q", ErrInvalidConfig, c.DB.Driver)
	}

	if c.JWTTTL <= 0 {
		return fmt.Errorf("%w: JWT_TTL must be positive", ErrInvalidConfig)
	}
	if c.BcryptCost < MinBcryptCost {
		c.BcryptCost = MinBcryptCost
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + c.Port
}

// HasSigningSecret indica si las rutas protegidas pueden operar.
func (c Config) HasSigningSecret() bool {
	return strings.TrimSpace(c.JWTSecret) != ""
}

// PostgresDSN devuelve DB_DSN si viene, o arma una URL postgres:// con las partes.
func (c DBConfig) PostgresDSN() string {
	if c.DSN != "" {
		return c.DSN
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Name,
	}
	q := url.Values{}
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
