package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST"`
	DBPort      int    `env:"DB_PORT" envDefault:"5432"`
	DBUser      string `env:"DB_USER"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_DATABASE"`
	DBSSL       bool   `env:"DB_SSL" envDefault:"false"`
	JWTSecret   string `env:"JWT_SECRET,required,notEmpty"`
	JWTTTLMin   int    `env:"JWT_EXPIRE_MINUTES" envDefault:"60"`
	BcryptCost  int    `env:"BCRYPT_ROUNDS,required,notEmpty"`
}

// LoadConfig carga la configuración desde variables de entorno y valida
// que los parámetros de conexión estén completos.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	if cfg.DatabaseURL == "" {
		required := []struct {
			name  string
			value string
		}{
			{"DB_HOST", cfg.DBHost},
			{"DB_USER", cfg.DBUser},
			{"DB_PASSWORD", cfg.DBPassword},
			{"DB_DATABASE", cfg.DBName},
		}
		var missing []string
		for _, v := range required {
			if v.value == "" {
				missing = append(missing, v.name)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("missing required database environment variables: %s", strings.Join(missing, ", "))
		}
	}

	if cfg.JWTTTLMin <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRE_MINUTES must be positive, got %d", cfg.JWTTTLMin)
	}

	return &cfg, nil
}

// DSN devuelve la cadena de conexión a Postgres. DATABASE_URL tiene
// prioridad sobre los parámetros individuales.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	sslMode := "disable"
	if c.DBSSL {
		sslMode = "require"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + strconv.Itoa(c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + sslMode,
	}
	return u.String()
}
