package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	SePay     SePayConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Storage   StorageConfig
	Metrics   MetricsConfig
	SMTP      SMTPConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
	// ResetPasswordURL base del enlace de recuperación; el token se agrega como último segmento.
	ResetPasswordURL string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SePayConfig pasarela de pagos por transferencia bancaria (webhook SePay).
type SePayConfig struct {
	APIKey         string // secreto compartido del header "Authorization: Apikey <token>"
	TransferPrefix string // primer token del contenido de la transferencia
	BankAccount    string
	BankName       string
}

// RedisConfig conexión a Redis para rate limiting. Addr vacío = limitador en memoria.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig peticiones por minuto y por IP.
type RateLimitConfig struct {
	LoginPerMinute   int
	WebhookPerMinute int
}

// StorageConfig almacenamiento de archivos subidos (logos, licencias).
type StorageConfig struct {
	Dir       string
	PublicURL string
}

// SMTPConfig servidor de correo saliente. Host vacío = los emails van al log.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// MetricsConfig exportación Prometheus.
type MetricsConfig struct {
	Namespace string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, SEPAY_API_KEY, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "jobboard-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),

			ResetPasswordURL: getString(v, "FRONT_END_URL", "http://localhost:3000/reset-password"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "jobboard"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
			MinConns:    getInt(v, "DB_MIN_CONNS", 2),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "jobboard-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8000),
		},
		SePay: SePayConfig{
			APIKey:         getString(v, "SEPAY_API_KEY", ""),
			TransferPrefix: getString(v, "SEPAY_TRANSFER_PREFIX", "VIECLAM"),
			BankAccount:    getString(v, "SEPAY_BANK_ACCOUNT", ""),
			BankName:       getString(v, "SEPAY_BANK_NAME", ""),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			LoginPerMinute:   getInt(v, "RATE_LIMIT_LOGIN_PER_MIN", 10),
			WebhookPerMinute: getInt(v, "RATE_LIMIT_WEBHOOK_PER_MIN", 120),
		},
		Storage: StorageConfig{
			Dir:       getString(v, "STORAGE_DIR", "./uploads"),
			PublicURL: getString(v, "STORAGE_PUBLIC_URL", "/uploads"),
		},
		Metrics: MetricsConfig{
			Namespace: getString(v, "METRICS_NAMESPACE", "jobboard"),
		},
		SMTP: SMTPConfig{
			Host:     getString(v, "SMTP_HOST", ""),
			Port:     getInt(v, "SMTP_PORT", 587),
			Username: getString(v, "SMTP_USERNAME", ""),
			Password: getString(v, "SMTP_PASSWORD", ""),
			From:     getString(v, "SMTP_FROM", "no-reply@jobboard.local"),
		},
	}

	if cfg.SePay.APIKey == "" {
		return nil, fmt.Errorf("config: SEPAY_API_KEY es obligatorio")
	}
	if strings.ContainsAny(cfg.SePay.TransferPrefix, " \t\n") {
		return nil, fmt.Errorf("config: SEPAY_TRANSFER_PREFIX no puede contener espacios")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
