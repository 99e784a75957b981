package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jhoicas/stock-sync/internal/domain"
)

// Drivers del almacén local.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMemory   = "memory"
)

// Modos del cliente del marketplace.
const (
	ModeSimulated = "simulated" // no sale a la red; respuesta de éxito simulada
	ModeLive      = "live"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
// Se construye una sola vez al arrancar y se pasa por referencia a los constructores.
type Config struct {
	App         AppConfig
	DB          DBConfig
	JWT         JWTConfig
	HTTP        HTTPConfig
	Marketplace MarketplaceConfig
	Redis       RedisConfig
	Operators   OperatorsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string // trace, debug, info, warn, error
}

// DBConfig configuración del almacén local.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	Driver      string // postgres | mysql | memory
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido según el driver.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.Driver == DriverMySQL {
		return c.MySQLDSN()
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

// MySQLDSN devuelve el DSN en formato go-sql-driver. clientFoundRows hace que RowsAffected cuente
// filas encontradas: reescribir la misma cantidad sigue contando como una fila.
func (c DBConfig) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&clientFoundRows=true", c.User, c.Password, c.Host, c.Port, c.DBName)
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

// MarketplaceConfig identidad y endpoint de Shopee Open Platform.
type MarketplaceConfig struct {
	Host        string
	PartnerID   string
	PartnerKey  string
	ShopID      string
	AccessToken string // placeholder: el flujo OAuth real queda fuera del alcance
	Mode        string // simulated | live
	Timeout     time.Duration
}

// Validate exige la identidad completa; nunca se rellena con valores por defecto.
func (c MarketplaceConfig) Validate() error {
	missing := make([]string, 0, 4)
	if strings.TrimSpace(c.PartnerID) == "" {
		missing = append(missing, "SHOPEE_PARTNER_ID")
	}
	if strings.TrimSpace(c.PartnerKey) == "" {
		missing = append(missing, "SHOPEE_PARTNER_KEY")
	}
	if strings.TrimSpace(c.ShopID) == "" {
		missing = append(missing, "SHOPEE_SHOP_ID")
	}
	if c.Mode == ModeLive && strings.TrimSpace(c.Host) == "" {
		missing = append(missing, "SHOPEE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: faltan %s", domain.ErrConfiguration, strings.Join(missing, ", "))
	}
	if c.Mode != ModeLive && c.Mode != ModeSimulated {
		return fmt.Errorf("%w: SHOPEE_MODE desconocido %q (usar simulated|live)", domain.ErrConfiguration, c.Mode)
	}
	return nil
}

// RedisConfig guardia distribuida de sincronizaciones en curso. Addr vacío = guardia en memoria.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// OperatorsConfig cuentas iniciales de la consola (superusuario y usuario limitado).
type OperatorsConfig struct {
	SuperuserUsername string
	SuperuserPassword string
	LimitedUsername   string
	LimitedPassword   string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, SHOPEE_PARTNER_ID, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo .env
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// También intenta config.env
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	limitedUser := getString(v, "DEFAULT_LIMITED_USERNAME", getString(v, "VALID_USERNAME", ""))
	limitedPass := getString(v, "DEFAULT_LIMITED_PASSWORD", getString(v, "VALID_PASSWORD", ""))

	return &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "stock-sync"),
			LogLevel: strings.ToLower(getString(v, "LOG_LEVEL", "info")),
		},
		DB: DBConfig{
			Driver:      strings.ToLower(getString(v, "DB_DRIVER", DriverPostgres)),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "erp_system"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "stock-sync"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Marketplace: MarketplaceConfig{
			Host:        strings.TrimRight(getString(v, "SHOPEE_URL", ""), "/"),
			PartnerID:   getString(v, "SHOPEE_PARTNER_ID", ""),
			PartnerKey:  getString(v, "SHOPEE_PARTNER_KEY", ""),
			ShopID:      getString(v, "SHOPEE_SHOP_ID", ""),
			AccessToken: getString(v, "SHOPEE_ACCESS_TOKEN", "seu_access_token_aqui"),
			Mode:        strings.ToLower(getString(v, "SHOPEE_MODE", ModeSimulated)),
			Timeout:     time.Duration(getInt(v, "SHOPEE_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Operators: OperatorsConfig{
			SuperuserUsername: getString(v, "SUPERUSER_USERNAME", ""),
			SuperuserPassword: getString(v, "SUPERUSER_PASSWORD", ""),
			LimitedUsername:   limitedUser,
			LimitedPassword:   limitedPass,
		},
	}
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
