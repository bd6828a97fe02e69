package config

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// DefaultTaxaJuros is the interest rate (% a.m.) applied when neither the
// environment nor the request supplies one.
const DefaultTaxaJuros = "2.5"

// defaultAllowedOrigins are the legacy local client origins (Vue dev server
// and local Swagger).
var defaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
	"http://localhost:8000",
	"http://127.0.0.1:8000",
}

// Config holds application configuration (env + Viper).
type Config struct {
	Env             string
	Port            string
	DatabaseURL     string
	RedisURL        string
	AllowedOrigins  []string
	HealthAdminKey  string
	TaxaJurosPadrao decimal.Decimal
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = viper.GetString("DATABASE_URL")
	}

	taxaStr := viper.GetString("TAXA_JUROS_PADRAO")
	if taxaStr == "" {
		taxaStr = DefaultTaxaJuros
	}
	taxa, err := decimal.NewFromString(taxaStr)
	if err != nil || taxa.IsNegative() {
		taxa = decimal.RequireFromString(DefaultTaxaJuros)
	}

	origins := defaultAllowedOrigins
	if raw := viper.GetString("ALLOWED_ORIGINS"); raw != "" {
		origins = nil
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return &Config{
		Env:             env,
		Port:            port,
		DatabaseURL:     dbURL,
		RedisURL:        viper.GetString("REDIS_URL"),
		AllowedOrigins:  origins,
		HealthAdminKey:  viper.GetString("HEALTH_ADMIN_KEY"),
		TaxaJurosPadrao: taxa,
	}, nil
}
