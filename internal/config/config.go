package config

import (
	"log"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Port         string `mapstructure:"PORT"`
	DBDSN        string `mapstructure:"DB_DSN"`
	LogFile      string `mapstructure:"LOG_FILE"`
	TaxRate      string `mapstructure:"TAX_RATE"`
	RateLimitMax int    `mapstructure:"RATE_LIMIT_MAX"`
	SeedDemo     bool   `mapstructure:"SEED_DEMO"`
}

// Load reads defaults, then an optional file named by CONFIG_FILE, then the
// environment. Environment wins.
func Load() Config {
	v := viper.New()
	v.SetDefault("PORT", "8081")
	v.SetDefault("DB_DSN", "counterpos.db") // sqlite file in project root
	v.SetDefault("LOG_FILE", "./counterpos.log")
	v.SetDefault("TAX_RATE", "0")
	v.SetDefault("RATE_LIMIT_MAX", 60)
	v.SetDefault("SEED_DEMO", true)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			log.Printf("[config] could not read %s: %v", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("[config] unmarshal: %v", err)
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s TAX_RATE=%s RATE_LIMIT_MAX=%d SEED_DEMO=%t",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.TaxRate, cfg.RateLimitMax, cfg.SeedDemo)
	return cfg
}

// Tax parses TaxRate. Anything unparsable or negative means no tax.
func (c Config) Tax() decimal.Decimal {
	rate, err := decimal.NewFromString(strings.TrimSpace(c.TaxRate))
	if err != nil || rate.IsNegative() {
		return decimal.Zero
	}
	return rate
}
