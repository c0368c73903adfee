package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Rules  RulesConfig  `mapstructure:"rules"`
	Ledger LedgerConfig `mapstructure:"ledger"`
	CORS   CORSConfig   `mapstructure:"cors"`
}

type ServerConfig struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

// RulesConfig overrides the part numbers that bypass stock checks
type RulesConfig struct {
	SpecialCode string   `mapstructure:"special_code"`
	ManualCodes []string `mapstructure:"manual_codes"`
}

// LedgerConfig names the inventory spreadsheet columns
type LedgerConfig struct {
	PartNumberColumn    string `mapstructure:"part_number_column"`
	InternalStockColumn string `mapstructure:"internal_stock_column"`
	ExternalStockColumn string `mapstructure:"external_stock_column"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from path, then the STOCKRECON_* environment.
// An empty path loads defaults and environment only.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("STOCKRECON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_body_bytes", 32<<20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", false)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", true)
	v.SetDefault("rules.special_code", "10034")
	v.SetDefault("rules.manual_codes", []string{"10089", "10093", "10098", "10016"})
	v.SetDefault("ledger.part_number_column", "partNumber")
	v.SetDefault("ledger.internal_stock_column", "stopaQuantity")
	v.SetDefault("ledger.external_stock_column", "externalQuantity")
	v.SetDefault("cors.allowed_origins", []string{"*"})

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
