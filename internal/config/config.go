package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"solar_sizer/internal/model"
	"solar_sizer/internal/report"
	"solar_sizer/internal/sizing"
	"solar_sizer/internal/store"
)

// EnvPrefix namespaces environment overrides, e.g. SOLAR_STORE_BACKEND.
const EnvPrefix = "SOLAR"

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// ErrInvalid is returned for settings that cannot start the server.
var ErrInvalid = errors.New("invalid settings")

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type StoreConfig struct {
	Backend    string            `mapstructure:"backend"`
	SessionTTL time.Duration     `mapstructure:"session_ttl"`
	Redis      store.RedisConfig `mapstructure:"redis"`
}

type ReportConfig struct {
	Title  string `mapstructure:"title"`
	Footer string `mapstructure:"footer"`
}

// Config is the server configuration.
type Config struct {
	Addr     string             `mapstructure:"addr"`
	Log      LogConfig          `mapstructure:"log"`
	Store    StoreConfig        `mapstructure:"store"`
	Report   ReportConfig       `mapstructure:"report"`
	Defaults model.SystemConfig `mapstructure:"defaults"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.session_ttl", 24*time.Hour)
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("report.title", report.DefaultTitle)
	v.SetDefault("report.footer", "")

	d := model.DefaultSystemConfig()
	v.SetDefault("defaults.system_voltage_v", d.SystemVoltageV)
	v.SetDefault("defaults.peak_sun_hours", d.PeakSunHours)
	v.SetDefault("defaults.autonomy_days", d.AutonomyDays)
	v.SetDefault("defaults.usable_dod", d.UsableDoD)
	v.SetDefault("defaults.eta_inverter", d.EtaInverter)
	v.SetDefault("defaults.eta_battery_roundtrip", d.EtaBatteryRoundtrip)
	v.SetDefault("defaults.eta_pv_derate", d.EtaPVDerate)
	v.SetDefault("defaults.safety_margin", d.SafetyMargin)
	v.SetDefault("defaults.preferred_battery_ah", d.PreferredBatteryAh)
	v.SetDefault("defaults.preferred_panel_w", d.PreferredPanelW)
	v.SetDefault("defaults.battery_chemistry", string(d.Chemistry))
}

// Load reads settings from defaults, an optional YAML/JSON/TOML file and
// SOLAR_* environment variables, in increasing priority. An empty path
// skips the file.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the backend choice and the default system configuration.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("%w: unknown store backend %q", ErrInvalid, c.Store.Backend)
	}
	if c.Store.SessionTTL < 0 {
		return fmt.Errorf("%w: negative session ttl", ErrInvalid)
	}
	if err := sizing.ValidateConfig(c.Defaults); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	return nil
}
