package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/khanghh/kattend/params"
	"github.com/spf13/viper"
)

const (
	DefaultListenAddr = ":3000"
	DefaultTimezone   = "Local"
	DefaultLogLevel   = "info"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	ErrMissingSecret = errors.New("jwt.secret is required")
	ErrShortSecret   = fmt.Errorf("jwt.secret must be at least %d bytes", params.MinSecretLength)
)

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Dsn             string        `mapstructure:"dsn"`
	Replicas        []string      `mapstructure:"replicas"`
	TablePrefix     string        `mapstructure:"tablePrefix"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
	Issuer     string        `mapstructure:"issuer"`
}

type RedisConfig struct {
	URL         string `mapstructure:"url"`
	PoolSize    int    `mapstructure:"poolSize"`
	ClusterMode bool   `mapstructure:"clusterMode"`
}

type RateLimitConfig struct {
	Max    int           `mapstructure:"max"`
	Window time.Duration `mapstructure:"window"`
}

type AttendanceConfig struct {
	LateAfter    string  `mapstructure:"lateAfter"`
	HalfDayHours float64 `mapstructure:"halfDayHours"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"maxSizeMB"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAgeDays"`
	Compress   bool   `mapstructure:"compress"`
}

type Config struct {
	Debug           bool             `mapstructure:"debug"`
	ListenAddr      string           `mapstructure:"listenAddr"`
	HealthCheckAddr string           `mapstructure:"healthCheckAddr"`
	AllowOrigins    []string         `mapstructure:"allowOrigins"`
	Timezone        string           `mapstructure:"timezone"`
	BcryptCost      int              `mapstructure:"bcryptCost"`
	Database        DatabaseConfig   `mapstructure:"database"`
	JWT             JWTConfig        `mapstructure:"jwt"`
	Redis           RedisConfig      `mapstructure:"redis"`
	RateLimit       RateLimitConfig  `mapstructure:"rateLimit"`
	Attendance      AttendanceConfig `mapstructure:"attendance"`
	Log             LogConfig        `mapstructure:"log"`

	location *time.Location
}

// Location returns the time zone used for "today" boundaries.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

func (c *Config) Sanitize() error {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.HealthCheckAddr == "" {
		c.HealthCheckAddr = params.HealthCheckServerAddr
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	c.location = loc

	switch c.Database.Driver {
	case "":
		c.Database.Driver = DriverMySQL
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.JWT.Secret == "" {
		return ErrMissingSecret
	}
	if len(c.JWT.Secret) < params.MinSecretLength {
		return ErrShortSecret
	}
	if c.JWT.Expiration <= 0 {
		c.JWT.Expiration = params.TokenExpiration
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = params.TokenIssuer
	}

	if c.RateLimit.Max < 0 {
		c.RateLimit.Max = 0
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = params.LoginRateLimitWindow
	}
	if c.Attendance.LateAfter == "" {
		c.Attendance.LateAfter = params.AttendanceLateAfter
	}
	if _, err := time.Parse("15:04", c.Attendance.LateAfter); err != nil {
		return fmt.Errorf("invalid attendance.lateAfter %q: %w", c.Attendance.LateAfter, err)
	}
	if c.Attendance.HalfDayHours <= 0 {
		c.Attendance.HalfDayHours = params.AttendanceHalfDayHours
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	return nil
}

func LoadConfig(filename string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("rateLimit.max", params.LoginRateLimitMax)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Sanitize(); err != nil {
		return nil, err
	}
	return &config, nil
}
