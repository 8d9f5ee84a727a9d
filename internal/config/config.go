package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config adalah konfigurasi global aplikasi.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Business BusinessConfig `mapstructure:"business"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type KafkaConfig struct {
	Brokers []string         `mapstructure:"brokers"`
	Topic   KafkaTopicConfig `mapstructure:"topic"`
}

type KafkaTopicConfig struct {
	InvoiceSync string `mapstructure:"invoice_sync"`
}

type AuthConfig struct {
	JWTSecret           string `mapstructure:"jwt_secret"`
	SessionTimeoutMin   int    `mapstructure:"session_timeout_minutes"`
	LoginMaxAttempts    int    `mapstructure:"login_max_attempts"`
	LoginLockoutMinutes int    `mapstructure:"login_lockout_minutes"`
}

type BusinessConfig struct {
	ActivityLogCap int `mapstructure:"activity_log_cap"`
	SessionLogCap  int `mapstructure:"session_log_cap"`
	MaxRetryCount  int `mapstructure:"max_retry_count"`
}

var GlobalConfig *Config

// LoadConfig membaca konfigurasi YAML dari path yang diberikan.
func LoadConfig(configPath string) *Config {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("gagal membaca file konfigurasi")
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		log.Fatal().Err(err).Msg("gagal parse file konfigurasi")
	}

	GlobalConfig = cfg
	return cfg
}
