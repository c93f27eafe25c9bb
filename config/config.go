package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP      HTTPConfig       `yaml:"http"`
	Database  DatabaseConfig   `yaml:"database"`
	Redis     RedisConfig      `yaml:"redis"`
	Kafka     KafkaConfig      `yaml:"kafka"`
	Booking   BookingConfig    `yaml:"booking"`
	Payment   PaymentConfig    `yaml:"payment"`
	Suppliers []SupplierConfig `yaml:"suppliers"`
	Worker    WorkerConfig     `yaml:"worker"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	AnalyticsTopic     string   `yaml:"analytics_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	Organization          string `yaml:"organization"`
	RateCacheTTLMinutes   int    `yaml:"rate_cache_ttl_minutes"`
	LockRequestTTLSeconds int    `yaml:"lock_request_ttl_seconds"`
	LockResponseTTLSecs   int    `yaml:"lock_response_ttl_seconds"`
	LockWaitSeconds       int    `yaml:"lock_wait_seconds"`
	AnalyticsQueueSize    int    `yaml:"analytics_queue_size"`
}

type PaymentConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// SupplierConfig registers one external supplier gateway. Products
// lists the capabilities it is registered for ("hotel", "activity").
type SupplierConfig struct {
	Name           string   `yaml:"name"`
	BaseURL        string   `yaml:"base_url"`
	APIKey         string   `yaml:"api_key"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
	Products       []string `yaml:"products"`
}

type WorkerConfig struct {
	PendingSweepMinutes int `yaml:"pending_sweep_minutes"`
	PendingMaxAgeMin    int `yaml:"pending_max_age_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
