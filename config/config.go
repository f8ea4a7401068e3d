package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the service configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	ServiceBus ServiceBusConfig
	Elastic    ElasticConfig
	NewRelic   NewRelicConfig
	Worker     WorkerConfig
}

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	Port int
	Mode string // debug, release, test
}

// DatabaseConfig holds the database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	Debug    bool
	MaxConn  int
	MaxIdle  int
	MaxLife  time.Duration
}

// RedisConfig holds the Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

// ServiceBusConfig holds the Azure Service Bus configuration
type ServiceBusConfig struct {
	ConnectionString string
	Prefix           string
	UpdateQueue      string
	BridgeQueue      string
}

// ElasticConfig holds the Elasticsearch configuration
type ElasticConfig struct {
	Enabled  bool
	URL      string
	Username string
	Password string
	Index    string
}

// NewRelicConfig holds the New Relic configuration
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// WorkerConfig holds the background worker configuration
type WorkerConfig struct {
	ReconcileInterval time.Duration
	ReceiveBatchSize  int
}

// InitConfig initializes the configuration using Viper
func InitConfig(cfgFile string) error {
	setDefaults()

	// Use config file from the flag if provided
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/cobra")
		viper.SetConfigName("config")
	}

	// COBRA_SERVER_PORT overrides server.port and so on
	viper.SetEnvPrefix("COBRA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("No config file found, using defaults and environment variables")
		} else {
			return fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	return nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8095)
	viper.SetDefault("server.mode", "debug")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "cobra")
	viper.SetDefault("database.password", "cobra")
	viper.SetDefault("database.name", "cobra_db")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.debug", false)
	viper.SetDefault("database.maxconn", 50)
	viper.SetDefault("database.maxidle", 10)
	viper.SetDefault("database.maxlife", 30*time.Minute)

	// Redis defaults
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttl", time.Minute)

	// Service Bus defaults - no default connection string for security
	viper.SetDefault("servicebus.updatequeue", "checklist-updates")
	viper.SetDefault("servicebus.bridgequeue", "bridge-inbound")

	// Elasticsearch defaults
	viper.SetDefault("elastic.enabled", false)
	viper.SetDefault("elastic.url", "http://localhost:9200")
	viper.SetDefault("elastic.index", "cobra-messages")

	// New Relic defaults
	viper.SetDefault("newrelic.appname", "COBRA Service Local")
	viper.SetDefault("newrelic.enabled", false)

	// Worker defaults
	viper.SetDefault("worker.reconcileinterval", 10*time.Minute)
	viper.SetDefault("worker.receivebatchsize", 10)
}

// Load loads the configuration
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port: viper.GetInt("server.port"),
			Mode: viper.GetString("server.mode"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("database.host"),
			Port:     viper.GetInt("database.port"),
			User:     viper.GetString("database.user"),
			Password: viper.GetString("database.password"),
			Name:     viper.GetString("database.name"),
			SSLMode:  viper.GetString("database.sslmode"),
			Debug:    viper.GetBool("database.debug"),
			MaxConn:  viper.GetInt("database.maxconn"),
			MaxIdle:  viper.GetInt("database.maxidle"),
			MaxLife:  viper.GetDuration("database.maxlife"),
		},
		Redis: RedisConfig{
			Enabled:  viper.GetBool("redis.enabled"),
			Host:     viper.GetString("redis.host"),
			Port:     viper.GetInt("redis.port"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
			TTL:      viper.GetDuration("redis.ttl"),
		},
		ServiceBus: ServiceBusConfig{
			ConnectionString: viper.GetString("servicebus.connectionstring"),
			Prefix:           viper.GetString("servicebus.prefix"),
			UpdateQueue:      viper.GetString("servicebus.updatequeue"),
			BridgeQueue:      viper.GetString("servicebus.bridgequeue"),
		},
		Elastic: ElasticConfig{
			Enabled:  viper.GetBool("elastic.enabled"),
			URL:      viper.GetString("elastic.url"),
			Username: viper.GetString("elastic.username"),
			Password: viper.GetString("elastic.password"),
			Index:    viper.GetString("elastic.index"),
		},
		NewRelic: NewRelicConfig{
			AppName:    viper.GetString("newrelic.appname"),
			LicenseKey: viper.GetString("newrelic.licensekey"),
			Enabled:    viper.GetBool("newrelic.enabled"),
		},
		Worker: WorkerConfig{
			ReconcileInterval: viper.GetDuration("worker.reconcileinterval"),
			ReceiveBatchSize:  viper.GetInt("worker.receivebatchsize"),
		},
	}, nil
}
