package models

import "time"

// Config holds all configuration for the application.
type Config struct {
	// Application
	AppName    string `mapstructure:"app_name"`
	AppVersion string `mapstructure:"app_version"`
	AppEnv     string `mapstructure:"app_env"`
	AppHost    string `mapstructure:"app_host"`
	AppPort    string `mapstructure:"app_port"`

	// JWT (tokens are issued by the platform gateway; this service only
	// verifies them)
	JWTSecret    string        `mapstructure:"jwt_secret"`
	JWTExpiresIn time.Duration `mapstructure:"jwt_expires_in"`

	// PostgreSQL
	DatabaseURL     string `mapstructure:"database_url"`
	DatabaseMaxConn int32  `mapstructure:"database_max_conn"`

	// RabbitMQ command transport
	AMQPURL          string `mapstructure:"amqp_url"`
	AMQPCommandQueue string `mapstructure:"amqp_command_queue"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// CORS
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Defaults for listings
	DefaultPerPage int `mapstructure:"default_per_page"`

	// Worker
	SearchVectorCron string `mapstructure:"search_vector_cron"`
	HeartbeatEnabled bool   `mapstructure:"heartbeat_enabled"`

	// Base Path
	BasePath string `mapstructure:"basePath"`
}
