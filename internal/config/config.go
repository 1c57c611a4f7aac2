package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		// Default to info level for other environments
		log.SetLevel(logrus.InfoLevel)
	}
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Port int    `json:"port"`
	Host string `json:"host"`

	// Database configuration
	DBPath string `json:"db_path"`

	// Printer configuration. An empty port means auto-discovery.
	PrinterPort string `json:"printer_port"`
	PrinterBaud int    `json:"printer_baud"`

	// Logging configuration
	LogLevel string `json:"log_level"`
}

// String returns a string representation of Config
func (c *Config) String() string {
	printerPort := c.PrinterPort
	if printerPort == "" {
		printerPort = "auto"
	}
	return fmt.Sprintf("Config{Port: %d, Host: %s, DBPath: %s, PrinterPort: %s, PrinterBaud: %d, LogLevel: %s}",
		c.Port, c.Host, c.DBPath, printerPort, c.PrinterBaud, c.LogLevel)
}

// LoadConfig reads the proper configuration from environment variables and returns a Config struct
// Returns an error if a numeric environment variable cannot be parsed
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("PORT", "3000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	baud, err := strconv.Atoi(GetEnvWithDefault("PRINTER_BAUD", "9600"))
	if err != nil {
		return nil, fmt.Errorf("invalid PRINTER_BAUD: %w", err)
	}

	config := &Config{
		Port:        port,
		Host:        GetEnvWithDefault("APP_HOST", "0.0.0.0"),
		DBPath:      GetEnvWithDefault("DB_PATH", "comanda.sqlite"),
		PrinterPort: GetEnvWithDefault("PRINTER_PORT", ""),
		PrinterBaud: baud,
		LogLevel:    GetEnvWithDefault("LOG_LEVEL", "info"),
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
