package config

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	API      APIConfig
	Server   ServerConfig
	Database DatabaseConfig
}

type APIConfig struct {
	Title    string
	Host     string
	Port     int
	LogLevel string
}

type ServerConfig struct {
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

type DatabaseConfig struct {
	Path       string
	Collection string
}

// Load loads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	rawPort := getEnv("API_PORT", "5000")
	port, err := strconv.Atoi(rawPort)
	if err != nil || port < 0 || port > 65535 {
		return nil, fmt.Errorf("invalid API_PORT %q", rawPort)
	}

	cfg := &Config{
		API: APIConfig{
			Title:    getEnv("API_TITLE", "People API"),
			Host:     getEnv("API_HOST", "0.0.0.0"),
			Port:     port,
			LogLevel: strings.ToLower(getEnv("API_LOG_LEVEL", "INFO")),
		},
		Server: ServerConfig{
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 15),
		},
		Database: DatabaseConfig{
			Path:       getEnv("DB_PATH", "./people.db"),
			Collection: getEnv("DB_COLLECTION", "people"),
		},
	}

	return cfg, nil
}

// Addr returns the host:port the HTTP server binds to
func (c *APIConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
