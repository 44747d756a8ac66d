package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/consultorio-iudc/estudiantes_db/store"
)

// Config is the application configuration
type Config struct {
	Database    store.Config
	OutputFile  string
	PreviewRows int
}

// Load reads an optional .env file and then the environment
func Load(files ...string) *Config {
	if err := godotenv.Load(files...); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only
func FromEnv() *Config {
	driver := getEnvOrDefault("DB_DRIVER", store.DriverPostgres)
	return &Config{
		Database: store.Config{
			Driver:     driver,
			Host:       getEnvOrDefault("DB_HOST", "localhost"),
			Port:       strconv.Itoa(getEnvIntOrDefault("DB_PORT", 5432)),
			Name:       getEnvOrDefault("DB_NAME", ""),
			User:       getEnvOrDefault("DB_USER", ""),
			Password:   getEnvOrDefault("DB_PASSWORD", ""),
			Schema:     getEnvOrDefault("DB_SCHEMA", store.DefaultSchema(driver)),
			SSLMode:    getEnvOrDefault("DB_SSLMODE", "disable"),
			SQLitePath: getEnvOrDefault("SQLITE_PATH", "estudiantes.db"),
		},
		OutputFile:  getEnvOrDefault("OUTPUT_FILE", "combined_data.xlsx"),
		PreviewRows: getEnvIntOrDefault("PREVIEW_ROWS", 20),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
