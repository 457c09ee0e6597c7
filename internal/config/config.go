package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database    DatabaseConfig
	Server      ServerConfig
	Redis       RedisConfig
	Compliance  ComplianceConfig
	Scheduler   SchedulerConfig
	Environment string
	FrontendURL string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MaxIdle  int
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

// ComplianceConfig holds thresholds and screening switches for
// transaction compliance checks
type ComplianceConfig struct {
	AMLThresholdAmount       float64
	EnableAMLThresholdCheck  bool
	EnableSuspiciousPatterns bool
	EnablePEPScreening       bool
	EnableSanctionsScreening bool
	EscalationAssignee       string
	LEICode                  string
	CollaboratorTimeout      time.Duration
}

// SchedulerConfig holds the report scheduler settings. TickInterval
// coarser than once per day risks skipping exact-date notification
// windows, so keep it sub-daily.
type SchedulerConfig struct {
	TickInterval time.Duration
}

// New creates a new Config from environment variables
func New() *Config {
	// Load .env file if present
	_ = godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", "postgres://localhost:5432/fire22_compliance?sslmode=disable"),
			MaxConns: getEnvInt("DATABASE_MAX_CONNS", 20),
			MaxIdle:  getEnvInt("DATABASE_MAX_IDLE", 5),
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 30),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 30),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Compliance: ComplianceConfig{
			AMLThresholdAmount:       getEnvFloat("AML_THRESHOLD_AMOUNT", 10000),
			EnableAMLThresholdCheck:  getEnvBool("ENABLE_AML_THRESHOLD_CHECK", true),
			EnableSuspiciousPatterns: getEnvBool("ENABLE_SUSPICIOUS_PATTERNS", true),
			EnablePEPScreening:       getEnvBool("ENABLE_PEP_SCREENING", true),
			EnableSanctionsScreening: getEnvBool("ENABLE_SANCTIONS_SCREENING", true),
			EscalationAssignee:       getEnv("ESCALATION_ASSIGNEE", "compliance_team"),
			LEICode:                  getEnv("LEI_CODE", ""),
			CollaboratorTimeout:      getEnvDuration("COLLABORATOR_TIMEOUT", 30*time.Second),
		},
		Scheduler: SchedulerConfig{
			TickInterval: getEnvDuration("SCHEDULER_TICK_INTERVAL", time.Hour),
		},
		Environment: getEnv("ENVIRONMENT", "development"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets an environment variable as a float or returns a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
