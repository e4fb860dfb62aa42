package config

import (
	"os"
	"strings"
)

// DatabaseConfig holds SurrealDB connection settings.
type DatabaseConfig struct {
	URL       string
	Namespace string
	Database  string
	User      string
	Pass      string
}

// AuthConfig holds settings for validating bearer tokens against the
// external issuer's published key set.
type AuthConfig struct {
	// Domain is the issuer base URL, e.g. https://tenant.auth0.com/
	// The JWKS endpoint is derived from it: <domain>/.well-known/jwks.json
	Domain string
	// Audience is the audience claim expected in incoming tokens.
	Audience string
}

// JWKSURL returns the issuer's published key set endpoint.
func (a AuthConfig) JWKSURL() string {
	return strings.TrimSuffix(a.Domain, "/") + "/.well-known/jwks.json"
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	// APIPath and APIVersion together form the mount point of every API
	// route: /{APIPath}/{APIVersion}
	APIPath    string
	APIVersion string
	Port       string
	Database   DatabaseConfig
	Auth       AuthConfig
}

// BasePath returns the mount point for the API router.
func (c *AppConfig) BasePath() string {
	return "/" + c.APIPath + "/" + c.APIVersion
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		APIPath:    getEnv("API_PATH", "api"),
		APIVersion: getEnv("API_VERSION", "v1"),
		Port:       getEnv("APP_PORT", "8080"), // default only for non-sensitive value
		Database: DatabaseConfig{
			URL:       getEnv("SURREALDB_URL", ""),
			Namespace: getEnv("SURREALDB_NAMESPACE", ""),
			Database:  getEnv("SURREALDB_DATABASE", ""),
			User:      getEnv("SURREALDB_USER", ""),
			Pass:      getEnv("SURREALDB_PASS", ""),
		},
		Auth: AuthConfig{
			Domain:   getEnv("AUTH_DOMAIN", ""),
			Audience: getEnv("AUTH_AUDIENCE", ""),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
