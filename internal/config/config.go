package config

import (
	"log"
	"os"
)

type Config struct {
	HTTPPort        string
	DatabaseDSN     string
	JWTSecret       string
	CORSOrigins     string
	DefaultTimezone string // zona horaria por defecto para compañías nuevas
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:     getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=acopio port=5432 sslmode=disable"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		CORSOrigins:     getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		DefaultTimezone: getEnv("DEFAULT_TIMEZONE", "America/Mexico_City"),
	}

	// Controles de seguridad para producción
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] La variable de entorno JWT_SECRET no está definida. Es obligatoria.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET debe tener al menos 32 caracteres.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=acopio port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN usa el valor por defecto; define tu propia conexión de Postgres en producción.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
