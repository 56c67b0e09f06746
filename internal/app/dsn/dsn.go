// Package dsn assembles the postgres connection string from the
// environment.
package dsn

import (
	"fmt"
	"os"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// FromEnv builds a DSN from DB_* environment variables.
func FromEnv() string {
	host := env("DB_HOST", "localhost")
	port := env("DB_PORT", "5432")
	user := env("DB_USER", "postgres")
	pass := env("DB_PASS", "postgres")
	name := env("DB_NAME", "cgl_op")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, pass, name)
}
