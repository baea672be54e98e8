// Package config reads runtime settings (database DSN, Cloudinary and
// Brevo credentials, JWT secret, assets dir) from a .env file or the
// process environment.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config returns the value for key, loading .env into the environment
// first when the file is present. Already-set variables win over .env.
func Config(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	return os.Getenv(key)
}