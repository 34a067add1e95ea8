package configs

import (
	"os"

	"github.com/joho/godotenv"
)

type Env struct {
	ALLOWED_ORIGINS string
	POSTGRES_URL    string
	HTTP_ADDR       string
	DEBUG           string
}

// Load reads the process environment, with a .env file as fallback for
// local runs.
func Load() Env {
	_ = godotenv.Load()

	env := Env{
		ALLOWED_ORIGINS: os.Getenv("ALLOWED_ORIGINS"),
		POSTGRES_URL:    os.Getenv("POSTGRES_URL"),
		HTTP_ADDR:       os.Getenv("HTTP_ADDR"),
		DEBUG:           os.Getenv("DEBUG"),
	}
	if env.HTTP_ADDR == "" {
		env.HTTP_ADDR = ":5000"
	}
	return env
}
