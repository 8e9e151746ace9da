package env

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var values map[string]string

// envFiles are probed in order so the binary works from the repo root,
// from cmd/velolab and from the test working directories.
var envFiles = []string{
	".env",
	"../../.env",
	"../../../.env",
}

// SetupEnvFile loads the first .env file found.
func SetupEnvFile() {
	for _, f := range envFiles {
		if loaded, err := godotenv.Read(f); err == nil {
			values = loaded
			return
		}
	}
	panic("no .env file found in any of the expected locations")
}

// GetEnv returns the value for key, preferring the process environment over
// the loaded .env file, falling back to def.
func GetEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v, ok := values[key]; ok {
		return v
	}
	return def
}

// GetEnvInt parses the value for key as an integer, falling back to def on
// absence or parse failure.
func GetEnvInt(key string, def int) int {
	v := GetEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
