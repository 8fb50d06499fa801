// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"platereader/pkg/plate"
)

// Config holds settings shared by the CLIs and the HTTP service.
type Config struct {
	DBDSN     string
	JWTSecret string
	HTTPAddr  string
	Language  string
	Profile   plate.Profile
	GPU       bool
	LogLevel  string
}

// LoadDotEnv loads ./.env (or the given files) without overriding variables
// already present in the environment. A missing file is not an error.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		_ = godotenv.Load(f)
	}
}

// Load reads the environment. Invalid values fall back to defaults.
func Load() Config {
	p, err := plate.ParseProfile(os.Getenv("PLATE_PROFILE"))
	if err != nil {
		p = plate.ProfileGeneric
	}
	return Config{
		DBDSN:     os.Getenv("DB_DSN"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		HTTPAddr:  getEnvOrDefault("HTTP_ADDR", ":8081"),
		Language:  getEnvOrDefault("PLATE_LANG", "eng"),
		Profile:   p,
		GPU:       getEnvAsBoolOrDefault("PLATE_GPU", true),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
	}
}

// PlateConfig is the reader construction config.
func (c Config) PlateConfig() plate.Config {
	return plate.Config{Profile: c.Profile, Language: c.Language, GPU: c.GPU}
}

func getEnvOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvAsBoolOrDefault(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "yes", "y", "on":
		return true
	case "no", "n", "off":
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
