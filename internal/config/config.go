package config

import (
	"os"
	"strings"
)

type Config struct {
	Port           string
	AllowedOrigins []string
}

func Load() Config {
	cfg := Config{
		Port: getEnv("PORT", "5000"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{
			"https://hardcorechessorg.github.io",
			"http://localhost:3000",
		}),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var list []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	if len(list) == 0 {
		return fallback
	}
	return list
}
