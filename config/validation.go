package config

import (
	"fmt"
	"strings"
)

// requiredFields lists configuration that must be present per environment.
// Development and test fall back to local defaults so the suite can run
// without a populated environment.
var requiredFields = map[Environment][]string{
	CI:         {"DBUser", "DBPassword", "JWTSecret"},
	Production: {"DBUser", "DBPassword", "JWTSecret"},
}

// ValidateConfig checks the configuration against the requirements of the
// current environment.
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()

	var missing []string
	for _, field := range requiredFields[env] {
		switch field {
		case "DBUser":
			if cfg.DBUser == "" {
				missing = append(missing, "DB_USER")
			}
		case "DBPassword":
			if cfg.DBPassword == "" {
				missing = append(missing, "DB_PASSWORD")
			}
		case "JWTSecret":
			if cfg.JWTSecret == "" {
				missing = append(missing, "JWT_SECRET")
			}
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
