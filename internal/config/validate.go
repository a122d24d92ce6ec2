package config

import (
	"fmt"
	"strings"
)

// storeDrivers lists the supported document store backends.
var storeDrivers = map[string]bool{
	"memory":   true,
	"postgres": true,
	"mongo":    true,
}

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if !storeDrivers[c.Store.Driver] {
		return fmt.Errorf("store.driver must be one of memory, postgres, mongo (got %q)", c.Store.Driver)
	}
	if c.Store.Driver == "postgres" && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required when store.driver=postgres")
	}
	if c.Store.Driver == "mongo" && c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri is required when store.driver=mongo")
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.PasswordHashCost < 4 || c.Auth.PasswordHashCost > 31 {
		return fmt.Errorf("auth.password_hash_cost must be between 4 and 31 (got %d)", c.Auth.PasswordHashCost)
	}

	if strings.TrimSpace(c.Campus.EmailDomain) == "" {
		return fmt.Errorf("campus.email_domain must not be empty")
	}
	if strings.Contains(c.Campus.EmailDomain, "@") {
		return fmt.Errorf("campus.email_domain must not contain '@' (got %q)", c.Campus.EmailDomain)
	}

	return nil
}

// ReservedUsernames parses the comma-separated reserved username list.
// Entries are trimmed; empty entries are skipped.
func (c CampusConfig) ReservedUsernames() []string {
	parts := strings.Split(c.ReservedUsernamesRaw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		names = append(names, p)
	}
	return names
}
