package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		Store: StoreConfig{Driver: "memory"},
		Auth: AuthConfig{
			JWTSecret:        strings.Repeat("s", 32),
			PasswordHashCost: 10,
		},
		Campus: CampusConfig{
			EmailDomain:          "berkeley.edu",
			ReservedUsernamesRaw: "admin,support",
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid memory config", mutate: func(c *Config) {}, wantErr: false},
		{
			name:    "unknown store driver",
			mutate:  func(c *Config) { c.Store.Driver = "dynamo" },
			wantErr: true,
		},
		{
			name:    "postgres without dsn",
			mutate:  func(c *Config) { c.Store.Driver = "postgres" },
			wantErr: true,
		},
		{
			name: "postgres with dsn",
			mutate: func(c *Config) {
				c.Store.Driver = "postgres"
				c.Database.DSN = "postgres://localhost/freefood"
			},
			wantErr: false,
		},
		{
			name:    "mongo without uri",
			mutate:  func(c *Config) { c.Store.Driver = "mongo" },
			wantErr: true,
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.Auth.JWTSecret = "short" },
			wantErr: true,
		},
		{
			name:    "hash cost too low",
			mutate:  func(c *Config) { c.Auth.PasswordHashCost = 2 },
			wantErr: true,
		},
		{
			name:    "empty email domain",
			mutate:  func(c *Config) { c.Campus.EmailDomain = "  " },
			wantErr: true,
		},
		{
			name:    "email domain with at sign",
			mutate:  func(c *Config) { c.Campus.EmailDomain = "@berkeley.edu" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCampusConfig_ReservedUsernames(t *testing.T) {
	t.Parallel()

	cfg := CampusConfig{ReservedUsernamesRaw: " admin, support ,,freefood "}
	got := cfg.ReservedUsernames()

	want := []string{"admin", "support", "freefood"}
	if len(got) != len(want) {
		t.Fatalf("ReservedUsernames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ReservedUsernames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
