package config

import "time"

// Config is the root application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Database DatabaseConfig `yaml:"database"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Auth     AuthConfig     `yaml:"auth"`
	Campus   CampusConfig   `yaml:"campus"`
	Log      LogConfig      `yaml:"log"`
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Driver string `yaml:"driver" env:"STORE_DRIVER" env-default:"memory"`
}

// DatabaseConfig holds PostgreSQL connection settings (store.driver=postgres).
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// MongoConfig holds MongoDB connection settings (store.driver=mongo).
type MongoConfig struct {
	URI            string        `yaml:"uri"             env:"MONGO_URI"`
	Database       string        `yaml:"database"        env:"MONGO_DATABASE"        env-default:"freefood"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"MONGO_CONNECT_TIMEOUT" env-default:"10s"`
}

// AuthConfig holds session token and password hashing settings.
type AuthConfig struct {
	JWTSecret           string        `yaml:"jwt_secret"            env:"AUTH_JWT_SECRET"            env-required:"true"`
	JWTIssuer           string        `yaml:"jwt_issuer"            env:"AUTH_JWT_ISSUER"            env-default:"freefood"`
	SessionTTL          time.Duration `yaml:"session_ttl"           env:"AUTH_SESSION_TTL"           env-default:"720h"`
	PasswordHashCost    int           `yaml:"password_hash_cost"    env:"AUTH_PASSWORD_HASH_COST"    env-default:"10"`
	VerificationTTL     time.Duration `yaml:"verification_ttl"      env:"AUTH_VERIFICATION_TTL"      env-default:"24h"`
	AvailabilityDebounce time.Duration `yaml:"availability_debounce" env:"AUTH_AVAILABILITY_DEBOUNCE" env-default:"500ms"`
}

// CampusConfig holds institution-specific rules.
type CampusConfig struct {
	EmailDomain          string `yaml:"email_domain"       env:"CAMPUS_EMAIL_DOMAIN"       env-default:"berkeley.edu"`
	ReservedUsernamesRaw string `yaml:"reserved_usernames" env:"CAMPUS_RESERVED_USERNAMES" env-default:"admin,support,moderator,freefood,help"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
