package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	JWTAccessSecret          string
	JWTRefreshSecret         string
	JWTIssuer                string
	JWTAudience              string
	AccessTokenMinutes       int
	RefreshTokenDays         int
	ClientURL                string
	WSAuthTimeoutSeconds     int
	WSSendBuffer             int
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int
}

func Default() Config {
	return Config{
		JWTAccessSecret:          "dev-access-secret",
		JWTRefreshSecret:         "dev-refresh-secret",
		JWTIssuer:                "scory-api",
		JWTAudience:              "scory-client",
		AccessTokenMinutes:       15,
		RefreshTokenDays:         7,
		WSAuthTimeoutSeconds:     10,
		WSSendBuffer:             32,
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("JWT_ACCESS_SECRET"); raw != "" {
		cfg.JWTAccessSecret = raw
	}
	if raw := os.Getenv("JWT_REFRESH_SECRET"); raw != "" {
		cfg.JWTRefreshSecret = raw
	}
	if raw := os.Getenv("JWT_ISSUER"); raw != "" {
		cfg.JWTIssuer = raw
	}
	if raw := os.Getenv("JWT_AUDIENCE"); raw != "" {
		cfg.JWTAudience = raw
	}
	if raw := os.Getenv("ACCESS_TOKEN_MINUTES"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.AccessTokenMinutes = value
		}
	}
	if raw := os.Getenv("REFRESH_TOKEN_DAYS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.RefreshTokenDays = value
		}
	}
	if raw := os.Getenv("CLIENT_URL"); raw != "" {
		cfg.ClientURL = raw
	}
	if raw := os.Getenv("WS_AUTH_TIMEOUT_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.WSAuthTimeoutSeconds = value
		}
	}
	if raw := os.Getenv("WS_SEND_BUFFER"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.WSSendBuffer = value
		}
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_IDLE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxIdleTimeSeconds = value
		}
	}
	return cfg
}
