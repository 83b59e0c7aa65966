package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/mandates/models"
)

const defaultEnvFile = ".env"

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AdminKeySalt string
	SeatTotal    int
	Threshold    float64
	Debug        bool
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string

	fs := flag.NewFlagSet("mandates", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite, postgres or pgx)")

	// Apportionment defaults for submitted elections
	fs.IntVar(&cfg.SeatTotal, "seats", 0, "Seat total when an election omits it")
	fs.Float64Var(&cfg.Threshold, "threshold", 0, "Threshold percentage when an election omits it")
	fs.BoolVar(&cfg.Debug, "debug", false, "Log apportionment stages")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	fs.StringVar(&envFile, "env", defaultEnvFile, "Environment file to load")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	switch cfg.DatabaseType {
	case "sqlite", "postgres", "pgx":
	default:
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType != "sqlite" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "file:mandates.db"
	}

	if cfg.SeatTotal == 0 {
		if s := os.Getenv("SEAT_TOTAL"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return Config{}, errors.New("invalid SEAT_TOTAL env variable")
			}
			cfg.SeatTotal = n
		} else {
			cfg.SeatTotal = models.DefaultSeatTotal
		}
	}
	if cfg.SeatTotal <= 0 {
		return Config{}, errors.New("seat total must be positive")
	}

	if cfg.Threshold == 0 {
		if s := os.Getenv("THRESHOLD"); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return Config{}, errors.New("invalid THRESHOLD env variable")
			}
			cfg.Threshold = v
		} else {
			cfg.Threshold = models.DefaultThreshold
		}
	}
	if cfg.Threshold < 0 || cfg.Threshold > 100 {
		return Config{}, errors.New("threshold must be within [0, 100]")
	}

	if !cfg.Debug && os.Getenv("DEBUG") != "" {
		cfg.Debug = true
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	return cfg, nil
}

// loadEnvFile loads variables that are not already set.
// A missing default file is ignored; a missing explicit file is an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) && path == defaultEnvFile {
		return nil
	}
	return fmt.Errorf("failed to load env file %s: %w", path, err)
}
