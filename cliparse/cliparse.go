package cliparse

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	VoterSalt     string
	AdminEmails   []string
	SweepInterval time.Duration
}

// ReportConfig holds settings for the report subcommand
type ReportConfig struct {
	DatabaseURL  string
	DatabaseType string
	ElectionID   string
	NoColor      bool
}

// LoadDotEnv reads KEY=value pairs from the given files (default ".env")
// into the process environment. Existing variables win and missing files
// are ignored.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var adminEmails string
	var sweep string

	flags := flag.NewFlagSet("quickly-elect", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	flags.IntVar(&cfg.Port, "p", 0, "Server port")
	flags.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	flags.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	flags.StringVar(&cfg.VoterSalt, "voter-salt", "", "Voter token salt (prefer env)")

	flags.StringVar(&adminEmails, "admin-emails", "", "Comma separated emails granted admin on registration")
	flags.StringVar(&sweep, "sweep", "", "Election status sweep interval (e.g. 30s, 1m)")

	if err := flags.Parse(args); err != nil {
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

	dbURL, dbType, err := resolveDatabase(cfg.DatabaseURL, cfg.DatabaseType)
	if err != nil {
		return Config{}, err
	}
	cfg.DatabaseURL, cfg.DatabaseType = dbURL, dbType

	// Secrets - MUST be provided
	if cfg.VoterSalt == "" {
		cfg.VoterSalt = os.Getenv("VOTER_TOKEN_SALT")
	}
	if cfg.VoterSalt == "" {
		return Config{}, errors.New("VOTER_TOKEN_SALT required")
	}

	if adminEmails == "" {
		adminEmails = os.Getenv("ADMIN_EMAILS")
	}
	cfg.AdminEmails = splitList(adminEmails)

	if sweep == "" {
		sweep = os.Getenv("STATUS_SWEEP_INTERVAL")
	}
	cfg.SweepInterval = time.Minute
	if sweep != "" {
		d, err := time.ParseDuration(sweep)
		if err != nil || d <= 0 {
			return Config{}, errors.New("invalid status sweep interval")
		}
		cfg.SweepInterval = d
	}

	return cfg, nil
}

// ParseReportFlags parses arguments for the report subcommand
func ParseReportFlags(args []string) (ReportConfig, error) {
	var cfg ReportConfig

	flags := flag.NewFlagSet("quickly-elect report", flag.ContinueOnError)
	flags.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	flags.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	flags.StringVar(&cfg.ElectionID, "e", "", "Election ID")
	flags.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")

	if err := flags.Parse(args); err != nil {
		return ReportConfig{}, err
	}
	if cfg.ElectionID == "" && flags.NArg() > 0 {
		cfg.ElectionID = flags.Arg(0)
	}
	if cfg.ElectionID == "" {
		return ReportConfig{}, errors.New("election ID required (use -e)")
	}

	dbURL, dbType, err := resolveDatabase(cfg.DatabaseURL, cfg.DatabaseType)
	if err != nil {
		return ReportConfig{}, err
	}
	cfg.DatabaseURL, cfg.DatabaseType = dbURL, dbType

	return cfg, nil
}

func resolveDatabase(url, typ string) (string, string, error) {
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		return "", "", errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if typ == "" {
		typ = os.Getenv("DATABASE_TYPE")
		if typ == "" {
			typ = DatabaseSQLite
		}
	}
	if typ != DatabaseSQLite && typ != DatabasePostgres {
		return "", "", errors.New("database type must be sqlite or postgres")
	}
	return url, typ, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
