// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseFlags_EnvVars(t *testing.T) {
	// Set env vars
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_URL", "postgres://test")
	os.Setenv("DATABASE_TYPE", "postgres")
	os.Setenv("VOTER_TOKEN_SALT", "test-salt")
	os.Setenv("ADMIN_EMAILS", "Root@Example.com, ops@example.com")
	os.Setenv("STATUS_SWEEP_INTERVAL", "30s")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabasePostgres {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if len(cfg.AdminEmails) != 2 || cfg.AdminEmails[0] != "root@example.com" {
		t.Errorf("unexpected admin emails: %v", cfg.AdminEmails)
	}
	if cfg.SweepInterval != 30*time.Second {
		t.Errorf("expected 30s sweep, got %s", cfg.SweepInterval)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-voter-salt", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabaseSQLite {
		t.Errorf("expected sqlite default, got %s", cfg.DatabaseType)
	}
	if cfg.SweepInterval != time.Minute {
		t.Errorf("expected default 1m sweep, got %s", cfg.SweepInterval)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	defer os.Clearenv()

	tests := []struct {
		name string
		args []string
	}{
		{"missing database", []string{"-voter-salt", "s"}},
		{"missing salt", []string{"-d", "file:test.db"}},
		{"bad database type", []string{"-d", "x", "-t", "mysql", "-voter-salt", "s"}},
		{"bad sweep", []string{"-d", "x", "-voter-salt", "s", "-sweep", "soon"}},
		{"negative sweep", []string{"-d", "x", "-voter-salt", "s", "-sweep", "-5s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseReportFlags(t *testing.T) {
	defer os.Clearenv()
	os.Setenv("DATABASE_URL", "file:test.db")

	cfg, err := ParseReportFlags([]string{"-no-color", "election-1"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ElectionID != "election-1" {
		t.Errorf("expected positional election id, got %q", cfg.ElectionID)
	}
	if !cfg.NoColor {
		t.Error("expected NoColor")
	}

	if _, err := ParseReportFlags([]string{}); err == nil {
		t.Error("expected error without election id")
	}
}

func TestLoadDotEnv(t *testing.T) {
	defer os.Clearenv()
	os.Clearenv()
	os.Setenv("PORT", "7000")

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("PORT=1111\nVOTER_TOKEN_SALT=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := LoadDotEnv(path); err != nil {
		t.Fatal(err)
	}

	// Existing env wins
	if got := os.Getenv("PORT"); got != "7000" {
		t.Errorf("expected PORT to stay 7000, got %s", got)
	}
	if got := os.Getenv("VOTER_TOKEN_SALT"); got != "from-file" {
		t.Errorf("expected salt from file, got %q", got)
	}

	// Missing files are ignored
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing file should be ignored, got %v", err)
	}
}
