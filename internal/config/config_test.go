package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/dailycoach/internal/constants"
)

var allEnv = []string{EnvConfigFile, EnvDatabase, EnvAddr, EnvTokenSecret, EnvTokenTTL, EnvLogDir, EnvDebug}

// isolate clears config env vars and runs the test from an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range allEnv {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to chdir to %s: %v", dir, err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(Options{})
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Database != constants.DefaultConfigPath {
		t.Errorf("Database = %q, want %q", cfg.Database, constants.DefaultConfigPath)
	}
	if cfg.Addr != constants.DefaultAddr || cfg.TokenTTL != constants.DefaultTokenTTL {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty", cfg.Source)
	}
}

func TestLoadLayers(t *testing.T) {
	dir := isolate(t)

	writeFile(t, filepath.Join(dir, constants.DefaultConfigFile), `
database: /data/coach.db
addr: ":9000"
token_ttl: 2h
debug: true
`)
	writeFile(t, filepath.Join(dir, ".env"), EnvAddr+"=:9100\n")

	cfg, err := Load(Options{})
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Source != constants.DefaultConfigFile {
		t.Errorf("Source = %q", cfg.Source)
	}
	if cfg.Database != "/data/coach.db" {
		t.Errorf("Database = %q, want value from YAML", cfg.Database)
	}
	if cfg.TokenTTL != 2*time.Hour || !cfg.Debug {
		t.Errorf("TokenTTL/Debug = %v/%v, want 2h/true", cfg.TokenTTL, cfg.Debug)
	}
	if cfg.Addr != ":9100" {
		t.Errorf("Addr = %q, want .env to override YAML", cfg.Addr)
	}
}

func TestEnvOverridesDotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "custom.env"), EnvDatabase+"=/from/dotenv.db\n")
	t.Setenv(EnvDatabase, "/from/env.db")
	t.Setenv(EnvTokenTTL, "30m")
	t.Setenv(EnvDebug, "1")

	cfg, err := Load(Options{EnvFile: filepath.Join(dir, "custom.env")})
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Database != "/from/env.db" {
		t.Errorf("Database = %q, want the process env to win", cfg.Database)
	}
	if cfg.TokenTTL != 30*time.Minute || !cfg.Debug {
		t.Errorf("TokenTTL/Debug = %v/%v", cfg.TokenTTL, cfg.Debug)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dir string) Options
		want  string
	}{
		{
			name: "explicit file missing",
			setup: func(t *testing.T, dir string) Options {
				return Options{File: filepath.Join(dir, "nope.yaml")}
			},
			want: "failed to read config file",
		},
		{
			name: "env file path missing",
			setup: func(t *testing.T, dir string) Options {
				t.Setenv(EnvConfigFile, filepath.Join(dir, "nope.yaml"))
				return Options{}
			},
			want: "failed to read config file",
		},
		{
			name: "bad yaml",
			setup: func(t *testing.T, dir string) Options {
				path := filepath.Join(dir, "bad.yaml")
				writeFile(t, path, "database: [unterminated")
				return Options{File: path}
			},
			want: "failed to parse config file",
		},
		{
			name: "bad ttl",
			setup: func(t *testing.T, dir string) Options {
				t.Setenv(EnvTokenTTL, "forever")
				return Options{}
			},
			want: EnvTokenTTL,
		},
		{
			name: "bad debug",
			setup: func(t *testing.T, dir string) Options {
				t.Setenv(EnvDebug, "sometimes")
				return Options{}
			},
			want: EnvDebug,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			_, err := Load(tt.setup(t, dir))
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	secret := strings.Repeat("s", constants.MinTokenSecretLen)

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   bool
		wantServe bool
	}{
		{"defaults", func(*Config) {}, false, true},
		{"with secret", func(c *Config) { c.TokenSecret = secret }, false, false},
		{"empty database", func(c *Config) { c.Database = " "; c.TokenSecret = secret }, true, true},
		{"zero ttl", func(c *Config) { c.TokenTTL = 0; c.TokenSecret = secret }, true, true},
		{"short secret", func(c *Config) { c.TokenSecret = "short" }, false, true},
		{"empty addr", func(c *Config) { c.Addr = ""; c.TokenSecret = secret }, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err := cfg.ValidateServe(); (err != nil) != tt.wantServe {
				t.Errorf("ValidateServe() error = %v, wantErr %v", err, tt.wantServe)
			}
		})
	}
}

func TestIsPostgres(t *testing.T) {
	tests := []struct {
		db   string
		want bool
	}{
		{"postgres://coach@db/dailycoach", true},
		{"postgresql://coach@db/dailycoach", true},
		{"/home/coach/.config/dailycoach/dailycoach.db", false},
		{"host=db user=coach", false},
	}
	for _, tt := range tests {
		if got := (Config{Database: tt.db}).IsPostgres(); got != tt.want {
			t.Errorf("IsPostgres(%q) = %v, want %v", tt.db, got, tt.want)
		}
	}
}
