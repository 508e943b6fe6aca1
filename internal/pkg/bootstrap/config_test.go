package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMergesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
app:
  port: 9000
  visitorFee: 12.5
  pollInterval: 3s
infra:
  kafka:
    brokers: ["k1:9092"]
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")
	t.Setenv("AUTH_JWT_SECRET", "from-env")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.App.Port != 9000 || cfg.App.VisitorFee != 12.5 {
		t.Fatalf("file values not applied: %+v", cfg.App)
	}
	if cfg.App.PollInterval != 3*time.Second {
		t.Fatalf("pollInterval = %v", cfg.App.PollInterval)
	}
	if cfg.App.CommissionRate != 0.10 {
		t.Fatalf("default commission rate lost: %v", cfg.App.CommissionRate)
	}
	if got := cfg.Infra.Kafka.Brokers; len(got) != 2 || got[1] != "b:9092" {
		t.Fatalf("brokers = %v", got)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Fatalf("jwt secret = %q", cfg.Auth.JWTSecret)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "dev.db"))
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.App.AdminEmail != "contato@alpha-se.com.br" || cfg.Sweep.Interval != time.Hour {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestValidateRejectsBadCommissionRate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.App.CommissionRate = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for a rate above 1")
	}
}

func TestValidateRejectsPlaceholderSecret(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Infra.SQLitePath = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("placeholder secret accepted outside dev mode")
	}
	cfg.Auth.JWTSecret = "  "
	if err := cfg.Validate(); err == nil {
		t.Fatal("blank secret accepted outside dev mode")
	}

	cfg.Auth.JWTSecret = "s3cr3t"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("real secret = %v", err)
	}

	dev := DefaultConfig()
	dev.Infra.SQLitePath = ":memory:"
	if err := dev.Validate(); err != nil {
		t.Fatalf("dev mode with placeholder = %v", err)
	}
}

func TestLoadConfigRequiresSecretOutsideDevMode(t *testing.T) {
	t.Setenv("SQLITE_PATH", "")
	t.Setenv("AUTH_JWT_SECRET", "")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for the default secret")
	}
}
