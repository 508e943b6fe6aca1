package database

import (
	"strings"
	"testing"

	"github.com/klausterra/alpha-se-1/internal/pkg/bootstrap"
)

func TestDSN(t *testing.T) {
	dsn := DSN(bootstrap.MySQLConfig{Addr: "db:3306", User: "app", Password: "s3cret", Database: "alphase"})
	for _, want := range []string{"app:s3cret@tcp(db:3306)/alphase", "parseTime=true", "charset=utf8mb4"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("DSN %q missing %q", dsn, want)
		}
	}
}

func TestOpenFromConfigPrefersSQLite(t *testing.T) {
	cfg := bootstrap.DefaultConfig()
	cfg.Infra.SQLitePath = ":memory:"
	db, err := OpenFromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if name := db.Dialector.Name(); name != "sqlite" {
		t.Fatalf("dialector = %s", name)
	}
}
