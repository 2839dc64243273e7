package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalTransport = `
telegram:
  token: "123:abc"
  admin_id: 42
`

func TestLoadAppliesCafeDefaults(t *testing.T) {
	path := writeConfig(t, minimalTransport)

	cfg, warnings, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Cafe.Name == "" || cfg.Cafe.Phone == "" {
		t.Fatalf("cafe defaults not applied: %+v", cfg.Cafe)
	}
	if cfg.Cafe.MaxQuantity != 5 || cfg.Cafe.MaxParty != 12 {
		t.Fatalf("bounds = %d/%d", cfg.Cafe.MaxQuantity, cfg.Cafe.MaxParty)
	}
	if cfg.Storage.Driver != StorageMemory {
		t.Fatalf("driver = %q, want memory", cfg.Storage.Driver)
	}
	if len(warnings) == 0 {
		t.Fatal("expected fallback warnings for the missing cafe section")
	}
}

func TestLoadParsesCafeSection(t *testing.T) {
	path := writeConfig(t, minimalTransport+`
cafe:
  name: "Тестовая"
  phone: "+7 (111) 222-33-44"
  max_quantity: 10
  hours: { open: 8, close: 22 }
  menu:
    - { name: "Кофе", price: 200 }
    - { name: "Чай", price: 150 }
storage:
  driver: memory
`)

	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Cafe.Name != "Тестовая" || cfg.Cafe.MaxQuantity != 10 {
		t.Fatalf("cafe = %+v", cfg.Cafe)
	}
	if cfg.Cafe.Hours.Open != 8 || cfg.Cafe.Hours.Close != 22 {
		t.Fatalf("hours = %+v", cfg.Cafe.Hours)
	}

	cat, warnings := cfg.BuildCatalog()
	if len(warnings) != 0 {
		t.Fatalf("unexpected catalog warnings: %v", warnings)
	}
	if cat.Len() != 2 {
		t.Fatalf("catalog len = %d", cat.Len())
	}
	if p, err := cat.PriceOf("Кофе"); err != nil || p != 200 {
		t.Fatalf("price = %d err = %v", p, err)
	}
}

func TestLoadRejectsBadStorageDriver(t *testing.T) {
	path := writeConfig(t, minimalTransport+`
storage:
  driver: redis
`)
	if _, _, err := Load(path); err == nil || !strings.Contains(err.Error(), "storage.driver") {
		t.Fatalf("expected storage.driver error, got %v", err)
	}
}

func TestBuildCatalogFallsBackOnInvalidMenu(t *testing.T) {
	path := writeConfig(t, minimalTransport+`
cafe:
  menu:
    - { name: "Кофе", price: -1 }
`)
	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	cat, warnings := cfg.BuildCatalog()
	if len(warnings) == 0 {
		t.Fatal("expected a fallback warning")
	}
	if cat.Len() == 0 {
		t.Fatal("default catalog must not be empty")
	}
}
