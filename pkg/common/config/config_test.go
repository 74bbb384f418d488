package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("DefaultsWithoutFile", func(t *testing.T) {
		cfg, err := Load(t.TempDir())
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.Database.Driver != "sqlite" {
			t.Errorf("Expected default driver sqlite, got %s", cfg.Database.Driver)
		}
		if cfg.Database.Name != "geostore.db" {
			t.Errorf("Expected default database name, got %s", cfg.Database.Name)
		}
		if cfg.Workers != 4 {
			t.Errorf("Expected 4 workers, got %d", cfg.Workers)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Expected info log level, got %s", cfg.Log.Level)
		}
	})

	t.Run("LoadExistingConfig", func(t *testing.T) {
		dir := t.TempDir()
		content := `{"debug": true, "database": {"name": "fixture.db"}, "log": {"level": "debug"}, "workers": 2}`
		if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create test config file: %v", err)
		}

		cfg, err := Load(dir)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !cfg.Debug {
			t.Error("Expected debug to be true")
		}
		if cfg.Database.Name != "fixture.db" {
			t.Errorf("Expected fixture.db, got %s", cfg.Database.Name)
		}
		if cfg.Database.Driver != "sqlite" {
			t.Errorf("Expected driver default to survive partial file, got %s", cfg.Database.Driver)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("Expected debug log level, got %s", cfg.Log.Level)
		}
		if cfg.Workers != 2 {
			t.Errorf("Expected 2 workers, got %d", cfg.Workers)
		}
	})

	t.Run("EnvironmentOverride", func(t *testing.T) {
		t.Setenv("GEOSTORE_DATABASE_DRIVER", "postgres")
		t.Setenv("GEOSTORE_DATABASE_DSN", "postgres://u:p@localhost/geostore")

		cfg, err := Load(t.TempDir())
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.Database.Driver != "postgres" {
			t.Errorf("Expected postgres driver, got %s", cfg.Database.Driver)
		}
		if cfg.Database.DSN != "postgres://u:p@localhost/geostore" {
			t.Errorf("Unexpected dsn %s", cfg.Database.DSN)
		}
	})

	t.Run("MalformedFile", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"debug":`), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := Load(dir); err == nil {
			t.Error("Expected error for malformed config file")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, true},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = "postgres" }, true},
		{"sqlite without name", func(c *Config) { c.Database.Name = "" }, true},
		{"sqlite with dsn only", func(c *Config) { c.Database.Name = ""; c.Database.DSN = "file::memory:" }, false},
		{"postgres with schema", func(c *Config) {
			c.Database.Driver = "postgres"
			c.Database.DSN = "host=localhost"
			c.Database.Schema = "fixture"
		}, false},
		{"postgres with bad schema", func(c *Config) {
			c.Database.Driver = "postgres"
			c.Database.DSN = "host=localhost"
			c.Database.Schema = "bad name"
		}, true},
		{"zero workers", func(c *Config) { c.Workers = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGet(t *testing.T) {
	mu.Lock()
	appConfig = nil
	mu.Unlock()

	if Get().Database.Driver != "sqlite" {
		t.Error("Expected defaults before Load")
	}
	if Get().Debug {
		t.Error("Expected debug to be false by default")
	}

	mu.Lock()
	appConfig = &Config{Debug: true}
	mu.Unlock()
	if !Get().Debug {
		t.Error("Expected the loaded config after set")
	}
}
