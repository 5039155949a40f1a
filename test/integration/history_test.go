// Package integration provides end-to-end tests (requires real storage and config files).
package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/wordify/internal/config"
	"github.com/hyperjump/wordify/internal/extract"
	"github.com/hyperjump/wordify/internal/models"
	"github.com/hyperjump/wordify/internal/scanner"
	"github.com/hyperjump/wordify/internal/server"
	"github.com/hyperjump/wordify/internal/storage"
	"github.com/hyperjump/wordify/internal/wordify"
)

func TestIntegration_ConfigDrivenHistory(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "wordify.toml")
	content := `
[storage]
database_path = "./data/history.db"
history = true

[input]
encoding = "latin1"

[output]
serial_commas = true
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.DatabasePath != filepath.Join(dir, "data", "history.db") {
		t.Fatalf("database path = %q", cfg.Storage.DatabasePath)
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	sc := scanner.New(extract.NewExtractor(),
		scanner.WithStorage(store),
		scanner.WithEncoding(cfg.Input.Encoding),
		scanner.WithConvertOptions(wordify.WithSerialCommas(cfg.Output.SerialCommas)))
	ctx := context.Background()

	// "Café 1200" in ISO-8859-1.
	path := filepath.Join(dir, "menu.txt")
	if err := os.WriteFile(path, []byte("Caf\xe9 1200\n"), 0600); err != nil {
		t.Fatal(err)
	}
	res, err := sc.ScanFile(ctx, path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Conversions != 1 {
		t.Fatalf("conversions = %d, want 1", res.Conversions)
	}
	stored, err := store.ListConversionsBySource(ctx, res.SourceID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 || stored[0].Words != "one thousand, two hundred" {
		t.Fatalf("stored = %+v", stored)
	}

	ts := httptest.NewServer(server.NewServer(sc, store, cfg, nil).Handler())
	defer ts.Close()
	resp, err := http.Get(ts.URL + "/api/v1/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var status models.Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if status.Conversions != 1 || status.Sources != 1 || status.Database != cfg.Storage.DatabasePath {
		t.Errorf("status = %+v", status)
	}
	if status.DiskBytes <= 0 {
		t.Errorf("disk bytes = %d", status.DiskBytes)
	}
}
