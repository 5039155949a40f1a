package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiskUsageBytes(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "wordify.db")

	got, err := DiskUsageBytes(db)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("missing database: got %d bytes, want 0", got)
	}

	if err := os.WriteFile(db, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(db+"-wal", []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err = DiskUsageBytes(db)
	if err != nil {
		t.Fatal(err)
	}
	if got != 8 {
		t.Errorf("db+wal: got %d bytes, want 8", got)
	}

	got, err = DiskUsageBytes("")
	if err != nil || got != 0 {
		t.Errorf("empty path: got %d, %v", got, err)
	}
}

func TestPathsSize_directory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "a"), []byte("ab"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b"), []byte("c"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := pathsSize(dir, filepath.Join(dir, "nonexistent"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 3 {
		t.Errorf("dir: got %d bytes, want 3", got)
	}
}
