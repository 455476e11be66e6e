package migrate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations failed validation: %v", err)
	}
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "001_bad_name.sql", "-- +goose Up\n-- +goose Down\n")

	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected an error for a non-timestamped filename")
	}
}

func TestValidateDirRejectsMissingGooseMarkers(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20260801120000_create_things.sql", "CREATE TABLE things (id int);")

	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected an error for a file without goose markers")
	}
}

func TestValidateDirRejectsDuplicateVersions(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "20260801120000_one.sql", "-- +goose Up\n-- +goose Down\n")
	writeMigration(t, dir, "20260801120000_two.sql", "-- +goose Up\n-- +goose Down\n")

	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected an error for duplicate versions")
	}
}

func writeMigration(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
