package migrate_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/marketplace-checkout/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations: %v", err)
	}
}

func TestOrderSetMigrationEnforcesUniqueCart(t *testing.T) {
	content := readMigration(t, "*_create_orders_and_links.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS order_sets",
		"CONSTRAINT ux_order_sets_cart_id UNIQUE (cart_id)",
		"CONSTRAINT ux_links_pair UNIQUE (left_module, left_id, right_module, right_id)",
		"DROP TABLE IF EXISTS order_sets",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestInventoryMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_inventory.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS inventory_levels",
		"CONSTRAINT ux_inventory_levels_variant_channel UNIQUE (variant_id, sales_channel_id)",
		"CHECK (reserved_quantity >= 0)",
		"CONSTRAINT ux_reservation_items_line_item UNIQUE (line_item_id)",
		"DROP TABLE IF EXISTS reservation_items",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestRankMigrationAddsPositionColumns(t *testing.T) {
	content := readMigration(t, "*_rank_child_rows.sql")

	for _, table := range []string{"cart_items", "cart_shipping_methods", "payment_sessions", "order_line_items", "order_shipping_methods", "links"} {
		add := "ALTER TABLE " + table + " ADD COLUMN IF NOT EXISTS position integer NOT NULL DEFAULT 0"
		drop := "ALTER TABLE " + table + " DROP COLUMN IF EXISTS position"
		if !strings.Contains(content, add) {
			t.Errorf("missing expected statement %q", add)
		}
		if !strings.Contains(content, drop) {
			t.Errorf("missing expected statement %q", drop)
		}
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Order Notes!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_order_notes.sql") {
		t.Fatalf("unexpected migration path %q", path)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %s", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestEmbeddedMigrationsMatchDisk(t *testing.T) {
	onDisk, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	embedded, err := fs.Glob(migrate.Embedded(), "*.sql")
	if err != nil {
		t.Fatalf("glob embedded: %v", err)
	}
	if len(embedded) != len(onDisk) {
		t.Fatalf("expected %d embedded migrations, got %d", len(onDisk), len(embedded))
	}
}

func TestEmbeddedMigrationsValidate(t *testing.T) {
	if err := migrate.ValidateFS(migrate.Embedded()); err != nil {
		t.Fatalf("validate embedded migrations: %v", err)
	}
}

func TestValidateDirRejectsUnbalancedStatements(t *testing.T) {
	dir := t.TempDir()
	body := "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n\n-- +goose Down\nSELECT 1;\n"
	if err := os.WriteFile(filepath.Join(dir, "20260101000000_broken.sql"), []byte(body), 0o644); err != nil {
		t.Fatalf("write migration: %v", err)
	}
	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatalf("expected unbalanced statement markers to fail validation")
	}
}
