package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitialSchemaContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_initial_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no initial schema migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TYPE user_role AS ENUM ('vendor', 'supplier')",
		"CREATE TYPE product_status AS ENUM ('active', 'fulfilled', 'shipped', 'cancelled')",
		"CHECK (unit_price > 0)",
		"CHECK (min_bulk_quantity > 0)",
		"CHECK (current_quantity >= 0)",
		"CHECK (quantity > 0)",
		"CHECK (rating BETWEEN 1 AND 5)",
		"CONSTRAINT idx_contributions_product_vendor UNIQUE (product_id, vendor_id)",
		"CONSTRAINT idx_reviews_product_vendor UNIQUE (product_id, vendor_id)",
		"CREATE INDEX idx_notifications_user_created ON notifications(user_id, created_at DESC)",
		"DROP TABLE IF EXISTS notifications",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
