package mysql

import (
	"strings"
	"testing"
)

func TestSchemaContainsExpectedColumns(t *testing.T) {
	ddl, err := Schema("notification_jobs")
	if err != nil {
		t.Fatalf("Schema failed: %v", err)
	}

	for _, col := range []string{
		"id BINARY(16)",
		"slot INT",
		"body MEDIUMTEXT",
		"status SMALLINT",
		"attempt_count INT",
		"next_attempt_at TIMESTAMP(6)",
		"delivered_at TIMESTAMP(6)",
		"INDEX idx_status_next (status, next_attempt_at)",
	} {
		if !strings.Contains(ddl, col) {
			t.Fatalf("schema missing %q:\n%s", col, ddl)
		}
	}
}

func TestSchemaRejectsInvalidTable(t *testing.T) {
	if _, err := Schema("jobs;drop"); err == nil {
		t.Fatal("Schema accepted an unsafe table name")
	}
}
