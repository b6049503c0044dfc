package mysql

import "testing"

func TestSanitizeTableName(t *testing.T) {
	for _, name := range []string{"notification_jobs", "telesim.jobs", "Jobs01"} {
		if _, err := sanitizeTableName(name); err != nil {
			t.Fatalf("sanitizeTableName(%q) failed: %v", name, err)
		}
	}

	for _, name := range []string{"", "jobs;drop", "jobs table", ".jobs", "jobs."} {
		if _, err := sanitizeTableName(name); err == nil {
			t.Fatalf("sanitizeTableName(%q) accepted an unsafe name", name)
		}
	}
}
