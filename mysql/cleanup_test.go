package mysql

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"
)

func TestCleanupValidatesOptions(t *testing.T) {
	store := &Store{db: &sql.DB{}, table: "jobs", queries: newQueries("jobs")}

	if _, err := store.Cleanup(context.Background(), CleanupOptions{}); !errors.Is(err, ErrCleanupBeforeRequired) {
		t.Fatalf("Cleanup err = %v, want ErrCleanupBeforeRequired", err)
	}

	opts := CleanupOptions{Before: time.Now(), Limit: -1}
	if _, err := store.Cleanup(context.Background(), opts); !errors.Is(err, ErrCleanupLimitInvalid) {
		t.Fatalf("Cleanup err = %v, want ErrCleanupLimitInvalid", err)
	}
}

func TestNewCleanupMaintainerValidatesConfig(t *testing.T) {
	db := &sql.DB{}

	if _, err := NewCleanupMaintainer(nil, CleanupMaintainerConfig{Retention: time.Hour}); !errors.Is(err, ErrDBRequired) {
		t.Fatalf("err = %v, want ErrDBRequired", err)
	}
	if _, err := NewCleanupMaintainer(db, CleanupMaintainerConfig{}); !errors.Is(err, ErrCleanupRetentionInvalid) {
		t.Fatalf("err = %v, want ErrCleanupRetentionInvalid", err)
	}
	if _, err := NewCleanupMaintainer(db, CleanupMaintainerConfig{Retention: time.Hour, Limit: -1}); !errors.Is(err, ErrCleanupLimitInvalid) {
		t.Fatalf("err = %v, want ErrCleanupLimitInvalid", err)
	}

	m, err := NewCleanupMaintainer(db, CleanupMaintainerConfig{Retention: time.Hour})
	if err != nil {
		t.Fatalf("NewCleanupMaintainer failed: %v", err)
	}
	if m.cfg.Table != defaultTable {
		t.Fatalf("default table = %q, want %q", m.cfg.Table, defaultTable)
	}
	if m.cfg.LockName != defaultCleanupLockPrefix+defaultTable {
		t.Fatalf("default lock name = %q", m.cfg.LockName)
	}
}
