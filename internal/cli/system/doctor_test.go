package system

import (
	"testing"
	"time"

	"github.com/julianstephens/dailycoach/internal/backup"
	"github.com/julianstephens/dailycoach/internal/storage/sqlite"
)

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()
	if err := ctx.Store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	// Missing backups and keyring are warnings, not failures
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v", err)
	}
}

func TestDoctorCmd_WithBackups(t *testing.T) {
	ctx, dbPath, cleanup := setupTestInitDB(t)
	defer cleanup()
	if err := ctx.Store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	if _, err := backup.NewManager(dbPath).Create(); err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}

	if err := checkBackupsPresent(ctx); err != nil {
		t.Errorf("checkBackupsPresent() = %v, want nil", err)
	}
}

func TestDoctorCmd_BrokenSchema(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()
	if err := ctx.Store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	db := ctx.Store.(*sqlite.Store).GetDB()
	if _, err := db.Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to clear schema version: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor command should fail when the schema version is missing")
	}
}

func TestDoctorCmd_Uninitialized(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("doctor command should fail when the database does not exist")
	}
}

func TestCheckClockTimezone(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		wantErr bool
	}{
		{"current", time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local), false},
		{"utc", time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), false},
		{"too early", time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"too late", time.Date(2200, 1, 1, 0, 0, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := checkClockTimezone(tt.now); (err != nil) != tt.wantErr {
				t.Errorf("checkClockTimezone() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
